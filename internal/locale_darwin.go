//go:build darwin

package internal

import (
	"os"
	"os/exec"
	"strings"
)

// skipSystemLocale can be set to true in tests to skip OS-level locale detection
var skipSystemLocale = false

// detectSystemLocale returns the locale used for number formatting on macOS.
// Terminal overrides in the environment win over the AppleLocale preference.
func detectSystemLocale() string {
	for _, envVar := range []string{"LC_ALL", "LC_NUMERIC", "LANG"} {
		locale := os.Getenv(envVar)
		if locale != "" && locale != "C" && locale != "POSIX" && locale != "C.UTF-8" {
			return locale
		}
	}

	if skipSystemLocale {
		return ""
	}
	out, err := exec.Command("defaults", "read", "-g", "AppleLocale").Output()
	if err != nil {
		return ""
	}
	// AppleLocale is already "ru_KZ" style
	return strings.TrimSpace(string(out))
}
