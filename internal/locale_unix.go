//go:build !windows && !darwin

package internal

import "os"

// skipSystemLocale can be set to true in tests to skip OS-level locale detection
var skipSystemLocale = false

// detectSystemLocale returns the locale used for number formatting on
// Unix-like systems: LC_ALL overrides LC_NUMERIC, which overrides LANG.
func detectSystemLocale() string {
	for _, envVar := range []string{"LC_ALL", "LC_NUMERIC", "LANG"} {
		locale := os.Getenv(envVar)
		if locale != "" && locale != "C" && locale != "POSIX" && locale != "C.UTF-8" {
			return locale
		}
	}
	return ""
}
