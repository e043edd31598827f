//go:build windows

package internal

import (
	"os"
	"syscall"
	"unsafe"
)

// skipSystemLocale can be set to true in tests to skip OS-level locale detection
var skipSystemLocale = false

var (
	kernel32                 = syscall.NewLazyDLL("kernel32.dll")
	procGetUserDefaultLocale = kernel32.NewProc("GetUserDefaultLocaleName")
)

// detectSystemLocale returns the locale used for number formatting on
// Windows. Environment variables win so that WSL shells and tests behave
// like Unix; otherwise GetUserDefaultLocaleName is asked.
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

	const maxLen = 85 // LOCALE_NAME_MAX_LENGTH

	buf := make([]uint16, maxLen)
	ret, _, _ := procGetUserDefaultLocale.Call(
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(maxLen),
	)
	if ret == 0 {
		return ""
	}
	return syscall.UTF16ToString(buf)
}
