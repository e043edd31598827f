package normalize

import (
	"strings"
)

// IINBIN normalizes a Kazakh individual/business identification number to
// 12 digits. Numeric cells lose leading zeros, so shorter values are
// left-padded. A value without digits is returned as-is.
func IINBIN(v any) string {
	s := strings.TrimSpace(Text(v))
	if s == "" || strings.EqualFold(s, "none") {
		return ""
	}

	s = strings.TrimLeft(s, "'")
	if strings.Contains(s, ".") && strings.Trim(strings.ReplaceAll(s, ".", ""), "0") != "" {
		s, _, _ = strings.Cut(s, ".")
	}
	s = strings.NewReplacer(" ", "", "\u00a0", "").Replace(s)

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return s
	}
	if len(digits) < 12 {
		digits = strings.Repeat("0", 12-len(digits)) + digits
	}
	return digits
}
