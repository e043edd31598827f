package normalize

import (
	"strings"
	"time"
)

// dateLayouts are tried in order. Day and month accept one or two digits.
var dateLayouts = []string{
	"2006-01-02 15:04:05",        // 2023-12-20 17:19:00
	"2006-01-02T15:04:05.999999", // 2024-10-16T17:00:23.000
	"2006-01-02T15:04:05",        // 2024-10-16T17:00:23
	"2006.01.02 15:04:05",        // 2024.11.22 15:49:14
	"2.1.2006 15:04:05",          // 07.02.2020 00:00:00
	"2/1/2006 15:04:05",          // 06/02/2020 09:18:48
	"2.1.2006",                   // 07.02.2020
	"2/1/2006",                   // 14/06/2017
	"2006-01-02",                 // 2023-12-20
	"2.1.06",                     // 06.08.15
	time.RFC3339,                 // legacy xls reader output
}

// DateLayouts returns the accepted string layouts in match order.
func DateLayouts() []string {
	return append([]string(nil), dateLayouts...)
}

// Date renders a cell as YYYY-MM-DD, or YYYY-MM-DD HH:MM:SS when the time of
// day is not midnight. Unrecognized strings come back trimmed but otherwise
// unchanged, so callers must not assume the result is a date.
func Date(v any) string {
	if v == nil {
		return ""
	}
	if t, ok := v.(time.Time); ok {
		return formatDate(t)
	}
	s := strings.TrimSpace(Text(v))
	if s == "" {
		return ""
	}
	if t, ok := ParseDate(s); ok {
		return formatDate(t)
	}
	return s
}

// ParseDate tries every known layout against s.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsDate reports whether the cell holds a date value or a string in a known layout.
func IsDate(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case time.Time:
		return true
	case string:
		_, ok := ParseDate(x)
		return ok
	}
	return false
}

func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}
