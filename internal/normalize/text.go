// Package normalize converts raw spreadsheet cell values into canonical
// transaction field values. Every function is total: bad input yields an
// empty or invalid result, never an error.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Text renders a raw cell value as a string. Integral numbers lose their
// fractional part, dates use the ISO layout.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	case decimal.Decimal:
		return x.String()
	case decimal.NullDecimal:
		if !x.Valid {
			return ""
		}
		return x.Decimal.String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

// Lower is the trimmed, lower-cased Text of a cell. Header matching works on it.
func Lower(v any) string {
	return strings.ToLower(strings.TrimSpace(Text(v)))
}

// CleanString trims, collapses whitespace runs and maps "none" to empty.
func CleanString(v any) string {
	s := strings.TrimSpace(Text(v))
	if s == "" || strings.EqualFold(s, "none") {
		return ""
	}
	return strings.Join(strings.Fields(s), " ")
}
