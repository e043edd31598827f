package normalize

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var amountStripper = strings.NewReplacer(
	" ", "", "\u00a0", "", "\u202f", "", "\t", "",
	"₸", "", "$", "", "€", "",
)

// Amount parses a cell into a decimal rounded to two places.
//
// Separator rules for strings: when both ',' and '.' occur the right-most one
// is the decimal point and the other groups thousands; a single ',' is a
// decimal comma; a separator that occurs more than once with nothing else
// only groups thousands.
func Amount(v any) decimal.NullDecimal {
	switch x := v.(type) {
	case nil:
		return decimal.NullDecimal{}
	case decimal.Decimal:
		return valid(x)
	case decimal.NullDecimal:
		if !x.Valid {
			return x
		}
		return valid(x.Decimal)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.NullDecimal{}
		}
		return valid(decimal.NewFromFloat(x))
	case float32:
		return Amount(float64(x))
	case int:
		return valid(decimal.NewFromInt(int64(x)))
	case int64:
		return valid(decimal.NewFromInt(x))
	}

	s := amountStripper.Replace(strings.TrimSpace(Text(v)))
	if s == "" {
		return decimal.NullDecimal{}
	}

	commas, dots := strings.Count(s, ","), strings.Count(s, ".")
	switch {
	case commas > 0 && dots > 0:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case commas == 1:
		s = strings.Replace(s, ",", ".", 1)
	case commas > 1:
		s = strings.ReplaceAll(s, ",", "")
	case dots > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return valid(d)
}

// AbsAmount is Amount without the sign, for formats that carry direction
// in a signed column.
func AbsAmount(v any) decimal.NullDecimal {
	a := Amount(v)
	if a.Valid {
		a.Decimal = a.Decimal.Abs()
	}
	return a
}

// Positive reports whether a is present and greater than zero.
func Positive(a decimal.NullDecimal) bool {
	return a.Valid && a.Decimal.IsPositive()
}

// FirstNonZero returns the first present, non-zero amount.
func FirstNonZero(amounts ...decimal.NullDecimal) decimal.NullDecimal {
	for _, a := range amounts {
		if a.Valid && !a.Decimal.IsZero() {
			return a
		}
	}
	return decimal.NullDecimal{}
}

func valid(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d.Round(2), Valid: true}
}
