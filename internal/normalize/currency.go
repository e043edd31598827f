package normalize

import (
	"strings"

	"golang.org/x/text/currency"
)

var currencyNames = map[string]string{
	"ТЕНГЕ":            "KZT",
	"ТГ":               "KZT",
	"ТЕНГЕ (KZT)":      "KZT",
	"РУБ":              "RUB",
	"ДОЛЛАР":           "USD",
	"ДОЛЛАР США":       "USD",
	"ЕВРО":             "EUR",
	"ЮАНЬ":             "CNY",
	"КИТАЙСКИЙ ЮАНЬ":   "CNY",
	"РУБЛЬ":            "RUB",
	"РОССИЙСКИЙ РУБЛЬ": "RUB",
}

var currencyNumeric = map[string]string{
	"398": "KZT",
	"840": "USD",
	"978": "EUR",
	"156": "CNY",
	"643": "RUB",
}

// Currency resolves a currency cell ("KZT - Тенге", "ДОЛЛАР США", "398", "usd")
// to a three-letter code. Unknown values are upper-cased and kept.
func Currency(v any) string {
	s := strings.TrimSpace(Text(v))
	if s == "" {
		return ""
	}
	if code, _, found := strings.Cut(s, " - "); found {
		s = strings.TrimSpace(code)
	}

	upper := strings.ToUpper(s)
	if IsISOCurrency(upper) {
		return upper
	}
	if code, ok := currencyNames[upper]; ok {
		return code
	}
	if code, ok := currencyNumeric[s]; ok {
		return code
	}
	return upper
}

// IsISOCurrency reports whether code is a known ISO 4217 code.
func IsISOCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	_, err := currency.ParseISO(code)
	return err == nil
}
