package internal

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency formats statement totals in one currency.
type Currency struct {
	Code    string // "KZT", "USD", "EUR"
	unit    currency.Unit
	known   bool
	tag     language.Tag
	printer *message.Printer
}

// symbolOverrides provides symbols x/text does not render well in a terminal
var symbolOverrides = map[string]string{
	"KZT": "₸",
	"RUB": "₽",
	"CNY": "¥",
}

// defaultLocaleForCurrency is the "home" locale used when no display locale
// was detected. Statements are Kazakh, so most codes fall back to Russian.
var defaultLocaleForCurrency = map[string]language.Tag{
	"KZT": language.Russian,
	"RUB": language.Russian,
	"USD": language.AmericanEnglish,
	"EUR": language.German,
	"GBP": language.BritishEnglish,
	"CNY": language.Chinese,
	"CHF": language.German,
	"TRY": language.Turkish,
	"KGS": language.Russian,
	"UZS": language.Russian,
}

// displayLocale is the locale set by DetectDisplayLocale, if any
var displayLocale language.Tag

// GetCurrency returns the Currency for a given code. Codes that are not ISO
// 4217 still format, with the code itself as the symbol.
func GetCurrency(code string) Currency {
	code = strings.ToUpper(strings.TrimSpace(code))

	// Priority: detected display locale > home locale for currency > Russian
	tag := language.Russian
	if displayLocale != language.Und {
		tag = displayLocale
	} else if t, ok := defaultLocaleForCurrency[code]; ok {
		tag = t
	}

	return GetCurrencyWithLocale(code, tag)
}

// GetCurrencyWithLocale returns a Currency with a specific locale for formatting.
func GetCurrencyWithLocale(code string, tag language.Tag) Currency {
	code = strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(code)
	return Currency{
		Code:    code,
		unit:    unit,
		known:   err == nil,
		tag:     tag,
		printer: message.NewPrinter(tag),
	}
}

// DetectDisplayLocale picks the number formatting locale from the OS.
// On Linux/Unix: checks LC_ALL, LC_NUMERIC and LANG
// On macOS: checks env vars first, then falls back to AppleLocale
// On Windows: uses GetUserDefaultLocaleName
// Returns false and keeps the defaults when detection fails.
func DetectDisplayLocale() bool {
	tag := parseLocale(detectSystemLocale())
	if tag == language.Und {
		return false
	}
	displayLocale = tag
	return true
}

// parseLocale converts a POSIX locale string to a language tag.
// Examples: "ru_KZ.UTF-8" -> ru-KZ, "kk_KZ@latin" -> kk-KZ
func parseLocale(locale string) language.Tag {
	base := locale
	if idx := strings.Index(base, "."); idx != -1 {
		base = base[:idx]
	}
	if idx := strings.Index(base, "@"); idx != -1 {
		base = base[:idx]
	}
	if base == "" {
		return language.Und
	}

	tag, err := language.Parse(strings.Replace(base, "_", "-", 1))
	if err != nil {
		return language.Und
	}
	return tag
}

// Symbol returns the currency symbol, using overrides where needed
func (c Currency) Symbol() string {
	if sym, ok := symbolOverrides[c.Code]; ok {
		return sym
	}
	if !c.known {
		return c.Code
	}
	return c.printer.Sprint(currency.NarrowSymbol(c.unit))
}

// isPrefix returns true if this currency symbol should be placed before the amount.
// golang.org/x/text/currency does not expose CLDR symbol placement, so the
// prefix currencies are listed by hand.
func (c Currency) isPrefix() bool {
	switch c.Code {
	case "USD", "GBP", "CNY", "JPY", "CAD", "AUD", "HKD", "SGD":
		return true
	default:
		return false
	}
}

// Format formats an amount with two decimals and the currency symbol
func (c Currency) Format(amount decimal.Decimal) string {
	f := amount.Round(2).InexactFloat64()
	formatted := c.printer.Sprint(number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	symbol := c.Symbol()

	if c.isPrefix() {
		return symbol + formatted
	}
	return formatted + " " + symbol
}
