package banks

import (
	"strings"
	"unicode"

	"github.com/gigurra/kz-statements/internal/normalize"
	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

// Kassa Nova: five fixed columns (date, beneficiary/sender, BIN/IIN,
// amount, purpose) split into sections by "Входящие платежи" and
// "Исходящие платежи" rows. The current section is the direction. Delta
// Bank uses a similar layout but says "Наименование компании", which rules
// Kassa Nova out.
var kassaNova = &format{
	id:      "kassa-nova",
	bank:    "АО Банк Kassa Nova",
	score:   scoreKassaNova,
	extract: extractKassaNova,
}

func scoreKassaNova(s *sheet.Sheet, fc sheet.FileContext) float64 {
	var sections, beneficiary, company bool
	for _, row := range s.Head(15) {
		for _, v := range row {
			switch c := lower(v); {
			case c == "входящие платежи", c == "исходящие платежи":
				sections = true
			case strings.Contains(c, "поступления на текущий счет"):
				sections = true
			}
		}
		t := rowText(row)
		if strings.Contains(t, "бенефициар") {
			beneficiary = true
		}
		if strings.Contains(t, "наименование компании") {
			company = true
		}
	}

	folder := fc.FolderHas("kassa nova")
	switch {
	case company:
		return 0
	case sections && beneficiary:
		return 0.95
	case sections && folder:
		return 0.95
	case sections && s.NumCols() <= 6:
		return 0.85
	case sections:
		return 0.6
	case beneficiary:
		return 0.85
	case folder:
		return 0.7
	}
	return 0
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func extractKassaNova(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{}
	direction := statement.Unknown

	for _, row := range s.Rows {
		if isEmptyRow(row) {
			continue
		}
		for _, v := range row {
			c := lower(v)
			switch {
			case strings.Contains(c, "входящие"):
				direction = statement.Income
			case strings.Contains(c, "исходящие"):
				direction = statement.Expense
			}
		}

		first := cellAt(row, 0)
		if fs, ok := first.(string); ok {
			fl := strings.ToLower(strings.TrimSpace(fs))
			if fl == "" || containsAny(fl, "дата", "входящ", "исходящ") {
				continue
			}
			if !hasDigit(fs) {
				continue
			}
		}
		if first == nil || len(row) < 4 {
			continue
		}

		amount := normalize.Amount(cellAt(row, 3))
		if !amount.Valid {
			continue
		}
		t := statement.Transaction{
			Date:        normalize.Date(first),
			Amount:      amount,
			Currency:    "KZT",
			AmountLocal: amount,
			Direction:   direction,
			Purpose:     normalize.CleanString(cellAt(row, 4)),
		}
		t.Counterparty(normalize.CleanString(cellAt(row, 1)), normalize.IINBIN(cellAt(row, 2)), "", "")
		r.add(t)
	}
	return r
}
