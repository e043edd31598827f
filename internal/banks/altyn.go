package banks

import (
	"strings"

	"github.com/gigurra/kz-statements/internal/normalize"
	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

// Altyn Bank: a title row, then a 17-column header with an explicit
// "Направление" column and both parties spelled out, residency included.
var altyn = &format{
	id:      "altyn",
	bank:    "АО Altyn Bank",
	score:   scoreAltyn,
	extract: extractAltyn,
}

var altynColumns = []colRule{
	{field: "date", any: []string{"дата и время"}},
	{field: "currency", any: []string{"=валюта"}},
	{field: "direction", any: []string{"=направление"}},
	{field: "amount", any: []string{"сумма операции"}},
	{field: "amount_tenge", any: []string{"сумма в тенге"}},
	{field: "payer", all: []string{"плательщик"}, any: []string{"наименование", "фио"}},
	{field: "payer_iin", all: []string{"иин", "плательщик"}},
	{field: "payer_bank", any: []string{"банк плательщик"}},
	{field: "payer_account", all: []string{"плательщик"}, any: []string{"счет", "счёт"}},
	{field: "recipient", all: []string{"получател"}, any: []string{"наименование", "фио"}},
	{field: "recipient_iin", all: []string{"иин", "получател"}},
	{field: "recipient_bank", any: []string{"банк получател"}},
	{field: "recipient_account", all: []string{"получател"}, any: []string{"счет", "счёт"}},
	{field: "knp", any: []string{"код назначен"}},
	{field: "purpose", any: []string{"описание", "назначение"}},
}

func scoreAltyn(s *sheet.Sheet, fc sheet.FileContext) float64 {
	if fc.FolderHas("altyn bank") {
		return 0.85
	}
	if anyCell(s, 5, func(c string) bool { return strings.Contains(strings.ToLower(c), "altyn bank") }) {
		return 0.85
	}
	if findRow(s.Rows, 5, func(t string) bool {
		return containsAll(t, "направление", "сумма операции", "описание")
	}) >= 0 {
		return 0.8
	}
	return 0
}

func extractAltyn(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{}
	rows := s.Rows

	headerIdx := findRow(rows, 10, func(t string) bool {
		return containsAll(t, "дата и время операции", "направление")
	})
	if headerIdx < 0 {
		return r.fail("Header not found")
	}
	cols := mapColumns(rows[headerIdx], altynColumns)

	for _, row := range rows[headerIdx+1:] {
		if isEmptyRow(row) || cols.get(row, "date") == nil {
			continue
		}
		r.add(statement.Transaction{
			Date:             cols.date(row, "date"),
			Amount:           cols.amount(row, "amount"),
			Currency:         cols.currency(row, "currency"),
			AmountLocal:      cols.amount(row, "amount_tenge"),
			Direction:        normalize.DirectionFromText(cols.str(row, "direction")),
			Payer:            cols.str(row, "payer"),
			PayerID:          cols.iin(row, "payer_iin"),
			PayerBank:        cols.str(row, "payer_bank"),
			PayerAccount:     cols.str(row, "payer_account"),
			Recipient:        cols.str(row, "recipient"),
			RecipientID:      cols.iin(row, "recipient_iin"),
			RecipientBank:    cols.str(row, "recipient_bank"),
			RecipientAccount: cols.str(row, "recipient_account"),
			KNP:              cols.str(row, "knp"),
			Purpose:          cols.str(row, "purpose"),
		})
	}
	return r
}
