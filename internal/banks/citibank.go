package banks

import (
	"strings"

	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

// Citibank issues certificates ("Справка по движению денег") rather than
// statements. When a table is present it has sender and recipient names
// but no direction and no account.
var citibank = &format{
	id:      "citibank",
	bank:    "АО Ситибанк Казахстан",
	score:   scoreCitibank,
	extract: extractCitibank,
}

var citibankColumns = []colRule{
	{field: "date", any: []string{"дата"}},
	{field: "amount", any: []string{"сумма"}},
	{field: "currency", any: []string{"валюта"}},
	{field: "sender", any: []string{"отправитель", "плательщик"}},
	{field: "recipient", any: []string{"получатель"}},
	{field: "purpose", any: []string{"назначение"}},
	{field: "iin", any: []string{"иин", "бин"}, first: true},
}

func scoreCitibank(s *sheet.Sheet, fc sheet.FileContext) float64 {
	if anyCell(s, 5, func(c string) bool {
		return strings.Contains(strings.ToLower(c), "справка по движению")
	}) {
		return 0.9
	}
	if fc.FolderHas("ситибанк", "citibank") {
		return 0.8
	}
	if fc.FilenameHas("справка") && fc.FilenameHas("spsd") {
		return 0.85
	}
	return 0
}

func extractCitibank(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{}
	rows := s.Rows

	headerIdx := findRow(rows, 20, func(t string) bool {
		return strings.Contains(t, "дата") && containsAny(t, "сумма", "получатель", "отправитель")
	})
	if headerIdx < 0 {
		return r.warn("Certificate format: limited transaction data")
	}
	cols := mapColumns(rows[headerIdx], citibankColumns)

	for _, row := range rows[headerIdx+1:] {
		if isEmptyRow(row) || cols.get(row, "date") == nil {
			continue
		}
		r.add(statement.Transaction{
			Date:      cols.date(row, "date"),
			Amount:    cols.amount(row, "amount"),
			Currency:  cols.currency(row, "currency"),
			Payer:     cols.str(row, "sender"),
			Recipient: cols.str(row, "recipient"),
			Purpose:   cols.str(row, "purpose"),
		})
	}
	return r
}
