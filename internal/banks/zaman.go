package banks

import (
	"strings"

	"github.com/gigurra/kz-statements/internal/normalize"
	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

// Zaman-Bank (Islamic bank): a metadata block with the bank name and BIC
// ZAJSKZ22, then a 12-column table with debit and credit columns.
var zaman = &format{
	id:      "zaman",
	bank:    "АО Исламский банк Заман-Банк",
	score:   scoreZaman,
	extract: extractZaman,
}

var zamanColumns = []colRule{
	{field: "date", any: []string{"дата"}, when: func(_ string, c columns) bool { return !c.has("date") }},
	{field: "debit", any: []string{"дебет"}},
	{field: "credit", any: []string{"кредит"}},
	{field: "amount", any: []string{"сумма"}},
	{field: "currency", any: []string{"валюта"}},
	{field: "purpose", any: []string{"назначение", "описание"}},
	{field: "payer", any: []string{"плательщик", "отправитель"}},
	{field: "recipient", any: []string{"получатель"}},
	{field: "iin", any: []string{"иин", "бин"}, first: true},
}

func scoreZaman(s *sheet.Sheet, fc sheet.FileContext) float64 {
	if anyCell(s, 5, func(c string) bool { return containsAny(c, "Заман-Банк", "ZAJSKZ22") }) {
		return 0.95
	}
	if fc.FolderHas("заман") {
		return 0.8
	}
	return 0
}

func extractZaman(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{account: lastMatch(s, 10, ibanLong)}
	rows := s.Rows

	headerIdx := findRow(rows, 15, func(t string) bool {
		return strings.Contains(t, "дата") && containsAny(t, "сумма", "дебет", "кредит")
	})
	if headerIdx < 0 {
		return r.fail("Header not found")
	}
	cols := mapColumns(rows[headerIdx], zamanColumns)

	for _, row := range rows[headerIdx+1:] {
		if isEmptyRow(row) {
			continue
		}
		date := cols.get(row, "date")
		if date == nil {
			continue
		}
		if _, ok := date.(string); ok && isSummary(date, "итого", "остаток") {
			continue
		}
		debit, credit := cols.amount(row, "debit"), cols.amount(row, "credit")
		amount := orAmount(cols.amount(row, "amount"), credit, debit)
		r.add(statement.Transaction{
			Date:        normalize.Date(date),
			Amount:      amount,
			Currency:    orString(cols.currency(row, "currency"), "KZT"),
			AmountLocal: amount,
			Direction:   normalize.Direction(normalize.Hints{Debit: debit, Credit: credit}),
			Payer:       cols.str(row, "payer"),
			PayerID:     cols.iin(row, "iin"),
			Recipient:   cols.str(row, "recipient"),
			Purpose:     cols.str(row, "purpose"),
		})
	}
	return r
}
