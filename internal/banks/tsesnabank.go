package banks

import (
	"strings"

	"github.com/gigurra/kz-statements/internal/normalize"
	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

// Tsesnabank ships debit and credit as separate sheets named "дебет" and
// "кредит"; the sheet name is the only direction signal. The single
// counterparty column goes to the payer side on credit sheets and to the
// recipient side on debit sheets.
var tsesnabank = &format{
	id:      "tsesnabank",
	bank:    "АО Цеснабанк",
	score:   scoreTsesnabank,
	extract: extractTsesnabank,
}

var tsesnabankColumns = []colRule{
	{field: "date", all: []string{"дата", "операц"}},
	{field: "date", any: []string{"=дата"}},
	{field: "amount", any: []string{"сумма"}},
	{field: "currency", any: []string{"валюта"}},
	{field: "counterparty", any: []string{"контрагент", "корреспондент", "наименование"}},
	{field: "iin", any: []string{"иин", "бин"}},
	{field: "purpose", any: []string{"назначение"}},
	{field: "corr_account", all: []string{"счет", "корресп"}},
}

func scoreTsesnabank(s *sheet.Sheet, fc sheet.FileContext) float64 {
	if anyCell(s, 10, func(c string) bool {
		return containsAny(strings.ToUpper(c), "ЦЕСНАБАНК", "TSESKZKA")
	}) {
		return 0.95
	}
	if fc.FolderHas("цеснабанк") {
		return 0.8
	}
	return 0
}

// sheetDirection reads the direction from a sheet named after the side.
func sheetDirection(name string) statement.Direction {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "кредит"):
		return statement.Income
	case strings.Contains(n, "дебет"):
		return statement.Expense
	}
	return statement.Unknown
}

func extractTsesnabank(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{account: lastMatch(s, 15, ibanLong)}
	rows := s.Rows
	direction := sheetDirection(s.Name)

	headerIdx := findRow(rows, 20, func(t string) bool {
		return strings.Contains(t, "дата") && containsAny(t, "сумма", "назначение") ||
			containsAny(t, "контрагент", "корреспондент")
	})
	if headerIdx < 0 {
		return r.fail("Header not found")
	}
	cols := mapColumns(rows[headerIdx], tsesnabankColumns)

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
		amount := cols.amount(row, "amount")
		t := statement.Transaction{
			Date:        normalize.Date(date),
			Amount:      amount,
			Currency:    orString(cols.currency(row, "currency"), "KZT"),
			AmountLocal: amount,
			Direction:   direction,
			Purpose:     cols.str(row, "purpose"),
		}
		t.Counterparty(cols.str(row, "counterparty"), cols.iin(row, "iin"), "", "")
		r.add(t)
	}
	return r
}
