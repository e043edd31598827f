package banks

import (
	"strings"

	"github.com/gigurra/kz-statements/internal/normalize"
	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

// Tengri Bank: metadata block with "Валюта: ..." and the IBAN, then a
// 13-column table with debit/credit split into currency and national
// coverage ("нац.покрытие") columns. The only party data is the
// counterparty IIN and correspondent account.
var tengri = &format{
	id:      "tengri",
	bank:    "АО Tengri Bank",
	score:   scoreTengri,
	extract: extractTengri,
}

var tengriColumns = []colRule{
	{field: "date", any: []string{"=дата", "дата опер"}},
	{field: "iin", any: []string{"иин", "бин"}},
	{field: "corr_account", any: []string{"счет-корреспондент", "корресп"}},
	{field: "description", any: []string{"описание"}},
	{field: "debit", all: []string{"дебет", "валют"}},
	{field: "credit", all: []string{"кредит", "валют"}},
	{field: "debit_tenge", all: []string{"дебет", "покрыт"}},
	{field: "credit_tenge", all: []string{"кредит", "покрыт"}},
	{field: "debit", any: []string{"=дебет"}},
	{field: "credit", any: []string{"=кредит"}},
}

func scoreTengri(s *sheet.Sheet, fc sheet.FileContext) float64 {
	if anyCell(s, 5, func(c string) bool { return strings.Contains(c, "Tengri Bank") }) {
		return 0.95
	}
	if fc.FolderHas("tengri") {
		return 0.8
	}
	return 0
}

func extractTengri(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{account: lastMatch(s, 15, ibanLong)}
	rows := s.Rows
	currency, _ := extractCellValue(rows, "валюта:", 15)

	headerIdx := findRow(rows, 20, func(t string) bool {
		return strings.Contains(t, "дата") && containsAny(t, "дебет", "кредит")
	})
	if headerIdx < 0 {
		return r.fail("Header not found")
	}
	cols := mapColumns(rows[headerIdx], tengriColumns)

	for _, row := range rows[headerIdx+1:] {
		if isEmptyRow(row) {
			continue
		}
		date := cols.get(row, "date")
		if date == nil {
			continue
		}
		if _, ok := date.(string); ok && isSummary(date, "итого", "остаток", "входящий") {
			continue
		}
		debit, credit := cols.amount(row, "debit"), cols.amount(row, "credit")
		r.add(statement.Transaction{
			Date:         normalize.Date(date),
			Amount:       orAmount(credit, debit),
			Currency:     normalize.Currency(currency),
			AmountLocal:  orAmount(cols.amount(row, "credit_tenge"), cols.amount(row, "debit_tenge")),
			Direction:    normalize.Direction(normalize.Hints{Debit: debit, Credit: credit}),
			PayerID:      cols.iin(row, "iin"),
			PayerAccount: cols.str(row, "corr_account"),
			Purpose:      cols.str(row, "description"),
		})
	}
	return r
}
