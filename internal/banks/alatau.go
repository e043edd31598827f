package banks

import (
	"strings"

	"github.com/gigurra/kz-statements/internal/normalize"
	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

// Alatau City Bank "Statement_standard_KZ....xlsx" exports. Debit and
// credit turnover columns carry the direction, the IBAN is in the file
// name. Empty statements have no header at all and only produce a warning.
var alatauCity = &format{
	id:      "alatau-city",
	bank:    "АО Alatau City Bank",
	score:   scoreAlatau,
	extract: extractAlatau,
}

var alatauColumns = []colRule{
	{field: "date", any: []string{"дата"}},
	{field: "debit", any: []string{"дебетовый оборот"}},
	{field: "debit", all: []string{"дебет", "оборот"}},
	{field: "credit", any: []string{"кредитовый оборот"}},
	{field: "credit", all: []string{"кредит", "оборот"}},
	{field: "currency", any: []string{"валюта"}},
	{field: "payer", any: []string{"плательщик"}},
	{field: "recipient", any: []string{"получатель"}},
	{field: "purpose", any: []string{"назначение"}},
	{field: "iin", any: []string{"иин", "бин"}, first: true},
}

func scoreAlatau(s *sheet.Sheet, fc sheet.FileContext) float64 {
	switch {
	case fc.FilenameHas("statement_standard"):
		return 0.95
	case fc.FolderHas("alatau"):
		return 0.8
	case strings.Contains(headText(s, 10), "alatau city"):
		return 0.85
	}
	return 0
}

func extractAlatau(s *sheet.Sheet, fc sheet.FileContext) *sheetResult {
	r := &sheetResult{account: ibanLong.FindString(fc.Filename)}
	rows := s.Rows

	headerIdx := findRow(rows, 20, func(t string) bool {
		return strings.Contains(t, "дата") && containsAny(t, "дебет", "кредит", "оборот") ||
			containsAny(t, "плательщик", "получатель")
	})
	if headerIdx < 0 {
		return r.warn("No data rows found")
	}
	cols := mapColumns(rows[headerIdx], alatauColumns)

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
		amount := orAmount(credit, debit)
		r.add(statement.Transaction{
			Date:        normalize.Date(date),
			Amount:      amount,
			Currency:    cols.currency(row, "currency"),
			AmountLocal: amount,
			Direction:   normalize.Direction(normalize.Hints{Debit: debit, Credit: credit}),
			Payer:       cols.str(row, "payer"),
			Recipient:   cols.str(row, "recipient"),
			Purpose:     cols.str(row, "purpose"),
		})
	}
	return r
}
