package banks

import (
	"strings"

	"github.com/gigurra/kz-statements/internal/normalize"
	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

// Development Bank of Kazakhstan: a system report ("PC01_515_S", SWIFT
// DVKAKZKA) whose header can sit twenty rows deep, usually followed by a
// "док. / корресп." sub-header. The account only appears in the file name.
var bankRazvitiya = &format{
	id:      "bank-razvitiya",
	bank:    "АО Банк Развития Казахстана",
	score:   scoreBankRazvitiya,
	extract: extractBankRazvitiya,
}

var bankRazvitiyaColumns = []colRule{
	{field: "date", any: []string{"дата"}},
	{field: "ref", any: []string{"референс"}},
	{field: "amount", any: []string{"сумма"}, none: []string{"тенге"}},
	{field: "amount_tenge", any: []string{"тенге"}},
	{field: "currency", any: []string{"валюта"}},
	{field: "corr_bank", all: []string{"корресп", "банк"}},
	{field: "corr_account", all: []string{"корресп", "счет"}},
	{field: "purpose", any: []string{"назначение"}},
	{field: "debit", any: []string{"дебет"}},
	{field: "credit", any: []string{"кредит"}},
}

func scoreBankRazvitiya(s *sheet.Sheet, fc sheet.FileContext) float64 {
	if anyCell(s, 5, func(c string) bool { return containsAny(c, "DVKAKZKA", "PC01_515") }) {
		return 0.95
	}
	if anyCell(s, 5, func(c string) bool { return strings.Contains(c, "Банк Развития") }) {
		return 0.9
	}
	if fc.FolderHas("банк развития") {
		return 0.8
	}
	return 0
}

func extractBankRazvitiya(s *sheet.Sheet, fc sheet.FileContext) *sheetResult {
	r := &sheetResult{account: accountFromFilename(fc.Filename)}
	rows := s.Rows

	headerIdx := findRow(rows, 40, func(t string) bool {
		return strings.Contains(t, "дата") && containsAny(t, "референс", "корресп")
	})
	if headerIdx < 0 {
		return r.warn("System code format").fail("Header not found")
	}
	cols := mapColumns(rows[headerIdx], bankRazvitiyaColumns)

	dataStart := headerIdx + 1
	if dataStart < len(rows) && containsAny(rowText(rows[dataStart]), "док", "корресп") {
		dataStart++
	}

	for _, row := range rows[min(dataStart, len(rows)):] {
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
		amount := cols.amount(row, "amount")
		if !normalize.FirstNonZero(amount).Valid {
			amount = orAmount(credit, debit)
		}
		r.add(statement.Transaction{
			Date:             normalize.Date(date),
			Amount:           amount,
			Currency:         orString(cols.currency(row, "currency"), "KZT"),
			AmountLocal:      cols.amount(row, "amount_tenge"),
			Direction:        normalize.Direction(normalize.Hints{Debit: debit, Credit: credit}),
			RecipientBank:    cols.str(row, "corr_bank"),
			RecipientAccount: cols.str(row, "corr_account"),
			Purpose:          cols.str(row, "purpose"),
			DocumentNumber:   cols.str(row, "ref"),
		})
	}
	return r
}
