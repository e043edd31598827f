package banks

import (
	"github.com/gigurra/kz-statements/internal/normalize"
	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

// genericLedger is the catch-all for ledgers no bank format claims: any
// sheet with a date column and either debit/credit or amount columns, in
// Russian or English. It scores exactly the accept threshold so every bank
// format outranks it.
var genericLedger = &format{
	id:      "generic-ledger",
	bank:    "Неизвестный банк",
	score:   scoreGenericLedger,
	extract: extractGenericLedger,
}

const genericScore = 0.3

var genericColumns = []colRule{
	{field: "date", any: []string{"дата", "date"}, first: true},
	{field: "counterparty", any: []string{"контрагент", "корреспондент", "counterparty", "payee", "beneficiary"}, none: []string{"счет", "счёт", "account"}},
	{field: "iin", any: []string{"иин", "бин", "=iin", "=bin"}},
	{field: "purpose", any: []string{"назначение", "описание", "description", "purpose", "details", "memo"}},
	{field: "debit", any: []string{"дебет", "расход", "debit", "withdrawal"}},
	{field: "credit", any: []string{"кредит", "приход", "credit", "deposit"}},
	{field: "currency", any: []string{"валюта", "currency"}},
	{field: "amount", any: []string{"сумма", "amount"}},
	{field: "account", any: []string{"счет", "счёт", "account"}, none: []string{"контрагент", "counterparty"}},
}

// genericHeader returns the header row index and its columns, or -1 when no
// row within the first 20 qualifies.
func genericHeader(rows [][]any) (int, columns) {
	for i, row := range rows[:min(len(rows), 20)] {
		cols := mapColumns(row, genericColumns)
		if !cols.has("date") {
			continue
		}
		if (cols.has("debit") && cols.has("credit")) || cols.has("amount") {
			return i, cols
		}
	}
	return -1, nil
}

func scoreGenericLedger(s *sheet.Sheet, _ sheet.FileContext) float64 {
	if i, _ := genericHeader(s.Rows); i >= 0 {
		return genericScore
	}
	return 0
}

func extractGenericLedger(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{}
	rows := s.Rows

	headerIdx, cols := genericHeader(rows)
	if headerIdx < 0 {
		return r.fail("Header not found")
	}
	// A lone amount column carries the direction in its sign.
	signedOnly := !cols.has("debit") && !cols.has("credit")

	for _, row := range rows[skipNumberRow(rows, headerIdx, true):] {
		if isEmptyRow(row) {
			continue
		}
		date := cols.get(row, "date")
		if date == nil {
			continue
		}
		if !normalize.IsDate(date) {
			continue
		}
		debit, credit := cols.amount(row, "debit"), cols.amount(row, "credit")
		amount := orAmount(cols.amount(row, "amount"), credit, debit)
		if !amount.Valid {
			continue
		}
		currency := cols.currency(row, "currency")
		direction := normalize.Direction(normalize.Hints{Debit: debit, Credit: credit})
		if direction == statement.Unknown && signedOnly && amount.Decimal.IsPositive() {
			direction = statement.Income
		}
		t := statement.Transaction{
			Date:          normalize.Date(date),
			Amount:        amount,
			Currency:      currency,
			Direction:     direction,
			Purpose:       cols.str(row, "purpose"),
			AccountNumber: cols.str(row, "account"),
		}
		if currency == "" || currency == "KZT" {
			t.AmountLocal = amount
		}
		if r.account == "" {
			r.account = t.AccountNumber
		}
		t.Canonicalize()
		t.Counterparty(cols.str(row, "counterparty"), cols.iin(row, "iin"), "", "")
		r.add(t)
	}
	if len(r.txs) == 0 {
		r.warn("Generic ledger: no dated rows")
	}
	return r
}
