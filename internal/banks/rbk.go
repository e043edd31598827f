package banks

import (
	"strings"

	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

const bankRBK = "АО Bank RBK"

// Bank RBK card processing exports with English column names
// (POSTING_DATE, TRANS_AMOUNT, ...). The amount sign is the direction and
// the sheet is named after the card account.
var rbkCard = &format{
	id:      "rbk-card",
	bank:    bankRBK,
	score:   scoreRBKCard,
	extract: extractRBKCard,
}

// Bank RBK card payout lists: Дата, ИИН, Клиент, Номер карты, amounts.
// No direction information.
var rbkSimple = &format{
	id:      "rbk-simple",
	bank:    bankRBK,
	score:   scoreRBKSimple,
	extract: extractRBKSimple,
}

var (
	rbkCardFields = map[string]string{
		"POSTING_DATE":    "date",
		"TRANS_AMOUNT":    "amount",
		"FEE_AMOUNT":      "fee",
		"TRANS_CURR":      "currency",
		"TRANS_TYPE":      "type",
		"ADDITIONAL_DESC": "description",
		"AUTH_CODE":       "auth_code",
		"RET_REF_NUMBER":  "ref",
		"CPID":            "cpid",
		"TRANS_DATE":      "trans_date",
		"CONTRACT_FOR":    "card",
		"CLIENT":          "client",
		"ITN":             "itn",
	}

	rbkSimpleColumns = []colRule{
		{field: "date", any: []string{"дата"}},
		{field: "iin", any: []string{"иин"}},
		{field: "client", any: []string{"клиент"}},
		{field: "card", any: []string{"номер карт"}},
		{field: "amount", any: []string{"сумма в валюте"}},
		{field: "amount_tenge", any: []string{"сумма в тенге"}},
		{field: "currency", any: []string{"валюта"}},
		{field: "purpose", any: []string{"назначение"}},
	}
)

func scoreRBKCard(s *sheet.Sheet, fc sheet.FileContext) float64 {
	for _, row := range s.Head(3) {
		if containsAll(rowText(row), "posting_date", "trans_amount") {
			return 0.95
		}
	}
	if fc.FolderHas("bank rbk", "банк рбк") {
		for _, row := range s.Head(3) {
			if strings.Contains(rawRowText(row), "POSTING_DATE") {
				return 0.9
			}
		}
	}
	return 0
}

func extractRBKCard(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{}
	rows := s.Rows
	if len(rows) == 0 {
		return r
	}

	headerIdx := 0
	for i, row := range s.Head(3) {
		if strings.Contains(rawRowText(row), "POSTING_DATE") {
			headerIdx = i
			break
		}
	}
	cols := columns{}
	for j, v := range rows[headerIdx] {
		if field, ok := rbkCardFields[strings.ToUpper(text(v))]; ok {
			cols[field] = j
		}
	}
	if strings.HasPrefix(s.Name, "KZ") {
		r.account = s.Name
	}

	for _, row := range rows[headerIdx+1:] {
		if isEmptyRow(row) || cols.get(row, "date") == nil {
			continue
		}
		t := statement.Transaction{
			Date:           cols.date(row, "date"),
			Currency:       cols.currency(row, "currency"),
			Payer:          cols.str(row, "client"),
			PayerID:        cols.iin(row, "itn"),
			PayerBank:      bankRBK,
			PayerAccount:   r.account,
			Recipient:      cols.str(row, "cpid"),
			OperationType:  cols.str(row, "type"),
			Purpose:        cols.str(row, "description"),
			DocumentNumber: cols.str(row, "ref"),
		}
		if amount := cols.amount(row, "amount"); amount.Valid {
			t.Direction = statement.Income
			if amount.Decimal.IsNegative() {
				t.Direction = statement.Expense
			}
			amount.Decimal = amount.Decimal.Abs()
			t.Amount = amount
			if t.Currency == "KZT" {
				t.AmountLocal = amount
			}
		}
		r.add(t)
	}
	return r
}

func scoreRBKSimple(s *sheet.Sheet, fc sheet.FileContext) float64 {
	for _, row := range s.Head(5) {
		if containsAll(rowText(row), "номер карты", "назначение платежа") && fc.FolderHas("rbk") {
			return 0.85
		}
	}
	return 0
}

func extractRBKSimple(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{}
	rows := s.Rows

	headerIdx := findRow(rows, 10, func(t string) bool { return containsAll(t, "дата", "сумма") })
	if headerIdx < 0 {
		return r.fail("Header not found")
	}
	cols := mapColumns(rows[headerIdx], rbkSimpleColumns)

	for _, row := range rows[headerIdx+1:] {
		if isEmptyRow(row) || cols.get(row, "date") == nil {
			continue
		}
		r.add(statement.Transaction{
			Date:        cols.date(row, "date"),
			Amount:      cols.amount(row, "amount"),
			Currency:    cols.currency(row, "currency"),
			AmountLocal: cols.amount(row, "amount_tenge"),
			Payer:       cols.str(row, "client"),
			PayerID:     cols.iin(row, "iin"),
			PayerBank:   bankRBK,
			Purpose:     cols.str(row, "purpose"),
		})
	}
	return r
}
