package banks

import (
	"strings"

	"github.com/gigurra/kz-statements/internal/normalize"
	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

const bankEurasian = "АО Евразийский Банк"

// Eurasian Bank card operations, seven columns: ИИН | Тип операции | Номер
// счета | Дата | Сумма | Валюта | Детали операции. Direction from the
// operation type; the first account seen is the statement account.
var eurasianCard = &format{
	id:      "eurasian-card",
	bank:    bankEurasian,
	score:   scoreEurasianCard,
	extract: extractEurasianCard,
}

// Eurasian Bank full statements (EURIKZKA metadata block, header as deep
// as row 30). Debit/credit decide the direction, operation type is the
// fallback, and the single counterparty block goes to whichever side that
// direction implies.
var eurasianStatement = &format{
	id:      "eurasian-statement",
	bank:    bankEurasian,
	score:   scoreEurasianStatement,
	extract: extractEurasianStatement,
}

var (
	eurasianCardColumns = []colRule{
		{field: "iin", any: []string{"=иин"}},
		{field: "type", any: []string{"тип операции"}},
		{field: "account", any: []string{"номер счета"}},
		{field: "date", any: []string{"=дата"}},
		{field: "amount", any: []string{"=сумма"}},
		{field: "currency", any: []string{"=валюта"}},
		{field: "details", any: []string{"детали"}},
	}

	eurasianStatementColumns = []colRule{
		{field: "date", any: []string{"дата проводки"}},
		{field: "type", any: []string{"вид операции"}},
		{field: "doc_number", any: []string{"номер документа"}},
		{field: "counterparty", any: []string{"наименование"}, none: []string{"банк"}},
		{field: "iin", any: []string{"иин", "бин"}},
		{field: "account", any: []string{"иик"}},
		{field: "bank", any: []string{"наименование банка"}},
		{field: "purpose", any: []string{"назначение"}},
		{field: "debit", any: []string{"дебет"}},
		{field: "credit", any: []string{"кредит"}},
	}
)

func scoreEurasianCard(s *sheet.Sheet, fc sheet.FileContext) float64 {
	for _, row := range s.Head(5) {
		if containsAll(rowText(row), "тип операции", "детали операции") {
			return 0.9
		}
	}
	if fc.FolderHas("евразийский") {
		for _, row := range s.Head(5) {
			if nonEmptyCount(row) == 7 {
				return 0.7
			}
		}
	}
	return 0
}

func extractEurasianCard(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{}
	rows := s.Rows

	headerIdx := findRow(rows, 5, func(t string) bool { return containsAll(t, "иин", "тип операции") })
	if headerIdx < 0 {
		return r.fail("Header not found")
	}
	cols := mapColumns(rows[headerIdx], eurasianCardColumns)

	for _, row := range rows[headerIdx+1:] {
		if isEmptyRow(row) || cols.get(row, "date") == nil {
			continue
		}
		opType := cols.str(row, "type")
		account := cols.str(row, "account")
		if r.account == "" {
			r.account = account
		}
		currency := cols.currency(row, "currency")
		amount := cols.amount(row, "amount")
		t := statement.Transaction{
			Date:          cols.date(row, "date"),
			Amount:        amount,
			Currency:      currency,
			Direction:     normalize.DirectionFromOperation(opType),
			PayerID:       cols.iin(row, "iin"),
			PayerBank:     bankEurasian,
			PayerAccount:  account,
			OperationType: opType,
			Purpose:       cols.str(row, "details"),
			AccountNumber: r.account,
		}
		if currency == "KZT" {
			t.AmountLocal = amount
		}
		r.add(t)
	}
	return r
}

func scoreEurasianStatement(s *sheet.Sheet, fc sheet.FileContext) float64 {
	if anyCell(s, 10, func(c string) bool { return strings.Contains(c, "EURIKZKA") }) {
		return 0.95
	}
	for _, row := range s.Head(25) {
		if containsAll(rowText(row), "дата проводки", "вид операции") {
			return 0.9
		}
	}
	if fc.FolderHas("евразийский") && strings.Contains(headText(s, 10), "отделение") {
		return 0.6
	}
	return 0
}

func extractEurasianStatement(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{account: lastMatch(s, 20, ibanLong)}
	rows := s.Rows

	headerIdx := findRow(rows, 30, func(t string) bool { return containsAll(t, "дата проводки", "вид операции") })
	if headerIdx < 0 {
		return r.fail("Header not found")
	}
	cols := mapColumns(rows[headerIdx], eurasianStatementColumns)

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
		opType := cols.str(row, "type")
		amount := orAmount(credit, debit)
		t := statement.Transaction{
			Date:           normalize.Date(date),
			Amount:         amount,
			Currency:       "KZT",
			AmountLocal:    amount,
			Direction:      normalize.Direction(normalize.Hints{Debit: debit, Credit: credit, OperationType: opType}),
			OperationType:  opType,
			Purpose:        cols.str(row, "purpose"),
			DocumentNumber: cols.str(row, "doc_number"),
		}
		t.Counterparty(cols.str(row, "counterparty"), cols.iin(row, "iin"), cols.str(row, "bank"), cols.str(row, "account"))
		r.add(t)
	}
	return r
}
