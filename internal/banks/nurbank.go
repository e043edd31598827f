package banks

import (
	"strings"

	"github.com/gigurra/kz-statements/internal/normalize"
	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

const bankNurbank = "АО Нурбанк"

// Nurbank ABIS report ("Операции, проведенные в АБИС"), 16 or 23 columns
// with both parties spelled out. It carries no direction column.
var nurbank = &format{
	id:      "nurbank",
	bank:    bankNurbank,
	score:   scoreNurbank,
	extract: extractNurbank,
}

// Nurbank bilingual .xls: "Дата | № Документа | Счет корреспондента |
// ... | Дебет | Кредит | эквивалент ... | Назначение". Only recognized
// inside a Nurbank folder.
var nurbankXLS = &format{
	id:      "nurbank-xls",
	bank:    bankNurbank,
	score:   scoreNurbankXLS,
	extract: extractNurbankXLS,
}

var (
	nurbankColumns = []colRule{
		{field: "date", any: []string{"дата операции"}},
		{field: "currency", any: []string{"=валюта"}},
		{field: "category", any: []string{"категория"}},
		{field: "amount", all: []string{"сумма", "вал"}},
		{field: "amount_tenge", all: []string{"сумма", "тенге"}},
		{field: "knp", any: []string{"=кнп", "код назначен"}},
		{field: "payer", any: []string{"плательщик"}, none: []string{"иин", "банк", "счет"}},
		{field: "payer_iin", all: []string{"иин", "плательщик"}},
		{field: "payer_bank", all: []string{"банк", "плательщик"}},
		{field: "payer_account", all: []string{"счет", "плательщик"}},
		{field: "recipient", any: []string{"получатель"}, none: []string{"иин", "банк", "счет"}},
		{field: "recipient_iin", all: []string{"иин", "получатель"}},
		{field: "recipient_bank", all: []string{"банк", "получатель"}},
		{field: "recipient_account", all: []string{"счет", "получатель"}},
		{field: "purpose", any: []string{"назначение"}},
		{field: "doc_number", any: []string{"№ операции", "номер документа"}},
	}

	nurbankXLSColumns = []colRule{
		{field: "date", any: []string{"дата"}, first: true},
		{field: "doc_number", any: []string{"№ документа", "құжат"}},
		{field: "corr_account", any: []string{"счет корреспондент"}},
		{field: "corr_account", all: []string{"корресп", "счет"}},
		{field: "counterparty", any: []string{"наименование корреспондент"}},
		{field: "counterparty", all: []string{"наименование", "корресп"}},
		{field: "iin", any: []string{"иин", "бин"}},
		{field: "bik", any: []string{"бик"}},
		{field: "corr_bank", all: []string{"банк", "корресп"}},
		{field: "debit", all: []string{"дебет"}, none: []string{"эквивалент"}, first: true},
		{field: "debit_equiv", all: []string{"дебет", "эквивалент"}},
		{field: "credit", all: []string{"кредит"}, none: []string{"эквивалент"}, first: true},
		{field: "credit_equiv", all: []string{"кредит", "эквивалент"}},
		{field: "purpose", any: []string{"назначение"}},
	}
)

func isNurbankHeader(t string) bool {
	return (strings.Contains(t, "№ п/п") && containsAny(t, "дата операции", "категория")) ||
		containsAll(t, "плательщик", "получатель")
}

func scoreNurbank(s *sheet.Sheet, fc sheet.FileContext) float64 {
	if anyCell(s, 10, func(c string) bool {
		return strings.Contains(strings.ToLower(c), "операции, проведенные в абис")
	}) {
		return 0.95
	}
	if findRow(s.Rows, 15, isNurbankHeader) >= 0 {
		if fc.FolderHas("нурбанк") {
			return 0.9
		}
		return 0.7
	}
	return 0
}

func extractNurbank(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{}
	rows := s.Rows

	headerIdx := findRow(rows, 20, isNurbankHeader)
	if headerIdx < 0 {
		return r.fail("Header not found")
	}
	cols := mapColumns(rows[headerIdx], nurbankColumns)

	for _, row := range rows[skipCountingRow(rows, headerIdx, 50):] {
		if isEmptyRow(row) {
			continue
		}
		date := cols.get(row, "date")
		if date == nil {
			continue
		}
		if _, ok := date.(string); ok && isSummary(date, "итого", "всего") {
			continue
		}
		r.add(statement.Transaction{
			Date:             normalize.Date(date),
			Amount:           cols.amount(row, "amount"),
			Currency:         cols.currency(row, "currency"),
			AmountLocal:      cols.amount(row, "amount_tenge"),
			Payer:            cols.str(row, "payer"),
			PayerID:          cols.iin(row, "payer_iin"),
			PayerBank:        cols.str(row, "payer_bank"),
			PayerAccount:     cols.str(row, "payer_account"),
			Recipient:        cols.str(row, "recipient"),
			RecipientID:      cols.iin(row, "recipient_iin"),
			RecipientBank:    cols.str(row, "recipient_bank"),
			RecipientAccount: cols.str(row, "recipient_account"),
			OperationType:    cols.str(row, "category"),
			KNP:              cols.str(row, "knp"),
			Purpose:          cols.str(row, "purpose"),
			DocumentNumber:   cols.str(row, "doc_number"),
		})
	}
	return r
}

func scoreNurbankXLS(s *sheet.Sheet, fc sheet.FileContext) float64 {
	if !fc.FolderHas("нурбанк") {
		return 0
	}
	if findRow(s.Rows, 15, func(t string) bool {
		return containsAll(t, "дата", "дебет", "кредит") && containsAny(t, "корреспондент", "назначение")
	}) >= 0 {
		return 0.92
	}
	return 0
}

func extractNurbankXLS(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{account: lastMatch(s, 10, ibanLong)}
	rows := s.Rows

	headerIdx := findRow(rows, 15, func(t string) bool {
		return containsAll(t, "дата", "дебет", "кредит")
	})
	if headerIdx < 0 {
		return r.fail("Header not found")
	}
	cols := mapColumns(rows[headerIdx], nurbankXLSColumns)

	for _, row := range rows[headerIdx+1:] {
		if isEmptyRow(row) {
			continue
		}
		date := cols.get(row, "date")
		if date == nil {
			continue
		}
		if _, ok := date.(string); ok && isSummary(date, "итого", "всего", "остаток", "входящий") {
			continue
		}
		debit, credit := cols.amount(row, "debit"), cols.amount(row, "credit")
		amount := orAmount(credit, debit)
		t := statement.Transaction{
			Date:           normalize.Date(date),
			Amount:         amount,
			Currency:       "KZT",
			AmountLocal:    orAmount(cols.amount(row, "credit_equiv"), cols.amount(row, "debit_equiv"), amount),
			Direction:      normalize.Direction(normalize.Hints{Debit: debit, Credit: credit}),
			Purpose:        cols.str(row, "purpose"),
			DocumentNumber: cols.str(row, "doc_number"),
		}
		t.Counterparty(cols.str(row, "counterparty"), cols.iin(row, "iin"), cols.str(row, "corr_bank"), cols.str(row, "corr_account"))
		r.add(t)
	}
	return r
}
