package banks

import (
	"github.com/gigurra/kz-statements/internal/normalize"
	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

// Halyk Finance brokerage operations: "Клиент | Счет расхода | Контрагент |
// Сумма/Количество ЦБ | Код валюты | Валюта/Инструмент | Комментарий | Дата
// | Режим сделки | Сорт д-та | Тикер | Cчет прихода | ...". Amounts may be
// security quantities, so no tenge amount is derived.
var halykFinance = &format{
	id:      "halyk-finance",
	bank:    "АО Halyk Finance",
	score:   scoreHalykFinance,
	extract: extractHalykFinance,
}

var (
	halykFinanceColumns = []colRule{
		{field: "client", any: []string{"=клиент"}},
		{field: "debit_account", any: []string{"счет расхода"}},
		{field: "counterparty", any: []string{"контрагент"}},
		{field: "amount", any: []string{"сумма"}},
		{field: "currency_code", any: []string{"код валюты"}},
		{field: "instrument", any: []string{"валюта", "инструмент"}},
		{field: "comment", any: []string{"комментарий"}},
		{field: "date", any: []string{"=дата"}},
		{field: "mode", any: []string{"режим"}},
		{field: "doc_type", any: []string{"сорт"}},
		{field: "ticker", any: []string{"тикер"}},
		{field: "credit_account", any: []string{"счет прихода", "cчет прихода"}},
	}

	securitiesIncome  = []string{"пополнение", "приход"}
	securitiesExpense = []string{"вывод", "расход", "списание"}
)

func scoreHalykFinance(s *sheet.Sheet, fc sheet.FileContext) float64 {
	for _, row := range s.Head(3) {
		t := rowText(row)
		switch {
		case containsAny(t, "режим сделки", "тикер", "сорт д-та", "сорта д-та"):
			return 0.9
		case containsAll(t, "инстр-та", "счет расхода"):
			return 0.9
		case containsAll(t, "код валюты", "контрагент", "счет расхода"):
			return 0.88
		}
	}
	if fc.FolderHas("halyk finance") {
		return 0.8
	}
	return 0
}

func extractHalykFinance(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{}
	rows := s.Rows
	if len(rows) == 0 {
		return r
	}

	headerIdx := max(findRow(rows, 5, func(t string) bool {
		return containsAll(t, "клиент", "дата")
	}), 0)
	cols := mapColumns(rows[headerIdx], halykFinanceColumns)

	for _, row := range rows[headerIdx+1:] {
		if isEmptyRow(row) || cols.get(row, "date") == nil {
			continue
		}
		docType := cols.str(row, "doc_type")
		r.add(statement.Transaction{
			Date:             cols.date(row, "date"),
			Amount:           cols.amount(row, "amount"),
			Currency:         cols.currency(row, "currency_code"),
			Direction:        normalize.DirectionFromKeywords(docType, securitiesIncome, securitiesExpense),
			Payer:            cols.str(row, "client"),
			PayerAccount:     cols.str(row, "debit_account"),
			Recipient:        cols.str(row, "counterparty"),
			RecipientAccount: cols.str(row, "credit_account"),
			OperationType:    docType,
			Purpose:          cols.str(row, "comment"),
		})
	}
	return r.warn("Securities format")
}
