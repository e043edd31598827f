package banks

import (
	"strings"

	"github.com/gigurra/kz-statements/internal/normalize"
	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

// KZI Bank card transactions: "№ | Дата транзакции | ИИН | Номер счета |
// Держатель карты ФИО | Отправитель | Получатель | наименование |
// назначение платежа | сумма (вход.) | сумма (исход.) | Вид операции".
// The same format also reads the 8-column SDP export with a single
// amount column.
var kzi = &format{
	id:      "kzi",
	bank:    "АО ДБ КЗИ БАНК",
	score:   scoreKZI,
	extract: extractKZI,
}

var kziColumns = []colRule{
	{field: "date", any: []string{"дата транзакции"}},
	{field: "date", any: []string{"дата"}, when: func(_ string, c columns) bool { return !c.has("date") }},
	{field: "iin", any: []string{"=иин", "иин/бин"}},
	{field: "account", any: []string{"номер счета"}},
	{field: "holder", any: []string{"держатель"}},
	{field: "sender", any: []string{"отправитель"}},
	{field: "recipient", any: []string{"получатель"}},
	{field: "client_name", any: []string{"наименование клиента"}},
	{field: "name", any: []string{"наименование"}, none: []string{"клиент"}},
	{field: "purpose", any: []string{"назначение", "описание"}},
	{field: "credit", any: []string{"вход"}},
	{field: "debit", any: []string{"исход"}},
	{field: "amount", any: []string{"сумма"}},
	{field: "currency", any: []string{"валюта"}},
	{field: "type", any: []string{"вид операции"}},
}

func scoreKZI(s *sheet.Sheet, fc sheet.FileContext) float64 {
	sdp := false
	for _, row := range s.Head(10) {
		t := rowText(row)
		if containsAll(t, "дата транзакции", "держатель карты") {
			return 0.95
		}
		if containsAny(t, "вход. оборот", "исход. оборот") {
			return 0.9
		}
		if containsAll(t, "наименование", "сумма", "валюта", "описание", "иин/бин") {
			sdp = true
		}
	}
	marker := anyCell(s, 10, func(c string) bool {
		return strings.Contains(strings.ToLower(c), "транзакций с")
	})

	switch {
	case sdp && marker:
		return 0.92
	case sdp && fc.FolderHas("кзи"):
		return 0.9
	case sdp:
		return 0.82
	case fc.FolderHas("кзи"):
		if findRow(s.Rows, 15, func(t string) bool {
			return containsAll(t, "дата", "сумма") || strings.Contains(t, "наименование")
		}) >= 0 {
			return 0.8
		}
		return 0.7
	}
	return 0
}

func extractKZI(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{}
	rows := s.Rows

	headerIdx := findRow(rows, 15, func(t string) bool {
		return strings.Contains(t, "дата транзакции") ||
			containsAll(t, "дата", "сумма", "наименование") ||
			containsAll(t, "№ п/п", "наименование", "описание")
	})
	if headerIdx < 0 {
		return r.fail("Header not found")
	}
	cols := mapColumns(rows[headerIdx], kziColumns)

	for _, row := range rows[skipCountingRow(rows, headerIdx, 50):] {
		if isEmptyRow(row) || cols.get(row, "date") == nil {
			continue
		}
		credit, debit := cols.amount(row, "credit"), cols.amount(row, "debit")
		amount := normalize.FirstNonZero(credit, debit)
		if !amount.Valid {
			amount = cols.amount(row, "amount")
		}
		currency := "KZT"
		if c := cols.str(row, "currency"); c != "" {
			currency = normalize.Currency(c)
		}
		account := cols.str(row, "account")

		r.add(statement.Transaction{
			Date:          cols.date(row, "date"),
			Amount:        amount,
			Currency:      currency,
			AmountLocal:   amount,
			Direction:     normalize.Direction(normalize.Hints{Debit: debit, Credit: credit}),
			Payer:         orString(cols.str(row, "sender"), cols.str(row, "client_name")),
			PayerID:       cols.iin(row, "iin"),
			PayerAccount:  account,
			Recipient:     cols.str(row, "recipient"),
			OperationType: orString(cols.str(row, "type"), cols.str(row, "name")),
			Purpose:       cols.str(row, "purpose"),
			AccountNumber: account,
		})
	}
	return r
}
