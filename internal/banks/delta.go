package banks

import (
	"regexp"
	"strings"

	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

// Delta Bank: one sheet per direction and currency ("Входящие", "Исходящие
// USD"), a "Клиент, ..., ИИН ..." line, a "Входящие/Исходящие платежи"
// title and a "№ п/п | Наименование компании/ФИО | БИН/ИИН | Дата операции
// | Суммы | Назначение платежа" header. The client IIN fills the side
// opposite the counterparty.
var delta = &format{
	id:      "delta",
	bank:    "АО Delta Bank",
	score:   scoreDelta,
	extract: extractDelta,
}

var (
	deltaColumns = []colRule{
		{field: "name", any: []string{"наименование", "фио"}},
		{field: "iin", any: []string{"бин", "иин"}},
		{field: "date", any: []string{"дата"}},
		{field: "amount", any: []string{"сумм"}},
		{field: "purpose", any: []string{"назначение"}},
	}

	clientIIN = regexp.MustCompile(`ИИН\s*(\d{12})`)
)

func scoreDelta(s *sheet.Sheet, fc sheet.FileContext) float64 {
	if fc.FolderHas("delta bank") {
		return 0.9
	}
	for _, row := range s.Head(5) {
		t := rowText(row)
		if strings.Contains(t, "delta bank") {
			return 0.85
		}
		if containsAll(t, "№ п/п", "наименование компании") {
			return 0.7
		}
	}
	return 0
}

func extractDelta(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{}
	rows := s.Rows
	name := strings.ToLower(s.Name)

	direction := statement.Unknown
	switch {
	case strings.Contains(name, "входящ"):
		direction = statement.Income
	case strings.Contains(name, "исходящ"):
		direction = statement.Expense
	}
	for _, row := range s.Head(5) {
		for _, v := range row {
			c := lower(v)
			switch {
			case strings.Contains(c, "входящие"):
				direction = statement.Income
			case strings.Contains(c, "исходящие"):
				direction = statement.Expense
			}
		}
	}

	client := ""
	for _, row := range s.Head(3) {
		for _, v := range row {
			if m := clientIIN.FindStringSubmatch(text(v)); m != nil {
				client = m[1]
			}
		}
	}

	currency := "KZT"
	switch {
	case containsAny(name, "валюта", "usd"):
		currency = "USD"
	case strings.Contains(name, "eur"):
		currency = "EUR"
	}

	headerIdx := findRow(rows, 10, func(t string) bool {
		return strings.Contains(t, "№") && containsAny(t, "наименование", "дата")
	})
	if headerIdx < 0 {
		return r
	}
	cols := mapColumns(rows[headerIdx], deltaColumns)

	for _, row := range rows[headerIdx+1:] {
		if isEmptyRow(row) || cols.get(row, "date") == nil {
			continue
		}
		amount := cols.amount(row, "amount")
		if !amount.Valid {
			continue
		}
		t := statement.Transaction{
			Date:        cols.date(row, "date"),
			Amount:      amount,
			Currency:    currency,
			Direction:   direction,
			PayerID:     client,
			RecipientID: client,
			Purpose:     cols.str(row, "purpose"),
		}
		if currency == "KZT" {
			t.AmountLocal = amount
		}
		t.Counterparty(cols.str(row, "name"), cols.iin(row, "iin"), "", "")
		r.add(t)
	}
	return r
}
