package banks

import (
	"strconv"
	"strings"

	"github.com/gigurra/kz-statements/internal/normalize"
	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

const bankAlHilal = "АО Исламский Банк Al Hilal"

// Al Hilal account statements (.xlsx): "Дата транзакции | Дата валют. |
// Детали транзакции | Кредит | Дебет | Баланс". Currency comes from the
// metadata block, else from "доллар"/"тенге" in the file or sheet name.
var alHilal = &format{
	id:      "al-hilal",
	bank:    bankAlHilal,
	score:   scoreAlHilal,
	extract: extractAlHilal,
}

// Al Hilal payment registers (.xls, 20 columns): sender and recipient
// account/RNN pairs under a two-row header. Direction is only known from
// "входящ"/"исход" in the file name.
var alHilalFull = &format{
	id:      "al-hilal-full",
	bank:    bankAlHilal,
	score:   scoreAlHilalFull,
	extract: extractAlHilalFull,
}

var alHilalColumns = []colRule{
	{field: "date", any: []string{"дата транзакции"}},
	{field: "date", any: []string{"=дата"}, first: true},
	{field: "value_date", any: []string{"дата валют"}},
	{field: "details", any: []string{"детали", "описание"}},
	{field: "credit", any: []string{"=кредит"}},
	{field: "debit", any: []string{"=дебет"}},
	{field: "balance", any: []string{"=баланс"}},
}

func scoreAlHilal(s *sheet.Sheet, fc sheet.FileContext) float64 {
	if anyCell(s, 5, func(c string) bool { return containsAny(c, "HLALKZKZ", "Al Hilal") }) {
		if s.NumCols() <= 10 {
			return 0.95
		}
		return 0.5
	}
	if fc.FolderHas("al hilal") && s.NumCols() <= 10 {
		return 0.8
	}
	return 0
}

// nameCurrency guesses the currency from words in the file and sheet names.
func nameCurrency(fc sheet.FileContext, s *sheet.Sheet) string {
	n := strings.ToLower(fc.Filename + " " + s.Name)
	switch {
	case containsAny(n, "доллар", "usd"):
		return "USD"
	case containsAny(n, "тенге", "kzt"):
		return "KZT"
	}
	return ""
}

func extractAlHilal(s *sheet.Sheet, fc sheet.FileContext) *sheetResult {
	r := &sheetResult{account: lastMatch(s, 10, ibanLong)}
	rows := s.Rows

	currency := ""
	for _, row := range s.Head(10) {
		for _, v := range row {
			if c := text(v); strings.Contains(strings.ToLower(c), "валюта:") {
				currency = strings.TrimSpace(c[strings.LastIndex(c, ":")+1:])
			}
		}
	}
	currency = normalize.Currency(orString(currency, nameCurrency(fc, s)))

	headerIdx := findRow(rows, 15, func(t string) bool {
		return strings.Contains(t, "дата транзакции") ||
			strings.Contains(t, "дата") && containsAny(t, "кредит", "дебет")
	})
	if headerIdx < 0 {
		return r.fail("Header not found")
	}
	cols := mapColumns(rows[headerIdx], alHilalColumns)

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
		credit, debit := cols.amount(row, "credit"), cols.amount(row, "debit")
		amount := orAmount(credit, debit)
		t := statement.Transaction{
			Date:      normalize.Date(date),
			Amount:    amount,
			Currency:  currency,
			Direction: normalize.Direction(normalize.Hints{Debit: debit, Credit: credit}),
			Purpose:   cols.str(row, "details"),
		}
		if currency == "KZT" {
			t.AmountLocal = amount
		}
		r.add(t)
	}
	return r
}

func scoreAlHilalFull(s *sheet.Sheet, fc sheet.FileContext) float64 {
	if !fc.FolderHas("al hilal") {
		return 0
	}
	for _, row := range s.Head(3) {
		t := rowText(row)
		if containsAll(t, "отправитель", "получатель") {
			return 0.96
		}
		if containsAll(t, "код", "сумма") && s.NumCols() >= 15 {
			return 0.96
		}
	}
	if s.NumCols() >= 15 {
		return 0.85
	}
	return 0
}

// alHilalFullColumns maps the register header. Account and RNN/IIN columns
// appear once per side, sender first.
func alHilalFullColumns(header []any) columns {
	c := columns{}
	fill := func(fields ...string) func(int) {
		return func(j int) {
			for _, f := range fields {
				if !c.has(f) {
					c[f] = j
					return
				}
			}
		}
	}
	account := fill("payer_account", "recipient_account")
	id := fill("payer_iin", "recipient_iin")
	date := fill("date", "value_date")

	for j, v := range header {
		h := lower(v)
		switch {
		case h == "":
		case strings.Contains(h, "код") && !c.has("date"):
			c["code"] = j
		case strings.Contains(h, "счет"):
			account(j)
		case containsAny(h, "рнн", "иин"):
			id(j)
		case strings.Contains(h, "отправитель"):
			c["payer"] = j
		case strings.Contains(h, "получатель"):
			c["recipient"] = j
		case strings.Contains(h, "сумма"):
			c["amount"] = j
		case strings.Contains(h, "дата"):
			date(j)
		case strings.Contains(h, "кнп"):
			c["knp"] = j
		case strings.Contains(h, "назначение"):
			c["purpose"] = j
		}
	}
	return c
}

// isIndexRow matches rows of small integers (column numbers, filter ids).
func isIndexRow(row []any) bool {
	for _, v := range row {
		s := text(v)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n >= 30 {
			return false
		}
	}
	return true
}

func extractAlHilalFull(s *sheet.Sheet, fc sheet.FileContext) *sheetResult {
	r := &sheetResult{}
	rows := s.Rows

	names := strings.ToLower(fc.Filename + " " + s.Name)
	currency := "KZT"
	if containsAny(names, "доллар", "usd") {
		currency = "USD"
	}
	direction := statement.Unknown
	switch {
	case strings.Contains(names, "входящ"):
		direction = statement.Income
	case strings.Contains(names, "исход"):
		direction = statement.Expense
	}

	headerIdx := findRow(rows, 5, func(t string) bool {
		return containsAny(t, "отправитель", "получатель", "сумма")
	})
	if headerIdx >= 0 && containsAny(rowText(s.Row(headerIdx+1)), "счет", "рнн", "код") {
		headerIdx++
	}
	if headerIdx < 0 {
		headerIdx = 0
	}
	if headerIdx >= len(rows) {
		return r
	}
	cols := alHilalFullColumns(rows[headerIdx])

	dataStart := headerIdx + 1
	for dataStart < len(rows) && dataStart < headerIdx+4 {
		row := rows[dataStart]
		if isEmptyRow(row) || !isIndexRow(row) {
			break
		}
		dataStart++
	}

	for _, row := range rows[min(dataStart, len(rows)):] {
		if isEmptyRow(row) {
			continue
		}
		date := cols.get(row, "date")
		if date == nil {
			date = cols.get(row, "value_date")
		}
		if date == nil {
			continue
		}
		if _, ok := date.(string); ok && isSummary(date, "итого", "всего") {
			continue
		}
		amount := cols.amount(row, "amount")
		t := statement.Transaction{
			Date:             normalize.Date(date),
			Amount:           amount,
			Currency:         currency,
			Direction:        direction,
			Payer:            cols.str(row, "payer"),
			PayerID:          cols.iin(row, "payer_iin"),
			PayerAccount:     cols.str(row, "payer_account"),
			Recipient:        cols.str(row, "recipient"),
			RecipientID:      cols.iin(row, "recipient_iin"),
			RecipientAccount: cols.str(row, "recipient_account"),
			KNP:              cols.str(row, "knp"),
			Purpose:          cols.str(row, "purpose"),
			DocumentNumber:   cols.str(row, "code"),
		}
		if currency == "KZT" {
			t.AmountLocal = amount
		}
		r.add(t)
	}
	return r
}
