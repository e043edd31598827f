package banks

import (
	"regexp"
	"strings"

	"github.com/gigurra/kz-statements/internal/normalize"
	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

const bankBCC = "АО Банк ЦентрКредит"

// Bank CenterCredit has three layouts. The deposit movement report is a
// three column "Дата | Сумма в тг. | Примечание" table.
var bccSimple = &format{
	id:      "bcc-simple",
	bank:    bankBCC,
	score:   scoreBCCSimple,
	extract: extractBCCSimple,
}

// The full statement comes as an 8-column xlsx or a bilingual 15-column
// .xls with debit/credit turnovers, and may hold several account blocks,
// each under its own header.
var bccFull = &format{
	id:      "bcc-full",
	bank:    bankBCC,
	score:   scoreBCCFull,
	extract: extractBCCFull,
}

// The client movement report splits directions across sheets ("Входящие",
// "Исходящие", "Снятие") and names the client BIN in the title.
var bccClientMovement = &format{
	id:      "bcc-client-movement",
	bank:    bankBCC,
	score:   scoreBCCClientMovement,
	extract: extractBCCClientMovement,
}

var (
	bccSimpleColumns = []colRule{
		{field: "date", any: []string{"дата"}},
		{field: "amount", any: []string{"сумма"}},
		{field: "note", any: []string{"примечание", "описание"}},
	}

	bccFullColumns = []colRule{
		{field: "date", any: []string{"дата"}, first: true},
		{field: "currency", any: []string{"валюта"}},
		{field: "amount", any: []string{"сумма операции"}},
		{field: "amount_tenge", any: []string{"сумма по курсу", "курс нб"}},
		{field: "sender", any: []string{"отправитель"}},
		{field: "recipient", any: []string{"получатель", "наименование контрагента"}},
		{field: "purpose", any: []string{"назначение", "төлем мақсаты"}},
		{field: "debit", any: []string{"дебетовый оборот"}},
		{field: "debit", all: []string{"дебет"}, none: []string{"кредит"}},
		{field: "credit", any: []string{"кредитовый оборот"}},
		{field: "credit", all: []string{"кредит"}, none: []string{"дебет"}},
		{field: "iin", all: []string{"иин", "бин"}},
		{field: "doc_number", any: []string{"№ документа", "құжат"}},
		{field: "corr_bank", any: []string{"банк корресп", "корресп. банк"}},
		{field: "corr_account", any: []string{"счет-корреспондент", "корресп. есепшоты"}},
		{field: "knp", any: []string{"кнп", "тмк"}},
	}

	bccMovementColumns = []colRule{
		{field: "date", any: []string{"дата"}, first: true},
		{field: "amount", any: []string{"сумма"}},
		{field: "debit_name", any: []string{"дебет"}},
		{field: "credit_name", any: []string{"кредит"}},
		{field: "bin", any: []string{"бин"}},
		{field: "purpose", any: []string{"основание", "назначение"}},
		{field: "branch", any: []string{"подразделение"}},
	}

	titleBIN = regexp.MustCompile(`БИН\s*(\d{12})`)
)

func scoreBCCSimple(s *sheet.Sheet, _ sheet.FileContext) float64 {
	if anyCell(s, 5, func(c string) bool {
		return strings.Contains(strings.ToLower(c), "движение денежных средств по депозитному")
	}) {
		return 0.9
	}
	return 0
}

func extractBCCSimple(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{account: lastMatch(s, 3, ibanLong)}
	rows := s.Rows

	headerIdx := findRow(rows, 10, func(t string) bool {
		return containsAll(t, "дата", "сумма")
	})
	if headerIdx < 0 {
		return r.fail("Header not found")
	}
	cols := mapColumns(rows[headerIdx], bccSimpleColumns)

	for _, row := range rows[headerIdx+1:] {
		if isEmptyRow(row) || cols.get(row, "date") == nil {
			continue
		}
		note := cols.str(row, "note")
		amount := cols.amount(row, "amount")
		r.add(statement.Transaction{
			Date:        cols.date(row, "date"),
			Amount:      amount,
			Currency:    "KZT",
			AmountLocal: amount,
			Direction:   normalize.DirectionFromText(note),
			Purpose:     note,
		})
	}
	return r
}

func scoreBCCFull(s *sheet.Sheet, fc sheet.FileContext) float64 {
	for _, row := range s.Head(20) {
		t := rowText(row)
		switch {
		case containsAll(t, "отправитель", "получатель", "назначение"):
			return 0.9
		case strings.Contains(t, "движение денежных средств по счету клиента"):
			return 0.85
		case strings.Contains(t, "күні / дата"), containsAll(t, "дебетовый оборот", "кредитовый оборот"):
			return 0.92
		case strings.Contains(t, "выписка по лицевому счету") && fc.FolderHas("центркредит"):
			return 0.88
		}
	}
	if fc.FolderHas("центркредит") && s.NumCols() >= 7 {
		return 0.5
	}
	return 0
}

func isBCCFullHeader(t string) bool {
	if strings.Contains(t, "дата операции") && containsAny(t, "отправитель", "получатель") {
		return true
	}
	return strings.Contains(t, "күні / дата") || containsAll(t, "дата", "дебетовый оборот")
}

func extractBCCFull(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{}
	rows := s.Rows

	var headers []int
	for i, row := range rows {
		if isBCCFullHeader(rowText(row)) {
			headers = append(headers, i)
		}
	}
	if len(headers) == 0 {
		return r.fail("Header not found")
	}

	for b, headerIdx := range headers {
		start, end := 0, len(rows)
		if b > 0 {
			start = headers[b-1]
		}
		if b+1 < len(headers) {
			end = headers[b+1]
		}

		account := ""
		for _, row := range rows[start:headerIdx] {
			for _, v := range row {
				if m := ibanLong.FindString(text(v)); m != "" {
					account = m
				}
			}
		}
		if r.account == "" {
			r.account = account
		}
		cols := mapColumns(rows[headerIdx], bccFullColumns)

		for _, row := range rows[headerIdx+1 : end] {
			if isEmptyRow(row) {
				continue
			}
			date := cols.get(row, "date")
			if date == nil {
				continue
			}
			if ds, ok := date.(string); ok && (strings.TrimSpace(ds) == "" || isSummary(ds, "итого", "выписка", "барлығы")) {
				continue
			}

			debit, credit := cols.amount(row, "debit"), cols.amount(row, "credit")
			direction := statement.Unknown
			if normalize.FirstNonZero(debit, credit).Valid {
				direction = normalize.Direction(normalize.Hints{Debit: debit, Credit: credit})
			}
			amount := cols.amount(row, "amount")
			if !normalize.FirstNonZero(amount).Valid {
				amount = orAmount(credit, debit)
			}

			t := statement.Transaction{
				Date:           normalize.Date(date),
				Amount:         amount,
				Currency:       cols.currency(row, "currency"),
				AmountLocal:    orAmount(cols.amount(row, "amount_tenge"), amount),
				Direction:      direction,
				Payer:          cols.str(row, "sender"),
				Recipient:      cols.str(row, "recipient"),
				KNP:            cols.str(row, "knp"),
				Purpose:        cols.str(row, "purpose"),
				DocumentNumber: cols.str(row, "doc_number"),
				AccountNumber:  orString(account, r.account),
			}
			iin, bank, corr := cols.iin(row, "iin"), cols.str(row, "corr_bank"), cols.str(row, "corr_account")
			switch direction {
			case statement.Income:
				t.PayerID, t.PayerBank, t.PayerAccount = iin, bank, corr
			case statement.Expense:
				t.RecipientID, t.RecipientBank, t.RecipientAccount = iin, bank, corr
			}
			r.add(t)
		}
	}
	return r
}

func scoreBCCClientMovement(s *sheet.Sheet, fc sheet.FileContext) float64 {
	if anyCell(s, 3, func(c string) bool {
		return strings.Contains(strings.ToLower(c), "движение денежных средств по счету клиента")
	}) {
		return 0.93
	}
	name := strings.ToLower(s.Name)
	if containsAny(name, "входящие", "исходящие", "снятие") && fc.FolderHas("центркредит") {
		return 0.88
	}
	return 0
}

func extractBCCClientMovement(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{}
	rows := s.Rows

	name, title := strings.ToLower(s.Name), headText(s, 3)
	direction := statement.Unknown
	switch {
	case strings.Contains(name, "входящ"), strings.Contains(title, "входящ"):
		direction = statement.Income
	case containsAny(name, "исходящ", "снятие"), containsAny(title, "исходящ", "снятие"):
		direction = statement.Expense
	}

	client := ""
	for _, row := range s.Head(3) {
		for _, v := range row {
			if m := titleBIN.FindStringSubmatch(text(v)); m != nil {
				client = m[1]
			}
		}
	}

	headerIdx := findRow(rows, 5, func(t string) bool {
		return strings.Contains(t, "дата операции") ||
			(strings.Contains(t, "дата") && containsAny(t, "сумма", "наименование"))
	})
	if headerIdx < 0 {
		return r.fail("Header not found")
	}
	cols := mapColumns(rows[headerIdx], bccMovementColumns)

	for _, row := range rows[headerIdx+1:] {
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
		amount := cols.amount(row, "amount")
		bin := cols.iin(row, "bin")
		t := statement.Transaction{
			Date:        normalize.Date(date),
			Amount:      amount,
			Currency:    "KZT",
			AmountLocal: amount,
			Direction:   direction,
			Payer:       cols.str(row, "debit_name"),
			PayerID:     client,
			Recipient:   cols.str(row, "credit_name"),
			RecipientID: bin,
			Purpose:     cols.str(row, "purpose"),
		}
		if direction == statement.Income {
			t.PayerID, t.RecipientID = bin, client
		}
		r.add(t)
	}
	return r
}
