package banks

import (
	"regexp"
	"slices"
	"strings"

	"github.com/gigurra/kz-statements/internal/normalize"
	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

// Bank of China in Kazakhstan: a 21-column .xls whose header may be split
// over two rows, the second carrying the "Дебет | Кредит" pair.
var bankOfChina = &format{
	id:      "bank-of-china",
	bank:    "АО ДБ Банк Китая в Казахстане",
	score:   scoreBankOfChina,
	extract: extractBankOfChina,
}

// ICBC Almaty: a bilingual "Шоттан үзінді / Выписка со счета" with one
// sheet per account (often named after the IBAN) plus metadata and
// garbled sheets that pick drops. Party name, IIN and account are packed
// into a single beneficiary cell.
var icbcAlmaty = &format{
	id:      "icbc-almaty",
	bank:    "АО Торгово-промышленный банк Китая в Алматы",
	score:   scoreICBCAlmaty,
	extract: extractICBCAlmaty,
	pick:    pickICBCSheets,
}

var (
	bankOfChinaColumns = []colRule{
		{field: "date", any: []string{"дата"}, when: func(_ string, c columns) bool { return !c.has("date") }},
		{field: "amount", any: []string{"сумма"}, none: []string{"тенге"}},
		{field: "amount_tenge", any: []string{"тенге", "эквивалент"}},
		{field: "currency", any: []string{"валюта"}},
		{field: "payer", any: []string{"плательщик"}, none: []string{"банк", "иин"}},
		{field: "recipient", any: []string{"получатель"}, none: []string{"банк", "иин"}},
		{field: "payer_iin", all: []string{"иин", "плательщик"}},
		{field: "recipient_iin", all: []string{"иин", "получатель"}},
		{field: "purpose", any: []string{"назначение"}},
		{field: "debit", any: []string{"дебет"}},
		{field: "credit", any: []string{"кредит"}},
	}

	icbcColumns = []colRule{
		{field: "date", any: []string{"дата", "күн"}, first: true},
		{field: "purpose", any: []string{"референс", "назначение"}},
		{field: "debit", any: []string{"дебет"}},
		{field: "credit", any: []string{"кредит", "несие"}},
		{field: "amount_tenge", any: []string{"эквивалент", "тенге"}},
		{field: "beneficiary", any: []string{"бенефициар"}, none: []string{"банк"}},
		{field: "beneficiary_bank", all: []string{"банк", "бенефициар"}},
		{field: "counterparty", any: []string{"корреспондент", "контрагент"}},
		{field: "purpose", any: []string{"описание"}, first: true},
	}

	// subHeaderColumns fill debit/credit from a second header row without
	// overriding columns the first row already named.
	subHeaderColumns = []colRule{
		{field: "debit", any: []string{"дебет"}, when: func(_ string, c columns) bool { return !c.has("debit") }},
		{field: "credit", any: []string{"кредит", "несие"}, when: func(_ string, c columns) bool { return !c.has("credit") }},
	}

	partyIIN     = regexp.MustCompile(`(?:БИН|ИИН|BIN|IIN)[:\s]*(\d{12})`)
	partyAccount = regexp.MustCompile(`(?:ИИК|IIK|Счет)[:\s]*(KZ\w{16,22})`)

	isoCurrencies = []string{"KZT", "USD", "EUR", "CNY", "RUB", "GBP"}
)

func scoreBankOfChina(s *sheet.Sheet, fc sheet.FileContext) float64 {
	if anyCell(s, 15, func(c string) bool {
		c = strings.ToLower(c)
		return strings.Contains(c, "банк китая в казахстане") && !strings.Contains(c, "торгово")
	}) {
		return 0.95
	}
	if fc.FolderHas("банк китая") && !fc.FolderHas("торгово") {
		return 0.85
	}
	return 0
}

// applySubHeader maps debit/credit from the row after the header when it
// is a "Дебет | Кредит" sub-header, returning the first data row.
func applySubHeader(rows [][]any, headerIdx int, cols columns, isSub func(string) bool) int {
	next := headerIdx + 1
	if next < len(rows) {
		if t := rowText(rows[next]); isSub(t) && !strings.Contains(t, "дата") {
			cols.apply(rows[next], subHeaderColumns)
			return headerIdx + 2
		}
	}
	return next
}

func extractBankOfChina(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{}
	rows := s.Rows

	headerIdx := findRow(rows, 35, func(t string) bool {
		return strings.Contains(t, "дата") && containsAny(t, "сумма", "получатель", "плательщик", "дебет", "кредит")
	})
	if headerIdx < 0 {
		return r.fail("Header not found")
	}
	cols := mapColumns(rows[headerIdx], bankOfChinaColumns)
	dataStart := applySubHeader(rows, headerIdx, cols, func(t string) bool {
		return containsAll(t, "дебет", "кредит")
	})

	for _, row := range rows[min(dataStart, len(rows)):] {
		if isEmptyRow(row) {
			continue
		}
		date := cols.get(row, "date")
		if date == nil {
			continue
		}
		if _, ok := date.(string); ok && isSummary(date, "итого", "остаток", "барлығы") {
			continue
		}
		debit, credit := cols.amount(row, "debit"), cols.amount(row, "credit")
		r.add(statement.Transaction{
			Date:        normalize.Date(date),
			Amount:      orAmount(cols.amount(row, "amount"), credit, debit),
			Currency:    cols.currency(row, "currency"),
			AmountLocal: cols.amount(row, "amount_tenge"),
			Direction:   normalize.Direction(normalize.Hints{Debit: debit, Credit: credit}),
			Payer:       cols.str(row, "payer"),
			PayerID:     cols.iin(row, "payer_iin"),
			Recipient:   cols.str(row, "recipient"),
			RecipientID: cols.iin(row, "recipient_iin"),
			Purpose:     cols.str(row, "purpose"),
		})
	}
	return r
}

// pickICBCSheets keeps sheets that look like transaction tables, or all of
// them when none do.
func pickICBCSheets(sheets []*sheet.Sheet) []*sheet.Sheet {
	var relevant []*sheet.Sheet
	for _, s := range sheets {
		if s.NumCols() < 3 {
			continue
		}
		if containsAny(headText(s, 5), "дата", "күн", "дебет", "референс") {
			relevant = append(relevant, s)
		}
	}
	if len(relevant) == 0 {
		return sheets
	}
	return relevant
}

func scoreICBCAlmaty(s *sheet.Sheet, fc sheet.FileContext) float64 {
	for _, row := range s.Head(5) {
		for _, v := range row {
			c := lower(v)
			if containsAny(c, "шоттан үзінді", "тпбк") {
				return 0.95
			}
			if strings.Contains(c, "выписка со счета") {
				if fc.FolderHas("торгово-промышленный", "тпб") {
					return 0.95
				}
				return 0.5
			}
		}
	}
	if anyCell(s, 10, func(c string) bool {
		return strings.Contains(strings.ToLower(c), "торгово-промышленный")
	}) {
		return 0.93
	}
	if fc.FolderHas("торгово-промышленный") {
		return 0.85
	}
	return 0
}

func extractICBCAlmaty(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{}
	rows := s.Rows
	if strings.HasPrefix(s.Name, "KZ") {
		r.account = s.Name
	}

	if r.account == "" {
		r.account = firstMatch(s, 20, ibanLong)
	}

	currency := ""
	for _, row := range s.Head(20) {
		for _, v := range row {
			if c := text(v); slices.Contains(isoCurrencies, c) {
				currency = c
			}
		}
	}

	headerIdx := findRow(rows, 35, func(t string) bool {
		return containsAny(t, "дата операции", "операция жасалатын күн") ||
			(strings.Contains(t, "дата") && containsAny(t, "дебет", "кредит", "сумма"))
	})
	if headerIdx < 0 {
		return r.fail("Header not found")
	}
	cols := mapColumns(rows[headerIdx], icbcColumns)
	dataStart := applySubHeader(rows, headerIdx, cols, func(t string) bool {
		return containsAny(t, "дебет", "несие")
	})

	for _, row := range rows[min(dataStart, len(rows)):] {
		if isEmptyRow(row) {
			continue
		}
		date := cols.get(row, "date")
		if date == nil {
			continue
		}
		if _, ok := date.(string); ok && isSummary(date, "итого", "остаток", "входящий", "барлығы", "оборот") {
			continue
		}
		debit, credit := cols.amount(row, "debit"), cols.amount(row, "credit")
		amount := orAmount(credit, debit)

		party := orString(cols.str(row, "beneficiary"), cols.str(row, "counterparty"))
		iin, account := "", ""
		if m := partyIIN.FindStringSubmatch(party); m != nil {
			iin = m[1]
		}
		if m := partyAccount.FindStringSubmatch(party); m != nil {
			account = m[1]
		}

		t := statement.Transaction{
			Date:        normalize.Date(date),
			Amount:      amount,
			Currency:    currency,
			AmountLocal: orAmount(cols.amount(row, "amount_tenge"), amount),
			Direction:   normalize.Direction(normalize.Hints{Debit: debit, Credit: credit}),
			Purpose:     cols.str(row, "purpose"),
		}
		t.Counterparty(party, iin, cols.str(row, "beneficiary_bank"), account)
		r.add(t)
	}
	return r
}
