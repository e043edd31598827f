package banks

import (
	"strings"

	"github.com/gigurra/kz-statements/internal/normalize"
	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

// The 18-column layout shared by VTB, Shinhan, Home Credit and the two
// Freedom banks (Freedom drops the purpose column, leaving 17).
//
//   - header in the first 10 rows with at least 10 filled cells and four of
//     the standard markers; a 1..18 numbering row may follow it
//   - direction from the operation type ("1 - Внешние входящие"), else a
//     negative amount means expense (VTB)
//   - the bank is identified by SWIFT code or name near the header, then
//     by folder hint
//   - account from the sheet name, else the file name
var standard18Col = &format{
	id:      "standard-18col",
	bank:    "ВТБ / Шинхан / Home Credit / Фридом",
	score:   scoreStandard18,
	extract: extractStandard18,
}

var (
	standard18Markers = []string{
		"дата и время операции",
		"валюта операции",
		"сумма в валюте",
		"сумма в тенге",
		"плательщик",
		"получател",
	}
	vtbMarkers = []string{"вид операции (кд)", "резиденство"}

	standard18Columns = []colRule{
		{field: "date", any: []string{"дата и время", "=дата операции"}},
		{field: "currency", any: []string{"валюта операции"}},
		{field: "currency", any: []string{"=валюта"}, when: func(_ string, c columns) bool { return c.has("date") }},
		{field: "operation_type", any: []string{"виды операции", "вид операции", "категория"}},
		{field: "sdp", any: []string{"наименование сдп"}},
		{field: "amount", any: []string{"сумма в валюте", "=сумма (вал.)"}},
		{field: "amount_tenge", any: []string{"сумма в тенге", "=сумма (тенге)"}},
		{field: "payer", any: []string{"наименование", "фио"}, all: []string{"плательщик"}},
		{field: "payer", any: []string{"=наименование/фио плательщика>"}},
		{field: "payer_iin", all: []string{"иин", "плательщик"}},
		{field: "payer_residency", all: []string{"резиден", "плательщик"}},
		{field: "payer_bank", any: []string{"банк плательщик"}},
		{field: "payer_account", all: []string{"счет", "плательщик"}},
		{field: "recipient", any: []string{"наименование", "фио"}, all: []string{"получател"}},
		{field: "recipient_iin", all: []string{"иин", "получател"}},
		{field: "recipient_residency", all: []string{"резиден", "получател"}},
		{field: "recipient_bank", any: []string{"банк получател"}},
		{field: "recipient_account", all: []string{"счет", "получател"}},
		{field: "knp", any: []string{"код назначен", "код назначение", "=кнп"}},
		{field: "purpose", any: []string{"назначение платежа"}},
	}

	standard18Swift = []struct{ code, bank string }{
		{"VTBAKZKA", bankVTB},
		{"SHBKKZKA", bankShinhan},
	}
)

const (
	bankVTB            = "ДО АО Банк ВТБ (Казахстан)"
	bankShinhan        = "АО Шинхан Банк Казахстан"
	bankHomeCredit     = "АО Home Credit Bank"
	bankFreedomFinance = "АО Банк Фридом Финанс Казахстан"
	bankFreedom        = "АО Фридом Банк Казахстан"
	bankUnknown        = "Неизвестный банк"
)

func isStandard18Header(row []any) bool {
	if nonEmptyCount(row) < 10 {
		return false
	}
	t := rowText(row)
	matches := 0
	for _, m := range standard18Markers {
		if strings.Contains(t, m) {
			matches++
		}
	}
	return matches >= 4
}

func findStandard18Header(rows [][]any) int {
	for i, row := range rows[:min(len(rows), 10)] {
		if isStandard18Header(row) {
			return i
		}
	}
	return -1
}

func scoreStandard18(s *sheet.Sheet, _ sheet.FileContext) float64 {
	idx := findStandard18Header(s.Rows)
	if idx < 0 {
		return 0
	}
	row := s.Rows[idx]
	if nonEmptyCount(row) < 15 {
		return 0
	}
	t := rowText(row)
	switch {
	case containsAny(t, vtbMarkers...):
		return 0.9
	case containsAny(t, "виды операции", "категория документа"):
		return 0.9
	case strings.Contains(t, "дата и время операции") && strings.Contains(t, "сумма"):
		return 0.7
	}
	return 0
}

// standard18Bank names the issuing bank from the rows around the header,
// falling back to the folder hint.
func standard18Bank(s *sheet.Sheet, fc sheet.FileContext, headerIdx int) string {
	for _, row := range s.Head(max(headerIdx, 0) + 10) {
		for _, v := range row {
			raw := text(v)
			if raw == "" {
				continue
			}
			for _, sw := range standard18Swift {
				if strings.Contains(raw, sw.code) {
					return sw.bank
				}
			}
			l := strings.ToLower(raw)
			switch {
			case strings.Contains(l, "втб"):
				return bankVTB
			case containsAny(l, "shinhan", "шинхан"):
				return bankShinhan
			case containsAny(l, "home credit", "хоум кредит"):
				return bankHomeCredit
			case strings.Contains(l, "фридом финанс"):
				return bankFreedomFinance
			case strings.Contains(l, "фридом") && strings.Contains(l, "банк"):
				return bankFreedom
			}
		}
	}

	switch {
	case fc.FolderHas("втб", "vtb"):
		return bankVTB
	case fc.FolderHas("шинхан", "shinhan"):
		return bankShinhan
	case fc.FolderHas("home credit", "хоум"):
		return bankHomeCredit
	case fc.FolderHas("фридом финанс"):
		return bankFreedomFinance
	case fc.FolderHas("фридом"):
		return bankFreedom
	}
	return orString(fc.Folder, bankUnknown)
}

var standard18Income = []string{"входящ", "зачисление", "пополнение"}
var standard18Expense = []string{"исходящ", "списание", "снятие"}

func extractStandard18(s *sheet.Sheet, fc sheet.FileContext) *sheetResult {
	r := &sheetResult{}
	rows := s.Rows

	headerIdx := findStandard18Header(rows)
	if headerIdx < 0 {
		return r.fail("Header row not found")
	}
	cols := mapColumns(rows[headerIdx], standard18Columns)
	r.bank = standard18Bank(s, fc, headerIdx)
	r.account = orString(ibanShort.FindString(s.Name), ibanShort.FindString(fc.Filename))

	for _, row := range rows[skipNumberRow(rows, headerIdx, true):] {
		if isEmptyRow(row) || cols.get(row, "date") == nil {
			continue
		}
		opType := cols.str(row, "operation_type")
		r.add(statement.Transaction{
			Date:             cols.date(row, "date"),
			Amount:           cols.amount(row, "amount"),
			Currency:         cols.currency(row, "currency"),
			AmountLocal:      cols.amount(row, "amount_tenge"),
			Direction:        normalize.DirectionFromKeywords(opType, standard18Income, standard18Expense),
			Payer:            cols.str(row, "payer"),
			PayerID:          cols.iin(row, "payer_iin"),
			PayerBank:        cols.str(row, "payer_bank"),
			PayerAccount:     cols.str(row, "payer_account"),
			Recipient:        cols.str(row, "recipient"),
			RecipientID:      cols.iin(row, "recipient_iin"),
			RecipientBank:    cols.str(row, "recipient_bank"),
			RecipientAccount: cols.str(row, "recipient_account"),
			OperationType:    opType,
			KNP:              cols.str(row, "knp"),
			Purpose:          cols.str(row, "purpose"),
		})
	}
	return r
}
