package banks

import (
	"strings"

	"github.com/gigurra/kz-statements/internal/normalize"
	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

// Halyk (Народный банк) statements: a metadata block opened by the
// HSBKKZKX SWIFT code, then a 19-column table with debit and credit split
// into currency and tenge columns. Direction comes from which side is
// filled.
var narodny = &format{
	id:      "narodny",
	bank:    "АО Народный сберегательный банк Казахстана",
	score:   scoreNarodny,
	extract: extractNarodny,
}

var (
	narodnyMarkers = []string{
		"дата и время операции",
		"сумма в валюте",
		"по кредиту",
		"по дебету",
		"плательщик",
	}

	narodnyColumns = []colRule{
		{field: "date", any: []string{"дата и время"}},
		{field: "currency", all: []string{"валюта", "операции"}},
		{field: "operation_type", any: []string{"виды операции", "вид операции", "категория"}},
		{field: "sdp", any: []string{"наименование сдп"}},
		{field: "credit", all: []string{"по кредиту", "сумма", "валюте"}},
		{field: "debit", all: []string{"по дебету", "сумма", "валюте"}},
		{field: "credit_tenge", all: []string{"по кредиту", "тенге"}},
		{field: "debit_tenge", all: []string{"по дебету", "тенге"}},
		{field: "payer", any: []string{"наименование", "фио"}, all: []string{"плательщик"}},
		{field: "payer_iin", all: []string{"иин", "плательщик"}},
		{field: "payer_bank", any: []string{"банк плательщик"}},
		{field: "payer_account", all: []string{"счет", "плательщик"}},
		{field: "recipient", any: []string{"наименование", "фио"}, all: []string{"получател"}},
		{field: "recipient_iin", all: []string{"иин", "получател"}},
		{field: "recipient_bank", any: []string{"банк получател"}},
		{field: "recipient_account", all: []string{"счет", "получател"}},
		{field: "knp", any: []string{"код назначен"}},
		{field: "purpose", any: []string{"назначение платежа"}},
	}

	narodnySummary = []string{"итого", "входящий", "исходящий", "остаток", "всего"}
)

func scoreNarodny(s *sheet.Sheet, fc sheet.FileContext) float64 {
	if anyCell(s, 5, func(c string) bool { return strings.Contains(c, "HSBKKZKX") }) {
		return 0.95
	}
	if fc.FolderHas("народный сберегательный") {
		return 0.8
	}
	return 0
}

// looksLikeAccount matches the bare IBAN cells of the metadata block.
func looksLikeAccount(v any) bool {
	s := text(v)
	return strings.HasPrefix(s, "KZ") && len(s) >= 18
}

func extractNarodny(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{}
	rows := s.Rows

	for _, row := range s.Head(10) {
		for _, v := range row {
			if looksLikeAccount(v) {
				r.account = text(v)
			}
		}
	}

	headerIdx := findHeaderRow(rows, narodnyMarkers, 30)
	if headerIdx < 0 {
		return r.fail("Header row not found")
	}
	cols := mapColumns(rows[headerIdx], narodnyColumns)

	if r.account == "" {
	search:
		for _, row := range rows[:headerIdx] {
			for _, v := range row {
				if looksLikeAccount(v) {
					r.account = text(v)
					break search
				}
			}
		}
	}

	for _, row := range rows[skipNumberRow(rows, headerIdx, false):] {
		if isEmptyRow(row) {
			continue
		}
		date := cols.get(row, "date")
		if date == nil || isSummary(date, narodnySummary...) {
			continue
		}

		credit, debit := cols.amount(row, "credit"), cols.amount(row, "debit")
		r.add(statement.Transaction{
			Date:             normalize.Date(date),
			Amount:           orAmount(credit, debit),
			Currency:         cols.currency(row, "currency"),
			AmountLocal:      orAmount(cols.amount(row, "credit_tenge"), cols.amount(row, "debit_tenge")),
			Direction:        normalize.Direction(normalize.Hints{Debit: debit, Credit: credit}),
			Payer:            cols.str(row, "payer"),
			PayerID:          cols.iin(row, "payer_iin"),
			PayerBank:        cols.str(row, "payer_bank"),
			PayerAccount:     cols.str(row, "payer_account"),
			Recipient:        cols.str(row, "recipient"),
			RecipientID:      cols.iin(row, "recipient_iin"),
			RecipientBank:    cols.str(row, "recipient_bank"),
			RecipientAccount: cols.str(row, "recipient_account"),
			OperationType:    cols.str(row, "operation_type"),
			KNP:              cols.str(row, "knp"),
			Purpose:          cols.str(row, "purpose"),
		})
	}
	return r
}
