package banks

import (
	"slices"

	"github.com/gigurra/kz-statements/internal/normalize"
	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

// Otbasy bank: a "Наименование Банка: ..." / "SWIFT Банка: HCSKKZKA" block
// over an 18-column table. Party headers vary ("Плательщик", "ИИН/БИН
// плательщика", "Банк плательщика"), so each side has its own rule chain.
// Direction from operation type keywords only.
var otbasy = &format{
	id:      "otbasy",
	bank:    "АО Отбасы банк",
	score:   scoreOtbasy,
	extract: extractOtbasy,
}

var (
	otbasyMarkers = []string{"дата и время операции", "валюта", "сумма", "плательщик"}

	otbasyColumns = slices.Concat(
		[]colRule{
			{field: "date", any: []string{"дата и время"}},
			{field: "currency", any: []string{"валюта операции"}},
			{field: "currency", any: []string{"=валюта"}, when: func(_ string, c columns) bool { return c.has("date") }},
			{field: "operation_type", any: []string{"виды операции", "вид операции"}},
			{field: "sdp", any: []string{"сдп"}},
			{field: "amount", any: []string{"сумма в валюте", "=сумма (вал.)"}},
			{field: "amount_tenge", any: []string{"сумма в тенге"}},
		},
		partyColumns("payer", "плательщик"),
		partyColumns("recipient", "получател"),
		[]colRule{
			{field: "knp", any: []string{"код назначен"}},
			{field: "purpose", any: []string{"назначение платежа"}},
		},
	)

	otbasyIncome  = []string{"входящ", "зачислен", "пополнен"}
	otbasyExpense = []string{"исходящ", "списан", "снят"}
)

// partyColumns maps the name, IIN, bank and account columns of one side.
// Bank columns are only recognized by "банк", which also appears in
// "наименование банка", so they are split from the name first.
func partyColumns(side, marker string) []colRule {
	return []colRule{
		{field: side + "_bank", all: []string{marker, "банк"}, any: []string{"наименование", "фио"}},
		{field: side + "_iin", all: []string{marker}, any: []string{"иин", "бин"}, none: []string{"банк"}},
		{field: side + "_account", all: []string{marker}, any: []string{"счет", "счёт"}, none: []string{"банк"}},
		{field: side, all: []string{marker}, none: []string{"банк"}},
		{field: side + "_iin", all: []string{marker, "иин"}},
		{field: side + "_bank", all: []string{marker, "банк"}},
	}
}

func scoreOtbasy(s *sheet.Sheet, fc sheet.FileContext) float64 {
	if anyCell(s, 5, func(c string) bool {
		return containsAny(c, "HCSKKZKA", "Отбасы", "Жилищный строительный")
	}) {
		return 0.95
	}
	if fc.FolderHas("отбасы") {
		return 0.8
	}
	return 0
}

func extractOtbasy(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{account: lastMatch(s, 15, ibanLong)}
	rows := s.Rows

	headerIdx := findHeaderRow(rows, otbasyMarkers, 30)
	if headerIdx < 0 {
		return r.fail("Header not found")
	}
	cols := mapColumns(rows[headerIdx], otbasyColumns)

	for _, row := range rows[skipNumberRow(rows, headerIdx, false):] {
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
		opType := cols.str(row, "operation_type")
		r.add(statement.Transaction{
			Date:             normalize.Date(date),
			Amount:           cols.amount(row, "amount"),
			Currency:         cols.currency(row, "currency"),
			AmountLocal:      cols.amount(row, "amount_tenge"),
			Direction:        normalize.DirectionFromKeywords(opType, otbasyIncome, otbasyExpense),
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
