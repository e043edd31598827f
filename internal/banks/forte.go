package banks

import (
	"strings"

	"github.com/gigurra/kz-statements/internal/normalize"
	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

const bankForte = "АО ForteBank"

// ForteBank money transfer system (SDP) reports. The title is spelled both
// "Инфорация" and "Информация по переводам". Each row is one transfer with
// an explicit "Направление" column.
var forteSDP = &format{
	id:      "forte-sdp",
	bank:    bankForte,
	score:   scoreForteSDP,
	extract: extractForteSDP,
}

// ForteBank organization registries (Prilozhenie files). They hold no
// transactions; recognizing them keeps them out of the SDP extractor.
var forteRegistry = &format{
	id:    "forte-registry",
	bank:  bankForte,
	score: scoreForteRegistry,
	extract: func(*sheet.Sheet, sheet.FileContext) *sheetResult {
		return (&sheetResult{}).warn("Registry file: no transactions")
	},
}

var forteColumns = []colRule{
	{field: "date", any: []string{"дата"}, none: []string{"операц"}},
	{field: "branch", any: []string{"отделение"}},
	{field: "transfer_type", any: []string{"вид перевода"}},
	{field: "status", any: []string{"состояние"}},
	{field: "currency", any: []string{"валюта"}},
	{field: "amount", any: []string{"сумма"}},
	{field: "sender", all: []string{"отправител", "фио"}},
	{field: "sender_iin", all: []string{"иин", "отправител"}},
	{field: "recipient", all: []string{"получател", "фио"}},
	{field: "direction", any: []string{"направлен"}},
	{field: "country", any: []string{"страна"}},
	{field: "sender_iin", any: []string{"иин"}, first: true},
}

func scoreForteSDP(s *sheet.Sheet, fc sheet.FileContext) float64 {
	if containsAny(headText(s, 10), "инфорация по переводам", "информация по переводам") {
		return 0.95
	}
	for _, row := range s.Head(15) {
		t := rowText(row)
		if containsAll(t, "вид перевода", "состояние") {
			return 0.9
		}
		if strings.Contains(t, "золотая корона") {
			return 0.85
		}
	}
	if fc.FolderHas("forte") {
		switch {
		case fc.FilenameHas("prilozhenie", "pril"):
			return 0
		case fc.FilenameHas("sdp"):
			return 0.8
		}
	}
	return 0
}

func extractForteSDP(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{}
	rows := s.Rows

	headerIdx := findRow(rows, 15, func(t string) bool {
		return containsAny(t, "отделение", "вид перевода") && strings.Contains(t, "дата") ||
			containsAll(t, "№", "сумма", "фио")
	})
	if headerIdx < 0 {
		return r.fail("Header not found")
	}
	cols := mapColumns(rows[headerIdx], forteColumns)

	for _, row := range rows[headerIdx+1:] {
		if isEmptyRow(row) || cols.get(row, "date") == nil {
			continue
		}
		amount := cols.amount(row, "amount")
		transferType := cols.str(row, "transfer_type")
		r.add(statement.Transaction{
			Date:          cols.date(row, "date"),
			Amount:        amount,
			Currency:      cols.currency(row, "currency"),
			AmountLocal:   amount,
			Direction:     normalize.DirectionFromText(cols.str(row, "direction")),
			Payer:         cols.str(row, "sender"),
			PayerID:       cols.iin(row, "sender_iin"),
			PayerBank:     bankForte,
			Recipient:     cols.str(row, "recipient"),
			OperationType: transferType,
			Purpose:       transferType,
		})
	}
	return r
}

func scoreForteRegistry(s *sheet.Sheet, fc sheet.FileContext) float64 {
	if fc.FolderHas("forte") && fc.FilenameHas("prilozhenie", "pril_") {
		return 0.95
	}
	for _, row := range s.Head(5) {
		if containsAll(rowText(row), "наименование организации", "код гк") {
			return 0.9
		}
	}
	return 0
}
