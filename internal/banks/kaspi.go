package banks

import (
	"strings"

	"github.com/gigurra/kz-statements/internal/normalize"
	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

const bankKaspi = "АО Kaspi Bank"

// Kaspi account statements: metadata block with the IBAN, then a header
// whose payer and recipient groups are merged cells over a second row of
// name / IIN sub-columns. Direction only comes from an explicit
// "направление" column when there is one.
var kaspiStatement = &format{
	id:      "kaspi-statement",
	bank:    bankKaspi,
	score:   scoreKaspiStatement,
	extract: extractKaspiStatement,
}

// Kaspi merchant statistics ("Статистика по успешным операциям"). Partner
// lists with only BIN and terminal id score low so a real statement wins.
var kaspiStatistics = &format{
	id:      "kaspi-statistics",
	bank:    bankKaspi,
	score:   scoreKaspiStatistics,
	extract: extractKaspiStatistics,
}

var (
	kaspiColumns = []colRule{
		{field: "date", all: []string{"дата", "операц"}},
		{field: "date", any: []string{"=дата", "дата опер"}},
		{field: "currency", any: []string{"валюта"}},
		{field: "amount", all: []string{"сумма"}, none: []string{"тенге", "нб"}},
		{field: "amount_tenge", any: []string{"тенге", "нб"}, all: []string{"сумма"}},
		{field: "direction", any: []string{"направлен"}},
	}

	kaspiStatisticsColumns = []colRule{
		{field: "date", any: []string{"дата"}},
		{field: "amount", any: []string{"сумма"}},
		{field: "bin", all: []string{"бин"}, none: []string{"банк", "эквайер"}},
		{field: "name", any: []string{"наименование"}},
		{field: "type", any: []string{"тип операции"}},
		{field: "currency", any: []string{"валюта"}},
	}

	kaspiSummary = []string{"итого", "остаток", "входящий", "исходящий"}
)

func scoreKaspiStatement(s *sheet.Sheet, fc sheet.FileContext) float64 {
	branded := anyCell(s, 15, func(c string) bool {
		return strings.Contains(c, "Kaspi Bank") || strings.Contains(strings.ToUpper(c), "КАСПИ")
	})
	if branded {
		head := headText(s, 20)
		if strings.Contains(head, "входящий остаток") {
			return 0.95
		}
		if strings.Contains(head, "плательщик") {
			return 0.9
		}
	}

	if fc.FolderHas("kaspi") {
		for _, row := range s.Head(20) {
			t := rowText(row)
			if containsAll(t, "плательщик", "получател") || strings.Contains(t, "входящий остаток") {
				return 0.85
			}
		}
	}
	return 0
}

func extractKaspiStatement(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{account: lastMatch(s, 15, ibanShort)}
	rows := s.Rows

	headerIdx := findRow(rows, 25, func(t string) bool {
		return strings.Contains(t, "дата") &&
			(containsAny(t, "плательщик", "получател") || containsAll(t, "валюта", "сумма"))
	})
	if headerIdx < 0 {
		return r.fail("Header not found")
	}
	header := rows[headerIdx]
	cols := mapColumns(header, kaspiColumns)

	dataStart := headerIdx + 1
	if sub := s.Row(headerIdx + 1); sub != nil {
		parents := parentHeaders(header, len(sub))
		for j, v := range sub {
			h := lower(v)
			switch {
			case h == "":
			case strings.Contains(h, "наименование"):
				switch {
				case strings.Contains(parents[j], "плательщик"):
					cols["payer"] = j
				case strings.Contains(parents[j], "получател"):
					cols["recipient"] = j
				}
			case containsAny(h, "иин", "бин"):
				switch {
				case strings.Contains(parents[j], "плательщик"):
					cols["payer_iin"] = j
				case strings.Contains(parents[j], "получател"):
					cols["recipient_iin"] = j
				}
			case strings.Contains(h, "назначение"):
				cols["purpose"] = j
			case containsAny(h, "кнп", "код"):
				cols["knp"] = j
			}
		}
		if !isEmptyRow(sub) {
			dataStart++
		}
	}

	for _, row := range rows[min(dataStart, len(rows)):] {
		if isEmptyRow(row) {
			continue
		}
		date := cols.get(row, "date")
		if date == nil {
			continue
		}
		if _, ok := date.(string); ok && isSummary(date, kaspiSummary...) {
			continue
		}
		r.add(statement.Transaction{
			Date:        normalize.Date(date),
			Amount:      cols.amount(row, "amount"),
			Currency:    cols.currency(row, "currency"),
			AmountLocal: cols.amount(row, "amount_tenge"),
			Direction:   normalize.DirectionFromText(cols.str(row, "direction")),
			Payer:       cols.str(row, "payer"),
			PayerID:     cols.iin(row, "payer_iin"),
			Recipient:   cols.str(row, "recipient"),
			RecipientID: cols.iin(row, "recipient_iin"),
			KNP:         cols.str(row, "knp"),
			Purpose:     cols.str(row, "purpose"),
		})
	}
	return r
}

func scoreKaspiStatistics(s *sheet.Sheet, _ sheet.FileContext) float64 {
	for _, row := range s.Head(10) {
		for _, v := range row {
			c := lower(v)
			if strings.Contains(c, "статистика") {
				return 0.9
			}
			if strings.Contains(c, "терминал_id") {
				return 0.3
			}
		}
	}
	return 0
}

func extractKaspiStatistics(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{}
	r.warn("Kaspi statistics format: limited field mapping")
	rows := s.Rows

	headerIdx := findRow(rows, 10, func(t string) bool {
		return strings.Contains(t, "дата") && containsAny(t, "сумма", "бин")
	})
	if headerIdx < 0 {
		return r.fail("No parseable header")
	}
	cols := mapColumns(rows[headerIdx], kaspiStatisticsColumns)

	for _, row := range rows[headerIdx+1:] {
		if isEmptyRow(row) || cols.get(row, "date") == nil {
			continue
		}
		opType := cols.str(row, "type")
		r.add(statement.Transaction{
			Date:          cols.date(row, "date"),
			Amount:        cols.amount(row, "amount"),
			Currency:      orString(cols.currency(row, "currency"), "KZT"),
			AmountLocal:   cols.amount(row, "amount"),
			Direction:     normalize.DirectionFromText(opType),
			Recipient:     cols.str(row, "name"),
			RecipientID:   cols.iin(row, "bin"),
			OperationType: opType,
		})
	}
	return r
}
