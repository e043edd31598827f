package banks

import (
	"regexp"
	"strings"

	"github.com/gigurra/kz-statements/internal/normalize"
	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

// Kazkommertsbank "ВЫПИСКА ПО СЧЕТУ" text-block statements: a Дата | Дебет
// | Кредит grid where each transaction row is followed by up to four lines
// of purpose text in the first column and blocks are separated by dashes.
// Sheets without such a header (the cash-out sheet) are mined line by line
// for a date and a "... тг" amount. Sheet names like "входящие" or "обнал"
// give the direction when the amounts do not.
var kazkom = &format{
	id:      "kazkom",
	bank:    "АО Казкоммерцбанк",
	score:   scoreKazkom,
	extract: extractKazkom,
}

var (
	kazkomColumns = []colRule{
		{field: "date", any: []string{"дата"}},
		{field: "debit", any: []string{"дебет"}},
		{field: "credit", any: []string{"кредит"}},
	}

	textBlockDate   = regexp.MustCompile(`\d{2}\.\d{2}\.\d{2,4}`)
	textBlockAmount = regexp.MustCompile(`(\d[\d\s\x{00A0}]*\d)[\s\x{00A0}]*(?:тг|тенге)`)
)

func scoreKazkom(s *sheet.Sheet, fc sheet.FileContext) float64 {
	var identified, titled, dotted bool
	for i, row := range s.Head(15) {
		for _, v := range row {
			raw := text(v)
			if raw == "" {
				continue
			}
			l := strings.ToLower(raw)
			if strings.Contains(raw, "KZKOKZKX") {
				identified = true
			}
			// The bank name also shows up in data rows (bond coupons), so
			// only trust it in the metadata block.
			if i < 10 && strings.Contains(l, "казкоммерцбанк") && !strings.Contains(l, "облигации") {
				identified = true
			}
			if strings.Contains(l, "дата постирования") {
				return 0.95
			}
			if strings.Contains(l, "выписка по счету") {
				titled = true
			}
			if strings.Contains(raw, ". . . :") {
				dotted = true
			}
		}
	}

	folder := fc.FolderHas("казкоммерц")
	switch {
	case identified && titled:
		return 0.95
	case identified:
		return 0.90
	case titled && dotted:
		return 0.85
	case titled && folder:
		return 0.95
	case titled:
		return 0.6
	case folder:
		return 0.7
	}
	return 0
}

func kazkomSheetDirection(name string) statement.Direction {
	n := strings.ToLower(name)
	switch {
	case containsAny(n, "входящ", "кредит"):
		return statement.Income
	case containsAny(n, "исходящ", "дебет", "обнал"):
		return statement.Expense
	}
	return statement.Unknown
}

func extractKazkom(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
	r := &sheetResult{account: lastMatch(s, 15, ibanLong)}
	rows := s.Rows
	sheetDir := kazkomSheetDirection(s.Name)

	headerIdx := findRow(rows, 20, func(t string) bool {
		return strings.Contains(t, "дата") && containsAny(t, "дебет", "кредит", "сумма")
	})
	if headerIdx < 0 {
		return kazkomTextBlocks(r, rows, sheetDir)
	}
	cols := mapColumns(rows[headerIdx], kazkomColumns)

	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) || strings.Contains(text(cellAt(row, 0)), "---") {
			continue
		}
		date := cols.get(row, "date")
		debit, credit := cols.amount(row, "debit"), cols.amount(row, "credit")
		if text(date) == "" || !normalize.FirstNonZero(debit, credit).Valid {
			continue
		}

		direction := normalize.Direction(normalize.Hints{Debit: debit, Credit: credit})
		if direction == statement.Unknown {
			direction = sheetDir
		}
		amount := orAmount(credit, debit)
		r.add(statement.Transaction{
			Date:        normalize.Date(date),
			Amount:      amount,
			Currency:    "KZT",
			AmountLocal: amount,
			Direction:   direction,
			Purpose:     normalize.CleanString(strings.Join(kazkomPurpose(rows, i), " ")),
		})
	}
	return r
}

// kazkomPurpose collects the purpose lines under transaction row i: first
// column text up to the next separator, date or blank line, at most four.
func kazkomPurpose(rows [][]any, i int) []string {
	var parts []string
	for j := i + 1; j < min(i+5, len(rows)); j++ {
		first := text(cellAt(rows[j], 0))
		if first == "" || strings.Contains(first, "---") || normalize.IsDate(first) {
			break
		}
		parts = append(parts, first)
	}
	return parts
}

func kazkomTextBlocks(r *sheetResult, rows [][]any, direction statement.Direction) *sheetResult {
	for _, row := range rows {
		line := rawRowText(row)
		if line == "" {
			continue
		}
		date := textBlockDate.FindString(line)
		m := textBlockAmount.FindStringSubmatch(strings.ToLower(line))
		if date == "" || m == nil {
			continue
		}
		amount := normalize.Amount(strings.Join(strings.Fields(m[1]), ""))
		r.add(statement.Transaction{
			Date:        normalize.Date(date),
			Amount:      amount,
			Currency:    "KZT",
			AmountLocal: amount,
			Direction:   direction,
			Purpose:     normalize.CleanString(line),
		})
	}
	return r.warn("Unstructured text format")
}
