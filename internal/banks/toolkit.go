package banks

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gigurra/kz-statements/internal/normalize"
	"github.com/gigurra/kz-statements/internal/sheet"
)

var (
	// ibanStrict is the exact Kazakh IBAN shape used on file names.
	ibanStrict = regexp.MustCompile(`KZ\d{2}[A-Za-z0-9]{4}\d{12}`)
	ibanShort  = regexp.MustCompile(`KZ\w{16,20}`)
	ibanLong   = regexp.MustCompile(`KZ\w{16,22}`)
)

func text(v any) string {
	return strings.TrimSpace(normalize.Text(v))
}

func lower(v any) string {
	return normalize.Lower(v)
}

func cellAt(row []any, j int) any {
	if j < 0 || j >= len(row) {
		return nil
	}
	return row[j]
}

// rowText joins the lower-cased non-empty cells of a row.
func rowText(row []any) string {
	parts := make([]string, 0, len(row))
	for _, v := range row {
		if s := lower(v); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// rawRowText is rowText without lower-casing, for case-sensitive markers
// like SWIFT codes.
func rawRowText(row []any) string {
	parts := make([]string, 0, len(row))
	for _, v := range row {
		if s := text(v); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// headText is rowText over the first n rows, one line per row.
func headText(s *sheet.Sheet, n int) string {
	lines := make([]string, 0, n)
	for _, row := range s.Head(n) {
		lines = append(lines, rowText(row))
	}
	return strings.Join(lines, "\n")
}

func isEmptyRow(row []any) bool {
	for _, v := range row {
		if v != nil && text(v) != "" {
			return false
		}
	}
	return true
}

func nonEmptyCount(row []any) int {
	n := 0
	for _, v := range row {
		if text(v) != "" {
			n++
		}
	}
	return n
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

// anyCell reports whether some cell in the first n rows satisfies pred.
// pred receives the trimmed, original-case text.
func anyCell(s *sheet.Sheet, n int, pred func(string) bool) bool {
	for _, row := range s.Head(n) {
		for _, v := range row {
			if t := text(v); t != "" && pred(t) {
				return true
			}
		}
	}
	return false
}

// findHeaderRow returns the first row among the leading maxRows where at
// least 60% of markers occur in some cell, or -1.
func findHeaderRow(rows [][]any, markers []string, maxRows int) int {
	for i, row := range rows[:min(len(rows), maxRows)] {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = strings.ToLower(normalize.CleanString(v))
		}
		matches := 0
		for _, m := range markers {
			m = strings.ToLower(m)
			for _, c := range cells {
				if strings.Contains(c, m) {
					matches++
					break
				}
			}
		}
		if matches*5 >= len(markers)*3 {
			return i
		}
	}
	return -1
}

// findRow returns the first row among the leading maxRows whose rowText
// satisfies pred, or -1.
func findRow(rows [][]any, maxRows int, pred func(string) bool) int {
	for i, row := range rows[:min(len(rows), maxRows)] {
		if pred(rowText(row)) {
			return i
		}
	}
	return -1
}

// extractCellValue finds the first cell in the leading maxRows containing
// search. A "key: value" cell yields the value, otherwise the next cell's
// text is returned, falling back to the cell itself.
func extractCellValue(rows [][]any, search string, maxRows int) (string, bool) {
	search = strings.ToLower(search)
	for _, row := range rows[:min(len(rows), maxRows)] {
		for j, v := range row {
			s := normalize.Text(v)
			if s == "" || !strings.Contains(strings.ToLower(s), search) {
				continue
			}
			if _, value, ok := strings.Cut(s, ":"); ok {
				return strings.TrimSpace(value), true
			}
			if next := text(cellAt(row, j+1)); next != "" {
				return next, true
			}
			return s, true
		}
	}
	return "", false
}

// accountFromFilename finds a Kazakh IBAN in a file name.
func accountFromFilename(name string) string {
	return ibanStrict.FindString(name)
}

// firstMatch returns the first match of re in the leading n rows.
func firstMatch(s *sheet.Sheet, n int, re *regexp.Regexp) string {
	for _, row := range s.Head(n) {
		for _, v := range row {
			if m := re.FindString(text(v)); m != "" {
				return m
			}
		}
	}
	return ""
}

// lastMatch is firstMatch keeping the last occurrence instead.
func lastMatch(s *sheet.Sheet, n int, re *regexp.Regexp) string {
	found := ""
	for _, row := range s.Head(n) {
		for _, v := range row {
			if m := re.FindString(text(v)); m != "" {
				found = m
			}
		}
	}
	return found
}

// isNumberRow reports whether every non-empty cell is a number. Column
// numbering rows (1, 2, 3...) under headers look like this. With integral
// set the numbers must also be whole.
func isNumberRow(row []any, integral bool) bool {
	seen := false
	for _, v := range row {
		if v == nil {
			continue
		}
		f, ok := v.(float64)
		if !ok {
			return false
		}
		if integral && f != math.Trunc(f) {
			return false
		}
		seen = true
	}
	return seen
}

// skipNumberRow returns the data start after a header, stepping over a
// column numbering row.
func skipNumberRow(rows [][]any, headerIdx int, integral bool) int {
	next := headerIdx + 1
	if next < len(rows) && isNumberRow(rows[next], integral) {
		return next + 1
	}
	return next
}

// skipCountingRow is skipNumberRow for rows of numbers below limit, the
// way some banks number their columns or rows under the header.
func skipCountingRow(rows [][]any, headerIdx int, limit float64) int {
	next := headerIdx + 1
	if next >= len(rows) {
		return next
	}
	seen := false
	for _, v := range rows[next] {
		if v == nil {
			continue
		}
		f, ok := v.(float64)
		if !ok || f >= limit {
			return next
		}
		seen = true
	}
	if seen {
		return next + 1
	}
	return next
}

// isSummary reports whether a cell marks a totals or balance row.
func isSummary(v any, markers ...string) bool {
	return containsAny(lower(v), markers...)
}

// orAmount returns the first present, non-zero amount, else the last one.
func orAmount(amounts ...decimal.NullDecimal) decimal.NullDecimal {
	if a := normalize.FirstNonZero(amounts...); a.Valid || len(amounts) == 0 {
		return a
	}
	return amounts[len(amounts)-1]
}

func orString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
