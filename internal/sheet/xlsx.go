package sheet

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

func readXLSX(path string) ([]*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	c := &xlsxCells{f: f, dateStyles: map[int]bool{}}
	var sheets []*Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", name, err)
		}
		grid := make([][]any, len(rows))
		for i, row := range rows {
			values := make([]any, len(row))
			for j, raw := range row {
				values[j] = c.value(name, i, j, raw)
			}
			grid[i] = trimRow(values)
		}
		sheets = append(sheets, New(name, grid))
	}
	return sheets, nil
}

type xlsxCells struct {
	f          *excelize.File
	dateStyles map[int]bool
}

// value turns a raw cell string into a typed value: numbers become float64,
// numbers with a date format become time.Time.
func (c *xlsxCells) value(sheetName string, i, j int, raw string) any {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	axis, err := excelize.CoordinatesToCellName(j+1, i+1)
	if err != nil {
		return raw
	}
	typ, err := c.f.GetCellType(sheetName, axis)
	if err != nil {
		return raw
	}
	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeDate:
	default:
		return raw
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	if c.isDate(sheetName, axis) {
		if t, err := excelize.ExcelDateToTime(n, false); err == nil {
			return t
		}
	}
	return n
}

func (c *xlsxCells) isDate(sheetName, axis string) bool {
	id, err := c.f.GetCellStyle(sheetName, axis)
	if err != nil {
		return false
	}
	if known, ok := c.dateStyles[id]; ok {
		return known
	}
	style, err := c.f.GetStyle(id)
	isDate := err == nil && isDateFormat(style.NumFmt, style.CustomNumFmt)
	c.dateStyles[id] = isDate
	return isDate
}

var (
	quotedText   = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]`)
	dateFmtToken = regexp.MustCompile(`[ydh]`)
)

// isDateFormat recognizes the built-in date/time number formats and custom
// format codes with year, day or hour tokens.
func isDateFormat(id int, custom *string) bool {
	if custom != nil && *custom != "" {
		code := quotedText.ReplaceAllString(strings.ToLower(*custom), "")
		return dateFmtToken.MatchString(code)
	}
	switch {
	case id >= 14 && id <= 22, id >= 27 && id <= 36, id >= 45 && id <= 47, id >= 50 && id <= 58:
		return true
	}
	return false
}
