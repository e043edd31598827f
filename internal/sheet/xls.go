package sheet

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
)

var plainNumber = regexp.MustCompile(`^-?(0|[1-9]\d*)(\.\d+)?$`)

func readXLS(path string) (sheets []*Sheet, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	// The BIFF decoder panics on some truncated workbooks.
	defer func() {
		if r := recover(); r != nil {
			sheets, err = nil, fmt.Errorf("decoding xls: %v", r)
		}
	}()

	wb, err := xls.OpenReader(f, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("opening xls: %w", err)
	}

	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		var grid [][]any
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := ws.Row(r)
			if row == nil {
				grid = append(grid, nil)
				continue
			}
			values := make([]any, row.LastCol())
			for c := range values {
				values[c] = xlsValue(row.Col(c))
			}
			grid = append(grid, trimRow(values))
		}
		// MaxRow is inclusive, so an empty sheet yields one nil row.
		for len(grid) > 0 && len(grid[len(grid)-1]) == 0 {
			grid = grid[:len(grid)-1]
		}
		sheets = append(sheets, New(ws.Name, grid))
	}
	return sheets, nil
}

// xlsValue types a cell the decoder has already rendered to text. Date
// cells come back in RFC 3339.
func xlsValue(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if plainNumber.MatchString(s) {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n
		}
	}
	return s
}
