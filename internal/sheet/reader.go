package sheet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	ErrNotHTML              = errors.New("file is not HTML-encoded")
	ErrNoTables             = errors.New("no tables found in HTML file")
)

// Extensions lists the file extensions Read understands.
var Extensions = []string{".xlsx", ".xls"}

// Supported reports whether the file name has a readable extension.
func Supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Read loads every worksheet of a spreadsheet file. The actual format is
// sniffed: an .xlsx that excelize rejects is retried as legacy .xls, and an
// .xls that is really an HTML page becomes one sheet per <table>.
func Read(path string) ([]*Sheet, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		sheets, err := readXLSX(path)
		if err == nil {
			return sheets, nil
		}
		if fallback, xlsErr := readXLS(path); xlsErr == nil {
			return fallback, nil
		}
		return nil, err
	case ".xls":
		sheets, err := readXLS(path)
		if err == nil {
			return sheets, nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("reading file: %w", readErr)
		}
		sheets, htmlErr := readHTML(data)
		if htmlErr != nil {
			return nil, errors.Join(err, htmlErr)
		}
		return sheets, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExtension, ext)
	}
}

// trimRow drops trailing nil cells.
func trimRow(row []any) []any {
	n := len(row)
	for n > 0 && row[n-1] == nil {
		n--
	}
	return row[:n]
}
