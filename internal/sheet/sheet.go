// Package sheet holds the cell grid every bank format works on and the
// readers that produce it from .xlsx, .xls and HTML-disguised .xls files.
package sheet

import (
	"path/filepath"
	"strings"
)

// Sheet is one worksheet: a name and a possibly jagged grid of raw values.
// Values are nil, string, float64, bool or time.Time.
type Sheet struct {
	Name string
	Rows [][]any
}

func New(name string, rows [][]any) *Sheet {
	return &Sheet{Name: name, Rows: rows}
}

func (s *Sheet) NumRows() int {
	return len(s.Rows)
}

// NumCols is the length of the longest row.
func (s *Sheet) NumCols() int {
	n := 0
	for _, r := range s.Rows {
		n = max(n, len(r))
	}
	return n
}

// Row returns row i, or nil when out of range.
func (s *Sheet) Row(i int) []any {
	if i < 0 || i >= len(s.Rows) {
		return nil
	}
	return s.Rows[i]
}

// Cell returns the value at (i, j), or nil when out of range.
func (s *Sheet) Cell(i, j int) any {
	row := s.Row(i)
	if j < 0 || j >= len(row) {
		return nil
	}
	return row[j]
}

// Head returns at most the first n rows.
func (s *Sheet) Head(n int) [][]any {
	if n > len(s.Rows) {
		n = len(s.Rows)
	}
	return s.Rows[:n]
}

// FileContext describes the file being parsed. Folder is a hint (usually
// the containing directory name), never ground truth.
type FileContext struct {
	Path      string
	Filename  string
	Extension string
	Folder    string
}

func NewFileContext(path, folder string) FileContext {
	name := filepath.Base(path)
	return FileContext{
		Path:      path,
		Filename:  name,
		Extension: strings.ToLower(filepath.Ext(name)),
		Folder:    folder,
	}
}

// FolderHas reports whether the lower-cased folder hint contains any of subs.
func (fc FileContext) FolderHas(subs ...string) bool {
	return containsAny(strings.ToLower(fc.Folder), subs...)
}

// FilenameHas reports whether the lower-cased filename contains any of subs.
func (fc FileContext) FilenameHas(subs ...string) bool {
	return containsAny(strings.ToLower(fc.Filename), subs...)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
