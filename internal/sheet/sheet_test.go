package sheet

import "testing"

func TestSheet_Bounds(t *testing.T) {
	s := New("S", [][]any{{"a", "b"}, {"c"}, {}})

	if got := s.NumRows(); got != 3 {
		t.Errorf("NumRows() = %d, want 3", got)
	}
	if got := s.NumCols(); got != 2 {
		t.Errorf("NumCols() = %d, want 2", got)
	}
	if got := s.Cell(1, 1); got != nil {
		t.Errorf("Cell(1, 1) = %v, want nil", got)
	}
	if got := s.Cell(-1, 0); got != nil {
		t.Errorf("Cell(-1, 0) = %v, want nil", got)
	}
	if got := s.Row(5); got != nil {
		t.Errorf("Row(5) = %v, want nil", got)
	}
	if got := len(s.Head(10)); got != 3 {
		t.Errorf("len(Head(10)) = %d, want 3", got)
	}
}

func TestFileContext(t *testing.T) {
	fc := NewFileContext("/data/Каспи Банк/Выписка_KZ.XLSX", "Каспи Банк")

	if fc.Filename != "Выписка_KZ.XLSX" {
		t.Errorf("Filename = %q", fc.Filename)
	}
	if fc.Extension != ".xlsx" {
		t.Errorf("Extension = %q, want .xlsx", fc.Extension)
	}
	if !fc.FolderHas("нет", "каспи") {
		t.Error("FolderHas should match lower-cased folder")
	}
	if !fc.FilenameHas("выписка") {
		t.Error("FilenameHas should match lower-cased filename")
	}
	if fc.FolderHas("халык") {
		t.Error("FolderHas matched an absent word")
	}
}
