package banks

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

// stubFormat scores sheets from a table and counts how often it is asked.
type stubFormat struct {
	id     string
	scores map[string]float64
	panics bool
	calls  int
}

func (f *stubFormat) ID() string   { return f.id }
func (f *stubFormat) Bank() string { return f.id }

func (f *stubFormat) Score(s *sheet.Sheet, _ sheet.FileContext) float64 {
	f.calls++
	if f.panics {
		panic("broken recognizer")
	}
	return f.scores[s.Name]
}

func (f *stubFormat) Parse(_ []*sheet.Sheet, fc sheet.FileContext) *statement.Result {
	return statement.NewResult(fc.Path, fc.Filename).Finalize()
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDetector(formats ...Format) *Detector {
	return &Detector{Formats: formats, Accept: DefaultAccept, Certain: DefaultCertain, Log: quietLogger()}
}

func sheets(names ...string) []*sheet.Sheet {
	out := make([]*sheet.Sheet, len(names))
	for i, n := range names {
		out[i] = sheet.New(n, [][]any{{"x"}})
	}
	return out
}

func TestDetect_Thresholds(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		detected bool
	}{
		{"exactly accept", 0.3, true},
		{"just below accept", 0.29, false},
		{"certain", 0.9, true},
		{"zero", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &stubFormat{id: "f", scores: map[string]float64{"S": tt.score}}
			d := testDetector(f).Detect(sheets("S"), sheet.FileContext{Filename: "a.xlsx"})

			assert.Equal(t, tt.detected, d.Detected())
			assert.InDelta(t, tt.score, d.Score, 1e-9)
		})
	}
}

func TestDetect_CertainStopsSheetScan(t *testing.T) {
	f := &stubFormat{id: "f", scores: map[string]float64{"A": 0.95, "B": 1.0}}
	d := testDetector(f).Detect(sheets("A", "B"), sheet.FileContext{})

	require.True(t, d.Detected())
	assert.Equal(t, "A", d.Sheet)
	assert.Equal(t, 1, f.calls)
}

func TestDetect_LaterSheetCanWinBelowCertain(t *testing.T) {
	f := &stubFormat{id: "f", scores: map[string]float64{"A": 0.5, "B": 0.8}}
	d := testDetector(f).Detect(sheets("A", "B"), sheet.FileContext{})

	assert.Equal(t, "B", d.Sheet)
	assert.InDelta(t, 0.8, d.Score, 1e-9)
	assert.Equal(t, 2, f.calls)
}

func TestDetect_TiesKeepEarlierFormat(t *testing.T) {
	first := &stubFormat{id: "first", scores: map[string]float64{"S": 0.7}}
	second := &stubFormat{id: "second", scores: map[string]float64{"S": 0.7}}
	d := testDetector(first, second).Detect(sheets("S"), sheet.FileContext{})

	require.True(t, d.Detected())
	assert.Equal(t, "first", d.Format.ID())
}

func TestDetect_PanickingRecognizerCountsAsZero(t *testing.T) {
	broken := &stubFormat{id: "broken", panics: true}
	ok := &stubFormat{id: "ok", scores: map[string]float64{"S": 0.4}}
	d := testDetector(broken, ok).Detect(sheets("S"), sheet.FileContext{})

	require.True(t, d.Detected())
	assert.Equal(t, "ok", d.Format.ID())
}

func TestDetect_CustomThresholds(t *testing.T) {
	f := &stubFormat{id: "f", scores: map[string]float64{"S": 0.5}}
	det := testDetector(f)
	det.Accept = 0.6

	assert.False(t, det.Detect(sheets("S"), sheet.FileContext{}).Detected())
}

func TestDetect_NoSheets(t *testing.T) {
	d := NewDetector(quietLogger()).Detect(nil, sheet.FileContext{})
	assert.False(t, d.Detected())
	assert.Zero(t, d.Score)
}
