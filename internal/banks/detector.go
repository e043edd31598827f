package banks

import (
	"fmt"
	"log/slog"

	"github.com/gigurra/kz-statements/internal/sheet"
)

const (
	// DefaultAccept is the lowest score a format needs to be chosen.
	DefaultAccept = 0.3
	// DefaultCertain stops the scan of further sheets.
	DefaultCertain = 0.9
)

// Detector picks the best Format for a file.
type Detector struct {
	Formats []Format
	Accept  float64
	Certain float64
	Log     *slog.Logger
}

// NewDetector returns a Detector over the full registry with default thresholds.
func NewDetector(log *slog.Logger) *Detector {
	return &Detector{
		Formats: Registry(),
		Accept:  DefaultAccept,
		Certain: DefaultCertain,
		Log:     log,
	}
}

// Detection is the outcome of Detect. Format is nil when nothing cleared
// the acceptance threshold; Score and Sheet still describe the best attempt.
type Detection struct {
	Format Format
	Score  float64
	Sheet  string
}

// Detected reports whether a format was accepted.
func (d Detection) Detected() bool {
	return d.Format != nil
}

// Detect scores every format against every sheet and keeps the best.
// Earlier formats win ties. Once a sheet yields a score of at least
// Certain the remaining sheets are not examined.
func (d *Detector) Detect(sheets []*sheet.Sheet, fc sheet.FileContext) Detection {
	log := d.logger()

	var best Detection
	for _, s := range sheets {
		for _, f := range d.Formats {
			score, err := safeScore(f, s, fc)
			if err != nil {
				log.Warn("Recognizer failed", "format", f.ID(), "file", fc.Filename, "sheet", s.Name, "error", err)
				continue
			}
			if score > best.Score {
				best = Detection{Format: f, Score: score, Sheet: s.Name}
			}
		}
		if best.Score >= d.Certain {
			break
		}
	}

	if best.Format != nil && best.Score >= d.Accept {
		log.Info("Detected format", "format", best.Format.ID(), "score", best.Score, "file", fc.Filename)
		return best
	}
	log.Warn("No format detected", "file", fc.Filename, "best_score", best.Score)
	best.Format = nil
	return best
}

func (d *Detector) logger() *slog.Logger {
	if d.Log != nil {
		return d.Log
	}
	return slog.Default()
}

func safeScore(f Format, s *sheet.Sheet, fc sheet.FileContext) (score float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			score, err = 0, fmt.Errorf("panic: %v", r)
		}
	}()
	return f.Score(s, fc), nil
}
