package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/gigurra/kz-statements/internal/banks"
	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

// Job is one file to process. Folder is the bank hint passed to the
// recognizers; Format, when set, bypasses detection.
type Job struct {
	Path   string
	Folder string
	Format banks.Format
}

// Processor turns statement files into parse results.
type Processor struct {
	cfg      *Config
	detector *banks.Detector
	log      *slog.Logger
	workers  int

	// TempDir is where uploads are staged. Empty means os.TempDir().
	TempDir string
}

func NewProcessor(cfg *Config, log *slog.Logger) *Processor {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if log == nil {
		log = slog.Default()
	}
	detector := banks.NewDetector(log)
	detector.Accept = cfg.Detection.Accept
	detector.Certain = cfg.Detection.Certain
	return &Processor{cfg: cfg, detector: detector, log: log, workers: max(cfg.Workers, 1)}
}

// ProcessFile detects and parses one file.
func (p *Processor) ProcessFile(path, folder string) *statement.Result {
	return p.Process(Job{Path: path, Folder: folder})
}

// Process runs one job. It never panics: every failure ends up in the
// result's status and errors.
func (p *Processor) Process(job Job) (res *statement.Result) {
	fc := sheet.NewFileContext(job.Path, job.Folder)
	res = statement.NewResult(job.Path, fc.Filename)

	defer func() {
		if r := recover(); r != nil {
			res = statement.NewResult(job.Path, fc.Filename).Fail(fmt.Sprintf("Parse error: %v", r))
			if job.Format != nil {
				res.ParserUsed = job.Format.ID()
			}
			p.log.Error("Parse error", "file", fc.Filename, "error", r)
		}
	}()

	if !sheet.Supported(fc.Filename) {
		return res.Skip(fmt.Sprintf("Unsupported extension: %s", fc.Extension))
	}

	sheets, err := sheet.Read(job.Path)
	if err != nil {
		p.log.Error("Failed to read file", "file", fc.Filename, "error", err)
		return res.Fail(fmt.Sprintf("File read error: %v", err))
	}

	if lo.EveryBy(sheets, func(s *sheet.Sheet) bool { return s.NumRows() == 0 }) {
		res.Warnings = append(res.Warnings, "Empty file")
		return res.Skip("")
	}

	format := job.Format
	if format == nil {
		det := p.detector.Detect(sheets, fc)
		if !det.Detected() {
			p.log.Warn("No parser", "file", fc.Filename, "folder", job.Folder)
			return res.Fail("No parser detected")
		}
		format = det.Format
	}

	return format.Parse(sheets, fc)
}

// ProcessUpload stages r under its original file name in a temporary
// directory, processes it and removes the directory again.
func (p *Processor) ProcessUpload(name string, r io.Reader, job Job) *statement.Result {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}

	dir, err := os.MkdirTemp(p.TempDir, "kz-statements-upload-*")
	if err != nil {
		return statement.NewResult(name, base).Fail(fmt.Sprintf("File read error: %v", err))
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			p.log.Warn("Failed to remove upload", "dir", dir, "error", err)
		}
	}()

	path := filepath.Join(dir, base)
	if err := writeUpload(path, r); err != nil {
		return statement.NewResult(name, base).Fail(fmt.Sprintf("File read error: %v", err))
	}

	job.Path = path
	res := p.Process(job)
	res.FilePath = name
	return res
}

func writeUpload(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("copying upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	return nil
}

// Discover lists data_dir/<bank folder>/<file> in name order. Files directly
// in dataDir get an empty folder hint. Hidden files, Office lock files
// (~$name), non-spreadsheets and names matching a skip pattern are left out.
func Discover(dataDir string, cfg *Config) ([]Job, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("reading data directory: %w", err)
	}

	include := func(name string) bool {
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~") {
			return false
		}
		return sheet.Supported(name) && !cfg.ShouldSkip(name)
	}

	var jobs []Job
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !e.IsDir() {
			if include(name) {
				jobs = append(jobs, Job{Path: filepath.Join(dataDir, name)})
			}
			continue
		}

		folder := filepath.Join(dataDir, name)
		files, err := os.ReadDir(folder)
		if err != nil {
			return nil, fmt.Errorf("reading bank folder %s: %w", name, err)
		}
		for _, f := range files {
			if !f.IsDir() && include(f.Name()) {
				jobs = append(jobs, Job{Path: filepath.Join(folder, f.Name()), Folder: name})
			}
		}
	}
	return jobs, nil
}

// Batch is the outcome of one run over many files.
type Batch struct {
	RunID       string
	GeneratedAt time.Time
	Results     []*statement.Result
}

// NewBatch stamps results with a fresh run id and the current time.
func NewBatch(results []*statement.Result) *Batch {
	return &Batch{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
		Results:     results,
	}
}

// Transactions concatenates the transactions of every result, in result order.
func (b *Batch) Transactions() []statement.Transaction {
	return lo.FlatMap(b.Results, func(r *statement.Result, _ int) []statement.Transaction {
		return r.Transactions
	})
}

// StatusCounts counts results per status.
func (b *Batch) StatusCounts() map[statement.Status]int {
	return lo.CountValuesBy(b.Results, func(r *statement.Result) statement.Status {
		return r.Status
	})
}

// TotalTransactions sums the per-file transaction counts.
func (b *Batch) TotalTransactions() int {
	return lo.SumBy(b.Results, func(r *statement.Result) int { return r.TotalTransactions })
}

// ProcessAll runs the jobs on up to cfg.Workers goroutines. Results keep the
// job order. When ctx is cancelled no new job starts; the ones that never
// ran are reported as skipped.
func (p *Processor) ProcessAll(ctx context.Context, jobs []Job) *Batch {
	results := make([]*statement.Result, len(jobs))

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			res := p.Process(job)
			p.logResult(res)
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	for i, res := range results {
		if res == nil {
			results[i] = statement.NewResult(jobs[i].Path, filepath.Base(jobs[i].Path)).Skip("Cancelled")
		}
	}

	b := NewBatch(results)
	p.log.Info("Batch finished",
		"files", len(results),
		"succeeded", lo.CountBy(results, (*statement.Result).Succeeded),
		"transactions", b.TotalTransactions(),
	)
	return b
}

func (p *Processor) logResult(res *statement.Result) {
	if res.Succeeded() {
		p.log.Info("Parsed", "file", res.SourceFile, "status", res.Status,
			"transactions", res.TotalTransactions, "format", res.ParserUsed)
		return
	}
	p.log.Warn("Not parsed", "file", res.SourceFile, "status", res.Status, "errors", res.Errors)
}
