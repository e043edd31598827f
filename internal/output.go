package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"

	"github.com/gigurra/kz-statements/internal/banks"
	"github.com/gigurra/kz-statements/internal/statement"
)

const (
	AllTransactionsFile = "all_transactions.json"
	ReportFile          = "parse_report.json"
	CSVFile             = "transactions.csv"
	XLSXFile            = "transactions.xlsx"
)

// Report is the content of parse_report.json
type Report struct {
	RunID             string                   `json:"run_id"`
	GeneratedAt       string                   `json:"generated_at"`
	TotalFiles        int                      `json:"total_files"`
	StatusCounts      map[statement.Status]int `json:"status_counts"`
	TotalTransactions int                      `json:"total_transactions"`
	Summary           ReportSummary            `json:"summary"`
	Files             []ReportEntry            `json:"files"`
}

type ReportSummary struct {
	Currencies []ReportTotals `json:"currencies"`
	Banks      []string       `json:"banks"`
	DateFrom   *string        `json:"date_from"`
	DateTo     *string        `json:"date_to"`
}

type ReportTotals struct {
	Currency     string      `json:"currency"`
	Transactions int         `json:"transactions"`
	Income       json.Number `json:"income"`
	Expense      json.Number `json:"expense"`
}

// ReportEntry is one file's line in the report. Warnings are capped.
type ReportEntry struct {
	SourceFile        string           `json:"source_file"`
	BankDetected      string           `json:"bank_detected"`
	ParserUsed        string           `json:"parser_used"`
	AccountNumber     string           `json:"account_number"`
	ParseStatus       statement.Status `json:"parse_status"`
	TotalTransactions int              `json:"total_transactions"`
	Errors            []string         `json:"errors"`
	Warnings          []string         `json:"warnings"`
}

// BuildReport summarizes a batch, listing at most warningsLimit warnings per file.
func BuildReport(b *Batch, warningsLimit int) Report {
	sum := Summarize(b.Transactions())
	optional := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}

	return Report{
		RunID:             b.RunID,
		GeneratedAt:       b.GeneratedAt.Format(time.RFC3339),
		TotalFiles:        len(b.Results),
		StatusCounts:      b.StatusCounts(),
		TotalTransactions: b.TotalTransactions(),
		Summary: ReportSummary{
			Currencies: lo.Map(sum.Totals, func(ct CurrencyTotals, _ int) ReportTotals {
				return ReportTotals{
					Currency:     ct.Currency,
					Transactions: ct.Transactions,
					Income:       json.Number(ct.Income.StringFixed(2)),
					Expense:      json.Number(ct.Expense.StringFixed(2)),
				}
			}),
			Banks:    lo.Ternary(sum.Banks == nil, []string{}, sum.Banks),
			DateFrom: optional(sum.DateFrom),
			DateTo:   optional(sum.DateTo),
		},
		Files: lo.Map(b.Results, func(r *statement.Result, _ int) ReportEntry {
			warnings := r.Warnings
			if len(warnings) > warningsLimit {
				warnings = warnings[:warningsLimit]
			}
			return ReportEntry{
				SourceFile:        r.SourceFile,
				BankDetected:      r.BankDetected,
				ParserUsed:        r.ParserUsed,
				AccountNumber:     r.AccountNumber,
				ParseStatus:       r.Status,
				TotalTransactions: r.TotalTransactions,
				Errors:            lo.Ternary(r.Errors == nil, []string{}, r.Errors),
				Warnings:          lo.Ternary(warnings == nil, []string{}, warnings),
			}
		}),
	}
}

// SanitizeName turns a source file name into an output base name: the
// extension is dropped, letters, digits and "-_." are kept, the rest becomes "_".
func SanitizeName(sourceFile string) string {
	base := strings.TrimSuffix(sourceFile, filepath.Ext(sourceFile))
	safe := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("-_.", r) {
			return r
		}
		return '_'
	}, base)
	if safe == "" {
		return "_"
	}
	return safe
}

// WriteOutputs writes every enabled output of a finished batch to dir and
// returns the written paths. parse_report.json is always written.
func WriteOutputs(dir string, b *Batch, cfg *Config) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	var written []string
	write := func(name string, fn func(path string) error) error {
		path := filepath.Join(dir, name)
		if err := fn(path); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	if cfg.Exporting(ExportJSON) {
		for name, res := range perFileNames(b.Results) {
			if err := write(name, func(path string) error { return writeJSON(path, res) }); err != nil {
				return written, err
			}
		}
		txs := b.Transactions()
		if txs == nil {
			txs = []statement.Transaction{}
		}
		if err := write(AllTransactionsFile, func(path string) error { return writeJSON(path, txs) }); err != nil {
			return written, err
		}
	}
	if cfg.Exporting(ExportCSV) {
		if err := write(CSVFile, func(path string) error { return WriteCSV(path, b.Transactions()) }); err != nil {
			return written, err
		}
	}
	if cfg.Exporting(ExportXLSX) {
		if err := write(XLSXFile, func(path string) error { return WriteXLSX(path, b) }); err != nil {
			return written, err
		}
	}

	report := BuildReport(b, cfg.ReportWarningsLimit)
	if err := write(ReportFile, func(path string) error { return writeJSON(path, report) }); err != nil {
		return written, err
	}
	return written, nil
}

// perFileNames assigns each result its JSON file name. Same-named source
// files from different bank folders get a numeric suffix in result order,
// and so do names that would overwrite a combined output.
func perFileNames(results []*statement.Result) map[string]*statement.Result {
	reserved := []string{AllTransactionsFile, ReportFile}
	names := make(map[string]*statement.Result, len(results))
	taken := func(name string) bool {
		return names[name] != nil || slices.Contains(reserved, name)
	}
	for _, r := range results {
		base := SanitizeName(r.SourceFile)
		name := base + ".json"
		for n := 2; taken(name); n++ {
			name = fmt.Sprintf("%s_%d.json", base, n)
		}
		names[name] = r
	}
	return names
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func statusText(s statement.Status) string {
	label := strings.ToUpper(string(s))
	switch s {
	case statement.StatusSuccess:
		return text.FgGreen.Sprint(label)
	case statement.StatusPartial:
		return text.FgYellow.Sprint(label)
	case statement.StatusFailed:
		return text.FgRed.Sprint(label)
	default:
		return text.FgHiBlack.Sprint(label)
	}
}

// PrintReportTable renders the per-file outcome and the per-currency totals.
func PrintReportTable(w io.Writer, b *Batch) {
	counts := b.StatusCounts()
	fmt.Fprintf(w, "Processed %d files (%d success, %d partial, %d failed, %d skipped), %d transactions\n\n",
		len(b.Results), counts[statement.StatusSuccess], counts[statement.StatusPartial],
		counts[statement.StatusFailed], counts[statement.StatusSkipped], b.TotalTransactions())

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"File", "Bank", "Format", "Account", "Status", "Transactions", "Notes"})
	for _, r := range b.Results {
		notes := ""
		if len(r.Errors) > 0 {
			notes = text.FgRed.Sprint(text.Trim(r.Errors[0], 60))
		} else if len(r.Warnings) > 0 {
			notes = text.FgHiBlack.Sprint(text.Trim(r.Warnings[0], 60))
		}
		t.AppendRow(table.Row{
			r.SourceFile, r.BankDetected, r.ParserUsed, r.AccountNumber,
			statusText(r.Status), r.TotalTransactions, notes,
		})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{"", "", "", "", text.Bold.Sprint("Total"), text.Bold.Sprint(b.TotalTransactions()), ""})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 6, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.Render()

	sum := Summarize(b.Transactions())
	if len(sum.Totals) == 0 {
		return
	}

	fmt.Fprintln(w)
	if sum.DateFrom != "" {
		fmt.Fprintf(w, "Period: %s .. %s\n", sum.DateFrom, sum.DateTo)
	}
	totals := table.NewWriter()
	totals.SetOutputMirror(w)
	totals.AppendHeader(table.Row{"Currency", "Transactions", "Income", "Expense"})
	for _, ct := range sum.Totals {
		cur := GetCurrency(ct.Currency)
		totals.AppendRow(table.Row{ct.Currency, ct.Transactions, cur.Format(ct.Income), cur.Format(ct.Expense)})
	}
	totals.SetStyle(table.StyleRounded)
	totals.Style().Format.Header = text.FormatDefault
	totals.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	totals.Render()
}

// PrintFormatsTable lists the registered formats in detection order.
func PrintFormatsTable(w io.Writer, formats []banks.Format) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Format", "Bank"})
	for i, f := range formats {
		t.AppendRow(table.Row{i + 1, f.ID(), f.Bank()})
	}
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Render()
}
