// Package banks recognizes Kazakh bank statement layouts and extracts
// canonical transactions from them. Every supported layout is a Format;
// Registry lists them in detection precedence order.
package banks

import (
	"fmt"

	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

// Format is one bank statement layout.
type Format interface {
	// ID is the stable identifier used in reports and on the command line.
	ID() string
	// Bank is the display name written to statement_bank. Some formats
	// cover several banks and refine it per file.
	Bank() string
	// Score returns the confidence in [0, 1] that s is in this format.
	// It must be side-effect free and only look at the leading rows.
	Score(s *sheet.Sheet, fc sheet.FileContext) float64
	// Parse extracts every sheet of a detected file.
	Parse(sheets []*sheet.Sheet, fc sheet.FileContext) *statement.Result
}

// format is the table-driven Format every layout is built from.
type format struct {
	id      string
	bank    string
	score   func(*sheet.Sheet, sheet.FileContext) float64
	extract func(*sheet.Sheet, sheet.FileContext) *sheetResult
	// pick narrows the sheets to parse. Nil means all of them.
	pick func([]*sheet.Sheet) []*sheet.Sheet
}

func (f *format) ID() string   { return f.id }
func (f *format) Bank() string { return f.bank }

func (f *format) Score(s *sheet.Sheet, fc sheet.FileContext) float64 {
	return f.score(s, fc)
}

// Parse runs the extractor over each sheet. A sheet that panics is reported
// as an error and the remaining sheets are still parsed. Transactions keep
// sheet order and the first non-empty account number wins.
func (f *format) Parse(sheets []*sheet.Sheet, fc sheet.FileContext) *statement.Result {
	res := statement.NewResult(fc.Path, fc.Filename)
	res.BankDetected = f.bank
	res.ParserUsed = f.id

	if f.pick != nil {
		sheets = f.pick(sheets)
	}

	refined := false
	for _, s := range sheets {
		sr, err := f.extractSheet(s, fc)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Error parsing sheet '%s': %v", s.Name, err))
			continue
		}

		bank := f.bank
		if sr.bank != "" {
			bank = sr.bank
			if !refined {
				res.BankDetected, refined = sr.bank, true
			}
		}
		if res.AccountNumber == "" {
			res.AccountNumber = sr.account
		}

		for _, t := range sr.txs {
			if t.StatementBank == "" {
				t.StatementBank = bank
			}
			if t.AccountNumber == "" {
				t.AccountNumber = sr.account
			}
			t.SourceFile = fc.Filename
			t.Canonicalize()
			res.Transactions = append(res.Transactions, t)
		}
		res.Warnings = append(res.Warnings, sr.warnings...)
		res.Errors = append(res.Errors, sr.errors...)
	}
	return res.Finalize()
}

func (f *format) extractSheet(s *sheet.Sheet, fc sheet.FileContext) (sr *sheetResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			sr, err = nil, fmt.Errorf("%v", r)
		}
	}()
	sr = f.extract(s, fc)
	if sr == nil {
		sr = &sheetResult{}
	}
	return sr, nil
}

// sheetResult is what an extractor found on one sheet. Transactions may
// leave StatementBank and AccountNumber empty; Parse fills them in.
type sheetResult struct {
	txs      []statement.Transaction
	account  string
	bank     string // overrides the format's bank name when set
	warnings []string
	errors   []string
}

func (r *sheetResult) add(t statement.Transaction) {
	r.txs = append(r.txs, t)
}

func (r *sheetResult) warn(msg string) *sheetResult {
	r.warnings = append(r.warnings, msg)
	return r
}

func (r *sheetResult) fail(msg string) *sheetResult {
	r.errors = append(r.errors, msg)
	return r
}
