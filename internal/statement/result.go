package statement

// Status is the outcome of processing one input file.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Result is the per-file parse outcome. One extractor populates it, the
// orchestrator only reads it afterwards.
type Result struct {
	FilePath          string        `json:"-"`
	SourceFile        string        `json:"source_file"`
	BankDetected      string        `json:"bank_detected"`
	ParserUsed        string        `json:"parser_used"`
	AccountNumber     string        `json:"account_number"`
	Status            Status        `json:"parse_status"`
	TotalTransactions int           `json:"total_transactions"`
	Errors            []string      `json:"errors"`
	Warnings          []string      `json:"warnings"`
	Transactions      []Transaction `json:"transactions"`
}

func NewResult(path, sourceFile string) *Result {
	return &Result{
		FilePath:     path,
		SourceFile:   sourceFile,
		Status:       StatusPending,
		Errors:       []string{},
		Warnings:     []string{},
		Transactions: []Transaction{},
	}
}

// Fail marks the result failed with the given error.
func (r *Result) Fail(msg string) *Result {
	r.Status = StatusFailed
	r.Errors = append(r.Errors, msg)
	return r
}

// Skip marks the result skipped. An empty msg records nothing.
func (r *Result) Skip(msg string) *Result {
	r.Status = StatusSkipped
	if msg != "" {
		r.Errors = append(r.Errors, msg)
	}
	return r
}

// Finalize counts transactions and derives the status:
//
//	transactions, no errors  -> success
//	transactions and errors  -> partial
//	none, errors             -> failed
//	none, no errors          -> skipped
func (r *Result) Finalize() *Result {
	r.TotalTransactions = len(r.Transactions)
	switch {
	case r.TotalTransactions > 0 && len(r.Errors) == 0:
		r.Status = StatusSuccess
	case r.TotalTransactions > 0:
		r.Status = StatusPartial
	case len(r.Errors) > 0:
		r.Status = StatusFailed
	default:
		r.Status = StatusSkipped
	}
	return r
}

// Succeeded reports whether the file produced usable transactions.
func (r *Result) Succeeded() bool {
	return r.Status == StatusSuccess || r.Status == StatusPartial
}
