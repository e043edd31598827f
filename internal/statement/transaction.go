package statement

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Direction tells whether money came into or left the statement account.
type Direction string

const (
	Unknown Direction = ""
	Income  Direction = "Приход"
	Expense Direction = "Расход"
)

func (d Direction) MarshalJSON() ([]byte, error) {
	if d == Unknown {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

func (d *Direction) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		*d = Unknown
		return nil
	}
	*d = Direction(*s)
	return nil
}

// Transaction is the unified record every bank format is normalized into.
// Empty strings and invalid amounts mean the source did not provide the field.
type Transaction struct {
	Date             string
	Amount           decimal.NullDecimal
	Currency         string
	AmountLocal      decimal.NullDecimal // amount in tenge
	Direction        Direction
	Payer            string
	PayerID          string // IIN/BIN
	PayerBank        string
	PayerAccount     string
	Recipient        string
	RecipientID      string
	RecipientBank    string
	RecipientAccount string
	OperationType    string
	KNP              string // payment purpose classification code
	Purpose          string
	DocumentNumber   string
	StatementBank    string
	AccountNumber    string
	SourceFile       string
}

// Canonicalize moves a sign carried by either amount into the direction.
func (t *Transaction) Canonicalize() {
	if t.Amount.Valid && t.Amount.Decimal.IsNegative() {
		t.Amount.Decimal = t.Amount.Decimal.Abs()
		if t.Direction == Unknown {
			t.Direction = Expense
		}
	}
	if t.AmountLocal.Valid && t.AmountLocal.Decimal.IsNegative() {
		t.AmountLocal.Decimal = t.AmountLocal.Decimal.Abs()
		if t.Direction == Unknown {
			t.Direction = Expense
		}
	}
}

// Counterparty fills the payer side for income and the recipient side for
// expenses. Formats that only know "the other party" use it.
func (t *Transaction) Counterparty(name, id, bank, account string) {
	switch t.Direction {
	case Income:
		t.Payer, t.PayerID, t.PayerBank, t.PayerAccount = name, id, bank, account
	case Expense:
		t.Recipient, t.RecipientID, t.RecipientBank, t.RecipientAccount = name, id, bank, account
	}
}

type jsonTransaction struct {
	Date             *string    `json:"transaction_date"`
	Amount           jsonAmount `json:"amount"`
	Currency         *string    `json:"currency"`
	AmountLocal      jsonAmount `json:"amount_tenge"`
	Direction        Direction  `json:"direction"`
	Payer            *string    `json:"payer"`
	PayerID          *string    `json:"payer_iin_bin"`
	PayerBank        *string    `json:"payer_bank"`
	PayerAccount     *string    `json:"payer_account"`
	Recipient        *string    `json:"recipient"`
	RecipientID      *string    `json:"recipient_iin_bin"`
	RecipientBank    *string    `json:"recipient_bank"`
	RecipientAccount *string    `json:"recipient_account"`
	OperationType    *string    `json:"operation_type"`
	KNP              *string    `json:"knp"`
	Purpose          *string    `json:"payment_purpose"`
	DocumentNumber   *string    `json:"document_number"`
	StatementBank    *string    `json:"statement_bank"`
	AccountNumber    *string    `json:"account_number"`
	SourceFile       *string    `json:"source_file"`
}

// jsonAmount writes amounts as bare JSON numbers.
type jsonAmount decimal.NullDecimal

func (a jsonAmount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return []byte(a.Decimal.String()), nil
}

func (a *jsonAmount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = jsonAmount{}
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*a = jsonAmount{Decimal: d, Valid: true}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonTransaction{
		Date:             nullable(t.Date),
		Amount:           jsonAmount(t.Amount),
		Currency:         nullable(t.Currency),
		AmountLocal:      jsonAmount(t.AmountLocal),
		Direction:        t.Direction,
		Payer:            nullable(t.Payer),
		PayerID:          nullable(t.PayerID),
		PayerBank:        nullable(t.PayerBank),
		PayerAccount:     nullable(t.PayerAccount),
		Recipient:        nullable(t.Recipient),
		RecipientID:      nullable(t.RecipientID),
		RecipientBank:    nullable(t.RecipientBank),
		RecipientAccount: nullable(t.RecipientAccount),
		OperationType:    nullable(t.OperationType),
		KNP:              nullable(t.KNP),
		Purpose:          nullable(t.Purpose),
		DocumentNumber:   nullable(t.DocumentNumber),
		StatementBank:    nullable(t.StatementBank),
		AccountNumber:    nullable(t.AccountNumber),
		SourceFile:       nullable(t.SourceFile),
	})
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var j jsonTransaction
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*t = Transaction{
		Date:             deref(j.Date),
		Amount:           decimal.NullDecimal(j.Amount),
		Currency:         deref(j.Currency),
		AmountLocal:      decimal.NullDecimal(j.AmountLocal),
		Direction:        j.Direction,
		Payer:            deref(j.Payer),
		PayerID:          deref(j.PayerID),
		PayerBank:        deref(j.PayerBank),
		PayerAccount:     deref(j.PayerAccount),
		Recipient:        deref(j.Recipient),
		RecipientID:      deref(j.RecipientID),
		RecipientBank:    deref(j.RecipientBank),
		RecipientAccount: deref(j.RecipientAccount),
		OperationType:    deref(j.OperationType),
		KNP:              deref(j.KNP),
		Purpose:          deref(j.Purpose),
		DocumentNumber:   deref(j.DocumentNumber),
		StatementBank:    deref(j.StatementBank),
		AccountNumber:    deref(j.AccountNumber),
		SourceFile:       deref(j.SourceFile),
	}
	return nil
}

// Headers returns the export column titles, in Record order.
func Headers() []string {
	return []string{
		"Дата операции", "Сумма", "Валюта", "Сумма в тенге",
		"Направление", "Плательщик", "ИИН/БИН плательщика",
		"Банк плательщика", "Счёт плательщика", "Получатель",
		"ИИН/БИН получателя", "Банк получателя", "Счёт получателя",
		"Тип операции", "КНП", "Назначение платежа",
		"Номер документа", "Банк выписки", "Номер счёта", "Исходный файл",
	}
}

// Record renders the transaction as an export row. Amounts stay numeric,
// missing values are nil.
func (t Transaction) Record() []any {
	amount := func(d decimal.NullDecimal) any {
		if !d.Valid {
			return nil
		}
		return d.Decimal.InexactFloat64()
	}
	str := func(s string) any {
		if s == "" {
			return nil
		}
		return s
	}
	return []any{
		str(t.Date), amount(t.Amount), str(t.Currency), amount(t.AmountLocal),
		str(string(t.Direction)), str(t.Payer), str(t.PayerID),
		str(t.PayerBank), str(t.PayerAccount), str(t.Recipient),
		str(t.RecipientID), str(t.RecipientBank), str(t.RecipientAccount),
		str(t.OperationType), str(t.KNP), str(t.Purpose),
		str(t.DocumentNumber), str(t.StatementBank), str(t.AccountNumber), str(t.SourceFile),
	}
}
