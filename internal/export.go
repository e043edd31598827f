package internal

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/gocarina/gocsv"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/gigurra/kz-statements/internal/statement"
)

const (
	TransactionsSheet = "Транзакции"
	FilesSheet        = "Файлы"

	maxColumnWidth = 50
)

// utf8BOM lets Excel open the CSV as UTF-8.
const utf8BOM = "\ufeff"

// csvRecord is one row of transactions.csv. The tags must stay in
// statement.Headers order.
type csvRecord struct {
	Date             string `csv:"Дата операции"`
	Amount           string `csv:"Сумма"`
	Currency         string `csv:"Валюта"`
	AmountLocal      string `csv:"Сумма в тенге"`
	Direction        string `csv:"Направление"`
	Payer            string `csv:"Плательщик"`
	PayerID          string `csv:"ИИН/БИН плательщика"`
	PayerBank        string `csv:"Банк плательщика"`
	PayerAccount     string `csv:"Счёт плательщика"`
	Recipient        string `csv:"Получатель"`
	RecipientID      string `csv:"ИИН/БИН получателя"`
	RecipientBank    string `csv:"Банк получателя"`
	RecipientAccount string `csv:"Счёт получателя"`
	OperationType    string `csv:"Тип операции"`
	KNP              string `csv:"КНП"`
	Purpose          string `csv:"Назначение платежа"`
	DocumentNumber   string `csv:"Номер документа"`
	StatementBank    string `csv:"Банк выписки"`
	AccountNumber    string `csv:"Номер счёта"`
	SourceFile       string `csv:"Исходный файл"`
}

func newCSVRecord(t statement.Transaction) csvRecord {
	amount := func(d decimal.NullDecimal) string {
		if !d.Valid {
			return ""
		}
		return d.Decimal.String()
	}
	return csvRecord{
		Date:             t.Date,
		Amount:           amount(t.Amount),
		Currency:         t.Currency,
		AmountLocal:      amount(t.AmountLocal),
		Direction:        string(t.Direction),
		Payer:            t.Payer,
		PayerID:          t.PayerID,
		PayerBank:        t.PayerBank,
		PayerAccount:     t.PayerAccount,
		Recipient:        t.Recipient,
		RecipientID:      t.RecipientID,
		RecipientBank:    t.RecipientBank,
		RecipientAccount: t.RecipientAccount,
		OperationType:    t.OperationType,
		KNP:              t.KNP,
		Purpose:          t.Purpose,
		DocumentNumber:   t.DocumentNumber,
		StatementBank:    t.StatementBank,
		AccountNumber:    t.AccountNumber,
		SourceFile:       t.SourceFile,
	}
}

// WriteCSV writes the transactions as UTF-8 CSV with a BOM and Russian headers.
func WriteCSV(path string, txs []statement.Transaction) error {
	records := make([]csvRecord, len(txs))
	for i, t := range txs {
		records[i] = newCSVRecord(t)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv: %w", err)
	}
	if _, err := f.WriteString(utf8BOM); err != nil {
		f.Close()
		return fmt.Errorf("writing csv: %w", err)
	}
	if err := gocsv.Marshal(&records, f); err != nil {
		f.Close()
		return fmt.Errorf("writing csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// WriteXLSX writes a workbook with every transaction on the Транзакции sheet
// and one row per processed file on the Файлы sheet.
func WriteXLSX(path string, b *Batch) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), TransactionsSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	var rows [][]any
	for _, t := range b.Transactions() {
		rows = append(rows, t.Record())
	}
	if err := writeSheet(f, TransactionsSheet, lo.ToAnySlice(statement.Headers()), rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(FilesSheet); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	header := []any{"Файл", "Банк", "Формат", "Счёт", "Статус", "Транзакций", "Ошибки", "Предупреждения"}
	files := make([][]any, len(b.Results))
	for i, r := range b.Results {
		files[i] = []any{
			r.SourceFile, r.BankDetected, r.ParserUsed, r.AccountNumber, string(r.Status),
			r.TotalTransactions, strings.Join(r.Errors, "; "), strings.Join(r.Warnings, "; "),
		}
	}
	if err := writeSheet(f, FilesSheet, header, files); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving xlsx: %w", err)
	}
	return nil
}

// writeSheet fills a sheet starting at A1 and sizes each column to its
// longest value, capped at maxColumnWidth characters.
func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any) error {
	widths := make([]int, len(header))
	measure := func(row []any) {
		for j, v := range row {
			if j < len(widths) && v != nil {
				widths[j] = max(widths[j], utf8.RuneCountInString(fmt.Sprint(v)))
			}
		}
	}

	measure(header)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}
	for i, row := range rows {
		measure(row)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+2, err)
		}
	}

	for j, w := range widths {
		col, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, float64(min(w+2, maxColumnWidth))); err != nil {
			return fmt.Errorf("sizing %s column %s: %w", sheet, col, err)
		}
	}
	return nil
}
