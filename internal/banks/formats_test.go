package banks

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

func assertAmount(t *testing.T, want string, got decimal.NullDecimal) {
	t.Helper()
	require.True(t, got.Valid, "amount missing, want %s", want)
	assert.True(t, decimal.RequireFromString(want).Equal(got.Decimal), "amount = %s, want %s", got.Decimal, want)
}

func parseOne(t *testing.T, f Format, s *sheet.Sheet, fc sheet.FileContext) *statement.Result {
	t.Helper()
	if fc.Filename == "" {
		fc.Filename = "statement.xlsx"
		fc.Path = "/data/" + fc.Filename
	}
	res := f.Parse([]*sheet.Sheet{s}, fc)
	require.NotNil(t, res)
	return res
}

func TestGenericLedger_EndToEnd(t *testing.T) {
	s := sheet.New("Sheet1", [][]any{
		{"Date", "Debit", "Credit", "Counterparty"},
		{"2024-01-15", nil, 1000.0, "ТОО Ромашка"},
		{"2024-01-16", 250.5, nil, "ИП Иванов"},
		{"Total", 250.5, 1000.0, nil},
	})
	fc := sheet.FileContext{Path: "/data/x/ledger.xlsx", Filename: "ledger.xlsx", Extension: ".xlsx"}

	d := NewDetector(quietLogger()).Detect([]*sheet.Sheet{s}, fc)
	require.True(t, d.Detected())
	assert.Equal(t, "generic-ledger", d.Format.ID())
	assert.InDelta(t, 0.3, d.Score, 1e-9)

	res := d.Format.Parse([]*sheet.Sheet{s}, fc)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, statement.StatusSuccess, res.Status)
	assert.Equal(t, 2, res.TotalTransactions)

	income := res.Transactions[0]
	assert.Equal(t, "2024-01-15", income.Date)
	assert.Equal(t, statement.Income, income.Direction)
	assertAmount(t, "1000.00", income.Amount)
	assert.Equal(t, "ТОО Ромашка", income.Payer)
	assert.Empty(t, income.Recipient)
	assert.Equal(t, "ledger.xlsx", income.SourceFile)

	expense := res.Transactions[1]
	assert.Equal(t, statement.Expense, expense.Direction)
	assertAmount(t, "250.5", expense.Amount)
	assert.Equal(t, "ИП Иванов", expense.Recipient)
}

func TestGenericLedger_IgnoresSheetsWithoutLedgerHeader(t *testing.T) {
	s := sheet.New("Notes", [][]any{{"Date", "Comment"}, {"2024-01-15", "hello"}})
	assert.Zero(t, genericLedger.Score(s, sheet.FileContext{}))
}

func TestGenericLedger_SignedAmountColumn(t *testing.T) {
	s := sheet.New("Sheet1", [][]any{
		{"Date", "Amount", "Counterparty", "IIN"},
		{"2024-01-15", -500.0, "X", "123456789012"},
		{"2024-01-16", 700.0, "Y", nil},
	})

	res := parseOne(t, genericLedger, s, sheet.FileContext{})
	require.Len(t, res.Transactions, 2)

	out := res.Transactions[0]
	assert.Equal(t, statement.Expense, out.Direction)
	assertAmount(t, "500", out.Amount)
	assertAmount(t, "500", out.AmountLocal)
	assert.Equal(t, "X", out.Recipient)
	assert.Equal(t, "123456789012", out.RecipientID)
	assert.Empty(t, out.Payer)

	in := res.Transactions[1]
	assert.Equal(t, statement.Income, in.Direction)
	assertAmount(t, "700", in.Amount)
	assert.Equal(t, "Y", in.Payer)
}

func TestGenericLedger_DropsRowsWithoutDateOrAmount(t *testing.T) {
	s := sheet.New("Sheet1", [][]any{
		{"Дата", "Дебет", "Кредит", "Контрагент"},
		{"15.01.2024", nil, 1000.0, "ТОО Ромашка"},
		{"без даты", nil, 300.0, "ТОО Лютик"},
		{"16.01.2024", nil, nil, "ИП Пустой"},
		{"17.01.2024", 250.0, nil, "ИП Иванов"},
	})

	res := parseOne(t, genericLedger, s, sheet.FileContext{})

	require.Len(t, res.Transactions, 2)
	assert.Equal(t, 2, res.TotalTransactions)
	assert.Empty(t, res.Warnings)
	assert.Empty(t, res.Errors)
	assert.Equal(t, statement.StatusSuccess, res.Status)
	assert.Equal(t, "2024-01-15", res.Transactions[0].Date)
	assert.Equal(t, "2024-01-17", res.Transactions[1].Date)
}

func TestParse_SheetPanicBecomesError(t *testing.T) {
	f := &format{
		id:   "test",
		bank: "Тест Банк",
		extract: func(s *sheet.Sheet, _ sheet.FileContext) *sheetResult {
			if s.Name == "Broken" {
				panic("boom")
			}
			r := &sheetResult{account: "KZ00TEST"}
			r.add(statement.Transaction{Date: "2024-01-01", Amount: decimal.NewNullDecimal(decimal.NewFromInt(-5))})
			return r
		},
	}
	fc := sheet.FileContext{Path: "/d/t.xlsx", Filename: "t.xlsx"}

	res := f.Parse([]*sheet.Sheet{sheet.New("Broken", nil), sheet.New("Good", nil)}, fc)

	assert.Equal(t, statement.StatusPartial, res.Status)
	assert.Equal(t, []string{"Error parsing sheet 'Broken': boom"}, res.Errors)
	require.Len(t, res.Transactions, 1)

	tx := res.Transactions[0]
	assert.Equal(t, "Тест Банк", tx.StatementBank)
	assert.Equal(t, "KZ00TEST", tx.AccountNumber)
	assert.Equal(t, "t.xlsx", tx.SourceFile)
	assert.Equal(t, statement.Expense, tx.Direction)
	assertAmount(t, "5", tx.Amount)
	assert.Equal(t, "KZ00TEST", res.AccountNumber)
	assert.Equal(t, "test", res.ParserUsed)
}

func TestTengri(t *testing.T) {
	s := sheet.New("Выписка", [][]any{
		{"АО Tengri Bank"},
		{"Счет: KZ12345678901234567890"},
		{"Валюта: USD"},
		{"Дата", "ИИН/БИН", "Счет-корреспондент", "Описание", "Дебет в валюте", "Кредит в валюте", "Дебет нац.покрытие", "Кредит нац.покрытие"},
		{"05.01.2024", "123456789012", "KZ000", "Оплата", nil, 100.0, nil, 47000.0},
		{"Итого", nil, nil, nil, nil, 100.0, nil, 47000.0},
	})
	assert.InDelta(t, 0.95, tengri.Score(s, sheet.FileContext{}), 1e-9)

	res := parseOne(t, tengri, s, sheet.FileContext{})
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "KZ12345678901234567890", res.AccountNumber)

	tx := res.Transactions[0]
	assert.Equal(t, "2024-01-05", tx.Date)
	assert.Equal(t, "USD", tx.Currency)
	assertAmount(t, "100", tx.Amount)
	assertAmount(t, "47000", tx.AmountLocal)
	assert.Equal(t, statement.Income, tx.Direction)
	assert.Equal(t, "123456789012", tx.PayerID)
	assert.Equal(t, "KZ000", tx.PayerAccount)
	assert.Equal(t, "АО Tengri Bank", tx.StatementBank)
}

func TestBCCFull_AccountBlocks(t *testing.T) {
	header := []any{"№", "Дата операции", "Валюта", "Сумма операции", "Сумма по курсу НБ", "Отправитель", "Получатель", "Назначение платежа"}
	s := sheet.New("Sheet1", [][]any{
		{"Выписка по счету KZ11111111111111111111"},
		header,
		{1.0, "10.02.2024", "KZT", 5000.0, 5000.0, "ТОО А", "ТОО Б", "Оплата"},
		{"Счет KZ22222222222222222222"},
		header,
		{1.0, "11.02.2024", "USD", 10.0, 4500.0, "X", "Y", "Z"},
	})
	assert.InDelta(t, 0.9, bccFull.Score(s, sheet.FileContext{}), 1e-9)

	res := parseOne(t, bccFull, s, sheet.FileContext{})
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "KZ11111111111111111111", res.AccountNumber)

	first, second := res.Transactions[0], res.Transactions[1]
	assert.Equal(t, "KZ11111111111111111111", first.AccountNumber)
	assert.Equal(t, "ТОО А", first.Payer)
	assert.Equal(t, "ТОО Б", first.Recipient)
	assert.Equal(t, statement.Unknown, first.Direction)
	assertAmount(t, "5000", first.Amount)

	assert.Equal(t, "KZ22222222222222222222", second.AccountNumber)
	assert.Equal(t, "USD", second.Currency)
	assertAmount(t, "4500", second.AmountLocal)
}

func TestBCCClientMovement_DirectionFromSheetName(t *testing.T) {
	s := sheet.New("Входящие", [][]any{
		{`Движение денежных средств по счету клиента ТОО "Дос Групп" БИН 111111111111`},
		{"Дата операции", "Сумма", "Наименование дебет", "Наименование кредит", "БИН", "Основание"},
		{"01.03.2024", 700.0, "ТОО Плательщик", "ТОО Дос Групп", "222222222222", "Оплата"},
		{"Итого", 700.0},
	})
	assert.InDelta(t, 0.93, bccClientMovement.Score(s, sheet.FileContext{}), 1e-9)

	res := parseOne(t, bccClientMovement, s, sheet.FileContext{})
	require.Len(t, res.Transactions, 1)

	tx := res.Transactions[0]
	assert.Equal(t, statement.Income, tx.Direction)
	assert.Equal(t, "222222222222", tx.PayerID)
	assert.Equal(t, "111111111111", tx.RecipientID)
	assert.Equal(t, "ТОО Плательщик", tx.Payer)
	assert.Equal(t, "KZT", tx.Currency)
}

func TestICBCAlmaty_PartyDetailsFromBeneficiaryCell(t *testing.T) {
	data := sheet.New("KZ33333333333333333333", [][]any{
		{"Шоттан үзінді / Выписка со счета"},
		{"Валюта", "USD"},
		{"Дата операции", "Референс", "Дебет", "Кредит", "Бенефициар", "Банк бенефициара"},
		{"12.03.2024", "REF1", nil, 200.0, "ТОО Ромат\nИИК: KZ44444444444444444444\nБИН: 123456789012", "ICBC"},
		{"Оборот", nil, nil, 200.0},
	})
	meta := sheet.New("Info", [][]any{{"a", "b"}})
	garbled := sheet.New("页面1-1", [][]any{{"页", "面", "1"}})

	assert.Equal(t, []*sheet.Sheet{data}, pickICBCSheets([]*sheet.Sheet{meta, garbled, data}))
	assert.Equal(t, []*sheet.Sheet{meta}, pickICBCSheets([]*sheet.Sheet{meta}))

	res := icbcAlmaty.Parse([]*sheet.Sheet{meta, garbled, data}, sheet.FileContext{Filename: "icbc.xls"})
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "KZ33333333333333333333", res.AccountNumber)

	tx := res.Transactions[0]
	assert.Equal(t, statement.Income, tx.Direction)
	assert.Equal(t, "USD", tx.Currency)
	assert.Equal(t, "123456789012", tx.PayerID)
	assert.Equal(t, "KZ44444444444444444444", tx.PayerAccount)
	assert.Equal(t, "ICBC", tx.PayerBank)
	assert.Equal(t, "REF1", tx.Purpose)
	assertAmount(t, "200", tx.AmountLocal)
}

func TestBankOfChina_SubHeader(t *testing.T) {
	s := sheet.New("Sheet1", [][]any{
		{"АО ДБ «Банк Китая в Казахстане»"},
		{"Дата", "Сумма", "Плательщик", "Назначение", "Оборот", nil},
		{nil, nil, nil, nil, "Дебет", "Кредит"},
		{"01.04.2024", nil, "ТОО П", "Возврат", nil, 300.0},
	})
	assert.InDelta(t, 0.95, bankOfChina.Score(s, sheet.FileContext{}), 1e-9)

	res := parseOne(t, bankOfChina, s, sheet.FileContext{})
	require.Len(t, res.Transactions, 1)

	tx := res.Transactions[0]
	assert.Equal(t, statement.Income, tx.Direction)
	assertAmount(t, "300", tx.Amount)
	assert.Equal(t, "ТОО П", tx.Payer)
	assert.Equal(t, "Возврат", tx.Purpose)
}

func TestCitibank_CertificateWithoutTable(t *testing.T) {
	s := sheet.New("Справка", [][]any{{"Справка по движению денег"}, {"Клиент: ТОО А"}})

	res := parseOne(t, citibank, s, sheet.FileContext{})

	assert.Equal(t, statement.StatusSkipped, res.Status)
	assert.Equal(t, []string{"Certificate format: limited transaction data"}, res.Warnings)
	assert.Empty(t, res.Errors)
}

func TestCitibank_CertificateWithTable(t *testing.T) {
	s := sheet.New("Справка", [][]any{
		{"Справка по движению денег"},
		{"Клиент: ТОО Альфа"},
		{"Дата", "Сумма", "Валюта", "Отправитель", "Получатель", "Назначение платежа", "ИИН/БИН"},
		{"05.02.2024", 1500.0, "USD", "ТОО Альфа", "ТОО Бета", "Оплата по счету 7", "123456789012"},
		{nil, nil, nil, nil, nil, nil, nil},
		{"06.02.2024", 20.0, "USD", "ТОО Гамма", "ТОО Альфа", "Возврат", nil},
	})
	assert.InDelta(t, 0.9, citibank.Score(s, sheet.FileContext{}), 1e-9)

	res := parseOne(t, citibank, s, sheet.FileContext{})
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, statement.StatusSuccess, res.Status)
	assert.Empty(t, res.Warnings)

	tx := res.Transactions[0]
	assert.Equal(t, "2024-02-05", tx.Date)
	assertAmount(t, "1500", tx.Amount)
	assert.Equal(t, "USD", tx.Currency)
	assert.Equal(t, statement.Unknown, tx.Direction)
	assert.Equal(t, "ТОО Альфа", tx.Payer)
	assert.Equal(t, "ТОО Бета", tx.Recipient)
	assert.Equal(t, "Оплата по счету 7", tx.Purpose)
	assert.Empty(t, tx.PayerID)
	assert.Equal(t, "АО Ситибанк Казахстан", tx.StatementBank)
}

func TestBankRazvitiya_Transactions(t *testing.T) {
	s := sheet.New("PC01_515_S", [][]any{
		{"PC01_515_S"},
		{"АО Банк Развития Казахстана DVKAKZKA"},
		{"Дата", "Референс", "Дебет", "Кредит", "Валюта", "Корресп. банк", "Корресп. счет", "Назначение платежа"},
		{nil, "док.", nil, nil, nil, "корресп.", nil, nil},
		{"15.03.2024", "REF1", nil, 5000000.0, "KZT", "АО Народный Банк", "KZ11601A871000000001", "Возврат займа"},
		{"16.03.2024", "REF2", 1200.5, nil, "USD", "Citibank NA", "US000111", "Комиссия"},
		{"Итого", nil, 1200.5, 5000000.0, nil, nil, nil, nil},
	})
	fc := sheet.FileContext{Filename: "выписка_KZ123456789012345678.xls"}

	res := parseOne(t, bankRazvitiya, s, fc)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, statement.StatusSuccess, res.Status)
	assert.Equal(t, "KZ123456789012345678", res.AccountNumber)

	in := res.Transactions[0]
	assert.Equal(t, "2024-03-15", in.Date)
	assert.Equal(t, statement.Income, in.Direction)
	assertAmount(t, "5000000", in.Amount)
	assert.Equal(t, "KZT", in.Currency)
	assert.Equal(t, "АО Народный Банк", in.RecipientBank)
	assert.Equal(t, "KZ11601A871000000001", in.RecipientAccount)
	assert.Equal(t, "REF1", in.DocumentNumber)
	assert.Equal(t, "Возврат займа", in.Purpose)
	assert.Equal(t, "KZ123456789012345678", in.AccountNumber)

	out := res.Transactions[1]
	assert.Equal(t, statement.Expense, out.Direction)
	assertAmount(t, "1200.5", out.Amount)
	assert.Equal(t, "USD", out.Currency)
}

func TestBankRazvitiya_HeaderMissing(t *testing.T) {
	s := sheet.New("PC01_515_S", [][]any{{"PC01_515_S"}, {"DVKAKZKA"}})
	fc := sheet.FileContext{Filename: "выписка_KZ123456789012345678.xls"}
	assert.InDelta(t, 0.95, bankRazvitiya.Score(s, fc), 1e-9)

	res := parseOne(t, bankRazvitiya, s, fc)

	assert.Equal(t, statement.StatusFailed, res.Status)
	assert.Equal(t, []string{"Header not found"}, res.Errors)
	assert.Equal(t, []string{"System code format"}, res.Warnings)
	assert.Equal(t, "KZ123456789012345678", res.AccountNumber)
}

func TestHalykFinance_Securities(t *testing.T) {
	s := sheet.New("Лист1", [][]any{
		{"Клиент", "Счет расхода", "Контрагент", "Сумма", "Код валюты", "Валюта/Инструмент", "Комментарий", "Дата", "Режим сделки", "Сорт д-та"},
		{"Иванов И.И.", "A1", "Брокер", 1000.0, "KZT", "KZT", "ввод средств", "01.05.2024", "T+0", "Пополнение счета"},
	})
	assert.InDelta(t, 0.9, halykFinance.Score(s, sheet.FileContext{}), 1e-9)

	res := parseOne(t, halykFinance, s, sheet.FileContext{})
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, []string{"Securities format"}, res.Warnings)

	tx := res.Transactions[0]
	assert.Equal(t, "2024-05-01", tx.Date)
	assert.Equal(t, statement.Income, tx.Direction)
	assert.Equal(t, "Иванов И.И.", tx.Payer)
	assert.Equal(t, "A1", tx.PayerAccount)
	assert.Equal(t, "Брокер", tx.Recipient)
	assert.Equal(t, "Пополнение счета", tx.OperationType)
	assert.False(t, tx.AmountLocal.Valid)
}

func TestZaman(t *testing.T) {
	s := sheet.New("Sheet1", [][]any{
		{`Акционерное общество "Исламский банк "Заман-Банк" БИК ZAJSKZ22`},
		{"Счет: KZ55555555555555555555"},
		{"Дата", "Дебет", "Кредит", "Назначение", "Получатель", "ИИН/БИН"},
		{"02.06.2024", 150.0, nil, "Аренда", "ТОО Арендодатель", "333333333333"},
		{"Остаток", nil, nil},
	})
	assert.InDelta(t, 0.95, zaman.Score(s, sheet.FileContext{}), 1e-9)

	res := parseOne(t, zaman, s, sheet.FileContext{})
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "KZ55555555555555555555", res.AccountNumber)

	tx := res.Transactions[0]
	assert.Equal(t, statement.Expense, tx.Direction)
	assert.Equal(t, "KZT", tx.Currency)
	assertAmount(t, "150", tx.Amount)
	assertAmount(t, "150", tx.AmountLocal)
	assert.Equal(t, "ТОО Арендодатель", tx.Recipient)
	assert.Equal(t, "333333333333", tx.PayerID)
}

func TestNurbankXLS_OnlyInsideNurbankFolder(t *testing.T) {
	s := sheet.New("Sheet1", [][]any{
		{"Выписка KZ66666666666666666666"},
		{"Дата", "№ документа", "Наименование корреспондента", "ИИН/БИН", "Дебет", "Кредит", "Назначение"},
		{"03.07.2024", "15", "ТОО Поставщик", "444444444444", 80.0, nil, "Товар"},
	})
	assert.Zero(t, nurbankXLS.Score(s, sheet.FileContext{Folder: "Другой банк"}))

	fc := sheet.FileContext{Folder: "АО Нурбанк", Filename: "n.xls"}
	assert.InDelta(t, 0.92, nurbankXLS.Score(s, fc), 1e-9)

	res := parseOne(t, nurbankXLS, s, fc)
	require.Len(t, res.Transactions, 1)

	tx := res.Transactions[0]
	assert.Equal(t, statement.Expense, tx.Direction)
	assert.Equal(t, "ТОО Поставщик", tx.Recipient)
	assert.Equal(t, "444444444444", tx.RecipientID)
	assert.Equal(t, "15", tx.DocumentNumber)
	assertAmount(t, "80", tx.AmountLocal)
	assert.Equal(t, "KZ66666666666666666666", tx.AccountNumber)
}
