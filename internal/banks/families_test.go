package banks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigurra/kz-statements/internal/sheet"
	"github.com/gigurra/kz-statements/internal/statement"
)

func numberRow(n int) []any {
	row := make([]any, n)
	for i := range row {
		row[i] = float64(i + 1)
	}
	return row
}

func TestStandard18_Shinhan(t *testing.T) {
	s := sheet.New("KZ12345678901234567890", [][]any{
		{"АО Шинхан Банк Казахстан SHBKKZKA"},
		{
			"Дата и время операции", "Валюта операции", "Виды операции", "Наименование СДП",
			"Сумма в валюте", "Сумма в тенге",
			"Наименование/ФИО плательщика", "ИИН/БИН плательщика", "Резидентство плательщика", "Банк плательщика", "Номер счета плательщика",
			"Наименование/ФИО получателя", "ИИН/БИН получателя", "Резидентство получателя", "Банк получателя", "Номер счета получателя",
			"Код назначения платежа", "Назначение платежа",
		},
		numberRow(18),
		{"15.01.2024 10:30:00", "KZT", "1 - Внешние входящие", nil, 5000.0, 5000.0,
			"ТОО Альфа", "123456789012", "1", "АО Народный банк", "KZ001", "ТОО Мы", "987654321098", "1", "АО Шинхан Банк", "KZ002", "710", "Оплата услуг"},
		{"16.01.2024 00:00:00", "USD", "Исходящий платеж", nil, 100.0, 52000.0,
			"ТОО Мы", "987654321098", "1", "АО Шинхан Банк", "KZ002", "Acme Inc", nil, "2", "Citibank", "US01", "859", "Invoice 7"},
	})
	assert.InDelta(t, 0.9, standard18Col.Score(s, sheet.FileContext{}), 1e-9)

	res := parseOne(t, standard18Col, s, sheet.FileContext{})
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, bankShinhan, res.BankDetected)
	assert.Equal(t, "KZ12345678901234567890", res.AccountNumber)

	in := res.Transactions[0]
	assert.Equal(t, "2024-01-15 10:30:00", in.Date)
	assert.Equal(t, statement.Income, in.Direction)
	assertAmount(t, "5000", in.Amount)
	assert.Equal(t, "ТОО Альфа", in.Payer)
	assert.Equal(t, "123456789012", in.PayerID)
	assert.Equal(t, "АО Народный банк", in.PayerBank)
	assert.Equal(t, "KZ002", in.RecipientAccount)
	assert.Equal(t, "710", in.KNP)
	assert.Equal(t, "Оплата услуг", in.Purpose)
	assert.Equal(t, bankShinhan, in.StatementBank)

	out := res.Transactions[1]
	assert.Equal(t, "2024-01-16", out.Date)
	assert.Equal(t, "USD", out.Currency)
	assert.Equal(t, statement.Expense, out.Direction)
	assertAmount(t, "52000", out.AmountLocal)
}

func TestStandard18_BankFromFolder(t *testing.T) {
	header := []any{
		"Дата и время операции", "Валюта операции", "Виды операции", "Сумма в валюте", "Сумма в тенге",
		"Наименование/ФИО плательщика", "ИИН/БИН плательщика", "Банк плательщика", "Номер счета плательщика",
		"Наименование/ФИО получателя", "ИИН/БИН получателя", "Банк получателя", "Номер счета получателя",
		"Код назначения платежа", "Назначение платежа",
	}
	s := sheet.New("Sheet1", [][]any{header, {"01.02.2024", "KZT", "Пополнение", 10.0, 10.0}})
	fc := sheet.FileContext{Filename: "KZ98765432109876543210.xlsx", Folder: "Home Credit"}

	res := parseOne(t, standard18Col, s, fc)
	assert.Equal(t, bankHomeCredit, res.BankDetected)
	assert.Equal(t, "KZ98765432109876543210", res.AccountNumber)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, statement.Income, res.Transactions[0].Direction)
}

func TestNarodny(t *testing.T) {
	s := sheet.New("Выписка", [][]any{
		{"HSBKKZKX"},
		{"Номер счета:", "KZ99601A000000000001"},
		{
			"Дата и время операции", "Валюта операции", "Виды операции", "Наименование СДП",
			"Сумма в валюте по кредиту", "Сумма в валюте по дебету", "Сумма в тенге по кредиту", "Сумма в тенге по дебету",
			"Наименование/ФИО плательщика", "ИИН/БИН плательщика", "Банк плательщика", "Счет плательщика",
			"Наименование/ФИО получателя", "ИИН/БИН получателя", "Банк получателя", "Счет получателя",
			"Код назначения платежа", "Назначение платежа",
		},
		{"20.02.2024 12:00:00", "KZT", "Входящий перевод", nil, 15000.0, nil, 15000.0, nil,
			"ТОО Бета", "987654321098", "АО Kaspi Bank", "KZ11", "ИП Гамма", "123456789012", "АО Народный банк", "KZ22", "710", "За товар"},
		{"21.02.2024", "KZT", "Оплата", nil, nil, 300.25, nil, 300.25},
		{"Итого", nil, nil, nil, 15000.0, 300.25},
	})
	assert.InDelta(t, 0.95, narodny.Score(s, sheet.FileContext{}), 1e-9)

	res := parseOne(t, narodny, s, sheet.FileContext{})
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "KZ99601A000000000001", res.AccountNumber)

	in := res.Transactions[0]
	assert.Equal(t, statement.Income, in.Direction)
	assertAmount(t, "15000", in.Amount)
	assertAmount(t, "15000", in.AmountLocal)
	assert.Equal(t, "ТОО Бета", in.Payer)
	assert.Equal(t, "KZ22", in.RecipientAccount)
	assert.Equal(t, "Входящий перевод", in.OperationType)

	out := res.Transactions[1]
	assert.Equal(t, "2024-02-21", out.Date)
	assert.Equal(t, statement.Expense, out.Direction)
	assertAmount(t, "300.25", out.Amount)
}

func TestKaspiStatement_MergedPartyHeader(t *testing.T) {
	s := sheet.New("Выписка", [][]any{
		{"АО Kaspi Bank"},
		{"Выписка по счету KZ72722S000001234567"},
		{"Входящий остаток", 1000.0},
		{"Дата операции", "Валюта", "Сумма", "Сумма в тенге", "Плательщик", nil, "Получатель", nil, "Детали"},
		{nil, nil, nil, nil, "Наименование", "ИИН/БИН", "Наименование", "ИИН/БИН", "Назначение платежа"},
		{"10.03.2024", "KZT", -2500.0, -2500.0, "Иванов И.", "'850101300123", "ТОО Магазин", "123456789012", "Покупка"},
		{"Итого", nil, -2500.0},
		{"Исходящий остаток", -1500.0},
	})
	assert.InDelta(t, 0.95, kaspiStatement.Score(s, sheet.FileContext{}), 1e-9)

	res := parseOne(t, kaspiStatement, s, sheet.FileContext{})
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "KZ72722S000001234567", res.AccountNumber)

	tx := res.Transactions[0]
	assert.Equal(t, "2024-03-10", tx.Date)
	assert.Equal(t, "KZT", tx.Currency)
	assert.Equal(t, statement.Expense, tx.Direction, "negative amount implies expense")
	assertAmount(t, "2500", tx.Amount)
	assertAmount(t, "2500", tx.AmountLocal)
	assert.Equal(t, "Иванов И.", tx.Payer)
	assert.Equal(t, "850101300123", tx.PayerID)
	assert.Equal(t, "ТОО Магазин", tx.Recipient)
	assert.Equal(t, "123456789012", tx.RecipientID)
	assert.Equal(t, "Покупка", tx.Purpose)
}

func TestKaspiStatement_FolderOnly(t *testing.T) {
	s := sheet.New("Sheet1", [][]any{{"Дата", "Плательщик", "Получатель"}})
	assert.Zero(t, kaspiStatement.Score(s, sheet.FileContext{}))
	assert.InDelta(t, 0.85, kaspiStatement.Score(s, sheet.FileContext{Folder: "Kaspi"}), 1e-9)
}

func TestKaspiStatistics(t *testing.T) {
	s := sheet.New("Sheet1", [][]any{
		{"Статистика по успешным операциям"},
		{"Дата", "Сумма", "БИН", "Наименование", "Тип операции"},
		{"01.04.2024 09:15:00", 1200.0, "123456789012", "ТОО Кафе", "Покупка"},
	})
	assert.InDelta(t, 0.9, kaspiStatistics.Score(s, sheet.FileContext{}), 1e-9)

	res := parseOne(t, kaspiStatistics, s, sheet.FileContext{})
	assert.Equal(t, statement.StatusSuccess, res.Status)
	assert.Equal(t, []string{"Kaspi statistics format: limited field mapping"}, res.Warnings)
	require.Len(t, res.Transactions, 1)

	tx := res.Transactions[0]
	assert.Equal(t, "2024-04-01 09:15:00", tx.Date)
	assert.Equal(t, "KZT", tx.Currency)
	assert.Equal(t, statement.Unknown, tx.Direction)
	assert.Equal(t, "ТОО Кафе", tx.Recipient)
	assert.Equal(t, "123456789012", tx.RecipientID)
	assert.Equal(t, "Покупка", tx.OperationType)
}

func TestOtbasy(t *testing.T) {
	s := sheet.New("Выписка", [][]any{
		{"Наименование Банка: АО Отбасы банк"},
		{"SWIFT Банка: HCSKKZKA"},
		{"Счет: KZ45551Z000000000001"},
		{
			"Дата и время операции", "Валюта операции", "Вид операции", "Сумма в валюте", "Сумма в тенге",
			"Плательщик", "ИИН/БИН плательщика", "Наименование банка плательщика",
			"Получатель", "ИИН/БИН получателя", "Наименование банка получателя",
			"Код назначения платежа", "Назначение платежа",
		},
		{"05.05.2024 14:00:00", "KZT", "Входящий платеж", 20000.0, 20000.0,
			"Петров П.", "900101300456", "АО Kaspi Bank", "Петров П.", "900101300456", "АО Отбасы банк", "311", "Пополнение депозита"},
		{"06.05.2024", "KZT", "Списание комиссии", 150.0, 150.0},
		{"Итого", nil, nil, 20150.0},
	})
	assert.InDelta(t, 0.95, otbasy.Score(s, sheet.FileContext{}), 1e-9)

	res := parseOne(t, otbasy, s, sheet.FileContext{})
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "KZ45551Z000000000001", res.AccountNumber)

	in := res.Transactions[0]
	assert.Equal(t, statement.Income, in.Direction)
	assert.Equal(t, "Петров П.", in.Payer)
	assert.Equal(t, "900101300456", in.PayerID)
	assert.Equal(t, "АО Kaspi Bank", in.PayerBank)
	assert.Equal(t, "АО Отбасы банк", in.RecipientBank)
	assert.Equal(t, "311", in.KNP)
	assert.Equal(t, "Пополнение депозита", in.Purpose)

	assert.Equal(t, statement.Expense, res.Transactions[1].Direction)
}

func TestAlatauCity(t *testing.T) {
	fc := sheet.FileContext{Filename: "Statement_standard_KZ12345678901234567890.xlsx"}
	s := sheet.New("Sheet1", [][]any{
		{"Выписка по счету"},
		{"Дата", "Дебетовый оборот", "Кредитовый оборот", "Валюта", "Плательщик", "Получатель", "Назначение платежа", "ИИН/БИН"},
		{"01.06.2024", nil, 7000.0, "KZT", "ТОО Дельта", "ТОО Мы", "Оплата по счету", "123456789012"},
		{"02.06.2024", 500.0, nil, "KZT", "ТОО Мы", "АО Банк", "Комиссия", nil},
		{"Итого", 500.0, 7000.0},
	})
	assert.InDelta(t, 0.95, alatauCity.Score(s, fc), 1e-9)

	res := parseOne(t, alatauCity, s, fc)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "KZ12345678901234567890", res.AccountNumber)

	in := res.Transactions[0]
	assert.Equal(t, statement.Income, in.Direction)
	assertAmount(t, "7000", in.Amount)
	assertAmount(t, "7000", in.AmountLocal)
	assert.Equal(t, "ТОО Дельта", in.Payer)

	out := res.Transactions[1]
	assert.Equal(t, statement.Expense, out.Direction)
	assertAmount(t, "500", out.Amount)
}

func TestAlatauCity_EmptyStatement(t *testing.T) {
	s := sheet.New("Sheet1", [][]any{{"Операций за период нет"}})

	res := parseOne(t, alatauCity, s, sheet.FileContext{})
	assert.Equal(t, statement.StatusSkipped, res.Status)
	assert.Equal(t, []string{"No data rows found"}, res.Warnings)
	assert.Empty(t, res.Errors)
}

func TestTsesnabank_DirectionFromSheetName(t *testing.T) {
	header := []any{"Дата операции", "Сумма", "Валюта", "Контрагент", "ИИН/БИН", "Назначение платежа"}
	credit := sheet.New("Кредит", [][]any{
		{"АО Цеснабанк"},
		{"Счет KZ33998BTB0000001234"},
		header,
		{"03.07.2024", 1500.0, nil, "ТОО Омега", "123456789012", "Возврат"},
	})
	debit := sheet.New("Дебет", [][]any{
		header,
		{"04.07.2024", 800.0, "KZT", "ИП Сигма", "987654321098", "Оплата"},
	})
	assert.InDelta(t, 0.95, tsesnabank.Score(credit, sheet.FileContext{}), 1e-9)

	res := tsesnabank.Parse([]*sheet.Sheet{credit, debit}, sheet.FileContext{Filename: "ts.xlsx"})
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "KZ33998BTB0000001234", res.AccountNumber)

	in := res.Transactions[0]
	assert.Equal(t, statement.Income, in.Direction)
	assert.Equal(t, "KZT", in.Currency)
	assert.Equal(t, "ТОО Омега", in.Payer)
	assert.Equal(t, "123456789012", in.PayerID)
	assert.Empty(t, in.Recipient)

	out := res.Transactions[1]
	assert.Equal(t, statement.Expense, out.Direction)
	assert.Equal(t, "ИП Сигма", out.Recipient)
	assert.Empty(t, out.Payer)
}

func TestAlHilal(t *testing.T) {
	s := sheet.New("Sheet1", [][]any{
		{"АО Исламский Банк Al Hilal"},
		{"Счет: KZ56601A000000012345"},
		{"Валюта: USD"},
		{"Дата транзакции", "Дата валют.", "Детали транзакции", "Кредит", "Дебет", "Баланс"},
		{"10.08.2024", "10.08.2024", "Перевод", 250.0, nil, 1250.0},
		{"11.08.2024", "11.08.2024", "Комиссия", nil, 5.0, 1245.0},
	})
	assert.InDelta(t, 0.95, alHilal.Score(s, sheet.FileContext{}), 1e-9)

	res := parseOne(t, alHilal, s, sheet.FileContext{})
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "KZ56601A000000012345", res.AccountNumber)

	in := res.Transactions[0]
	assert.Equal(t, "USD", in.Currency)
	assert.Equal(t, statement.Income, in.Direction)
	assertAmount(t, "250", in.Amount)
	assert.False(t, in.AmountLocal.Valid)
	assert.Equal(t, "Перевод", in.Purpose)

	assert.Equal(t, statement.Expense, res.Transactions[1].Direction)
}

func TestAlHilalFull_DirectionFromFilename(t *testing.T) {
	fc := sheet.FileContext{Filename: "Входящие платежи.xls", Folder: "Al Hilal"}
	s := sheet.New("Sheet1", [][]any{
		{"Код", "Дата", "Отправитель", "Счет отправителя", "ИИН отправителя", "Получатель", "Счет получателя", "ИИН получателя", "Сумма", "КНП", "Назначение платежа"},
		numberRow(11),
		{"A-1", "12.09.2024", "ТОО Отправитель", "KZ11", "123456789012", "ТОО Мы", "KZ22", "987654321098", 3000.0, "710", "Оплата"},
	})
	assert.InDelta(t, 0.96, alHilalFull.Score(s, fc), 1e-9)
	assert.Zero(t, alHilalFull.Score(s, sheet.FileContext{}))

	res := parseOne(t, alHilalFull, s, fc)
	require.Len(t, res.Transactions, 1)

	tx := res.Transactions[0]
	assert.Equal(t, "2024-09-12", tx.Date)
	assert.Equal(t, statement.Income, tx.Direction)
	assert.Equal(t, "KZT", tx.Currency)
	assertAmount(t, "3000", tx.AmountLocal)
	assert.Equal(t, "ТОО Отправитель", tx.Payer)
	assert.Equal(t, "KZ11", tx.PayerAccount)
	assert.Equal(t, "123456789012", tx.PayerID)
	assert.Equal(t, "KZ22", tx.RecipientAccount)
	assert.Equal(t, "987654321098", tx.RecipientID)
	assert.Equal(t, "A-1", tx.DocumentNumber)
	assert.Equal(t, "710", tx.KNP)
}

func TestKazkom_PurposeLinesUnderRow(t *testing.T) {
	s := sheet.New("Выписка", [][]any{
		{"АО Казкоммерцбанк"},
		{"ВЫПИСКА ПО СЧЕТУ KZ12926180219T620004"},
		{"Дата", "Дебет", "Кредит"},
		{"05.09.2024", nil, 12000.0},
		{"Оплата по договору"},
		{"№ 15 от 01.09"},
		{"-----------"},
		{"06.09.2024", 3000.0, nil},
		{"Комиссия банка"},
	})
	assert.InDelta(t, 0.95, kazkom.Score(s, sheet.FileContext{}), 1e-9)

	res := parseOne(t, kazkom, s, sheet.FileContext{})
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "KZ12926180219T620004", res.AccountNumber)

	in := res.Transactions[0]
	assert.Equal(t, "2024-09-05", in.Date)
	assert.Equal(t, statement.Income, in.Direction)
	assertAmount(t, "12000", in.Amount)
	assert.Equal(t, "Оплата по договору № 15 от 01.09", in.Purpose)

	out := res.Transactions[1]
	assert.Equal(t, statement.Expense, out.Direction)
	assert.Equal(t, "Комиссия банка", out.Purpose)
}

func TestKazkom_TextBlocks(t *testing.T) {
	s := sheet.New("Обнал", [][]any{
		{"12.10.2024 Снятие наличных 50 000 тг"},
		{"без суммы"},
	})

	res := parseOne(t, kazkom, s, sheet.FileContext{})
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, []string{"Unstructured text format"}, res.Warnings)

	tx := res.Transactions[0]
	assert.Equal(t, "2024-10-12", tx.Date)
	assert.Equal(t, statement.Expense, tx.Direction)
	assertAmount(t, "50000", tx.Amount)
	assert.Equal(t, "12.10.2024 Снятие наличных 50 000 тг", tx.Purpose)
}

func TestKazkom_TextBlocksWithNonBreakingSpaces(t *testing.T) {
	s := sheet.New("Обнал", [][]any{
		{"03.11.2024 Снятие наличных 1\u00a0250\u00a0000\u00a0тенге"},
	})

	res := parseOne(t, kazkom, s, sheet.FileContext{})
	require.Len(t, res.Transactions, 1)
	assertAmount(t, "1250000", res.Transactions[0].Amount)
	assert.Equal(t, "2024-11-03", res.Transactions[0].Date)
}

func TestForteSDP(t *testing.T) {
	s := sheet.New("Sheet1", [][]any{
		{"Информация по переводам за период"},
		{"№", "Дата", "Отделение", "Вид перевода", "Состояние", "Валюта", "Сумма", "ФИО отправителя", "ИИН отправителя", "ФИО получателя", "Направление", "Страна"},
		{1.0, "15.11.2024", "Алматы", "Золотая Корона", "Выплачен", "USD", 300.0, "Иванов Иван", "900101300456", "Петров Петр", "Входящий", "Россия"},
		{2.0, "16.11.2024", "Алматы", "Western Union", "Отправлен", "KZT", 1000.0, "Петров Петр", nil, "Сидоров С.", "Исходящий", "Казахстан"},
	})
	assert.InDelta(t, 0.95, forteSDP.Score(s, sheet.FileContext{}), 1e-9)

	res := parseOne(t, forteSDP, s, sheet.FileContext{})
	require.Len(t, res.Transactions, 2)

	in := res.Transactions[0]
	assert.Equal(t, "2024-11-15", in.Date)
	assert.Equal(t, "USD", in.Currency)
	assert.Equal(t, statement.Income, in.Direction)
	assert.Equal(t, "Иванов Иван", in.Payer)
	assert.Equal(t, "900101300456", in.PayerID)
	assert.Equal(t, bankForte, in.PayerBank)
	assert.Equal(t, "Петров Петр", in.Recipient)
	assert.Equal(t, "Золотая Корона", in.OperationType)

	assert.Equal(t, statement.Expense, res.Transactions[1].Direction)
}

func TestForteRegistry_NoTransactions(t *testing.T) {
	fc := sheet.FileContext{Filename: "Prilozhenie_1.xlsx", Folder: "ForteBank"}
	s := sheet.New("Sheet1", [][]any{{"Наименование организации", "Код ГК"}})

	assert.InDelta(t, 0.95, forteRegistry.Score(s, fc), 1e-9)
	assert.Zero(t, forteSDP.Score(s, fc))

	res := parseOne(t, forteRegistry, s, fc)
	assert.Equal(t, statement.StatusSkipped, res.Status)
	assert.Equal(t, []string{"Registry file: no transactions"}, res.Warnings)
}

func TestRBKCard_SignIsDirection(t *testing.T) {
	s := sheet.New("KZ55722C000012345678", [][]any{
		{"POSTING_DATE", "TRANS_AMOUNT", "TRANS_CURR", "TRANS_TYPE", "ADDITIONAL_DESC", "RET_REF_NUMBER", "CPID", "CLIENT", "ITN"},
		{"01.12.2024", -4500.0, "KZT", "Purchase", "Magnum", "123456", "MAGNUM AL", "ТОО Клиент", "123456789012"},
		{"02.12.2024", 10000.0, "KZT", "Refund", "Возврат", "123457", "MAGNUM AL", "ТОО Клиент", "123456789012"},
	})
	assert.InDelta(t, 0.95, rbkCard.Score(s, sheet.FileContext{}), 1e-9)

	res := parseOne(t, rbkCard, s, sheet.FileContext{})
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "KZ55722C000012345678", res.AccountNumber)

	out := res.Transactions[0]
	assert.Equal(t, statement.Expense, out.Direction)
	assertAmount(t, "4500", out.Amount)
	assertAmount(t, "4500", out.AmountLocal)
	assert.Equal(t, "ТОО Клиент", out.Payer)
	assert.Equal(t, "KZ55722C000012345678", out.PayerAccount)
	assert.Equal(t, "MAGNUM AL", out.Recipient)
	assert.Equal(t, "123456", out.DocumentNumber)
	assert.Equal(t, "Purchase", out.OperationType)

	assert.Equal(t, statement.Income, res.Transactions[1].Direction)
}

func TestRBKSimple(t *testing.T) {
	fc := sheet.FileContext{Folder: "Bank RBK"}
	s := sheet.New("Sheet1", [][]any{
		{"Дата", "ИИН", "Клиент", "Номер карты", "Сумма в валюте", "Сумма в тенге", "Валюта", "Назначение платежа"},
		{"03.12.2024", "900101300456", "Иванов И.", "4400 **** 1234", 50.0, 26000.0, "USD", "Выплата"},
	})
	assert.InDelta(t, 0.85, rbkSimple.Score(s, fc), 1e-9)

	res := parseOne(t, rbkSimple, s, fc)
	require.Len(t, res.Transactions, 1)

	tx := res.Transactions[0]
	assert.Equal(t, statement.Unknown, tx.Direction)
	assert.Equal(t, "USD", tx.Currency)
	assertAmount(t, "50", tx.Amount)
	assertAmount(t, "26000", tx.AmountLocal)
	assert.Equal(t, "Иванов И.", tx.Payer)
	assert.Equal(t, bankRBK, tx.PayerBank)
}

func TestEurasianCard(t *testing.T) {
	s := sheet.New("Sheet1", [][]any{
		{"ИИН", "Тип операции", "Номер счета", "Дата", "Сумма", "Валюта", "Детали операции"},
		{"900101300456", "Пополнение счета", "KZ11948KZT0000000001", "01.10.2024", 25000.0, "KZT", "Пополнение через терминал"},
		{"900101300456", "Списание", "KZ11948KZT0000000001", "02.10.2024", 700.0, "KZT", "Оплата"},
	})
	assert.InDelta(t, 0.9, eurasianCard.Score(s, sheet.FileContext{}), 1e-9)

	res := parseOne(t, eurasianCard, s, sheet.FileContext{})
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "KZ11948KZT0000000001", res.AccountNumber)

	in := res.Transactions[0]
	assert.Equal(t, statement.Income, in.Direction)
	assert.Equal(t, "900101300456", in.PayerID)
	assert.Equal(t, bankEurasian, in.PayerBank)
	assertAmount(t, "25000", in.AmountLocal)
	assert.Equal(t, "Пополнение через терминал", in.Purpose)

	assert.Equal(t, statement.Expense, res.Transactions[1].Direction)
}

func TestEurasianStatement_CounterpartySide(t *testing.T) {
	s := sheet.New("Sheet1", [][]any{
		{"АО Евразийский Банк EURIKZKA"},
		{"Счет: KZ12948KZT0000000002"},
		{"Дата проводки", "Вид операции", "Номер документа", "Наименование", "ИИН/БИН", "ИИК", "Наименование банка", "Назначение платежа", "Дебет", "Кредит"},
		{"05.10.2024", "Перевод", "101", "ТОО Покупатель", "123456789012", "40702810", "АО Halyk", "Оплата за товар", nil, 90000.0},
		{"06.10.2024", "Перевод", "102", "ТОО Поставщик", "987654321098", "40702811", "АО Kaspi", "Поставка", 15000.0, nil},
	})
	assert.InDelta(t, 0.95, eurasianStatement.Score(s, sheet.FileContext{}), 1e-9)

	res := parseOne(t, eurasianStatement, s, sheet.FileContext{})
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "KZ12948KZT0000000002", res.AccountNumber)

	in := res.Transactions[0]
	assert.Equal(t, statement.Income, in.Direction)
	assert.Equal(t, "ТОО Покупатель", in.Payer)
	assert.Equal(t, "123456789012", in.PayerID)
	assert.Equal(t, "АО Halyk", in.PayerBank)
	assert.Equal(t, "40702810", in.PayerAccount)
	assert.Equal(t, "101", in.DocumentNumber)
	assert.Empty(t, in.Recipient)

	out := res.Transactions[1]
	assert.Equal(t, statement.Expense, out.Direction)
	assert.Equal(t, "ТОО Поставщик", out.Recipient)
	assert.Equal(t, "40702811", out.RecipientAccount)
}

func TestKassaNova_Sections(t *testing.T) {
	s := sheet.New("Sheet1", [][]any{
		{"Входящие платежи"},
		{"Дата", "Бенефициар/Отправитель", "БИН/ИИН", "Сумма", "Назначение"},
		{"10.01.2024", "ТОО Один", "123456789012", 5000.0, "Оплата"},
		{"Исходящие платежи"},
		{"11.01.2024", "ТОО Два", "987654321098", 700.0, "Аренда"},
	})
	assert.InDelta(t, 0.95, kassaNova.Score(s, sheet.FileContext{}), 1e-9)

	res := parseOne(t, kassaNova, s, sheet.FileContext{})
	require.Len(t, res.Transactions, 2)

	in := res.Transactions[0]
	assert.Equal(t, "2024-01-10", in.Date)
	assert.Equal(t, statement.Income, in.Direction)
	assert.Equal(t, "ТОО Один", in.Payer)
	assert.Equal(t, "123456789012", in.PayerID)
	assert.Equal(t, "Оплата", in.Purpose)

	out := res.Transactions[1]
	assert.Equal(t, statement.Expense, out.Direction)
	assert.Equal(t, "ТОО Два", out.Recipient)
	assertAmount(t, "700", out.Amount)
}

func TestKassaNova_CompanyHeaderIsDelta(t *testing.T) {
	s := sheet.New("Sheet1", [][]any{
		{"Входящие платежи"},
		{"№ п/п", "Наименование компании/ФИО", "БИН/ИИН", "Дата операции", "Суммы", "Назначение платежа"},
	})
	assert.Zero(t, kassaNova.Score(s, sheet.FileContext{}))
	assert.InDelta(t, 0.7, delta.Score(s, sheet.FileContext{}), 1e-9)
}

func TestDelta_ClientIINAndCurrencyFromSheet(t *testing.T) {
	s := sheet.New("Исходящие USD", [][]any{
		{"Клиент: ТОО Наша Компания, ИИН 123456789012"},
		{"Исходящие платежи"},
		{"№ п/п", "Наименование компании/ФИО", "БИН/ИИН", "Дата операции", "Суммы", "Назначение платежа"},
		{1.0, "ТОО Поставщик", "987654321098", "15.02.2024", 1200.0, "Оплата за услуги"},
	})
	fc := sheet.FileContext{Folder: "Delta Bank"}
	assert.InDelta(t, 0.9, delta.Score(s, fc), 1e-9)

	res := parseOne(t, delta, s, fc)
	require.Len(t, res.Transactions, 1)

	tx := res.Transactions[0]
	assert.Equal(t, statement.Expense, tx.Direction)
	assert.Equal(t, "USD", tx.Currency)
	assert.False(t, tx.AmountLocal.Valid)
	assert.Equal(t, "123456789012", tx.PayerID)
	assert.Equal(t, "ТОО Поставщик", tx.Recipient)
	assert.Equal(t, "987654321098", tx.RecipientID)
	assert.Equal(t, "Оплата за услуги", tx.Purpose)
}

func TestKZI_CardTransactions(t *testing.T) {
	s := sheet.New("Sheet1", [][]any{
		{"№", "Дата транзакции", "ИИН", "Номер счета", "Держатель карты ФИО", "Отправитель", "Получатель", "Наименование", "Назначение платежа", "Сумма (вход.)", "Сумма (исход.)", "Вид операции"},
		{1.0, "20.03.2024", "900101300456", "KZ77551B000000000001", "ИВАНОВ И.", "ИВАНОВ И.", nil, "Пополнение карты", "Пополнение", 50000.0, nil, "Зачисление"},
		{2.0, "21.03.2024", "900101300456", "KZ77551B000000000001", "ИВАНОВ И.", nil, "ТОО Магазин", "Покупка", "Покупка", nil, 1500.0, "Оплата"},
	})
	assert.InDelta(t, 0.95, kzi.Score(s, sheet.FileContext{}), 1e-9)

	res := parseOne(t, kzi, s, sheet.FileContext{})
	require.Len(t, res.Transactions, 2)

	in := res.Transactions[0]
	assert.Equal(t, "2024-03-20", in.Date)
	assert.Equal(t, statement.Income, in.Direction)
	assertAmount(t, "50000", in.Amount)
	assert.Equal(t, "KZT", in.Currency)
	assert.Equal(t, "ИВАНОВ И.", in.Payer)
	assert.Equal(t, "900101300456", in.PayerID)
	assert.Equal(t, "KZ77551B000000000001", in.PayerAccount)
	assert.Equal(t, "KZ77551B000000000001", in.AccountNumber)
	assert.Equal(t, "Зачисление", in.OperationType)
	assert.Equal(t, "Пополнение", in.Purpose)

	out := res.Transactions[1]
	assert.Equal(t, statement.Expense, out.Direction)
	assertAmount(t, "1500", out.Amount)
	assert.Equal(t, "ТОО Магазин", out.Recipient)
}

func TestNurbank_ABIS(t *testing.T) {
	s := sheet.New("Sheet1", [][]any{
		{"Операции, проведенные в АБИС"},
		{
			"№ п/п", "Дата операции", "Валюта", "Категория", "Сумма в вал.", "Сумма в тенге", "КНП",
			"Плательщик", "ИИН плательщика", "Банк плательщика", "Счет плательщика",
			"Получатель", "ИИН получателя", "Банк получателя", "Счет получателя",
			"Назначение платежа", "№ операции",
		},
		numberRow(17),
		{1.0, "25.04.2024", "KZT", "Платеж", 8000.0, 8000.0, "710",
			"ТОО А", "111111111111", "АО Нурбанк", "KZ1", "ТОО Б", "222222222222", "АО Halyk", "KZ2", "Оплата", "555"},
		{"Итого", nil, nil, nil, 8000.0},
	})
	assert.InDelta(t, 0.95, nurbank.Score(s, sheet.FileContext{}), 1e-9)

	res := parseOne(t, nurbank, s, sheet.FileContext{})
	require.Len(t, res.Transactions, 1)

	tx := res.Transactions[0]
	assert.Equal(t, "2024-04-25", tx.Date)
	assert.Equal(t, statement.Unknown, tx.Direction)
	assertAmount(t, "8000", tx.Amount)
	assert.Equal(t, "ТОО А", tx.Payer)
	assert.Equal(t, "111111111111", tx.PayerID)
	assert.Equal(t, "АО Нурбанк", tx.PayerBank)
	assert.Equal(t, "KZ1", tx.PayerAccount)
	assert.Equal(t, "ТОО Б", tx.Recipient)
	assert.Equal(t, "KZ2", tx.RecipientAccount)
	assert.Equal(t, "710", tx.KNP)
	assert.Equal(t, "Платеж", tx.OperationType)
	assert.Equal(t, "555", tx.DocumentNumber)
}

func TestAltyn(t *testing.T) {
	s := sheet.New("Sheet1", [][]any{
		{"АО Altyn Bank"},
		{
			"Дата и время операции", "Валюта", "Направление", "Сумма операции", "Сумма в тенге",
			"Наименование плательщика", "ИИН плательщика", "Банк плательщика", "Счёт плательщика",
			"Наименование получателя", "ИИН получателя", "Банк получателя", "Счёт получателя",
			"Код назначения платежа", "Описание",
		},
		{"01.05.2024 09:00:00", "KZT", "Входящий", 45000.0, 45000.0,
			"ТОО Клиент", "123456789012", "АО Kaspi Bank", "KZ01", "ТОО Мы", "987654321098", "АО Altyn Bank", "KZ02", "710", "Оплата"},
		{"02.05.2024", "KZT", "Исходящий", 1000.0, 1000.0},
	})
	assert.InDelta(t, 0.85, altyn.Score(s, sheet.FileContext{}), 1e-9)

	res := parseOne(t, altyn, s, sheet.FileContext{})
	require.Len(t, res.Transactions, 2)

	in := res.Transactions[0]
	assert.Equal(t, "2024-05-01 09:00:00", in.Date)
	assert.Equal(t, statement.Income, in.Direction)
	assert.Equal(t, "ТОО Клиент", in.Payer)
	assert.Equal(t, "KZ01", in.PayerAccount)
	assert.Equal(t, "АО Altyn Bank", in.RecipientBank)
	assert.Equal(t, "KZ02", in.RecipientAccount)
	assert.Equal(t, "710", in.KNP)
	assert.Equal(t, "Оплата", in.Purpose)

	assert.Equal(t, statement.Expense, res.Transactions[1].Direction)
}

func TestBCCSimple_Deposit(t *testing.T) {
	s := sheet.New("Sheet1", [][]any{
		{"Движение денежных средств по депозитному счету KZ86856000000012345"},
		{"Дата", "Сумма", "Примечание"},
		{"01.02.2024", 100000.0, "Приход"},
		{"15.02.2024", 2500.0, "Расход"},
	})
	assert.InDelta(t, 0.9, bccSimple.Score(s, sheet.FileContext{}), 1e-9)

	res := parseOne(t, bccSimple, s, sheet.FileContext{})
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "KZ86856000000012345", res.AccountNumber)
	assert.Equal(t, statement.Income, res.Transactions[0].Direction)
	assert.Equal(t, statement.Expense, res.Transactions[1].Direction)
	assert.Equal(t, "Расход", res.Transactions[1].Purpose)
}
