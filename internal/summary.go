package internal

import (
	"cmp"
	"slices"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/gigurra/kz-statements/internal/normalize"
	"github.com/gigurra/kz-statements/internal/statement"
)

// CurrencyTotals sums one currency's income and expense.
type CurrencyTotals struct {
	Currency     string
	Transactions int
	Income       decimal.Decimal
	Expense      decimal.Decimal
}

// Summary aggregates a batch for the report.
type Summary struct {
	Totals   []CurrencyTotals // sorted by currency, KZT first
	Banks    []string
	DateFrom string
	DateTo   string
}

// Summarize totals the transactions per currency and collects the banks and
// the covered date range. Transactions without a currency count as KZT;
// rows whose date is not a calendar date are left out of the range.
func Summarize(txs []statement.Transaction) Summary {
	byCurrency := lo.GroupBy(txs, func(t statement.Transaction) string {
		return cmp.Or(t.Currency, "KZT")
	})

	totals := lo.MapToSlice(byCurrency, func(code string, group []statement.Transaction) CurrencyTotals {
		ct := CurrencyTotals{Currency: code, Transactions: len(group)}
		for _, t := range group {
			if !t.Amount.Valid {
				continue
			}
			switch t.Direction {
			case statement.Income:
				ct.Income = ct.Income.Add(t.Amount.Decimal)
			case statement.Expense:
				ct.Expense = ct.Expense.Add(t.Amount.Decimal)
			}
		}
		return ct
	})
	slices.SortFunc(totals, func(a, b CurrencyTotals) int {
		return cmp.Or(
			cmp.Compare(currencyRank(a.Currency), currencyRank(b.Currency)),
			cmp.Compare(a.Currency, b.Currency),
		)
	})

	banks := lo.Uniq(lo.FilterMap(txs, func(t statement.Transaction, _ int) (string, bool) {
		return t.StatementBank, t.StatementBank != ""
	}))
	slices.Sort(banks)

	dates := lo.FilterMap(txs, func(t statement.Transaction, _ int) (string, bool) {
		d, ok := normalize.ParseDate(t.Date)
		return d.Format("2006-01-02"), ok
	})

	s := Summary{Totals: totals, Banks: banks}
	if len(dates) > 0 {
		s.DateFrom, s.DateTo = slices.Min(dates), slices.Max(dates)
	}
	return s
}

func currencyRank(code string) int {
	if code == "KZT" {
		return 0
	}
	return 1
}
