package normalize

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gigurra/kz-statements/internal/statement"
)

var (
	incomeMarkers  = []string{"входящ", "приход", "кредит", "income", "cr", "вход"}
	expenseMarkers = []string{"исход", "расход", "дебет", "expense", "dr", "исх", "выход"}

	incomeOperations  = []string{"входящ", "пополн", "зачисление", "возврат", "incoming"}
	expenseOperations = []string{"исходящ", "списан", "выдач", "перевод", "outgoing", "снятие"}
)

// Hints are the direction signals a format may have for one row. Debit and
// Credit accept raw cells as well as already normalized amounts.
type Hints struct {
	Raw           any
	Debit         any
	Credit        any
	OperationType any
}

// Direction resolves income/expense by priority: explicit direction text,
// then which of credit/debit is positive, then operation type keywords.
func Direction(h Hints) statement.Direction {
	if raw := Lower(h.Raw); raw != "" {
		if d := matchMarkers(raw, incomeMarkers, expenseMarkers); d != statement.Unknown {
			return d
		}
	}

	credit, debit := Amount(h.Credit), Amount(h.Debit)
	if Positive(credit) && !nonZero(debit) {
		return statement.Income
	}
	if Positive(debit) && !nonZero(credit) {
		return statement.Expense
	}

	if op := Lower(h.OperationType); op != "" {
		return matchMarkers(op, incomeOperations, expenseOperations)
	}
	return statement.Unknown
}

// DirectionFromText is Direction with only the explicit text signal.
func DirectionFromText(v any) statement.Direction {
	return Direction(Hints{Raw: v})
}

// DirectionFromOperation is Direction with only the operation type signal.
func DirectionFromOperation(v any) statement.Direction {
	return Direction(Hints{OperationType: v})
}

// DirectionFromKeywords matches s against format-specific keyword lists,
// income first.
func DirectionFromKeywords(v any, income, expense []string) statement.Direction {
	s := Lower(v)
	if s == "" {
		return statement.Unknown
	}
	return matchMarkers(s, income, expense)
}

func matchMarkers(s string, income, expense []string) statement.Direction {
	for _, m := range income {
		if strings.Contains(s, m) {
			return statement.Income
		}
	}
	for _, m := range expense {
		if strings.Contains(s, m) {
			return statement.Expense
		}
	}
	return statement.Unknown
}

func nonZero(a decimal.NullDecimal) bool {
	return a.Valid && !a.Decimal.IsZero()
}
