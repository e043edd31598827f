package banks

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gigurra/kz-statements/internal/normalize"
)

// colRule assigns a header cell to a field. A cell matches when it
// contains one of any (entries prefixed "=" must equal the cell instead),
// all of all, and none of none. Rules are tried in order and the first
// match decides the cell, like an if/else-if chain.
type colRule struct {
	field string
	any   []string
	all   []string
	none  []string
	// first keeps the earliest matching column when several match.
	first bool
	// when adds a condition on the columns mapped so far.
	when func(h string, c columns) bool
}

func (r colRule) matches(h string, c columns) bool {
	if len(r.any) > 0 && !matchAnyPattern(h, r.any) {
		return false
	}
	if !containsAll(h, r.all...) {
		return false
	}
	if len(r.none) > 0 && containsAny(h, r.none...) {
		return false
	}
	return r.when == nil || r.when(h, c)
}

func matchAnyPattern(h string, patterns []string) bool {
	for _, p := range patterns {
		if exact, ok := strings.CutPrefix(p, "="); ok {
			if h == exact {
				return true
			}
		} else if strings.Contains(h, p) {
			return true
		}
	}
	return false
}

// columns maps field names to column indices.
type columns map[string]int

func mapColumns(header []any, rules []colRule) columns {
	c := columns{}
	c.apply(header, rules)
	return c
}

// apply maps header into c, leaving fields mapped earlier in place unless a
// rule overrides them.
func (c columns) apply(header []any, rules []colRule) {
	for j, v := range header {
		h := lower(v)
		if h == "" {
			continue
		}
		for _, r := range rules {
			if !r.matches(h, c) {
				continue
			}
			if !r.first || !c.has(r.field) {
				c[r.field] = j
			}
			break
		}
	}
}

func (c columns) has(field string) bool {
	_, ok := c[field]
	return ok
}

func (c columns) get(row []any, field string) any {
	j, ok := c[field]
	if !ok {
		return nil
	}
	return cellAt(row, j)
}

func (c columns) str(row []any, field string) string {
	return normalize.CleanString(c.get(row, field))
}

func (c columns) amount(row []any, field string) decimal.NullDecimal {
	return normalize.Amount(c.get(row, field))
}

func (c columns) date(row []any, field string) string {
	return normalize.Date(c.get(row, field))
}

func (c columns) iin(row []any, field string) string {
	return normalize.IINBIN(c.get(row, field))
}

func (c columns) currency(row []any, field string) string {
	return normalize.Currency(c.get(row, field))
}

// parentHeaders resolves each column of a two-row header to its nearest
// non-empty top-row cell at or to the left of it, the way merged parent
// cells span their children.
func parentHeaders(top []any, width int) []string {
	parents := make([]string, width)
	current := ""
	for j := 0; j < width; j++ {
		if h := lower(cellAt(top, j)); h != "" {
			current = h
		}
		parents[j] = current
	}
	return parents
}
