package expense

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/zombor/expense-tracker/internal/category"
)

// Summarize totals amounts per canonical category. Categories appear in the
// order they are first seen. Expenses with a non-positive or non-finite
// amount are skipped.
func Summarize(expenses []*Expense, normalizer *category.Normalizer) []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	order := make([]string, 0)

	for _, e := range expenses {
		if e == nil || math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) || e.Amount <= 0 {
			continue
		}
		cat := normalizer.Normalize(e.Category)
		if _, seen := totals[cat]; !seen {
			order = append(order, cat)
		}
		totals[cat] = totals[cat].Add(decimal.NewFromFloat(e.Amount))
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, cat := range order {
		out = append(out, CategoryTotal{Category: cat, Total: totals[cat].InexactFloat64()})
	}
	return out
}
