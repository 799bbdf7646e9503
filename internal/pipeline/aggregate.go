package pipeline

import (
	"sort"

	"github.com/dvloznov/expense-classifier/internal/expense"
)

// Summary maps each category to the summed amount of its rows. Keys are
// compared by exact string equality; error tokens and "Uncategorized" are
// ordinary categories. Amounts that failed numeric coercion contribute 0
// without excluding the row.
type Summary map[string]float64

// CategoryTotal is one chart-ready entry of the summary.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// Summarize groups the categorized table by category and sums amounts per
// group. Pure function: deterministic for identical input, no side
// effects, built fresh on every run. results must be indexed like
// table.Rows (the classifier guarantees this).
func Summarize(table *expense.Table, results []RowResult) Summary {
	summary := make(Summary, len(results))
	for i, res := range results {
		summary[res.Label()] += table.Rows[i].AmountOrZero()
	}
	return summary
}

// TotalExpenditure sums every numeric amount in the table, unparsable
// amounts counting as 0. Equals the sum over all summary values.
func TotalExpenditure(table *expense.Table) float64 {
	var total float64
	if table == nil {
		return 0
	}
	for _, row := range table.Rows {
		total += row.AmountOrZero()
	}
	return total
}

// Sorted returns the summary as a series ordered by descending total,
// ties broken by category name. The map itself has no order; charts need
// one.
func (s Summary) Sorted() []CategoryTotal {
	series := make([]CategoryTotal, 0, len(s))
	for category, total := range s {
		series = append(series, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(series, func(i, j int) bool {
		if series[i].Total != series[j].Total {
			return series[i].Total > series[j].Total
		}
		return series[i].Category < series[j].Category
	})
	return series
}
