package pipeline

import (
	"fmt"
	"strings"

	"github.com/dvloznov/expense-classifier/internal/expense"
)

// classificationPrompt builds the per-row classification request. The
// description defaults to the empty string when absent; the amount is
// rendered the way it was entered.
func classificationPrompt(row expense.Row) string {
	return fmt.Sprintf(
		"Categorize the following expense: Description: '%s', Amount: '%s'. "+
			"Reply with a single category name.",
		row.Description, row.FormatAmount(),
	)
}

// advicePrompt builds the one budget-advice request issued after all row
// classifications complete. Budget and total expenditure are embedded as
// 2-decimal currency; the breakdown lists every category exactly once, in
// the summary's deterministic order.
func advicePrompt(budget, total float64, summary Summary) string {
	var b strings.Builder
	b.WriteString("You are a financial advisor. Based on the following financial data, provide highly specific financial advice:\n")
	fmt.Fprintf(&b, "Budget: $%.2f\n", budget)
	fmt.Fprintf(&b, "Total Expenditure: $%.2f\n", total)
	b.WriteString("Expense Breakdown:\n")
	for _, entry := range summary.Sorted() {
		fmt.Fprintf(&b, "- %s: $%.2f\n", entry.Category, entry.Total)
	}
	b.WriteString("Provide unique advice that takes into account the user's spending patterns, " +
		"and provide actionable steps that are tailored to reducing spending where necessary " +
		"and optimizing their budget.")
	return b.String()
}
