package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dvloznov/expense-classifier/internal/expense"
	"github.com/dvloznov/expense-classifier/internal/llm"
)

// CategoryUncategorized is assigned to rows whose amount is missing or not
// numeric. No service call is made for them.
const CategoryUncategorized = "Uncategorized"

// DefaultClassifyConcurrency bounds how many classification calls run at
// once. Calls are independent, so fanning out only changes latency, not
// results; assignment order always matches input row order.
const DefaultClassifyConcurrency = 4

// RowResult is the outcome of classifying a single row: either a category
// string or the service error for that row. Failures are isolated per row
// and never abort the table-level operation.
type RowResult struct {
	Category string
	Err      error
}

// Label converts the result to the category string shown to the user.
// Service failures become a descriptive error token.
func (r RowResult) Label() string {
	if r.Err != nil {
		return fmt.Sprintf("Error: %v", r.Err)
	}
	return r.Category
}

// Classifier assigns a spending category to each table row via the
// generation service, one discrete call per eligible row.
type Classifier struct {
	gen         llm.Generator
	concurrency int
}

// NewClassifier creates a classifier. A non-positive concurrency falls
// back to DefaultClassifyConcurrency.
func NewClassifier(gen llm.Generator, concurrency int) *Classifier {
	if concurrency <= 0 {
		concurrency = DefaultClassifyConcurrency
	}
	return &Classifier{gen: gen, concurrency: concurrency}
}

// ClassifyTable categorizes every row of the table. The returned slice is
// indexed by input row, so len(results) == table.Len() and ordering is
// deterministic regardless of call interleaving. Rows without a numeric
// amount are categorized without a service call; for the rest, a failed
// call yields a RowResult carrying that row's error.
func (c *Classifier) ClassifyTable(ctx context.Context, table *expense.Table) []RowResult {
	results := make([]RowResult, table.Len())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, row := range table.Rows {
		if !row.HasAmount {
			results[i] = RowResult{Category: CategoryUncategorized}
			continue
		}

		g.Go(func() error {
			category, err := c.gen.Generate(ctx, classificationPrompt(row))
			if err != nil {
				// Row-level containment: record the failure, keep going.
				results[i] = RowResult{Err: err}
				return nil
			}
			results[i] = RowResult{Category: category}
			return nil
		})
	}

	// Workers never return errors; Wait only synchronizes completion.
	_ = g.Wait()

	return results
}
