// Package pipeline implements the expense categorization-and-advice
// pipeline: per-row classification against the generation service,
// per-category aggregation, and the single budget-advice call.
package pipeline

import (
	"context"
	"errors"

	"github.com/dvloznov/expense-classifier/internal/expense"
	"github.com/dvloznov/expense-classifier/internal/llm"
)

// ErrEmptyInput signals that the categorize action was triggered on an
// empty or entirely blank table. It is a user-visible warning, not a
// failure; no service calls are made.
var ErrEmptyInput = errors.New("no financial data to categorize")

// CategorizedRow is one table row with its assigned category, as handed
// to the presentation layer. Error is set when that row's service call
// failed; Category then carries the error token.
type CategorizedRow struct {
	expense.Row
	Category string `json:"category"`
	Error    string `json:"error,omitempty"`
}

// Result is everything one categorize run yields: the categorized table,
// the aggregated summary (map and chart-ready series), the total
// expenditure, and the advice text. AdviceError is set when only the
// advice call failed; the rest of the result is still valid.
type Result struct {
	Rows        []CategorizedRow `json:"rows"`
	Summary     Summary          `json:"summary"`
	Series      []CategoryTotal  `json:"series"`
	Total       float64          `json:"total"`
	Budget      float64          `json:"budget"`
	Advice      string           `json:"advice,omitempty"`
	AdviceError string           `json:"advice_error,omitempty"`
}

// Runner sequences the categorize run: classification, aggregation, then
// the advice call. The input table is expected to be normalized already
// (normalization happens when data is uploaded or edited).
type Runner struct {
	gen        llm.Generator
	classifier *Classifier
}

// NewRunner creates a runner that classifies with the given bounded
// concurrency.
func NewRunner(gen llm.Generator, concurrency int) *Runner {
	return &Runner{
		gen:        gen,
		classifier: NewClassifier(gen, concurrency),
	}
}

// Run executes one categorize run over the normalized table. It returns
// ErrEmptyInput for empty or all-blank input without touching the
// service. Classification failures stay inside individual rows; an
// advice failure is reported through Result.AdviceError. Every row of
// the input appears in the result with exactly one category.
func (r *Runner) Run(ctx context.Context, table *expense.Table, budget float64) (*Result, error) {
	if table.Empty() {
		return nil, ErrEmptyInput
	}

	state := &State{Budget: budget, Table: table}
	p := NewPipeline(
		&ClassifyStep{Classifier: r.classifier},
		&AggregateStep{},
		&AdviceStep{Generator: r.gen},
	)
	if err := p.Execute(ctx, state); err != nil {
		return nil, err
	}

	result := &Result{
		Rows:    make([]CategorizedRow, 0, table.Len()),
		Summary: state.Summary,
		Series:  state.Summary.Sorted(),
		Total:   state.Total,
		Budget:  budget,
		Advice:  state.Advice,
	}
	if state.AdviceErr != nil {
		result.AdviceError = state.AdviceErr.Error()
	}
	for i, row := range table.Rows {
		categorized := CategorizedRow{
			Row:      row,
			Category: state.Results[i].Label(),
		}
		if err := state.Results[i].Err; err != nil {
			categorized.Error = err.Error()
		}
		result.Rows = append(result.Rows, categorized)
	}
	return result, nil
}
