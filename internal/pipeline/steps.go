package pipeline

import (
	"context"
	"fmt"

	"github.com/dvloznov/expense-classifier/internal/expense"
	"github.com/dvloznov/expense-classifier/internal/llm"
)

// Step represents a single step in the categorization pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State holds the shared state across all pipeline steps.
type State struct {
	Budget  float64
	Table   *expense.Table
	Results []RowResult
	Summary Summary
	Total   float64
	Advice  string

	// AdviceErr records an advice-generation failure. It is kept on the
	// state instead of aborting the run: the categorized table and the
	// summary stay available when only the advice call failed.
	AdviceErr error
}

// ClassifyStep categorizes every table row via the generation service.
type ClassifyStep struct {
	Classifier *Classifier
}

func (s *ClassifyStep) Execute(ctx context.Context, state *State) error {
	state.Results = s.Classifier.ClassifyTable(ctx, state.Table)
	if len(state.Results) != state.Table.Len() {
		return fmt.Errorf("classify: got %d results for %d rows", len(state.Results), state.Table.Len())
	}
	return nil
}

// AggregateStep groups the categorized rows and computes totals.
type AggregateStep struct{}

func (s *AggregateStep) Execute(ctx context.Context, state *State) error {
	state.Summary = Summarize(state.Table, state.Results)
	state.Total = TotalExpenditure(state.Table)
	return nil
}

// AdviceStep requests the one budget recommendation. It runs strictly
// after aggregation: the prompt needs the final per-category totals.
type AdviceStep struct {
	Generator llm.Generator
}

func (s *AdviceStep) Execute(ctx context.Context, state *State) error {
	advice, err := GenerateAdvice(ctx, s.Generator, state.Budget, state.Total, state.Summary)
	if err != nil {
		state.AdviceErr = err
		return nil
	}
	state.Advice = advice
	return nil
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially against the shared state.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}
