package pipeline

import (
	"context"
	"fmt"

	"github.com/dvloznov/expense-classifier/internal/llm"
)

// AdviceGenerationError reports a failed advice call. It is surfaced to
// the caller and never retried; the categorized table and summary remain
// valid regardless.
type AdviceGenerationError struct {
	Err error
}

func (e *AdviceGenerationError) Error() string {
	return fmt.Sprintf("generating financial advice: %v", e.Err)
}

func (e *AdviceGenerationError) Unwrap() error {
	return e.Err
}

// GenerateAdvice issues exactly one request embedding budget, total
// expenditure and the category breakdown, and returns the trimmed
// response verbatim. The content is not parsed or validated.
func GenerateAdvice(ctx context.Context, gen llm.Generator, budget, total float64, summary Summary) (string, error) {
	advice, err := gen.Generate(ctx, advicePrompt(budget, total, summary))
	if err != nil {
		return "", &AdviceGenerationError{Err: err}
	}
	return advice, nil
}
