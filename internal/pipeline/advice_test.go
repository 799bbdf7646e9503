package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGenerateAdvice(t *testing.T) {
	var captured string
	gen := &stubGenerator{
		generateFunc: func(ctx context.Context, prompt string) (string, error) {
			captured = prompt
			return "Spend less on rent.", nil
		},
	}

	summary := Summary{"Food": 16.50, "Housing": 1200.00}
	advice, err := GenerateAdvice(context.Background(), gen, 1500, 1216.50, summary)
	if err != nil {
		t.Fatalf("GenerateAdvice failed: %v", err)
	}
	if advice != "Spend less on rent." {
		t.Errorf("advice = %q", advice)
	}

	// Budget and total are embedded as 2-decimal currency; the breakdown
	// lists every category.
	for _, want := range []string{
		"You are a financial advisor.",
		"Budget: $1500.00",
		"Total Expenditure: $1216.50",
		"- Housing: $1200.00",
		"- Food: $16.50",
	} {
		if !strings.Contains(captured, want) {
			t.Errorf("prompt missing %q:\n%s", want, captured)
		}
	}
}

func TestGenerateAdvice_ServiceFailure(t *testing.T) {
	serviceErr := errors.New("quota exceeded")
	gen := &stubGenerator{
		generateFunc: func(ctx context.Context, prompt string) (string, error) {
			return "", serviceErr
		},
	}

	_, err := GenerateAdvice(context.Background(), gen, 100, 50, Summary{"Food": 50})
	if err == nil {
		t.Fatal("expected error")
	}

	var adviceErr *AdviceGenerationError
	if !errors.As(err, &adviceErr) {
		t.Fatalf("error is %T, want *AdviceGenerationError", err)
	}
	if !errors.Is(err, serviceErr) {
		t.Error("AdviceGenerationError does not wrap the service error")
	}
}
