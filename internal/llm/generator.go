// Package llm wraps the generative text service behind a single
// plain-text-in, plain-text-out operation.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Generator sends one prompt to the generation service and returns the
// trimmed text response. Implementations must be safe for concurrent use;
// the classifier issues independent calls in parallel.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// DefaultCallTimeout bounds each generation call. The service defines no
// timeout of its own, so every call gets one here.
const DefaultCallTimeout = 30 * time.Second

// Gemini is the Generator implementation backed by the Gemini API.
// Vertex vs Gemini Dev is controlled via env vars:
//   - GOOGLE_GENAI_USE_VERTEXAI=True -> Vertex AI
//   - GOOGLE_CLOUD_PROJECT / GOOGLE_CLOUD_LOCATION
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGemini creates a Gemini generator for the given model name. A
// non-positive timeout falls back to DefaultCallTimeout.
func NewGemini(ctx context.Context, model string, timeout time.Duration) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &Gemini{client: client, model: model, timeout: timeout}, nil
}

// Generate implements Generator. One discrete request, no retries.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}
