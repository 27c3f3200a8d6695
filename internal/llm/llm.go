package llm

import (
	"context"
	"errors"
)

// Generator abstracts text-generation providers.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Sampling is the decoding configuration sent with every request.
type Sampling struct {
	Temperature     float64
	TopP            float64
	TopK            int
	MaxOutputTokens int
}

// DefaultSampling is shared by all requests and never mutated.
var DefaultSampling = Sampling{
	Temperature:     0.9,
	TopP:            1,
	TopK:            1,
	MaxOutputTokens: 4096,
}

// ErrNotImplemented is returned by the placeholder generator.
var ErrNotImplemented = errors.New("LLM not implemented")

// ErrEmptyOutput is returned when the provider answers without any text.
var ErrEmptyOutput = errors.New("LLM returned no text")

// PlaceholderGenerator is used when no provider is configured.
type PlaceholderGenerator struct{}

// Generate returns ErrNotImplemented.
func (PlaceholderGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrNotImplemented
}
