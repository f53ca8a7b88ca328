package providers

import (
	"context"
)

// Config represents one text completion request
type Config struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Prompt      string
}

// Provider defines the interface for an LLM provider
type Provider interface {
	Name() string
	GenerateText(ctx context.Context, config Config) (string, error)
}
