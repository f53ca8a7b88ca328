package wordgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/thomnico/fiches-mots/internal/gemini"
	"github.com/thomnico/fiches-mots/internal/ollama"
	"github.com/thomnico/fiches-mots/internal/openai"
	"github.com/thomnico/fiches-mots/internal/providers"
)

const (
	MinCount     = 5
	MaxCount     = 20
	DefaultCount = 10
)

var (
	ErrNoWords      = errors.New("no words generated")
	ErrThemeMissing = errors.New("theme parameter required")
)

type Request struct {
	Theme        string   `json:"theme"`
	Count        int      `json:"count"`
	ExcludeWords []string `json:"excludeWords"`
}

type Response struct {
	Theme string   `json:"theme"`
	Count int      `json:"count"`
	Words []string `json:"words"`
	Model string   `json:"model,omitempty"`
}

// Generator produces a themed word list.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Service generates word lists with an LLM provider.
type Service struct {
	provider providers.Provider
	opts     Options
}

func NewService(provider providers.Provider, opts Options) *Service {
	return &Service{provider: provider, opts: opts}
}

// NewProvider returns the LLM provider registered under name.
func NewProvider(name string) (providers.Provider, error) {
	switch strings.ToLower(name) {
	case "", "mistral":
		return openai.NewMistral(), nil
	case "openai":
		return openai.New(), nil
	case "ollama":
		return ollama.New(), nil
	case "gemini":
		return gemini.New(), nil
	}
	return nil, fmt.Errorf("unknown words provider %q", name)
}

// ClampCount keeps count within MinCount..MaxCount, using DefaultCount when
// unset.
func ClampCount(count int) int {
	if count <= 0 {
		return DefaultCount
	}
	return min(max(count, MinCount), MaxCount)
}

func cleanExclusions(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

func (s *Service) Generate(ctx context.Context, req Request) (*Response, error) {
	theme := strings.TrimSpace(req.Theme)
	if theme == "" {
		return nil, ErrThemeMissing
	}
	count := ClampCount(req.Count)
	exclude := cleanExclusions(req.ExcludeWords)

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	slog.Info("Generating words", "provider", s.provider.Name(), "model", s.opts.Model, "theme", theme, "count", count, "excluded", len(exclude))
	text, err := s.provider.GenerateText(ctx, providers.Config{
		Model:       s.opts.Model,
		Temperature: s.opts.Temperature,
		MaxTokens:   s.opts.MaxTokens,
		Prompt:      buildPrompt(theme, count, exclude),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate words: %w", err)
	}

	words := ParseWords(text, count, exclude)
	if len(words) == 0 {
		return nil, ErrNoWords
	}

	return &Response{
		Theme: theme,
		Count: len(words),
		Words: words,
		Model: s.opts.Model,
	}, nil
}
