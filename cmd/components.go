package cmd

import (
	"fmt"
	"log/slog"

	"github.com/thomnico/fiches-mots/internal/cache"
	"github.com/thomnico/fiches-mots/internal/config"
	"github.com/thomnico/fiches-mots/internal/document"
	"github.com/thomnico/fiches-mots/internal/handlers"
	"github.com/thomnico/fiches-mots/internal/images"
	"github.com/thomnico/fiches-mots/internal/layout"
	"github.com/thomnico/fiches-mots/internal/wordgen"
)

// newGateway builds the image gateway with Pixabay as primary and Unsplash
// as secondary provider, both behind the search cache.
func newGateway(cfg *config.Config) (*images.Gateway, cache.Cache, error) {
	c, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, nil, err
	}

	ic := cfg.Images
	primary := images.WithCache(images.NewPixabay(ic.PixabayAPIKey, ic.PixabayURL, ic.Timeout), c, cfg.Cache.TTL)
	secondary := images.WithCache(images.NewUnsplash(ic.UnsplashAccessKey, ic.UnsplashURL, ic.Timeout), c, cfg.Cache.TTL)
	if ic.PixabayAPIKey == "" {
		slog.Warn("PIXABAY_API_KEY not set, primary image provider disabled")
	}
	if ic.UnsplashAccessKey == "" {
		slog.Warn("UNSPLASH_ACCESS_KEY not set, secondary image provider disabled")
	}

	rules := make([]images.Rule, 0, len(ic.Disambiguations))
	for _, d := range ic.Disambiguations {
		rules = append(rules, images.Rule{Word: d.Word, Theme: d.Theme, Query: d.Query})
	}

	gateway := images.NewGateway(primary, secondary, images.NewDisambiguator(rules), images.GatewayOptions{
		Cap:           ic.PerWordCap,
		MaxCandidates: ic.MaxCandidates,
		PerPage:       ic.PerPage,
		Concurrency:   ic.Concurrency,
		Palette:       ic.PlaceholderPalette,
	})
	return gateway, c, nil
}

func newAssembler(cfg *config.Config, cardsPerPage int) (*document.Assembler, error) {
	engine, err := layout.New(cardsPerPage, layout.DefaultOptions())
	if err != nil {
		return nil, err
	}
	fetcher := images.NewFetcher(cfg.Images.Timeout, cfg.Images.MaxSide, cfg.Images.JPEGQuality)
	fonts := document.FontSources{
		Capital: cfg.PDF.Fonts.Capital,
		Script:  cfg.PDF.Fonts.Script,
		Cursive: cfg.PDF.Fonts.Cursive,
	}
	return document.NewAssembler(engine, fetcher, fonts), nil
}

// newAssemblers returns one assembler per supported layout
func newAssemblers(cfg *config.Config) (map[int]handlers.DocumentAssembler, error) {
	out := make(map[int]handlers.DocumentAssembler, 2)
	for _, n := range []int{2, 4} {
		a, err := newAssembler(cfg, n)
		if err != nil {
			return nil, err
		}
		out[n] = a
	}
	return out, nil
}

// newWordGenerator calls the remote endpoint when one is configured and the
// LLM provider otherwise.
func newWordGenerator(cfg *config.Config, endpoint string) (wordgen.Generator, error) {
	wc := cfg.Words
	if endpoint == "" {
		endpoint = wc.Endpoint
	}
	if endpoint != "" {
		return wordgen.NewClient(endpoint, wc.Timeout, wc.Retries, wc.Backoff), nil
	}

	provider, err := wordgen.NewProvider(wc.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create words provider: %w", err)
	}
	return wordgen.NewService(provider, wordgen.Options{
		Model:       wc.Model,
		Temperature: wc.Temperature,
		MaxTokens:   wc.MaxTokens,
		Timeout:     wc.Timeout,
	}), nil
}
