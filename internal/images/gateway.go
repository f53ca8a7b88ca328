package images

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

const childrenBookQualifier = "livre enfants illustration"

type GatewayOptions struct {
	// Cap is the per-word yield that stops the fallback chain. It is also the
	// number of placeholders returned when nothing is found.
	Cap int
	// MaxCandidates bounds the list handed back for pagination.
	MaxCandidates int
	// PerPage is the over-fetch limit sent to each provider.
	PerPage     int
	Concurrency int
	Palette     []string
}

// Gateway aggregates candidate images for a word from a primary
// (vector/illustration) and a secondary (photo) provider.
type Gateway struct {
	primary       Searcher
	secondary     Searcher
	disambiguator *Disambiguator
	opts          GatewayOptions
}

func NewGateway(primary, secondary Searcher, d *Disambiguator, opts GatewayOptions) *Gateway {
	if opts.Cap <= 0 {
		opts.Cap = 3
	}
	if opts.MaxCandidates < opts.Cap {
		opts.MaxCandidates = opts.Cap
	}
	if opts.PerPage <= 0 {
		opts.PerPage = 20
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if d == nil {
		d = NewDisambiguator(DefaultRules)
	}
	return &Gateway{primary: primary, secondary: secondary, disambiguator: d, opts: opts}
}

// query is one word search after disambiguation.
// query holds the raw word and, in Term, its disambiguated form. Only the
// first primary step searches Term; the others search Word.
type query struct {
	Word  string
	Term  string
	Theme string
}

// results accumulates what the steps found, per provider, in rank order.
type results struct {
	Primary   []string
	Secondary []string
}

func (r results) all() []string {
	return Dedupe(append(append([]string{}, r.Primary...), r.Secondary...))
}

func (r results) satisfies(limit int) bool {
	return len(r.all()) >= limit
}

// step is one link of the fallback chain. It only runs while the results so
// far do not satisfy the cap.
type step struct {
	name string
	run  func(ctx context.Context, q query, prior results) results
}

func (g *Gateway) steps() []step {
	return []step{
		{name: "primary", run: g.primaryWord},
		{name: "primary-theme", run: g.primaryThemed},
		{name: "primary-illustration", run: g.primaryIllustration},
		{name: "secondary-enriched", run: g.secondaryEnriched},
		{name: "secondary-plain", run: g.secondaryPlain},
	}
}

// SearchImages returns the deduplicated candidate URLs for word. It never
// fails: provider errors count as empty results and a word with no result
// at all gets Cap placeholder URLs.
func (g *Gateway) SearchImages(ctx context.Context, word, theme string) []string {
	q := query{
		Word:  word,
		Term:  g.disambiguator.Rewrite(word, theme),
		Theme: strings.TrimSpace(theme),
	}
	if q.Term != word {
		slog.Debug("Disambiguated search term", "word", word, "theme", theme, "term", q.Term)
	}

	var r results
	for _, s := range g.steps() {
		if r.satisfies(g.opts.Cap) {
			break
		}
		r = s.run(ctx, q, r)
		slog.Debug("Search step done", "word", word, "step", s.name,
			"primary", len(r.Primary), "secondary", len(r.Secondary))
	}

	urls := r.all()
	if len(urls) == 0 {
		slog.Warn("No image found, using placeholders", "word", word, "theme", theme)
		return Placeholders(word, g.opts.Cap, g.opts.Palette)
	}
	if len(urls) > g.opts.MaxCandidates {
		urls = urls[:g.opts.MaxCandidates]
	}

	slog.Info("Found images", "word", word, "count", len(urls))
	return urls
}

// SearchAll searches every word concurrently. Steps for one word still run
// in order.
func (g *Gateway) SearchAll(ctx context.Context, words []string, theme string) map[string][]string {
	type wordResult struct {
		word string
		urls []string
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, g.opts.Concurrency)
	resultsChan := make(chan wordResult, len(words))

	for _, w := range words {
		wg.Add(1)
		go func(word string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			resultsChan <- wordResult{word: word, urls: g.SearchImages(ctx, word, theme)}
		}(w)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	out := make(map[string][]string, len(words))
	for res := range resultsChan {
		out[res.word] = res.urls
	}
	return out
}

func (g *Gateway) search(ctx context.Context, s Searcher, term string, kind Kind) []string {
	if s == nil {
		return nil
	}
	urls, err := s.Search(ctx, term, SearchOptions{Kind: kind, PerPage: g.opts.PerPage})
	if err != nil {
		slog.Warn("Image search failed", "provider", s.Name(), "query", term, "kind", kind, "error", err)
		return nil
	}
	return urls
}

func (g *Gateway) primaryWord(ctx context.Context, q query, prior results) results {
	prior.Primary = append(prior.Primary, g.search(ctx, g.primary, q.Term, KindVector)...)
	return prior
}

func (g *Gateway) primaryThemed(ctx context.Context, q query, prior results) results {
	if q.Theme == "" {
		return prior
	}
	themed := g.search(ctx, g.primary, q.Word+" "+q.Theme, KindVector)
	prior.Primary = Interleave(prior.Primary, themed)
	return prior
}

func (g *Gateway) primaryIllustration(ctx context.Context, q query, prior results) results {
	prior.Primary = append(prior.Primary, g.search(ctx, g.primary, q.Word, KindIllustration)...)
	return prior
}

func (g *Gateway) secondaryEnriched(ctx context.Context, q query, prior results) results {
	prior.Secondary = append(prior.Secondary, g.search(ctx, g.secondary, joinTerms(q.Word, q.Theme, childrenBookQualifier), KindPhoto)...)
	return prior
}

func (g *Gateway) secondaryPlain(ctx context.Context, q query, prior results) results {
	prior.Secondary = append(prior.Secondary, g.search(ctx, g.secondary, joinTerms(q.Word, q.Theme), KindPhoto)...)
	return prior
}

func joinTerms(terms ...string) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// Interleave merges a and b position by position: a[0], b[0], a[1], b[1]...
// The tail of the longer list follows.
func Interleave(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	for i := 0; i < max(len(a), len(b)); i++ {
		if i < len(a) {
			out = append(out, a[i])
		}
		if i < len(b) {
			out = append(out, b[i])
		}
	}
	return out
}

// Dedupe drops URLs already seen after trimming, keeping first occurrences.
// Empty entries are dropped.
func Dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
