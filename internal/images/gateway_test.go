package images

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"testing"
)

// fakeSearcher answers from a table keyed by "kind|query" and records calls.
type fakeSearcher struct {
	name    string
	answers map[string][]string
	err     error

	mu    sync.Mutex
	calls []string
}

func (f *fakeSearcher) Name() string { return f.name }

func (f *fakeSearcher) Search(_ context.Context, query string, opts SearchOptions) ([]string, error) {
	key := string(opts.Kind) + "|" + query
	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.answers[key], nil
}

func (f *fakeSearcher) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func list(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("https://%s.test/%d.png", prefix, i)
	}
	return out
}

func newTestGateway(primary, secondary Searcher) *Gateway {
	return NewGateway(primary, secondary, NewDisambiguator(DefaultRules), GatewayOptions{Cap: 3, MaxCandidates: 30, PerPage: 20})
}

func TestSearchStopsWhenPrimarySatisfies(t *testing.T) {
	primary := &fakeSearcher{name: "p", answers: map[string][]string{"vector|chat": list("p", 5)}}
	secondary := &fakeSearcher{name: "s"}
	g := newTestGateway(primary, secondary)

	got := g.SearchImages(context.Background(), "chat", "animaux")

	if !reflect.DeepEqual(got, list("p", 5)) {
		t.Errorf("Expected primary results in rank order, got %v", got)
	}
	if calls := primary.called(); len(calls) != 1 {
		t.Errorf("Expected a single primary query, got %v", calls)
	}
	if calls := secondary.called(); len(calls) != 0 {
		t.Errorf("Expected secondary provider untouched, got %v", calls)
	}
}

func TestSearchInterleavesThemedResults(t *testing.T) {
	primary := &fakeSearcher{name: "p", answers: map[string][]string{
		"vector|pomme":         {"a0", "a1"},
		"vector|pomme automne": {"b0", "b1", "b2"},
		"illustration|pomme":   {"c0"},
	}}
	g := newTestGateway(primary, &fakeSearcher{name: "s"})

	got := g.SearchImages(context.Background(), "pomme", "automne")

	want := []string{"a0", "b0", "a1", "b1", "b2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if calls := primary.called(); len(calls) != 2 {
		t.Errorf("Expected illustration step to be skipped, got calls %v", calls)
	}
}

func TestSearchFallbackOrder(t *testing.T) {
	primary := &fakeSearcher{name: "p", answers: map[string][]string{
		"vector|lune":       {"p0"},
		"illustration|lune": {"p1"},
	}}
	secondary := &fakeSearcher{name: "s", answers: map[string][]string{
		"photo|lune ciel": {"s0", "s1"},
	}}
	g := newTestGateway(primary, secondary)

	got := g.SearchImages(context.Background(), "lune", "ciel")

	want := []string{"p0", "p1", "s0", "s1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	wantPrimary := []string{"vector|lune", "vector|lune ciel", "illustration|lune"}
	if calls := primary.called(); !reflect.DeepEqual(calls, wantPrimary) {
		t.Errorf("Expected primary calls %v, got %v", wantPrimary, calls)
	}
	wantSecondary := []string{"photo|lune ciel livre enfants illustration", "photo|lune ciel"}
	if calls := secondary.called(); !reflect.DeepEqual(calls, wantSecondary) {
		t.Errorf("Expected secondary calls %v, got %v", wantSecondary, calls)
	}
}

func TestSearchWithoutThemeSkipsThemedQuery(t *testing.T) {
	primary := &fakeSearcher{name: "p"}
	secondary := &fakeSearcher{name: "s", answers: map[string][]string{
		"photo|vélo livre enfants illustration": list("s", 3),
	}}
	g := newTestGateway(primary, secondary)

	got := g.SearchImages(context.Background(), "vélo", "")
	if len(got) != 3 {
		t.Errorf("Expected 3 results, got %v", got)
	}

	wantPrimary := []string{"vector|vélo", "illustration|vélo"}
	if calls := primary.called(); !reflect.DeepEqual(calls, wantPrimary) {
		t.Errorf("Expected primary calls %v, got %v", wantPrimary, calls)
	}
	if calls := secondary.called(); len(calls) != 1 {
		t.Errorf("Expected no plain retry once enriched query satisfied the cap, got %v", calls)
	}
}

func TestSearchScenarioAnimals(t *testing.T) {
	primary := &fakeSearcher{name: "p", answers: map[string][]string{
		"vector|chat": list("chat", 5),
	}}
	secondary := &fakeSearcher{name: "s", answers: map[string][]string{
		"photo|chien animaux livre enfants illustration": list("chien", 4),
	}}
	g := newTestGateway(primary, secondary)

	res := g.SearchAll(context.Background(), []string{"chat", "chien"}, "animaux")

	if got := res["chat"][:3]; !reflect.DeepEqual(got, list("chat", 3)) {
		t.Errorf("Expected chat top-3 from primary, got %v", got)
	}
	if got := res["chien"][:3]; !reflect.DeepEqual(got, list("chien", 3)) {
		t.Errorf("Expected chien top-3 from secondary, got %v", got)
	}
}

func TestSearchErrorsDegradeToPlaceholders(t *testing.T) {
	boom := errors.New("boom")
	primary := &fakeSearcher{name: "p", err: boom}
	secondary := &fakeSearcher{name: "s", err: boom}
	g := newTestGateway(primary, secondary)

	got := g.SearchImages(context.Background(), "arc-en-ciel", "météo")

	if len(got) != 3 {
		t.Fatalf("Expected 3 placeholders, got %v", got)
	}
	seen := map[string]bool{}
	for _, u := range got {
		if !strings.Contains(u, url.QueryEscape("arc-en-ciel")) {
			t.Errorf("Expected placeholder to carry the word, got %s", u)
		}
		if seen[u] {
			t.Errorf("Duplicate placeholder %s", u)
		}
		seen[u] = true
	}
	if calls := secondary.called(); len(calls) != 2 {
		t.Errorf("Expected both secondary attempts despite errors, got %v", calls)
	}
}

func TestSearchDisambiguates(t *testing.T) {
	primary := &fakeSearcher{name: "p", answers: map[string][]string{
		"vector|châtaigne marron": list("c", 3),
	}}
	g := newTestGateway(primary, &fakeSearcher{name: "s"})

	got := g.SearchImages(context.Background(), "Marron", "Automne")
	if len(got) != 3 {
		t.Errorf("Expected disambiguated query to find 3 results, got %v", got)
	}

	other := &fakeSearcher{name: "p"}
	g = newTestGateway(other, &fakeSearcher{name: "s"})
	g.SearchImages(context.Background(), "marron", "couleurs")
	if calls := other.called(); calls[0] != "vector|marron" {
		t.Errorf("Expected no rewrite outside the automne theme, got %v", calls)
	}
}

func TestSearchDisambiguatesFirstStepOnly(t *testing.T) {
	primary := &fakeSearcher{name: "p"}
	secondary := &fakeSearcher{name: "s"}
	g := newTestGateway(primary, secondary)

	g.SearchImages(context.Background(), "marron", "automne")

	wantPrimary := []string{"vector|châtaigne marron", "vector|marron automne", "illustration|marron"}
	if calls := primary.called(); !reflect.DeepEqual(calls, wantPrimary) {
		t.Errorf("Expected primary calls %v, got %v", wantPrimary, calls)
	}
	wantSecondary := []string{"photo|marron automne livre enfants illustration", "photo|marron automne"}
	if calls := secondary.called(); !reflect.DeepEqual(calls, wantSecondary) {
		t.Errorf("Expected secondary calls %v, got %v", wantSecondary, calls)
	}
}

func TestSearchDeduplicatesAcrossSteps(t *testing.T) {
	primary := &fakeSearcher{name: "p", answers: map[string][]string{
		"vector|chat":       {"u1", "u2"},
		"vector|chat zoo":   {"u2", " u1 "},
		"illustration|chat": {"u3"},
	}}
	g := newTestGateway(primary, &fakeSearcher{name: "s"})

	got := g.SearchImages(context.Background(), "chat", "zoo")
	want := []string{"u1", "u2", "u3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestSearchCapsCandidates(t *testing.T) {
	primary := &fakeSearcher{name: "p", answers: map[string][]string{"vector|chat": list("p", 20)}}
	g := NewGateway(primary, &fakeSearcher{name: "s"}, nil, GatewayOptions{Cap: 3, MaxCandidates: 6})

	if got := g.SearchImages(context.Background(), "chat", ""); len(got) != 6 {
		t.Errorf("Expected 6 candidates, got %d", len(got))
	}
}

func TestInterleave(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []string
		expected []string
	}{
		{"equal length", []string{"a0", "a1"}, []string{"b0", "b1"}, []string{"a0", "b0", "a1", "b1"}},
		{"longer first", []string{"a0", "a1", "a2"}, []string{"b0"}, []string{"a0", "b0", "a1", "a2"}},
		{"empty first", nil, []string{"b0", "b1"}, []string{"b0", "b1"}},
		{"both empty", nil, nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Interleave(tt.a, tt.b); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestDedupe(t *testing.T) {
	in := []string{"x", "y", " x", "z", "y", "", "x "}
	want := []string{"x", "y", "z"}
	if got := Dedupe(in); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders("pomme de pin", 6, nil)
	if len(got) != 6 {
		t.Fatalf("Expected 6 placeholders, got %d", len(got))
	}
	if got[0] != "https://via.placeholder.com/400x300/FFB6C1/333333?text=pomme+de+pin+1" {
		t.Errorf("Unexpected first placeholder %s", got[0])
	}
	if !strings.Contains(got[5], "/FFB6C1/") || !strings.HasSuffix(got[5], "+6") {
		t.Errorf("Expected palette to cycle, got %s", got[5])
	}
}

func TestDisambiguatorExtensible(t *testing.T) {
	d := NewDisambiguator(DefaultRules)
	d.Add(Rule{Word: "souris", Theme: "informatique", Query: "souris ordinateur"})

	tests := []struct {
		word, theme, expected string
	}{
		{"marron", "automne", "châtaigne marron"},
		{" MARRON ", "automne", "châtaigne marron"},
		{"marron", "", "marron"},
		{"souris", "informatique", "souris ordinateur"},
		{"souris", "animaux", "souris"},
	}
	for _, tt := range tests {
		if got := d.Rewrite(tt.word, tt.theme); got != tt.expected {
			t.Errorf("Rewrite(%q, %q): expected %q, got %q", tt.word, tt.theme, tt.expected, got)
		}
	}
}
