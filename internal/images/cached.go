package images

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/thomnico/fiches-mots/internal/cache"
)

// CachedSearcher memoizes the results of another Searcher. Cache failures
// are logged and fall through to the provider; errors are never cached.
type CachedSearcher struct {
	next  Searcher
	cache cache.Cache
	ttl   time.Duration
}

// WithCache wraps s with c. A nil cache returns s unchanged.
func WithCache(s Searcher, c cache.Cache, ttl time.Duration) Searcher {
	if c == nil {
		return s
	}
	return &CachedSearcher{next: s, cache: c, ttl: ttl}
}

func (c *CachedSearcher) Name() string {
	return c.next.Name()
}

func (c *CachedSearcher) Search(ctx context.Context, query string, opts SearchOptions) ([]string, error) {
	key := cacheKey(c.next.Name(), query, opts)

	if raw, ok, err := c.cache.Get(ctx, key); err != nil {
		slog.Warn("Search cache read failed", "key", key, "error", err)
	} else if ok {
		var urls []string
		if err := json.Unmarshal([]byte(raw), &urls); err == nil {
			slog.Debug("Search cache hit", "key", key, "count", len(urls))
			return urls, nil
		}
	}

	urls, err := c.next.Search(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(urls); err == nil {
		if err := c.cache.Set(ctx, key, string(raw), c.ttl); err != nil {
			slog.Warn("Search cache write failed", "key", key, "error", err)
		}
	}
	return urls, nil
}

func cacheKey(provider, query string, opts SearchOptions) string {
	return strings.Join([]string{
		"fiches:search",
		provider,
		string(opts.Kind),
		strconv.Itoa(opts.PerPage),
		strings.ToLower(strings.TrimSpace(query)),
	}, "|")
}
