package images

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrMissingKey = errors.New("provider API key not configured")

// Kind narrows a search to a family of images. Providers map it onto their
// own vocabulary and ignore kinds they do not support.
type Kind string

const (
	KindVector       Kind = "vector"
	KindIllustration Kind = "illustration"
	KindPhoto        Kind = "photo"
)

type SearchOptions struct {
	Kind    Kind
	PerPage int
}

// Searcher queries one external image provider and returns image URLs in
// provider rank order.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string, opts SearchOptions) ([]string, error)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// getJSON performs req and decodes a 200 response body into out.
func getJSON(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}
