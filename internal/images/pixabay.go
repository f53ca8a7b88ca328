package images

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Pixabay searches vectors and illustrations on pixabay.com.
type Pixabay struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func NewPixabay(apiKey, baseURL string, timeout time.Duration) *Pixabay {
	if baseURL == "" {
		baseURL = "https://pixabay.com/api/"
	}
	return &Pixabay{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		HTTPClient: newHTTPClient(timeout),
	}
}

func (p *Pixabay) Name() string {
	return "pixabay"
}

type pixabayResponse struct {
	Total int `json:"total"`
	Hits  []struct {
		WebformatURL string `json:"webformatURL"`
	} `json:"hits"`
}

func (p *Pixabay) Search(ctx context.Context, query string, opts SearchOptions) ([]string, error) {
	if p.APIKey == "" {
		return nil, ErrMissingKey
	}

	imageType := "vector"
	if opts.Kind == KindIllustration {
		imageType = "illustration"
	} else if opts.Kind == KindPhoto {
		imageType = "photo"
	}

	params := url.Values{}
	params.Set("key", p.APIKey)
	params.Set("q", query)
	params.Set("image_type", imageType)
	params.Set("per_page", strconv.Itoa(perPage(opts.PerPage)))
	params.Set("safesearch", "true")
	params.Set("lang", "fr")

	req, err := http.NewRequestWithContext(ctx, "GET", p.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}

	var result pixabayResponse
	if err := getJSON(p.HTTPClient, req, &result); err != nil {
		return nil, fmt.Errorf("pixabay search for %q: %w", query, err)
	}

	urls := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		if hit.WebformatURL != "" {
			urls = append(urls, hit.WebformatURL)
		}
	}
	return urls, nil
}

// perPage clamps to the range both providers accept.
func perPage(n int) int {
	switch {
	case n <= 0:
		return 20
	case n < 3:
		return 3
	case n > 30:
		return 30
	}
	return n
}
