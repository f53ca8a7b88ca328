package images

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Unsplash searches photos on unsplash.com.
type Unsplash struct {
	AccessKey  string
	BaseURL    string
	HTTPClient *http.Client
}

func NewUnsplash(accessKey, baseURL string, timeout time.Duration) *Unsplash {
	if baseURL == "" {
		baseURL = "https://api.unsplash.com/search/photos"
	}
	return &Unsplash{
		AccessKey:  accessKey,
		BaseURL:    baseURL,
		HTTPClient: newHTTPClient(timeout),
	}
}

func (u *Unsplash) Name() string {
	return "unsplash"
}

type unsplashResponse struct {
	Total   int `json:"total"`
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

func (u *Unsplash) Search(ctx context.Context, query string, opts SearchOptions) ([]string, error) {
	if u.AccessKey == "" {
		return nil, ErrMissingKey
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(perPage(opts.PerPage)))
	params.Set("orientation", "landscape")
	params.Set("content_filter", "high")

	req, err := http.NewRequestWithContext(ctx, "GET", u.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+u.AccessKey)
	req.Header.Set("Accept-Version", "v1")

	var result unsplashResponse
	if err := getJSON(u.HTTPClient, req, &result); err != nil {
		return nil, fmt.Errorf("unsplash search for %q: %w", query, err)
	}

	urls := make([]string, 0, len(result.Results))
	for _, r := range result.Results {
		if r.URLs.Regular != "" {
			urls = append(urls, r.URLs.Regular)
		}
	}
	return urls, nil
}
