package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/thomnico/fiches-mots/internal/providers"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	mistralBaseURL = "https://api.mistral.ai/v1"
)

// OpenAI talks to any OpenAI-compatible chat completions API
type OpenAI struct {
	name       string
	BaseURL    string
	APIKey     string
	keyEnv     string
	HTTPClient *http.Client
}

// New returns a provider for OpenAI, configured from OPENAI_API_KEY and
// OPENAI_BASE_URL
func New() *OpenAI {
	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &OpenAI{
		name:       "openai",
		BaseURL:    baseURL,
		APIKey:     os.Getenv("OPENAI_API_KEY"),
		keyEnv:     "OPENAI_API_KEY",
		HTTPClient: &http.Client{},
	}
}

// NewMistral returns a provider for the Mistral API, configured from
// MISTRAL_API_KEY
func NewMistral() *OpenAI {
	return &OpenAI{
		name:       "mistral",
		BaseURL:    mistralBaseURL,
		APIKey:     os.Getenv("MISTRAL_API_KEY"),
		keyEnv:     "MISTRAL_API_KEY",
		HTTPClient: &http.Client{},
	}
}

func (o *OpenAI) Name() string {
	return o.name
}

// GenerateText sends the prompt as a single user message
func (o *OpenAI) GenerateText(ctx context.Context, config providers.Config) (string, error) {
	if o.APIKey == "" {
		return "", fmt.Errorf("%s environment variable not set", o.keyEnv)
	}

	url := strings.TrimSuffix(o.BaseURL, "/") + "/chat/completions"

	body := map[string]interface{}{
		"model": config.Model,
		"messages": []map[string]string{
			{
				"role":    "user",
				"content": config.Prompt,
			},
		},
		"temperature": config.Temperature,
	}
	if config.MaxTokens > 0 {
		body["max_tokens"] = config.MaxTokens
	}
	requestBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.APIKey)

	resp, err := o.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from %s", o.name)
	}

	return response.Choices[0].Message.Content, nil
}

// StatusError is returned for non-200 answers so callers can tell server
// failures from client errors
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("received non-200 status code: %d - %s", e.Code, e.Body)
}
