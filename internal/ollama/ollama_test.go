package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/thomnico/fiches-mots/internal/providers"
)

func TestGenerateText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model   string                 `json:"model"`
			Stream  bool                   `json:"stream"`
			Options map[string]interface{} `json:"options"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Unable to decode request: %v", err)
			return
		}
		if body.Stream || body.Model != "mistral" || body.Options["num_predict"] != float64(120) {
			t.Errorf("Unexpected request %+v", body)
		}
		_, _ = w.Write([]byte(`{"response":"vache\ncochon"}`))
	}))
	defer server.Close()

	o := New()
	o.BaseURL = server.URL
	got, err := o.GenerateText(context.Background(), providers.Config{Model: "mistral", MaxTokens: 120, Prompt: "ferme"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "vache\ncochon" {
		t.Errorf("Expected response text, got %q", got)
	}
}
