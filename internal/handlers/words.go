package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/thomnico/fiches-mots/internal/models"
	"github.com/thomnico/fiches-mots/internal/wordgen"
)

func (h *Handler) HandleGenerateWords(w http.ResponseWriter, r *http.Request) {
	if h.opts.Words == nil {
		h.writeError(w, "Word generation is not configured", http.StatusServiceUnavailable)
		return
	}

	var req wordgen.Request
	if !h.decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.opts.Words.Generate(r.Context(), req)
	switch {
	case errors.Is(err, wordgen.ErrThemeMissing):
		h.writeError(w, "Theme parameter required", http.StatusBadRequest)
	case errors.Is(err, wordgen.ErrNoWords):
		h.writeError(w, "Aucun mot généré, veuillez réessayer", http.StatusBadGateway)
	case err != nil:
		h.writeError(w, "Word generation failed: "+err.Error(), http.StatusBadGateway)
	default:
		h.writeJSON(w, resp)
	}
}

func (h *Handler) HandleImageSearch(w http.ResponseWriter, r *http.Request) {
	word := strings.TrimSpace(r.URL.Query().Get("word"))
	if word == "" {
		h.writeError(w, "word parameter required", http.StatusBadRequest)
		return
	}
	theme := strings.TrimSpace(r.URL.Query().Get("theme"))

	h.writeJSON(w, models.ImageSearchResponse{
		Word:   word,
		Theme:  theme,
		Images: h.opts.Images.SearchImages(r.Context(), word, theme),
	})
}
