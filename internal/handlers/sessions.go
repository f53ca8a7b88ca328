package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/thomnico/fiches-mots/internal/document"
	"github.com/thomnico/fiches-mots/internal/models"
	"github.com/thomnico/fiches-mots/internal/selection"
	"github.com/thomnico/fiches-mots/internal/storage"
	"github.com/thomnico/fiches-mots/internal/wordlist"
)

// HandleCreateSession searches images for every word, registers the
// candidates and selects the first image of each word's first page.
func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	words := wordlist.Normalize(req.Words)
	if len(words) == 0 {
		h.writeError(w, "Veuillez entrer au moins un mot", http.StatusBadRequest)
		return
	}

	cardsPerPage := req.CardsPerPage
	if cardsPerPage == 0 {
		cardsPerPage = h.opts.DefaultCardsPerPage
	}
	if _, ok := h.opts.Assemblers[cardsPerPage]; !ok {
		h.writeError(w, fmt.Sprintf("Unsupported cardsPerPage: %d", cardsPerPage), http.StatusBadRequest)
		return
	}

	theme := strings.TrimSpace(req.Theme)
	session := models.NewSession(theme, words, cardsPerPage, h.opts.PageSize)

	slog.Info("Searching images", "words", len(words), "theme", theme)
	candidates := h.opts.Images.SearchAll(r.Context(), words, theme)
	for _, word := range words {
		session.Selection.RegisterCandidates(word, candidates[word])
		if _, err := session.Pages.RenderPage(word); err != nil {
			slog.Warn("Unable to render first page", "word", word, "error", err)
		}
	}

	id := h.sessionStore.Create(session)
	slog.Info("Created session", "session_id", id, "words", len(words), "cards_per_page", cardsPerPage)

	h.writeJSONStatus(w, http.StatusCreated, session.View())
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r.PathValue("id"))
	if !ok {
		return
	}
	h.writeJSON(w, session.View())
}

func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionStore.Delete(r.PathValue("id")); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			h.writeError(w, "Session not found", http.StatusNotFound)
			return
		}
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleNextPage advances the word to its next page of candidates and
// selects that page's first image.
func (h *Handler) HandleNextPage(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r.PathValue("id"))
	if !ok {
		return
	}
	word := r.PathValue("word")

	if !slices.Contains(session.Words, word) {
		h.writeError(w, "Unknown word: "+word, http.StatusNotFound)
		return
	}
	if session.Pages.MaxPages(word) <= 1 {
		h.writeError(w, "No other page of images for: "+word, http.StatusConflict)
		return
	}

	if _, err := session.Pages.AdvancePage(word); err != nil {
		h.writeError(w, "Unable to change page: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, session.WordView(word))
}

func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r.PathValue("id"))
	if !ok {
		return
	}
	word := r.PathValue("word")

	var req models.SelectionRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	candidates, known := session.Selection.Candidates(word)
	if !known || !slices.Contains(session.Words, word) {
		h.writeError(w, "Unknown word: "+word, http.StatusNotFound)
		return
	}
	if !slices.Contains(candidates, req.URL) {
		h.writeError(w, "Image is not a candidate for: "+word, http.StatusBadRequest)
		return
	}

	session.Selection.SelectImage(word, req.URL)
	h.writeJSON(w, session.WordView(word))
}

func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r.PathValue("id"))
	if !ok {
		return
	}

	missing := session.Selection.ValidateComplete(session.Words)
	resp := models.ValidationResponse{Complete: len(missing) == 0, Missing: missing}
	if len(missing) > 0 {
		resp.Message = (&selection.MissingSelectionError{Words: missing}).Error()
	}
	h.writeJSON(w, resp)
}

// HandlePDF renders the session's selections. The whole document is built
// before anything is written so failures still get a proper status code.
func (h *Handler) HandlePDF(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r.PathValue("id"))
	if !ok {
		return
	}

	choices, err := session.Selection.Choices(session.Words)
	if err != nil {
		var missing *selection.MissingSelectionError
		if errors.As(err, &missing) {
			h.writeError(w, missing.Error(), http.StatusBadRequest)
			return
		}
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	req := document.Request{Theme: session.Theme, Cards: make([]document.Card, 0, len(choices))}
	for _, c := range choices {
		req.Cards = append(req.Cards, document.Card{Word: c.Word, ImageURL: c.ImageURL})
	}

	var buf bytes.Buffer
	if err := h.opts.Assemblers[session.CardsPerPage].Assemble(r.Context(), &buf, req); err != nil {
		if errors.Is(err, document.ErrFontLoad) {
			h.writeError(w, "Impossible de charger les polices: "+err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeError(w, "Failed to generate PDF: "+err.Error(), http.StatusInternalServerError)
		return
	}

	filename := document.Filename(session.Theme)
	slog.Info("Generated PDF", "session_id", session.ID, "filename", filename, "bytes", buf.Len())

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Unable to write PDF", "err", err)
	}
}
