package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/thomnico/fiches-mots/internal/document"
	"github.com/thomnico/fiches-mots/internal/models"
	"github.com/thomnico/fiches-mots/internal/storage"
	"github.com/thomnico/fiches-mots/internal/wordgen"
)

// ImageSearcher finds candidate images for words
type ImageSearcher interface {
	SearchImages(ctx context.Context, word, theme string) []string
	SearchAll(ctx context.Context, words []string, theme string) map[string][]string
}

// DocumentAssembler renders a set of cards into a PDF
type DocumentAssembler interface {
	Assemble(ctx context.Context, w io.Writer, req document.Request) error
}

// Options wires the handler to its collaborators. Assemblers is keyed by
// cards per page.
type Options struct {
	Images              ImageSearcher
	Words               wordgen.Generator
	Assemblers          map[int]DocumentAssembler
	DefaultCardsPerPage int
	PageSize            int
	StaticDir           string
}

type Handler struct {
	sessionStore *storage.SessionStore
	opts         Options
}

func New(opts Options) *Handler {
	if opts.DefaultCardsPerPage == 0 {
		opts.DefaultCardsPerPage = 2
	}
	if opts.StaticDir == "" {
		opts.StaticDir = "static"
	}
	return &Handler{
		sessionStore: storage.New(),
		opts:         opts,
	}
}

// Register adds every route to mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/sessions", h.HandleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", h.HandleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", h.HandleDeleteSession)
	mux.HandleFunc("POST /api/sessions/{id}/words/{word}/next-page", h.HandleNextPage)
	mux.HandleFunc("PUT /api/sessions/{id}/words/{word}/selection", h.HandleSelect)
	mux.HandleFunc("GET /api/sessions/{id}/validate", h.HandleValidate)
	mux.HandleFunc("POST /api/sessions/{id}/pdf", h.HandlePDF)
	mux.HandleFunc("POST /api/words", h.HandleGenerateWords)
	mux.HandleFunc("GET /api/images/search", h.HandleImageSearch)
	mux.HandleFunc("GET /healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	mux.HandleFunc("/", h.HandleStatic)
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message, "code", code)
	} else {
		slog.Warn(message, "code", code)
	}
	http.Error(w, message, code)
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, sessionID string) (*models.Session, bool) {
	session, exists := h.sessionStore.Get(sessionID)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
