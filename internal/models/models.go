package models

import (
	"time"

	"github.com/thomnico/fiches-mots/internal/pagination"
	"github.com/thomnico/fiches-mots/internal/selection"
)

// Session is one generation workflow: the words being illustrated and the
// state of their image selection
type Session struct {
	ID           string    `json:"id"`
	Theme        string    `json:"theme"`
	Words        []string  `json:"words"`
	CardsPerPage int       `json:"cardsPerPage"`
	CreatedAt    time.Time `json:"created_at"`

	Selection *selection.Store       `json:"-"`
	Pages     *pagination.Controller `json:"-"`
}

// NewSession creates a session with an empty selection store
func NewSession(theme string, words []string, cardsPerPage, pageSize int) *Session {
	store := selection.New()
	return &Session{
		Theme:        theme,
		Words:        words,
		CardsPerPage: cardsPerPage,
		CreatedAt:    time.Now(),
		Selection:    store,
		Pages:        pagination.NewController(store, pageSize),
	}
}

// View is the snapshot returned to the selection screen
func (s *Session) View() SessionView {
	view := SessionView{
		ID:           s.ID,
		Theme:        s.Theme,
		CardsPerPage: s.CardsPerPage,
		CreatedAt:    s.CreatedAt,
		Words:        make([]WordView, 0, len(s.Words)),
		Missing:      s.Selection.ValidateComplete(s.Words),
	}
	for _, w := range s.Words {
		view.Words = append(view.Words, s.WordView(w))
	}
	return view
}

func (s *Session) WordView(word string) WordView {
	page, _ := s.Pages.View(word)
	page.Word = word
	if page.Images == nil {
		page.Images = []string{}
	}
	selected, _ := s.Selection.Selection(word)
	return WordView{Page: page, Selected: selected}
}

type SessionView struct {
	ID           string     `json:"id"`
	Theme        string     `json:"theme"`
	CardsPerPage int        `json:"cardsPerPage"`
	CreatedAt    time.Time  `json:"created_at"`
	Words        []WordView `json:"words"`
	Missing      []string   `json:"missing"`
}

// WordView is the current page of one word plus its selected image
type WordView struct {
	pagination.Page
	Selected string `json:"selected,omitempty"`
}

type CreateSessionRequest struct {
	Theme        string   `json:"theme"`
	Words        []string `json:"words"`
	CardsPerPage int      `json:"cardsPerPage,omitempty"`
}

type SelectionRequest struct {
	URL string `json:"url"`
}

type ValidationResponse struct {
	Complete bool     `json:"complete"`
	Missing  []string `json:"missing"`
	Message  string   `json:"message,omitempty"`
}

type ImageSearchResponse struct {
	Word   string   `json:"word"`
	Theme  string   `json:"theme,omitempty"`
	Images []string `json:"images"`
}
