package selection

import (
	"errors"
	"strings"
	"sync"
)

var ErrUnknownWord = errors.New("no candidates registered for word")

// MissingSelectionError lists the words that still have no selected image.
type MissingSelectionError struct {
	Words []string
}

func (e *MissingSelectionError) Error() string {
	return "Veuillez sélectionner une image pour: " + strings.Join(e.Words, ", ")
}

// Choice is the image picked for one word.
type Choice struct {
	Word     string
	ImageURL string
}

// Store owns the candidate lists, page cursors and selections of one
// generation session. Words are case-sensitive keys.
type Store struct {
	mu         sync.RWMutex
	candidates map[string][]string
	cursors    map[string]int
	selected   map[string]string
}

func New() *Store {
	return &Store{
		candidates: make(map[string][]string),
		cursors:    make(map[string]int),
		selected:   make(map[string]string),
	}
}

// RegisterCandidates sets the candidate list of word and rewinds its cursor.
// A prior selection for word is kept.
func (s *Store) RegisterCandidates(word string, urls []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.candidates[word] = append([]string(nil), urls...)
	s.cursors[word] = 0
}

// Candidates returns a copy of the candidate list of word.
func (s *Store) Candidates(word string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	urls, ok := s.candidates[word]
	if !ok {
		return nil, false
	}
	return append([]string(nil), urls...), true
}

func (s *Store) Cursor(word string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursors[word]
}

// MoveCursor runs move on the cursor and candidates of word under the store
// lock. move returns the new cursor and, when not empty, the image that
// becomes the selection. Concurrent moves are applied one after another. It
// returns the resulting cursor and a copy of the candidates.
func (s *Store) MoveCursor(word string, move func(current int, urls []string) (int, string)) (int, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	urls, ok := s.candidates[word]
	if !ok {
		return 0, nil, ErrUnknownWord
	}
	urls = append([]string(nil), urls...)

	next, pick := move(s.cursors[word], urls)
	s.cursors[word] = next
	if pick != "" {
		s.selected[word] = pick
	}
	return next, urls, nil
}

// SelectImage records url as the only selection of word, replacing any
// earlier one.
func (s *Store) SelectImage(word, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected[word] = url
}

func (s *Store) Selection(word string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	url, ok := s.selected[word]
	return url, ok
}

// ValidateComplete returns, in input order, the words without a selection.
func (s *Store) ValidateComplete(words []string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	missing := []string{}
	for _, w := range words {
		if _, ok := s.selected[w]; !ok {
			missing = append(missing, w)
		}
	}
	return missing
}

// Choices pairs every word with its selected image, in input order. It fails
// with a *MissingSelectionError when any word has no selection.
func (s *Store) Choices(words []string) ([]Choice, error) {
	if missing := s.ValidateComplete(words); len(missing) > 0 {
		return nil, &MissingSelectionError{Words: missing}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	choices := make([]Choice, 0, len(words))
	for _, w := range words {
		choices = append(choices, Choice{Word: w, ImageURL: s.selected[w]})
	}
	return choices, nil
}

// Reset forgets every candidate list, cursor and selection.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.candidates = make(map[string][]string)
	s.cursors = make(map[string]int)
	s.selected = make(map[string]string)
}
