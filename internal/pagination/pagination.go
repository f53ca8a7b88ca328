package pagination

import (
	"log/slog"

	"github.com/thomnico/fiches-mots/internal/selection"
)

const DefaultPageSize = 3

// MaxPages returns ceil(n/size), or 0 for an empty list.
func MaxPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Next returns the page after current, wrapping to 0 after the last one.
// With a single page (or none) current is returned unchanged.
func Next(current, maxPages int) int {
	if maxPages <= 1 {
		return current
	}
	return (current + 1) % maxPages
}

// Slice returns list[page*size : page*size+size], clamped to the list bounds.
func Slice(list []string, page, size int) []string {
	if page < 0 || size <= 0 {
		return []string{}
	}
	start := page * size
	if start >= len(list) {
		return []string{}
	}
	end := min(start+size, len(list))
	return append([]string(nil), list[start:end]...)
}

// Page is what the selection screen shows for one word.
type Page struct {
	Word       string   `json:"word"`
	Index      int      `json:"page"`
	MaxPages   int      `json:"maxPages"`
	Images     []string `json:"images"`
	CanAdvance bool     `json:"canAdvance"`
}

// Controller cycles through fixed-size pages of the candidates held by a
// selection store.
type Controller struct {
	store    *selection.Store
	pageSize int
}

func NewController(store *selection.Store, pageSize int) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Controller{store: store, pageSize: pageSize}
}

func (c *Controller) MaxPages(word string) int {
	urls, _ := c.store.Candidates(word)
	return MaxPages(len(urls), c.pageSize)
}

// AdvancePage moves the cursor of word to the next page, wrapping after the
// last one, and selects that page's first image. A word with a single page
// is left untouched.
func (c *Controller) AdvancePage(word string) (Page, error) {
	index, urls, err := c.store.MoveCursor(word, func(current int, urls []string) (int, string) {
		maxPages := MaxPages(len(urls), c.pageSize)
		if maxPages <= 1 {
			return current, ""
		}
		next := Next(current, maxPages)
		return next, Slice(urls, next, c.pageSize)[0]
	})
	if err != nil {
		return Page{}, err
	}

	page := c.view(word, urls, index)
	if page.CanAdvance {
		slog.Debug("Advanced page", "word", word, "page", index, "max_pages", page.MaxPages)
	}
	return page, nil
}

// RenderPage returns the current page of word and selects its first image.
func (c *Controller) RenderPage(word string) (Page, error) {
	index, urls, err := c.store.MoveCursor(word, func(current int, urls []string) (int, string) {
		if images := Slice(urls, current, c.pageSize); len(images) > 0 {
			return current, images[0]
		}
		return current, ""
	})
	if err != nil {
		return Page{}, err
	}
	return c.view(word, urls, index), nil
}

// View returns the current page of word without touching its selection.
func (c *Controller) View(word string) (Page, error) {
	urls, ok := c.store.Candidates(word)
	if !ok {
		return Page{}, selection.ErrUnknownWord
	}
	return c.view(word, urls, c.store.Cursor(word)), nil
}

func (c *Controller) view(word string, urls []string, index int) Page {
	maxPages := MaxPages(len(urls), c.pageSize)
	return Page{
		Word:       word,
		Index:      index,
		MaxPages:   maxPages,
		Images:     Slice(urls, index, c.pageSize),
		CanAdvance: maxPages > 1,
	}
}
