package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/thomnico/fiches-mots/internal/images"
	"github.com/thomnico/fiches-mots/internal/layout"
)

var ErrNoCards = errors.New("no cards to render")

const (
	defaultTitle    = "Fiches Pédagogiques - Maternelle"
	defaultAuthor   = "Générateur Fiches-Mots"
	defaultKeywords = "éducation, maternelle, dyslexie, accessibilité"
	defaultCreator  = "FichesMots"
)

// Card is one word and the image chosen for it.
type Card struct {
	Word     string
	ImageURL string
}

type Request struct {
	Theme string
	Cards []Card
}

// ImageLoader returns embeddable JPEG data for an image URL.
type ImageLoader interface {
	Load(ctx context.Context, url string) (*images.Picture, error)
}

// CanvasFactory creates a fresh canvas with its first page.
type CanvasFactory func(page layout.Page, fonts *Fonts) (Canvas, error)

// Assembler renders card batches into a document.
type Assembler struct {
	engine     *layout.Engine
	loader     ImageLoader
	fonts      FontSources
	httpClient *http.Client
	newCanvas  CanvasFactory
	now        func() time.Time
}

func NewAssembler(engine *layout.Engine, loader ImageLoader, fonts FontSources) *Assembler {
	return &Assembler{
		engine:     engine,
		loader:     loader,
		fonts:      fonts,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		newCanvas: func(page layout.Page, f *Fonts) (Canvas, error) {
			return NewPDFCanvas(page, f)
		},
		now: time.Now,
	}
}

// WithCanvas swaps the drawing surface, mostly for tests.
func (a *Assembler) WithCanvas(f CanvasFactory) *Assembler {
	a.newCanvas = f
	return a
}

// Assemble renders req and writes the document to w. Cards are drawn in
// order, cardsPerPage per page. Font errors abort; image errors only leave
// the card without a picture.
func (a *Assembler) Assemble(ctx context.Context, w io.Writer, req Request) error {
	if len(req.Cards) == 0 {
		return ErrNoCards
	}

	fonts, err := LoadFonts(ctx, a.httpClient, a.fonts)
	if err != nil {
		return err
	}

	canvas, err := a.newCanvas(a.engine.Page(), fonts)
	if err != nil {
		return err
	}
	canvas.SetMetadata(a.metadata(req.Theme))

	perPage := a.engine.CardsPerPage()
	for start := 0; start < len(req.Cards); start += perPage {
		if start > 0 {
			canvas.AddPage()
		}
		batch := req.Cards[start:min(start+perPage, len(req.Cards))]
		for i, card := range batch {
			if err := a.drawCard(ctx, canvas, start+i, i, card); err != nil {
				return err
			}
		}
		a.drawSeparators(canvas, len(batch))
	}

	slog.Info("Assembled document", "theme", req.Theme, "cards", len(req.Cards), "cards_per_page", perPage)
	return canvas.Output(w)
}

func (a *Assembler) drawCard(ctx context.Context, canvas Canvas, n, index int, card Card) error {
	c, err := a.engine.Layout(index, card.Word, canvas)
	if err != nil {
		return fmt.Errorf("failed to lay out %q: %w", card.Word, err)
	}
	opts := a.engine.Options()

	if card.ImageURL != "" && a.loader != nil {
		a.drawImage(ctx, canvas, n, card, c.ImageSlot, opts)
	}

	for _, frame := range c.Frames {
		canvas.StrokeRect(frame, opts.SubFrameWidth)
	}
	for _, line := range c.Lines {
		canvas.DrawText(line.Style, line.Size, line.CenterX, line.Baseline, line.Text)
	}
	return nil
}

func (a *Assembler) drawImage(ctx context.Context, canvas Canvas, n int, card Card, slot layout.Rect, opts layout.Options) {
	pic, err := a.loader.Load(ctx, card.ImageURL)
	if err != nil {
		slog.Warn("Unable to load image, card rendered without it", "word", card.Word, "url", card.ImageURL, "error", err)
		return
	}

	r := layout.PlaceImage(slot, float64(pic.Width), float64(pic.Height))
	if err := canvas.DrawImage(fmt.Sprintf("card-%d", n), pic.Data, r); err != nil {
		slog.Warn("Unable to draw image", "word", card.Word, "error", err)
		return
	}
	canvas.StrokeRect(r.Outset(opts.FrameOffset), opts.FrameWidth)
}

func (a *Assembler) drawSeparators(canvas Canvas, n int) {
	opts := a.engine.Options()
	for _, seg := range a.engine.Separators(n) {
		canvas.DashedLine(seg, opts.SeparatorWidth, opts.SeparatorGray, opts.SeparatorDash)
	}
}

func (a *Assembler) metadata(theme string) Metadata {
	label := strings.TrimSpace(theme)
	if label == "" {
		label = "général"
	}
	return Metadata{
		Title:    defaultTitle,
		Subject:  "Fiches éducatives - Thème: " + label,
		Author:   defaultAuthor,
		Keywords: defaultKeywords,
		Creator:  defaultCreator,
		Created:  a.now(),
	}
}

// Filename returns the download name for a document about theme.
func Filename(theme string) string {
	if s := slug.Make(strings.TrimSpace(theme)); s != "" {
		return "fiches_" + s + ".pdf"
	}
	return "fiches_maternelle.pdf"
}
