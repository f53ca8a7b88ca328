package layout

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrUnsupportedLayout = errors.New("unsupported cards per page")

// Style selects one of the three typefaces.
type Style int

const (
	Capital Style = iota
	Script
	Cursive
)

func (s Style) String() string {
	switch s {
	case Capital:
		return "capital"
	case Script:
		return "script"
	case Cursive:
		return "cursive"
	}
	return fmt.Sprintf("style(%d)", int(s))
}

// Measurer returns the rendered width of text in the given style and size.
type Measurer interface {
	StringWidth(style Style, size float64, text string) float64
}

type TextLine struct {
	Style    Style
	Text     string
	Size     float64
	CenterX  float64
	Baseline float64
}

// Card is the derived geometry of one word on a page.
type Card struct {
	Index     int
	Box       Rect
	ImageSlot Rect
	// Frames are the sub-box borders drawn regardless of the image.
	Frames []Rect
	Lines  []TextLine
}

// Options carries the layout constants. Sizes are in points.
type Options struct {
	Margin         float64
	ImageMaxWidth  float64
	ImageMaxHeight float64
	Spacing        float64
	ScriptOffset   float64
	CursiveOffset  float64
	FontSizes      [3]float64

	FrameOffset float64
	FrameWidth  float64

	QuadPadding    float64
	QuadFontSizes  [3]float64
	SubFrameWidth  float64
	TextBandRatio  float64
	BaselineRatio  float64
	MinFontSize    float64
	FontStep       float64
	TextSafety     float64
	SeparatorGray  int
	SeparatorWidth float64
	SeparatorDash  []float64
}

func DefaultOptions() Options {
	return Options{
		Margin:         56.7,
		ImageMaxWidth:  198.45,
		ImageMaxHeight: 141.75,
		Spacing:        56.7,
		ScriptOffset:   40,
		CursiveOffset:  70,
		FontSizes:      [3]float64{32, 36, 64},

		FrameOffset: 5.67,
		FrameWidth:  2,

		QuadPadding:    14.17,
		QuadFontSizes:  [3]float64{28, 28, 40},
		SubFrameWidth:  1,
		TextBandRatio:  0.7,
		BaselineRatio:  0.75,
		MinFontSize:    12,
		FontStep:       2,
		TextSafety:     10,
		SeparatorGray:  200,
		SeparatorWidth: 1,
		SeparatorDash:  []float64{5, 3},
	}
}

// Engine computes card geometry for a fixed number of cards per page.
// 2 cards sit side by side on a landscape page, 4 cards fill the quadrants of
// a portrait page.
type Engine struct {
	opts         Options
	cardsPerPage int
	page         Page
}

func New(cardsPerPage int, opts Options) (*Engine, error) {
	var page Page
	switch cardsPerPage {
	case 2:
		page = A4Landscape
	case 4:
		page = A4Portrait
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedLayout, cardsPerPage)
	}
	return &Engine{opts: opts, cardsPerPage: cardsPerPage, page: page}, nil
}

func (e *Engine) Page() Page        { return e.page }
func (e *Engine) CardsPerPage() int { return e.cardsPerPage }
func (e *Engine) Options() Options  { return e.opts }

// CardBox returns the bounding box of the card at index on a page of the
// given size.
func CardBox(page Page, cardsPerPage, index int, margin float64) (Rect, error) {
	if index < 0 || index >= cardsPerPage {
		return Rect{}, fmt.Errorf("card index %d out of range for %d cards per page", index, cardsPerPage)
	}

	switch cardsPerPage {
	case 2:
		w := (page.Width - 3*margin) / 2
		x := margin
		if index == 1 {
			x = 2*margin + w
		}
		return Rect{X: x, Y: margin, W: w, H: page.Height - 2*margin}, nil
	case 4:
		w, h := page.Width/2, page.Height/2
		return Rect{X: float64(index%2) * w, Y: float64(index/2) * h, W: w, H: h}, nil
	}
	return Rect{}, fmt.Errorf("%w: %d", ErrUnsupportedLayout, cardsPerPage)
}

// Layout computes the card at position index for word. m shrinks text that
// would overflow the card; with a nil m every line keeps its nominal size.
func (e *Engine) Layout(index int, word string, m Measurer) (Card, error) {
	box, err := CardBox(e.page, e.cardsPerPage, index, e.opts.Margin)
	if err != nil {
		return Card{}, err
	}

	if e.cardsPerPage == 2 {
		return e.sideBySide(index, box, word, m), nil
	}
	return e.quadrant(index, box, word, m), nil
}

// fit shrinks the nominal size of a line until text fits avail.
func (e *Engine) fit(m Measurer, style Style, size float64, text string, avail float64) float64 {
	if m == nil {
		return size
	}
	return FitFontSize(func(s float64) float64 {
		return m.StringWidth(style, s, text)
	}, size, e.opts.MinFontSize, e.opts.FontStep, avail)
}

func (e *Engine) sideBySide(index int, box Rect, word string, m Measurer) Card {
	o := e.opts
	slotW := min(box.W, o.ImageMaxWidth)
	slot := Rect{X: box.CenterX() - slotW/2, Y: box.Y, W: slotW, H: o.ImageMaxHeight}

	// Baselines hang off the slot, never off the drawn image.
	capital := slot.Bottom() + o.Spacing
	baselines := [3]float64{capital, capital + o.ScriptOffset, capital + o.ScriptOffset + o.CursiveOffset}
	avail := box.W - 2*o.TextSafety

	texts := Lines(word)
	lines := make([]TextLine, 0, 3)
	for _, style := range []Style{Capital, Script, Cursive} {
		lines = append(lines, TextLine{
			Style:    style,
			Text:     texts[style],
			Size:     e.fit(m, style, o.FontSizes[style], texts[style], avail),
			CenterX:  box.CenterX(),
			Baseline: baselines[style],
		})
	}
	return Card{
		Index:     index,
		Box:       box,
		ImageSlot: slot,
		Lines:     lines,
	}
}

func (e *Engine) quadrant(index int, box Rect, word string, m Measurer) Card {
	o := e.opts
	inner := box.Inset(o.QuadPadding)
	imageBox := Rect{X: inner.X, Y: inner.Y, W: inner.W, H: inner.H / 2}
	textBox := Rect{X: inner.X, Y: inner.Y + inner.H/2, W: inner.W, H: inner.H / 2}

	band := textBox.H * o.TextBandRatio
	bandTop := textBox.Y + (textBox.H-band)/2
	third := band / 3
	avail := textBox.W - 2*o.TextSafety

	texts := Lines(word)
	lines := make([]TextLine, 0, 3)
	for _, style := range []Style{Capital, Script, Cursive} {
		lines = append(lines, TextLine{
			Style:    style,
			Text:     texts[style],
			Size:     e.fit(m, style, o.QuadFontSizes[style], texts[style], avail),
			CenterX:  textBox.CenterX(),
			Baseline: bandTop + third*float64(style) + third*o.BaselineRatio,
		})
	}

	return Card{
		Index:     index,
		Box:       box,
		ImageSlot: imageBox.Inset(2 * o.FrameOffset),
		Frames:    []Rect{imageBox, textBox},
		Lines:     lines,
	}
}

// Separators returns the guide lines drawn on a page holding n cards.
func (e *Engine) Separators(n int) []Segment {
	p := e.page
	var segs []Segment

	switch e.cardsPerPage {
	case 2:
		if n == 2 {
			segs = append(segs, Segment{X1: p.Width / 2, Y1: e.opts.Margin, X2: p.Width / 2, Y2: p.Height - e.opts.Margin})
		}
	case 4:
		pad := e.opts.QuadPadding
		if n > 1 {
			segs = append(segs, Segment{X1: p.Width / 2, Y1: pad, X2: p.Width / 2, Y2: p.Height - pad})
		}
		if n > 2 {
			segs = append(segs, Segment{X1: pad, Y1: p.Height / 2, X2: p.Width - pad, Y2: p.Height / 2})
		}
	}
	return segs
}

// Lines returns the capital, script and cursive renditions of word. The
// cursive face has no œ glyph, so that line spells it "oe".
func Lines(word string) [3]string {
	lw := cases.Lower(language.French).String(word)
	return [3]string{
		Capital: cases.Upper(language.French).String(word),
		Script:  lw,
		Cursive: strings.NewReplacer("œ", "oe", "Œ", "oe").Replace(lw),
	}
}
