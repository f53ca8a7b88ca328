package document

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/thomnico/fiches-mots/internal/layout"
)

var fontFamilies = map[layout.Style]string{
	layout.Capital: "capital",
	layout.Script:  "script",
	layout.Cursive: "cursive",
}

// PDFCanvas draws onto an fpdf document. The first page exists as soon as
// the canvas is created.
type PDFCanvas struct {
	pdf *fpdf.Fpdf
}

func NewPDFCanvas(page layout.Page, fonts *Fonts) (*PDFCanvas, error) {
	orientation := "P"
	if page.Landscape() {
		orientation = "L"
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: min(page.Width, page.Height), Ht: max(page.Width, page.Height)},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	for style, family := range fontFamilies {
		pdf.AddUTF8FontFromBytes(family, "", fonts.byStyle(style))
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontLoad, err)
	}

	pdf.AddPage()
	return &PDFCanvas{pdf: pdf}, nil
}

func (c *PDFCanvas) AddPage() {
	c.pdf.AddPage()
}

func (c *PDFCanvas) SetMetadata(m Metadata) {
	c.pdf.SetTitle(m.Title, true)
	c.pdf.SetSubject(m.Subject, true)
	c.pdf.SetAuthor(m.Author, true)
	c.pdf.SetKeywords(m.Keywords, true)
	c.pdf.SetCreator(m.Creator, true)
	if !m.Created.IsZero() {
		c.pdf.SetCreationDate(m.Created)
	}
}

func (c *PDFCanvas) StringWidth(style layout.Style, size float64, text string) float64 {
	c.pdf.SetFont(fontFamilies[style], "", size)
	return c.pdf.GetStringWidth(text)
}

func (c *PDFCanvas) DrawText(style layout.Style, size, centerX, baseline float64, text string) {
	c.pdf.SetFont(fontFamilies[style], "", size)
	c.pdf.SetTextColor(0, 0, 0)
	w := c.pdf.GetStringWidth(text)
	c.pdf.Text(centerX-w/2, baseline, text)
}

// DrawImage embeds JPEG data into r. A failure leaves the document usable.
func (c *PDFCanvas) DrawImage(name string, data []byte, r layout.Rect) error {
	opts := fpdf.ImageOptions{ImageType: "JPG"}
	c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if err := c.pdf.Error(); err != nil {
		c.pdf.ClearError()
		return fmt.Errorf("failed to embed image %s: %w", name, err)
	}
	c.pdf.ImageOptions(name, r.X, r.Y, r.W, r.H, false, opts, 0, "")
	if err := c.pdf.Error(); err != nil {
		c.pdf.ClearError()
		return fmt.Errorf("failed to draw image %s: %w", name, err)
	}
	return nil
}

func (c *PDFCanvas) StrokeRect(r layout.Rect, width float64) {
	c.pdf.SetDrawColor(0, 0, 0)
	c.pdf.SetLineWidth(width)
	c.pdf.Rect(r.X, r.Y, r.W, r.H, "D")
}

func (c *PDFCanvas) DashedLine(s layout.Segment, width float64, gray int, dash []float64) {
	c.pdf.SetDrawColor(gray, gray, gray)
	c.pdf.SetLineWidth(width)
	c.pdf.SetDashPattern(dash, 0)
	c.pdf.Line(s.X1, s.Y1, s.X2, s.Y2)
	c.pdf.SetDashPattern([]float64{}, 0)
	c.pdf.SetDrawColor(0, 0, 0)
}

func (c *PDFCanvas) Output(w io.Writer) error {
	if err := c.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}
