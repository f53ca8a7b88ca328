package document

import (
	"io"
	"time"

	"github.com/thomnico/fiches-mots/internal/layout"
)

// Metadata is written into the document info dictionary.
type Metadata struct {
	Title    string
	Subject  string
	Author   string
	Keywords string
	Creator  string
	Created  time.Time
}

// Canvas is the drawing surface the assembler renders cards onto.
// Coordinates are in points with the origin at the top-left of the page.
type Canvas interface {
	layout.Measurer

	AddPage()
	SetMetadata(m Metadata)
	DrawText(style layout.Style, size, centerX, baseline float64, text string)
	DrawImage(name string, data []byte, r layout.Rect) error
	StrokeRect(r layout.Rect, width float64)
	DashedLine(s layout.Segment, width float64, gray int, dash []float64)
	Output(w io.Writer) error
}
