package layout

// Coordinates are PDF points with the origin at the top-left corner of the
// page and y growing downwards.

type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Right() float64   { return r.X + r.W }
func (r Rect) Bottom() float64  { return r.Y + r.H }
func (r Rect) CenterX() float64 { return r.X + r.W/2 }
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Inset shrinks r by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// Outset grows r by d on every side.
func (r Rect) Outset(d float64) Rect {
	return r.Inset(-d)
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	const eps = 1e-9
	return o.X >= r.X-eps && o.Y >= r.Y-eps && o.Right() <= r.Right()+eps && o.Bottom() <= r.Bottom()+eps
}

type Segment struct {
	X1, Y1, X2, Y2 float64
}

type Page struct {
	Width, Height float64
}

var (
	A4Portrait  = Page{Width: 595.28, Height: 841.89}
	A4Landscape = Page{Width: 841.89, Height: 595.28}
)

func (p Page) Landscape() bool {
	return p.Width > p.Height
}

// FitImage scales a naturalW x naturalH image to fit inside maxW x maxH while
// keeping its aspect ratio. Exactly one dimension binds. Non-positive inputs
// yield a zero size.
func FitImage(naturalW, naturalH, maxW, maxH float64) (float64, float64) {
	if naturalW <= 0 || naturalH <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}

	aspect := naturalW / naturalH
	if aspect > maxW/maxH {
		return maxW, maxW / aspect
	}
	return maxH * aspect, maxH
}

// PlaceImage fits the image into slot and centers it on both axes.
func PlaceImage(slot Rect, naturalW, naturalH float64) Rect {
	w, h := FitImage(naturalW, naturalH, slot.W, slot.H)
	return Rect{
		X: slot.CenterX() - w/2,
		Y: slot.CenterY() - h/2,
		W: w,
		H: h,
	}
}

// FitFontSize lowers size from max in step decrements until width(size) fits
// within avail or floor is reached.
func FitFontSize(width func(size float64) float64, max, floor, step, avail float64) float64 {
	if step <= 0 {
		step = 1
	}
	size := max
	for size > floor && width(size) > avail {
		size -= step
	}
	if size < floor {
		size = floor
	}
	return size
}
