package layout

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-6

func approx(a, b float64) bool {
	return math.Abs(a-b) < eps
}

// fixedMeasurer pretends every rune is perRune * size wide.
type fixedMeasurer struct {
	perRune float64
}

func (m fixedMeasurer) StringWidth(_ Style, size float64, text string) float64 {
	return float64(len([]rune(text))) * size * m.perRune
}

func TestFitImage(t *testing.T) {
	tests := []struct {
		name               string
		nw, nh, maxW, maxH float64
		expectW, expectH   float64
	}{
		{"wide image binds width", 400, 100, 200, 150, 200, 50},
		{"tall image binds height", 100, 400, 200, 150, 37.5, 150},
		{"same aspect fills slot", 400, 300, 200, 150, 200, 150},
		{"small image is scaled up", 4, 3, 200, 150, 200, 150},
		{"zero height", 100, 0, 200, 150, 0, 0},
		{"negative slot", 100, 100, -1, 150, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitImage(tt.nw, tt.nh, tt.maxW, tt.maxH)
			if !approx(w, tt.expectW) || !approx(h, tt.expectH) {
				t.Errorf("Expected %.2fx%.2f, got %.2fx%.2f", tt.expectW, tt.expectH, w, h)
			}
		})
	}
}

func TestFitImageProperties(t *testing.T) {
	sizes := []float64{1, 3, 17.5, 100, 333, 640, 1024, 4000}
	for _, nw := range sizes {
		for _, nh := range sizes {
			for _, maxW := range []float64{50, 198.45, 300} {
				for _, maxH := range []float64{40, 141.75, 400} {
					w, h := FitImage(nw, nh, maxW, maxH)
					if w > maxW+eps || h > maxH+eps {
						t.Fatalf("FitImage(%v,%v,%v,%v) = %vx%v exceeds slot", nw, nh, maxW, maxH, w, h)
					}
					if math.Abs(w/h-nw/nh) > 1e-9*(nw/nh) {
						t.Fatalf("FitImage(%v,%v,%v,%v) changed aspect ratio: %v vs %v", nw, nh, maxW, maxH, w/h, nw/nh)
					}
					if !approx(w, maxW) && !approx(h, maxH) {
						t.Fatalf("FitImage(%v,%v,%v,%v) = %vx%v binds no dimension", nw, nh, maxW, maxH, w, h)
					}
				}
			}
		}
	}
}

func TestPlaceImageCenters(t *testing.T) {
	slot := Rect{X: 100, Y: 50, W: 200, H: 150}
	r := PlaceImage(slot, 100, 400)

	if !approx(r.CenterX(), slot.CenterX()) || !approx(r.CenterY(), slot.CenterY()) {
		t.Errorf("Expected image centered in slot, got %+v", r)
	}
	if !slot.Contains(r) {
		t.Errorf("Expected %+v inside %+v", r, slot)
	}
}

func TestCardBoxSideBySide(t *testing.T) {
	margin := 56.7
	left, err := CardBox(A4Landscape, 2, 0, margin)
	if err != nil {
		t.Fatal(err)
	}
	right, _ := CardBox(A4Landscape, 2, 1, margin)

	wantW := (A4Landscape.Width - 3*margin) / 2
	if !approx(left.W, wantW) || !approx(right.W, wantW) {
		t.Errorf("Expected card width %.2f, got %.2f / %.2f", wantW, left.W, right.W)
	}
	if !approx(left.X, margin) {
		t.Errorf("Expected left card at margin, got %.2f", left.X)
	}
	if !approx(right.X, 2*margin+wantW) {
		t.Errorf("Expected right card at %.2f, got %.2f", 2*margin+wantW, right.X)
	}
	if !approx(left.H, A4Landscape.Height-2*margin) {
		t.Errorf("Expected full height card, got %.2f", left.H)
	}
}

func TestCardBoxQuadrants(t *testing.T) {
	expected := []struct{ x, y float64 }{
		{0, 0},
		{A4Portrait.Width / 2, 0},
		{0, A4Portrait.Height / 2},
		{A4Portrait.Width / 2, A4Portrait.Height / 2},
	}
	for i, want := range expected {
		box, err := CardBox(A4Portrait, 4, i, 0)
		if err != nil {
			t.Fatal(err)
		}
		if !approx(box.X, want.x) || !approx(box.Y, want.y) {
			t.Errorf("Card %d: expected origin (%.2f, %.2f), got (%.2f, %.2f)", i, want.x, want.y, box.X, box.Y)
		}
		if !approx(box.W, A4Portrait.Width/2) || !approx(box.H, A4Portrait.Height/2) {
			t.Errorf("Card %d: expected quarter page, got %+v", i, box)
		}
	}
}

func TestCardBoxErrors(t *testing.T) {
	if _, err := CardBox(A4Portrait, 4, 4, 0); err == nil {
		t.Error("Expected error for index out of range")
	}
	if _, err := CardBox(A4Portrait, 3, 0, 0); !errors.Is(err, ErrUnsupportedLayout) {
		t.Errorf("Expected ErrUnsupportedLayout, got %v", err)
	}
	if _, err := New(6, DefaultOptions()); !errors.Is(err, ErrUnsupportedLayout) {
		t.Errorf("Expected ErrUnsupportedLayout, got %v", err)
	}
}

func TestSideBySideBaselines(t *testing.T) {
	e, err := New(2, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	card, err := e.Layout(1, "chat", nil)
	if err != nil {
		t.Fatal(err)
	}

	o := DefaultOptions()
	capital := o.Margin + o.ImageMaxHeight + o.Spacing
	want := []float64{capital, capital + 40, capital + 110}
	for i, line := range card.Lines {
		if !approx(line.Baseline, want[i]) {
			t.Errorf("Line %d: expected baseline %.2f, got %.2f", i, want[i], line.Baseline)
		}
		if !approx(line.CenterX, card.Box.CenterX()) {
			t.Errorf("Line %d: expected centered text", i)
		}
	}
	if card.Lines[Capital].Size != 32 || card.Lines[Script].Size != 36 || card.Lines[Cursive].Size != 64 {
		t.Errorf("Unexpected font sizes %+v", card.Lines)
	}
	if !card.Box.Contains(card.ImageSlot) {
		t.Errorf("Expected image slot %+v inside card %+v", card.ImageSlot, card.Box)
	}
	if card.ImageSlot.W > o.ImageMaxWidth+eps {
		t.Errorf("Expected slot width capped at %.2f, got %.2f", o.ImageMaxWidth, card.ImageSlot.W)
	}
}

func TestSideBySideFontShrink(t *testing.T) {
	o := DefaultOptions()
	e, _ := New(2, o)
	m := fixedMeasurer{perRune: 0.6}

	short, _ := e.Layout(0, "chat", m)
	for i, line := range short.Lines {
		if line.Size != o.FontSizes[i] {
			t.Errorf("Expected short word at max size %.0f, got %.0f", o.FontSizes[i], line.Size)
		}
	}

	long, _ := e.Layout(0, "anticonstitutionnellement", m)
	avail := long.Box.W - 2*o.TextSafety
	for _, line := range long.Lines {
		if line.Size >= o.FontSizes[line.Style] {
			t.Errorf("Expected %s line to shrink, got %.0f", line.Style, line.Size)
		}
		if w := m.StringWidth(line.Style, line.Size, line.Text); w > long.Box.W {
			t.Errorf("Expected %s line within card width %.2f, got %.2f", line.Style, long.Box.W, w)
		}
		if m.StringWidth(line.Style, line.Size, line.Text) > avail && line.Size != o.MinFontSize {
			t.Errorf("Expected %s line to fit or hit the floor, got %.0f", line.Style, line.Size)
		}
	}
	for i := range long.Lines {
		if long.Lines[i].Baseline != short.Lines[i].Baseline {
			t.Errorf("Line %d moved when shrinking", i)
		}
	}
}

func TestBaselinesIndependentOfWord(t *testing.T) {
	e, _ := New(2, DefaultOptions())
	a, _ := e.Layout(0, "chat", nil)
	b, _ := e.Layout(0, "hippopotame", nil)
	for i := range a.Lines {
		if a.Lines[i].Baseline != b.Lines[i].Baseline {
			t.Errorf("Line %d moved with word length", i)
		}
	}
}

func TestQuadrantLayout(t *testing.T) {
	e, err := New(4, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	m := fixedMeasurer{perRune: 0.6}

	for i := 0; i < 4; i++ {
		card, err := e.Layout(i, "chat", m)
		if err != nil {
			t.Fatal(err)
		}
		if len(card.Frames) != 2 {
			t.Fatalf("Expected image and text frames, got %d", len(card.Frames))
		}
		imageBox, textBox := card.Frames[0], card.Frames[1]
		if !card.Box.Contains(imageBox) || !card.Box.Contains(textBox) {
			t.Errorf("Card %d: frames escape the quadrant", i)
		}
		if !approx(imageBox.Bottom(), textBox.Y) || !approx(imageBox.H, textBox.H) {
			t.Errorf("Card %d: expected image box on the upper half, got %+v / %+v", i, imageBox, textBox)
		}
		if !imageBox.Contains(card.ImageSlot) {
			t.Errorf("Card %d: image slot escapes its frame", i)
		}

		prev := textBox.Y
		for _, line := range card.Lines {
			if line.Baseline <= prev || line.Baseline >= textBox.Bottom() {
				t.Errorf("Card %d: baseline %.2f out of order or outside text box", i, line.Baseline)
			}
			prev = line.Baseline
		}
	}
}

func TestQuadrantFontShrink(t *testing.T) {
	o := DefaultOptions()
	e, _ := New(4, o)
	m := fixedMeasurer{perRune: 0.6}

	short, _ := e.Layout(0, "chat", m)
	for i, line := range short.Lines {
		if line.Size != o.QuadFontSizes[i] {
			t.Errorf("Expected short word at max size %.0f, got %.0f", o.QuadFontSizes[i], line.Size)
		}
	}

	long, _ := e.Layout(0, "anticonstitutionnellement", m)
	avail := long.Frames[1].W - 2*o.TextSafety
	for _, line := range long.Lines {
		if line.Size >= o.QuadFontSizes[line.Style] {
			t.Errorf("Expected %s line to shrink, got %.0f", line.Style, line.Size)
		}
		if m.StringWidth(line.Style, line.Size, line.Text) > avail && line.Size != o.MinFontSize {
			t.Errorf("Expected %s line to fit or hit the floor, got %.0f", line.Style, line.Size)
		}
	}

	huge, _ := e.Layout(0, "anticonstitutionnellementanticonstitutionnellement", fixedMeasurer{perRune: 5})
	for _, line := range huge.Lines {
		if line.Size != o.MinFontSize {
			t.Errorf("Expected floor size %.0f, got %.0f", o.MinFontSize, line.Size)
		}
	}
}

func TestFitFontSize(t *testing.T) {
	width := func(size float64) float64 { return size * 10 }
	tests := []struct {
		name     string
		avail    float64
		expected float64
	}{
		{"fits at max", 500, 40},
		{"shrinks in steps", 350, 34},
		{"stops at floor", 10, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FitFontSize(width, 40, 12, 2, tt.avail); got != tt.expected {
				t.Errorf("Expected %.0f, got %.0f", tt.expected, got)
			}
		})
	}
}

func TestSeparators(t *testing.T) {
	two, _ := New(2, DefaultOptions())
	if got := len(two.Separators(1)); got != 0 {
		t.Errorf("Expected no separator for a lone card, got %d", got)
	}
	segs := two.Separators(2)
	if len(segs) != 1 || !approx(segs[0].X1, A4Landscape.Width/2) {
		t.Errorf("Expected one vertical separator at mid page, got %+v", segs)
	}

	four, _ := New(4, DefaultOptions())
	for n, want := range map[int]int{1: 0, 2: 1, 3: 2, 4: 2} {
		if got := len(four.Separators(n)); got != want {
			t.Errorf("%d cards: expected %d separators, got %d", n, want, got)
		}
	}
}

func TestLines(t *testing.T) {
	tests := []struct {
		word     string
		expected [3]string
	}{
		{"chat", [3]string{"CHAT", "chat", "chat"}},
		{"Écureuil", [3]string{"ÉCUREUIL", "écureuil", "écureuil"}},
		{"œuf", [3]string{"ŒUF", "œuf", "oeuf"}},
		{"Œil", [3]string{"ŒIL", "œil", "oeil"}},
		{"pomme de pin", [3]string{"POMME DE PIN", "pomme de pin", "pomme de pin"}},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := Lines(tt.word); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}
