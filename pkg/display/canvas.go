// Package display defines the drawing surface of the analyzer screen.
package display

// Font selects one of the screen fonts.
type Font int

// Fonts.
const (
	FontPrimary Font = iota
	FontSecondary
	FontBigNumbers
)

var fontNames = [...]string{"primary", "secondary", "big-numbers"}

func (f Font) String() string {
	if f >= 0 && int(f) < len(fontNames) {
		return fontNames[f]
	}
	return "unknown"
}

// Canvas is the set of primitives a screen offers.
// Coordinates are in pixels, y of text is the baseline.
type Canvas interface {
	Width() int
	Height() int
	Clear()
	SetFont(Font)
	DrawStr(x, y int, s string)
	DrawLine(x0, y0, x1, y1 int)
}
