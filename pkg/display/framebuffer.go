package display

import (
	"bufio"
	"image/color"
	"io"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinydraw"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"
)

// Default screen size.
const (
	DefaultWidth  = 128
	DefaultHeight = 128
)

var (
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// fonts lists the faces for each Font, largest first. DrawStr steps down
// the list until the text fits between x and the right edge.
var fonts = map[Font][]tinyfont.Fonter{
	FontPrimary:    {&proggy.TinySZ8pt7b},
	FontSecondary:  {&tinyfont.Picopixel},
	FontBigNumbers: {&freemono.Bold12pt7b, &freemono.Bold9pt7b, &proggy.TinySZ8pt7b},
}

var _ drivers.Displayer = (*Framebuffer)(nil)

// Framebuffer is a monochrome pixel buffer. It is a Canvas drawing with
// tinyfont and tinydraw, and a drivers.Displayer flushing to Out as
// half-block characters, two pixel rows per text line.
type Framebuffer struct {
	Out io.Writer

	w, h   int
	pixels []bool
	font   []tinyfont.Fonter
}

// NewFramebuffer creates a w×h framebuffer flushing to out.
func NewFramebuffer(w, h int, out io.Writer) *Framebuffer {
	return &Framebuffer{
		Out:    out,
		w:      w,
		h:      h,
		pixels: make([]bool, w*h),
		font:   fonts[FontPrimary],
	}
}

// Width implements Canvas.
func (b *Framebuffer) Width() int { return b.w }

// Height implements Canvas.
func (b *Framebuffer) Height() int { return b.h }

// Size implements drivers.Displayer.
func (b *Framebuffer) Size() (x, y int16) {
	return int16(b.w), int16(b.h)
}

// SetPixel implements drivers.Displayer. Any lit color sets the pixel,
// points outside the buffer are ignored.
func (b *Framebuffer) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || int(x) >= b.w || int(y) >= b.h {
		return
	}
	b.pixels[int(y)*b.w+int(x)] = c.R|c.G|c.B != 0
}

// Pixel reports whether the pixel is lit.
func (b *Framebuffer) Pixel(x, y int) bool {
	if x < 0 || y < 0 || x >= b.w || y >= b.h {
		return false
	}
	return b.pixels[y*b.w+x]
}

// Clear implements Canvas.
func (b *Framebuffer) Clear() {
	for i := range b.pixels {
		b.pixels[i] = false
	}
}

// SetFont implements Canvas.
func (b *Framebuffer) SetFont(f Font) {
	if font, ok := fonts[f]; ok {
		b.font = font
	}
}

// DrawStr implements Canvas.
func (b *Framebuffer) DrawStr(x, y int, s string) {
	tinyfont.WriteLine(b, b.fontFor(x, s), int16(x), int16(y), s, white)
}

func (b *Framebuffer) fontFor(x int, s string) tinyfont.Fonter {
	for _, f := range b.font[:len(b.font)-1] {
		if _, w := tinyfont.LineWidth(f, s); x+int(w) <= b.w {
			return f
		}
	}
	return b.font[len(b.font)-1]
}

// DrawLine implements Canvas.
func (b *Framebuffer) DrawLine(x0, y0, x1, y1 int) {
	tinydraw.Line(b, int16(x0), int16(y0), int16(x1), int16(y1), white)
}

var halfBlocks = [4]string{" ", "▀", "▄", "█"}

// Display implements drivers.Displayer.
func (b *Framebuffer) Display() error {
	if b.Out == nil {
		return nil
	}
	w := bufio.NewWriter(b.Out)
	// home the cursor so frames overwrite each other
	w.WriteString("\x1b[H")
	for y := 0; y < b.h; y += 2 {
		for x := 0; x < b.w; x++ {
			var n int
			if b.Pixel(x, y) {
				n |= 1
			}
			if b.Pixel(x, y+1) {
				n |= 2
			}
			w.WriteString(halfBlocks[n])
		}
		w.WriteString("\r\n")
	}
	return w.Flush()
}

// Close clears the terminal area used by Display.
func (b *Framebuffer) Close() error {
	if b.Out == nil {
		return nil
	}
	_, err := io.WriteString(b.Out, "\x1b[H\x1b[2J")
	return err
}
