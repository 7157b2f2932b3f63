package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.Clear()
	r.SetFont(FontBigNumbers)
	r.DrawStr(20, 60, "1.650 V")
	r.DrawLine(0, 12, 127, 12)
	require.Equal(t, []Op{
		{Kind: OpClear},
		{Kind: OpSetFont, Font: FontBigNumbers},
		{Kind: OpDrawStr, X: 20, Y: 60, Text: "1.650 V"},
		{Kind: OpDrawLine, X: 0, Y: 12, X1: 127, Y1: 12},
	}, r.Ops)
	require.Equal(t, []string{"1.650 V"}, r.Texts())
	require.Equal(t, `str 20,60 "1.650 V"`, r.Ops[2].String())
	r.Reset()
	require.Empty(t, r.Ops)
}

func TestFramebufferLine(t *testing.T) {
	fb := NewFramebuffer(DefaultWidth, DefaultHeight, nil)
	fb.DrawLine(0, 12, fb.Width()-1, 12)
	for x := 0; x < fb.Width(); x++ {
		require.True(t, fb.Pixel(x, 12), "x=%d", x)
		require.False(t, fb.Pixel(x, 11), "x=%d", x)
	}
	fb.Clear()
	require.False(t, fb.Pixel(5, 12))
}

func TestFramebufferText(t *testing.T) {
	testCases := []struct {
		name string
		font Font
	}{
		{"primary", FontPrimary},
		{"secondary", FontSecondary},
		{"big numbers", FontBigNumbers},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fb := NewFramebuffer(DefaultWidth, DefaultHeight, nil)
			fb.SetFont(tc.font)
			fb.DrawStr(2, 30, "8")
			lit := 0
			for y := 0; y < fb.Height(); y++ {
				for x := 0; x < fb.Width(); x++ {
					if fb.Pixel(x, y) {
						lit++
						require.True(t, y <= 30+4, "pixel below baseline at %d,%d", x, y)
					}
				}
			}
			require.True(t, lit > 0)
		})
	}
}

func TestFramebufferBigNumbersFitWidth(t *testing.T) {
	testCases := []struct {
		name string
		x    int
		text string
		font tinyfont.Fonter
	}{
		{"voltage", 20, "3.300 V", &freemono.Bold12pt7b},
		{"kilo ohms", 10, "4.70 kOhm", &freemono.Bold9pt7b},
		{"open circuit", 10, "10000.00 kOhm", fonts[FontPrimary][0]},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fb := NewFramebuffer(DefaultWidth, DefaultHeight, nil)
			fb.SetFont(FontBigNumbers)
			f := fb.fontFor(tc.x, tc.text)
			require.Equal(t, tc.font, f)
			_, w := tinyfont.LineWidth(f, tc.text)
			require.LessOrEqual(t, tc.x+int(w), fb.Width())

			// nothing lost to clipping
			fb.DrawStr(tc.x, 60, tc.text)
			wide := NewFramebuffer(4*DefaultWidth, DefaultHeight, nil)
			tinyfont.WriteLine(wide, f, int16(tc.x), 60, tc.text, white)
			require.Equal(t, litPixels(wide), litPixels(fb))
		})
	}
}

func litPixels(fb *Framebuffer) int {
	n := 0
	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			if fb.Pixel(x, y) {
				n++
			}
		}
	}
	return n
}

func TestFramebufferClipping(t *testing.T) {
	fb := NewFramebuffer(4, 4, nil)
	fb.SetPixel(-1, 0, white)
	fb.SetPixel(4, 0, white)
	fb.SetPixel(0, 4, white)
	require.False(t, fb.Pixel(-1, 0))
	require.False(t, fb.Pixel(4, 0))
	fb.DrawLine(-10, 1, 10, 1)
	for x := 0; x < 4; x++ {
		require.True(t, fb.Pixel(x, 1))
	}
}

func TestFramebufferDisplay(t *testing.T) {
	var out bytes.Buffer
	fb := NewFramebuffer(3, 4, &out)
	fb.SetPixel(0, 0, white)
	fb.SetPixel(1, 1, white)
	fb.SetPixel(2, 0, white)
	fb.SetPixel(2, 1, white)
	require.NoError(t, fb.Display())
	lines := strings.Split(strings.TrimPrefix(out.String(), "\x1b[H"), "\r\n")
	require.Equal(t, []string{"▀▄█", "   ", ""}, lines)

	out.Reset()
	require.NoError(t, fb.Close())
	require.Equal(t, "\x1b[H\x1b[2J", out.String())
}
