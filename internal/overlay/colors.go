package overlay

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette is the parsed colour set of a variant.
type Palette struct {
	Accent     colorful.Color
	Background colorful.Color
	Text       colorful.Color
}

func NewPalette(accent, background, text string) Palette {
	return Palette{
		Accent:     parseHex(accent, colorful.Color{R: 0.67, G: 0.54, B: 0.3}),
		Background: parseHex(background, colorful.Color{}),
		Text:       parseHex(text, colorful.Color{R: 1, G: 1, B: 1}),
	}
}

func parseHex(s string, fallback colorful.Color) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return fallback
	}
	return c
}

// withAlpha converts c to a non-premultiplied colour with alpha a in [0,1].
func withAlpha(c colorful.Color, a float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	a = max(0, min(a, 1))
	return color.NRGBA{R: r, G: g, B: b, A: uint8(a*255 + 0.5)}
}

// Opaque returns c as a fully opaque colour.
func Opaque(c colorful.Color) color.NRGBA {
	return withAlpha(c, 1)
}
