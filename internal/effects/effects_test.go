package effects

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/taptide/beerscroll/internal/config"
)

func TestLevel(t *testing.T) {
	p := config.SegmentParams{FPS: 10, Duration: 5, FadeDuration: 1}
	tests := []struct {
		index int
		want  float64
	}{
		{0, 0},
		{5, 0.5},
		{10, 1},
		{25, 1},
		{44, 0.5},
		{49, 0},
		{60, 0},
	}
	for _, tt := range tests {
		if got := Level(tt.index, p); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Level(%d) = %v, want %v", tt.index, got, tt.want)
		}
	}
}

func TestLevelUnknownDuration(t *testing.T) {
	p := config.SegmentParams{FPS: 10, FadeDuration: 1}
	if got := Level(1000, p); got != 1 {
		t.Errorf("Level without duration = %v, want no fade-out", got)
	}
	if got := Level(0, config.SegmentParams{FPS: 10}); got != 1 {
		t.Errorf("Level without fade = %v, want 1", got)
	}
}

func TestFadeEffectBlends(t *testing.T) {
	e := &FadeEffect{Color: color.NRGBA{R: 0x0B, G: 0x1E, B: 0x2D, A: 0xff}}
	bg := color.RGBA{R: 0x0B, G: 0x1E, B: 0x2D, A: 0xff}
	p := config.SegmentParams{FPS: 10, Duration: 5, FadeDuration: 1}

	fill := func(c color.RGBA) *image.RGBA {
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		for i := 0; i < len(img.Pix); i += 4 {
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
		}
		return img
	}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	img := fill(white)
	e.Apply(img, 0, p)
	if got := img.RGBAAt(2, 2); got != bg {
		t.Errorf("first frame = %v, want background %v", got, bg)
	}

	img = fill(white)
	e.Apply(img, 20, p)
	if got := img.RGBAAt(2, 2); got != white {
		t.Errorf("middle frame = %v, want untouched", got)
	}

	img = fill(white)
	e.Apply(img, 5, p)
	got := img.RGBAAt(0, 0)
	if got.R <= bg.R || got.R >= 255 {
		t.Errorf("half-faded frame = %v", got)
	}
}
