package effects

import (
	"image"
	"image/color"

	"github.com/taptide/beerscroll/internal/config"
)

// Effect finishes a composed frame before it is encoded. index counts
// frames from the start of the recording; p.Duration is the recording
// length in seconds, or 0 while it is not known yet.
type Effect interface {
	Apply(frame *image.RGBA, index int, p config.SegmentParams)
}

// NoneEffect leaves frames untouched.
type NoneEffect struct{}

func (NoneEffect) Apply(*image.RGBA, int, config.SegmentParams) {}

// FadeEffect fades the recording in from and out to a solid colour, the
// page background of the variant.
type FadeEffect struct {
	Color color.NRGBA // alpha is ignored
}

func (e *FadeEffect) Apply(frame *image.RGBA, index int, p config.SegmentParams) {
	k := Level(index, p)
	if k >= 1 {
		return
	}
	blend(frame, e.Color, k)
}

// Level is how much of frame index survives the fades: 0 is solid colour,
// 1 is untouched.
func Level(index int, p config.SegmentParams) float64 {
	if p.FadeDuration <= 0 || p.FPS <= 0 {
		return 1
	}
	fadeFrames := p.FadeDuration * float64(p.FPS)
	k := float64(index) / fadeFrames

	// the last frame of the recording is fully faded out
	if total := p.Duration * float64(p.FPS); total > 0 {
		k = min(k, (total-1-float64(index))/fadeFrames)
	}
	return max(0, min(k, 1))
}

func blend(img *image.RGBA, c color.NRGBA, k float64) {
	// 8.8 fixed point
	w := uint32(k*256 + 0.5)
	iw := 256 - w
	cr, cg, cb := uint32(c.R)*iw, uint32(c.G)*iw, uint32(c.B)*iw
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i+3 < len(row); i += 4 {
			row[i] = uint8((uint32(row[i])*w + cr) >> 8)
			row[i+1] = uint8((uint32(row[i+1])*w + cg) >> 8)
			row[i+2] = uint8((uint32(row[i+2])*w + cb) >> 8)
			row[i+3] = 0xff
		}
	}
}
