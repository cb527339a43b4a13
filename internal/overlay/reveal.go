// Package overlay computes and paints the text blocks that fade in and out
// over the frame sequence at scroll checkpoints.
package overlay

import (
	"math"

	"github.com/taptide/beerscroll/internal/variant"
)

// Margin is the fade-in and fade-out span at each end of a reveal window,
// in units of total scroll progress.
const Margin = 0.03

type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

type Position string

const (
	PositionCenter Position = "center"
	PositionBottom Position = "bottom"
)

// Block is one text overlay and the scroll window it occupies.
type Block struct {
	Text      string               `yaml:"text"`
	Subtext   string               `yaml:"subtext,omitempty"`
	Start     float64              `yaml:"start"`
	End       float64              `yaml:"end"`
	Align     Align                `yaml:"align"`
	Position  Position             `yaml:"position,omitempty"`
	ShowCTA   bool                 `yaml:"show_cta,omitempty"`
	Treatment variant.OverlayStyle `yaml:"treatment,omitempty"` // overrides the variant's
}

// Stops returns the four breakpoints of the window: fade-in start, fade-in
// end, fade-out start, fade-out end. Windows narrower than two margins split
// their width between the two fades.
func (b Block) Stops() [4]float64 {
	m := Margin
	if w := b.End - b.Start; w < 2*m {
		m = math.Max(w/2, 0)
	}
	return [4]float64{b.Start, b.Start + m, b.End - m, b.End}
}

// Style is the per-block output of the reveal engine.
type Style struct {
	Opacity float64
	OffsetX float64 // pixels
	Scale   float64
	Blur    float64 // radius in pixels
}

// Visible reports whether the block contributes anything to the frame.
func (s Style) Visible() bool {
	return s.Opacity > 0
}

// Interpolate maps x through the piecewise-linear curve (in[i], out[i]).
// Inputs must be non-decreasing; x outside the range takes the end values.
func Interpolate(x float64, in, out []float64) float64 {
	n := min(len(in), len(out))
	if n == 0 {
		return 0
	}
	if math.IsNaN(x) || x <= in[0] {
		return out[0]
	}
	if x >= in[n-1] {
		return out[n-1]
	}
	for i := 0; i < n-1; i++ {
		if x < in[i+1] {
			span := in[i+1] - in[i]
			if span <= 0 {
				return out[i+1]
			}
			t := (x - in[i]) / span
			return out[i] + (out[i+1]-out[i])*t
		}
	}
	return out[n-1]
}

func (b Block) curve(progress, outer, inner float64) float64 {
	stops := b.Stops()
	return Interpolate(progress, stops[:], []float64{outer, inner, inner, outer})
}

// Opacity is 0 outside the window, ramps to 1 across the fade-in, holds,
// and ramps back to 0 across the fade-out.
func (b Block) Opacity(progress float64) float64 {
	if b.End <= b.Start {
		return 0
	}
	return b.curve(progress, 0, 1)
}

// SlideFrom is the horizontal offset a sliding block enters from.
func (b Block) SlideFrom() float64 {
	switch b.Align {
	case AlignLeft:
		return -50
	case AlignRight:
		return 50
	}
	return 0
}

// Compute evaluates every transform of the treatment at progress. Blocks are
// independent; overlapping windows simply yield several visible blocks.
func Compute(b Block, progress float64, treatment variant.OverlayStyle) Style {
	if b.Treatment != "" {
		treatment = b.Treatment
	}
	s := Style{Opacity: b.Opacity(progress), Scale: 1}
	if b.End <= b.Start {
		return s
	}

	switch treatment {
	case variant.OverlaySlide:
		s.OffsetX = b.curve(progress, b.SlideFrom(), 0)
	case variant.OverlayScale:
		s.Scale = b.curve(progress, 0.8, 1)
	case variant.OverlayBlur:
		s.Blur = b.curve(progress, 10, 0)
	}
	return s
}

// Triggered reports whether the fade-in of b has begun at progress.
func (b Block) Triggered(progress float64) bool {
	return b.End > b.Start && progress >= b.Start
}
