package overlay

import (
	"math"
	"testing"
	"time"

	"github.com/taptide/beerscroll/internal/variant"
)

const eps = 1e-9

func TestOpacityRevealWindow(t *testing.T) {
	b := Block{Text: "x", Start: 0.25, End: 0.40}
	tests := []struct {
		p    float64
		want float64
	}{
		{0.20, 0},
		{0.25, 0},
		{0.28, 1},
		{0.32, 1},
		{0.385, 0.5},
		{0.40, 0},
		{0.45, 0},
	}
	for _, tt := range tests {
		if got := b.Opacity(tt.p); math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("Opacity(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestOpacityMonotonicRamps(t *testing.T) {
	b := Block{Start: 0.05, End: 0.25}
	prev := -1.0
	for p := 0.0; p <= 0.08; p += 0.001 {
		o := b.Opacity(p)
		if o < prev-eps {
			t.Fatalf("fade-in decreased at %v: %v < %v", p, o, prev)
		}
		prev = o
	}
	prev = 2
	for p := 0.22; p <= 0.3; p += 0.001 {
		o := b.Opacity(p)
		if o > prev+eps {
			t.Fatalf("fade-out increased at %v: %v > %v", p, o, prev)
		}
		prev = o
	}
}

func TestNarrowWindowSplitsMargin(t *testing.T) {
	b := Block{Start: 0.5, End: 0.52}
	stops := b.Stops()
	if math.Abs(stops[1]-0.51) > eps || math.Abs(stops[2]-0.51) > eps {
		t.Fatalf("Stops = %v, want fades meeting at 0.51", stops)
	}
	if got := b.Opacity(0.51); math.Abs(got-1) > 1e-6 {
		t.Errorf("Opacity at midpoint = %v, want 1", got)
	}
}

func TestDegenerateWindowNeverVisible(t *testing.T) {
	for _, b := range []Block{{Start: 0.5, End: 0.5}, {Start: 0.6, End: 0.4}} {
		for _, p := range []float64{0, 0.4, 0.5, 0.6, 1} {
			if got := b.Opacity(p); got != 0 {
				t.Errorf("%+v Opacity(%v) = %v, want 0", b, p, got)
			}
		}
	}
}

func TestInterpolate(t *testing.T) {
	in := []float64{0, 1, 1, 2}
	out := []float64{0, 10, 20, 40}
	tests := []struct{ x, want float64 }{
		{-1, 0},
		{0.5, 5},
		{1, 20}, // zero-width segment jumps
		{1.5, 30},
		{3, 40},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := Interpolate(tt.x, in, out); math.Abs(got-tt.want) > eps {
			t.Errorf("Interpolate(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
	if got := Interpolate(1, nil, nil); got != 0 {
		t.Errorf("Interpolate on empty curve = %v", got)
	}
}

func TestComputeTreatments(t *testing.T) {
	left := Block{Start: 0.2, End: 0.6, Align: AlignLeft}
	right := Block{Start: 0.2, End: 0.6, Align: AlignRight}
	center := Block{Start: 0.2, End: 0.6, Align: AlignCenter}

	if s := Compute(left, 0.2, variant.OverlaySlide); s.OffsetX != -50 {
		t.Errorf("left slide offset at start = %v, want -50", s.OffsetX)
	}
	if s := Compute(right, 0.2, variant.OverlaySlide); s.OffsetX != 50 {
		t.Errorf("right slide offset at start = %v, want 50", s.OffsetX)
	}
	if s := Compute(center, 0.2, variant.OverlaySlide); s.OffsetX != 0 {
		t.Errorf("center slide offset = %v, want 0", s.OffsetX)
	}
	if s := Compute(left, 0.4, variant.OverlaySlide); math.Abs(s.OffsetX) > eps || math.Abs(s.Opacity-1) > eps {
		t.Errorf("slide during hold = %+v, want resting and opaque", s)
	}

	if s := Compute(left, 0.2, variant.OverlayScale); math.Abs(s.Scale-0.8) > eps {
		t.Errorf("scale at start = %v, want 0.8", s.Scale)
	}
	if s := Compute(left, 0.4, variant.OverlayScale); math.Abs(s.Scale-1) > eps {
		t.Errorf("scale during hold = %v, want 1", s.Scale)
	}

	if s := Compute(left, 0.2, variant.OverlayBlur); math.Abs(s.Blur-10) > eps {
		t.Errorf("blur at start = %v, want 10", s.Blur)
	}
	if s := Compute(left, 0.4, variant.OverlayBlur); s.Blur > eps {
		t.Errorf("blur during hold = %v, want 0", s.Blur)
	}

	fade := Compute(left, 0.4, variant.OverlayFade)
	if fade.OffsetX != 0 || fade.Scale != 1 || fade.Blur != 0 {
		t.Errorf("fade treatment transformed the block: %+v", fade)
	}
}

func TestComputeBlockTreatmentOverride(t *testing.T) {
	b := Block{Start: 0.2, End: 0.6, Align: AlignLeft, Treatment: variant.OverlaySlide}
	if s := Compute(b, 0.2, variant.OverlayFade); s.OffsetX != -50 {
		t.Errorf("override ignored: %+v", s)
	}
}

func TestOverlappingBlocksIndependent(t *testing.T) {
	a := Block{Start: 0.85, End: 1.1}
	b := Block{Start: 0.65, End: 0.85}
	// at 0.85 the earlier block has faded out and the later one starts
	if got := b.Opacity(0.85); got != 0 {
		t.Errorf("earlier block at its end = %v", got)
	}
	if got := a.Opacity(0.87); got <= 0 {
		t.Errorf("later block at 0.87 = %v, want visible", got)
	}
	// a window past 1 is still fully visible at the end of the scroll
	if got := a.Opacity(1); math.Abs(got-1) > eps {
		t.Errorf("final block at progress 1 = %v, want 1", got)
	}
}

func TestTypewriterVisibility(t *testing.T) {
	tw := DefaultTypewriter
	tests := []struct {
		elapsed time.Duration
		i       int
		want    float64
	}{
		{0, 0, 0},
		{60 * time.Millisecond, 0, 0.75},
		{120 * time.Millisecond, 0, 1},
		{30 * time.Millisecond, 1, 0},
		{90 * time.Millisecond, 1, 0.75},
		{time.Second, 20, 1},
		{time.Second, -1, 0},
	}
	for _, tt := range tests {
		if got := tw.Visibility(tt.elapsed, tt.i); math.Abs(got-tt.want) > 1e-5 {
			t.Errorf("Visibility(%v, %d) = %v, want %v", tt.elapsed, tt.i, got, tt.want)
		}
	}
	if got := tw.Duration(4); got != 210*time.Millisecond {
		t.Errorf("Duration(4) = %v, want 210ms", got)
	}
	if got := tw.Duration(0); got != 0 {
		t.Errorf("Duration(0) = %v", got)
	}
}
