// Package scroll turns the scroll offset of a tall container into a
// normalized, spring-smoothed progress signal.
package scroll

import "math"

// Window is the geometry of the scroll container in document coordinates.
// Progress is 0 when the container's top reaches the top of the viewport and
// 1 when its bottom reaches the bottom of the viewport.
type Window struct {
	Top            float64
	Height         float64
	ViewportHeight float64
}

// NewWindow builds the window of a container that starts at the top of the
// document and is heightMultiple viewports tall.
func NewWindow(viewportHeight, heightMultiple float64) Window {
	return Window{Height: viewportHeight * heightMultiple, ViewportHeight: viewportHeight}
}

// Range is the scroll distance between the two anchors.
func (w Window) Range() float64 {
	return math.Max(0, w.Height-w.ViewportHeight)
}

// Progress maps a document scroll offset to [0,1]. A container no taller
// than the viewport has no range and always reports 0.
func (w Window) Progress(scrollY float64) float64 {
	r := w.Range()
	if r <= 0 || math.IsNaN(scrollY) {
		return 0
	}
	return clamp01((scrollY - w.Top) / r)
}

// ScrollFor is the inverse of Progress.
func (w Window) ScrollFor(progress float64) float64 {
	return w.Top + clamp01(progress)*w.Range()
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
