// Package frames preloads a frame sequence and maps scroll progress onto it.
package frames

import "math"

// MapToFrame maps progress in [0,1] to a frame index in [0, frameCount-1]
// using half-up rounding. Out-of-range and NaN progress is clamped, never
// rejected.
func MapToFrame(progress float64, frameCount int) int {
	if frameCount <= 0 {
		return 0
	}
	switch {
	case math.IsNaN(progress) || progress < 0:
		progress = 0
	case progress > 1:
		progress = 1
	}

	idx := int(math.Floor(progress*float64(frameCount-1) + 0.5))
	if idx < 0 {
		return 0
	}
	if idx > frameCount-1 {
		return frameCount - 1
	}
	return idx
}
