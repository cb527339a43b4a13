package overlay

import (
	"time"

	"github.com/tanema/gween/ease"
)

// Typewriter reveals characters one after another once a block triggers.
// It is a pure function of the time since the trigger, so no per-character
// animation state exists.
type Typewriter struct {
	Delay time.Duration // between consecutive characters
	Fade  time.Duration // per character
}

var DefaultTypewriter = Typewriter{Delay: 30 * time.Millisecond, Fade: 120 * time.Millisecond}

// Visibility of character i (0-based) at elapsed time since the trigger.
func (tw Typewriter) Visibility(elapsed time.Duration, i int) float64 {
	start := time.Duration(i) * tw.Delay
	if elapsed <= start || i < 0 {
		return 0
	}
	if tw.Fade <= 0 {
		return 1
	}
	t, d := float32((elapsed - start).Seconds()), float32(tw.Fade.Seconds())
	if t >= d {
		return 1
	}
	return float64(ease.OutQuad(t, 0, 1, d))
}

// Duration until all n characters are fully visible.
func (tw Typewriter) Duration(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n-1)*tw.Delay + tw.Fade
}
