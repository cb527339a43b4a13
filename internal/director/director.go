package director

import (
	"fmt"
	"math"
	"sort"

	"github.com/taptide/beerscroll/internal/overlay"
)

// Director generates scroll scripts that linger on every overlay block
type Director struct {
	MinDwell  float64 // Minimum time per block (seconds)
	MaxDwell  float64 // Maximum time per block (seconds)
	Intro     float64 // Time at the top before scrolling
	Outro     float64 // Time at the bottom after scrolling
	MinTravel float64 // Minimum time between two blocks
}

// NewDirector creates a new Director with default settings
func NewDirector() *Director {
	return &Director{
		MinDwell:  1.0,
		MaxDwell:  3.0,
		Intro:     1.0,
		Outro:     1.0,
		MinTravel: 0.5,
	}
}

// GenerateScript scrolls from top to bottom in about totalDuration seconds,
// slowing down across the hold span of each block so its text can be read.
// Without blocks the page is swept at constant speed.
func (d *Director) GenerateScript(blocks []overlay.Block, totalDuration float64) (*Script, error) {
	if totalDuration <= 0 {
		return nil, fmt.Errorf("script duration must be positive, got %v", totalDuration)
	}

	spans := d.holdSpans(blocks)
	var keyframes []Keyframe
	if len(spans) == 0 {
		keyframes = d.sweep(totalDuration)
	} else {
		dwellTime := d.calculateDwellTime(totalDuration, len(spans))
		keyframes = d.generateKeyframes(spans, dwellTime, totalDuration)
	}

	return &Script{
		Version:   "1.0",
		Duration:  keyframes[len(keyframes)-1].Time,
		Keyframes: keyframes,
	}, nil
}

type holdSpan struct {
	focus   string
	in, out float64
}

// holdSpans orders blocks by window start and returns the progress range
// over which each is fully visible, made non-overlapping so the scroll
// never reverses.
func (d *Director) holdSpans(blocks []overlay.Block) []holdSpan {
	sorted := make([]overlay.Block, 0, len(blocks))
	for _, b := range blocks {
		if b.End > b.Start {
			sorted = append(sorted, b)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	spans := make([]holdSpan, 0, len(sorted))
	prev := 0.0
	for i, b := range sorted {
		stops := b.Stops()
		in := clamp01(math.Max(stops[1], prev))
		out := clamp01(math.Max(stops[2], in))
		if in >= 1 && i > 0 {
			break
		}
		spans = append(spans, holdSpan{focus: fmt.Sprintf("block_%d: %s", i+1, b.Text), in: in, out: out})
		prev = out
	}
	return spans
}

// calculateDwellTime determines how long to hold each block
func (d *Director) calculateDwellTime(totalDuration float64, blockCount int) float64 {
	availableDuration := totalDuration - d.Intro - d.Outro
	if availableDuration <= 0 {
		availableDuration = totalDuration
	}

	// Half of the time reads, half scrolls between blocks
	dwellTime := availableDuration / 2 / float64(blockCount)

	if dwellTime < d.MinDwell {
		dwellTime = d.MinDwell
	}
	if dwellTime > d.MaxDwell {
		dwellTime = d.MaxDwell
	}
	return dwellTime
}

// generateKeyframes spends the time left after dwelling on the gaps between
// blocks, in proportion to how far each gap scrolls.
func (d *Director) generateKeyframes(spans []holdSpan, dwellTime, totalDuration float64) []Keyframe {
	gaps := make([]float64, len(spans)+1)
	prev := 0.0
	for i, s := range spans {
		gaps[i] = s.in - prev
		prev = s.out
	}
	gaps[len(spans)] = 1 - prev

	distance := 0.0
	for _, g := range gaps {
		distance += g
	}
	budget := totalDuration - d.Intro - d.Outro - dwellTime*float64(len(spans))
	budget = math.Max(budget, d.MinTravel*float64(len(gaps)))

	travel := func(g float64) float64 {
		if g <= 0 {
			return 0
		}
		return math.Max(budget*g/distance, d.MinTravel)
	}

	keyframes := []Keyframe{{Time: 0, Focus: "top", Progress: 0}}
	currentTime := d.Intro
	if currentTime > 0 {
		keyframes = append(keyframes, Keyframe{Time: currentTime, Focus: "top", Progress: 0})
	}

	for i, s := range spans {
		if t := travel(gaps[i]); t > 0 {
			currentTime += t
			keyframes = append(keyframes, Keyframe{Time: currentTime, Focus: s.focus, Progress: s.in})
		}
		currentTime += dwellTime
		keyframes = append(keyframes, Keyframe{Time: currentTime, Focus: s.focus, Progress: s.out})
	}

	if t := travel(gaps[len(spans)]); t > 0 {
		currentTime += t
		keyframes = append(keyframes, Keyframe{Time: currentTime, Focus: "bottom", Progress: 1})
	}
	if d.Outro > 0 {
		currentTime += d.Outro
		keyframes = append(keyframes, Keyframe{Time: currentTime, Focus: "bottom", Progress: 1})
	}
	return keyframes
}

func (d *Director) sweep(totalDuration float64) []Keyframe {
	scroll := totalDuration - d.Intro - d.Outro
	intro, outro := d.Intro, d.Outro
	if scroll <= 0 {
		scroll, intro, outro = totalDuration, 0, 0
	}
	keyframes := []Keyframe{{Time: 0, Focus: "top", Progress: 0}}
	if intro > 0 {
		keyframes = append(keyframes, Keyframe{Time: intro, Focus: "top", Progress: 0})
	}
	keyframes = append(keyframes, Keyframe{Time: intro + scroll, Focus: "bottom", Progress: 1})
	if outro > 0 {
		keyframes = append(keyframes, Keyframe{Time: intro + scroll + outro, Focus: "bottom", Progress: 1})
	}
	return keyframes
}

// Interpolate returns the scroll progress of the script at currentTime
func Interpolate(keyframes []Keyframe, currentTime float64) float64 {
	if len(keyframes) == 0 {
		return 0
	}

	// If before first keyframe, use first keyframe
	if currentTime <= keyframes[0].Time {
		return keyframes[0].Progress
	}

	// If after last keyframe, use last keyframe
	last := keyframes[len(keyframes)-1]
	if currentTime >= last.Time {
		return last.Progress
	}

	// Find surrounding keyframes
	var prevKf, nextKf Keyframe
	for i := 0; i < len(keyframes)-1; i++ {
		if currentTime >= keyframes[i].Time && currentTime < keyframes[i+1].Time {
			prevKf = keyframes[i]
			nextKf = keyframes[i+1]
			break
		}
	}

	timeDelta := nextKf.Time - prevKf.Time
	if timeDelta == 0 {
		timeDelta = 0.001 // Avoid division by zero
	}
	t := (currentTime - prevKf.Time) / timeDelta

	// Apply easing (smooth in-out)
	t = easeInOutCubic(t)

	return lerp(prevKf.Progress, nextKf.Progress, t)
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// easeInOutCubic applies smooth easing function
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}
