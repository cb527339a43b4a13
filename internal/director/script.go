package director

// Script is a simulated scroll session: where the page is scrolled to at
// each moment of a recording.
type Script struct {
	Version   string     `yaml:"version"`
	Page      string     `yaml:"page,omitempty"`
	Duration  float64    `yaml:"duration"` // seconds
	Keyframes []Keyframe `yaml:"keyframes"`
}

// Keyframe pins the scroll progress at a point in time
type Keyframe struct {
	Time     float64 `yaml:"time"`     // Time offset in seconds
	Focus    string  `yaml:"focus"`    // What the viewer is looking at
	Progress float64 `yaml:"progress"` // Raw scroll progress in [0,1]
}

// ScaleTo stretches the keyframe times so the script lasts duration
// seconds, e.g. to match an audio track.
func (s *Script) ScaleTo(duration float64) {
	if duration <= 0 || s.Duration <= 0 {
		return
	}
	k := duration / s.Duration
	for i := range s.Keyframes {
		s.Keyframes[i].Time *= k
	}
	s.Duration = duration
}
