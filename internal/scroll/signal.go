package scroll

import "time"

type listener struct {
	id int
	fn func(progress float64)
}

// Signal observes one scroll container. Raw progress is recomputed on every
// scroll or resize; the smoothed value follows it through a spring and is
// published to listeners on each Advance that moves it.
//
// A Signal belongs to the goroutine that drives the UI loop and is not safe
// for concurrent use.
type Signal struct {
	window    Window
	scrollY   float64
	raw       float64
	spring    *Spring
	listeners []listener
	nextID    int
}

func NewSignal(w Window, cfg SpringConfig) *Signal {
	return &Signal{window: w, spring: NewSpring(cfg, 0)}
}

// SetScroll handles a scroll event.
func (s *Signal) SetScroll(scrollY float64) {
	s.scrollY = scrollY
	s.retarget()
}

// SetWindow handles a resize: the container geometry changed under the same
// scroll offset.
func (s *Signal) SetWindow(w Window) {
	s.window = w
	s.retarget()
}

func (s *Signal) retarget() {
	s.raw = s.window.Progress(s.scrollY)
	s.spring.SetTarget(s.raw)
}

// Sync puts the smoothed value on the raw value without animating, as on
// first mount.
func (s *Signal) Sync() {
	s.spring.Jump(s.raw)
	s.emit(s.raw)
}

// Advance steps the spring by dt and notifies listeners if the smoothed
// progress moved. Once settled it does nothing until the target changes.
func (s *Signal) Advance(dt time.Duration) {
	if s.spring.Advance(dt) {
		s.emit(s.spring.Value())
	}
}

// OnChange registers fn for smoothed-progress changes. The returned func
// removes it.
func (s *Signal) OnChange(fn func(progress float64)) (cancel func()) {
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Signal) emit(p float64) {
	ls := append([]listener(nil), s.listeners...)
	for _, l := range ls {
		l.fn(p)
	}
}

// CurrentProgress is the smoothed progress.
func (s *Signal) CurrentProgress() float64 { return s.spring.Value() }

// RawProgress is the unsmoothed progress of the last scroll or resize.
func (s *Signal) RawProgress() float64 { return s.raw }

func (s *Signal) Window() Window   { return s.window }
func (s *Signal) ScrollY() float64 { return s.scrollY }
func (s *Signal) Settled() bool    { return s.spring.Settled() }

// Reset drops every listener; used on unmount.
func (s *Signal) Reset() {
	s.listeners = nil
}
