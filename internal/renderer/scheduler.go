package renderer

// Scheduler coalesces redraw requests to at most one draw per animation
// frame. Requests come from scroll, resize and load events; Flush runs from
// the per-frame callback.
type Scheduler struct {
	pending bool
	draws   int
}

// Request marks the surface dirty.
func (s *Scheduler) Request() {
	s.pending = true
}

// Pending reports whether a draw is queued.
func (s *Scheduler) Pending() bool {
	return s.pending
}

// Flush runs draw once if anything was requested since the last flush.
func (s *Scheduler) Flush(draw func()) bool {
	if !s.pending {
		return false
	}
	s.pending = false
	s.draws++
	draw()
	return true
}

// Cancel drops a queued draw; used on unmount.
func (s *Scheduler) Cancel() {
	s.pending = false
}

// Draws counts executed flushes.
func (s *Scheduler) Draws() int {
	return s.draws
}
