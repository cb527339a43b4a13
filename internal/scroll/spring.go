package scroll

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// SpringConfig describes a mass-spring-damper in the same terms as the
// motion library the pages were designed with.
type SpringConfig struct {
	Mass      float64 `yaml:"mass"`
	Stiffness float64 `yaml:"stiffness"`
	Damping   float64 `yaml:"damping"`
	RestDelta float64 `yaml:"rest_delta"`
	RestSpeed float64 `yaml:"rest_speed"`
}

var (
	// DefaultSpring is the heavy, viscous feel of the home page.
	DefaultSpring = SpringConfig{Mass: 0.5, Stiffness: 50, Damping: 15, RestDelta: 0.001, RestSpeed: 0.01}
	// SnappySpring follows the scroll more tightly; used on variant pages.
	SnappySpring = SpringConfig{Mass: 0.3, Stiffness: 120, Damping: 22, RestDelta: 0.001, RestSpeed: 0.01}
)

// StepRate is the fixed integration rate of the spring in Hz.
const StepRate = 60

// maxStepsPerAdvance bounds catch-up work after a long stall.
const maxStepsPerAdvance = 240

// stepSlack absorbs the nanosecond truncation of time.Second/StepRate.
const stepSlack = 1e-6

func (c SpringConfig) withDefaults() SpringConfig {
	if c.Mass <= 0 {
		c.Mass = DefaultSpring.Mass
	}
	if c.Stiffness <= 0 {
		c.Stiffness = DefaultSpring.Stiffness
	}
	if c.Damping < 0 {
		c.Damping = 0
	}
	if c.RestDelta <= 0 {
		c.RestDelta = DefaultSpring.RestDelta
	}
	if c.RestSpeed <= 0 {
		c.RestSpeed = DefaultSpring.RestSpeed
	}
	return c
}

// AngularFrequency is sqrt(k/m).
func (c SpringConfig) AngularFrequency() float64 {
	return math.Sqrt(c.Stiffness / c.Mass)
}

// DampingRatio is c / (2*sqrt(k*m)); 1 is critical damping.
func (c SpringConfig) DampingRatio() float64 {
	return c.Damping / (2 * math.Sqrt(c.Stiffness*c.Mass))
}

// Spring drags a value toward a target with fixed-step spring dynamics and
// stops once it is within the rest thresholds.
type Spring struct {
	cfg     SpringConfig
	spring  harmonica.Spring
	step    float64
	acc     float64
	pos     float64
	vel     float64
	target  float64
	settled bool
}

func NewSpring(cfg SpringConfig, initial float64) *Spring {
	cfg = cfg.withDefaults()
	return &Spring{
		cfg:     cfg,
		spring:  harmonica.NewSpring(harmonica.FPS(StepRate), cfg.AngularFrequency(), cfg.DampingRatio()),
		step:    1.0 / StepRate,
		pos:     initial,
		target:  initial,
		settled: true,
	}
}

// SetTarget moves the equilibrium. The spring wakes up if it was at rest.
func (s *Spring) SetTarget(target float64) {
	if target == s.target {
		return
	}
	s.target = target
	s.settled = false
}

// Jump places the spring at rest on v.
func (s *Spring) Jump(v float64) {
	s.pos, s.vel, s.target, s.acc = v, 0, v, 0
	s.settled = true
}

// Advance integrates dt worth of whole steps and reports whether the value
// moved.
func (s *Spring) Advance(dt time.Duration) bool {
	if s.settled {
		return false
	}
	prev := s.pos

	s.acc += dt.Seconds()
	steps := 0
	for s.acc >= s.step-stepSlack && steps < maxStepsPerAdvance {
		s.pos, s.vel = s.spring.Update(s.pos, s.vel, s.target)
		s.acc -= s.step
		steps++
	}
	if steps == maxStepsPerAdvance {
		s.acc = 0
	}

	if math.Abs(s.target-s.pos) < s.cfg.RestDelta && math.Abs(s.vel) < s.cfg.RestSpeed {
		s.pos, s.vel, s.acc = s.target, 0, 0
		s.settled = true
	}
	return s.pos != prev
}

func (s *Spring) Value() float64    { return s.pos }
func (s *Spring) Velocity() float64 { return s.vel }
func (s *Spring) Target() float64   { return s.target }
func (s *Spring) Settled() bool     { return s.settled }
