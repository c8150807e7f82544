package vinemotion

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidSpring is returned when a spring configuration could diverge or
// produce NaN.
var ErrInvalidSpring = errors.New("invalid spring config")

const maxSubsteps = 4096

// Spring is a damped harmonic oscillator with unit mass.
type Spring struct {
	Position  float64
	Velocity  float64
	Target    float64
	Stiffness float64
	Damping   float64
}

// Step integrates the spring over dt using semi-implicit Euler. dt is split
// into substeps no longer than maxStep so that the result depends on elapsed
// time, not on how many frames it was delivered in.
func (s *Spring) Step(dt, maxStep time.Duration) {
	if dt <= 0 {
		return
	}
	if maxStep <= 0 {
		maxStep = dt
	}
	total := dt.Seconds()
	h := maxStep.Seconds()
	// Stay inside the stable region of the integrator for stiff or heavily
	// damped springs.
	if s.Stiffness > 0 {
		h = math.Min(h, 0.5/math.Sqrt(s.Stiffness))
	}
	if s.Damping > 0 {
		h = math.Min(h, 0.5/s.Damping)
	}
	n := int(math.Ceil(total / h))
	if n < 1 {
		n = 1
	}
	if n > maxSubsteps {
		n = maxSubsteps
	}
	h = total / float64(n)
	for i := 0; i < n; i++ {
		accel := -s.Stiffness*(s.Position-s.Target) - s.Damping*s.Velocity
		s.Velocity += accel * h
		s.Position += s.Velocity * h
	}
	if !finite(s.Position) || !finite(s.Velocity) {
		// Unreachable with a validated config; keeps NaN out of consumers.
		s.Position, s.Velocity = s.Target, 0
	}
}

// Settled reports whether the spring is within eps of its target and nearly
// at rest.
func (s *Spring) Settled(eps float64) bool {
	return math.Abs(s.Position-s.Target) < eps && math.Abs(s.Velocity) < eps
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SpringConfig configures a pointer-reactive element.
type SpringConfig struct {
	Stiffness float64
	Damping   float64
	// Scale multiplies the normalized [-1, 1] pointer offset per axis.
	Scale Vec2
}

// Validate rejects configurations that could diverge.
func (c SpringConfig) Validate() error {
	switch {
	case !finite(c.Stiffness) || c.Stiffness <= 0:
		return fmt.Errorf("%w: stiffness %v must be > 0", ErrInvalidSpring, c.Stiffness)
	case !finite(c.Damping) || c.Damping <= 0:
		return fmt.Errorf("%w: damping %v must be > 0", ErrInvalidSpring, c.Damping)
	case !finite(c.Scale.X) || !finite(c.Scale.Y):
		return fmt.Errorf("%w: scale %v must be finite", ErrInvalidSpring, c.Scale)
	}
	return nil
}

// Clamped returns a copy with stiffness and damping raised to the given
// minimums and non-finite scale factors zeroed.
func (c SpringConfig) Clamped(minStiffness, minDamping float64) SpringConfig {
	if !finite(c.Stiffness) || c.Stiffness < minStiffness {
		c.Stiffness = minStiffness
	}
	if !finite(c.Damping) || c.Damping < minDamping {
		c.Damping = minDamping
	}
	if !finite(c.Scale.X) {
		c.Scale.X = 0
	}
	if !finite(c.Scale.Y) {
		c.Scale.Y = 0
	}
	return c
}
