// Package integrators advances the player's translational state by one
// frame.
//
// [Adaptive] is the production stepper: an embedded Bogacki-Shampine 3(2)
// pair with error control and a per-frame collision hook. [RK4] and
// [Euler] take fixed sub-steps and exist for comparison runs.
package integrators

import (
	"github.com/go-gl/mathgl/mgl64"
)

// System supplies the net force on a point mass.
type System interface {
	Force(position, velocity mgl64.Vec3) mgl64.Vec3
	Mass() float64
}

// State is the integrated state. Force is the net force at Position and
// Velocity and seeds the first estimate of the next frame.
type State struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Force    mgl64.Vec3
}

// Hook runs after every accepted sub-step with the segment travelled and
// the new velocity. It returns the velocity to continue with.
type Hook func(start, end, velocity mgl64.Vec3) mgl64.Vec3

// Stepper advances a State by one frame.
type Stepper interface {
	Advance(sys System, s State, timeStep float64, hook Hook) State
	Name() string
	Reset()
	Stats() Stats
}

// Stats accumulates sub-step bookkeeping over the frames since Reset.
type Stats struct {
	Frames   int
	SubSteps int
	Retries  int
	Floored  int // sub-steps accepted at the minimum step above tolerance
	MinStep  float64
	MaxStep  float64
}

func (s *Stats) record(h float64) {
	s.SubSteps++
	if s.MinStep == 0 || h < s.MinStep {
		s.MinStep = h
	}
	if h > s.MaxStep {
		s.MaxStep = h
	}
}

func applyHook(hook Hook, start, end, velocity mgl64.Vec3) mgl64.Vec3 {
	if hook == nil {
		return velocity
	}
	return hook(start, end, velocity)
}
