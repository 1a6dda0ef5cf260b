package integrators

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/downhill/internal/dynamo"
)

const (
	MinTimeStep      = 0.01
	MaxTimeStep      = 0.1
	MaxStepDistance  = 0.2 // meters travelled per sub-step
	MaxPositionError = 0.005
	MaxVelocityError = 0.05

	stepExponent = 1.0 / 3.0
)

// Adaptive carries its step size across frames so a frame starts with the
// size the previous one settled on.
type Adaptive struct {
	h     float64
	stats Stats
}

func NewAdaptive() *Adaptive {
	return &Adaptive{h: -1}
}

func (a *Adaptive) Name() string { return "adaptive" }

func (a *Adaptive) Reset() {
	a.h = -1
	a.stats = Stats{}
}

func (a *Adaptive) Stats() Stats { return a.stats }

// StepSize returns the step the next frame starts with, or -1 before the
// first frame.
func (a *Adaptive) StepSize() float64 { return a.h }

// adjustStep bounds h to [MinTimeStep, MaxTimeStep] and, within that,
// limits the distance covered at velocity v.
func adjustStep(h float64, v mgl64.Vec3) float64 {
	h = math.Max(math.Min(h, MaxStepDistance/v.Len()), MinTimeStep)
	h = math.Min(h, MaxTimeStep)
	if math.IsNaN(h) {
		return MinTimeStep
	}
	return h
}

// Advance integrates s over timeStep seconds. The last sub-step is
// shortened to land exactly on timeStep, so it may be below MinTimeStep.
func (a *Adaptive) Advance(sys System, s State, timeStep float64, hook Hook) State {
	if timeStep <= 2*dynamo.MachineEpsilon {
		return s
	}
	a.stats.Frames++

	h := a.h
	if h < 0 {
		h = adjustStep(h, s.Velocity)
	}

	mass := sys.Mass()
	pos, vel, force := s.Position, s.Velocity, s.Force

	var t float64
	for done := false; !done; {
		if t >= timeStep {
			panic(fmt.Sprintf("integrators: sub-step time %g overran frame %g (h=%g)", t, timeStep, h))
		}
		if 1.1*h > timeStep-t {
			h = timeStep - t
			done = true
		}

		savedPos, savedVel, savedForce := pos, vel, force

		var errEst, tol float64
		failed := false
		for {
			var ps, vs [3]Stage[float64]
			for i := 0; i < 3; i++ {
				ps[i] = NewStage(pos[i], h)
				vs[i] = NewStage(vel[i], h)
				ps[i].UpdateEstimate(0, vel[i])
				vs[i].UpdateEstimate(0, force[i]/mass)
			}

			for step := 1; step < NumEstimates; step++ {
				for i := 0; i < 3; i++ {
					pos[i] = ps[i].NextValue(step)
					vel[i] = vs[i].NextValue(step)
				}
				force = sys.Force(pos, vel)
				for i := 0; i < 3; i++ {
					ps[i].UpdateEstimate(step, vel[i])
					vs[i].UpdateEstimate(step, force[i]/mass)
				}
			}

			for i := 0; i < 3; i++ {
				pos[i] = ps[i].FinalEstimate()
				vel[i] = vs[i].FinalEstimate()
			}

			posErr, velErr := errorNorm(&ps), errorNorm(&vs)
			if posErr/MaxPositionError > velErr/MaxVelocityError {
				errEst, tol = posErr, MaxPositionError
			} else {
				errEst, tol = velErr, MaxVelocityError
			}

			if errEst <= tol || h <= MinTimeStep+dynamo.MachineEpsilon {
				break
			}

			done = false
			if !failed {
				failed = true
				h *= math.Max(0.5, 0.8*math.Pow(tol/errEst, stepExponent))
			} else {
				h *= 0.5
			}
			h = adjustStep(h, savedVel)
			pos, vel, force = savedPos, savedVel, savedForce
			a.stats.Retries++
		}

		if errEst > tol {
			a.stats.Floored++
		}
		a.stats.record(h)

		t += h
		force = sys.Force(pos, vel)

		if !failed {
			grow := 1.25 * math.Pow(errEst/tol, stepExponent)
			if grow > 0.2 {
				h /= grow
			} else {
				h *= 5
			}
		}
		h = adjustStep(h, vel)

		vel = applyHook(hook, savedPos, pos, vel)
	}

	a.h = h
	return State{Position: pos, Velocity: vel, Force: force}
}

func errorNorm(s *[3]Stage[float64]) float64 {
	return mgl64.Vec3{s[0].Error(), s[1].Error(), s[2].Error()}.Len()
}
