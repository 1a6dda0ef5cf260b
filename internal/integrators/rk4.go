package integrators

import "math"

// DefaultFixedStep is the sub-step of the fixed-step integrators.
const DefaultFixedStep = 1.0 / 240.0

// RK4 is the classic fourth order Runge-Kutta method with a fixed
// sub-step.
type RK4 struct {
	step  float64
	stats Stats
}

func NewRK4(step float64) *RK4 {
	if step <= 0 {
		step = DefaultFixedStep
	}
	return &RK4{step: step}
}

func (r *RK4) Name() string { return "rk4" }
func (r *RK4) Reset()       { r.stats = Stats{} }
func (r *RK4) Stats() Stats { return r.stats }

func (r *RK4) Advance(sys System, s State, timeStep float64, hook Hook) State {
	n := subSteps(timeStep, r.step)
	if n == 0 {
		return s
	}
	r.stats.Frames++
	dt := timeStep / float64(n)
	inv := 1 / sys.Mass()

	pos, vel := s.Position, s.Velocity
	force := s.Force
	for i := 0; i < n; i++ {
		start := pos

		k1x, k1v := vel, force.Mul(inv)

		p2, v2 := pos.Add(k1x.Mul(dt*0.5)), vel.Add(k1v.Mul(dt*0.5))
		k2x, k2v := v2, sys.Force(p2, v2).Mul(inv)

		p3, v3 := pos.Add(k2x.Mul(dt*0.5)), vel.Add(k2v.Mul(dt*0.5))
		k3x, k3v := v3, sys.Force(p3, v3).Mul(inv)

		p4, v4 := pos.Add(k3x.Mul(dt)), vel.Add(k3v.Mul(dt))
		k4x, k4v := v4, sys.Force(p4, v4).Mul(inv)

		dt6 := dt / 6.0
		pos = pos.Add(k1x.Add(k2x.Mul(2)).Add(k3x.Mul(2)).Add(k4x).Mul(dt6))
		vel = vel.Add(k1v.Add(k2v.Mul(2)).Add(k3v.Mul(2)).Add(k4v).Mul(dt6))

		force = sys.Force(pos, vel)
		vel = applyHook(hook, start, pos, vel)
		r.stats.record(dt)
	}

	return State{Position: pos, Velocity: vel, Force: force}
}

// subSteps splits timeStep into the fewest sub-steps no longer than step.
func subSteps(timeStep, step float64) int {
	if !(timeStep > 0) {
		return 0
	}
	return int(math.Ceil(timeStep/step - 1e-9))
}
