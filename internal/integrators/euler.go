package integrators

// Euler is the semi-implicit Euler method: velocity first, then position
// with the updated velocity.
type Euler struct {
	step  float64
	stats Stats
}

func NewEuler(step float64) *Euler {
	if step <= 0 {
		step = DefaultFixedStep
	}
	return &Euler{step: step}
}

func (e *Euler) Name() string { return "euler" }
func (e *Euler) Reset()       { e.stats = Stats{} }
func (e *Euler) Stats() Stats { return e.stats }

func (e *Euler) Advance(sys System, s State, timeStep float64, hook Hook) State {
	n := subSteps(timeStep, e.step)
	if n == 0 {
		return s
	}
	e.stats.Frames++
	dt := timeStep / float64(n)
	inv := 1 / sys.Mass()

	pos, vel, force := s.Position, s.Velocity, s.Force
	for i := 0; i < n; i++ {
		start := pos
		vel = vel.Add(force.Mul(inv * dt))
		pos = pos.Add(vel.Mul(dt))
		force = sys.Force(pos, vel)
		vel = applyHook(hook, start, pos, vel)
		e.stats.record(dt)
	}

	return State{Position: pos, Velocity: vel, Force: force}
}
