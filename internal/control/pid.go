package control

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// PID steers toward a lane Target meters right of the course center.
// With Paddle set it also paddles whenever the speed is below Cruise.
type PID struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Target   float64
	Paddle   bool
	Cruise   float64
	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

// DefaultCruise is the paddling cutoff speed in m/s.
const DefaultCruise = 12.0

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		Cruise: DefaultCruise,
		first:  true,
	}
}

func (p *PID) Name() string { return "pid" }

func (p *PID) Decide(obs Observation) Intent {
	lane := obs.Course.Width/2 + p.Target
	err := lane - obs.State.Position[0]
	t := obs.Time

	in := Intent{Paddle: p.Paddle && obs.State.Speed() < p.Cruise}

	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		in.Turn = p.turn(p.Kp * err)
		return in
	}

	dt := t - p.prevT
	if dt <= 0 {
		in.Turn = p.turn(p.Kp * err)
		return in
	}

	derivative := (err - p.prevErr) / dt
	u := p.Kp*err + p.Ki*(p.integral+err*dt) + p.Kd*derivative

	// Anti-windup: stop integrating while the output saturates.
	if math.Abs(u) < 1 {
		p.integral += err * dt
	}
	p.prevErr = err
	p.prevT = t

	in.Turn = p.turn(u)
	return in
}

func (p *PID) turn(u float64) float64 {
	return mgl64.Clamp(u, -1, 1)
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.prevT = 0
	p.first = true
}

// GetParams returns tunable parameters for overrides
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"kp":     p.Kp,
		"ki":     p.Ki,
		"kd":     p.Kd,
		"target": p.Target,
		"paddle": boolParam(p.Paddle),
		"cruise": p.Cruise,
	}
}

// SetParam adjusts a PID parameter
func (p *PID) SetParam(name string, value float64) bool {
	switch name {
	case "kp":
		p.Kp = value
	case "ki":
		p.Ki = value
	case "kd":
		p.Kd = value
	case "target":
		p.Target = value
	case "paddle":
		p.Paddle = value != 0
	case "cruise":
		p.Cruise = value
	default:
		return false
	}
	return true
}
