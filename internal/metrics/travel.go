package metrics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/downhill/internal/sim"
)

// Airtime accumulates the seconds spent off the ground.
type Airtime struct {
	seconds float64
	last    float64
	started bool
}

func NewAirtime() *Airtime { return &Airtime{} }

func (a *Airtime) Name() string { return "airtime" }

func (a *Airtime) Observe(f sim.Frame) {
	if a.started && f.State.Airborne {
		a.seconds += f.Time - a.last
	}
	a.last = f.Time
	a.started = true
}

func (a *Airtime) Value() float64 { return a.seconds }

func (a *Airtime) Reset() { *a = Airtime{} }

// Distance is the length of the path travelled.
type Distance struct {
	total   float64
	last    mgl64.Vec3
	started bool
}

func NewDistance() *Distance { return &Distance{} }

func (d *Distance) Name() string { return "distance" }

func (d *Distance) Observe(f sim.Frame) {
	pos := f.State.Position
	if d.started {
		d.total += pos.Sub(d.last).Len()
	}
	d.last = pos
	d.started = true
}

func (d *Distance) Value() float64 { return d.total }

func (d *Distance) Reset() { *d = Distance{} }

// Drop is the height lost since the first observed frame.
type Drop struct {
	top, last float64
	started   bool
}

func NewDrop() *Drop { return &Drop{} }

func (d *Drop) Name() string { return "drop" }

func (d *Drop) Observe(f sim.Frame) {
	y := f.State.Position.Y()
	if !d.started {
		d.top = y
		d.started = true
	}
	d.last = y
}

func (d *Drop) Value() float64 { return d.top - d.last }

func (d *Drop) Reset() { *d = Drop{} }
