package metrics

import (
	"math"

	"github.com/san-kum/downhill/internal/sim"
)

// ControlEffort is the mean steering magnitude per frame.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(f sim.Frame) {
	c.sum += math.Abs(f.Control.TurnFactor)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// BrakeRatio is the fraction of frames spent braking, finish-line
// braking included.
type BrakeRatio struct {
	braking int
	samples int
}

func NewBrakeRatio() *BrakeRatio { return &BrakeRatio{} }

func (b *BrakeRatio) Name() string { return "brake_ratio" }

func (b *BrakeRatio) Observe(f sim.Frame) {
	if f.Control.Braking {
		b.braking++
	}
	b.samples++
}

func (b *BrakeRatio) Value() float64 {
	if b.samples == 0 {
		return 0
	}
	return float64(b.braking) / float64(b.samples)
}

func (b *BrakeRatio) Reset() {
	b.braking = 0
	b.samples = 0
}
