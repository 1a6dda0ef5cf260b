// Package metrics summarizes a race frame by frame.
package metrics

import (
	"math"

	"github.com/san-kum/downhill/internal/dynamo"
	"github.com/san-kum/downhill/internal/sim"
)

type MaxSpeed struct {
	max float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) Observe(f sim.Frame) {
	m.max = math.Max(m.max, f.State.Speed())
}

func (m *MaxSpeed) Value() float64 { return m.max }

func (m *MaxSpeed) Reset() { m.max = 0 }

// MeanSpeed averages speed over the racing phase only, so the outro does
// not drag it down.
type MeanSpeed struct {
	sum     float64
	samples int
}

func NewMeanSpeed() *MeanSpeed { return &MeanSpeed{} }

func (m *MeanSpeed) Name() string { return "mean_speed" }

func (m *MeanSpeed) Observe(f sim.Frame) {
	if f.Phase != dynamo.PhaseRacing {
		return
	}
	m.sum += f.State.Speed()
	m.samples++
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanSpeed) Reset() {
	m.sum = 0
	m.samples = 0
}

// Standard returns a fresh set of the metrics reported for every run.
func Standard() []sim.Metric {
	return []sim.Metric{
		NewMaxSpeed(),
		NewMeanSpeed(),
		NewAirtime(),
		NewDistance(),
		NewDrop(),
		NewControlEffort(),
		NewBrakeRatio(),
	}
}
