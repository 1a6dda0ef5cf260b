// Package report turns recorded frames into plottable series and renders
// them as terminal graphs or PNG charts.
package report

import (
	"fmt"
	"sort"

	"github.com/san-kum/downhill/internal/sim"
)

// Series is one quantity sampled over race time.
type Series struct {
	Name  string
	Unit  string
	Times []float64
	Value []float64
}

type extractor struct {
	unit string
	fn   func(sim.Frame) float64
}

var extractors = map[string]extractor{
	"speed":     {"m/s", func(f sim.Frame) float64 { return f.State.Speed() }},
	"height":    {"m", func(f sim.Frame) float64 { return f.State.Position.Y() }},
	"lateral":   {"m", func(f sim.Frame) float64 { return f.State.Position.X() }},
	"progress":  {"m", func(f sim.Frame) float64 { return -f.State.Position.Z() }},
	"clearance": {"m", func(f sim.Frame) float64 { return f.State.Position.Y() - f.Height }},
	"airborne":  {"", func(f sim.Frame) float64 { return boolValue(f.State.Airborne) }},
	"turn":      {"", func(f sim.Frame) float64 { return f.Control.TurnFactor }},
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func SeriesNames() []string {
	names := make([]string, 0, len(extractors))
	for name := range extractors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extract samples the named quantity from frames.
func Extract(name string, frames []sim.Frame) (Series, error) {
	ex, ok := extractors[name]
	if !ok {
		return Series{}, fmt.Errorf("unknown series %q (available: %v)", name, SeriesNames())
	}
	s := Series{
		Name:  name,
		Unit:  ex.unit,
		Times: make([]float64, len(frames)),
		Value: make([]float64, len(frames)),
	}
	for i, f := range frames {
		s.Times[i] = f.Time
		s.Value[i] = ex.fn(f)
	}
	return s, nil
}

// Label is the axis label of the series.
func (s Series) Label() string {
	if s.Unit == "" {
		return s.Name
	}
	return fmt.Sprintf("%s (%s)", s.Name, s.Unit)
}
