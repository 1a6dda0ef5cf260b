package sim

import (
	"fmt"

	"github.com/san-kum/downhill/internal/dynamo"
	"github.com/san-kum/downhill/internal/integrators"
	"github.com/san-kum/downhill/internal/terrain"
)

// Frame is the race state after one update.
type Frame struct {
	Index     int
	Time      float64
	State     dynamo.KinematicState
	Control   dynamo.ControlState
	Phase     dynamo.Phase
	Height    float64 // terrain height under the player
	Terrain   terrain.Kind
	Collected int // herring picked up so far
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

// EventObserver is implemented by observers that also want race events.
type EventObserver interface {
	OnEvent(e Event)
}

type EventKind int

const (
	EventCollision EventKind = iota
	EventPickup
	EventTerrainChange
	EventPhaseChange
)

func (k EventKind) String() string {
	switch k {
	case EventCollision:
		return "collision"
	case EventPickup:
		return "pickup"
	case EventTerrainChange:
		return "terrain"
	case EventPhaseChange:
		return "phase"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is something that happened during a frame. Front ends play a
// sound for each of them.
type Event struct {
	Kind   EventKind
	Frame  int
	Time   float64
	Speed  float64
	Detail string
}

type Config struct {
	Dt       float64
	Duration float64
	// RecordEvery keeps every nth frame in the result; zero keeps all.
	RecordEvery int
}

type Result struct {
	Frames     []Frame
	Events     []Event
	Metrics    map[string]float64
	Phase      dynamo.Phase
	FinishTime float64 // zero when the finish line was not reached
	Collected  int
	Collisions int
	FramesRun  int
	Stats      integrators.Stats
}

// Finished reports whether the player crossed the finish line.
func (r *Result) Finished() bool { return r.Phase != dynamo.PhaseRacing }

// Final returns the last recorded frame.
func (r *Result) Final() (Frame, bool) {
	if len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}
