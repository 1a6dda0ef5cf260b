package dynamo

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Phase is the race phase. The force model brakes differently once the
// finish line has been crossed.
type Phase int

const (
	PhaseRacing Phase = iota
	PhaseBraking
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseRacing:
		return "racing"
	case PhaseBraking:
		return "braking"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(name string) (Phase, error) {
	for _, p := range []Phase{PhaseRacing, PhaseBraking, PhaseFinished} {
		if p.String() == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("dynamo: unknown phase %q", name)
}

// ControlState is produced once per frame by an input mapper and never
// mutated by the simulation.
type ControlState struct {
	TurnFactor      float64 // [-1, 1], positive turns right
	Braking         bool
	Paddling        bool
	PaddleStartTime float64 // simulation seconds
}

// KinematicState is the player's state.
type KinematicState struct {
	Position    mgl64.Vec3
	Velocity    mgl64.Vec3
	Orientation mgl64.Quat
	Airborne    bool
}

func (s KinematicState) Speed() float64 {
	return s.Velocity.Len()
}

func (s KinematicState) IsValid() bool {
	for i := 0; i < 3; i++ {
		if !finite(s.Position[i]) || !finite(s.Velocity[i]) {
			return false
		}
	}
	return true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Plane satisfies Normal·p + Distance == 0 for points p on the plane.
type Plane struct {
	Normal   mgl64.Vec3
	Distance float64
}

// DistanceTo is the signed distance of p, positive on the normal side.
func (p Plane) DistanceTo(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point) + p.Distance
}

// Project removes the component of v along the plane normal.
func (p Plane) Project(v mgl64.Vec3) mgl64.Vec3 {
	return ProjectToPlane(p.Normal, v)
}
