package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for loading and simulation.
var (
	// ErrInvalidState indicates a player state with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidHeightfield indicates heightfield data with bad dimensions.
	ErrInvalidHeightfield = errors.New("dynamo: invalid heightfield")

	// ErrUnknownTerrainColor indicates a terrain map pixel outside the RGB range.
	ErrUnknownTerrainColor = errors.New("dynamo: unknown terrain color")

	// ErrUnknownObstacleKind indicates an obstacle record with an unregistered type.
	ErrUnknownObstacleKind = errors.New("dynamo: unknown obstacle kind")

	// ErrInvalidCourse indicates a course configuration outside valid bounds.
	ErrInvalidCourse = errors.New("dynamo: invalid course configuration")

	// ErrContextCanceled indicates the race was interrupted between frames.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps an error with the frame it happened in.
type SimulationError struct {
	Frame   int
	Time    float64
	State   KinematicState
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
