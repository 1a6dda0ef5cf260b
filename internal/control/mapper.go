package control

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/downhill/internal/dynamo"
)

// PaddlingDuration is the shortest paddle stroke in seconds.
const PaddlingDuration = 0.4

// Mapper holds the control state between frames. The zero value is ready
// to use.
type Mapper struct {
	state dynamo.ControlState
}

// Update maps the intent of the frame starting at now.
func (m *Mapper) Update(in Intent, phase dynamo.Phase, now float64) dynamo.ControlState {
	s := &m.state
	s.TurnFactor = 0

	brake, paddle := in.Brake, in.Paddle
	if phase == dynamo.PhaseBraking {
		brake, paddle = true, false
	} else {
		s.TurnFactor = mgl64.Clamp(in.Turn, -1, 1)
	}

	if paddle != brake {
		s.Braking = brake
		if paddle && !s.Paddling {
			s.Paddling = true
			s.PaddleStartTime = now
		}
	} else {
		s.Braking = false
	}

	if s.Paddling && !paddle && now-s.PaddleStartTime > PaddlingDuration {
		s.Paddling = false
	}
	return *s
}

func (m *Mapper) State() dynamo.ControlState { return m.state }

func (m *Mapper) Reset() { m.state = dynamo.ControlState{} }
