package control

import (
	"github.com/san-kum/downhill/internal/config"
	"github.com/san-kum/downhill/internal/dynamo"
)

// Intent is the raw input of one frame, before hysteresis.
type Intent struct {
	Turn   float64 `yaml:"turn" json:"turn"`
	Brake  bool    `yaml:"brake" json:"brake"`
	Paddle bool    `yaml:"paddle" json:"paddle"`
}

// Observation is what a controller sees at the start of a frame.
type Observation struct {
	Time   float64
	State  dynamo.KinematicState
	Phase  dynamo.Phase
	Course config.Course
}

type Controller interface {
	Decide(obs Observation) Intent
	Reset()
	Name() string
}

// Configurable controllers expose tunable parameters by name.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) bool
}
