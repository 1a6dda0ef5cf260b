package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/downhill/internal/terrain"
)

// Surface answers ground queries. *terrain.Grid implements it.
type Surface interface {
	Sample(x, z float64) terrain.Sample
}

// Model evaluates the force against a terrain surface.
type Model struct {
	surface Surface
	inputs  *Inputs
}

// NewModel binds a surface and the inputs the caller keeps up to date.
func NewModel(surface Surface, inputs *Inputs) *Model {
	return &Model{surface: surface, inputs: inputs}
}

func (m *Model) Mass() float64 { return Mass }

func (m *Model) Inputs() *Inputs { return m.inputs }

func (m *Model) Ground(position mgl64.Vec3) Ground {
	s := m.surface.Sample(position[0], position[2])
	return Ground{
		Plane:    s.Plane(position[0], position[2]),
		Friction: s.Friction,
		Depth:    s.Depth,
	}
}

func (m *Model) Force(position, velocity mgl64.Vec3) mgl64.Vec3 {
	return Force(position, velocity, m.inputs, m.Ground(position))
}

func (m *Model) Terms(position, velocity mgl64.Vec3) Terms {
	return Compute(position, velocity, m.inputs, m.Ground(position))
}
