package collision

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/downhill/internal/terrain"
)

// Obstacle is a static course item standing on the terrain.
type Obstacle struct {
	Kind            *Kind
	Position        mgl64.Vec3
	Height          float64
	Diameter        float64
	CollisionRadius float64
	Collected       bool
}

func NewObstacle(kind *Kind, position mgl64.Vec3, height, diameter float64) *Obstacle {
	return &Obstacle{
		Kind:            kind,
		Position:        position,
		Height:          height,
		Diameter:        diameter,
		CollisionRadius: diameter * kind.CollisionDiameter / 2,
	}
}

// Contains reports whether p is inside the obstacle's collision cylinder.
func (o *Obstacle) Contains(p mgl64.Vec3) bool {
	dx := p[0] - o.Position[0]
	dz := p[2] - o.Position[2]
	r := o.CollisionRadius
	return dx*dx+dz*dz < r*r && p[1] < o.Position[1]+o.Height
}

// HitsSegment tests the segment end and evenly spaced interior points, one
// per collision diameter of travel.
func (o *Obstacle) HitsSegment(start, end mgl64.Vec3) bool {
	if o.Contains(end) {
		return true
	}

	diameter := 2 * o.CollisionRadius
	if diameter <= 0 {
		return false
	}
	movement := end.Sub(start)
	n := int(math.Floor(movement.Len() / diameter))
	if n <= 0 {
		return false
	}

	step := movement.Mul(1 / float64(n+1))
	p := start
	for i := 0; i < n; i++ {
		p = p.Add(step)
		if o.Contains(p) {
			return true
		}
	}
	return false
}

// Record is an obstacle as stored in course files. X and Z are grid
// coordinates counted from the far corner of the heightfield.
type Record struct {
	Type     string  `yaml:"type" json:"type"`
	X        float64 `yaml:"x" json:"x"`
	Z        float64 `yaml:"z" json:"z"`
	Height   float64 `yaml:"height" json:"height"`
	Diameter float64 `yaml:"diameter" json:"diameter"`
}

// Place converts records to obstacles standing on grid.
func Place(records []Record, grid *terrain.Grid) ([]*Obstacle, error) {
	nx, ny := float64(grid.Columns()), float64(grid.Rows())
	obstacles := make([]*Obstacle, 0, len(records))
	for i, rec := range records {
		kind, err := LookupKind(rec.Type)
		if err != nil {
			return nil, fmt.Errorf("obstacle %d: %w", i, err)
		}
		x := (nx - rec.X) / (nx - 1) * grid.Width()
		z := -(ny - rec.Z) / (ny - 1) * grid.Length()
		pos := mgl64.Vec3{x, grid.HeightAt(x, z), z}
		obstacles = append(obstacles, NewObstacle(kind, pos, rec.Height, rec.Diameter))
	}
	return obstacles, nil
}
