package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Field indexes the obstacles of a course by role.
type Field struct {
	obstacles    []*Obstacle
	solid        []*Obstacle
	collectables []*Obstacle
	margin       float64
}

func NewField(obstacles []*Obstacle) *Field {
	f := &Field{obstacles: obstacles}
	for _, o := range obstacles {
		if o.Kind.HasCollision {
			f.solid = append(f.solid, o)
		}
		if o.Kind.Collectable {
			f.collectables = append(f.collectables, o)
		}
		f.margin = math.Max(f.margin, o.CollisionRadius)
	}
	return f
}

func (f *Field) Obstacles() []*Obstacle { return f.obstacles }

// Remaining counts collectables not yet picked up.
func (f *Field) Remaining() int {
	n := 0
	for _, o := range f.collectables {
		if !o.Collected {
			n++
		}
	}
	return n
}

// Reset returns every collectable to the course.
func (f *Field) Reset() {
	for _, o := range f.collectables {
		o.Collected = false
	}
}

type bounds struct {
	xMin, xMax, zMin, zMax float64
}

func (f *Field) bounds(start, end mgl64.Vec3) bounds {
	return bounds{
		xMin: math.Min(start[0], end[0]) - f.margin,
		xMax: math.Max(start[0], end[0]) + f.margin,
		zMin: math.Min(start[2], end[2]) - f.margin,
		zMax: math.Max(start[2], end[2]) + f.margin,
	}
}

func (b bounds) contains(p mgl64.Vec3) bool {
	return b.xMin <= p[0] && p[0] <= b.xMax && b.zMin <= p[2] && p[2] <= b.zMax
}

// FindColliding returns the first solid obstacle hit moving from start to
// end, or nil.
func (f *Field) FindColliding(start, end mgl64.Vec3) *Obstacle {
	b := f.bounds(start, end)
	for _, o := range f.solid {
		if b.contains(o.Position) && o.HitsSegment(start, end) {
			return o
		}
	}
	return nil
}

// Collect marks the collectables touched moving from start to end and
// returns how many were picked up.
func (f *Field) Collect(start, end mgl64.Vec3) int {
	b := f.bounds(start, end)
	n := 0
	for _, o := range f.collectables {
		if !o.Collected && b.contains(o.Position) && o.HitsSegment(start, end) {
			o.Collected = true
			n++
		}
	}
	return n
}
