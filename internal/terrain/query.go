package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/downhill/internal/dynamo"
)

// NormalBlend is the barycentric distance from a triangle edge over which
// the flat face normal fades into the interpolated vertex normal.
const NormalBlend = 0.05

// TrackMarkThreshold is the minimum interpolated weight of track-mark
// vertices for a point to take track marks.
const TrackMarkThreshold = 0.5

// Sample is the ground under a world (x, z) position.
type Sample struct {
	Height     float64
	Normal     mgl64.Vec3
	Friction   float64
	Depth      float64
	Terrain    *Terrain
	TrackMarks bool
}

// Plane is the ground tangent plane through the sampled point.
func (s Sample) Plane(x, z float64) dynamo.Plane {
	return dynamo.Plane{
		Normal:   s.Normal,
		Distance: -s.Normal.Dot(mgl64.Vec3{x, s.Height, z}),
	}
}

// triangle is a localized query: three vertex indices into the grid and
// the barycentric weights of the query point.
type triangle struct {
	idx     [3]int
	u, v, w float64
}

func (t triangle) weight(i int) float64 {
	switch i {
	case 0:
		return t.u
	case 1:
		return t.v
	default:
		return t.w
	}
}

func (g *Grid) locate(x, z float64) triangle {
	xi := x / g.width * float64(g.nx-1)
	yi := -z / g.length * float64(g.ny-1)

	xc := clampIndex(xi, g.nx)
	yc := clampIndex(yi, g.ny)

	x0, x1 := int(math.Floor(xc)), int(math.Ceil(xc))
	y0, y1 := int(math.Floor(yc)), int(math.Ceil(yc))
	if x0 == x1 {
		if x1 < g.nx-1 {
			x1++
		} else {
			x0--
		}
	}
	if y0 == y1 {
		if y1 < g.ny-1 {
			y1++
		} else {
			y0--
		}
	}

	var c [3][2]int
	dx, dy := xi-float64(x0), yi-float64(y0)
	if (x0+y0)%2 == 0 {
		if dy < dx {
			c = [3][2]int{{x0, y0}, {x1, y0}, {x1, y1}}
		} else {
			c = [3][2]int{{x1, y1}, {x0, y1}, {x0, y0}}
		}
	} else {
		if dx+dy < 1 {
			c = [3][2]int{{x0, y0}, {x1, y0}, {x0, y1}}
		} else {
			c = [3][2]int{{x1, y1}, {x0, y1}, {x1, y0}}
		}
	}

	// Cramer's rule in grid index space, relative to the third vertex.
	ax := float64(c[0][0] - c[2][0])
	az := float64(c[0][1] - c[2][1])
	bx := float64(c[1][0] - c[2][0])
	bz := float64(c[1][1] - c[2][1])
	qx := xi - float64(c[2][0])
	qz := yi - float64(c[2][1])

	invDet := 1 / (ax*bz - az*bx)
	u := (qx*bz - qz*bx) * invDet
	v := (qz*ax - qx*az) * invDet

	return triangle{
		idx: [3]int{g.index(c[0][0], c[0][1]), g.index(c[1][0], c[1][1]), g.index(c[2][0], c[2][1])},
		u:   u,
		v:   v,
		w:   1 - u - v,
	}
}

// clampIndex keeps a grid coordinate on the grid. NaN selects the first
// cell so a corrupt position yields NaN samples instead of a panic.
func clampIndex(i float64, n int) float64 {
	if math.IsNaN(i) {
		return 0
	}
	return mgl64.Clamp(i, 0, float64(n-1))
}

func (g *Grid) height(t triangle) float64 {
	return t.u*g.points[t.idx[0]].Position[1] +
		t.v*g.points[t.idx[1]].Position[1] +
		t.w*g.points[t.idx[2]].Position[1]
}

func (g *Grid) normal(t triangle) mgl64.Vec3 {
	p0 := g.points[t.idx[0]]
	p1 := g.points[t.idx[1]]
	p2 := g.points[t.idx[2]]

	smooth := p0.Normal.Mul(t.u).Add(p1.Normal.Mul(t.v)).Add(p2.Normal.Mul(t.w))
	face := dynamo.Normalize(p1.Position.Sub(p0.Position).Cross(p2.Position.Sub(p0.Position)))

	f := math.Min(math.Min(t.u, math.Min(t.v, t.w))/NormalBlend, 1)
	return dynamo.Normalize(face.Mul(f).Add(smooth.Mul(1 - f)))
}

func (g *Grid) frictionAndDepth(t triangle) (friction, depth float64) {
	for i, idx := range t.idx {
		terrain := g.points[idx].Terrain
		friction += t.weight(i) * terrain.Friction()
		depth += t.weight(i) * terrain.Depth()
	}
	return friction, depth
}

func (g *Grid) dominant(t triangle) *Terrain {
	switch {
	case t.u >= t.v && t.u >= t.w:
		return g.points[t.idx[0]].Terrain
	case t.v >= t.u && t.v >= t.w:
		return g.points[t.idx[1]].Terrain
	default:
		return g.points[t.idx[2]].Terrain
	}
}

func (g *Grid) trackMarks(t triangle) bool {
	var sum float64
	for i, idx := range t.idx {
		if g.points[idx].Terrain.TrackMarks() {
			sum += t.weight(i)
		}
	}
	return sum >= TrackMarkThreshold
}

// HeightAt interpolates the ground elevation at (x, z).
func (g *Grid) HeightAt(x, z float64) float64 {
	return g.height(g.locate(x, z))
}

// NormalAt returns the unit ground normal at (x, z). Near triangle edges
// the vertex normals dominate so shading and contact vary smoothly.
func (g *Grid) NormalAt(x, z float64) mgl64.Vec3 {
	return g.normal(g.locate(x, z))
}

func (g *Grid) PlaneAt(x, z float64) dynamo.Plane {
	t := g.locate(x, z)
	n := g.normal(t)
	return dynamo.Plane{
		Normal:   n,
		Distance: -n.Dot(mgl64.Vec3{x, g.height(t), z}),
	}
}

func (g *Grid) FrictionAndDepthAt(x, z float64) (friction, depth float64) {
	return g.frictionAndDepth(g.locate(x, z))
}

// DominantTerrainAt returns the terrain of the vertex with the largest
// barycentric weight.
func (g *Grid) DominantTerrainAt(x, z float64) *Terrain {
	return g.dominant(g.locate(x, z))
}

func (g *Grid) CanMarkTracksAt(x, z float64) bool {
	return g.trackMarks(g.locate(x, z))
}

// Sample answers every query at (x, z) from a single triangle lookup.
func (g *Grid) Sample(x, z float64) Sample {
	t := g.locate(x, z)
	friction, depth := g.frictionAndDepth(t)
	return Sample{
		Height:     g.height(t),
		Normal:     g.normal(t),
		Friction:   friction,
		Depth:      depth,
		Terrain:    g.dominant(t),
		TrackMarks: g.trackMarks(t),
	}
}
