package terrain

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/downhill/internal/dynamo"
)

// GridPoint is one heightfield vertex in world coordinates.
type GridPoint struct {
	Position mgl64.Vec3
	Normal   mgl64.Vec3
	Terrain  *Terrain
}

// Grid is an immutable row-major nx × ny heightfield. Column x maps to
// world x in [0, width], row y maps to world z in [-length, 0].
//
// A Grid is safe for concurrent readers.
type Grid struct {
	nx, ny        int
	width, length float64
	points        []GridPoint
}

// NewGrid takes ownership of points and computes their vertex normals.
// Normals already present in points are overwritten.
func NewGrid(nx, ny int, width, length float64, points []GridPoint) (*Grid, error) {
	if nx < 2 || ny < 2 {
		return nil, fmt.Errorf("%w: grid must be at least 2x2, got %dx%d", dynamo.ErrInvalidHeightfield, nx, ny)
	}
	if len(points) != nx*ny {
		return nil, fmt.Errorf("%w: %d points for %dx%d grid", dynamo.ErrInvalidHeightfield, len(points), nx, ny)
	}
	if !(width > 0) || !(length > 0) {
		return nil, fmt.Errorf("%w: size %gx%g", dynamo.ErrInvalidCourse, width, length)
	}
	for i := range points {
		if points[i].Terrain == nil {
			return nil, fmt.Errorf("%w: point %d has no terrain", dynamo.ErrInvalidHeightfield, i)
		}
	}

	g := &Grid{nx: nx, ny: ny, width: width, length: length, points: points}
	g.computeNormals()
	return g, nil
}

func (g *Grid) Columns() int    { return g.nx }
func (g *Grid) Rows() int       { return g.ny }
func (g *Grid) Width() float64  { return g.width }
func (g *Grid) Length() float64 { return g.length }

// Point returns the vertex at column x, row y.
func (g *Grid) Point(x, y int) GridPoint {
	return g.points[g.index(x, y)]
}

func (g *Grid) index(x, y int) int {
	if x < 0 || x >= g.nx || y < 0 || y >= g.ny {
		panic(fmt.Sprintf("terrain: grid index (%d, %d) outside %dx%d", x, y, g.nx, g.ny))
	}
	return x + y*g.nx
}

func (g *Grid) position(x, y int) mgl64.Vec3 {
	return g.points[x+y*g.nx].Position
}

// computeNormals sums the face normals of the triangles incident to each
// vertex. Even vertices sit at the center of an eight triangle fan, odd
// vertices touch four.
func (g *Grid) computeNormals() {
	dynamo.ParallelFor(g.ny, 16, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < g.nx; x++ {
				g.points[x+y*g.nx].Normal = g.vertexNormal(x, y)
			}
		}
	})
}

func (g *Grid) vertexNormal(x, y int) mgl64.Vec3 {
	var n mgl64.Vec3
	p0 := g.position(x, y)
	add := func(x1, y1, x2, y2 int) {
		v1 := g.position(x1, y1).Sub(p0)
		v2 := g.position(x2, y2).Sub(p0)
		n = n.Add(v2.Cross(v1))
	}

	left, right := x > 0, x < g.nx-1
	up, down := y > 0, y < g.ny-1

	if (x+y)%2 == 0 {
		if left && up {
			add(x, y-1, x-1, y-1)
			add(x-1, y-1, x-1, y)
		}
		if left && down {
			add(x-1, y, x-1, y+1)
			add(x-1, y+1, x, y+1)
		}
		if right && up {
			add(x+1, y, x+1, y-1)
			add(x+1, y-1, x, y-1)
		}
		if right && down {
			add(x+1, y+1, x+1, y)
			add(x, y+1, x+1, y+1)
		}
	} else {
		if left && up {
			add(x, y-1, x-1, y)
		}
		if left && down {
			add(x-1, y, x, y+1)
		}
		if right && up {
			add(x+1, y, x, y-1)
		}
		if right && down {
			add(x, y+1, x+1, y)
		}
	}

	return dynamo.Normalize(n)
}
