package terrain

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/downhill/internal/config"
	"github.com/san-kum/downhill/internal/dynamo"
)

// BaseHeight is the elevation pixel value of zero relief.
const BaseHeight = 127

// Heightfield is raw course data: Width × Height elevation pixels (0..255)
// and packed 0xRRGGBB terrain colors, both row-major as stored in the
// source images.
type Heightfield struct {
	Width     int
	Height    int
	Elevation []int
	Color     []int
}

func (hf Heightfield) validate() error {
	if hf.Width < 2 || hf.Height < 2 {
		return fmt.Errorf("%w: %dx%d", dynamo.ErrInvalidHeightfield, hf.Width, hf.Height)
	}
	n := hf.Width * hf.Height
	if len(hf.Elevation) != n || len(hf.Color) != n {
		return fmt.Errorf("%w: expected %d samples, got %d elevation and %d color",
			dynamo.ErrInvalidHeightfield, n, len(hf.Elevation), len(hf.Color))
	}
	return nil
}

// Build converts a heightfield into a grid laid out by course. The
// source images are mirrored in x, and every row is lowered by the course
// slope.
func Build(hf Heightfield, course config.Course) (*Grid, error) {
	if err := hf.validate(); err != nil {
		return nil, err
	}
	if err := course.Validate(); err != nil {
		return nil, err
	}

	nx, ny := hf.Width, hf.Height
	slope := math.Tan(mgl64.DegToRad(course.Angle))
	points := make([]GridPoint, nx*ny)

	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			src := nx - x - 1 + y*nx

			terrain, err := FromColor(hf.Color[src])
			if err != nil {
				return nil, fmt.Errorf("pixel (%d, %d): %w", x, y, err)
			}

			elevation := float64(hf.Elevation[src]-BaseHeight) / 255 * course.Scale
			elevation -= float64(y) / float64(ny) * course.Length * slope

			points[x+y*nx] = GridPoint{
				Position: mgl64.Vec3{
					float64(x) / float64(nx-1) * course.Width,
					elevation,
					-float64(y) / float64(ny-1) * course.Length,
				},
				Terrain: terrain,
			}
		}
	}

	return NewGrid(nx, ny, course.Width, course.Length, points)
}
