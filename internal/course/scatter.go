package course

import (
	"math/rand/v2"

	"github.com/san-kum/downhill/internal/collision"
	"github.com/san-kum/downhill/internal/config"
)

// clearance keeps generated obstacles away from the start and the finish.
const clearance = 25.0

// Scatter generates n obstacle records for a cols × rows course: a quarter
// of them collectable herring, the rest trees and shrubs inside the play
// area. Start and finish markers are always included.
func Scatter(layout config.Course, cols, rows, n int, seed int64) []collision.Record {
	rng := rand.New(rand.NewPCG(uint64(seed), 0x0b57))
	toGrid := func(x, z float64) (gx, gz float64) {
		gx = float64(cols) - x/layout.Width*float64(cols-1)
		gz = float64(rows) + z/layout.Length*float64(rows-1)
		return gx, gz
	}
	record := func(kind *collision.Kind, x, z, height, diameter float64) collision.Record {
		gx, gz := toGrid(x, z)
		return collision.Record{Type: kind.Name, X: gx, Z: gz, Height: height, Diameter: diameter}
	}

	records := []collision.Record{
		record(collision.Start, layout.StartX, layout.StartY, 3, 0.5),
		record(collision.Finish, layout.Width/2, -layout.PlayLength, 3, 0.5),
	}
	if n <= 0 {
		return records
	}

	lo := layout.BoundaryWidth() + 1
	hi := layout.Width - layout.BoundaryWidth() - 1
	zNear := -clearance
	zFar := -layout.PlayLength + clearance
	if hi <= lo || zFar >= zNear {
		return records
	}

	fish := n / 4
	for i := 0; i < n; i++ {
		x := lo + rng.Float64()*(hi-lo)
		z := zNear + rng.Float64()*(zFar-zNear)
		switch {
		case i < fish:
			records = append(records, record(collision.Herring, x, z, 0.4, 0.6))
		case i%3 == 0:
			records = append(records, record(collision.Shrub, x, z, 1+rng.Float64(), 1.5+rng.Float64()))
		case i%3 == 1:
			records = append(records, record(collision.Tree, x, z, 6+4*rng.Float64(), 2+rng.Float64()))
		default:
			records = append(records, record(collision.TreeBarren, x, z, 5+3*rng.Float64(), 1.5+rng.Float64()))
		}
	}
	return records
}
