package course

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/downhill/internal/config"
	"github.com/san-kum/downhill/internal/dynamo"
	"github.com/san-kum/downhill/internal/terrain"
)

// Terrain map colors as painted in course images.
const (
	IceColor  = 0x1e90ff
	RockColor = 0x808080
	SnowColor = 0xffffff
)

// A Generator fills a heightfield image for a course layout.
type Generator func(layout config.Course, cols, rows int, rng *rand.Rand) terrain.Heightfield

var generators = map[string]Generator{
	"slope":   slope,
	"plateau": plateau,
	"moguls":  moguls,
	"lakes":   lakes,
}

func ListGenerators() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate builds a cols × rows heightfield. The same seed always gives
// the same field.
func Generate(name string, layout config.Course, cols, rows int, seed int64) (terrain.Heightfield, error) {
	gen, ok := generators[name]
	if !ok {
		return terrain.Heightfield{}, fmt.Errorf("%w: unknown generator %q", dynamo.ErrInvalidHeightfield, name)
	}
	if cols < 2 || rows < 2 {
		return terrain.Heightfield{}, fmt.Errorf("%w: grid %dx%d", dynamo.ErrInvalidHeightfield, cols, rows)
	}
	return gen(layout, cols, rows, rand.New(rand.NewPCG(uint64(seed), 0x5eed))), nil
}

func newHeightfield(cols, rows int) terrain.Heightfield {
	n := cols * rows
	return terrain.Heightfield{
		Width:     cols,
		Height:    rows,
		Elevation: make([]int, n),
		Color:     make([]int, n),
	}
}

// paint fills elevation and color per pixel. u runs across the course in
// [0, 1] and v down it.
func paint(hf terrain.Heightfield, layout config.Course, f func(u, v float64) (elevation float64, color int)) {
	for y := 0; y < hf.Height; y++ {
		for x := 0; x < hf.Width; x++ {
			u := float64(x) / float64(hf.Width-1)
			v := float64(y) / float64(hf.Height-1)
			e, c := f(u, v)
			if outsidePlay(layout, u) {
				c = RockColor
			}
			hf.Elevation[x+y*hf.Width] = int(math.Round(mgl64.Clamp(e, 0, 255)))
			hf.Color[x+y*hf.Width] = c
		}
	}
}

func outsidePlay(layout config.Course, u float64) bool {
	b := layout.BoundaryWidth() / layout.Width
	return u < b || u > 1-b
}

// noise is smoothed value noise on a coarse lattice.
type noise struct {
	cols, rows int
	values     []float64
}

func newNoise(rng *rand.Rand, cols, rows int) noise {
	n := noise{cols: cols, rows: rows, values: make([]float64, (cols+1)*(rows+1))}
	for i := range n.values {
		n.values[i] = rng.Float64()*2 - 1
	}
	return n
}

func (n noise) at(u, v float64) float64 {
	x, y := u*float64(n.cols), v*float64(n.rows)
	x0, y0 := math.Min(math.Floor(x), float64(n.cols-1)), math.Min(math.Floor(y), float64(n.rows-1))
	fx, fy := smooth(x-x0), smooth(y-y0)
	i := int(x0) + int(y0)*(n.cols+1)
	a := n.values[i] + (n.values[i+1]-n.values[i])*fx
	b := n.values[i+n.cols+1] + (n.values[i+n.cols+2]-n.values[i+n.cols+1])*fx
	return a + (b-a)*fy
}

func smooth(t float64) float64 { return t * t * (3 - 2*t) }

func slope(layout config.Course, cols, rows int, rng *rand.Rand) terrain.Heightfield {
	hf := newHeightfield(cols, rows)
	n := newNoise(rng, 6, 24)
	paint(hf, layout, func(u, v float64) (float64, int) {
		return terrain.BaseHeight + 30*n.at(u, v), SnowColor
	})
	return hf
}

func plateau(layout config.Course, cols, rows int, _ *rand.Rand) terrain.Heightfield {
	hf := newHeightfield(cols, rows)
	paint(hf, layout, func(u, v float64) (float64, int) {
		return terrain.BaseHeight, SnowColor
	})
	return hf
}

// moguls covers the slope with a regular pattern of bumps.
func moguls(layout config.Course, cols, rows int, rng *rand.Rand) terrain.Heightfield {
	hf := newHeightfield(cols, rows)
	n := newNoise(rng, 4, 16)
	across := math.Max(2, math.Round(layout.PlayWidth/8))
	down := math.Max(4, math.Round(layout.Length/10))
	paint(hf, layout, func(u, v float64) (float64, int) {
		bump := math.Sin(u*across*math.Pi) * math.Sin(v*down*math.Pi)
		return terrain.BaseHeight + 45*bump + 10*n.at(u, v), SnowColor
	})
	return hf
}

// lakes is a gentle slope with frozen hollows.
func lakes(layout config.Course, cols, rows int, rng *rand.Rand) terrain.Heightfield {
	hf := newHeightfield(cols, rows)
	n := newNoise(rng, 5, 20)
	paint(hf, layout, func(u, v float64) (float64, int) {
		h := n.at(u, v)
		if h < -0.3 {
			return terrain.BaseHeight - 30*0.3, IceColor
		}
		return terrain.BaseHeight + 30*h, SnowColor
	})
	return hf
}
