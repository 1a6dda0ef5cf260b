package dynamo

import "math"

// Table is a piecewise-linear function through tabulated points. Values
// outside the table extrapolate the first or last segment.
type Table struct {
	xs []float64
	ys []float64
}

// NewTable panics when fewer than two points are given or the slices
// differ in length.
func NewTable(xs, ys []float64) *Table {
	if len(xs) < 2 || len(xs) != len(ys) {
		panic("dynamo: table needs at least two points of equal length")
	}
	t := &Table{
		xs: make([]float64, len(xs)),
		ys: make([]float64, len(ys)),
	}
	copy(t.xs, xs)
	copy(t.ys, ys)
	return t
}

// At evaluates the table at x. NaN maps to NaN.
func (t *Table) At(x float64) float64 {
	if math.IsNaN(x) {
		return math.NaN()
	}
	n := len(t.xs)

	var i int
	switch {
	case x < t.xs[0]:
		i = 0
	case x >= t.xs[n-1]:
		i = n - 2
	default:
		for i = 0; i < n-1; i++ {
			if x < t.xs[i+1] {
				break
			}
		}
	}

	slope := (t.ys[i+1] - t.ys[i]) / (t.xs[i+1] - t.xs[i])
	return t.ys[i] + slope*(x-t.xs[i])
}
