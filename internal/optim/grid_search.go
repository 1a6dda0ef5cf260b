// Package optim tunes controller parameters by exhaustive grid search.
package optim

import (
	"context"
	"fmt"
	"maps"
	"math"

	"github.com/san-kum/downhill/internal/sim"
)

// Objective scores a race; lower is better.
type Objective func(r *sim.Result) float64

// FinishTime scores finishers by their time and ranks every finisher
// ahead of every non-finisher. Non-finishers are ordered by how far they
// got.
func FinishTime(r *sim.Result) float64 {
	if r.Finished() {
		return r.FinishTime
	}
	last, ok := r.Final()
	if !ok {
		return math.Inf(1)
	}
	return 1e6 + last.State.Position.Z()
}

// Metric minimizes a named race metric.
func Metric(name string) Objective {
	return func(r *sim.Result) float64 {
		v, ok := r.Metrics[name]
		if !ok {
			return math.Inf(1)
		}
		return v
	}
}

// Build creates the race for one parameter assignment.
type Build func(params map[string]float64) (*sim.Simulator, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameters but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("parameter %s has no values", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Linspace returns n evenly spaced values from lo to hi.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	out[n-1] = hi
	return out
}

// Evaluation is one point of the grid.
type Evaluation struct {
	Params map[string]float64
	Score  float64
}

// Search races every combination and returns the best one and the
// number of races run. A failing race aborts the search.
func (g *GridSearch) Search(ctx context.Context, build Build, cfg sim.Config, objective Objective) (Evaluation, int, error) {
	best := Evaluation{Score: math.Inf(1)}
	runs := 0

	var visit func(depth int, current map[string]float64) error
	visit = func(depth int, current map[string]float64) error {
		if depth == len(g.paramNames) {
			s, err := build(current)
			if err != nil {
				return err
			}
			result, err := s.Run(ctx, cfg)
			if err != nil {
				return fmt.Errorf("params %v: %w", current, err)
			}
			runs++

			if score := objective(result); score < best.Score || best.Params == nil {
				best = Evaluation{Params: maps.Clone(current), Score: score}
			}
			return nil
		}

		name := g.paramNames[depth]
		for _, val := range g.ranges[depth] {
			next := maps.Clone(current)
			next[name] = val
			if err := visit(depth+1, next); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(0, make(map[string]float64)); err != nil {
		return best, runs, err
	}
	return best, runs, nil
}
