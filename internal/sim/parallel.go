package sim

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Factory builds the simulator of run i. Every run needs its own course
// since pickups mutate the obstacle field.
type Factory func(i int) (*Simulator, error)

type Ensemble struct {
	build   Factory
	numRuns int
	limit   int
}

func NewEnsemble(build Factory, numRuns int) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, limit: runtime.GOMAXPROCS(0)}
}

// SetLimit caps the number of races run at once.
func (e *Ensemble) SetLimit(n int) {
	if n > 0 {
		e.limit = n
	}
}

// Run races every member and returns the results in run order. The first
// failure cancels the remaining runs.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			s, err := e.build(i)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			res, err := s.Run(ctx, cfg)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
