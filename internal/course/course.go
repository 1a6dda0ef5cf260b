// Package course assembles a raceable course: the terrain grid built from
// a heightfield and the obstacles standing on it.
//
// Courses come from a directory of images and YAML ([LoadDir]) or from a
// built-in layout with a procedurally generated heightfield ([Generate]).
package course

import (
	"fmt"

	"github.com/san-kum/downhill/internal/collision"
	"github.com/san-kum/downhill/internal/config"
	"github.com/san-kum/downhill/internal/dynamo"
	"github.com/san-kum/downhill/internal/terrain"
)

// Course is immutable apart from the collected flags of its obstacles.
type Course struct {
	Config config.Course
	Grid   *terrain.Grid
	Field  *collision.Field
}

// New builds the grid and places the obstacle records on it.
func New(cfg config.Course, hf terrain.Heightfield, records []collision.Record) (*Course, error) {
	grid, err := terrain.Build(hf, cfg)
	if err != nil {
		return nil, fmt.Errorf("course %s: %w", cfg.Name, err)
	}
	obstacles, err := collision.Place(records, grid)
	if err != nil {
		return nil, fmt.Errorf("course %s: %w", cfg.Name, err)
	}
	return &Course{Config: cfg, Grid: grid, Field: collision.NewField(obstacles)}, nil
}

// Load resolves the course of a run: a course directory when one is set,
// otherwise the named layout with a generated heightfield.
func Load(cfg *config.Config) (*Course, error) {
	if cfg.CourseDir != "" {
		return LoadDir(cfg.CourseDir)
	}

	layout, ok := config.GetCourse(cfg.Course)
	if !ok {
		return nil, fmt.Errorf("%w: unknown course %q", dynamo.ErrInvalidCourse, cfg.Course)
	}
	hf, err := Generate(cfg.Generator, layout, cfg.Grid.Columns, cfg.Grid.Rows, cfg.Seed)
	if err != nil {
		return nil, err
	}
	records := Scatter(layout, hf.Width, hf.Height, cfg.Obstacles, cfg.Seed)
	return New(layout, hf, records)
}
