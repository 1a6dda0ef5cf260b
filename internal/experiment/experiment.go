// Package experiment assembles a race from a run configuration: the
// course, the stepper, the controller and the standard metrics.
package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/downhill/internal/config"
	"github.com/san-kum/downhill/internal/control"
	"github.com/san-kum/downhill/internal/course"
	"github.com/san-kum/downhill/internal/sim"
	"github.com/san-kum/downhill/internal/storage"
)

type Experiment struct {
	cfg        *config.Config
	course     *course.Course
	controller control.Controller
	simulator  *sim.Simulator
}

// New validates cfg and builds everything a run needs. Courses are built
// per experiment since pickups mutate them.
func New(cfg *config.Config, registry *Registry) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c, err := course.Load(cfg)
	if err != nil {
		return nil, err
	}
	stepper, err := registry.GetStepper(cfg.Stepper)
	if err != nil {
		return nil, err
	}
	ctrl, err := registry.GetController(cfg.Controller, cfg.ControllerParams)
	if err != nil {
		return nil, err
	}

	s := sim.New(c, stepper, ctrl)
	for _, m := range registry.DefaultMetrics() {
		s.AddMetric(m)
	}

	return &Experiment{cfg: cfg, course: c, controller: ctrl, simulator: s}, nil
}

// SetParams overrides tunable controller parameters. Unknown names are
// an error; controllers without parameters reject any.
func (e *Experiment) SetParams(params map[string]float64) error {
	if len(params) == 0 {
		return nil
	}
	tunable, ok := e.controller.(control.Configurable)
	if !ok {
		return fmt.Errorf("controller %s has no parameters", e.controller.Name())
	}
	for name, v := range params {
		if !tunable.SetParam(name, v) {
			return fmt.Errorf("controller %s: unknown parameter %q", e.controller.Name(), name)
		}
	}
	return nil
}

func (e *Experiment) SetLogger(l *slog.Logger) { e.simulator.SetLogger(l) }

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.simulator.Run(ctx, sim.Config{
		Dt:       e.cfg.Dt,
		Duration: e.cfg.Duration,
	})
}

// Metadata describes the run configuration for storage.
func (e *Experiment) Metadata() storage.RunMetadata {
	meta := storage.RunMetadata{
		Course:     e.course.Config.Name,
		Seed:       e.cfg.Seed,
		Dt:         e.cfg.Dt,
		Duration:   e.cfg.Duration,
		Stepper:    e.cfg.Stepper,
		Controller: e.controller.Name(),
	}
	if e.cfg.CourseDir == "" {
		meta.Generator = e.cfg.Generator
	}
	if tunable, ok := e.controller.(control.Configurable); ok {
		meta.Params = tunable.GetParams()
	}
	return meta
}

func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

func (e *Experiment) Course() *course.Course { return e.course }

func (e *Experiment) Controller() control.Controller { return e.controller }

// RunEnsemble races n copies of cfg with seeds cfg.Seed, cfg.Seed+1, ...
// so each member gets its own generated course.
func RunEnsemble(ctx context.Context, cfg *config.Config, registry *Registry, n int) ([]*sim.Result, error) {
	ens := sim.NewEnsemble(func(i int) (*sim.Simulator, error) {
		member := *cfg
		member.Seed = cfg.Seed + int64(i)
		exp, err := New(&member, registry)
		if err != nil {
			return nil, err
		}
		return exp.Simulator(), nil
	}, n)
	return ens.Run(ctx, sim.Config{Dt: cfg.Dt, Duration: cfg.Duration})
}
