// Package automation runs YAML scenarios, parameter sweeps and seed
// studies on top of experiments.
package automation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/downhill/internal/config"
	"github.com/san-kum/downhill/internal/experiment"
	"github.com/san-kum/downhill/internal/sim"
	"github.com/san-kum/downhill/internal/storage"
)

// Scenario is a named sequence of races.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset, or the defaults when Preset is
// empty, and overrides the fields that are set.
type ScenarioStep struct {
	Name       string             `yaml:"name"`
	Preset     string             `yaml:"preset"`
	Course     string             `yaml:"course"`
	CourseDir  string             `yaml:"course_dir"`
	Generator  string             `yaml:"generator"`
	Stepper    string             `yaml:"stepper"`
	Controller string             `yaml:"controller"`
	Script     string             `yaml:"script"`
	Duration   float64            `yaml:"duration"`
	Dt         float64            `yaml:"dt"`
	Grid       *config.GridConfig `yaml:"grid"`
	Seed       *int64             `yaml:"seed"`
	Obstacles  *int               `yaml:"obstacles"`
	Params     map[string]float64 `yaml:"params"`
	Save       bool               `yaml:"save"`
}

// Config resolves the run configuration of the step.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}
	setString(&cfg.Course, s.Course)
	setString(&cfg.CourseDir, s.CourseDir)
	setString(&cfg.Generator, s.Generator)
	setString(&cfg.Stepper, s.Stepper)
	setString(&cfg.Controller, s.Controller)
	setString(&cfg.ControllerParams.Script, s.Script)
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if s.Grid != nil {
		cfg.Grid = *s.Grid
	}
	if s.Seed != nil {
		cfg.Seed = *s.Seed
	}
	if s.Obstacles != nil {
		cfg.Obstacles = *s.Obstacles
	}
	return cfg, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("parse scenario %q: no steps", scenario.Name)
	}
	return &scenario, nil
}

// Options carries the optional collaborators of a scenario run.
type Options struct {
	Store  *storage.Store // receives steps marked save
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type StepResult struct {
	Name   string
	Meta   storage.RunMetadata
	Result *sim.Result
	RunID  string // set when the step was saved
}

// RunScenario executes all steps in order and stops at the first failure,
// returning the steps completed so far.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, opts Options) ([]StepResult, error) {
	log := opts.logger()
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		log.Info("scenario step", "scenario", scenario.Name, "step", name, "n", i+1, "of", len(scenario.Steps))

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp, err := experiment.New(cfg, registry)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		if err := exp.SetParams(step.Params); err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		exp.SetLogger(log)

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Name: name, Meta: storage.Describe(exp.Metadata(), result), Result: result}
		if step.Save && opts.Store != nil {
			if sr.RunID, err = opts.Store.Save(exp.Metadata(), result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.Meta.ID = sr.RunID
		}
		results = append(results, sr)
	}

	return results, nil
}

// ParameterSweep varies one controller parameter over an even grid.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

type SweepResult struct {
	ParamValue float64
	Finished   bool
	FinishTime float64
	MaxSpeed   float64
	Collisions int
	Collected  int
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := *sweep.Base
		exp, err := experiment.New(&cfg, registry)
		if err != nil {
			return nil, err
		}
		if err := exp.SetParams(map[string]float64{sweep.ParamName: paramVal}); err != nil {
			return nil, err
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Finished:   result.Finished(),
			FinishTime: result.FinishTime,
			MaxSpeed:   result.Metrics["max_speed"],
			Collisions: result.Collisions,
			Collected:  result.Collected,
		})
	}

	return results, nil
}

// SeedResult is one member of a seed study: the same configuration raced
// on a differently generated course.
type SeedResult struct {
	Seed       int64
	Finished   bool
	FinishTime float64
	Collisions int
	Collected  int
}

// RunSeeds races base on n consecutive seeds in parallel.
func RunSeeds(ctx context.Context, base *config.Config, registry *experiment.Registry, n int) ([]SeedResult, error) {
	results, err := experiment.RunEnsemble(ctx, base, registry, n)
	if err != nil {
		return nil, err
	}

	out := make([]SeedResult, len(results))
	for i, r := range results {
		out[i] = SeedResult{
			Seed:       base.Seed + int64(i),
			Finished:   r.Finished(),
			FinishTime: r.FinishTime,
			Collisions: r.Collisions,
			Collected:  r.Collected,
		}
	}
	return out, nil
}

// SeedStats counts finishers and averages their finish times.
func SeedStats(results []SeedResult) (finished, unfinished int, meanTime float64) {
	total := 0.0
	for _, r := range results {
		if r.Finished {
			finished++
			total += r.FinishTime
		} else {
			unfinished++
		}
	}
	if finished > 0 {
		meanTime = total / float64(finished)
	}
	return
}
