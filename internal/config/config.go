package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/downhill/internal/dynamo"
)

const (
	DefaultDt       = 1.0 / 60.0
	DefaultDuration = 120.0
	DefaultCourse   = "bunny-hill"
	DefaultColumns  = 64
	DefaultRows     = 512
	DefaultKp       = 0.08
	DefaultKi       = 0.0
	DefaultKd       = 0.02
)

// Config describes a single race run.
type Config struct {
	Course           string           `yaml:"course"`
	CourseDir        string           `yaml:"course_dir,omitempty"`
	Generator        string           `yaml:"generator"`
	Grid             GridConfig       `yaml:"grid"`
	Stepper          string           `yaml:"stepper"`
	Controller       string           `yaml:"controller"`
	Dt               float64          `yaml:"dt"`
	Duration         float64          `yaml:"duration"`
	Seed             int64            `yaml:"seed"`
	Obstacles        int              `yaml:"obstacles"`
	ControllerParams ControllerConfig `yaml:"controller_params"`
}

// GridConfig sets the resolution of procedurally generated heightfields.
type GridConfig struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
}

type ControllerConfig struct {
	Kp     float64 `yaml:"kp"`
	Ki     float64 `yaml:"ki"`
	Kd     float64 `yaml:"kd"`
	Target float64 `yaml:"target"` // lane offset from the course center line, meters
	Script string  `yaml:"script,omitempty"`
	Paddle bool    `yaml:"paddle"`
}

func DefaultConfig() *Config {
	return &Config{
		Course:     DefaultCourse,
		Generator:  "slope",
		Grid:       GridConfig{Columns: DefaultColumns, Rows: DefaultRows},
		Stepper:    "adaptive",
		Controller: "none",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		ControllerParams: ControllerConfig{
			Kp: DefaultKp,
			Ki: DefaultKi,
			Kd: DefaultKd,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations that cannot be raced.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g", c.Duration)
	}
	if c.CourseDir == "" {
		if _, ok := GetCourse(c.Course); !ok {
			return fmt.Errorf("%w: unknown course %q", dynamo.ErrInvalidCourse, c.Course)
		}
		if c.Grid.Columns < 2 || c.Grid.Rows < 2 {
			return fmt.Errorf("%w: grid %dx%d", dynamo.ErrInvalidHeightfield, c.Grid.Columns, c.Grid.Rows)
		}
	}
	return nil
}
