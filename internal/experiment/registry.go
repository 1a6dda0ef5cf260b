package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/downhill/internal/config"
	"github.com/san-kum/downhill/internal/control"
	"github.com/san-kum/downhill/internal/integrators"
	"github.com/san-kum/downhill/internal/metrics"
	"github.com/san-kum/downhill/internal/sim"
)

type Registry struct {
	steppers    map[string]func() integrators.Stepper
	controllers map[string]func(config.ControllerConfig) (control.Controller, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		steppers:    make(map[string]func() integrators.Stepper),
		controllers: make(map[string]func(config.ControllerConfig) (control.Controller, error)),
	}

	r.steppers["adaptive"] = func() integrators.Stepper { return integrators.NewAdaptive() }
	r.steppers["rk4"] = func() integrators.Stepper { return integrators.NewRK4(integrators.DefaultFixedStep) }
	r.steppers["euler"] = func() integrators.Stepper { return integrators.NewEuler(integrators.DefaultFixedStep) }

	r.controllers["none"] = func(config.ControllerConfig) (control.Controller, error) {
		return control.NewNone(), nil
	}
	r.controllers["manual"] = func(config.ControllerConfig) (control.Controller, error) {
		return control.NewManual(control.Intent{}), nil
	}
	r.controllers["pid"] = func(p config.ControllerConfig) (control.Controller, error) {
		pid := control.NewPID(p.Kp, p.Ki, p.Kd, p.Target)
		pid.Paddle = p.Paddle
		return pid, nil
	}
	r.controllers["script"] = func(p config.ControllerConfig) (control.Controller, error) {
		if p.Script == "" {
			return nil, fmt.Errorf("script controller needs a script file")
		}
		return control.LoadScript(p.Script)
	}

	return r
}

// RegisterController adds or replaces a controller factory.
func (r *Registry) RegisterController(name string, fn func(config.ControllerConfig) (control.Controller, error)) {
	r.controllers[name] = fn
}

func (r *Registry) GetStepper(name string) (integrators.Stepper, error) {
	fn, ok := r.steppers[name]
	if !ok {
		return nil, fmt.Errorf("unknown stepper: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetController(name string, params config.ControllerConfig) (control.Controller, error) {
	fn, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s", name)
	}
	c, err := fn(params)
	if err != nil {
		return nil, fmt.Errorf("controller %s: %w", name, err)
	}
	return c, nil
}

func (r *Registry) ListSteppers() []string {
	return sortedKeys(r.steppers)
}

func (r *Registry) ListControllers() []string {
	return sortedKeys(r.controllers)
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	return metrics.Standard()
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
