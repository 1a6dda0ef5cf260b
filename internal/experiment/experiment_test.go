package experiment

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/downhill/internal/config"
	"github.com/san-kum/downhill/internal/control"
)

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Grid = config.GridConfig{Columns: 16, Rows: 64}
	cfg.Duration = 2
	cfg.Obstacles = 8
	cfg.Seed = 3
	return cfg
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	for _, name := range r.ListSteppers() {
		s, err := r.GetStepper(name)
		if err != nil {
			t.Fatalf("GetStepper(%q): %v", name, err)
		}
		if s.Name() != name {
			t.Errorf("stepper %q reports name %q", name, s.Name())
		}
	}
	if _, err := r.GetStepper("verlet"); err == nil {
		t.Error("expected error for unknown stepper")
	}

	want := []string{"manual", "none", "pid", "script"}
	got := r.ListControllers()
	if len(got) != len(want) {
		t.Fatalf("controllers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("controllers[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if _, err := r.GetController("lqr", config.ControllerConfig{}); err == nil {
		t.Error("expected error for unknown controller")
	}
	if _, err := r.GetController("script", config.ControllerConfig{}); err == nil {
		t.Error("expected error for script without a file")
	}

	pid, err := r.GetController("pid", config.ControllerConfig{Kp: 0.2, Paddle: true})
	if err != nil {
		t.Fatal(err)
	}
	params := pid.(control.Configurable).GetParams()
	if params["kp"] != 0.2 || params["paddle"] != 1 {
		t.Errorf("pid params = %v", params)
	}
}

func TestScriptController(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.yaml")
	script := "steps:\n  - at: 0\n    turn: 0.5\n  - at: 1\n    brake: true\n"
	if err := os.WriteFile(path, []byte(script), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := NewRegistry().GetController("script", config.ControllerConfig{Script: path})
	if err != nil {
		t.Fatal(err)
	}
	if in := c.Decide(control.Observation{Time: 1.5}); !in.Brake {
		t.Errorf("intent at 1.5s = %+v, want braking", in)
	}
}

func TestExperimentRun(t *testing.T) {
	exp, err := New(smallConfig(), NewRegistry())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.FramesRun != 120 {
		t.Errorf("frames run = %d, want 120", res.FramesRun)
	}
	for _, name := range []string{"max_speed", "distance", "drop"} {
		if res.Metrics[name] <= 0 {
			t.Errorf("metric %s = %f, want positive", name, res.Metrics[name])
		}
	}

	meta := exp.Metadata()
	if meta.Course != config.DefaultCourse || meta.Controller != "none" || meta.Generator != "slope" {
		t.Errorf("metadata = %+v", meta)
	}
	if meta.Params != nil {
		t.Errorf("none controller should have no params, got %v", meta.Params)
	}
}

func TestExperimentRejectsBadConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Course = "no-such-hill"
	if _, err := New(cfg, NewRegistry()); err == nil {
		t.Error("expected error for unknown course")
	}

	cfg = smallConfig()
	cfg.Stepper = "verlet"
	if _, err := New(cfg, NewRegistry()); err == nil {
		t.Error("expected error for unknown stepper")
	}
}

func TestSetParams(t *testing.T) {
	cfg := smallConfig()
	cfg.Controller = "pid"
	exp, err := New(cfg, NewRegistry())
	if err != nil {
		t.Fatal(err)
	}

	if err := exp.SetParams(map[string]float64{"kp": 0.5, "target": -3}); err != nil {
		t.Fatalf("SetParams: %v", err)
	}
	params := exp.Metadata().Params
	if params["kp"] != 0.5 || params["target"] != -3 {
		t.Errorf("params = %v", params)
	}
	if err := exp.SetParams(map[string]float64{"gain": 1}); err == nil {
		t.Error("expected error for unknown parameter")
	}

	none, err := New(smallConfig(), NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	if err := none.SetParams(map[string]float64{"kp": 1}); err == nil {
		t.Error("expected error for controller without parameters")
	}
	if err := none.SetParams(nil); err != nil {
		t.Errorf("empty params should be accepted: %v", err)
	}
}

func TestRunEnsemble(t *testing.T) {
	results, err := RunEnsemble(context.Background(), smallConfig(), NewRegistry(), 3)
	if err != nil {
		t.Fatalf("RunEnsemble: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, r := range results {
		if r == nil || r.FramesRun != 120 {
			t.Errorf("run %d: %+v", i, r)
		}
	}
}
