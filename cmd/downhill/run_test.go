package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/downhill/internal/config"
)

func resolveArgs(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	var flags raceFlags
	cmd := &cobra.Command{Use: "test"}
	flags.register(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	return flags.resolve(cmd)
}

func TestResolveDefaults(t *testing.T) {
	cfg, err := resolveArgs(t)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Course != config.DefaultCourse || cfg.Controller != "none" || cfg.Dt != config.DefaultDt {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestResolvePresetThenFlags(t *testing.T) {
	cfg, err := resolveArgs(t, "--preset", "slalom", "--kp", "0.3", "--time", "10")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Course != "bumpy-ride" || cfg.Obstacles != 120 {
		t.Errorf("preset not applied: %+v", cfg)
	}
	if cfg.ControllerParams.Kp != 0.3 || cfg.Duration != 10 {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.ControllerParams.Kd != 0.04 {
		t.Errorf("unset flag overrode preset: kd = %g", cfg.ControllerParams.Kd)
	}
}

func TestResolveConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := "course: frozen-river\ncontroller: pid\nseed: 9\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := resolveArgs(t, "--config", path, "--seed", "12")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Course != "frozen-river" || cfg.Controller != "pid" {
		t.Errorf("config file not applied: %+v", cfg)
	}
	if cfg.Seed != 12 {
		t.Errorf("seed = %d, want flag value 12", cfg.Seed)
	}
}

func TestResolveScriptSelectsController(t *testing.T) {
	cfg, err := resolveArgs(t, "--script", "inputs.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Controller != "script" || cfg.ControllerParams.Script != "inputs.yaml" {
		t.Errorf("script not selected: %+v", cfg)
	}
}

func TestResolveErrors(t *testing.T) {
	if _, err := resolveArgs(t, "--preset", "downhill-racer"); err == nil {
		t.Error("expected error for unknown preset")
	}
	if _, err := resolveArgs(t, "--dt", "0"); err == nil {
		t.Error("expected validation error for zero dt")
	}
	if _, err := resolveArgs(t, "--config", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestParseGrid(t *testing.T) {
	names, ranges, err := parseGrid([]string{"kp=0:0.3:4", "target=-2:2:1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "kp" || names[1] != "target" {
		t.Fatalf("names = %v", names)
	}
	if len(ranges[0]) != 4 || ranges[0][3] != 0.3 {
		t.Errorf("kp range = %v", ranges[0])
	}
	if len(ranges[1]) != 1 || ranges[1][0] != -2 {
		t.Errorf("target range = %v", ranges[1])
	}

	for _, bad := range []string{"kp", "kp=a:b:c", "kp=0:1:0"} {
		if _, _, err := parseGrid([]string{bad}); err == nil {
			t.Errorf("parseGrid(%q): expected error", bad)
		}
	}
}
