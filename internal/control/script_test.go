package control

import (
	"os"
	"path/filepath"
	"testing"
)

const slalom = `
steps:
  - at: 4
    turn: -0.5
  - at: 0
    paddle: true
  - at: 2
    turn: 1
  - at: 6
    brake: true
`

func TestScriptDecide(t *testing.T) {
	s, err := ParseScript([]byte(slalom))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		t    float64
		want Intent
	}{
		{0, Intent{Paddle: true}},
		{1.9, Intent{Paddle: true}},
		{2, Intent{Turn: 1}},
		{5, Intent{Turn: -0.5}},
		{100, Intent{Brake: true}},
	}
	for _, tt := range tests {
		if got := s.Decide(Observation{Time: tt.t}); got != tt.want {
			t.Errorf("t=%v: got %+v, want %+v", tt.t, got, tt.want)
		}
	}
}

func TestScriptBeforeFirstStep(t *testing.T) {
	s, err := ParseScript([]byte("steps:\n  - at: 1\n    turn: 1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Decide(Observation{Time: 0.5}); got != (Intent{}) {
		t.Errorf("got %+v before the first step", got)
	}
}

func TestParseScriptErrors(t *testing.T) {
	for name, src := range map[string]string{
		"negative time": "steps:\n  - at: -1\n",
		"turn range":    "steps:\n  - at: 0\n    turn: 2\n",
		"bad yaml":      "steps: [",
	} {
		if _, err := ParseScript([]byte(src)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte(slalom), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadScript(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Steps) != 4 || s.Steps[0].At != 0 {
		t.Errorf("steps = %+v", s.Steps)
	}

	if _, err := LoadScript(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
