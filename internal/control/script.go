package control

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Step holds an intent from At seconds until the next step begins.
type Step struct {
	At     float64 `yaml:"at"`
	Intent `yaml:",inline"`
}

// Script replays a fixed input schedule.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// ParseScript decodes a YAML schedule. Steps are sorted by start time.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	for i, st := range s.Steps {
		if st.At < 0 {
			return nil, fmt.Errorf("parse script: step %d starts at %g", i, st.At)
		}
		if st.Turn < -1 || st.Turn > 1 {
			return nil, fmt.Errorf("parse script: step %d turn %g outside [-1, 1]", i, st.Turn)
		}
	}
	sort.SliceStable(s.Steps, func(i, j int) bool { return s.Steps[i].At < s.Steps[j].At })
	return &s, nil
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

func (s *Script) Decide(obs Observation) Intent {
	i := sort.Search(len(s.Steps), func(i int) bool { return s.Steps[i].At > obs.Time })
	if i == 0 {
		return Intent{}
	}
	return s.Steps[i-1].Intent
}

func (s *Script) Reset()       {}
func (s *Script) Name() string { return "script" }
