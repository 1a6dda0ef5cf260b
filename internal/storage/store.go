// Package storage persists races: one directory per run holding the run
// metadata as JSON and the recorded frames as CSV.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/san-kum/downhill/internal/dynamo"
	"github.com/san-kum/downhill/internal/sim"
	"github.com/san-kum/downhill/internal/terrain"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type EventRecord struct {
	Kind   string  `json:"kind"`
	Frame  int     `json:"frame"`
	Time   float64 `json:"time"`
	Speed  float64 `json:"speed"`
	Detail string  `json:"detail,omitempty"`
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Course     string             `json:"course"`
	Generator  string             `json:"generator,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Stepper    string             `json:"stepper"`
	Controller string             `json:"controller"`
	Params     map[string]float64 `json:"controller_params,omitempty"`
	Phase      string             `json:"phase"`
	FinishTime float64            `json:"finish_time"`
	Collected  int                `json:"collected"`
	Collisions int                `json:"collisions"`
	FramesRun  int                `json:"frames_run"`
	Stats      integratorStats    `json:"stepper_stats"`
	Metrics    map[string]float64 `json:"metrics"`
	Events     []EventRecord      `json:"events,omitempty"`
}

type integratorStats struct {
	Frames   int     `json:"frames"`
	SubSteps int     `json:"sub_steps"`
	Retries  int     `json:"retries"`
	Floored  int     `json:"floored"`
	MinStep  float64 `json:"min_step"`
	MaxStep  float64 `json:"max_step"`
}

// Describe fills the outcome fields of meta from a result.
func Describe(meta RunMetadata, result *sim.Result) RunMetadata {
	meta.Phase = result.Phase.String()
	meta.FinishTime = result.FinishTime
	meta.Collected = result.Collected
	meta.Collisions = result.Collisions
	meta.FramesRun = result.FramesRun
	meta.Stats = integratorStats(result.Stats)
	meta.Metrics = result.Metrics
	meta.Events = make([]EventRecord, len(result.Events))
	for i, e := range result.Events {
		meta.Events[i] = EventRecord{
			Kind:   e.Kind.String(),
			Frame:  e.Frame,
			Time:   e.Time,
			Speed:  e.Speed,
			Detail: e.Detail,
		}
	}
	return meta
}

// Save writes a run under a fresh ID and returns the ID. meta carries the
// run configuration; the outcome is taken from result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	meta = Describe(meta, result)
	meta.ID = fmt.Sprintf("run_%s", uuid.NewString())
	meta.Timestamp = time.Now().UTC()

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteFrames(csvFile, result.Frames); err != nil {
		return "", fmt.Errorf("writing frames: %w", err)
	}
	return meta.ID, nil
}

var frameHeader = []string{
	"frame", "time", "phase",
	"x", "y", "z", "vx", "vy", "vz",
	"qw", "qx", "qy", "qz",
	"speed", "airborne", "height", "terrain",
	"turn", "braking", "paddling", "collected",
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteFrames writes frames as CSV with a header row.
func WriteFrames(w io.Writer, frames []sim.Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(frameHeader); err != nil {
		return err
	}

	for _, f := range frames {
		st := f.State
		q := st.Orientation
		row := []string{
			strconv.Itoa(f.Index),
			formatFloat(f.Time),
			f.Phase.String(),
			formatFloat(st.Position[0]), formatFloat(st.Position[1]), formatFloat(st.Position[2]),
			formatFloat(st.Velocity[0]), formatFloat(st.Velocity[1]), formatFloat(st.Velocity[2]),
			formatFloat(q.W), formatFloat(q.V[0]), formatFloat(q.V[1]), formatFloat(q.V[2]),
			formatFloat(st.Speed()),
			strconv.FormatBool(st.Airborne),
			formatFloat(f.Height),
			f.Terrain.String(),
			formatFloat(f.Control.TurnFactor),
			strconv.FormatBool(f.Control.Braking),
			strconv.FormatBool(f.Control.Paddling),
			strconv.Itoa(f.Collected),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadFrames parses CSV written by WriteFrames. The derived speed column
// is ignored.
func ReadFrames(r io.Reader) ([]sim.Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(frameHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	frames := make([]sim.Frame, 0, len(records)-1)
	for i, rec := range records[1:] {
		f, err := parseFrame(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// rowParser keeps the first error and turns later parses into no-ops.
type rowParser struct {
	rec []string
	err error
}

func (p *rowParser) float(i int) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(p.rec[i], 64)
	if err != nil {
		p.err = fmt.Errorf("%s: %w", frameHeader[i], err)
	}
	return v
}

func (p *rowParser) int(i int) int {
	if p.err != nil {
		return 0
	}
	v, err := strconv.Atoi(p.rec[i])
	if err != nil {
		p.err = fmt.Errorf("%s: %w", frameHeader[i], err)
	}
	return v
}

func (p *rowParser) bool(i int) bool {
	if p.err != nil {
		return false
	}
	v, err := strconv.ParseBool(p.rec[i])
	if err != nil {
		p.err = fmt.Errorf("%s: %w", frameHeader[i], err)
	}
	return v
}

func parseFrame(rec []string) (sim.Frame, error) {
	p := &rowParser{rec: rec}
	f := sim.Frame{
		Index: p.int(0),
		Time:  p.float(1),
		State: dynamo.KinematicState{
			Position:    mgl64.Vec3{p.float(3), p.float(4), p.float(5)},
			Velocity:    mgl64.Vec3{p.float(6), p.float(7), p.float(8)},
			Orientation: mgl64.Quat{W: p.float(9), V: mgl64.Vec3{p.float(10), p.float(11), p.float(12)}},
			Airborne:    p.bool(14),
		},
		Height: p.float(15),
		Control: dynamo.ControlState{
			TurnFactor: p.float(17),
			Braking:    p.bool(18),
			Paddling:   p.bool(19),
		},
		Collected: p.int(20),
	}
	if p.err != nil {
		return sim.Frame{}, p.err
	}

	var err error
	if f.Phase, err = dynamo.ParsePhase(rec[2]); err != nil {
		return sim.Frame{}, err
	}
	if f.Terrain, err = terrain.ParseKind(rec[16]); err != nil {
		return sim.Frame{}, err
	}
	return f, nil
}

// List returns the stored runs, newest first. Directories without
// readable metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	frames, err := ReadFrames(file)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return frames, nil
}

func (s *Store) Delete(runID string) error {
	dir := filepath.Join(s.baseDir, runID)
	if _, err := os.Stat(filepath.Join(dir, metadataFile)); err != nil {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return os.RemoveAll(dir)
}
