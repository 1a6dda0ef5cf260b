// Package sim runs a race: the frame loop around the player, the race
// phases, pickups, metrics and observers.
package sim

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/downhill/internal/collision"
	"github.com/san-kum/downhill/internal/control"
	"github.com/san-kum/downhill/internal/course"
	"github.com/san-kum/downhill/internal/dynamo"
	"github.com/san-kum/downhill/internal/integrators"
	"github.com/san-kum/downhill/internal/player"
	"github.com/san-kum/downhill/internal/terrain"
)

// FinishedSpeed ends the braking phase past the finish line.
const FinishedSpeed = 3.0

type Simulator struct {
	course     *course.Course
	player     *player.Player
	controller control.Controller
	mapper     control.Mapper
	metrics    []Metric
	observers  []Observer
	logger     *slog.Logger

	// per-run state
	frame   int
	time    float64
	phase   dynamo.Phase
	result  *Result
	terrain terrain.Kind
}

// New prepares a race on c. A nil stepper selects the adaptive
// integrator and a nil controller glides.
func New(c *course.Course, stepper integrators.Stepper, controller control.Controller) *Simulator {
	if controller == nil {
		controller = control.NewNone()
	}
	s := &Simulator{
		course:     c,
		controller: controller,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	resolver := collision.NewResolver(c.Field)
	resolver.OnHit = s.onHit
	s.player = player.New(c.Config, c.Grid, resolver, stepper)
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

func (s *Simulator) Player() *player.Player { return s.player }

func (s *Simulator) Course() *course.Course { return s.course }

func (s *Simulator) validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.RecordEvery < 0 {
		return fmt.Errorf("record interval must not be negative, got %d", cfg.RecordEvery)
	}
	return nil
}

func (s *Simulator) reset() {
	s.player.Reset()
	s.course.Field.Reset()
	s.mapper.Reset()
	s.controller.Reset()
	for _, m := range s.metrics {
		m.Reset()
	}
	s.frame = 0
	s.time = 0
	s.phase = dynamo.PhaseRacing
	pos := s.player.State().Position
	s.terrain = s.course.Grid.DominantTerrainAt(pos[0], pos[2]).Kind()
}

// Run races until the player finishes or cfg.Duration elapses. The
// context is checked between frames. On error the partial result is
// returned with it.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Ceil(cfg.Duration/cfg.Dt - 1e-9))
	every := max(cfg.RecordEvery, 1)
	s.result = &Result{
		Frames:  make([]Frame, 0, steps/every+2),
		Metrics: make(map[string]float64),
	}
	result := s.result
	defer func() { s.result = nil }()

	s.reset()
	s.logger.Debug("race start", "course", s.course.Config.Name, "controller", s.controller.Name(),
		"stepper", s.player.Stepper().Name(), "frames", steps)

	start := s.snapshot(dynamo.ControlState{})
	for _, m := range s.metrics {
		m.Observe(start)
	}
	result.Frames = append(result.Frames, start)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, s.fail(fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err()))
		default:
		}

		state := s.player.State()
		intent := s.controller.Decide(control.Observation{
			Time:   s.time,
			State:  state,
			Phase:  s.phase,
			Course: s.course.Config,
		})
		ctrl := s.mapper.Update(intent, s.phase, s.time)

		if err := s.player.Update(cfg.Dt, s.time, ctrl, s.phase); err != nil {
			s.finish(result)
			return result, s.fail(err)
		}
		s.frame++
		s.time += cfg.Dt

		s.advancePhase(result)
		s.trackTerrain()

		f := s.snapshot(ctrl)
		for _, m := range s.metrics {
			m.Observe(f)
		}
		for _, o := range s.observers {
			o.OnFrame(f)
		}
		if s.frame%every == 0 || s.phase == dynamo.PhaseFinished {
			result.Frames = append(result.Frames, f)
		}

		if s.phase == dynamo.PhaseFinished {
			break
		}
	}

	s.finish(result)
	s.logger.Info("race over", "course", s.course.Config.Name, "phase", s.phase,
		"time", result.FinishTime, "collected", result.Collected, "collisions", result.Collisions)
	return result, nil
}

func (s *Simulator) advancePhase(result *Result) {
	state := s.player.State()
	switch s.phase {
	case dynamo.PhaseRacing:
		if n := s.course.Field.Collect(s.player.LastPosition(), state.Position); n > 0 {
			result.Collected += n
			s.emit(Event{Kind: EventPickup, Detail: fmt.Sprintf("%d herring", n)})
		}
		if -state.Position[2] >= s.course.Config.PlayLength {
			result.FinishTime = s.time
			if s.course.Config.ShowOutro {
				s.player.SaveFinishSpeed()
				s.setPhase(dynamo.PhaseBraking)
			} else {
				s.setPhase(dynamo.PhaseFinished)
			}
		}
	case dynamo.PhaseBraking:
		if state.Speed() < FinishedSpeed {
			s.setPhase(dynamo.PhaseFinished)
		}
	}
}

func (s *Simulator) setPhase(p dynamo.Phase) {
	s.logger.Debug("phase change", "from", s.phase, "to", p, "t", s.time)
	s.phase = p
	s.emit(Event{Kind: EventPhaseChange, Detail: p.String()})
}

func (s *Simulator) trackTerrain() {
	pos := s.player.State().Position
	kind := s.course.Grid.DominantTerrainAt(pos[0], pos[2]).Kind()
	if kind != s.terrain {
		s.emit(Event{Kind: EventTerrainChange, Detail: fmt.Sprintf("%s -> %s", s.terrain, kind)})
		s.terrain = kind
	}
}

func (s *Simulator) onHit(o *collision.Obstacle, velocity mgl64.Vec3) {
	if s.result == nil {
		return
	}
	s.result.Collisions++
	s.emit(Event{Kind: EventCollision, Speed: velocity.Len(), Detail: o.Kind.Name})
}

func (s *Simulator) emit(e Event) {
	e.Frame = s.frame
	e.Time = s.time
	if e.Speed == 0 {
		e.Speed = s.player.State().Speed()
	}
	s.logger.Debug("race event", "kind", e.Kind, "frame", e.Frame, "detail", e.Detail, "speed", e.Speed)
	if s.result != nil {
		s.result.Events = append(s.result.Events, e)
	}
	for _, o := range s.observers {
		if eo, ok := o.(EventObserver); ok {
			eo.OnEvent(e)
		}
	}
}

func (s *Simulator) snapshot(ctrl dynamo.ControlState) Frame {
	state := s.player.State()
	collected := 0
	if s.result != nil {
		collected = s.result.Collected
	}
	return Frame{
		Index:     s.frame,
		Time:      s.time,
		State:     state,
		Control:   ctrl,
		Phase:     s.phase,
		Height:    s.course.Grid.HeightAt(state.Position[0], state.Position[2]),
		Terrain:   s.terrain,
		Collected: collected,
	}
}

func (s *Simulator) finish(result *Result) {
	result.Phase = s.phase
	result.FramesRun = s.frame
	result.Stats = s.player.Stepper().Stats()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) fail(err error) error {
	s.logger.Error("race aborted", "frame", s.frame, "err", err)
	return &dynamo.SimulationError{
		Frame:   s.frame,
		Time:    s.time,
		State:   s.player.State(),
		Wrapped: err,
	}
}
