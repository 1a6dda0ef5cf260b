package sim

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/downhill/internal/collision"
	"github.com/san-kum/downhill/internal/config"
	"github.com/san-kum/downhill/internal/course"
	"github.com/san-kum/downhill/internal/dynamo"
	"github.com/san-kum/downhill/internal/terrain"
)

const frameDt = 1.0 / 60.0

// iceRun is a plain ice slope. The player starts on the center line and
// slides straight down it.
func iceRun(outro bool, records ...collision.Record) *course.Course {
	const cols, rows = 11, 41
	cfg := config.Course{
		Name: "ice-run", Width: 20, Length: 200, PlayWidth: 20, PlayLength: 100,
		StartX: 10, StartY: -5, Angle: 30, FinishBrake: 100, ShowOutro: outro,
	}
	hf := terrain.Heightfield{
		Width:     cols,
		Height:    rows,
		Elevation: make([]int, cols*rows),
		Color:     make([]int, cols*rows),
	}
	for i := range hf.Elevation {
		hf.Elevation[i] = terrain.BaseHeight
		hf.Color[i] = course.IceColor
	}
	c, err := course.New(cfg, hf, records)
	Expect(err).NotTo(HaveOccurred())
	return c
}

type frameCounter struct {
	frames int
	events []EventKind
}

func (c *frameCounter) OnFrame(Frame)   { c.frames++ }
func (c *frameCounter) OnEvent(e Event) { c.events = append(c.events, e.Kind) }

type lastSpeed struct{ v float64 }

func (m *lastSpeed) Name() string    { return "last_speed" }
func (m *lastSpeed) Observe(f Frame) { m.v = f.State.Speed() }
func (m *lastSpeed) Value() float64  { return m.v }
func (m *lastSpeed) Reset()          { m.v = 0 }

func eventsOf(r *Result, kind EventKind) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

var _ = Describe("Simulator", func() {
	ctx := context.Background()

	Describe("config validation", func() {
		It("rejects a non-positive step", func() {
			_, err := New(iceRun(false), nil, nil).Run(ctx, Config{Dt: 0, Duration: 1})
			Expect(err).To(HaveOccurred())
		})

		It("rejects a non-positive duration", func() {
			_, err := New(iceRun(false), nil, nil).Run(ctx, Config{Dt: frameDt, Duration: -1})
			Expect(err).To(HaveOccurred())
		})

		It("rejects a negative record interval", func() {
			_, err := New(iceRun(false), nil, nil).Run(ctx, Config{Dt: frameDt, Duration: 1, RecordEvery: -2})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("frame recording", func() {
		It("records the start frame and every update", func() {
			res, err := New(iceRun(false), nil, nil).Run(ctx, Config{Dt: frameDt, Duration: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.FramesRun).To(Equal(60))
			Expect(res.Frames).To(HaveLen(61))
			Expect(res.Phase).To(Equal(dynamo.PhaseRacing))
			Expect(res.Finished()).To(BeFalse())
			Expect(res.Stats.Frames).To(Equal(60))

			first := res.Frames[0]
			Expect(first.Index).To(Equal(0))
			Expect(first.State.Position.X()).To(BeNumerically("~", 10, 1e-9))
			Expect(first.State.Position.Z()).To(BeNumerically("~", -5, 1e-9))
			Expect(first.Terrain).To(Equal(terrain.Ice))
		})

		It("thins frames by the record interval", func() {
			res, err := New(iceRun(false), nil, nil).Run(ctx, Config{Dt: frameDt, Duration: 1, RecordEvery: 10})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Frames).To(HaveLen(7))
			Expect(res.Frames[1].Index).To(Equal(10))
		})

		It("slides downhill", func() {
			res, err := New(iceRun(false), nil, nil).Run(ctx, Config{Dt: frameDt, Duration: 2})
			Expect(err).NotTo(HaveOccurred())
			last, ok := res.Final()
			Expect(ok).To(BeTrue())
			Expect(last.State.Position.Z()).To(BeNumerically("<", -5))
			Expect(last.State.Speed()).To(BeNumerically(">", 3))
			Expect(last.Height).To(BeNumerically("<", 0))
		})
	})

	Describe("finish line", func() {
		It("finishes at once without an outro", func() {
			res, err := New(iceRun(false), nil, nil).Run(ctx, Config{Dt: frameDt, Duration: 60})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Phase).To(Equal(dynamo.PhaseFinished))
			Expect(res.FinishTime).To(BeNumerically(">", 0))

			last, _ := res.Final()
			Expect(-last.State.Position.Z()).To(BeNumerically(">=", 100))
			Expect(last.Time).To(BeNumerically("~", res.FinishTime, 1e-9))

			phases := eventsOf(res, EventPhaseChange)
			Expect(phases).To(HaveLen(1))
			Expect(phases[0].Detail).To(Equal("finished"))
		})

		It("brakes past the line with an outro", func() {
			s := New(iceRun(true), nil, nil)
			res, err := s.Run(ctx, Config{Dt: frameDt, Duration: 60})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Phase).To(Equal(dynamo.PhaseFinished))

			phases := eventsOf(res, EventPhaseChange)
			Expect(phases).To(HaveLen(2))
			Expect(phases[0].Detail).To(Equal("braking"))
			Expect(phases[1].Detail).To(Equal("finished"))

			Expect(s.Player().FinishSpeed()).To(BeNumerically(">", FinishedSpeed))
			last, _ := res.Final()
			Expect(last.State.Speed()).To(BeNumerically("<", FinishedSpeed))
			Expect(last.Time).To(BeNumerically(">", res.FinishTime))
		})
	})

	Describe("obstacles", func() {
		It("collects a herring on the line once per run", func() {
			c := iceRun(false, collision.Record{Type: "HERRING", X: 6, Z: 35, Height: 1, Diameter: 2})
			s := New(c, nil, nil)

			for range 2 {
				res, err := s.Run(ctx, Config{Dt: frameDt, Duration: 60})
				Expect(err).NotTo(HaveOccurred())
				Expect(res.Collected).To(Equal(1))
				Expect(eventsOf(res, EventPickup)).To(HaveLen(1))
				last, _ := res.Final()
				Expect(last.Collected).To(Equal(1))
				Expect(c.Field.Remaining()).To(Equal(0))
			}
		})

		It("reports hitting a tree", func() {
			c := iceRun(false, collision.Record{Type: "TREE", X: 5.75, Z: 29, Height: 3, Diameter: 4})
			res, err := New(c, nil, nil).Run(ctx, Config{Dt: frameDt, Duration: 20})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Collisions).To(BeNumerically(">=", 1))

			hits := eventsOf(res, EventCollision)
			Expect(hits).To(HaveLen(res.Collisions))
			Expect(hits[0].Detail).To(Equal("TREE"))
			Expect(hits[0].Speed).To(BeNumerically(">", 0))
		})
	})

	Describe("metrics and observers", func() {
		It("feeds every frame and event", func() {
			s := New(iceRun(false), nil, nil)
			obs := &frameCounter{}
			m := &lastSpeed{}
			s.AddObserver(obs)
			s.AddMetric(m)

			res, err := s.Run(ctx, Config{Dt: frameDt, Duration: 60})
			Expect(err).NotTo(HaveOccurred())
			Expect(obs.frames).To(Equal(res.FramesRun))
			Expect(obs.events).To(ContainElement(EventPhaseChange))

			last, _ := res.Final()
			Expect(res.Metrics).To(HaveKeyWithValue("last_speed", last.State.Speed()))
		})
	})

	Describe("cancellation", func() {
		It("stops between frames", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			res, err := New(iceRun(false), nil, nil).Run(cctx, Config{Dt: frameDt, Duration: 10})
			Expect(errors.Is(err, dynamo.ErrContextCanceled)).To(BeTrue())
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())

			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Frame).To(Equal(0))
			Expect(res).NotTo(BeNil())
			Expect(res.FramesRun).To(Equal(0))
		})
	})
})

var _ = Describe("Ensemble", func() {
	It("runs every member on its own course", func() {
		var built []int
		e := NewEnsemble(func(i int) (*Simulator, error) {
			built = append(built, i)
			c := iceRun(false, collision.Record{Type: "HERRING", X: 6, Z: 35, Height: 1, Diameter: 2})
			return New(c, nil, nil), nil
		}, 3)
		e.SetLimit(1)

		results, err := e.Run(context.Background(), Config{Dt: frameDt, Duration: 60})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		Expect(built).To(HaveLen(3))
		for _, r := range results {
			Expect(r.Collected).To(Equal(1))
			Expect(r.Phase).To(Equal(dynamo.PhaseFinished))
		}
	})

	It("fails when a member cannot be built", func() {
		e := NewEnsemble(func(i int) (*Simulator, error) {
			if i == 1 {
				return nil, errors.New("no course")
			}
			return New(iceRun(false), nil, nil), nil
		}, 2)

		_, err := e.Run(context.Background(), Config{Dt: frameDt, Duration: 1})
		Expect(err).To(MatchError(ContainSubstring("run 1: no course")))
	})
})
