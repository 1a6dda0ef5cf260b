package integrators

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const mass = 20.0

type forceFunc func(p, v mgl64.Vec3) mgl64.Vec3

func (f forceFunc) Force(p, v mgl64.Vec3) mgl64.Vec3 { return f(p, v) }
func (f forceFunc) Mass() float64                    { return mass }

// decay yields dv/dt = -v.
var decay = forceFunc(func(p, v mgl64.Vec3) mgl64.Vec3 {
	return v.Mul(-mass)
})

var gravity = forceFunc(func(p, v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{0, -9.81 * mass, 0}
})

// cliff is free flight up to x = 1 and a hard wall beyond.
var cliff = forceFunc(func(p, v mgl64.Vec3) mgl64.Vec3 {
	if p[0] < 1 {
		return mgl64.Vec3{}
	}
	return mgl64.Vec3{-1e5, 0, 0}
})

// stiff is a spring far too stiff for the largest allowed step.
var stiff = forceFunc(func(p, v mgl64.Vec3) mgl64.Vec3 {
	return p.Mul(-1e6)
})

func initial(sys System, p, v mgl64.Vec3) State {
	return State{Position: p, Velocity: v, Force: sys.Force(p, v)}
}

func TestAdaptive_ExponentialDecay(t *testing.T) {
	a := NewAdaptive()
	s := initial(decay, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})

	for frame := 0; frame < 60; frame++ {
		s = a.Advance(decay, s, 1.0/60.0, nil)
	}

	wantV := math.Exp(-1)
	if !near(s.Velocity[0], wantV, 1e-4) {
		t.Errorf("velocity: expected %f, got %f", wantV, s.Velocity[0])
	}
	if !near(s.Position[0], 1-wantV, 1e-4) {
		t.Errorf("position: expected %f, got %f", 1-wantV, s.Position[0])
	}
	if s.Velocity[1] != 0 || s.Velocity[2] != 0 {
		t.Errorf("decay leaked into other axes: %v", s.Velocity)
	}
}

func TestAdaptive_ConvergesWithSmallerFrames(t *testing.T) {
	run := func(frames int) float64 {
		a := NewAdaptive()
		s := initial(decay, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})
		for i := 0; i < frames; i++ {
			s = a.Advance(decay, s, 1.0/float64(frames), nil)
		}
		return math.Abs(s.Velocity[0] - math.Exp(-1))
	}

	coarse, fine := run(10), run(100)
	if fine >= coarse {
		t.Errorf("expected error to shrink with frame size: coarse %g, fine %g", coarse, fine)
	}
}

func TestAdaptive_ConstantForceExact(t *testing.T) {
	a := NewAdaptive()
	s := initial(gravity, mgl64.Vec3{0, 100, 0}, mgl64.Vec3{2, 0, 0})

	for frame := 0; frame < 4; frame++ {
		s = a.Advance(gravity, s, 0.25, nil)
	}

	if !near(s.Position[1], 100-9.81/2, 1e-9) {
		t.Errorf("height: expected %f, got %f", 100-9.81/2, s.Position[1])
	}
	if !near(s.Position[0], 2, 1e-9) {
		t.Errorf("x: expected 2, got %f", s.Position[0])
	}
	if !near(s.Velocity[1], -9.81, 1e-9) {
		t.Errorf("vy: expected -9.81, got %f", s.Velocity[1])
	}
	if a.Stats().SubSteps <= 4 {
		t.Errorf("expected distance limit to split frames, got %d sub-steps", a.Stats().SubSteps)
	}
}

func TestAdaptive_StepSizeBounded(t *testing.T) {
	a := NewAdaptive()
	s := initial(cliff, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})

	for frame := 0; frame < 8; frame++ {
		s = a.Advance(cliff, s, 0.5, nil)
		if h := a.StepSize(); h < MinTimeStep || h > MaxTimeStep {
			t.Fatalf("frame %d: step size %f outside [%f, %f]", frame, h, MinTimeStep, MaxTimeStep)
		}
	}

	st := a.Stats()
	if st.Retries == 0 {
		t.Error("expected rejected steps at the force discontinuity")
	}
	if st.Floored == 0 {
		t.Error("expected steps accepted at the minimum size")
	}
	if st.MaxStep > MaxTimeStep+1e-12 {
		t.Errorf("accepted step %f above maximum", st.MaxStep)
	}
	if s.Position[0] > 1.1 {
		t.Errorf("wall failed to turn the mass around, x=%f", s.Position[0])
	}
}

func TestAdaptive_StiffForceStaysBounded(t *testing.T) {
	a := NewAdaptive()
	s := initial(stiff, mgl64.Vec3{0.5, 0, 0}, mgl64.Vec3{0, 0, -1})

	for frame := 0; frame < 5; frame++ {
		s = a.Advance(stiff, s, 0.1, nil)
		if h := a.StepSize(); h < MinTimeStep || h > MaxTimeStep {
			t.Fatalf("frame %d: step size %f outside [%f, %f]", frame, h, MinTimeStep, MaxTimeStep)
		}
	}
	if a.Stats().Floored == 0 {
		t.Error("expected steps accepted above tolerance at the minimum size")
	}
	if a.Stats().Frames != 5 {
		t.Errorf("expected 5 frames, got %d", a.Stats().Frames)
	}
}

func TestAdaptive_DistanceLimitsStep(t *testing.T) {
	a := NewAdaptive()
	s := initial(gravity, mgl64.Vec3{}, mgl64.Vec3{0, 0, -40})

	s = a.Advance(gravity, s, 0.5, nil)
	if h := a.StepSize(); h > MaxStepDistance/s.Velocity.Len()+1e-12 && h > MinTimeStep {
		t.Errorf("step %f covers more than %f m at speed %f", h, MaxStepDistance, s.Velocity.Len())
	}
}

func TestAdaptive_ZeroFrame(t *testing.T) {
	a := NewAdaptive()
	s := initial(gravity, mgl64.Vec3{1, 2, 3}, mgl64.Vec3{4, 5, 6})

	got := a.Advance(gravity, s, 0, nil)
	if got != s {
		t.Errorf("zero frame changed state: %+v", got)
	}
	if a.Stats().Frames != 0 || a.StepSize() != -1 {
		t.Error("zero frame should not touch the stepper")
	}
}

func TestAdaptive_HookSegmentsAreContiguous(t *testing.T) {
	a := NewAdaptive()
	s := initial(gravity, mgl64.Vec3{0, 10, 0}, mgl64.Vec3{0, 0, -8})

	var segments [][2]mgl64.Vec3
	hook := func(start, end, v mgl64.Vec3) mgl64.Vec3 {
		segments = append(segments, [2]mgl64.Vec3{start, end})
		return v
	}

	out := a.Advance(gravity, s, 0.2, hook)

	if len(segments) < 2 {
		t.Fatalf("expected several sub-steps, got %d", len(segments))
	}
	if segments[0][0] != s.Position {
		t.Errorf("first segment starts at %v, expected %v", segments[0][0], s.Position)
	}
	for i := 1; i < len(segments); i++ {
		if segments[i][0] != segments[i-1][1] {
			t.Fatalf("segment %d starts at %v, previous ended at %v", i, segments[i][0], segments[i-1][1])
		}
	}
	if last := segments[len(segments)-1][1]; last != out.Position {
		t.Errorf("last segment ends at %v, state at %v", last, out.Position)
	}
	if len(segments) != a.Stats().SubSteps {
		t.Errorf("hook ran %d times for %d sub-steps", len(segments), a.Stats().SubSteps)
	}
}

func TestAdaptive_HookReplacesVelocity(t *testing.T) {
	a := NewAdaptive()
	s := initial(gravity, mgl64.Vec3{}, mgl64.Vec3{0, 0, -1})

	out := a.Advance(gravity, s, 1.0/60.0, func(start, end, v mgl64.Vec3) mgl64.Vec3 {
		return mgl64.Vec3{3, 0, 0}
	})
	if out.Velocity != (mgl64.Vec3{3, 0, 0}) {
		t.Errorf("hook velocity ignored: %v", out.Velocity)
	}
}

func TestAdaptive_NonFiniteForceTerminates(t *testing.T) {
	nan := forceFunc(func(p, v mgl64.Vec3) mgl64.Vec3 {
		return mgl64.Vec3{math.NaN(), 0, 0}
	})
	a := NewAdaptive()
	s := State{Velocity: mgl64.Vec3{0, 0, -1}}

	out := a.Advance(nan, s, 0.1, nil)
	if !math.IsNaN(out.Velocity[0]) {
		t.Errorf("expected NaN to propagate, got %v", out.Velocity)
	}
	if h := a.StepSize(); h < MinTimeStep || h > MaxTimeStep {
		t.Errorf("step size %f escaped bounds", h)
	}
}

func TestAdaptive_Reset(t *testing.T) {
	a := NewAdaptive()
	s := initial(decay, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})
	a.Advance(decay, s, 0.1, nil)
	a.Reset()

	if a.StepSize() != -1 || a.Stats().Frames != 0 {
		t.Error("Reset should clear cached step and stats")
	}
}

func TestAdjustStep(t *testing.T) {
	tests := []struct {
		h     float64
		speed float64
		want  float64
	}{
		{-1, 1, MinTimeStep},
		{0.05, 1, 0.05},
		{0.5, 1, MaxTimeStep},
		{0.1, 10, 0.02},
		{0.1, 100, MinTimeStep},
		{0.05, 0, 0.05},
	}

	for _, tt := range tests {
		got := adjustStep(tt.h, mgl64.Vec3{0, 0, tt.speed})
		if !near(got, tt.want, 1e-12) {
			t.Errorf("adjustStep(%f, %f): expected %f, got %f", tt.h, tt.speed, tt.want, got)
		}
	}
}

func TestFixedSteppers_Projectile(t *testing.T) {
	steppers := []Stepper{NewRK4(0), NewEuler(0)}
	tolerances := []float64{1e-9, 0.05}

	for i, st := range steppers {
		s := initial(gravity, mgl64.Vec3{0, 100, 0}, mgl64.Vec3{2, 0, 0})
		for frame := 0; frame < 60; frame++ {
			s = st.Advance(gravity, s, 1.0/60.0, nil)
		}
		if !near(s.Position[1], 100-9.81/2, tolerances[i]) {
			t.Errorf("%s: height expected %f, got %f", st.Name(), 100-9.81/2, s.Position[1])
		}
		if !near(s.Velocity[1], -9.81, 1e-9) {
			t.Errorf("%s: vy expected -9.81, got %f", st.Name(), s.Velocity[1])
		}
		if got := st.Stats().SubSteps; got != 240 {
			t.Errorf("%s: expected 240 sub-steps, got %d", st.Name(), got)
		}
	}
}

func TestFixedSteppers_Decay(t *testing.T) {
	rk4 := NewRK4(0.01)
	s := initial(decay, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})
	for i := 0; i < 10; i++ {
		s = rk4.Advance(decay, s, 0.1, nil)
	}
	if !near(s.Velocity[0], math.Exp(-1), 1e-8) {
		t.Errorf("rk4 decay: expected %f, got %f", math.Exp(-1), s.Velocity[0])
	}
}

func BenchmarkAdaptive(b *testing.B) {
	a := NewAdaptive()
	s := initial(decay, mgl64.Vec3{}, mgl64.Vec3{5, 0, 0})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s = a.Advance(decay, s, 1.0/60.0, nil)
		if s.Velocity.Len() < 1 {
			s.Velocity = mgl64.Vec3{5, 0, 0}
		}
	}
}

func BenchmarkRK4(b *testing.B) {
	r := NewRK4(0)
	s := initial(gravity, mgl64.Vec3{}, mgl64.Vec3{5, 0, 0})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s = r.Advance(gravity, s, 1.0/60.0, nil)
	}
}
