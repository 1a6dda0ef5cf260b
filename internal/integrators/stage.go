package integrators

import "golang.org/x/exp/constraints"

// NumEstimates is the number of derivative evaluations per step of the
// Bogacki-Shampine 3(2) pair.
const NumEstimates = 4

var (
	stageTimes = [NumEstimates]float64{0, 0.5, 0.75, 1}

	// stageCoefficients[i][step] weighs estimate i when predicting the
	// value at step. Column NumEstimates-1 is the third order solution.
	stageCoefficients = [NumEstimates][NumEstimates]float64{
		{0, 0.5, 0, 2.0 / 9.0},
		{0, 0, 0.75, 1.0 / 3.0},
		{0, 0, 0, 4.0 / 9.0},
		{0, 0, 0, 0},
	}

	// stageErrors is the difference between the embedded second and third
	// order solutions.
	stageErrors = [NumEstimates]float64{-5.0 / 72.0, 1.0 / 12.0, 1.0 / 9.0, -1.0 / 8.0}
)

// Stage integrates one scalar component over a single step of size h.
type Stage[T constraints.Float] struct {
	k       [NumEstimates]T
	initial T
	h       T
}

func NewStage[T constraints.Float](initial, h T) Stage[T] {
	return Stage[T]{initial: initial, h: h}
}

// UpdateEstimate records the derivative evaluated at step.
func (s *Stage[T]) UpdateEstimate(step int, derivative T) {
	s.k[step] = s.h * derivative
}

// NextValue predicts the value at which the derivative of step is
// evaluated.
func (s *Stage[T]) NextValue(step int) T {
	v := s.initial
	for i := 0; i < step; i++ {
		v += T(stageCoefficients[i][step]) * s.k[i]
	}
	return v
}

func (s *Stage[T]) FinalEstimate() T {
	return s.NextValue(NumEstimates - 1)
}

// Error is the absolute local truncation error estimate.
func (s *Stage[T]) Error() T {
	var e T
	for i := 0; i < NumEstimates; i++ {
		e += T(stageErrors[i]) * s.k[i]
	}
	if e < 0 {
		return -e
	}
	return e
}

// NextTime is the offset from the step start at which step is evaluated.
func (s *Stage[T]) NextTime(step int) T {
	return T(stageTimes[step]) * s.h
}
