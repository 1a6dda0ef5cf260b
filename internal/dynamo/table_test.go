package dynamo

import (
	"math"
	"sync/atomic"
	"testing"
)

func TestTableInterpolates(t *testing.T) {
	tbl := NewTable([]float64{0, 1, 3}, []float64{0, 2, 0})

	tests := []struct {
		x, want float64
	}{
		{0, 0},
		{0.5, 1},
		{1, 2},
		{2, 1},
		{3, 0},
		{-1, -2},
		{4, -1},
	}

	for _, tt := range tests {
		if got := tbl.At(tt.x); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("At(%.1f) = %f, want %f", tt.x, got, tt.want)
		}
	}
}

func TestTableNaN(t *testing.T) {
	tbl := NewTable([]float64{0, 1, 3}, []float64{0, 2, 0})
	if got := tbl.At(math.NaN()); !math.IsNaN(got) {
		t.Errorf("At(NaN) = %f, want NaN", got)
	}
}

func TestTablePanicsOnShortInput(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewTable([]float64{1}, []float64{1})
}

func TestParallelForCoversRange(t *testing.T) {
	var sum atomic.Int64
	seen := make([]int32, 1000)

	ParallelFor(len(seen), 16, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&seen[i], 1)
			sum.Add(int64(i))
		}
	})

	for i, n := range seen {
		if n != 1 {
			t.Fatalf("index %d visited %d times", i, n)
		}
	}
	if sum.Load() != 999*1000/2 {
		t.Errorf("unexpected sum %d", sum.Load())
	}
}
