package grid

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"
)

func TestFrequencyIndex(t *testing.T) {
	tests := []struct {
		i, n, expected int
	}{
		{0, 8, 0},
		{3, 8, 3},
		{4, 8, -4},
		{7, 8, -1},
	}
	for _, tt := range tests {
		if got := FrequencyIndex(tt.i, tt.n); got != tt.expected {
			t.Errorf("FrequencyIndex(%d, %d): expected %d, got %d", tt.i, tt.n, tt.expected, got)
		}
	}
}

func TestMirrorNegatesWaveNumber(t *testing.T) {
	n := 16
	for i := 0; i < n; i++ {
		if IsNyquist(i, n) {
			if Mirror(i, n) != i {
				t.Errorf("nyquist index %d should mirror to itself", i)
			}
			continue
		}
		if FrequencyIndex(Mirror(i, n), n) != -FrequencyIndex(i, n) {
			t.Errorf("mirror of %d does not negate its wave number", i)
		}
	}
}

func TestCheckSize(t *testing.T) {
	for _, n := range []int{2, 4, 64, 256} {
		if err := CheckSize(n); err != nil {
			t.Errorf("size %d: unexpected error %v", n, err)
		}
	}
	for _, n := range []int{0, 1, 3, 100, -8} {
		if err := CheckSize(n); !errors.Is(err, ErrNotPowerOfTwo) {
			t.Errorf("size %d: expected ErrNotPowerOfTwo, got %v", n, err)
		}
	}
	if Log2(256) != 8 {
		t.Errorf("expected log2(256) = 8, got %d", Log2(256))
	}
}

func TestIsHermitian(t *testing.T) {
	g := NewComplex(4)
	g.Set(1, 0, complex(1, 2))
	g.Set(3, 0, complex(1, -2))
	if !g.IsHermitian(1e-12) {
		t.Error("expected conjugate pair to be hermitian")
	}
	g.Set(3, 0, complex(1, 2))
	if g.IsHermitian(1e-12) {
		t.Error("expected non-conjugate pair to fail")
	}
}

func TestParallelForCoversRange(t *testing.T) {
	var hits [1000]int32
	ParallelFor(len(hits), 7, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	})
	for i, h := range hits {
		if h != 1 {
			t.Fatalf("index %d visited %d times", i, h)
		}
	}
}

func TestTrigTableAccuracy(t *testing.T) {
	for _, x := range []float64{0, 0.3, math.Pi, -2.5, 1234.567} {
		s, c := DefaultTrigTable.SinCos(x)
		if math.Abs(s-math.Sin(x)) > 1e-6 || math.Abs(c-math.Cos(x)) > 1e-6 {
			t.Errorf("x=%f: table (%f, %f) vs exact (%f, %f)", x, s, c, math.Sin(x), math.Cos(x))
		}
	}
}

func TestStepErrorUnwrap(t *testing.T) {
	err := &StepError{Step: 3, Time: 0.5, Cascade: 1, Wrapped: ErrNotInitialized}
	if !errors.Is(err, ErrNotInitialized) {
		t.Error("expected StepError to unwrap to ErrNotInitialized")
	}
}
