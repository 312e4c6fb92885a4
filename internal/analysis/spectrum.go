package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/san-kum/wavesim/internal/fft"
)

var ErrShortSeries = errors.New("analysis: series needs at least two samples")

// PowerSpectrum returns |X_k|²/n for k in [0, n/2], where X is the forward
// transform of the mean-removed series zero-padded to n, the next power of two.
func PowerSpectrum(series []float64) ([]float64, error) {
	if len(series) < 2 {
		return nil, ErrShortSeries
	}
	n := 1
	for n < len(series) {
		n <<= 1
	}
	plan, err := fft.NewPlan(n)
	if err != nil {
		return nil, err
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	buf := make([]complex128, n)
	for i, v := range series {
		buf[i] = complex(v-mean, 0)
	}
	plan.Forward(buf)

	ps := make([]float64, n/2+1)
	for i := range ps {
		a := cmplx.Abs(buf[i])
		ps[i] = a * a / float64(n)
	}
	return ps, nil
}

// Frequencies returns the frequency in Hz of each bin of a PowerSpectrum
// computed from length samples spaced dt apart.
func Frequencies(length int, dt float64) []float64 {
	n := 1
	for n < length {
		n <<= 1
	}
	f := make([]float64, n/2+1)
	for i := range f {
		f[i] = float64(i) / (float64(n) * dt)
	}
	return f
}

// PeakPeriod returns the period in seconds of the strongest non-DC bin.
func PeakPeriod(series []float64, dt float64) (float64, error) {
	if dt <= 0 {
		return 0, errors.New("analysis: dt must be positive")
	}
	ps, err := PowerSpectrum(series)
	if err != nil {
		return 0, err
	}
	peak := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[peak] {
			peak = i
		}
	}
	if ps[peak] == 0 {
		return math.Inf(1), nil
	}
	return 1 / Frequencies(len(series), dt)[peak], nil
}
