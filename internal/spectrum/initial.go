package spectrum

import (
	"fmt"
	"math"

	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/noise"
)

// Initial is the time-independent spectrum of one cascade.
type Initial struct {
	Size        int
	LengthScale float64
	Band        Band

	// H0 holds h0(k); H0Conj holds conj(h0(-k)).
	H0     grid.Complex
	H0Conj grid.Complex
	// Omega is ω(|k|) per cell, zero outside the band.
	Omega []float64
}

// Spectrum returns the t=0 spectrum h0(k) + conj(h0(-k)).
func (in *Initial) Spectrum() grid.Complex {
	out := grid.NewComplex(in.Size)
	for i := range out.Data {
		out.Data[i] = in.H0.Data[i] + in.H0Conj.Data[i]
	}
	return out
}

// WaveVector returns the wave vector of cell (x, y).
func (in *Initial) WaveVector(x, y int) (kx, kz float64) {
	dk := 2 * math.Pi / in.LengthScale
	return float64(grid.FrequencyIndex(x, in.Size)) * dk, float64(grid.FrequencyIndex(y, in.Size)) * dk
}

// Generate builds the initial spectrum of one cascade from a noise field.
// Cells outside band, and the unmatched Nyquist row and column, are zero.
func Generate(n *noise.Field, c Constants, params [2]Parameters, band Band, lengthScale float64) (*Initial, error) {
	if n == nil {
		return nil, fmt.Errorf("spectrum: nil noise field")
	}
	if err := grid.CheckSize(n.Size); err != nil {
		return nil, err
	}
	if !(lengthScale > 0) {
		return nil, fmt.Errorf("%w: length scale %v", grid.ErrInvalidSettings, lengthScale)
	}
	if !band.Valid() {
		return nil, fmt.Errorf("%w: band [%v, %v)", grid.ErrBandOverlap, band.Low, band.High)
	}

	size := n.Size
	in := &Initial{
		Size:        size,
		LengthScale: lengthScale,
		Band:        band,
		H0:          grid.NewComplex(size),
		H0Conj:      grid.NewComplex(size),
		Omega:       make([]float64, size*size),
	}

	dk := 2 * math.Pi / lengthScale
	norm := dk * dk

	grid.ParallelFor(size, 8, func(start, end int) {
		for y := start; y < end; y++ {
			if grid.IsNyquist(y, size) {
				continue
			}
			kz := float64(grid.FrequencyIndex(y, size)) * dk
			for x := 0; x < size; x++ {
				if grid.IsNyquist(x, size) {
					continue
				}
				kx := float64(grid.FrequencyIndex(x, size)) * dk
				k := math.Hypot(kx, kz)
				if !band.Contains(k) {
					continue
				}
				idx := y*size + x
				in.Omega[idx] = Frequency(k, c.G, c.Depth)
				s := Density(kx, kz, c, params)
				amp := math.Sqrt(2*s*math.Abs(FrequencyDerivative(k, c.G, c.Depth))/k*norm) / math.Sqrt2
				xi := n.Data[idx]
				in.H0.Data[idx] = complex(float64(real(xi))*amp, float64(imag(xi))*amp)
			}
		}
	})

	for y := 0; y < size; y++ {
		my := grid.Mirror(y, size)
		for x := 0; x < size; x++ {
			m := in.H0.At(grid.Mirror(x, size), my)
			in.H0Conj.Set(x, y, complex(real(m), -imag(m)))
		}
	}

	return in, nil
}
