package fft

import (
	dspfft "github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/wavesim/internal/grid"
)

// DSP wraps go-dsp. Its inverse divides by the element count, which is
// undone here to keep every backend on the same convention.
type DSP struct {
	size int
}

func NewDSP(size int) (*DSP, error) {
	if err := grid.CheckSize(size); err != nil {
		return nil, err
	}
	return &DSP{size: size}, nil
}

func (d *DSP) Name() string { return "dsp" }
func (d *DSP) Size() int    { return d.size }

func (d *DSP) Inverse2D(g grid.Complex) error {
	if err := checkGrid(d.size, g); err != nil {
		return err
	}
	out := dspfft.IFFT2(toMatrix(g))
	scale := complex(float64(d.size*d.size), 0)
	for y, row := range out {
		for x, v := range row {
			g.Data[y*d.size+x] = v * scale
		}
	}
	return nil
}

func (d *DSP) Forward2D(g grid.Complex) error {
	if err := checkGrid(d.size, g); err != nil {
		return err
	}
	out := dspfft.FFT2(toMatrix(g))
	for y, row := range out {
		copy(g.Row(y), row)
	}
	return nil
}

func toMatrix(g grid.Complex) [][]complex128 {
	m := make([][]complex128, g.Size)
	for y := range m {
		m[y] = make([]complex128, g.Size)
		copy(m[y], g.Row(y))
	}
	return m
}
