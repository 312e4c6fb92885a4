package fft

import (
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/san-kum/wavesim/internal/grid"
)

// Gonum wraps fourier.CmplxFFT. CmplxFFT keeps internal work space, so each
// worker borrows its own instance from a pool.
type Gonum struct {
	size int
	pool sync.Pool
}

func NewGonum(size int) (*Gonum, error) {
	if err := grid.CheckSize(size); err != nil {
		return nil, err
	}
	g := &Gonum{size: size}
	g.pool.New = func() any { return fourier.NewCmplxFFT(size) }
	return g, nil
}

func (t *Gonum) Name() string { return "gonum" }
func (t *Gonum) Size() int    { return t.size }

func (t *Gonum) Inverse2D(g grid.Complex) error {
	return t.transform2D(g, func(f *fourier.CmplxFFT, s []complex128) { f.Sequence(s, s) })
}

func (t *Gonum) Forward2D(g grid.Complex) error {
	return t.transform2D(g, func(f *fourier.CmplxFFT, s []complex128) { f.Coefficients(s, s) })
}

func (t *Gonum) transform2D(g grid.Complex, apply func(*fourier.CmplxFFT, []complex128)) error {
	n := t.size
	if err := checkGrid(n, g); err != nil {
		return err
	}

	grid.ParallelFor(n, 16, func(start, end int) {
		f := t.pool.Get().(*fourier.CmplxFFT)
		defer t.pool.Put(f)
		for y := start; y < end; y++ {
			apply(f, g.Row(y))
		}
	})

	grid.ParallelFor(n, 16, func(start, end int) {
		f := t.pool.Get().(*fourier.CmplxFFT)
		defer t.pool.Put(f)
		col := make([]complex128, n)
		for x := start; x < end; x++ {
			for y := 0; y < n; y++ {
				col[y] = g.Data[y*n+x]
			}
			apply(f, col)
			for y := 0; y < n; y++ {
				g.Data[y*n+x] = col[y]
			}
		}
	})
	return nil
}
