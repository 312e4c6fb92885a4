package fft

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/wavesim/internal/grid"
)

// Transformer is a square 2D FFT of a fixed resolution.
type Transformer interface {
	Name() string
	Size() int
	Inverse2D(g grid.Complex) error
	Forward2D(g grid.Complex) error
}

// Default is the backend used when none is configured.
const Default = "butterfly"

var backends = map[string]func(size int) (Transformer, error){
	"butterfly": func(n int) (Transformer, error) { return NewButterfly(n) },
	"dsp":       func(n int) (Transformer, error) { return NewDSP(n) },
	"gonum":     func(n int) (Transformer, error) { return NewGonum(n) },
}

// New constructs the named backend. An empty name selects Default.
func New(name string, size int) (Transformer, error) {
	if name == "" {
		name = Default
	}
	ctor, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("fft: unknown backend %q (available: %v)", name, Names())
	}
	return ctor(size)
}

// Names lists the registered backends.
func Names() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InverseReal transforms g in place and returns its real part together with
// the largest imaginary residual.
func InverseReal(t Transformer, g grid.Complex) ([]float64, float64, error) {
	if err := t.Inverse2D(g); err != nil {
		return nil, 0, err
	}
	return g.Real(), g.MaxImag(), nil
}

func checkGrid(size int, g grid.Complex) error {
	if g.Size != size || len(g.Data) != size*size {
		return fmt.Errorf("%w: transformer %d, grid %d", grid.ErrSizeMismatch, size, g.Size)
	}
	return nil
}

// Plan is a precomputed radix-2 butterfly network for one length.
type Plan struct {
	n       int
	rev     []int
	twiddle []complex128
}

// NewPlan builds the bit-reversal table and forward twiddles exp(-2πi·m/n).
func NewPlan(n int) (*Plan, error) {
	if err := grid.CheckSize(n); err != nil {
		return nil, err
	}
	bits := grid.Log2(n)
	p := &Plan{n: n, rev: make([]int, n), twiddle: make([]complex128, n/2)}
	for i := 0; i < n; i++ {
		r := 0
		for b := 0; b < bits; b++ {
			if i&(1<<b) != 0 {
				r |= 1 << (bits - 1 - b)
			}
		}
		p.rev[i] = r
	}
	for m := range p.twiddle {
		s, c := math.Sincos(-2 * math.Pi * float64(m) / float64(n))
		p.twiddle[m] = complex(c, s)
	}
	return p, nil
}

func (p *Plan) Len() int { return p.n }

// Forward computes the unnormalized forward DFT of a in place.
func (p *Plan) Forward(a []complex128) { p.transform(a, false) }

// Inverse computes the unnormalized inverse DFT of a in place.
func (p *Plan) Inverse(a []complex128) { p.transform(a, true) }

func (p *Plan) transform(a []complex128, inverse bool) {
	n := p.n
	for i, j := range p.rev {
		if i < j {
			a[i], a[j] = a[j], a[i]
		}
	}
	for size := 2; size <= n; size <<= 1 {
		half := size / 2
		step := n / size
		for start := 0; start < n; start += size {
			for j := 0; j < half; j++ {
				w := p.twiddle[j*step]
				if inverse {
					w = complex(real(w), -imag(w))
				}
				u := a[start+j]
				v := a[start+j+half] * w
				a[start+j] = u + v
				a[start+j+half] = u - v
			}
		}
	}
}
