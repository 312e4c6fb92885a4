package fft

import "github.com/san-kum/wavesim/internal/grid"

// Butterfly runs the radix-2 plan over rows then columns.
type Butterfly struct {
	plan *Plan
}

func NewButterfly(size int) (*Butterfly, error) {
	p, err := NewPlan(size)
	if err != nil {
		return nil, err
	}
	return &Butterfly{plan: p}, nil
}

func (b *Butterfly) Name() string { return "butterfly" }
func (b *Butterfly) Size() int    { return b.plan.n }

func (b *Butterfly) Inverse2D(g grid.Complex) error { return b.transform2D(g, true) }
func (b *Butterfly) Forward2D(g grid.Complex) error { return b.transform2D(g, false) }

func (b *Butterfly) transform2D(g grid.Complex, inverse bool) error {
	n := b.plan.n
	if err := checkGrid(n, g); err != nil {
		return err
	}

	grid.ParallelFor(n, 16, func(start, end int) {
		for y := start; y < end; y++ {
			b.plan.transform(g.Row(y), inverse)
		}
	})

	grid.ParallelFor(n, 16, func(start, end int) {
		col := make([]complex128, n)
		for x := start; x < end; x++ {
			for y := 0; y < n; y++ {
				col[y] = g.Data[y*n+x]
			}
			b.plan.transform(col, inverse)
			for y := 0; y < n; y++ {
				g.Data[y*n+x] = col[y]
			}
		}
	})
	return nil
}
