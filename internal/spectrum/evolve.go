package spectrum

import (
	"fmt"
	"math"

	"github.com/san-kum/wavesim/internal/grid"
)

// Evolved holds the four packed spectra of one cascade at time T.
//
//	DxDz    = Dx  + i·Dz
//	DyDxz   = Dy  + i·Dxz
//	SlopeXZ = ∂xh + i·∂zh
//	DxxDzz  = Dxx + i·Dzz
type Evolved struct {
	T       float64
	DxDz    grid.Complex
	DyDxz   grid.Complex
	SlopeXZ grid.Complex
	DxxDzz  grid.Complex
}

func NewEvolved(size int) *Evolved {
	return &Evolved{
		DxDz:    grid.NewComplex(size),
		DyDxz:   grid.NewComplex(size),
		SlopeXZ: grid.NewComplex(size),
		DxxDzz:  grid.NewComplex(size),
	}
}

// Grids returns the packed grids in a fixed order for batch transforms.
func (e *Evolved) Grids() []grid.Complex {
	return []grid.Complex{e.DxDz, e.DyDxz, e.SlopeXZ, e.DxxDzz}
}

// Height unpacks the height spectrum from DyDxz. Only meaningful while the
// grids are still in the frequency domain.
func (e *Evolved) Height() grid.Complex {
	n := e.DyDxz.Size
	out := grid.NewComplex(n)
	for y := 0; y < n; y++ {
		my := grid.Mirror(y, n)
		for x := 0; x < n; x++ {
			p := e.DyDxz.At(x, y)
			q := e.DyDxz.At(grid.Mirror(x, n), my)
			out.Set(x, y, (p+complex(real(q), -imag(q)))/2)
		}
	}
	return out
}

// Evolve advances the initial spectrum to time t, writing into dst.
func Evolve(in *Initial, t float64, dst *Evolved) error {
	return evolve(in, t, dst, grid.ExactSinCos)
}

// EvolveFast is Evolve using the interpolated trig table for the phase.
func EvolveFast(in *Initial, t float64, dst *Evolved) error {
	return evolve(in, t, dst, grid.DefaultTrigTable.SinCos)
}

func evolve(in *Initial, t float64, dst *Evolved, sincos func(float64) (float64, float64)) error {
	if in == nil {
		return grid.ErrNotInitialized
	}
	if dst.DxDz.Size != in.Size {
		return fmt.Errorf("%w: evolved %d, initial %d", grid.ErrSizeMismatch, dst.DxDz.Size, in.Size)
	}

	size := in.Size
	dst.T = t
	dk := 2 * math.Pi / in.LengthScale

	grid.ParallelFor(size, 8, func(start, end int) {
		for y := start; y < end; y++ {
			kz := float64(grid.FrequencyIndex(y, size)) * dk
			for x := 0; x < size; x++ {
				idx := y*size + x
				omega := in.Omega[idx]
				if omega == 0 {
					dst.DxDz.Data[idx] = 0
					dst.DyDxz.Data[idx] = 0
					dst.SlopeXZ.Data[idx] = 0
					dst.DxxDzz.Data[idx] = 0
					continue
				}
				kx := float64(grid.FrequencyIndex(x, size)) * dk
				invK := 1 / math.Hypot(kx, kz)

				s, c := sincos(omega * t)
				e := complex(c, s)
				h := in.H0.Data[idx]*e + in.H0Conj.Data[idx]*complex(c, -s)
				ih := complex(-imag(h), real(h))

				dx := ih * complex(kx*invK, 0)
				dz := ih * complex(kz*invK, 0)
				dxz := h * complex(-kx*kz*invK, 0)
				dxx := h * complex(-kx*kx*invK, 0)
				dzz := h * complex(-kz*kz*invK, 0)
				sx := ih * complex(kx, 0)
				sz := ih * complex(kz, 0)

				dst.DxDz.Data[idx] = dx + mulI(dz)
				dst.DyDxz.Data[idx] = h + mulI(dxz)
				dst.SlopeXZ.Data[idx] = sx + mulI(sz)
				dst.DxxDzz.Data[idx] = dxx + mulI(dzz)
			}
		}
	})
	return nil
}

func mulI(v complex128) complex128 {
	return complex(-imag(v), real(v))
}
