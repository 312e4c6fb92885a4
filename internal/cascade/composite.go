package cascade

import (
	"fmt"
	"math"

	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/spectrum"
)

// Texel channel layout of Field.Displacement.
const (
	ChanDx = iota
	ChanHeight
	ChanDz
	ChanFoam
)

// Texel channel layout of Field.Derivatives.
const (
	ChanSlopeX = iota
	ChanSlopeZ
	ChanJacobian
)

// Channels per texel in both textures.
const Channels = 4

// Field is the composited spatial output of one cascade, row-major RGBA.
//
//	Displacement: (choppiness·dx, height, choppiness·dz, foam)
//	Derivatives:  (slopeX, slopeZ, jacobian, 0)
//
// The foam channel tracks the Jacobian with instant drops and slow recovery,
// so values well below one mark breaking crests. A published Field is never
// written again.
type Field struct {
	Size         int
	Time         float64
	Displacement []float32
	Derivatives  []float32
}

func NewField(size int) *Field {
	return &Field{
		Size:         size,
		Displacement: make([]float32, size*size*Channels),
		Derivatives:  make([]float32, size*size*Channels),
	}
}

// Texel returns the displacement texel at (x, y).
func (f *Field) Texel(x, y int) [Channels]float32 {
	i := (y*f.Size + x) * Channels
	var t [Channels]float32
	copy(t[:], f.Displacement[i:i+Channels])
	return t
}

// Heights extracts the height channel.
func (f *Field) Heights() []float64 {
	out := make([]float64, f.Size*f.Size)
	for i := range out {
		out[i] = float64(f.Displacement[i*Channels+ChanHeight])
	}
	return out
}

// Channel extracts one displacement channel.
func (f *Field) Channel(c int) []float64 {
	out := make([]float64, f.Size*f.Size)
	for i := range out {
		out[i] = float64(f.Displacement[i*Channels+c])
	}
	return out
}

// Jacobians extracts the folding term from the derivative texture.
func (f *Field) Jacobians() []float64 {
	out := make([]float64, f.Size*f.Size)
	for i := range out {
		out[i] = float64(f.Derivatives[i*Channels+ChanJacobian])
	}
	return out
}

// Foam decay rate of the accumulated foam channel, per second.
const foamDecay = 0.5

// Composite packs spatial-domain grids into out. spatial must already be
// inverse transformed. foam holds one value per texel and is updated in place.
func Composite(spatial *spectrum.Evolved, choppiness, dt float64, foam []float32, out *Field) error {
	n := spatial.DxDz.Size
	if out.Size != n || len(foam) != n*n {
		return fmt.Errorf("%w: composite size %d, field %d, foam %d", grid.ErrSizeMismatch, n, out.Size, len(foam))
	}
	c := choppiness
	out.Time = spatial.T

	grid.ParallelFor(n*n, 1024, func(start, end int) {
		for i := start; i < end; i++ {
			dxdz := spatial.DxDz.Data[i]
			dydxz := spatial.DyDxz.Data[i]
			slope := spatial.SlopeXZ.Data[i]
			dxxdzz := spatial.DxxDzz.Data[i]

			dxz := imag(dydxz)
			jacobian := (1+c*real(dxxdzz))*(1+c*imag(dxxdzz)) - c*c*dxz*dxz

			f := float64(foam[i]) + dt*foamDecay/math.Max(jacobian, 0.5)
			f = math.Min(jacobian, f)
			foam[i] = float32(f)

			o := i * Channels
			out.Displacement[o+ChanDx] = float32(c * real(dxdz))
			out.Displacement[o+ChanHeight] = float32(real(dydxz))
			out.Displacement[o+ChanDz] = float32(c * imag(dxdz))
			out.Displacement[o+ChanFoam] = float32(f)

			out.Derivatives[o+ChanSlopeX] = float32(real(slope))
			out.Derivatives[o+ChanSlopeZ] = float32(imag(slope))
			out.Derivatives[o+ChanJacobian] = float32(jacobian)
			out.Derivatives[o+3] = 0
		}
	})
	return nil
}
