package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/wavesim/internal/cascade"
)

// Snapshot is a completed host copy of a displacement texture. It is never
// modified after publication.
type Snapshot struct {
	Seq         uint64
	Size        int
	LengthScale float64
	Texels      []float32
}

func (s *Snapshot) texel(x, y int) mgl64.Vec3 {
	i := (y*s.Size + x) * cascade.Channels
	return mgl64.Vec3{
		float64(s.Texels[i+cascade.ChanDx]),
		float64(s.Texels[i+cascade.ChanHeight]),
		float64(s.Texels[i+cascade.ChanDz]),
	}
}

// Sample bilinearly interpolates the displacement at normalized coordinates
// (u, v) = (x/L, z/L) with repeat wrapping. Texel i sits at u = i/N.
func (s *Snapshot) Sample(u, v float64) mgl64.Vec3 {
	n := float64(s.Size)
	fx := u * n
	fy := v * n
	x0f := math.Floor(fx)
	y0f := math.Floor(fy)
	tx := fx - x0f
	ty := fy - y0f

	x0 := wrap(int(x0f), s.Size)
	y0 := wrap(int(y0f), s.Size)
	x1 := (x0 + 1) % s.Size
	y1 := (y0 + 1) % s.Size

	a := s.texel(x0, y0).Mul(1 - tx).Add(s.texel(x1, y0).Mul(tx))
	b := s.texel(x0, y1).Mul(1 - tx).Add(s.texel(x1, y1).Mul(tx))
	return a.Mul(1 - ty).Add(b.Mul(ty))
}

// At samples the displacement at a world position.
func (s *Snapshot) At(pos mgl64.Vec3) mgl64.Vec3 {
	return s.Sample(pos.X()/s.LengthScale, pos.Z()/s.LengthScale)
}

// Invert runs the fixed-point inversion for world position pos.
func (s *Snapshot) Invert(pos mgl64.Vec3, iterations int) mgl64.Vec3 {
	d := s.At(pos)
	for i := 0; i < iterations; i++ {
		d = s.At(pos.Sub(d))
	}
	return d
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
