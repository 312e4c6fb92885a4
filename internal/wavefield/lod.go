package wavefield

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// LOD maps a cascade's configured length scale to its effective length
// scale for the current viewer. Implementations must be continuous and
// monotonic in viewer altitude and apply one factor to every cascade so the
// length-scale ordering survives.
type LOD interface {
	Name() string
	Scale(viewer mgl64.Vec3, original float64) float64
}

// FixedLOD keeps configured length scales.
type FixedLOD struct{}

func (FixedLOD) Name() string                                 { return "fixed" }
func (FixedLOD) Scale(_ mgl64.Vec3, original float64) float64 { return original }

// AltitudeLOD shrinks length scales linearly with viewer altitude:
// factor = 1 - max(y, 0)·Rate, clamped at MinFactor.
type AltitudeLOD struct {
	Rate      float64
	MinFactor float64
}

func (AltitudeLOD) Name() string { return "altitude" }

func (l AltitudeLOD) Factor(altitude float64) float64 {
	f := 1 - math.Max(altitude, 0)*l.Rate
	return math.Max(f, l.MinFactor)
}

func (l AltitudeLOD) Scale(viewer mgl64.Vec3, original float64) float64 {
	return original * l.Factor(viewer.Y())
}

// NewLOD builds a policy by name.
func NewLOD(name string, rate, minFactor float64) (LOD, error) {
	switch name {
	case "", "fixed":
		return FixedLOD{}, nil
	case "altitude":
		if !(minFactor > 0) || minFactor > 1 {
			return nil, fmt.Errorf("wavefield: altitude lod min factor %v outside (0,1]", minFactor)
		}
		if rate < 0 {
			return nil, fmt.Errorf("wavefield: altitude lod rate %v is negative", rate)
		}
		return AltitudeLOD{Rate: rate, MinFactor: minFactor}, nil
	}
	return nil, fmt.Errorf("wavefield: unknown lod policy %q", name)
}
