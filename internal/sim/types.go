package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/wavesim/internal/cascade"
	"github.com/san-kum/wavesim/internal/physics"
	"github.com/san-kum/wavesim/internal/scenario"
	"github.com/san-kum/wavesim/internal/wavefield"
)

// Metric accumulates a statistic over the far cascade's fields.
type Metric interface {
	Name() string
	Observe(f *cascade.Field, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(step int, t float64, p wavefield.RenderParams)
}

// Buoy is a fixed query point sampled every step.
type Buoy struct {
	Name string
	X, Z float64
}

type Config struct {
	Dt       float64
	Duration float64
	Viewer   mgl64.Vec3
	// Climb moves the viewer vertically in m/s, exercising the LOD policy.
	Climb float64
	Buoys []Buoy
	// SyncReadback waits for each readback before sampling buoys, making
	// series reproducible at the cost of the asynchronous overlap.
	SyncReadback bool
	Scenario     *scenario.Scenario
}

// ViewerAt is the viewer position at time t.
func (c Config) ViewerAt(t float64) mgl64.Vec3 {
	return c.Viewer.Add(mgl64.Vec3{0, c.Climb * t, 0})
}

type Result struct {
	Times       []float64
	BuoyNames   []string
	Buoys       [][]float64
	Metrics     map[string]float64
	Steps       int
	Generations [3]int
	Readback    physics.Stats
}

// BuoySeries returns the height series of the named buoy.
func (r *Result) BuoySeries(name string) ([]float64, bool) {
	for i, n := range r.BuoyNames {
		if n == name {
			return r.Buoys[i], true
		}
	}
	return nil, false
}

// IsValid reports whether every buoy sample is finite.
func (r *Result) IsValid() bool {
	for _, series := range r.Buoys {
		for _, v := range series {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
