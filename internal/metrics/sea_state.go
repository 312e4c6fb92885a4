package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/wavesim/internal/cascade"
)

// MeanHeight averages the spatial mean height over all observed fields.
type MeanHeight struct {
	name    string
	samples int
	total   float64
}

func NewMeanHeight() *MeanHeight {
	return &MeanHeight{name: "mean_height"}
}

func (m *MeanHeight) Name() string { return m.name }

func (m *MeanHeight) Observe(f *cascade.Field, t float64) {
	if f == nil {
		return
	}
	m.total += stat.Mean(f.Heights(), nil)
	m.samples++
}

func (m *MeanHeight) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanHeight) Reset() {
	m.total = 0
	m.samples = 0
}

// SignificantHeight is Hs = 4σ of the surface elevation, averaged over
// observations.
type SignificantHeight struct {
	name    string
	samples int
	total   float64
}

func NewSignificantHeight() *SignificantHeight {
	return &SignificantHeight{name: "significant_height"}
}

func (s *SignificantHeight) Name() string { return s.name }

func (s *SignificantHeight) Observe(f *cascade.Field, t float64) {
	if f == nil {
		return
	}
	_, variance := stat.PopMeanVariance(f.Heights(), nil)
	s.total += 4 * math.Sqrt(variance)
	s.samples++
}

func (s *SignificantHeight) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.total / float64(s.samples)
}

func (s *SignificantHeight) Reset() {
	s.total = 0
	s.samples = 0
}

// FoamCoverage is the mean fraction of texels whose foam channel is below
// Threshold.
type FoamCoverage struct {
	name      string
	Threshold float64
	samples   int
	total     float64
}

func NewFoamCoverage(threshold float64) *FoamCoverage {
	return &FoamCoverage{name: "foam_coverage", Threshold: threshold}
}

func (c *FoamCoverage) Name() string { return c.name }

func (c *FoamCoverage) Observe(f *cascade.Field, t float64) {
	if f == nil {
		return
	}
	foam := f.Channel(cascade.ChanFoam)
	covered := 0
	for _, v := range foam {
		if v < c.Threshold {
			covered++
		}
	}
	c.total += float64(covered) / float64(len(foam))
	c.samples++
}

func (c *FoamCoverage) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.total / float64(c.samples)
}

func (c *FoamCoverage) Reset() {
	c.total = 0
	c.samples = 0
}

// MaxHeight tracks the highest crest seen.
type MaxHeight struct {
	name string
	max  float64
	seen bool
}

func NewMaxHeight() *MaxHeight {
	return &MaxHeight{name: "max_height"}
}

func (m *MaxHeight) Name() string { return m.name }

func (m *MaxHeight) Observe(f *cascade.Field, t float64) {
	if f == nil {
		return
	}
	h := floats.Max(f.Heights())
	if !m.seen || h > m.max {
		m.max = h
		m.seen = true
	}
}

func (m *MaxHeight) Value() float64 { return m.max }

func (m *MaxHeight) Reset() {
	m.max = 0
	m.seen = false
}

// Metric matches sim.Metric.
type Metric interface {
	Name() string
	Observe(f *cascade.Field, t float64)
	Value() float64
	Reset()
}

// SeaState returns the standard set of field statistics.
func SeaState() []Metric {
	return []Metric{
		NewMeanHeight(),
		NewSignificantHeight(),
		NewMaxHeight(),
		NewFoamCoverage(0.5),
	}
}
