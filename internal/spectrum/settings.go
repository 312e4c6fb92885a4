package spectrum

import (
	"fmt"
	"math"

	"github.com/san-kum/wavesim/internal/grid"
)

// DisplaySettings are the user-facing controls of one wave system.
type DisplaySettings struct {
	Scale           float64 `yaml:"scale" json:"scale"`
	WindSpeed       float64 `yaml:"wind_speed" json:"wind_speed"`
	WindDirection   float64 `yaml:"wind_direction" json:"wind_direction"`
	Fetch           float64 `yaml:"fetch" json:"fetch"`
	SpreadBlend     float64 `yaml:"spread_blend" json:"spread_blend"`
	Swell           float64 `yaml:"swell" json:"swell"`
	PeakEnhancement float64 `yaml:"peak_enhancement" json:"peak_enhancement"`
	ShortWavesFade  float64 `yaml:"short_waves_fade" json:"short_waves_fade"`
}

// Parameters are the physical spectrum coefficients derived from DisplaySettings.
type Parameters struct {
	Scale          float64
	Angle          float64
	SpreadBlend    float64
	Swell          float64
	Alpha          float64
	PeakOmega      float64
	Gamma          float64
	ShortWavesFade float64
}

// Valid reports whether the derived coefficients are usable.
func (p Parameters) Valid() bool {
	for _, v := range []float64{p.Scale, p.Angle, p.SpreadBlend, p.Swell, p.Alpha, p.PeakOmega, p.Gamma, p.ShortWavesFade} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return p.Alpha > 0 && p.PeakOmega > 0
}

// Constants are shared by both wave systems.
type Constants struct {
	G      float64 `yaml:"g" json:"g"`
	Depth  float64 `yaml:"depth" json:"depth"`
	Lambda float64 `yaml:"lambda" json:"lambda"`
}

// Settings is the complete spectrum configuration.
type Settings struct {
	Constants `yaml:",inline"`
	Local     DisplaySettings `yaml:"local" json:"local"`
	Swell     DisplaySettings `yaml:"swell" json:"swell"`
}

// Parameters derives the local and swell coefficients, in that order.
func (s Settings) Parameters() [2]Parameters {
	return [2]Parameters{Derive(s.Local, s.G), Derive(s.Swell, s.G)}
}

// Weights returns the blend weights of the local and swell systems.
func (c Constants) Weights() [2]float64 {
	return [2]float64{1 - c.Lambda, c.Lambda}
}

// Validate rejects settings that would produce a non-finite spectrum.
// A wave system whose blend weight is zero is not checked.
func (s Settings) Validate() error {
	if !(s.G > 0) || !(s.Depth > 0) {
		return fmt.Errorf("%w: g=%v depth=%v", grid.ErrInvalidSettings, s.G, s.Depth)
	}
	if s.Lambda < 0 || s.Lambda > 1 {
		return fmt.Errorf("%w: lambda %v outside [0,1]", grid.ErrInvalidSettings, s.Lambda)
	}
	w := s.Weights()
	for i, d := range []DisplaySettings{s.Local, s.Swell} {
		if w[i] == 0 || d.Scale == 0 {
			continue
		}
		if !Derive(d, s.G).Valid() {
			return fmt.Errorf("%w: %s system needs positive wind speed and fetch (wind=%v fetch=%v)",
				grid.ErrInvalidSettings, systemName(i), d.WindSpeed, d.Fetch)
		}
	}
	return nil
}

func systemName(i int) string {
	if i == 0 {
		return "local"
	}
	return "swell"
}

// Derive converts display settings into physical coefficients. Zero wind
// speed or fetch yields non-finite values; see Parameters.Valid.
func Derive(d DisplaySettings, g float64) Parameters {
	return Parameters{
		Scale:          d.Scale,
		Angle:          d.WindDirection / 180 * math.Pi,
		SpreadBlend:    d.SpreadBlend,
		Swell:          clamp(d.Swell, 0.01, 1),
		Alpha:          wendtAlpha(g, d.Fetch, d.WindSpeed),
		PeakOmega:      wendtPeakFrequency(g, d.Fetch, d.WindSpeed),
		Gamma:          d.PeakEnhancement,
		ShortWavesFade: d.ShortWavesFade,
	}
}

func wendtAlpha(g, fetch, windSpeed float64) float64 {
	return 0.076 * math.Pow(g*fetch/windSpeed/windSpeed, -0.22)
}

func wendtPeakFrequency(g, fetch, windSpeed float64) float64 {
	return 2 * math.Pi * 0.877 * windSpeed / math.Sqrt(g*fetch)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Band is the half-open wave number interval [Low, High) owned by a cascade.
type Band struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

func (b Band) Contains(k float64) bool {
	return k >= b.Low && k < b.High
}

func (b Band) Valid() bool {
	return b.Low >= 0 && b.Low < b.High
}
