package config

import (
	"sort"

	"github.com/san-kum/wavesim/internal/spectrum"
)

const gravity = 9.81

var Presets = map[string]spectrum.Settings{
	"calm": {
		Constants: spectrum.Constants{G: gravity, Depth: 500, Lambda: 0},
		Local: spectrum.DisplaySettings{
			Scale: 1, WindSpeed: 3, WindDirection: 0, Fetch: 20000,
			SpreadBlend: 1, Swell: 0.1, PeakEnhancement: 3.3, ShortWavesFade: 0.02,
		},
	},
	"breeze": {
		Constants: spectrum.Constants{G: gravity, Depth: 1000, Lambda: 0.2},
		Local: spectrum.DisplaySettings{
			Scale: 1, WindSpeed: 10, WindDirection: 0, Fetch: 100000,
			SpreadBlend: 0.9, Swell: 0.2, PeakEnhancement: 3.3, ShortWavesFade: 0.01,
		},
		Swell: spectrum.DisplaySettings{
			Scale: 1, WindSpeed: 2, WindDirection: 40, Fetch: 300000,
			SpreadBlend: 1, Swell: 1, PeakEnhancement: 1, ShortWavesFade: 0.01,
		},
	},
	"storm": {
		Constants: spectrum.Constants{G: gravity, Depth: 2000, Lambda: 0.3},
		Local: spectrum.DisplaySettings{
			Scale: 1, WindSpeed: 25, WindDirection: 10, Fetch: 400000,
			SpreadBlend: 0.8, Swell: 0.3, PeakEnhancement: 3.3, ShortWavesFade: 0.005,
		},
		Swell: spectrum.DisplaySettings{
			Scale: 1, WindSpeed: 8, WindDirection: 60, Fetch: 800000,
			SpreadBlend: 1, Swell: 1, PeakEnhancement: 1, ShortWavesFade: 0.005,
		},
	},
	"swell": {
		Constants: spectrum.Constants{G: gravity, Depth: 1000, Lambda: 0.8},
		Local: spectrum.DisplaySettings{
			Scale: 0.6, WindSpeed: 4, WindDirection: 0, Fetch: 30000,
			SpreadBlend: 1, Swell: 0.1, PeakEnhancement: 3.3, ShortWavesFade: 0.02,
		},
		Swell: spectrum.DisplaySettings{
			Scale: 1, WindSpeed: 7, WindDirection: 120, Fetch: 1000000,
			SpreadBlend: 1, Swell: 1, PeakEnhancement: 1, ShortWavesFade: 0.01,
		},
	},
	"shallow": {
		Constants: spectrum.Constants{G: gravity, Depth: 8, Lambda: 0},
		Local: spectrum.DisplaySettings{
			Scale: 1, WindSpeed: 12, WindDirection: 0, Fetch: 50000,
			SpreadBlend: 0.9, Swell: 0.2, PeakEnhancement: 3.3, ShortWavesFade: 0.01,
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *spectrum.Settings {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
