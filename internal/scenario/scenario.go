// Package scenario scripts changing sea states over the course of a run.
package scenario

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/spectrum"
)

// Scenario is a sequence of sea states held for fixed durations.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`

	segments []Segment
}

// Step starts from a preset and overrides individual wave parameters.
type Step struct {
	Preset    string             `yaml:"preset"`
	Duration  float64            `yaml:"duration"`
	Overrides map[string]float64 `yaml:"overrides"`
}

// Segment is a resolved step.
type Segment struct {
	Index    int
	Start    float64
	End      float64
	Settings spectrum.Settings
}

// Load reads and resolves a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if err := s.Resolve(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Resolve validates the steps and precomputes their settings.
func (s *Scenario) Resolve() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario %q has no steps", s.Name)
	}
	segments := make([]Segment, 0, len(s.Steps))
	t := 0.0
	for i, step := range s.Steps {
		if step.Duration <= 0 {
			return fmt.Errorf("step %d: duration must be positive, got %f", i+1, step.Duration)
		}
		base := config.GetPreset(step.Preset)
		if base == nil {
			return fmt.Errorf("step %d: unknown preset %q", i+1, step.Preset)
		}
		settings := *base
		keys := make([]string, 0, len(step.Overrides))
		for k := range step.Overrides {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := SetParam(&settings, k, step.Overrides[k]); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		if err := settings.Validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		segments = append(segments, Segment{Index: i, Start: t, End: t + step.Duration, Settings: settings})
		t += step.Duration
	}
	s.segments = segments
	return nil
}

// Segments returns the resolved steps.
func (s *Scenario) Segments() []Segment { return s.segments }

// Duration is the total scripted time.
func (s *Scenario) Duration() float64 {
	if len(s.segments) == 0 {
		return 0
	}
	return s.segments[len(s.segments)-1].End
}

// SettingsAt returns the segment active at time t. Times past the end hold
// the last segment.
func (s *Scenario) SettingsAt(t float64) Segment {
	for _, seg := range s.segments {
		if t < seg.End {
			return seg
		}
	}
	return s.segments[len(s.segments)-1]
}

// SetParam overrides one wave parameter by name. Names prefixed with
// "swell_" address the swell system.
func SetParam(s *spectrum.Settings, name string, v float64) error {
	switch name {
	case "g":
		s.G = v
		return nil
	case "depth":
		s.Depth = v
		return nil
	case "lambda":
		s.Lambda = v
		return nil
	}

	d := &s.Local
	key := name
	if len(name) > 6 && name[:6] == "swell_" {
		d = &s.Swell
		key = name[6:]
	}
	switch key {
	case "scale":
		d.Scale = v
	case "wind_speed":
		d.WindSpeed = v
	case "wind_direction":
		d.WindDirection = v
	case "fetch":
		d.Fetch = v
	case "spread_blend":
		d.SpreadBlend = v
	case "swell":
		d.Swell = v
	case "peak_enhancement":
		d.PeakEnhancement = v
	case "short_waves_fade":
		d.ShortWavesFade = v
	default:
		return fmt.Errorf("unknown wave parameter %q", name)
	}
	return nil
}
