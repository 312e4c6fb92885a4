package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/wavefield"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Cascades.LengthScales != wavefield.DefaultLengthScales {
		t.Errorf("expected default length scales, got %v", cfg.Cascades.LengthScales)
	}
	if cfg.Query.Iterations != 3 {
		t.Errorf("expected 3 query iterations, got %d", cfg.Query.Iterations)
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		p := GetPreset(name)
		if err := p.Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestGetPresetReturnsCopy(t *testing.T) {
	p := GetPreset("storm")
	if p == nil {
		t.Fatal("expected preset, got nil")
	}
	p.Local.WindSpeed = 0
	if Presets["storm"].Local.WindSpeed == 0 {
		t.Error("mutating a preset copy should not change the registry")
	}
	if GetPreset("hurricane") != nil {
		t.Error("expected nil for unknown preset")
	}
}

func TestListPresetsSorted(t *testing.T) {
	want := []string{"breeze", "calm", "shallow", "storm", "swell"}
	if diff := cmp.Diff(want, ListPresets()); diff != "" {
		t.Errorf("presets mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wavesim.yaml")
	cfg := DefaultConfig()
	cfg.Cascades.Size = 128
	cfg.Run.Viewer = [3]float64{1, 50, 2}

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadAppliesPresetThenOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storm.yaml")
	data := []byte(`
preset: storm
waves:
  depth: 40
cascades:
  size: 64
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	storm := GetPreset("storm")
	if cfg.Waves.Local != storm.Local {
		t.Errorf("expected storm local settings, got %+v", cfg.Waves.Local)
	}
	if cfg.Waves.Depth != 40 {
		t.Errorf("expected depth override 40, got %f", cfg.Waves.Depth)
	}
	if cfg.Cascades.Size != 64 {
		t.Errorf("expected size 64, got %d", cfg.Cascades.Size)
	}
}

func TestLoadUnknownPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	_ = os.WriteFile(path, []byte("preset: hurricane\n"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected unknown preset error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"non power of two", func(c *Config) { c.Cascades.Size = 100 }, grid.ErrNotPowerOfTwo},
		{"unordered scales", func(c *Config) { c.Cascades.LengthScales = [3]float64{5, 17, 250} }, grid.ErrInvalidSettings},
		{"zero wind", func(c *Config) { c.Waves.Local.WindSpeed = 0 }, grid.ErrInvalidSettings},
		{"bad lod", func(c *Config) { c.LOD.Policy = "orbital" }, nil},
		{"zero dt", func(c *Config) { c.Run.Dt = 0 }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestWavefieldConfig(t *testing.T) {
	cfg := DefaultConfig()
	wf, err := cfg.Wavefield()
	if err != nil {
		t.Fatal(err)
	}
	if wf.LOD.Name() != "altitude" {
		t.Errorf("expected altitude lod, got %s", wf.LOD.Name())
	}
	if wf.Cascade.Choppiness != DefaultChoppiness {
		t.Errorf("expected choppiness %f, got %f", DefaultChoppiness, wf.Cascade.Choppiness)
	}
}
