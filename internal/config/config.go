package config

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/wavesim/internal/cascade"
	"github.com/san-kum/wavesim/internal/fft"
	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/physics"
	"github.com/san-kum/wavesim/internal/spectrum"
	"github.com/san-kum/wavesim/internal/wavefield"
)

const (
	DefaultPreset     = "breeze"
	DefaultSize       = 256
	DefaultChoppiness = 1.0
	DefaultLODRate    = 0.001
	DefaultMinFactor  = 0.1
	DefaultDt         = 1.0 / 30
	DefaultDuration   = 60.0
	DefaultSeed       = 1
	DefaultAddr       = ":8080"
)

type Config struct {
	Preset   string            `yaml:"preset"`
	Waves    spectrum.Settings `yaml:"waves"`
	Cascades CascadeConfig     `yaml:"cascades"`
	LOD      LODConfig         `yaml:"lod"`
	FFT      string            `yaml:"fft"`
	Query    QueryConfig       `yaml:"query"`
	Noise    NoiseConfig       `yaml:"noise"`
	Run      RunConfig         `yaml:"run"`
	Server   ServerConfig      `yaml:"server"`
}

type CascadeConfig struct {
	Size               int        `yaml:"size"`
	LengthScales       [3]float64 `yaml:"length_scales,flow"`
	BoundaryMultiplier float64    `yaml:"boundary_multiplier"`
	Choppiness         float64    `yaml:"choppiness"`
	AlwaysRecalculate  bool       `yaml:"always_recalculate"`
	FastTrig           bool       `yaml:"fast_trig"`
}

type LODConfig struct {
	Policy    string  `yaml:"policy"`
	Rate      float64 `yaml:"rate"`
	MinFactor float64 `yaml:"min_factor"`
}

type QueryConfig struct {
	Iterations int `yaml:"iterations"`
}

type NoiseConfig struct {
	Seed int64 `yaml:"seed"`
	// Store is a SQLite path for persisted noise fields; empty keeps them in memory.
	Store string `yaml:"store"`
}

type BuoyConfig struct {
	Name string  `yaml:"name"`
	X    float64 `yaml:"x"`
	Z    float64 `yaml:"z"`
}

type RunConfig struct {
	Dt           float64      `yaml:"dt"`
	Duration     float64      `yaml:"duration"`
	Viewer       [3]float64   `yaml:"viewer,flow"`
	Climb        float64      `yaml:"climb"`
	Buoys        []BuoyConfig `yaml:"buoys"`
	SyncReadback bool         `yaml:"sync_readback"`
	Scenario     string       `yaml:"scenario"`
	OutputDir    string       `yaml:"output_dir"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

func DefaultConfig() *Config {
	return &Config{
		Preset: DefaultPreset,
		Waves:  *GetPreset(DefaultPreset),
		Cascades: CascadeConfig{
			Size:               DefaultSize,
			LengthScales:       wavefield.DefaultLengthScales,
			BoundaryMultiplier: wavefield.DefaultBoundaryMultiplier,
			Choppiness:         DefaultChoppiness,
		},
		LOD: LODConfig{
			Policy:    "altitude",
			Rate:      DefaultLODRate,
			MinFactor: DefaultMinFactor,
		},
		FFT:   fft.Default,
		Query: QueryConfig{Iterations: physics.DefaultIterations},
		Noise: NoiseConfig{Seed: DefaultSeed},
		Run: RunConfig{
			Dt:           DefaultDt,
			Duration:     DefaultDuration,
			SyncReadback: true,
			Buoys: []BuoyConfig{
				{Name: "origin", X: 0, Z: 0},
				{Name: "east", X: 60, Z: 0},
				{Name: "north", X: 0, Z: 90},
			},
			OutputDir: "runs",
		},
		Server: ServerConfig{Addr: DefaultAddr},
	}
}

// Load reads a config file. A preset named in the file is applied first so
// that explicit wave fields in the file override it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if head.Preset != "" {
		if err := cfg.ApplyPreset(head.Preset); err != nil {
			return nil, err
		}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyPreset replaces the wave settings with a named preset.
func (c *Config) ApplyPreset(name string) error {
	p := GetPreset(name)
	if p == nil {
		return fmt.Errorf("unknown preset %q (available: %v)", name, ListPresets())
	}
	c.Preset = name
	c.Waves = *p
	return nil
}

func (c *Config) Validate() error {
	if err := c.Waves.Validate(); err != nil {
		return err
	}
	if err := grid.CheckSize(c.Cascades.Size); err != nil {
		return err
	}
	l := c.Cascades.LengthScales
	if !(l[0] > l[1] && l[1] > l[2] && l[2] > 0) {
		return fmt.Errorf("%w: length scales %v must be strictly decreasing", grid.ErrInvalidSettings, l)
	}
	if c.Cascades.BoundaryMultiplier <= 0 {
		return fmt.Errorf("%w: boundary multiplier must be positive", grid.ErrInvalidSettings)
	}
	if _, err := c.LODPolicy(); err != nil {
		return err
	}
	if c.Query.Iterations < 0 {
		return fmt.Errorf("%w: query iterations must not be negative", grid.ErrInvalidSettings)
	}
	if c.Run.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Run.Dt)
	}
	if c.Run.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Run.Duration)
	}
	return nil
}

func (c *Config) LODPolicy() (wavefield.LOD, error) {
	return wavefield.NewLOD(c.LOD.Policy, c.LOD.Rate, c.LOD.MinFactor)
}

// Wavefield converts the cascade section into a wavefield.Config.
func (c *Config) Wavefield() (wavefield.Config, error) {
	lod, err := c.LODPolicy()
	if err != nil {
		return wavefield.Config{}, err
	}
	return wavefield.Config{
		Size:               c.Cascades.Size,
		LengthScales:       c.Cascades.LengthScales,
		BoundaryMultiplier: c.Cascades.BoundaryMultiplier,
		Cascade: cascade.Options{
			Choppiness:        c.Cascades.Choppiness,
			AlwaysRecalculate: c.Cascades.AlwaysRecalculate,
			FastTrig:          c.Cascades.FastTrig,
		},
		LOD: lod,
	}, nil
}

func (c *Config) ViewerPosition() mgl64.Vec3 {
	return mgl64.Vec3{c.Run.Viewer[0], c.Run.Viewer[1], c.Run.Viewer[2]}
}
