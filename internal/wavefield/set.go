// Package wavefield runs the three cascades that together make up the ocean
// surface.
package wavefield

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/wavesim/internal/cascade"
	"github.com/san-kum/wavesim/internal/fft"
	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/noise"
	"github.com/san-kum/wavesim/internal/physics"
	"github.com/san-kum/wavesim/internal/spectrum"
)

// DefaultLengthScales are the far, mid and near cascade sizes in meters.
var DefaultLengthScales = [3]float64{250, 17, 5}

// DefaultBoundaryMultiplier places the seams six wave numbers above each
// cascade's fundamental.
const DefaultBoundaryMultiplier = 6.0

type Config struct {
	Size               int
	LengthScales       [3]float64
	BoundaryMultiplier float64
	Cascade            cascade.Options
	LOD                LOD
	Transfer           physics.TransferFunc
}

func (c Config) withDefaults() Config {
	if c.LengthScales == ([3]float64{}) {
		c.LengthScales = DefaultLengthScales
	}
	if c.BoundaryMultiplier == 0 {
		c.BoundaryMultiplier = DefaultBoundaryMultiplier
	}
	if c.LOD == nil {
		c.LOD = FixedLOD{}
	}
	return c
}

// RenderParams is everything a renderer needs for one frame.
type RenderParams struct {
	Time         float64
	Choppiness   float64
	LengthScales [3]float64
	Bands        [3]spectrum.Band
	Fields       [3]*cascade.Field
}

// Set owns exactly three cascades, largest length scale first.
type Set struct {
	cfg      Config
	cascades [3]*cascade.Cascade
	readback *physics.Readback

	mu       sync.RWMutex
	settings spectrum.Settings
	scales   [3]float64
	bands    [3]spectrum.Band
	time     float64
	steps    int
	closed   bool
}

// New builds a set whose cascades share one noise field and one transformer.
func New(ctx context.Context, src *noise.Source, tr fft.Transformer, settings spectrum.Settings, cfg Config) (*Set, error) {
	cfg = cfg.withDefaults()
	if cfg.Size == 0 {
		cfg.Size = tr.Size()
	}
	if err := grid.CheckSize(cfg.Size); err != nil {
		return nil, err
	}
	if tr.Size() != cfg.Size {
		return nil, fmt.Errorf("%w: set %d, transform %d", grid.ErrSizeMismatch, cfg.Size, tr.Size())
	}
	l := cfg.LengthScales
	if !(l[0] > l[1] && l[1] > l[2] && l[2] > 0) {
		return nil, fmt.Errorf("%w: length scales %v must be strictly decreasing", grid.ErrInvalidSettings, l)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	n, err := src.Get(ctx, cfg.Size)
	if err != nil {
		return nil, fmt.Errorf("wavefield: noise: %w", err)
	}

	s := &Set{
		cfg:      cfg,
		readback: physics.NewReadback(cfg.Transfer),
		settings: settings,
		scales:   l,
		bands:    Boundaries(l, cfg.BoundaryMultiplier),
	}
	for i := range s.cascades {
		c, err := cascade.New(n, tr, cfg.Cascade)
		if err != nil {
			return nil, err
		}
		s.cascades[i] = c
	}
	return s, nil
}

// SetSettings replaces the spectrum settings used from the next step on.
func (s *Set) SetSettings(settings spectrum.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	return nil
}

func (s *Set) Settings() spectrum.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Step advances every cascade to time t for the given viewer position and
// requests a readback of the far cascade.
func (s *Set) Step(ctx context.Context, t float64, viewer mgl64.Vec3) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return grid.ErrDisposed
	}
	var scales [3]float64
	for i, orig := range s.cfg.LengthScales {
		scales[i] = s.cfg.LOD.Scale(viewer, orig)
	}
	bands := Boundaries(scales, s.cfg.BoundaryMultiplier)
	settings := s.settings
	step := s.steps
	s.mu.Unlock()

	if err := ValidateBands(bands); err != nil {
		return err
	}

	errs := make([]error, len(s.cascades))
	var wg sync.WaitGroup
	for i, c := range s.cascades {
		wg.Add(1)
		go func(i int, c *cascade.Cascade) {
			defer wg.Done()
			if _, err := c.CalculateInitials(settings, scales[i], bands[i]); err != nil {
				errs[i] = &grid.StepError{Step: step, Time: t, Cascade: i, Wrapped: err}
				return
			}
			if err := c.CalculateAtTime(t); err != nil {
				errs[i] = &grid.StepError{Step: step, Time: t, Cascade: i, Wrapped: err}
			}
		}(i, c)
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return err
	}

	s.mu.Lock()
	s.scales = scales
	s.bands = bands
	s.time = t
	s.steps++
	s.mu.Unlock()

	f := s.cascades[0].Field()
	if _, err := s.readback.Request(scales[0], f.Size, f.Displacement); err != nil {
		return fmt.Errorf("wavefield: readback: %w", err)
	}
	return nil
}

// RenderParams returns the published state of the last completed step.
func (s *Set) RenderParams() RenderParams {
	s.mu.RLock()
	p := RenderParams{
		Time:         s.time,
		Choppiness:   s.cfg.Cascade.Choppiness,
		LengthScales: s.scales,
		Bands:        s.bands,
	}
	s.mu.RUnlock()
	for i, c := range s.cascades {
		p.Fields[i] = c.Field()
	}
	return p
}

func (s *Set) Cascade(i int) *cascade.Cascade { return s.cascades[i] }

func (s *Set) Cascades() [3]*cascade.Cascade { return s.cascades }

func (s *Set) Readback() *physics.Readback { return s.readback }

func (s *Set) Size() int { return s.cfg.Size }

func (s *Set) LOD() LOD { return s.cfg.LOD }

// Steps counts completed steps.
func (s *Set) Steps() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.steps
}

// Close disposes the cascades and waits for in-flight readbacks.
func (s *Set) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	for _, c := range s.cascades {
		c.Dispose()
	}
	s.readback.Close()
}
