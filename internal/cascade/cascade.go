// Package cascade owns one length-scale band of the ocean surface.
package cascade

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/san-kum/wavesim/internal/fft"
	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/noise"
	"github.com/san-kum/wavesim/internal/spectrum"
)

type State int

const (
	Uninitialized State = iota
	SpectrumReady
	FieldReady
	Disposed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case SpectrumReady:
		return "spectrum-ready"
	case FieldReady:
		return "field-ready"
	case Disposed:
		return "disposed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type Options struct {
	Choppiness float64
	// AlwaysRecalculate regenerates the initial spectrum on every call to
	// CalculateInitials, even when nothing changed.
	AlwaysRecalculate bool
	FastTrig          bool
}

type initialsKey struct {
	settings    spectrum.Settings
	lengthScale float64
	band        spectrum.Band
}

// Cascade moves through Uninitialized → SpectrumReady ⇄ FieldReady and ends
// in Disposed. Field may be called concurrently with the calculation methods.
type Cascade struct {
	mu sync.Mutex

	noise *noise.Field
	fft   fft.Transformer
	opts  Options

	state       State
	key         initialsKey
	initial     *spectrum.Initial
	evolved     *spectrum.Evolved
	foam        []float32
	lastT       float64
	hasT        bool
	generations int

	field atomic.Pointer[Field]
}

// New creates a cascade over a shared noise field and transformer.
func New(n *noise.Field, t fft.Transformer, opts Options) (*Cascade, error) {
	if n == nil || t == nil {
		return nil, fmt.Errorf("cascade: noise field and transformer are required")
	}
	if n.Size != t.Size() {
		return nil, fmt.Errorf("%w: noise %d, transform %d", grid.ErrSizeMismatch, n.Size, t.Size())
	}
	if err := grid.CheckSize(n.Size); err != nil {
		return nil, err
	}
	foam := make([]float32, n.Size*n.Size)
	for i := range foam {
		foam[i] = 1
	}
	return &Cascade{
		noise:   n,
		fft:     t,
		opts:    opts,
		evolved: spectrum.NewEvolved(n.Size),
		foam:    foam,
	}, nil
}

// CalculateInitials regenerates the initial spectrum when its inputs changed.
// It reports whether a regeneration happened.
func (c *Cascade) CalculateInitials(settings spectrum.Settings, lengthScale float64, band spectrum.Band) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Disposed {
		return false, grid.ErrDisposed
	}

	key := initialsKey{settings: settings, lengthScale: lengthScale, band: band}
	if c.state != Uninitialized && key == c.key && !c.opts.AlwaysRecalculate {
		return false, nil
	}

	if err := settings.Validate(); err != nil {
		return false, err
	}
	in, err := spectrum.Generate(c.noise, settings.Constants, settings.Parameters(), band, lengthScale)
	if err != nil {
		return false, err
	}

	c.initial = in
	c.key = key
	c.state = SpectrumReady
	c.generations++
	return true, nil
}

// CalculateAtTime evolves, transforms and composites the field for time t.
// On error the previously published field is retained.
func (c *Cascade) CalculateAtTime(t float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case Disposed:
		return grid.ErrDisposed
	case Uninitialized:
		return grid.ErrNotInitialized
	}

	evolve := spectrum.Evolve
	if c.opts.FastTrig {
		evolve = spectrum.EvolveFast
	}
	if err := evolve(c.initial, t, c.evolved); err != nil {
		return err
	}
	for _, g := range c.evolved.Grids() {
		if err := c.fft.Inverse2D(g); err != nil {
			return fmt.Errorf("cascade: inverse transform: %w", err)
		}
	}

	dt := 0.0
	if c.hasT && t > c.lastT {
		dt = t - c.lastT
	}
	c.lastT, c.hasT = t, true

	out := NewField(c.noise.Size)
	if err := Composite(c.evolved, c.opts.Choppiness, dt, c.foam, out); err != nil {
		return err
	}
	c.field.Store(out)
	c.state = FieldReady
	return nil
}

// Field returns the last published field, or nil before the first step.
func (c *Cascade) Field() *Field {
	return c.field.Load()
}

func (c *Cascade) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Cascade) LengthScale() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.key.lengthScale
}

func (c *Cascade) Band() spectrum.Band {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.key.band
}

// Initial returns the current initial spectrum, nil while uninitialized.
func (c *Cascade) Initial() *spectrum.Initial {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initial
}

// Generations counts spectrum regenerations.
func (c *Cascade) Generations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations
}

func (c *Cascade) Size() int { return c.noise.Size }

// Dispose releases the cascade's buffers. Further calculation calls fail
// with grid.ErrDisposed. The last published field stays readable.
func (c *Cascade) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Disposed
	c.initial = nil
	c.evolved = nil
	c.foam = nil
}
