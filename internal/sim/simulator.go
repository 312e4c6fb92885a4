package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/wavesim/internal/physics"
	"github.com/san-kum/wavesim/internal/wavefield"
)

type Simulator struct {
	set       *wavefield.Set
	query     *physics.Query
	metrics   []Metric
	observers []Observer
}

// New creates a simulator over set. A nil query reads the set's readback
// with the default iteration count.
func New(set *wavefield.Set, query *physics.Query) *Simulator {
	if query == nil {
		query = physics.NewQuery(set.Readback())
	}
	return &Simulator{
		set:       set,
		query:     query,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Set() *wavefield.Set   { return s.set }
func (s *Simulator) Query() *physics.Query { return s.query }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Times:     make([]float64, 0, steps+1),
		BuoyNames: make([]string, len(cfg.Buoys)),
		Buoys:     make([][]float64, len(cfg.Buoys)),
		Metrics:   make(map[string]float64),
	}
	for i, b := range cfg.Buoys {
		result.BuoyNames[i] = b.Name
		result.Buoys[i] = make([]float64, 0, steps+1)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	activeSegment := -1
	for i := 0; i <= steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, ctx.Err()
		default:
		}

		t := float64(i) * cfg.Dt

		if cfg.Scenario != nil {
			seg := cfg.Scenario.SettingsAt(t)
			if seg.Index != activeSegment {
				if err := s.set.SetSettings(seg.Settings); err != nil {
					return result, fmt.Errorf("scenario segment %d: %w", seg.Index, err)
				}
				activeSegment = seg.Index
			}
		}

		if err := s.set.Step(ctx, t, cfg.ViewerAt(t)); err != nil {
			s.finish(result)
			return result, err
		}
		if cfg.SyncReadback {
			s.set.Readback().Wait()
		}

		for j, b := range cfg.Buoys {
			h := s.query.Height(mgl64.Vec3{b.X, 0, b.Z})
			result.Buoys[j] = append(result.Buoys[j], h)
		}

		field := s.set.Cascade(0).Field()
		for _, m := range s.metrics {
			m.Observe(field, t)
		}
		if len(s.observers) > 0 {
			p := s.set.RenderParams()
			for _, obs := range s.observers {
				obs.OnStep(i, t, p)
			}
		}

		result.Times = append(result.Times, t)
		result.Steps++
	}

	s.finish(result)
	return result, nil
}

func (s *Simulator) finish(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	for i, c := range s.set.Cascades() {
		result.Generations[i] = c.Generations()
	}
	result.Readback = s.set.Readback().Stats()
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

// RunWithCallback steps until the duration elapses, the context is done or
// callback returns false. A zero duration runs until stopped.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(step int, t float64) bool) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}

	for i := 0; cfg.Duration <= 0 || float64(i)*cfg.Dt <= cfg.Duration; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t := float64(i) * cfg.Dt
		if cfg.Scenario != nil {
			if err := s.set.SetSettings(cfg.Scenario.SettingsAt(t).Settings); err != nil {
				return err
			}
		}
		if err := s.set.Step(ctx, t, cfg.ViewerAt(t)); err != nil {
			return err
		}
		if cfg.SyncReadback {
			s.set.Readback().Wait()
		}
		if !callback(i, t) {
			return nil
		}
	}

	return nil
}
