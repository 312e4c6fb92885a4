package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/wavesim/internal/cascade"
	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/fft"
	"github.com/san-kum/wavesim/internal/noise"
	"github.com/san-kum/wavesim/internal/scenario"
	"github.com/san-kum/wavesim/internal/wavefield"
)

func newSimulator(t *testing.T, seed int64, lod wavefield.LOD) *Simulator {
	t.Helper()
	tr, err := fft.New("butterfly", 32)
	if err != nil {
		t.Fatal(err)
	}
	set, err := wavefield.New(context.Background(), noise.NewSource(seed, nil), tr,
		*config.GetPreset("breeze"), wavefield.Config{LOD: lod, Cascade: cascade.Options{Choppiness: 1}})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(set.Close)
	return New(set, nil)
}

type testMetric struct {
	count int
}

func (m *testMetric) Name() string { return "test" }

func (m *testMetric) Observe(f *cascade.Field, _ float64) {
	if f != nil {
		m.count++
	}
}

func (m *testMetric) Value() float64 { return float64(m.count) }
func (m *testMetric) Reset()         { m.count = 0 }

type countingObserver struct{ steps []int }

func (o *countingObserver) OnStep(step int, _ float64, _ wavefield.RenderParams) {
	o.steps = append(o.steps, step)
}

func TestSimulatorRun(t *testing.T) {
	sim := newSimulator(t, 1, nil)
	metric := &testMetric{}
	obs := &countingObserver{}
	sim.AddMetric(metric)
	sim.AddObserver(obs)

	cfg := Config{
		Dt:           0.1,
		Duration:     1.0,
		SyncReadback: true,
		Buoys:        []Buoy{{Name: "a", X: 0, Z: 0}, {Name: "b", X: 37, Z: 11}},
	}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}
	if result.Steps != 11 || len(obs.steps) != 11 {
		t.Errorf("expected 11 steps and observations, got %d and %d", result.Steps, len(obs.steps))
	}
	series, ok := result.BuoySeries("b")
	if !ok || len(series) != 11 {
		t.Fatalf("expected 11 samples for buoy b, got %v", series)
	}
	if !result.IsValid() {
		t.Error("buoy series contains non-finite samples")
	}

	moving := false
	for _, h := range series[1:] {
		if h != series[0] {
			moving = true
		}
	}
	if !moving {
		t.Error("buoy height should change over time")
	}

	if result.Metrics["test"] != 11 {
		t.Errorf("expected 11 metric observations, got %f", result.Metrics["test"])
	}
	if result.Generations != [3]int{1, 1, 1} {
		t.Errorf("fixed settings should generate each spectrum once, got %v", result.Generations)
	}
	if result.Readback.Requested != 11 {
		t.Errorf("expected 11 readback requests, got %d", result.Readback.Requested)
	}
}

func TestSimulatorDeterministic(t *testing.T) {
	cfg := Config{Dt: 0.25, Duration: 1, SyncReadback: true, Buoys: []Buoy{{Name: "a", X: 5, Z: 5}}}
	a, err := newSimulator(t, 9, nil).Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := newSimulator(t, 9, nil).Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Buoys[0] {
		if a.Buoys[0][i] != b.Buoys[0][i] {
			t.Fatalf("sample %d differs: %f vs %f", i, a.Buoys[0][i], b.Buoys[0][i])
		}
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := newSimulator(t, 1, nil)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.cfg)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSimulatorCancel(t *testing.T) {
	sim := newSimulator(t, 1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := sim.Run(ctx, Config{Dt: 0.1, Duration: 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.Steps != 0 {
		t.Errorf("expected an empty partial result, got %+v", result)
	}
}

func TestSimulatorAppliesScenario(t *testing.T) {
	sc, err := scenario.Parse([]byte(`
name: front
steps:
  - preset: breeze
    duration: 0.5
  - preset: storm
    duration: 0.5
`))
	if err != nil {
		t.Fatal(err)
	}

	sim := newSimulator(t, 1, nil)
	result, err := sim.Run(context.Background(), Config{Dt: 0.25, Duration: 1, Scenario: sc})
	if err != nil {
		t.Fatal(err)
	}
	if result.Generations[0] != 2 {
		t.Errorf("expected one regeneration at the scenario boundary, got %d generations", result.Generations[0])
	}
	if sim.Set().Settings() != *config.GetPreset("storm") {
		t.Error("expected storm settings after the front passed")
	}
}

func TestSimulatorClimbDrivesLOD(t *testing.T) {
	sim := newSimulator(t, 1, wavefield.AltitudeLOD{Rate: 0.001, MinFactor: 0.1})
	cfg := Config{Dt: 1, Duration: 2, Climb: 100}

	if _, err := sim.Run(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}
	if got := sim.Set().RenderParams().LengthScales[0]; math.Abs(got-200) > 1e-9 {
		t.Errorf("expected far length scale 200 at 200 m, got %f", got)
	}
	if !cfg.ViewerAt(2).ApproxEqual(mgl64.Vec3{0, 200, 0}) {
		t.Errorf("unexpected viewer position %v", cfg.ViewerAt(2))
	}
}

func TestRunWithCallbackStops(t *testing.T) {
	sim := newSimulator(t, 1, nil)
	calls := 0
	err := sim.RunWithCallback(context.Background(), Config{Dt: 0.1}, func(step int, _ float64) bool {
		calls++
		return step < 4
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 5 {
		t.Errorf("expected 5 callbacks, got %d", calls)
	}
}

func TestEnsemble(t *testing.T) {
	factory := func(seed int64) (*Simulator, error) {
		tr, _ := fft.New("butterfly", 16)
		set, err := wavefield.New(context.Background(), noise.NewSource(seed, nil), tr,
			*config.GetPreset("breeze"), wavefield.Config{})
		if err != nil {
			return nil, err
		}
		return New(set, nil), nil
	}
	ens := NewEnsemble(factory, 3, 100, func() []Metric { return []Metric{&testMetric{}} })

	results, err := ens.Run(context.Background(), Config{Dt: 0.5, Duration: 1, SyncReadback: true, Buoys: []Buoy{{Name: "a"}}})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Buoys[0][2] == results[1].Buoys[0][2] {
		t.Error("different seeds should give different seas")
	}
}
