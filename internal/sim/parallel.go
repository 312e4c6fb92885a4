package sim

import (
	"context"
	"sync"
)

// Factory builds an independent simulator whose noise comes from seed.
type Factory func(seed int64) (*Simulator, error)

// Ensemble runs the same configuration over several noise seeds.
type Ensemble struct {
	factory   Factory
	numRuns   int
	seedStart int64
	metrics   func() []Metric
}

// NewEnsemble creates an ensemble. metrics, if non-nil, supplies a fresh
// metric set for each run.
func NewEnsemble(factory Factory, numRuns int, seedStart int64, metrics func() []Metric) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, seedStart: seedStart, metrics: metrics}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			sim, err := e.factory(e.seedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			defer sim.set.Close()
			if e.metrics != nil {
				for _, m := range e.metrics() {
					sim.AddMetric(m)
				}
			}

			results[idx], errs[idx] = sim.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
