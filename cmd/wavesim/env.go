package main

import (
	"context"
	"net/http"
	"time"

	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/fft"
	"github.com/san-kum/wavesim/internal/noise"
	"github.com/san-kum/wavesim/internal/physics"
	"github.com/san-kum/wavesim/internal/spectrum"
	"github.com/san-kum/wavesim/internal/wavefield"
)

// newEnvironment builds a cascade set for cfg with the given wave settings.
// Noise comes from the configured SQLite store, or memory when none is set.
func newEnvironment(ctx context.Context, cfg *config.Config, settings spectrum.Settings) (*environment, error) {
	env := &environment{}

	var store noise.Store = noise.NewMemoryStore()
	if cfg.Noise.Store != "" {
		sq, err := noise.OpenSQLite(cfg.Noise.Store)
		if err != nil {
			return nil, err
		}
		env.store = sq
		store = sq
	}
	fail := func(err error) (*environment, error) {
		if env.store != nil {
			env.store.Close()
		}
		return nil, err
	}

	tr, err := fft.New(cfg.FFT, cfg.Cascades.Size)
	if err != nil {
		return fail(err)
	}
	wcfg, err := cfg.Wavefield()
	if err != nil {
		return fail(err)
	}

	set, err := wavefield.New(ctx, noise.NewSource(cfg.Noise.Seed, store), tr, settings, wcfg)
	if err != nil {
		return fail(err)
	}
	env.set = set
	env.query = &physics.Query{Source: set.Readback(), Iterations: cfg.Query.Iterations}
	return env, nil
}

func newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
