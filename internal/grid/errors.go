package grid

import (
	"errors"
	"fmt"
)

// Domain errors shared across the wave pipeline.
var (
	// ErrNotPowerOfTwo indicates a grid resolution the transform cannot handle.
	ErrNotPowerOfTwo = errors.New("grid: resolution must be a power of two")

	// ErrSizeMismatch indicates two grids that should share a resolution do not.
	ErrSizeMismatch = errors.New("grid: size mismatch between grids")

	// ErrNotInitialized indicates a field was requested before its spectrum existed.
	ErrNotInitialized = errors.New("grid: spectrum not initialized")

	// ErrDisposed indicates use of a cascade after its resources were released.
	ErrDisposed = errors.New("grid: cascade disposed")

	// ErrInvalidSettings indicates non-finite or out-of-range wave parameters.
	ErrInvalidSettings = errors.New("grid: invalid wave settings")

	// ErrBandOverlap indicates cascade frequency bands that gap or overlap.
	ErrBandOverlap = errors.New("grid: cascade bands do not partition the spectrum")
)

// StepError wraps an error with the simulation step that produced it.
type StepError struct {
	Step    int
	Time    float64
	Cascade int
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f) cascade %d: %v", e.Step, e.Time, e.Cascade, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
