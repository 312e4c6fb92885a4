// Package grid provides the shared numeric primitives of the wave pipeline.
//
// Every stage of the ocean synthesis works on square, power-of-two grids:
//
//   - [Complex]: frequency- or spatial-domain N×N complex grid
//   - [FrequencyIndex] / [Mirror]: FFT-order wave numbers and their -k partners
//   - [ParallelFor]: row-chunked worker fan-out used by spectrum and FFT passes
//   - [TrigTable]: optional lookup-table sin/cos for the phase evolution
//
// # Grid Ordering
//
// Grids use standard FFT ordering. Index i on an axis of size N maps to the
// wave number n = i for i < N/2 and n = i - N otherwise, so the partner of
// cell (x, y) under k → -k is ((N-x) mod N, (N-y) mod N).
//
//	g := grid.NewComplex(256)
//	g.Set(x, y, v)
//	kx := grid.FrequencyIndex(x, g.Size)
//
// # Thread Safety
//
// Grids are plain buffers. Concurrent writers must touch disjoint rows, which
// is how [ParallelFor] partitions work.
package grid
