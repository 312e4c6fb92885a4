// Package physics answers CPU-side water queries against an asynchronously
// read back copy of cascade 0's displacement field.
//
//   - [Readback]: non-blocking transfer requests with newest-wins publication
//   - [Snapshot]: immutable host copy of one completed transfer
//   - [Query]: fixed-point inversion of the displacement map
//
// # Staleness
//
// A query always reads the latest completed snapshot, which lags the
// simulation by at least one transfer. Before the first completion every
// query returns the zero vector.
//
// # Inversion
//
// The surface maps rest positions p to p + D(p). To find the displacement
// that lands on a world position P, the query iterates D_{i+1} = D(P - D_i)
// a fixed number of times:
//
//	q := physics.NewQuery(readback)
//	h := q.Height(mgl64.Vec3{x, 0, z})
//
// The result is an approximation whose error shrinks geometrically with the
// iteration count as long as the horizontal displacement gradient is below one.
package physics
