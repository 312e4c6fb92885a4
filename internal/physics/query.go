package physics

import "github.com/go-gl/mathgl/mgl64"

// DefaultIterations is the fixed-point iteration count used by NewQuery.
const DefaultIterations = 3

// SnapshotSource supplies the latest snapshot. *Readback implements it.
type SnapshotSource interface {
	Latest() *Snapshot
}

// Query answers height and displacement lookups. Safe for concurrent use.
type Query struct {
	Source     SnapshotSource
	Iterations int
}

func NewQuery(src SnapshotSource) *Query {
	return &Query{Source: src, Iterations: DefaultIterations}
}

// Displacement returns the displacement that lands on pos, or the zero
// vector when no snapshot has completed yet.
func (q *Query) Displacement(pos mgl64.Vec3) mgl64.Vec3 {
	s := q.Source.Latest()
	if s == nil {
		return mgl64.Vec3{}
	}
	return s.Invert(pos, q.Iterations)
}

// Height returns the water surface height at pos.
func (q *Query) Height(pos mgl64.Vec3) float64 {
	return q.Displacement(pos).Y()
}
