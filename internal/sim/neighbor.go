package sim

import "gonum.org/v1/gonum/spatial/r3"

// coincidentEps is the distance below which two fish count as
// coincident; such pairs are skipped so 1/d terms cannot blow up.
const coincidentEps = 1e-6

// A Neighbor is another fish within query radius of a focal fish.
// Offset points from the neighbor toward the focal fish, so summed
// offsets push the focal fish out of a crowd.
type Neighbor struct {
	Index  int
	Offset r3.Vec
	Dist   float64
}

// NeighborQuery answers proximity queries against the pre-step fish
// positions. The brute-force implementation scans the whole school;
// substituting a spatial index only requires satisfying this
// interface.
type NeighborQuery interface {
	Near(self int, radius float64) []Neighbor
}

// bruteForceQuery is an O(n²)-per-tick scan over a position snapshot.
// Fine at tank scale, tens of fish.
type bruteForceQuery struct {
	positions []r3.Vec
}

func (q *bruteForceQuery) Near(self int, radius float64) []Neighbor {
	var out []Neighbor
	p := q.positions[self]
	for i, other := range q.positions {
		if i == self {
			continue
		}
		off := r3.Sub(p, other)
		d := r3.Norm(off)
		if d <= coincidentEps || d >= radius {
			continue
		}
		out = append(out, Neighbor{Index: i, Offset: off, Dist: d})
	}
	return out
}
