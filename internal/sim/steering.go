package sim

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"aquarium/internal/vecmath"
)

// stallEps is the force magnitude below which a fish counts as
// stalled and gets a fresh random heading instead.
const stallEps = 1e-6

// steering combines the schooling forces into one desired vector per
// fish per tick.
type steering struct {
	cohesion         float64
	separationRadius float64
	separationWeight float64
	recenterWeight   float64
}

func newSteering(cfg Config) steering {
	return steering{
		cohesion:         cfg.Cohesion,
		separationRadius: cfg.SeparationRadius,
		separationWeight: cfg.SeparationWeight,
		recenterWeight:   cfg.RecenterWeight,
	}
}

// accumulate sums the agent's current velocity with cohesion toward
// the school centroid, 1/d-weighted separation from close neighbors
// and a mild recentering pull. The result is a raw, unnormalized
// desired vector; boundary damping and speed clamping happen later.
func (s steering) accumulate(a *Agent, centroid r3.Vec, near NeighborQuery) r3.Vec {
	desired := a.Velocity

	toCenter := vecmath.Normalize(r3.Sub(centroid, a.Position))
	desired = r3.Add(desired, r3.Scale(s.cohesion, toCenter))

	var push r3.Vec
	for _, n := range near.Near(a.ID, s.separationRadius) {
		// unit away-vector scaled by 1/d: closer neighbors push harder
		push = r3.Add(push, r3.Scale(1/(n.Dist*n.Dist), n.Offset))
	}
	desired = r3.Add(desired, r3.Scale(s.separationWeight, push))

	return r3.Add(desired, r3.Scale(-s.recenterWeight, a.Position))
}

// resolve turns a raw desired vector into a unit direction and a
// speed clamped into [minSpeed, maxSpeed]. When all forces cancel the
// fish falls back to a freshly sampled heading at minSpeed, so no
// fish ever stays motionless.
func resolve(desired r3.Vec, minSpeed, maxSpeed float64, rng *rand.Rand) (r3.Vec, float64) {
	mag := r3.Norm(desired)
	if mag < stallEps {
		return vecmath.RandomUnit(rng), minSpeed
	}
	return r3.Scale(1/mag, desired), vecmath.Clamp(mag, minSpeed, maxSpeed)
}
