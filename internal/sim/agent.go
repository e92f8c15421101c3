package sim

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"aquarium/internal/vecmath"
)

// Agent is one swimming fish. Position and Velocity are rewritten
// every tick. Scale is fixed at spawn and only read by renderers.
// Phase drives tail and fin motion and wraps at 2π.
type Agent struct {
	ID       int
	Position r3.Vec
	Velocity r3.Vec
	Scale    float64
	Phase    float64
}

// Speed returns the magnitude of the velocity.
func (a *Agent) Speed() float64 { return r3.Norm(a.Velocity) }

// Heading returns the unit velocity direction, or the zero vector for
// a stalled fish.
func (a *Agent) Heading() r3.Vec { return vecmath.Normalize(a.Velocity) }

// Orientation derives the fish's frame from its velocity. It is a
// computed view; velocity stays the single source of truth.
func (a *Agent) Orientation() vecmath.Basis {
	return vecmath.BasisFromForward(a.Velocity)
}

// advancePhase moves the swim phase forward in proportion to the
// distance swum this tick.
func (a *Agent) advancePhase(speed, dt, rate float64) {
	a.Phase = math.Mod(a.Phase+speed*dt*rate, 2*math.Pi)
}

// spawnAgent randomizes one fish: uniform position inside the tank,
// uniform heading on the sphere, uniform speed in the allowed range,
// a display scale around 1 and a random tail phase.
func spawnAgent(id int, cfg Config, rng *rand.Rand) Agent {
	half := cfg.halfExtents()
	pos := r3.Vec{
		X: (2*rng.Float64() - 1) * half.X,
		Y: (2*rng.Float64() - 1) * half.Y,
		Z: (2*rng.Float64() - 1) * half.Z,
	}
	heading := vecmath.RandomUnit(rng)
	speed := cfg.MinSpeed + rng.Float64()*(cfg.MaxSpeed-cfg.MinSpeed)
	return Agent{
		ID:       id,
		Position: pos,
		Velocity: r3.Scale(speed, heading),
		Scale:    0.8 + 0.4*rng.Float64(),
		Phase:    2 * math.Pi * rng.Float64(),
	}
}
