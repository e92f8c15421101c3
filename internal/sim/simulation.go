// Package sim advances a small school of goldfish inside a bounded
// tank. The simulator is single-threaded and tick-synchronous: every
// fish steers against the same pre-step centroid and neighbor
// positions, and the whole collection is swapped in at once. Callers
// that share a simulator across goroutines must serialize Step and
// Snapshot themselves.
package sim

import (
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"aquarium/internal/vecmath"
)

// Simulator owns the authoritative fish collection and the per-tick
// configuration.
type Simulator struct {
	cfg    Config
	seed   int64
	rng    *rand.Rand
	steer  steering
	bounds boundary

	agents  []Agent
	scratch []Agent
}

// AgentState is a read-only copy of one fish, safe to hand to
// renderers and broadcasters.
type AgentState struct {
	ID       int     `json:"id"`
	Position r3.Vec  `json:"pos"`
	Velocity r3.Vec  `json:"vel"`
	Forward  r3.Vec  `json:"heading"`
	Speed    float64 `json:"speed"`
	Scale    float64 `json:"scale"`
	Phase    float64 `json:"phase"`
}

// New validates the configuration and spawns the school. A zero seed
// picks a time-based one; the effective seed is retained so a run can
// still be reported and reproduced.
func New(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Simulator{
		cfg:    cfg,
		seed:   seed,
		rng:    rand.New(rand.NewSource(seed)),
		steer:  newSteering(cfg),
		bounds: newBoundary(cfg),
	}
	s.agents = make([]Agent, cfg.FishCount)
	for i := range s.agents {
		s.agents[i] = spawnAgent(i, cfg, s.rng)
	}
	s.scratch = make([]Agent, len(s.agents))
	return s, nil
}

// Config returns the simulator's immutable configuration.
func (s *Simulator) Config() Config { return s.cfg }

// Seed returns the seed actually used for this run.
func (s *Simulator) Seed() int64 { return s.seed }

// Centroid returns the mean fish position.
func (s *Simulator) Centroid() r3.Vec {
	if len(s.agents) == 0 {
		return r3.Vec{}
	}
	var sum r3.Vec
	for i := range s.agents {
		sum = r3.Add(sum, s.agents[i].Position)
	}
	return r3.Scale(1/float64(len(s.agents)), sum)
}

// Step advances every fish by dt seconds.
func (s *Simulator) Step(dt float64) {
	if dt <= 0 || len(s.agents) == 0 {
		return
	}

	centroid := s.Centroid()
	positions := make([]r3.Vec, len(s.agents))
	for i := range s.agents {
		positions[i] = s.agents[i].Position
	}
	near := &bruteForceQuery{positions: positions}

	for i := range s.agents {
		s.scratch[i] = s.stepAgent(s.agents[i], centroid, near, dt)
	}
	s.agents, s.scratch = s.scratch, s.agents
}

// stepAgent computes one fish's next state from the pre-step world.
func (s *Simulator) stepAgent(a Agent, centroid r3.Vec, near NeighborQuery, dt float64) Agent {
	desired := s.steer.accumulate(&a, centroid, near)
	desired = s.bounds.damp(a.Position, desired)
	dir, speed := resolve(desired, s.cfg.MinSpeed, s.cfg.MaxSpeed, s.rng)

	heading := a.Heading()
	if heading == (r3.Vec{}) {
		// a stalled fish has no heading to preserve; turn freely
		heading = dir
	}
	newDir := vecmath.Slerp(heading, dir, math.Min(1, s.cfg.TurnRate*dt))

	vel := r3.Scale(speed, newDir)
	pos := r3.Add(a.Position, r3.Scale(dt, vel))
	pos, vel, hit := s.bounds.settle(pos, vel)
	if hit {
		// wall contact may have bled off speed; restore the invariant
		u := vecmath.Normalize(vel)
		if u == (r3.Vec{}) {
			// fully absorbed bounce, send the fish back the way it came
			u = r3.Scale(-1, newDir)
		}
		spd := vecmath.Clamp(r3.Norm(vel), s.cfg.MinSpeed, s.cfg.MaxSpeed)
		vel = r3.Scale(spd, u)
	}

	a.Position = pos
	a.Velocity = vel
	a.advancePhase(r3.Norm(vel), dt, s.cfg.PhaseRate)
	return a
}

// Snapshot returns an ordered copy of all fish states. The copy never
// aliases simulator internals, so consumers cannot corrupt the run;
// a caller that wants a stable view across later steps keeps its own
// reference.
func (s *Simulator) Snapshot() []AgentState {
	out := make([]AgentState, len(s.agents))
	for i := range s.agents {
		a := &s.agents[i]
		out[i] = AgentState{
			ID:       a.ID,
			Position: a.Position,
			Velocity: a.Velocity,
			Forward:  a.Heading(),
			Speed:    a.Speed(),
			Scale:    a.Scale,
			Phase:    a.Phase,
		}
	}
	return out
}
