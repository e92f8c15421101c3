package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Config holds the parameters of a tank simulation. The simulator
// copies it at construction; it is never mutated afterwards.
type Config struct {
	FishCount int `toml:"fish_count"`

	// TankSize is the full extent of the tank on each axis.
	// Fish are confined to [-size/2, +size/2] per axis.
	TankSize [3]float64 `toml:"tank_size"`

	MinSpeed float64 `toml:"min_speed"`
	MaxSpeed float64 `toml:"max_speed"`

	// TurnRate bounds how fast a fish can swing its heading,
	// in radians per second.
	TurnRate float64 `toml:"turn_rate"`

	Cohesion         float64 `toml:"cohesion"`
	SeparationRadius float64 `toml:"separation_radius"`
	SeparationWeight float64 `toml:"separation_weight"`

	// RecenterWeight pulls fish gently toward the tank center so the
	// school cannot drift into a corner and stay there.
	RecenterWeight float64 `toml:"recenter_weight"`

	// SurfaceDamping suppresses upward motion in the band near the
	// water surface, keeping fish off the meniscus.
	SurfaceDamping float64 `toml:"surface_damping"`

	// WallDamping scales the reversed component when a desired heading
	// points out of the tank. BounceDamping scales the reflected
	// velocity component on hard wall contact.
	WallDamping   float64 `toml:"wall_damping"`
	BounceDamping float64 `toml:"bounce_damping"`

	// PhaseRate converts distance swum into tail-beat phase.
	PhaseRate float64 `toml:"phase_rate"`

	// Seed fixes the random source; zero picks a time-based seed.
	Seed int64 `toml:"seed"`
}

// DefaultConfig mirrors the tank the display frontend was tuned
// against.
func DefaultConfig() Config {
	return Config{
		FishCount:        6,
		TankSize:         [3]float64{2.6, 1.6, 1.4},
		MinSpeed:         0.25,
		MaxSpeed:         0.55,
		TurnRate:         70 * math.Pi / 180,
		Cohesion:         0.2,
		SeparationRadius: 0.18,
		SeparationWeight: 0.5,
		RecenterWeight:   0.1,
		SurfaceDamping:   0.4,
		WallDamping:      0.8,
		BounceDamping:    0.85,
		PhaseRate:        1.8,
	}
}

// Validate reports the first configuration error, if any.
func (c Config) Validate() error {
	if c.FishCount < 0 {
		return fmt.Errorf("fish count must not be negative, got %d", c.FishCount)
	}
	for axis, size := range c.TankSize {
		if size <= 0 {
			return fmt.Errorf("tank size must be positive on axis %d, got %v", axis, size)
		}
	}
	if c.MinSpeed <= 0 {
		return fmt.Errorf("min speed must be positive, got %v", c.MinSpeed)
	}
	if c.MinSpeed > c.MaxSpeed {
		return fmt.Errorf("min speed %v exceeds max speed %v", c.MinSpeed, c.MaxSpeed)
	}
	if c.TurnRate <= 0 {
		return fmt.Errorf("turn rate must be positive, got %v", c.TurnRate)
	}
	if c.SeparationRadius < 0 {
		return fmt.Errorf("separation radius must not be negative, got %v", c.SeparationRadius)
	}
	return nil
}

// halfExtents returns the containment limit per axis.
func (c Config) halfExtents() r3.Vec {
	return r3.Vec{X: c.TankSize[0] / 2, Y: c.TankSize[1] / 2, Z: c.TankSize[2] / 2}
}
