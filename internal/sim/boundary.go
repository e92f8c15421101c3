package sim

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// surfaceBand is the fraction of the vertical half extent above which
// the surface damping bias kicks in.
const surfaceBand = 0.8

// boundary keeps fish inside the tank. It works in two layers: damp
// softens the desired heading before the turn blend, settle clamps and
// reflects after integration. Both are pure and never fail.
type boundary struct {
	half           r3.Vec
	wallDamping    float64
	bounceDamping  float64
	surfaceDamping float64
}

func newBoundary(cfg Config) boundary {
	return boundary{
		half:           cfg.halfExtents(),
		wallDamping:    cfg.WallDamping,
		bounceDamping:  cfg.BounceDamping,
		surfaceDamping: cfg.SurfaceDamping,
	}
}

// damp adjusts a desired direction before it is blended into the
// heading. Per axis, a component that would carry the fish further out
// of bounds is reversed and damped. Inside the surface band the
// vertical component additionally receives a downward bias, a soft
// force that precedes (and never replaces) the hard clamp in settle.
func (b boundary) damp(pos, desired r3.Vec) r3.Vec {
	for axis := 0; axis < 3; axis++ {
		limit := comp(b.half, axis)
		p := comp(pos, axis)
		d := comp(desired, axis)
		if (p <= -limit && d < 0) || (p >= limit && d > 0) {
			setComp(&desired, axis, -b.wallDamping*d)
		}
	}
	if pos.Z > surfaceBand*b.half.Z {
		desired.Z -= b.surfaceDamping * math.Abs(desired.Z)
	}
	return desired
}

// settle clamps an integrated position back onto the tank boundary and
// reflects the velocity on every axis that overshot. Contact loses
// energy: the reflected component is scaled by bounceDamping. The
// returned flag reports whether any wall was hit.
func (b boundary) settle(pos, vel r3.Vec) (r3.Vec, r3.Vec, bool) {
	hit := false
	for axis := 0; axis < 3; axis++ {
		limit := comp(b.half, axis)
		switch p := comp(pos, axis); {
		case p > limit:
			setComp(&pos, axis, limit)
			setComp(&vel, axis, -b.bounceDamping*comp(vel, axis))
			hit = true
		case p < -limit:
			setComp(&pos, axis, -limit)
			setComp(&vel, axis, -b.bounceDamping*comp(vel, axis))
			hit = true
		}
	}
	return pos, vel, hit
}

func comp(v r3.Vec, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func setComp(v *r3.Vec, axis int, val float64) {
	switch axis {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	default:
		v.Z = val
	}
}
