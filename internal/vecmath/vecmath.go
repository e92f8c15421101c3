// Package vecmath supplies the pieces of 3-vector algebra the tank
// simulation needs on top of gonum's spatial/r3: normalization that
// tolerates the zero vector, spherical interpolation for smooth
// heading changes, uniform direction sampling, and an orthonormal
// frame derived from a heading.
package vecmath

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// nearParallel is the dot-product threshold past which Slerp switches
// to linear interpolation: sin(theta) is too close to zero to divide by.
const nearParallel = 0.9995

// Normalize returns the unit vector colinear to v. Unlike r3.Unit,
// which yields NaNs, it returns the zero vector when |v| is near zero.
// Callers must handle the degenerate case explicitly.
func Normalize(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n < 1e-12 {
		return r3.Vec{}
	}
	return r3.Scale(1/n, v)
}

// Slerp spherically interpolates between the unit vectors a and b.
// t is expected to be in [0, 1] and is not clamped here.
//
// Near-parallel inputs fall back to linear interpolation followed by
// renormalization. Near-antiparallel inputs have no unique great
// circle; the rotation goes through a deterministic perpendicular of
// a so the result stays finite and unit length.
func Slerp(a, b r3.Vec, t float64) r3.Vec {
	dot := Clamp(r3.Dot(a, b), -1, 1)
	switch {
	case dot > nearParallel:
		return Normalize(r3.Add(r3.Scale(1-t, a), r3.Scale(t, b)))
	case dot < -nearParallel:
		p := perpendicular(a)
		sin, cos := math.Sincos(t * math.Pi)
		return r3.Add(r3.Scale(cos, a), r3.Scale(sin, p))
	}
	theta := math.Acos(dot)
	sinTheta := math.Sin(theta)
	fa := math.Sin((1-t)*theta) / sinTheta
	fb := math.Sin(t*theta) / sinTheta
	return r3.Add(r3.Scale(fa, a), r3.Scale(fb, b))
}

// perpendicular returns a unit vector orthogonal to the unit vector v.
func perpendicular(v r3.Vec) r3.Vec {
	ref := r3.Vec{Z: 1}
	if math.Abs(v.Z) > 0.9 {
		ref = r3.Vec{Y: 1}
	}
	return Normalize(r3.Cross(v, ref))
}

// RandomUnit samples a direction uniformly on the unit sphere.
func RandomUnit(rng *rand.Rand) r3.Vec {
	phi := 2 * math.Pi * rng.Float64()
	cosTheta := 2*rng.Float64() - 1
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	sinPhi, cosPhi := math.Sincos(phi)
	return r3.Vec{X: cosPhi * sinTheta, Y: sinPhi * sinTheta, Z: cosTheta}
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// A Basis is a right-handed orthonormal frame. Forward tracks a
// heading; Right and Up complete the frame.
type Basis struct {
	Forward r3.Vec
	Right   r3.Vec
	Up      r3.Vec
}

// BasisFromForward derives an orthonormal frame whose forward axis is
// the normalized heading. The up reference switches from +Z to +Y when
// the heading is close to vertical, keeping the cross products well
// conditioned. A zero heading yields the frame looking down +X.
func BasisFromForward(heading r3.Vec) Basis {
	fwd := Normalize(heading)
	if fwd == (r3.Vec{}) {
		fwd = r3.Vec{X: 1}
	}
	up := r3.Vec{Z: 1}
	if math.Abs(r3.Dot(up, fwd)) > 0.9 {
		up = r3.Vec{Y: 1}
	}
	right := Normalize(r3.Cross(fwd, up))
	up = Normalize(r3.Cross(right, fwd))
	return Basis{Forward: fwd, Right: right, Up: up}
}

// Matrix returns the frame as a 3×3 rotation matrix whose columns are
// forward, right and up.
func (b Basis) Matrix() [3][3]float64 {
	return [3][3]float64{
		{b.Forward.X, b.Right.X, b.Up.X},
		{b.Forward.Y, b.Right.Y, b.Up.Y},
		{b.Forward.Z, b.Right.Z, b.Up.Z},
	}
}
