package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// GoldfishParams control the proportions of the generated goldfish.
// The body swims along +x with the tail trailing behind.
type GoldfishParams struct {
	Length         float64
	BodySegments   int
	RadialSegments int
	TailSegments   int
	BodyRadius     float64
	TailLength     float64
	FinLength      float64
	DorsalHeight   float64
	PectoralLength float64
	BellyDrop      float64
}

// DefaultGoldfishParams returns the proportions the frontend models
// were tuned against.
func DefaultGoldfishParams() GoldfishParams {
	return GoldfishParams{
		Length:         1.2,
		BodySegments:   28,
		RadialSegments: 36,
		TailSegments:   12,
		BodyRadius:     0.28,
		TailLength:     0.55,
		FinLength:      0.45,
		DorsalHeight:   0.35,
		PectoralLength: 0.25,
		BellyDrop:      0.12,
	}
}

// Goldfish generates the full goldfish mesh: a lathed body, a
// trailing tail and four fins, with warm per-vertex colors and
// computed normals.
func Goldfish(p GoldfishParams) *Mesh {
	xs, radiiY, radiiZ := bodyProfile(p)
	m := lathe(xs, radiiY, radiiZ, p.RadialSegments)
	addTail(m, p)
	addFins(m, p)
	paint(m, p)
	m.ComputeNormals()
	return m
}

// bodyProfile samples the body's elliptical cross sections along x:
// a sine bulge with exponential tapers toward nose and tail, and a
// belly that hangs slightly below the midline.
func bodyProfile(p GoldfishParams) (xs, radiiY, radiiZ []float64) {
	for i := 0; i < p.BodySegments; i++ {
		t := float64(i) / float64(p.BodySegments-1)
		xs = append(xs, (t-0.5)*p.Length)
		bulge := math.Pow(math.Sin(math.Pi*t), 0.7)
		taperHead := 1.0 - 0.3*math.Exp(-t*9.0)
		taperTail := 1.0 - 0.7*math.Exp(-(1.0-t)*5.0)
		radius := p.BodyRadius * bulge * taperHead * taperTail
		radiiY = append(radiiY, radius)
		rz := radius*(0.7+0.25*(1.0-math.Abs(t-0.5)*2.0)) - p.BellyDrop*(0.5-t)
		radiiZ = append(radiiZ, math.Max(0.05, rz))
	}
	return xs, radiiY, radiiZ
}

// lathe revolves the profile rings into a closed tube of quads split
// into triangles.
func lathe(xs, radiiY, radiiZ []float64, radialSegments int) *Mesh {
	m := &Mesh{}
	rings := len(xs)
	for i := 0; i < rings; i++ {
		for j := 0; j < radialSegments; j++ {
			theta := 2 * math.Pi * float64(j) / float64(radialSegments)
			m.Vertices = append(m.Vertices, r3.Vec{
				X: xs[i],
				Y: math.Cos(theta) * radiiY[i],
				Z: math.Sin(theta) * radiiZ[i],
			})
		}
	}
	for i := 0; i < rings-1; i++ {
		for j := 0; j < radialSegments; j++ {
			i0 := i*radialSegments + j
			i1 := i*radialSegments + (j+1)%radialSegments
			i2 := (i+1)*radialSegments + (j+1)%radialSegments
			i3 := (i+1)*radialSegments + j
			m.Faces = append(m.Faces, Face{i0, i1, i2}, Face{i0, i2, i3})
		}
	}
	return m
}

// addTail grows a sequence of shrinking rings behind the body and
// stitches the first one onto the last body ring.
func addTail(m *Mesh, p GoldfishParams) {
	radial := p.RadialSegments
	lastBodyRing := (p.BodySegments - 1) * radial
	start := len(m.Vertices)

	for t := 1; t <= p.TailSegments; t++ {
		ft := float64(t) / float64(p.TailSegments)
		w := math.Pow(1.0-ft, 1.3)
		widthY := p.BodyRadius * 0.8 * w
		widthZ := p.BodyRadius * 1.4 * w
		xOffset := p.Length*0.5 + p.TailLength*math.Pow(ft, 1.2)
		for j := 0; j < radial; j++ {
			theta := 2 * math.Pi * float64(j) / float64(radial)
			m.Vertices = append(m.Vertices, r3.Vec{
				X: xOffset,
				Y: math.Cos(theta) * widthY * math.Sin(theta*0.5),
				Z: math.Sin(theta) * widthZ * (0.5 + 0.5*w),
			})
		}
	}

	for layer := 0; layer < p.TailSegments-1; layer++ {
		ring0 := start + layer*radial
		ring1 := start + (layer+1)*radial
		for j := 0; j < radial; j++ {
			i0 := ring0 + j
			i1 := ring0 + (j+1)%radial
			i2 := ring1 + (j+1)%radial
			i3 := ring1 + j
			m.Faces = append(m.Faces, Face{i0, i1, i2}, Face{i0, i2, i3})
		}
	}
	for j := 0; j < radial; j++ {
		i0 := lastBodyRing + j
		i1 := lastBodyRing + (j+1)%radial
		i2 := start + (j+1)%radial
		i3 := start + j
		m.Faces = append(m.Faces, Face{i0, i1, i2}, Face{i0, i2, i3})
	}
}

// addFin fans a small triangle strip out from a base point along a
// direction; wavePhase pinches the tip so the fin looks mid-stroke.
func addFin(m *Mesh, base, dir r3.Vec, length, width, thickness, wavePhase float64) {
	n := r3.Norm(dir)
	if n == 0 {
		n = 1
	}
	d := r3.Scale(1/n, dir)

	up := r3.Vec{Z: 1}
	right := r3.Cross(d, up)
	if r3.Norm(right) < 1e-6 {
		right = r3.Vec{X: 1}
	} else {
		right = r3.Scale(1/r3.Norm(right), right)
	}
	up = r3.Cross(d, right)

	tip := r3.Add(base, r3.Scale(length, d))
	flap := r3.Add(r3.Scale(width, right), r3.Scale(thickness, up))

	start := len(m.Vertices)
	m.Vertices = append(m.Vertices,
		r3.Sub(base, flap),
		r3.Add(base, flap),
		r3.Add(tip, r3.Scale(wavePhase, flap)),
		r3.Sub(tip, r3.Scale(wavePhase, flap)),
	)
	m.Faces = append(m.Faces,
		Face{start, start + 1, start + 2},
		Face{start, start + 2, start + 3},
	)
}

func addFins(m *Mesh, p GoldfishParams) {
	// dorsal
	addFin(m,
		r3.Vec{Z: p.BodyRadius * 0.95},
		r3.Vec{X: 0.2, Z: 0.5},
		p.DorsalHeight, p.DorsalHeight*0.4, 0.02, 0.6)

	// pectorals
	for _, side := range []float64{1, -1} {
		addFin(m,
			r3.Vec{X: -p.Length * 0.1, Y: side * p.BodyRadius * 0.8, Z: -p.BellyDrop},
			r3.Vec{X: 0.15, Y: side * 0.6, Z: 0.2},
			p.PectoralLength, p.PectoralLength*0.5, 0.015, 0.3)
	}

	// pelvic
	addFin(m,
		r3.Vec{X: -p.Length * 0.05, Z: -p.BodyRadius * 1.1},
		r3.Vec{X: 0.2, Z: -0.8},
		p.FinLength*0.7, p.FinLength*0.3, 0.018, 0.5)
}

// paint assigns a warm orange ramp per vertex: hue drifts along the
// body, brightness follows distance from the spine.
func paint(m *Mesh, p GoldfishParams) {
	m.Colors = make([]r3.Vec, len(m.Vertices))
	for i, v := range m.Vertices {
		along := clamp01((v.X + p.Length*0.2) / p.Length)
		radial := clamp01(math.Hypot(v.Y, v.Z) / p.BodyRadius)
		hue := 0.04 + 0.05*along
		value := 0.85 + 0.1*radial
		r, g, b := hsvToRGB(hue, 0.75, value)
		m.Colors[i] = r3.Vec{X: r, Y: g, Z: b}
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func hsvToRGB(h, s, v float64) (float64, float64, float64) {
	h = math.Mod(h, 1.0)
	if h < 0 {
		h += 1
	}
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)
	switch i % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}
