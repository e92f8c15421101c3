// Package mesh builds the stylized goldfish geometry handed to
// renderers and exporters. The geometry is static: it is generated
// once and never touched by the simulation, which only deals in
// positions and headings.
package mesh

import (
	"gonum.org/v1/gonum/spatial/r3"

	"aquarium/internal/vecmath"
)

// A Face indexes three vertices forming one triangle.
type Face [3]int

// Mesh is a simple triangular mesh with optional per-vertex colors.
type Mesh struct {
	Vertices []r3.Vec
	Faces    []Face
	Normals  []r3.Vec
	Colors   []r3.Vec // RGB in [0, 1], same length as Vertices when set
}

// ComputeNormals fills per-vertex normals using an area-weighted
// average of the adjacent face normals. Cross products of degenerate
// triangles contribute nothing.
func (m *Mesh) ComputeNormals() {
	normals := make([]r3.Vec, len(m.Vertices))
	for _, f := range m.Faces {
		p0, p1, p2 := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		n := r3.Cross(r3.Sub(p1, p0), r3.Sub(p2, p0))
		for _, idx := range f {
			normals[idx] = r3.Add(normals[idx], n)
		}
	}
	for i := range normals {
		normals[i] = vecmath.Normalize(normals[i])
	}
	m.Normals = normals
}

// Transformed returns a copy of the mesh scaled, rotated into the
// given frame and translated. Normals are rotated along.
func (m *Mesh) Transformed(frame vecmath.Basis, translation r3.Vec, scale float64) *Mesh {
	rot := frame.Matrix()
	apply := func(v r3.Vec) r3.Vec {
		return r3.Vec{
			X: rot[0][0]*v.X + rot[0][1]*v.Y + rot[0][2]*v.Z,
			Y: rot[1][0]*v.X + rot[1][1]*v.Y + rot[1][2]*v.Z,
			Z: rot[2][0]*v.X + rot[2][1]*v.Y + rot[2][2]*v.Z,
		}
	}

	out := &Mesh{
		Vertices: make([]r3.Vec, len(m.Vertices)),
		Faces:    append([]Face(nil), m.Faces...),
		Colors:   append([]r3.Vec(nil), m.Colors...),
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = r3.Add(apply(r3.Scale(scale, v)), translation)
	}
	if m.Normals != nil {
		out.Normals = make([]r3.Vec, len(m.Normals))
		for i, n := range m.Normals {
			out.Normals[i] = vecmath.Normalize(apply(n))
		}
	}
	return out
}
