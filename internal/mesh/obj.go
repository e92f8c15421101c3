package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// WriteOBJ writes the mesh in Wavefront OBJ form. Vertex lines carry
// the optional per-vertex color as the non-standard but widely read
// "v x y z r g b" extension; faces reference position and normal.
func (m *Mesh) WriteOBJ(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, "# goldfish mesh"); err != nil {
		return err
	}
	for i, v := range m.Vertices {
		var err error
		if m.Colors != nil {
			c := m.Colors[i]
			_, err = fmt.Fprintf(bw, "v %.6f %.6f %.6f %.4f %.4f %.4f\n", v.X, v.Y, v.Z, c.X, c.Y, c.Z)
		} else {
			_, err = fmt.Fprintf(bw, "v %.6f %.6f %.6f\n", v.X, v.Y, v.Z)
		}
		if err != nil {
			return err
		}
	}
	for _, n := range m.Normals {
		if _, err := fmt.Fprintf(bw, "vn %.6f %.6f %.6f\n", n.X, n.Y, n.Z); err != nil {
			return err
		}
	}
	for _, f := range m.Faces {
		a, b, c := f[0]+1, f[1]+1, f[2]+1
		var err error
		if m.Normals != nil {
			_, err = fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
		} else {
			_, err = fmt.Fprintf(bw, "f %d %d %d\n", a, b, c)
		}
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ExportOBJ writes the mesh to the named file.
func (m *Mesh) ExportOBJ(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.WriteOBJ(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
