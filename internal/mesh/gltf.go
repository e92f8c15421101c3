package mesh

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
)

// glTF 2.0 component and target constants.
const (
	gltfFloat        = 5126
	gltfUnsignedInt  = 5125
	gltfArrayBuffer  = 34962
	gltfElementArray = 34963
)

type gltfDocument struct {
	Asset       gltfAsset        `json:"asset"`
	Scene       int              `json:"scene"`
	Scenes      []gltfScene      `json:"scenes"`
	Nodes       []gltfNode       `json:"nodes"`
	Meshes      []gltfMesh       `json:"meshes"`
	Accessors   []gltfAccessor   `json:"accessors"`
	BufferViews []gltfBufferView `json:"bufferViews"`
	Buffers     []gltfBuffer     `json:"buffers"`
}

type gltfAsset struct {
	Version   string `json:"version"`
	Generator string `json:"generator"`
}

type gltfScene struct {
	Nodes []int `json:"nodes"`
}

type gltfNode struct {
	Mesh int    `json:"mesh"`
	Name string `json:"name,omitempty"`
}

type gltfMesh struct {
	Name       string          `json:"name,omitempty"`
	Primitives []gltfPrimitive `json:"primitives"`
}

type gltfPrimitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    int            `json:"indices"`
}

type gltfAccessor struct {
	BufferView    int       `json:"bufferView"`
	ComponentType int       `json:"componentType"`
	Count         int       `json:"count"`
	Type          string    `json:"type"`
	Min           []float64 `json:"min,omitempty"`
	Max           []float64 `json:"max,omitempty"`
}

type gltfBufferView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset"`
	ByteLength int `json:"byteLength"`
	Target     int `json:"target,omitempty"`
}

type gltfBuffer struct {
	ByteLength int    `json:"byteLength"`
	URI        string `json:"uri"`
}

// WriteGLTF writes the mesh as a self-contained glTF 2.0 asset with
// the binary payload embedded as a base64 data URI: positions,
// normals, vertex colors and triangle indices in one buffer.
func (m *Mesh) WriteGLTF(w io.Writer) error {
	if m.Normals == nil {
		m.ComputeNormals()
	}

	var buf []byte
	doc := gltfDocument{
		Asset: gltfAsset{Version: "2.0", Generator: "aquarium"},
		Scene: 0,
	}

	addView := func(data []byte, target int) int {
		doc.BufferViews = append(doc.BufferViews, gltfBufferView{
			Buffer:     0,
			ByteOffset: len(buf),
			ByteLength: len(data),
			Target:     target,
		})
		buf = append(buf, data...)
		return len(doc.BufferViews) - 1
	}

	// POSITION accessors require min/max per the glTF spec.
	minPos := []float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	maxPos := []float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	positions := make([]byte, 0, len(m.Vertices)*12)
	for _, v := range m.Vertices {
		for i, c := range []float64{v.X, v.Y, v.Z} {
			f := float32(c)
			minPos[i] = math.Min(minPos[i], float64(f))
			maxPos[i] = math.Max(maxPos[i], float64(f))
			positions = binary.LittleEndian.AppendUint32(positions, math.Float32bits(f))
		}
	}
	posAcc := len(doc.Accessors)
	doc.Accessors = append(doc.Accessors, gltfAccessor{
		BufferView:    addView(positions, gltfArrayBuffer),
		ComponentType: gltfFloat,
		Count:         len(m.Vertices),
		Type:          "VEC3",
		Min:           minPos,
		Max:           maxPos,
	})

	normals := make([]byte, 0, len(m.Normals)*12)
	for _, n := range m.Normals {
		for _, c := range []float64{n.X, n.Y, n.Z} {
			normals = binary.LittleEndian.AppendUint32(normals, math.Float32bits(float32(c)))
		}
	}
	nrmAcc := len(doc.Accessors)
	doc.Accessors = append(doc.Accessors, gltfAccessor{
		BufferView:    addView(normals, gltfArrayBuffer),
		ComponentType: gltfFloat,
		Count:         len(m.Normals),
		Type:          "VEC3",
	})

	attributes := map[string]int{
		"POSITION": posAcc,
		"NORMAL":   nrmAcc,
	}

	if m.Colors != nil {
		colors := make([]byte, 0, len(m.Colors)*12)
		for _, c := range m.Colors {
			for _, comp := range []float64{c.X, c.Y, c.Z} {
				colors = binary.LittleEndian.AppendUint32(colors, math.Float32bits(float32(comp)))
			}
		}
		colAcc := len(doc.Accessors)
		doc.Accessors = append(doc.Accessors, gltfAccessor{
			BufferView:    addView(colors, gltfArrayBuffer),
			ComponentType: gltfFloat,
			Count:         len(m.Colors),
			Type:          "VEC3",
		})
		attributes["COLOR_0"] = colAcc
	}

	indices := make([]byte, 0, len(m.Faces)*12)
	for _, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(m.Vertices) {
				return fmt.Errorf("face references vertex %d of %d", idx, len(m.Vertices))
			}
			indices = binary.LittleEndian.AppendUint32(indices, uint32(idx))
		}
	}
	idxAcc := len(doc.Accessors)
	doc.Accessors = append(doc.Accessors, gltfAccessor{
		BufferView:    addView(indices, gltfElementArray),
		ComponentType: gltfUnsignedInt,
		Count:         len(m.Faces) * 3,
		Type:          "SCALAR",
	})

	doc.Buffers = []gltfBuffer{{
		ByteLength: len(buf),
		URI:        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(buf),
	}}
	doc.Meshes = []gltfMesh{{
		Name: "goldfish",
		Primitives: []gltfPrimitive{{
			Attributes: attributes,
			Indices:    idxAcc,
		}},
	}}
	doc.Nodes = []gltfNode{{Mesh: 0, Name: "goldfish"}}
	doc.Scenes = []gltfScene{{Nodes: []int{0}}}

	enc := json.NewEncoder(w)
	return enc.Encode(doc)
}

// ExportGLTF writes the mesh to the named file.
func (m *Mesh) ExportGLTF(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.WriteGLTF(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
