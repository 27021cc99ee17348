package meshio

import (
	"fmt"

	"github.com/chazu/chunkcolor/pkg/color"
	"github.com/chazu/chunkcolor/pkg/mesh"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ReadGLTF loads every triangle primitive of every mesh in a .gltf or .glb
// file into one mesh. Node transforms are not applied. Primitives without
// an index accessor are read as consecutive triangles.
func ReadGLTF(path string) (*mesh.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("meshio: open %s: %w", path, err)
	}
	return meshFromDocument(doc)
}

func meshFromDocument(doc *gltf.Document) (*mesh.Mesh, error) {
	out := &mesh.Mesh{}
	for mi, gm := range doc.Meshes {
		if out.Name == "" {
			out.Name = gm.Name
		}
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}

			positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return nil, fmt.Errorf("meshio: mesh %d primitive %d: positions: %w", mi, pi, err)
			}

			var indices []uint32
			if prim.Indices != nil {
				indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
				if err != nil {
					return nil, fmt.Errorf("meshio: mesh %d primitive %d: indices: %w", mi, pi, err)
				}
			} else {
				indices = make([]uint32, len(positions))
				for i := range indices {
					indices[i] = uint32(i)
				}
			}

			off := len(out.Points)
			for _, p := range positions {
				out.Points = append(out.Points, mesh.Vec3{float64(p[0]), float64(p[1]), float64(p[2])})
			}
			for i := 0; i+2 < len(indices); i += 3 {
				out.Polygons = append(out.Polygons, mesh.Tri(
					off+int(indices[i]),
					off+int(indices[i+1]),
					off+int(indices[i+2]),
				))
			}
		}
	}
	return out, nil
}

// WriteGLTF saves m as a single-mesh glTF scene. Quads are split into
// triangles; triangles referencing missing points are dropped. colors, when
// present, become the COLOR_0 attribute.
func WriteGLTF(path string, m *mesh.Mesh, colors []color.RGB, binary bool) error {
	if err := checkColors(m, colors); err != nil {
		return err
	}
	doc := buildDocument(m, colors)

	save := gltf.SaveBinary
	if !binary {
		save = gltf.Save
		for _, b := range doc.Buffers {
			if len(b.Data) > 0 {
				b.EmbeddedResource()
			}
		}
	}
	if err := save(doc, path); err != nil {
		return fmt.Errorf("meshio: save %s: %w", path, err)
	}
	return nil
}

func buildDocument(m *mesh.Mesh, colors []color.RGB) *gltf.Document {
	doc := gltf.NewDocument()

	var indices []uint32
	n := m.PointCount()
	for _, t := range m.Triangles() {
		if !inRange(t[0], n) || !inRange(t[1], n) || !inRange(t[2], n) {
			continue
		}
		indices = append(indices, uint32(t[0]), uint32(t[1]), uint32(t[2]))
	}
	if len(indices) == 0 {
		return doc
	}

	positions := make([][3]float32, n)
	for i, p := range m.Points {
		positions[i] = [3]float32{float32(p[0]), float32(p[1]), float32(p[2])}
	}

	attrs := map[string]int{
		gltf.POSITION: modeler.WritePosition(doc, positions),
	}
	if colors != nil {
		rgb := make([][3]float32, len(colors))
		for i, c := range colors {
			rgb[i] = c.Float32()
		}
		attrs[gltf.COLOR_0] = modeler.WriteColor(doc, rgb)
	}

	doc.Meshes = []*gltf.Mesh{{
		Name: m.Name,
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
			Attributes: attrs,
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: m.Name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc
}

func inRange(id, n int) bool {
	return id >= 0 && id < n
}
