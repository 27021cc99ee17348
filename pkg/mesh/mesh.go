// Package mesh defines the polygon mesh handed to the chunk partitioner.
// Only vertex identity matters to the partitioner; point positions are
// carried along for tessellation and file output.
package mesh

// Vec3 is a point position.
type Vec3 [3]float64

// Polygon references 3 or 4 vertex ids. A triangle stores its last
// corner twice (D == C).
type Polygon struct {
	A, B, C, D int
}

// Tri returns a triangle polygon.
func Tri(a, b, c int) Polygon {
	return Polygon{A: a, B: b, C: c, D: c}
}

// Quad returns a quadrilateral polygon.
func Quad(a, b, c, d int) Polygon {
	return Polygon{A: a, B: b, C: c, D: d}
}

// IsTriangle reports whether the polygon uses only three corners.
func (p Polygon) IsTriangle() bool {
	return p.C == p.D
}

// Corners returns the 3 or 4 vertex ids of the polygon, duplicates included.
func (p Polygon) Corners() []int {
	if p.IsTriangle() {
		return []int{p.A, p.B, p.C}
	}
	return []int{p.A, p.B, p.C, p.D}
}

// Source is the read-only view of a mesh owned by a host application.
type Source interface {
	PointCount() int
	PolygonCount() int
	Polygon(i int) Polygon
}

// Mesh is a polygon mesh with shared, indexed points.
type Mesh struct {
	Name     string    `json:"name"`
	Points   []Vec3    `json:"points"`
	Polygons []Polygon `json:"polygons"`
}

var _ Source = (*Mesh)(nil)

// PointCount returns the number of points.
func (m *Mesh) PointCount() int {
	return len(m.Points)
}

// PolygonCount returns the number of polygons.
func (m *Mesh) PolygonCount() int {
	return len(m.Polygons)
}

// Polygon returns the polygon at index i.
func (m *Mesh) Polygon(i int) Polygon {
	return m.Polygons[i]
}

// IsEmpty returns true if the mesh has no polygons.
func (m *Mesh) IsEmpty() bool {
	return len(m.Polygons) == 0
}

// Triangles returns the mesh as triangles. Quads are split along the A-C
// diagonal.
func (m *Mesh) Triangles() [][3]int {
	tris := make([][3]int, 0, len(m.Polygons)*2)
	for _, p := range m.Polygons {
		tris = append(tris, [3]int{p.A, p.B, p.C})
		if !p.IsTriangle() {
			tris = append(tris, [3]int{p.A, p.C, p.D})
		}
	}
	return tris
}

// Merge concatenates meshes into one, offsetting polygon ids so each input
// keeps its own points. Coincident points are not merged; see Weld.
func Merge(name string, meshes ...*Mesh) *Mesh {
	out := &Mesh{Name: name}
	for _, m := range meshes {
		if m == nil {
			continue
		}
		off := len(out.Points)
		out.Points = append(out.Points, m.Points...)
		for _, p := range m.Polygons {
			out.Polygons = append(out.Polygons, Polygon{
				A: shift(p.A, off),
				B: shift(p.B, off),
				C: shift(p.C, off),
				D: shift(p.D, off),
			})
		}
	}
	return out
}

// shift offsets a vertex id, leaving unset (negative) ids alone.
func shift(id, off int) int {
	if id < 0 {
		return id
	}
	return id + off
}
