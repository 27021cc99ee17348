package mesh

import "math"

// DefaultWeldTolerance is the distance below which points are merged.
const DefaultWeldTolerance = 1e-6

// FromTriangles builds a mesh from a triangle soup, one point per corner.
// Call Weld to merge the coincident corners.
func FromTriangles(name string, tris [][3]Vec3) *Mesh {
	m := &Mesh{
		Name:     name,
		Points:   make([]Vec3, 0, len(tris)*3),
		Polygons: make([]Polygon, 0, len(tris)),
	}
	for _, t := range tris {
		i := len(m.Points)
		m.Points = append(m.Points, t[0], t[1], t[2])
		m.Polygons = append(m.Polygons, Tri(i, i+1, i+2))
	}
	return m
}

// Weld returns a copy of the mesh in which points closer than tol share
// one id. Each point is compared with the points already kept in its grid
// cell and the 26 cells around it. Points keep their first-seen order. A
// non-positive tol uses DefaultWeldTolerance.
func (m *Mesh) Weld(tol float64) *Mesh {
	if tol <= 0 {
		tol = DefaultWeldTolerance
	}

	type key [3]int64
	cells := make(map[key][]int, len(m.Points))
	remap := make([]int, len(m.Points))
	out := &Mesh{Name: m.Name}

	cellOf := func(p Vec3) key {
		return key{
			int64(math.Floor(p[0] / tol)),
			int64(math.Floor(p[1] / tol)),
			int64(math.Floor(p[2] / tol)),
		}
	}
	near := func(p Vec3, k key) (int, bool) {
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for dz := int64(-1); dz <= 1; dz++ {
					for _, id := range cells[key{k[0] + dx, k[1] + dy, k[2] + dz}] {
						if dist2(p, out.Points[id]) < tol*tol {
							return id, true
						}
					}
				}
			}
		}
		return 0, false
	}

	for i, p := range m.Points {
		k := cellOf(p)
		id, ok := near(p, k)
		if !ok {
			id = len(out.Points)
			cells[k] = append(cells[k], id)
			out.Points = append(out.Points, p)
		}
		remap[i] = id
	}

	at := func(id int) int {
		if id < 0 || id >= len(remap) {
			return id
		}
		return remap[id]
	}
	out.Polygons = make([]Polygon, len(m.Polygons))
	for i, p := range m.Polygons {
		out.Polygons[i] = Polygon{A: at(p.A), B: at(p.B), C: at(p.C), D: at(p.D)}
	}
	return out
}

func dist2(a, b Vec3) float64 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return dx*dx + dy*dy + dz*dz
}
