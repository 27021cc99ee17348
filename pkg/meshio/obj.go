package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chazu/chunkcolor/pkg/chunk"
	"github.com/chazu/chunkcolor/pkg/color"
	"github.com/chazu/chunkcolor/pkg/mesh"
)

// ReadOBJ parses the geometry of a Wavefront OBJ stream: v and f records,
// plus o for the mesh name. Face corners may use the v, v/vt, v//vn and
// v/vt/vn forms, and negative indices count back from the latest vertex.
// Faces with more than four corners are fanned into triangles. Indices past
// the vertex list are kept as they are.
func ReadOBJ(r io.Reader) (*mesh.Mesh, error) {
	m := &mesh.Mesh{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		var err error
		switch fields[0] {
		case "o":
			if m.Name == "" && len(fields) > 1 {
				m.Name = strings.Join(fields[1:], " ")
			}
		case "v":
			err = readVertex(m, fields[1:])
		case "f":
			err = readFace(m, fields[1:])
		}
		if err != nil {
			return nil, fmt.Errorf("meshio: obj line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("meshio: obj: %w", err)
	}
	return m, nil
}

func readVertex(m *mesh.Mesh, fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("vertex needs 3 coordinates, got %d", len(fields))
	}
	var p mesh.Vec3
	for i := range p {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return fmt.Errorf("vertex coordinate %d: %w", i, err)
		}
		p[i] = f
	}
	m.Points = append(m.Points, p)
	return nil
}

func readFace(m *mesh.Mesh, fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("face needs at least 3 corners, got %d", len(fields))
	}
	ids := make([]int, len(fields))
	for i, corner := range fields {
		ref, _, _ := strings.Cut(corner, "/")
		n, err := strconv.Atoi(ref)
		if err != nil {
			return fmt.Errorf("face corner %q: %w", corner, err)
		}
		switch {
		case n > 0:
			ids[i] = n - 1
		case n < 0:
			ids[i] = len(m.Points) + n
		default:
			return fmt.Errorf("face corner %q: index 0 is not valid", corner)
		}
	}

	switch len(ids) {
	case 3:
		m.Polygons = append(m.Polygons, mesh.Tri(ids[0], ids[1], ids[2]))
	case 4:
		m.Polygons = append(m.Polygons, mesh.Quad(ids[0], ids[1], ids[2], ids[3]))
	default:
		for i := 1; i+1 < len(ids); i++ {
			m.Polygons = append(m.Polygons, mesh.Tri(ids[0], ids[i], ids[i+1]))
		}
	}
	return nil
}

// WriteOBJ writes m with colors appended to each v record, a widely read
// OBJ extension. Faces are grouped per chunk as g chunk_N. Polygons that
// reference missing points are left out.
func WriteOBJ(w io.Writer, m *mesh.Mesh, colors []color.RGB) error {
	if err := checkColors(m, colors); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)

	if m.Name != "" {
		fmt.Fprintf(bw, "o %s\n", m.Name)
	}
	for i, p := range m.Points {
		fmt.Fprintf(bw, "v %s %s %s", fmtFloat(p[0]), fmtFloat(p[1]), fmtFloat(p[2]))
		if colors != nil {
			c := colors[i]
			fmt.Fprintf(bw, " %s %s %s", fmtFloat(c.R), fmtFloat(c.G), fmtFloat(c.B))
		}
		bw.WriteByte('\n')
	}

	chunks := chunk.Partition(chunk.BuildAdjacency(m.Polygons))
	n := m.PointCount()
	for i, island := range chunk.PolygonIslands(m.Polygons, chunks) {
		fmt.Fprintf(bw, "g chunk_%d\n", i)
		for _, pi := range island {
			corners := m.Polygons[pi].Corners()
			if !allInRange(corners, n) {
				continue
			}
			bw.WriteString("f")
			for _, id := range corners {
				fmt.Fprintf(bw, " %d", id+1)
			}
			bw.WriteByte('\n')
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("meshio: obj: %w", err)
	}
	return nil
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func allInRange(ids []int, n int) bool {
	for _, id := range ids {
		if !inRange(id, n) {
			return false
		}
	}
	return true
}
