package meshio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chazu/chunkcolor/pkg/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOBJ(t *testing.T) {
	src := `# exported
o plate
v 0 0 0
v 1 0 0 0.5 0.5 0.5
v 1 1 0
v 0 1 0
vt 0 0
vn 0 0 1
f 1/1/1 2//1 3/1 -1
f 1 2 3
v 2 2 2
f 1 2 3 4 5
`
	m, err := ReadOBJ(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "plate", m.Name)
	assert.Len(t, m.Points, 5)
	assert.Equal(t, mesh.Vec3{2, 2, 2}, m.Points[4])
	assert.Equal(t, []mesh.Polygon{
		mesh.Quad(0, 1, 2, 3),
		mesh.Tri(0, 1, 2),
		mesh.Tri(0, 1, 2),
		mesh.Tri(0, 2, 3),
		mesh.Tri(0, 3, 4),
	}, m.Polygons)
}

func TestReadOBJKeepsOutOfRangeIndices(t *testing.T) {
	m, err := ReadOBJ(strings.NewReader("v 0 0 0\nv 1 0 0\nf 1 2 9\n"))
	require.NoError(t, err)
	assert.Equal(t, []mesh.Polygon{mesh.Tri(0, 1, 8)}, m.Polygons)
	assert.Len(t, mesh.Validate(m), 1)
}

func TestReadOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"short vertex", "v 1 2\n", "obj line 1: vertex needs 3 coordinates"},
		{"bad coordinate", "v 1 x 2\n", "obj line 1: vertex coordinate 1"},
		{"short face", "v 0 0 0\n\nf 1 1\n", "obj line 3: face needs at least 3 corners"},
		{"zero index", "f 0 1 2\n", `obj line 1: face corner "0": index 0 is not valid`},
		{"bad index", "f 1 a 2\n", `obj line 1: face corner "a"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadOBJ(strings.NewReader(tt.src))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestWriteOBJGroupsChunks(t *testing.T) {
	m, colors := twoIslands()
	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, m, colors))

	want := `o pair
v 0 0 0 1 0 0
v 1 0 0 1 0 0
v 0 1 0 1 0 0
v 5 0 0 0 0.5 1
v 6 0 0 0 0.5 1
v 5 1 0 0 0.5 1
g chunk_0
f 1 2 3
g chunk_1
f 4 5 6
`
	assert.Equal(t, want, buf.String())
}

func TestWriteOBJWithoutColorsSkipsBrokenPolygons(t *testing.T) {
	m := &mesh.Mesh{
		Points:   []mesh.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		Polygons: []mesh.Polygon{mesh.Quad(0, 1, 2, 3), mesh.Tri(0, 1, 7)},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, m, nil))

	want := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
g chunk_0
f 1 2 3 4
`
	assert.Equal(t, want, buf.String())
}
