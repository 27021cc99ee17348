package meshio

import (
	"path/filepath"
	"testing"

	"github.com/chazu/chunkcolor/pkg/color"
	"github.com/chazu/chunkcolor/pkg/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoIslands returns two separated triangles and their chunk colors.
func twoIslands() (*mesh.Mesh, []color.RGB) {
	m := &mesh.Mesh{
		Name: "pair",
		Points: []mesh.Vec3{
			{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
			{5, 0, 0}, {6, 0, 0}, {5, 1, 0},
		},
		Polygons: []mesh.Polygon{mesh.Tri(0, 1, 2), mesh.Tri(3, 4, 5)},
	}
	red := color.RGB{R: 1}
	blue := color.RGB{G: 0.5, B: 1}
	return m, []color.RGB{red, red, red, blue, blue, blue}
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"scene.gltf", FormatGLTF},
		{"dir/scene.GLB", FormatGLB},
		{"mesh.obj", FormatOBJ},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFor(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FormatFor("mesh.stl")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Equal(t, "glb", FormatGLB.String())
	assert.Equal(t, "Format(7)", Format(7).String())
}

func TestLoadUnsupported(t *testing.T) {
	_, err := Load("model.fbx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.obj"))
	assert.Error(t, err)
}

func TestSaveRejectsColorCountMismatch(t *testing.T) {
	m, colors := twoIslands()
	for _, name := range []string{"out.obj", "out.gltf", "out.glb"} {
		err := Save(filepath.Join(t.TempDir(), name), m, colors[:2])
		assert.ErrorContains(t, err, "2 colors for 6 points", name)
	}
}

func TestSaveLoadEveryFormat(t *testing.T) {
	m, colors := twoIslands()
	for _, name := range []string{"pair.obj", "pair.gltf", "pair.glb"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Save(path, m, colors))

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, "pair", got.Name)
			assert.Equal(t, m.Points, got.Points)
			assert.Equal(t, m.Polygons, got.Polygons)
		})
	}
}

func TestLoadNamesMeshAfterFile(t *testing.T) {
	m, _ := twoIslands()
	m.Name = ""
	path := filepath.Join(t.TempDir(), "unnamed.obj")
	require.NoError(t, Save(path, m, nil))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "unnamed", got.Name)
}
