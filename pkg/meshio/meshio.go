// Package meshio reads and writes meshes with per-vertex colors. Supported
// formats are glTF (.gltf, .glb) and Wavefront OBJ (.obj).
package meshio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/chunkcolor/pkg/color"
	"github.com/chazu/chunkcolor/pkg/mesh"
)

// Format identifies a mesh file format.
type Format int

const (
	FormatGLTF Format = iota // JSON glTF with embedded buffers
	FormatGLB                // binary glTF container
	FormatOBJ                // Wavefront OBJ with vertex colors
)

func (f Format) String() string {
	switch f {
	case FormatGLTF:
		return "gltf"
	case FormatGLB:
		return "glb"
	case FormatOBJ:
		return "obj"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ErrUnsupportedFormat is returned for file extensions meshio cannot handle.
var ErrUnsupportedFormat = errors.New("unsupported mesh format")

// FormatFor picks the format from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf":
		return FormatGLTF, nil
	case ".glb":
		return FormatGLB, nil
	case ".obj":
		return FormatOBJ, nil
	}
	return 0, fmt.Errorf("meshio: %q: %w", path, ErrUnsupportedFormat)
}

// Load reads a mesh from path. The mesh is named after the file unless the
// file names it.
func Load(path string) (*mesh.Mesh, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	var m *mesh.Mesh
	switch format {
	case FormatGLTF, FormatGLB:
		m, err = ReadGLTF(path)
	case FormatOBJ:
		m, err = readOBJFile(path)
	}
	if err != nil {
		return nil, err
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

// Save writes m to path with one color per point. colors may be nil.
func Save(path string, m *mesh.Mesh, colors []color.RGB) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	if err := checkColors(m, colors); err != nil {
		return err
	}

	switch format {
	case FormatGLTF:
		return WriteGLTF(path, m, colors, false)
	case FormatGLB:
		return WriteGLTF(path, m, colors, true)
	default:
		return writeOBJFile(path, m, colors)
	}
}

func checkColors(m *mesh.Mesh, colors []color.RGB) error {
	if colors != nil && len(colors) != m.PointCount() {
		return fmt.Errorf("meshio: %d colors for %d points", len(colors), m.PointCount())
	}
	return nil
}

func readOBJFile(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("meshio: %w", err)
	}
	defer f.Close()
	return ReadOBJ(f)
}

func writeOBJFile(path string, m *mesh.Mesh, colors []color.RGB) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("meshio: %w", err)
	}
	if err := WriteOBJ(f, m, colors); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("meshio: %w", err)
	}
	return nil
}
