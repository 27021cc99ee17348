// Package kernel defines the geometry kernel interface used to turn scene
// primitives into polygon meshes. Implementations (sdfx) provide solid
// modeling behind this interface.
package kernel

import "github.com/chazu/chunkcolor/pkg/mesh"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid
	Sphere(radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// ToMesh tessellates the solid into an indexed mesh whose coincident
	// corners share vertex ids.
	ToMesh(s Solid) (*mesh.Mesh, error)
}
