package scene

import "github.com/chazu/chunkcolor/pkg/mesh"

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// Shape distinguishes between primitive solids.
type Shape int

const (
	ShapeBox      Shape = iota // Size is the extent, min corner at origin
	ShapeCylinder              // Height along Z, Radius; centered on origin
	ShapeSphere                // Radius; centered on origin
)

func (s Shape) String() string {
	switch s {
	case ShapeBox:
		return "box"
	case ShapeCylinder:
		return "cylinder"
	case ShapeSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// PrimitiveData describes a solid primitive.
type PrimitiveData struct {
	Shape  Shape   `json:"shape"`
	Size   Vec3    `json:"size,omitempty"`
	Radius float64 `json:"radius,omitempty"`
	Height float64 `json:"height,omitempty"`
}

func (PrimitiveData) nodeData() {}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData represents a spatial transformation applied to a child node.
// Created by the (place ...) form.
type TransformData struct {
	Translation *Vec3 `json:"translation,omitempty"`
	Rotation    *Vec3 `json:"rotation,omitempty"` // Euler angles in degrees
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Group and union
// ---------------------------------------------------------------------------

// GroupData represents a logical grouping. Children tessellate separately.
type GroupData struct{}

func (GroupData) nodeData() {}

// UnionData merges solid children into one surface before tessellation.
type UnionData struct{}

func (UnionData) nodeData() {}

// ---------------------------------------------------------------------------
// Polys
// ---------------------------------------------------------------------------

// PolysData is a hand-built mesh: points plus 3- or 4-gons indexing them.
type PolysData struct {
	Points   []Vec3         `json:"points"`
	Polygons []mesh.Polygon `json:"polygons"`
}

func (PolysData) nodeData() {}
