// Package tessellate walks a scene and produces polygon meshes using a
// geometry kernel. One mesh is produced per primitive, union or polys node.
package tessellate

import (
	"fmt"
	"math"

	"github.com/chazu/chunkcolor/pkg/kernel"
	"github.com/chazu/chunkcolor/pkg/mesh"
	"github.com/chazu/chunkcolor/pkg/scene"
)

// transformStack accumulates spatial transforms during scene traversal.
type transformStack struct {
	translations []scene.Vec3
	rotations    []scene.Vec3
}

func newTransformStack() *transformStack {
	return &transformStack{}
}

func (ts *transformStack) push(translation, rotation scene.Vec3) {
	ts.translations = append(ts.translations, translation)
	ts.rotations = append(ts.rotations, rotation)
}

func (ts *transformStack) pop() {
	if len(ts.translations) > 0 {
		ts.translations = ts.translations[:len(ts.translations)-1]
	}
	if len(ts.rotations) > 0 {
		ts.rotations = ts.rotations[:len(ts.rotations)-1]
	}
}

// accumulatedTranslation returns the sum of all translations on the stack.
func (ts *transformStack) accumulatedTranslation() scene.Vec3 {
	var sum scene.Vec3
	for _, t := range ts.translations {
		sum = sum.Add(t)
	}
	return sum
}

// accumulatedRotation returns the sum of all rotations on the stack.
func (ts *transformStack) accumulatedRotation() scene.Vec3 {
	var sum scene.Vec3
	for _, r := range ts.rotations {
		sum = sum.Add(r)
	}
	return sum
}

// Tessellate walks the scene from its roots and produces one mesh per
// primitive, union or polys node using the provided kernel. It never
// mutates the scene.
func Tessellate(s *scene.Scene, k kernel.Kernel) ([]*mesh.Mesh, error) {
	if s == nil {
		return nil, nil
	}

	var meshes []*mesh.Mesh
	ts := newTransformStack()

	for _, rootID := range s.Roots {
		root := s.Get(rootID)
		if root == nil {
			continue
		}
		collected, err := walkNode(s, k, root, ts)
		if err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %s: %w", rootID.Short(), err)
		}
		meshes = append(meshes, collected...)
	}

	return meshes, nil
}

// walkNode recursively traverses a node and its children, collecting meshes.
func walkNode(s *scene.Scene, k kernel.Kernel, n *scene.Node, ts *transformStack) ([]*mesh.Mesh, error) {
	switch n.Kind {
	case scene.NodePrimitive, scene.NodeUnion:
		solid, err := buildSolid(s, k, n)
		if err != nil {
			return nil, err
		}
		return handleSolid(k, n, solid, ts)

	case scene.NodePolys:
		return handlePolys(n, ts)

	case scene.NodeTransform:
		return handleTransform(s, k, n, ts)

	case scene.NodeGroup:
		return handleGroup(s, k, n, ts)

	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

// buildSolid turns a primitive, union or transform subtree into one kernel
// solid. Transforms inside a union are applied to the solid directly.
func buildSolid(s *scene.Scene, k kernel.Kernel, n *scene.Node) (kernel.Solid, error) {
	switch data := n.Data.(type) {
	case scene.PrimitiveData:
		switch data.Shape {
		case scene.ShapeBox:
			return k.Box(data.Size.X, data.Size.Y, data.Size.Z), nil
		case scene.ShapeCylinder:
			return k.Cylinder(data.Height, data.Radius, 32), nil
		case scene.ShapeSphere:
			return k.Sphere(data.Radius), nil
		}
		return nil, fmt.Errorf("primitive node %s has unsupported shape %v", n.ID.Short(), data.Shape)

	case scene.UnionData:
		var out kernel.Solid
		for _, child := range s.Children(n) {
			cs, err := buildSolid(s, k, child)
			if err != nil {
				return nil, err
			}
			if out == nil {
				out = cs
			} else {
				out = k.Union(out, cs)
			}
		}
		if out == nil {
			return nil, fmt.Errorf("union node %s has no solid children", n.ID.Short())
		}
		return out, nil

	case scene.TransformData:
		children := s.Children(n)
		if len(children) != 1 {
			return nil, fmt.Errorf("transform node %s inside a union must have exactly one child, has %d", n.ID.Short(), len(children))
		}
		cs, err := buildSolid(s, k, children[0])
		if err != nil {
			return nil, err
		}
		return applyTransform(k, cs, data), nil
	}

	return nil, fmt.Errorf("node %s (%v) cannot be used as a solid", n.ID.Short(), n.Kind)
}

func applyTransform(k kernel.Kernel, solid kernel.Solid, td scene.TransformData) kernel.Solid {
	if td.Rotation != nil && !td.Rotation.IsZero() {
		solid = k.Rotate(solid, td.Rotation.X, td.Rotation.Y, td.Rotation.Z)
	}
	if td.Translation != nil && !td.Translation.IsZero() {
		solid = k.Translate(solid, td.Translation.X, td.Translation.Y, td.Translation.Z)
	}
	return solid
}

// handleSolid applies the accumulated transforms and tessellates.
func handleSolid(k kernel.Kernel, n *scene.Node, solid kernel.Solid, ts *transformStack) ([]*mesh.Mesh, error) {
	// Apply accumulated rotation first, then translation.
	rot := ts.accumulatedRotation()
	if !rot.IsZero() {
		solid = k.Rotate(solid, rot.X, rot.Y, rot.Z)
	}
	trans := ts.accumulatedTranslation()
	if !trans.IsZero() {
		solid = k.Translate(solid, trans.X, trans.Y, trans.Z)
	}

	m, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for node %s: %w", n.ID.Short(), err)
	}
	m.Name = nodeName(n)
	return []*mesh.Mesh{m}, nil
}

// handlePolys copies the hand-built mesh, moving its points by the
// accumulated transforms.
func handlePolys(n *scene.Node, ts *transformStack) ([]*mesh.Mesh, error) {
	pd, ok := n.Data.(scene.PolysData)
	if !ok {
		return nil, fmt.Errorf("polys node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}

	rot := ts.accumulatedRotation()
	trans := ts.accumulatedTranslation()
	m := &mesh.Mesh{
		Name:     nodeName(n),
		Points:   make([]mesh.Vec3, len(pd.Points)),
		Polygons: append([]mesh.Polygon(nil), pd.Polygons...),
	}
	for i, p := range pd.Points {
		m.Points[i] = toMesh(rotate(p, rot).Add(trans))
	}
	return []*mesh.Mesh{m}, nil
}

// handleTransform pushes the transform, recurses into children, then pops.
func handleTransform(s *scene.Scene, k kernel.Kernel, n *scene.Node, ts *transformStack) ([]*mesh.Mesh, error) {
	td, ok := n.Data.(scene.TransformData)
	if !ok {
		return nil, fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}

	var translation, rotation scene.Vec3
	if td.Translation != nil {
		translation = *td.Translation
	}
	if td.Rotation != nil {
		rotation = *td.Rotation
	}
	ts.push(translation, rotation)
	defer ts.pop()

	var meshes []*mesh.Mesh
	for _, child := range s.Children(n) {
		collected, err := walkNode(s, k, child, ts)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, collected...)
	}
	return meshes, nil
}

// handleGroup recurses into children transparently.
func handleGroup(s *scene.Scene, k kernel.Kernel, n *scene.Node, ts *transformStack) ([]*mesh.Mesh, error) {
	var meshes []*mesh.Mesh
	for _, child := range s.Children(n) {
		collected, err := walkNode(s, k, child, ts)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, collected...)
	}
	return meshes, nil
}

// nodeName prefers the node's Name and falls back to its ID.
func nodeName(n *scene.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID.Short()
}

func toMesh(v scene.Vec3) mesh.Vec3 {
	return mesh.Vec3{v.X, v.Y, v.Z}
}

// rotate applies Euler rotation r (degrees) as Rz * Ry * Rx, matching
// kernel.Kernel.Rotate.
func rotate(p scene.Vec3, r scene.Vec3) scene.Vec3 {
	if r.IsZero() {
		return p
	}
	x, y, z := p.X, p.Y, p.Z

	sx, cx := math.Sincos(r.X * math.Pi / 180)
	y, z = y*cx-z*sx, y*sx+z*cx

	sy, cy := math.Sincos(r.Y * math.Pi / 180)
	x, z = x*cy+z*sy, -x*sy+z*cy

	sz, cz := math.Sincos(r.Z * math.Pi / 180)
	x, y = x*cz-y*sz, x*sz+y*cz

	return scene.Vec3{X: x, Y: y, Z: z}
}
