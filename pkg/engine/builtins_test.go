package engine

import (
	"strings"
	"testing"

	"github.com/chazu/chunkcolor/pkg/mesh"
	"github.com/chazu/chunkcolor/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustEvaluate runs source and fails the test on any error.
func mustEvaluate(t *testing.T, source string) *scene.Scene {
	t.Helper()
	s, evalErrs, err := NewEngine().Evaluate(source)
	require.NoError(t, err)
	require.Empty(t, evalErrs)
	require.NotNil(t, s)
	return s
}

// evalFailure runs source expecting a non-fatal evaluation error and
// returns the combined messages.
func evalFailure(t *testing.T, source string) string {
	t.Helper()
	s, evalErrs, err := NewEngine().Evaluate(source)
	require.NoError(t, err)
	assert.Nil(t, s)
	require.NotEmpty(t, evalErrs)
	msgs := make([]string, len(evalErrs))
	for i, e := range evalErrs {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "\n")
}

func TestPrimitives(t *testing.T) {
	s := mustEvaluate(t, `
(defobj "crate" (box :size (vec3 10 20 5)))
(defobj "post" (cylinder :height 30 :radius 2))
(defobj "ball" (sphere :radius 1.5))
`)
	require.Equal(t, 3, s.NodeCount())

	tests := []struct {
		name string
		want scene.PrimitiveData
	}{
		{"crate", scene.PrimitiveData{Shape: scene.ShapeBox, Size: scene.Vec3{X: 10, Y: 20, Z: 5}}},
		{"post", scene.PrimitiveData{Shape: scene.ShapeCylinder, Height: 30, Radius: 2}},
		{"ball", scene.PrimitiveData{Shape: scene.ShapeSphere, Radius: 1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := s.Lookup(tt.name)
			require.NotNil(t, n)
			assert.Equal(t, scene.NodeID(tt.name), n.ID)
			assert.Equal(t, scene.NodePrimitive, n.Kind)
			assert.Equal(t, tt.want, n.Data)
		})
	}
}

func TestVariableReference(t *testing.T) {
	s := mustEvaluate(t, `
(def r 4)
(defobj "ball" (sphere :radius r))
`)
	n := s.MustLookup("ball")
	assert.Equal(t, 4.0, n.Data.(scene.PrimitiveData).Radius)
}

func TestPolys(t *testing.T) {
	s := mustEvaluate(t, `
;; two triangles sharing an edge, plus a detached quad
(defobj "sheet"
  (polys :points (list (vec3 0 0 0) (vec3 1 0 0) (vec3 1 1 0) (vec3 0 1 0)
                       (vec3 5 0 0) (vec3 6 0 0) (vec3 6 1 0) (vec3 5 1 0))
         :faces (list (list 0 1 2) (list 0 2 3) [4 5 6 7])))
`)
	n := s.MustLookup("sheet")
	assert.Equal(t, scene.NodePolys, n.Kind)
	pd := n.Data.(scene.PolysData)
	assert.Len(t, pd.Points, 8)
	assert.Equal(t, scene.Vec3{X: 6, Y: 1}, pd.Points[6])
	assert.Equal(t, []mesh.Polygon{
		mesh.Tri(0, 1, 2),
		mesh.Tri(0, 2, 3),
		mesh.Quad(4, 5, 6, 7),
	}, pd.Polygons)
}

func TestPlaceAndScene(t *testing.T) {
	s := mustEvaluate(t, `
(defobj "cube" (box :size (vec3 1 1 1)))
(scene "main"
  (place (obj "cube") :at (vec3 0 0 5) :rotate (vec3 0 0 90))
  (place (obj "cube") :at (vec3 3 0 0)))
`)
	require.Equal(t, []scene.NodeID{"main"}, s.Roots)
	root := s.MustLookup("main")
	assert.Equal(t, scene.NodeGroup, root.Kind)
	require.Equal(t, []scene.NodeID{"place/cube", "place/cube/2"}, root.Children)

	first := s.Get("place/cube")
	require.NotNil(t, first)
	assert.Equal(t, scene.NodeTransform, first.Kind)
	assert.Equal(t, []scene.NodeID{"cube"}, first.Children)
	td := first.Data.(scene.TransformData)
	assert.Equal(t, &scene.Vec3{Z: 5}, td.Translation)
	assert.Equal(t, &scene.Vec3{Z: 90}, td.Rotation)

	second := s.Get("place/cube/2").Data.(scene.TransformData)
	assert.Equal(t, &scene.Vec3{X: 3}, second.Translation)
	assert.Nil(t, second.Rotation)

	assert.Empty(t, scene.Validate(s))
}

func TestUnionWithInlineShapes(t *testing.T) {
	s := mustEvaluate(t, `
(defobj "pair"
  (union (sphere :radius 1)
         (place (sphere :radius 1) :at (vec3 5 0 0))))
(scene "main" (obj "pair"))
`)
	pair := s.MustLookup("pair")
	assert.Equal(t, scene.NodeUnion, pair.Kind)
	assert.Equal(t, scene.NodeID("union/_anon"), pair.ID)
	// Arguments evaluate first, so the placed sphere gets its node before
	// the union turns the bare sphere into one.
	require.Equal(t, []scene.NodeID{"sphere/_anon/2", "place/_anon"}, pair.Children)

	moved := s.Get("place/_anon")
	require.NotNil(t, moved)
	assert.Equal(t, []scene.NodeID{"sphere/_anon"}, moved.Children)

	assert.Empty(t, scene.Validate(s))
}

func TestUnnamedObjectsAreOrphans(t *testing.T) {
	s := mustEvaluate(t, `(defobj "loose" (sphere :radius 1))`)
	assert.Empty(t, s.Roots)
	errs := scene.Validate(s)
	assert.False(t, scene.HasErrors(errs))
	assert.Len(t, errs, 1, "loose object is reported as unreachable")
}

func TestDeterministicIDs(t *testing.T) {
	src := `
(scene "main"
  (place (box :size (vec3 1 1 1)) :at (vec3 1 0 0))
  (union (sphere :radius 1) (sphere :radius 2)))
`
	a := mustEvaluate(t, src)
	b := mustEvaluate(t, src)
	assert.Equal(t, a.Nodes, b.Nodes)
	assert.Equal(t, a.Roots, b.Roots)
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"vec3 arity", `(vec3 1 2)`, "vec3: requires exactly 3 arguments"},
		{"vec3 type", `(vec3 1 "a" 2)`, "vec3: y: expected number"},
		{"box without size", `(box)`, "box: requires :size"},
		{"sphere bad radius", `(sphere :radius "big")`, "sphere: radius: expected number"},
		{"unknown object", `(obj "ghost")`, `obj: no object named "ghost"`},
		{"duplicate name", `(defobj "a" (sphere :radius 1)) (defobj "a" (sphere :radius 2))`, `defobj: "a" is already defined`},
		{"empty name", `(defobj "" (sphere :radius 1))`, "defobj: name must not be empty"},
		{"defobj body", `(defobj "a" 42)`, "defobj: expected shape or polys expression"},
		{"rename named", `(defobj "a" (sphere :radius 1)) (defobj "b" (obj "a"))`, `defobj: node is already named "a"`},
		{"face arity", `(polys :points (list (vec3 0 0 0)) :faces (list (list 0 1)))`, "polys: face 0: face needs 3 or 4 vertex ids, got 2"},
		{"face ids", `(polys :faces (list (list 0 1 2.5)))`, "polys: face 0: expected integer"},
		{"place without object", `(place :at (vec3 1 1 1))`, "place: requires exactly one object"},
		{"place bad at", `(place (sphere :radius 1) :at 3)`, "place: at: expected vec3"},
		{"empty union", `(union)`, "union: requires at least one solid"},
		{"scene child", `(scene "main" 7)`, "scene: child 1: expected shape or polys expression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, evalFailure(t, tt.source), tt.want)
		})
	}
}
