package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/chunkcolor/pkg/mesh"
	"github.com/chazu/chunkcolor/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpShape wraps primitive parameters returned by box, cylinder and
// sphere. It becomes a node when named by defobj or used as a child.
type sexpShape struct {
	data scene.PrimitiveData
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	switch s.data.Shape {
	case scene.ShapeBox:
		return fmt.Sprintf("(box %gx%gx%g)", s.data.Size.X, s.data.Size.Y, s.data.Size.Z)
	case scene.ShapeCylinder:
		return fmt.Sprintf("(cylinder h=%g r=%g)", s.data.Height, s.data.Radius)
	}
	return fmt.Sprintf("(%s r=%g)", s.data.Shape, s.data.Radius)
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// sexpPolys wraps an explicit point and polygon list.
type sexpPolys struct {
	data scene.PolysData
}

func (p *sexpPolys) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(polys %d points %d faces)", len(p.data.Points), len(p.data.Polygons))
}
func (p *sexpPolys) Type() *zygo.RegisteredType { return nil }

// sexpNodeRef wraps a scene.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   scene.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(obj %q)", n.name)
	}
	return fmt.Sprintf("(noderef %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a scene.Vec3.
type sexpVec3 struct {
	vec scene.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW reports whether s is a preprocessed keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// float reads an optional numeric keyword into dst.
func (a kwArgs) float(key string, dst *float64) error {
	v, ok := a.kw[key]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

// vec reads an optional vec3 keyword. It returns nil when absent.
func (a kwArgs) vec(key string) (*scene.Vec3, error) {
	v, ok := a.kw[key]
	if !ok {
		return nil, nil
	}
	vec, err := toVec3(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &vec, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer vertex id.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (scene.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return scene.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toFace converts a list of 3 or 4 integers into a polygon.
func toFace(s zygo.Sexp) (mesh.Polygon, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return mesh.Polygon{}, err
	}
	if len(items) != 3 && len(items) != 4 {
		return mesh.Polygon{}, fmt.Errorf("face needs 3 or 4 vertex ids, got %d", len(items))
	}
	ids := make([]int, len(items))
	for i, item := range items {
		if ids[i], err = toInt(item); err != nil {
			return mesh.Polygon{}, err
		}
	}
	if len(ids) == 3 {
		return mesh.Tri(ids[0], ids[1], ids[2]), nil
	}
	return mesh.Quad(ids[0], ids[1], ids[2], ids[3]), nil
}

// ---------------------------------------------------------------------------
// Scene building
// ---------------------------------------------------------------------------

// builder accumulates the scene for one evaluation. Anonymous node IDs are
// numbered per evaluation so the same script always yields the same IDs.
type builder struct {
	scene    *scene.Scene
	counters map[string]int
}

func newBuilder() *builder {
	return &builder{scene: scene.New(), counters: make(map[string]int)}
}

// nextID returns a fresh ID under prefix, e.g. "place/cube" then
// "place/cube/2".
func (b *builder) nextID(prefix, label string) scene.NodeID {
	if label == "" {
		label = "_anon"
	}
	path := prefix + "/" + label
	b.counters[path]++
	if n := b.counters[path]; n > 1 {
		path = fmt.Sprintf("%s/%d", path, n)
	}
	return scene.NewNodeID(path)
}

// nodeFor turns a shape or polys value into a node. name may be empty.
func (b *builder) nodeFor(v zygo.Sexp, name string) (*scene.Node, error) {
	n := &scene.Node{Name: name}
	var prefix string
	switch body := v.(type) {
	case *sexpShape:
		n.Kind = scene.NodePrimitive
		n.Data = body.data
		prefix = body.data.Shape.String()
	case *sexpPolys:
		n.Kind = scene.NodePolys
		n.Data = body.data
		prefix = "polys"
	default:
		return nil, fmt.Errorf("expected shape or polys expression, got %T (%s)", v, v.SexpString(nil))
	}
	if name != "" {
		n.ID = scene.NewNodeID(name)
	} else {
		n.ID = b.nextID(prefix, "")
	}
	b.scene.AddNode(n)
	return n, nil
}

// child resolves a builtin argument to a node ID, creating an anonymous node
// for inline shapes.
func (b *builder) child(v zygo.Sexp) (scene.NodeID, error) {
	if ref, ok := v.(*sexpNodeRef); ok {
		return ref.id, nil
	}
	n, err := b.nodeFor(v, "")
	if err != nil {
		return scene.ZeroID, err
	}
	return n.ID, nil
}

func (b *builder) children(args []zygo.Sexp) ([]scene.NodeID, error) {
	ids := make([]scene.NodeID, 0, len(args))
	for i, arg := range args {
		id, err := b.child(arg)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i+1, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (b *builder) checkUnused(name string) error {
	if name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if b.scene.Lookup(name) != nil || b.scene.Get(scene.NewNodeID(name)) != nil {
		return fmt.Errorf("%q is already defined", name)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builtinFunc is the zygomys user function signature.
type builtinFunc = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// wrapErr prefixes errors with the builtin name.
func wrapErr(fn builtinFunc) builtinFunc {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		res, err := fn(env, name, args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		return res, nil
	}
}

// registerBuiltins installs the scene builtins into a zygomys environment.
// They populate b.scene during evaluation.
//
// Source code must be preprocessed with preprocessSource before evaluation
// so that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *builder) {
	builtins := map[string]builtinFunc{
		"vec3":     b.vec3,
		"box":      b.box,
		"cylinder": b.cylinder,
		"sphere":   b.sphere,
		"polys":    b.polys,
		"defobj":   b.defobj,
		"obj":      b.obj,
		"place":    b.place,
		"union":    b.union,
		"scene":    b.sceneRoot,
	}
	for name, fn := range builtins {
		env.AddFunction(name, wrapErr(fn))
	}
}

// (vec3 1 2 3)
func (b *builder) vec3(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("requires exactly 3 arguments, got %d", len(args))
	}
	var xyz [3]float64
	for i, axis := range []string{"x", "y", "z"} {
		f, err := toFloat64(args[i])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", axis, err)
		}
		xyz[i] = f
	}
	return &sexpVec3{vec: scene.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
}

// (box :size (vec3 10 20 5))
func (b *builder) box(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	size, err := pa.vec("size")
	if err != nil {
		return nil, err
	}
	if size == nil {
		return nil, fmt.Errorf("requires :size")
	}
	return &sexpShape{data: scene.PrimitiveData{Shape: scene.ShapeBox, Size: *size}}, nil
}

// (cylinder :height 10 :radius 2)
func (b *builder) cylinder(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	pd := scene.PrimitiveData{Shape: scene.ShapeCylinder}
	if err := pa.float("height", &pd.Height); err != nil {
		return nil, err
	}
	if err := pa.float("radius", &pd.Radius); err != nil {
		return nil, err
	}
	return &sexpShape{data: pd}, nil
}

// (sphere :radius 3)
func (b *builder) sphere(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	pd := scene.PrimitiveData{Shape: scene.ShapeSphere}
	if err := pa.float("radius", &pd.Radius); err != nil {
		return nil, err
	}
	return &sexpShape{data: pd}, nil
}

// (polys :points (list (vec3 0 0 0) ...) :faces (list (list 0 1 2) ...))
func (b *builder) polys(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	var pd scene.PolysData

	if v, ok := pa.kw["points"]; ok {
		items, err := sexpListToSlice(v)
		if err != nil {
			return nil, fmt.Errorf("points: %w", err)
		}
		for i, item := range items {
			p, err := toVec3(item)
			if err != nil {
				return nil, fmt.Errorf("point %d: %w", i, err)
			}
			pd.Points = append(pd.Points, p)
		}
	}
	if v, ok := pa.kw["faces"]; ok {
		items, err := sexpListToSlice(v)
		if err != nil {
			return nil, fmt.Errorf("faces: %w", err)
		}
		for i, item := range items {
			f, err := toFace(item)
			if err != nil {
				return nil, fmt.Errorf("face %d: %w", i, err)
			}
			pd.Polygons = append(pd.Polygons, f)
		}
	}
	return &sexpPolys{data: pd}, nil
}

// (defobj "name" (box ...)) names a shape, polys, or an existing
// unnamed node such as a union.
func (b *builder) defobj(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("requires a name and a body expression")
	}
	name, err := toString(args[0])
	if err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	if err := b.checkUnused(name); err != nil {
		return nil, err
	}

	if ref, ok := args[1].(*sexpNodeRef); ok {
		n := b.scene.Get(ref.id)
		if n == nil {
			return nil, fmt.Errorf("node %s does not exist", ref.id.Short())
		}
		if n.Name != "" {
			return nil, fmt.Errorf("node is already named %q", n.Name)
		}
		n.Name = name
		b.scene.NameIndex[name] = n.ID
		return &sexpNodeRef{id: n.ID, name: name}, nil
	}

	n, err := b.nodeFor(args[1], name)
	if err != nil {
		return nil, err
	}
	return &sexpNodeRef{id: n.ID, name: name}, nil
}

// (obj "name")
func (b *builder) obj(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("requires a name argument")
	}
	name, err := toString(args[0])
	if err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	n := b.scene.Lookup(name)
	if n == nil {
		return nil, fmt.Errorf("no object named %q", name)
	}
	return &sexpNodeRef{id: n.ID, name: name}, nil
}

// (place (obj "cube") :at (vec3 0 0 5) :rotate (vec3 0 0 90))
func (b *builder) place(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) != 1 {
		return nil, fmt.Errorf("requires exactly one object as first argument")
	}
	childID, err := b.child(pa.positional[0])
	if err != nil {
		return nil, err
	}

	var td scene.TransformData
	if td.Translation, err = pa.vec("at"); err != nil {
		return nil, err
	}
	if td.Rotation, err = pa.vec("rotate"); err != nil {
		return nil, err
	}

	var label string
	if c := b.scene.Get(childID); c != nil {
		label = c.Name
	}
	id := b.nextID("place", label)
	b.scene.AddNode(&scene.Node{
		ID:       id,
		Kind:     scene.NodeTransform,
		Children: []scene.NodeID{childID},
		Data:     td,
	})
	return &sexpNodeRef{id: id}, nil
}

// (union (obj "a") (place (obj "b") :at ...) ...)
func (b *builder) union(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("requires at least one solid")
	}
	children, err := b.children(args)
	if err != nil {
		return nil, err
	}
	id := b.nextID("union", "")
	b.scene.AddNode(&scene.Node{
		ID:       id,
		Kind:     scene.NodeUnion,
		Children: children,
		Data:     scene.UnionData{},
	})
	return &sexpNodeRef{id: id}, nil
}

// (scene "name" child...) groups its children and registers the group as a
// root. Only roots are tessellated.
func (b *builder) sceneRoot(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("requires a name argument")
	}
	name, err := toString(args[0])
	if err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	if err := b.checkUnused(name); err != nil {
		return nil, err
	}
	children, err := b.children(args[1:])
	if err != nil {
		return nil, err
	}

	id := scene.NewNodeID(name)
	b.scene.AddNode(&scene.Node{
		ID:       id,
		Kind:     scene.NodeGroup,
		Name:     name,
		Children: children,
		Data:     scene.GroupData{},
	})
	b.scene.AddRoot(id)
	return &sexpNodeRef{id: id, name: name}, nil
}
