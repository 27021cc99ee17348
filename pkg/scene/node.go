package scene

// NodeID identifies a node. IDs are derived from the defining form
// (object name or generated path) so re-evaluating the same script yields
// the same IDs.
type NodeID string

// ZeroID is the empty node ID.
const ZeroID NodeID = ""

// NewNodeID returns the ID for a node created at path.
func NewNodeID(path string) NodeID {
	return NodeID(path)
}

// IsZero reports whether the ID is empty.
func (id NodeID) IsZero() bool {
	return id == ZeroID
}

// Short returns an abbreviated form for error messages.
func (id NodeID) Short() string {
	const max = 24
	if len(id) <= max {
		return string(id)
	}
	return string(id[:max]) + "…"
}

// NodeKind enumerates the types of nodes in the scene.
type NodeKind int

const (
	NodePrimitive NodeKind = iota // solid primitive (box, cylinder, sphere)
	NodeTransform                 // spatial transformation (place)
	NodeGroup                     // logical grouping (scene)
	NodeUnion                     // boolean union of solid children
	NodePolys                     // explicit points and polygons
)

func (k NodeKind) String() string {
	switch k {
	case NodePrimitive:
		return "primitive"
	case NodeTransform:
		return "transform"
	case NodeGroup:
		return "group"
	case NodeUnion:
		return "union"
	case NodePolys:
		return "polys"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of the scene.
type Node struct {
	ID       NodeID   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Children []NodeID `json:"children,omitempty"`
	Data     NodeData `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
