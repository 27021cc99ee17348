package scene

import (
	"fmt"
	"slices"
)

// ValidationSeverity indicates whether a validation finding blocks
// tessellation or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks tessellation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if scene-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// HasErrors reports whether any finding has error severity.
func HasErrors(errs []ValidationError) bool {
	return slices.ContainsFunc(errs, func(e ValidationError) bool {
		return e.Severity == SeverityError
	})
}

// Validate runs all checks on the scene and returns the findings. An empty
// slice means the scene is valid. It is read-only.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDAG(s)...)
	errs = append(errs, validateReferences(s)...)
	errs = append(errs, validateNames(s)...)
	errs = append(errs, validateRoots(s)...)
	errs = append(errs, validatePrimitives(s)...)
	errs = append(errs, validatePolys(s)...)
	return errs
}

// validateDAG checks for cycles using DFS with 3-color marking.
// White (0) = unvisited, gray (1) = on the current path, black (2) = done.
func validateDAG(s *Scene) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int)
	var errs []ValidationError

	var visit func(id NodeID) bool // returns true if cycle found
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cycle detected: node %s is part of a cycle", id.Short()),
				Severity: SeverityError,
			})
			return true
		}

		color[id] = gray
		node, ok := s.Nodes[id]
		if !ok {
			// Dangling reference; handled by validateReferences.
			color[id] = black
			return false
		}
		for _, childID := range node.Children {
			if visit(childID) {
				return true
			}
		}
		color[id] = black
		return false
	}

	for _, id := range sortedIDs(s) {
		if color[id] == white && visit(id) {
			break
		}
	}
	return errs
}

// validateReferences checks that every child ID points to an existing node.
func validateReferences(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, id := range sortedIDs(s) {
		node := s.Nodes[id]
		for _, childID := range node.Children {
			if _, ok := s.Nodes[childID]; !ok {
				errs = append(errs, ValidationError{
					NodeID:   id,
					Message:  fmt.Sprintf("child reference %s does not exist", childID.Short()),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateNames checks that NameIndex entries exist and that no two nodes
// share a name.
func validateNames(s *Scene) []ValidationError {
	var errs []ValidationError

	for name, id := range s.NameIndex {
		if _, ok := s.Nodes[id]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name index entry %q references non-existent node %s", name, id.Short()),
				Severity: SeverityError,
			})
		}
	}

	owners := make(map[string]int)
	for _, node := range s.Nodes {
		if node.Name != "" {
			owners[node.Name]++
		}
	}
	for name, n := range owners {
		if n > 1 {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("duplicate name %q assigned to %d nodes", name, n),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateRoots checks that every root exists and warns about nodes no root
// reaches.
func validateRoots(s *Scene) []ValidationError {
	var errs []ValidationError

	reachable := make(map[NodeID]bool)
	var queue []NodeID
	for _, rid := range s.Roots {
		if _, ok := s.Nodes[rid]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("root reference %s does not exist", rid.Short()),
				Severity: SeverityError,
			})
			continue
		}
		if !reachable[rid] {
			reachable[rid] = true
			queue = append(queue, rid)
		}
	}

	for len(queue) > 0 {
		node := s.Nodes[queue[0]]
		queue = queue[1:]
		if node == nil {
			continue
		}
		for _, childID := range node.Children {
			if !reachable[childID] {
				reachable[childID] = true
				queue = append(queue, childID)
			}
		}
	}

	for _, id := range sortedIDs(s) {
		if !reachable[id] {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  "node is not reachable from any root and will not be tessellated",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validatePrimitives rejects non-positive primitive dimensions.
func validatePrimitives(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, id := range sortedIDs(s) {
		pd, ok := s.Nodes[id].Data.(PrimitiveData)
		if !ok {
			continue
		}
		var bad bool
		switch pd.Shape {
		case ShapeBox:
			bad = pd.Size.X <= 0 || pd.Size.Y <= 0 || pd.Size.Z <= 0
		case ShapeCylinder:
			bad = pd.Radius <= 0 || pd.Height <= 0
		case ShapeSphere:
			bad = pd.Radius <= 0
		}
		if bad {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("%s has non-positive dimensions", pd.Shape),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validatePolys rejects polygon ids outside the point list and warns about
// degenerate polygons, which still tessellate but contribute no edges.
func validatePolys(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, id := range sortedIDs(s) {
		pd, ok := s.Nodes[id].Data.(PolysData)
		if !ok {
			continue
		}
		if len(pd.Polygons) == 0 {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  "polys has no polygons",
				Severity: SeverityWarning,
			})
		}
		for i, p := range pd.Polygons {
			distinct := make(map[int]bool, 4)
			outOfRange := false
			for _, v := range p.Corners() {
				if v < 0 || v >= len(pd.Points) {
					errs = append(errs, ValidationError{
						NodeID:   id,
						Message:  fmt.Sprintf("polygon %d references point %d of %d", i, v, len(pd.Points)),
						Severity: SeverityError,
					})
					outOfRange = true
					continue
				}
				distinct[v] = true
			}
			if !outOfRange && len(distinct) < 3 {
				errs = append(errs, ValidationError{
					NodeID:   id,
					Message:  fmt.Sprintf("polygon %d has %d distinct corners", i, len(distinct)),
					Severity: SeverityWarning,
				})
			}
		}
	}
	return errs
}

// sortedIDs returns node IDs in a stable order so findings are reported
// deterministically.
func sortedIDs(s *Scene) []NodeID {
	ids := make([]NodeID, 0, len(s.Nodes))
	for id := range s.Nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
