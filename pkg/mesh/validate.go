package mesh

import "fmt"

// WarningKind classifies a mesh validation finding.
type WarningKind int

const (
	WarnNegativeID  WarningKind = iota // corner references no vertex
	WarnOutOfRange                     // corner id >= PointCount
	WarnDegenerate                     // fewer than 3 distinct corners
)

func (k WarningKind) String() string {
	switch k {
	case WarnNegativeID:
		return "negative-id"
	case WarnOutOfRange:
		return "out-of-range"
	case WarnDegenerate:
		return "degenerate"
	default:
		return fmt.Sprintf("WarningKind(%d)", int(k))
	}
}

// ValidationWarning describes a polygon the partitioner will handle in a
// degraded way. Warnings never block a run.
type ValidationWarning struct {
	Polygon int
	Kind    WarningKind
	Message string
}

func (w ValidationWarning) String() string {
	return fmt.Sprintf("[%s] polygon %d: %s", w.Kind, w.Polygon, w.Message)
}

// Validate checks every polygon of src against its point count and
// returns advisory warnings. It is read-only.
func Validate(src Source) []ValidationWarning {
	var warns []ValidationWarning
	points := src.PointCount()

	for i := 0; i < src.PolygonCount(); i++ {
		p := src.Polygon(i)
		distinct := make(map[int]struct{}, 4)
		for _, id := range p.Corners() {
			switch {
			case id < 0:
				warns = append(warns, ValidationWarning{
					Polygon: i,
					Kind:    WarnNegativeID,
					Message: fmt.Sprintf("corner id %d is negative", id),
				})
				continue
			case id >= points:
				warns = append(warns, ValidationWarning{
					Polygon: i,
					Kind:    WarnOutOfRange,
					Message: fmt.Sprintf("corner id %d >= point count %d", id, points),
				})
			}
			distinct[id] = struct{}{}
		}
		if len(distinct) < 3 {
			warns = append(warns, ValidationWarning{
				Polygon: i,
				Kind:    WarnDegenerate,
				Message: fmt.Sprintf("only %d distinct corners", len(distinct)),
			})
		}
	}

	return warns
}
