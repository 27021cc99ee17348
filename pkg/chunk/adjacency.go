// Package chunk splits a polygon mesh into chunks: maximal groups of
// vertices connected through shared polygons.
//
// The work happens in two steps. BuildAdjacency turns polygons into an
// undirected vertex graph, and Partition flood-fills that graph into
// disjoint chunks. Both are pure, single-threaded computations; the
// returned values are immutable and safe to share.
package chunk

import (
	"fmt"
	"slices"

	"github.com/chazu/chunkcolor/pkg/mesh"
)

// InvalidPolygon records a polygon that had fewer than two distinct usable
// vertex ids and so contributed no adjacency edges.
type InvalidPolygon struct {
	Index    int
	Polygon  mesh.Polygon
	Distinct int
}

func (e InvalidPolygon) Error() string {
	return fmt.Sprintf("polygon %d %v: %d distinct vertex ids, no edges added", e.Index, e.Polygon.Corners(), e.Distinct)
}

// Adjacency maps each vertex id to the ids it shares a polygon with.
// It is symmetric and never contains self loops.
type Adjacency struct {
	vertices  []int
	neighbors map[int][]int
	edges     int
}

// Vertices returns every vertex id in ascending order.
func (a *Adjacency) Vertices() []int {
	return slices.Clone(a.vertices)
}

// Neighbors returns the neighbors of v in ascending order, or nil if v is
// not in the graph.
func (a *Adjacency) Neighbors(v int) []int {
	return slices.Clone(a.neighbors[v])
}

// Adjacent reports whether u and v share a polygon.
func (a *Adjacency) Adjacent(u, v int) bool {
	_, ok := slices.BinarySearch(a.neighbors[u], v)
	return ok
}

// Degree returns the number of neighbors of v.
func (a *Adjacency) Degree(v int) int {
	return len(a.neighbors[v])
}

// Len returns the number of vertices.
func (a *Adjacency) Len() int {
	return len(a.vertices)
}

// EdgeCount returns the number of undirected edges.
func (a *Adjacency) EdgeCount() int {
	return a.edges
}

// Builder accumulates polygons into an adjacency graph. The zero value is
// not usable; call NewBuilder.
type Builder struct {
	sets    map[int]map[int]struct{}
	invalid []InvalidPolygon
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{sets: make(map[int]map[int]struct{})}
}

// Add links every pair of distinct non-negative ids of p. Each id becomes a
// vertex of the graph even when p is degenerate.
func (b *Builder) Add(index int, p mesh.Polygon) {
	var ids [4]int
	n := 0
	for _, id := range p.Corners() {
		if id < 0 || slices.Contains(ids[:n], id) {
			continue
		}
		ids[n] = id
		n++
	}

	for _, id := range ids[:n] {
		if _, ok := b.sets[id]; !ok {
			b.sets[id] = make(map[int]struct{}, 4)
		}
	}
	if n < 2 {
		b.invalid = append(b.invalid, InvalidPolygon{Index: index, Polygon: p, Distinct: n})
		return
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				b.sets[ids[i]][ids[j]] = struct{}{}
			}
		}
	}
}

// Invalid returns the polygons added so far that contributed no edges.
func (b *Builder) Invalid() []InvalidPolygon {
	return slices.Clone(b.invalid)
}

// Build freezes the accumulated graph. The Builder may keep accepting
// polygons afterwards; earlier results are not affected.
func (b *Builder) Build() *Adjacency {
	a := &Adjacency{
		vertices:  make([]int, 0, len(b.sets)),
		neighbors: make(map[int][]int, len(b.sets)),
	}
	for v, set := range b.sets {
		a.vertices = append(a.vertices, v)
		ns := make([]int, 0, len(set))
		for n := range set {
			ns = append(ns, n)
		}
		slices.Sort(ns)
		a.neighbors[v] = ns
		a.edges += len(ns)
	}
	slices.Sort(a.vertices)
	a.edges /= 2
	return a
}

// BuildAdjacency builds the vertex graph of a polygon list.
func BuildAdjacency(polys []mesh.Polygon) *Adjacency {
	b := NewBuilder()
	for i, p := range polys {
		b.Add(i, p)
	}
	return b.Build()
}

// FromSource builds the vertex graph of every polygon in src and returns
// the polygons that contributed no edges.
func FromSource(src mesh.Source) (*Adjacency, []InvalidPolygon) {
	b := NewBuilder()
	for i := 0; i < src.PolygonCount(); i++ {
		b.Add(i, src.Polygon(i))
	}
	return b.Build(), b.Invalid()
}
