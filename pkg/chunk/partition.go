package chunk

import (
	"slices"

	"github.com/chazu/chunkcolor/pkg/mesh"
)

// Chunk is one connected component of an Adjacency, sorted ascending.
type Chunk []int

// Partition splits the graph into its connected components.
//
// Seeds are taken in ascending vertex order and the frontier is a LIFO
// stack, so the same graph always yields the same chunks in the same order.
// An empty graph yields nil.
func Partition(a *Adjacency) []Chunk {
	if a == nil || a.Len() == 0 {
		return nil
	}

	visited := make(map[int]bool, a.Len())
	var chunks []Chunk
	var stack []int

	for _, seed := range a.vertices {
		if visited[seed] {
			continue
		}
		visited[seed] = true
		stack = append(stack[:0], seed)
		var c Chunk

		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			c = append(c, v)

			for _, n := range a.neighbors[v] {
				if !visited[n] {
					visited[n] = true
					stack = append(stack, n)
				}
			}
		}

		slices.Sort(c)
		chunks = append(chunks, c)
	}

	return chunks
}

// Index maps every vertex id to the position of its chunk in chunks.
func Index(chunks []Chunk) map[int]int {
	n := 0
	for _, c := range chunks {
		n += len(c)
	}
	idx := make(map[int]int, n)
	for i, c := range chunks {
		for _, v := range c {
			idx[v] = i
		}
	}
	return idx
}

// PolygonIslands groups polygon indices by chunk: islands[i] lists the
// polygons whose vertices belong to chunks[i]. Polygons with no usable
// vertex are left out.
func PolygonIslands(polys []mesh.Polygon, chunks []Chunk) [][]int {
	idx := Index(chunks)
	islands := make([][]int, len(chunks))
	for i, p := range polys {
		for _, v := range p.Corners() {
			if c, ok := idx[v]; ok {
				islands[c] = append(islands[c], i)
				break
			}
		}
	}
	return islands
}
