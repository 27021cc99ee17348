package color

import (
	"fmt"

	"github.com/chazu/chunkcolor/pkg/chunk"
	"github.com/chazu/chunkcolor/pkg/mesh"
)

// Assign draws one color per chunk and writes it to every vertex of that
// chunk. It returns the chunk colors in chunk order. Distinct chunks may
// draw the same color.
func Assign(chunks []chunk.Chunk, sink Sink, r Rand) ([]RGB, error) {
	colors := make([]RGB, len(chunks))
	for i, c := range chunks {
		col := Random(r)
		colors[i] = col
		for _, v := range c {
			if err := sink.SetColor(v, col); err != nil {
				return nil, fmt.Errorf("color: chunk %d: %w", i, err)
			}
		}
	}
	return colors, nil
}

// Result is the outcome of Colorize.
type Result struct {
	Chunks  []chunk.Chunk
	Colors  []RGB // one per chunk
	Invalid []chunk.InvalidPolygon
}

// Colorize partitions src into chunks and paints each one through sink.
// Polygons with fewer than two usable vertices are reported in the result
// and otherwise ignored.
func Colorize(src mesh.Source, sink Sink, r Rand) (Result, error) {
	adj, invalid := chunk.FromSource(src)
	chunks := chunk.Partition(adj)
	colors, err := Assign(chunks, sink, r)
	if err != nil {
		return Result{}, err
	}
	return Result{Chunks: chunks, Colors: colors, Invalid: invalid}, nil
}
