// Package color paints chunks with random colors and writes them into a
// per-vertex color store.
package color

import (
	"errors"
	"fmt"
)

// RGB is a color with each channel in [0, 1].
type RGB struct {
	R, G, B float64
}

// Float32 returns the channels as a float32 triple.
func (c RGB) Float32() [3]float32 {
	return [3]float32{float32(c.R), float32(c.G), float32(c.B)}
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", to8(c.R), to8(c.G), to8(c.B))
}

func to8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*256) // [0,1) maps onto 0..255 evenly
}

// Rand is the random source used to draw colors. *math/rand.Rand
// satisfies it.
type Rand interface {
	// Float64 returns a pseudo-random number in [0.0, 1.0).
	Float64() float64
}

// Random draws one color, one independent value per channel.
func Random(r Rand) RGB {
	return RGB{R: r.Float64(), G: r.Float64(), B: r.Float64()}
}

// ErrVertexRange is returned by a Sink for a vertex id it cannot store.
var ErrVertexRange = errors.New("vertex id out of range")

// Sink receives the final color of each vertex.
type Sink interface {
	SetColor(vertex int, c RGB) error
}

// Buffer is a Sink holding one color per vertex of a mesh.
type Buffer struct {
	colors []RGB
	set    []bool
}

var _ Sink = (*Buffer)(nil)

// NewBuffer returns a Buffer for n vertices, all black and unset.
func NewBuffer(n int) *Buffer {
	return &Buffer{
		colors: make([]RGB, n),
		set:    make([]bool, n),
	}
}

// SetColor stores c for vertex.
func (b *Buffer) SetColor(vertex int, c RGB) error {
	if vertex < 0 || vertex >= len(b.colors) {
		return fmt.Errorf("set color of vertex %d in buffer of %d: %w", vertex, len(b.colors), ErrVertexRange)
	}
	b.colors[vertex] = c
	b.set[vertex] = true
	return nil
}

// Color returns the color of vertex and whether it was ever set.
func (b *Buffer) Color(vertex int) (RGB, bool) {
	if vertex < 0 || vertex >= len(b.colors) {
		return RGB{}, false
	}
	return b.colors[vertex], b.set[vertex]
}

// Colors returns the per-vertex colors. Unset vertices are black.
func (b *Buffer) Colors() []RGB {
	out := make([]RGB, len(b.colors))
	copy(out, b.colors)
	return out
}

// Len returns the number of vertices the buffer holds.
func (b *Buffer) Len() int {
	return len(b.colors)
}
