package main

import (
	"bytes"
	"log/slog"
	"math/rand"
	"strings"
	"testing"

	"github.com/chazu/chunkcolor/pkg/chunk"
	"github.com/chazu/chunkcolor/pkg/color"
	"github.com/chazu/chunkcolor/pkg/config"
	"github.com/chazu/chunkcolor/pkg/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingRand counts draws so tests can check that no-op runs leave the
// color source untouched.
type countingRand struct {
	draws int
	r     *rand.Rand
}

func (c *countingRand) Float64() float64 {
	c.draws++
	return c.r.Float64()
}

func newCountingApp(t *testing.T) (*App, *countingRand) {
	t.Helper()
	app := newTestApp(t, nil)
	cr := &countingRand{r: rand.New(rand.NewSource(1))}
	app.rand = cr
	return app, cr
}

func TestE2EEmptySource(t *testing.T) {
	for _, source := range []string{"", "   \n\t\n", ";; nothing to see\n;; here either\n"} {
		app, cr := newCountingApp(t)
		result := app.Evaluate(source)
		assert.False(t, result.Failed(), "source %q: %v", source, result.Errors)
		assert.Empty(t, result.Chunks, "source %q", source)
		assert.Empty(t, result.Colors, "source %q", source)
		assert.Zero(t, cr.draws, "source %q", source)
	}
}

func TestE2ESyntaxError(t *testing.T) {
	app := newTestApp(t, nil)
	result := app.Evaluate("(def r 1)\n(sphere :radius r")
	require.True(t, result.Failed())
	assert.Nil(t, result.Mesh)
	assert.Error(t, result.Err())
}

func TestE2EValidationError(t *testing.T) {
	app := newTestApp(t, nil)
	result := app.Evaluate(`(scene "bad" (sphere :radius 0))`)
	require.True(t, result.Failed())
	assert.Contains(t, result.Err().Error(), "non-positive")
	assert.Nil(t, result.Mesh)
}

func TestE2EOutOfRangePolysAreRejected(t *testing.T) {
	app, cr := newCountingApp(t)
	result := app.Evaluate(`
(scene "bad"
  (polys :points (list (vec3 0 0 0) (vec3 1 0 0) (vec3 0 1 0))
         :faces (list (list 0 1 7))))`)
	require.True(t, result.Failed())
	assert.Contains(t, result.Err().Error(), "polygon 0 references point 7 of 3")
	assert.Zero(t, cr.draws)
}

func TestE2EDegeneratePolygonMakesSingleton(t *testing.T) {
	app := newTestApp(t, nil)
	result := app.Evaluate(`
(scene "thin"
  (polys :points (list (vec3 0 0 0) (vec3 1 0 0) (vec3 0 1 0) (vec3 5 5 0))
         :faces (list (list 0 1 2) (list 3 3 3))))`)
	require.False(t, result.Failed(), "errors: %v", result.Errors)

	// One finding from the scene, one from the merged mesh.
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "polygon 1 has 1 distinct corners")
	assert.Contains(t, result.Warnings[1], "degenerate")

	assert.Equal(t, []chunk.Chunk{{0, 1, 2}, {3}}, result.Chunks)
	require.Len(t, result.Invalid, 1)
	assert.Equal(t, 1, result.Invalid[0].Index)
	requireChunkColors(t, result)
}

func TestE2ERapidEvaluation(t *testing.T) {
	app := newTestApp(t, nil)
	source := `
(scene "sheet"
  (polys :points (list (vec3 0 0 0) (vec3 1 0 0) (vec3 1 1 0) (vec3 0 1 0))
         :faces (list (list 0 1 2 3))))`
	for i := 0; i < 10; i++ {
		result := app.Evaluate(source)
		require.False(t, result.Failed(), "run %d: %v", i, result.Errors)
		require.Len(t, result.Chunks, 1, "run %d", i)
	}
}

func TestColorizeMeshNoOp(t *testing.T) {
	tests := []struct {
		name string
		m    *mesh.Mesh
	}{
		{"nil", nil},
		{"no points", &mesh.Mesh{Name: "void"}},
		{"points only", &mesh.Mesh{Name: "cloud", Points: []mesh.Vec3{{}, {1, 0, 0}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, cr := newCountingApp(t)
			result, err := app.ColorizeMesh(tt.m)
			require.NoError(t, err)
			assert.Same(t, tt.m, result.Mesh)
			assert.Empty(t, result.Chunks)
			assert.Empty(t, result.Colors)
			assert.Zero(t, cr.draws)
		})
	}
}

func TestColorizeMeshDrawsThreePerChunk(t *testing.T) {
	app, cr := newCountingApp(t)
	m := &mesh.Mesh{
		Name:     "two",
		Points:   make([]mesh.Vec3, 6),
		Polygons: []mesh.Polygon{mesh.Tri(0, 1, 2), mesh.Tri(3, 4, 5)},
	}
	result, err := app.ColorizeMesh(m)
	require.NoError(t, err)
	assert.Len(t, result.Chunks, 2)
	assert.Equal(t, 6, cr.draws)
}

func TestColorizeMeshNegativeIDs(t *testing.T) {
	app := newTestApp(t, nil)
	m := &mesh.Mesh{
		Name:     "holes",
		Points:   make([]mesh.Vec3, 4),
		Polygons: []mesh.Polygon{{A: -1, B: 0, C: 1, D: 2}, mesh.Tri(3, 3, -1)},
	}
	result, err := app.ColorizeMesh(m)
	require.NoError(t, err)
	assert.Equal(t, []chunk.Chunk{{0, 1, 2}, {3}}, result.Chunks)
	assert.NotEmpty(t, result.Warnings)
	requireChunkColors(t, result)
}

func TestColorizeMeshUnreferencedPointsKeepZeroColor(t *testing.T) {
	app := newTestApp(t, nil)
	m := &mesh.Mesh{
		Name:     "stray",
		Points:   make([]mesh.Vec3, 5),
		Polygons: []mesh.Polygon{mesh.Tri(0, 1, 2)},
	}
	result, err := app.ColorizeMesh(m)
	require.NoError(t, err)
	require.Len(t, result.Colors, 5)
	assert.Equal(t, color.RGB{}, result.Colors[3])
	assert.Equal(t, color.RGB{}, result.Colors[4])
}

func TestColorizeMeshOutOfRangeFails(t *testing.T) {
	app := newTestApp(t, nil)
	m := &mesh.Mesh{
		Name:     "overflow",
		Points:   make([]mesh.Vec3, 3),
		Polygons: []mesh.Polygon{mesh.Tri(0, 1, 5)},
	}
	_, err := app.ColorizeMesh(m)
	require.Error(t, err)
	assert.ErrorIs(t, err, color.ErrVertexRange)
	assert.Contains(t, err.Error(), "colorize overflow")
}

func TestDebugLogNamesChunkColors(t *testing.T) {
	var logs bytes.Buffer
	cfg := config.Default()
	cfg.Seed = 1
	cfg.EvalTimeout = "3s"
	app := NewApp(cfg, slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))

	m := &mesh.Mesh{
		Name:     "pair",
		Points:   make([]mesh.Vec3, 6),
		Polygons: []mesh.Polygon{mesh.Tri(0, 1, 2), mesh.Tri(3, 4, 5)},
	}
	result, err := app.ColorizeMesh(m)
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, "eval_timeout=3s")
	for _, c := range result.ChunkColors {
		assert.Contains(t, out, "color="+c.Hex())
	}
	assert.Equal(t, 2, strings.Count(out, "msg=\"chunk color\""))
}
