package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chazu/chunkcolor/pkg/chunk"
	"github.com/chazu/chunkcolor/pkg/color"
	"github.com/chazu/chunkcolor/pkg/config"
	"github.com/chazu/chunkcolor/pkg/engine"
	"github.com/chazu/chunkcolor/pkg/kernel"
	"github.com/chazu/chunkcolor/pkg/kernel/sdfx"
	"github.com/chazu/chunkcolor/pkg/mesh"
	"github.com/chazu/chunkcolor/pkg/meshio"
	"github.com/chazu/chunkcolor/pkg/scene"
	"github.com/chazu/chunkcolor/pkg/tessellate"
)

// App ties the pipeline together: script or mesh file in, colored mesh out.
// It is not safe for concurrent use; the color source is shared.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	cfg    config.Config
	log    *slog.Logger
	rand   color.Rand
}

// Result is the outcome of one colorizing run.
type Result struct {
	Mesh        *mesh.Mesh
	Colors      []color.RGB // one per point of Mesh
	Chunks      []chunk.Chunk
	ChunkColors []color.RGB // one per chunk
	Invalid     []chunk.InvalidPolygon
	Errors      []engine.EvalError
	Warnings    []string
}

// Failed reports whether the run produced errors.
func (r Result) Failed() bool {
	return len(r.Errors) > 0
}

// Err joins the run errors, or returns nil.
func (r Result) Err() error {
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// NewApp creates an App from cfg. A zero seed picks a time based one.
func NewApp(cfg config.Config, logger *slog.Logger) *App {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	eng := engine.NewEngine(engine.WithTimeout(cfg.Timeout()))
	logger.Debug("app ready", "seed", seed, "eval_timeout", eng.Timeout())

	return &App{
		engine: eng,
		kernel: sdfx.New(sdfx.WithMeshCells(cfg.MeshCells), sdfx.WithWeldTolerance(cfg.WeldTolerance)),
		cfg:    cfg,
		log:    logger,
		rand:   rand.New(rand.NewSource(seed)),
	}
}

// Evaluate runs a scene script and colors the resulting mesh.
func (a *App) Evaluate(source string) Result {
	var result Result

	// Step 1: Evaluate the script into a scene.
	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		a.log.Error("evaluate failed", "err", err)
		result.Errors = append(result.Errors, engine.EvalError{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		result.Errors = evalErrs
		return result
	}

	// Step 2: Validate the scene before spending time in the kernel.
	for _, f := range scene.Validate(s) {
		if f.Severity == scene.SeverityError {
			result.Errors = append(result.Errors, engine.EvalError{Message: f.Error()})
			continue
		}
		a.log.Warn("scene", "finding", f.Error())
		result.Warnings = append(result.Warnings, f.Error())
	}
	if result.Failed() {
		return result
	}

	// Step 3: Tessellate and merge into one mesh.
	meshes, err := tessellate.Tessellate(s, a.kernel)
	if err != nil {
		a.log.Error("tessellate failed", "err", err)
		result.Errors = append(result.Errors, engine.EvalError{Message: "tessellation failed: " + err.Error()})
		return result
	}
	a.log.Debug("tessellated", "meshes", len(meshes))
	merged := mesh.Merge("scene", meshes...)

	// Step 4: Partition and color.
	colored, err := a.ColorizeMesh(merged)
	if err != nil {
		result.Errors = append(result.Errors, engine.EvalError{Message: err.Error()})
		return result
	}
	colored.Warnings = append(result.Warnings, colored.Warnings...)
	return colored
}

// ColorizeMesh partitions m into chunks and gives every chunk one random
// color. A nil mesh or one without polygons is left alone and draws no
// colors.
func (a *App) ColorizeMesh(m *mesh.Mesh) (Result, error) {
	if m == nil || m.IsEmpty() {
		return Result{Mesh: m}, nil
	}

	var result Result
	for _, w := range mesh.Validate(m) {
		result.Warnings = append(result.Warnings, w.String())
	}

	buf := color.NewBuffer(m.PointCount())
	res, err := color.Colorize(m, buf, a.rand)
	if err != nil {
		return Result{}, fmt.Errorf("colorize %s: %w", m.Name, err)
	}
	for _, inv := range res.Invalid {
		a.log.Warn("polygon skipped", "mesh", m.Name, "polygon", inv.Index, "distinct", inv.Distinct)
	}
	for i, c := range res.Colors {
		a.log.Debug("chunk color", "mesh", m.Name, "chunk", i, "vertices", len(res.Chunks[i]), "color", c.Hex())
	}
	a.log.Debug("colorized",
		"mesh", m.Name,
		"points", m.PointCount(),
		"polygons", m.PolygonCount(),
		"chunks", len(res.Chunks),
	)

	result.Mesh = m
	result.Colors = buf.Colors()
	result.Chunks = res.Chunks
	result.ChunkColors = res.Colors
	result.Invalid = res.Invalid
	return result, nil
}

// Run colors the script or mesh file at in and saves it to out. An empty
// out falls back to the configured output, then to a name derived from in.
func (a *App) Run(in, out string) error {
	if out == "" {
		out = a.cfg.Output
	}
	if out == "" {
		out = DefaultOutput(in)
	}

	var (
		result Result
		err    error
	)
	if _, ferr := meshio.FormatFor(in); ferr == nil {
		result, err = a.runMesh(in)
	} else {
		result, err = a.runScript(in)
	}
	if err != nil {
		return err
	}

	m := result.Mesh
	if m == nil {
		m = &mesh.Mesh{}
	}
	if err := meshio.Save(out, m, result.Colors); err != nil {
		return err
	}
	a.log.Info("wrote colored mesh",
		"in", in,
		"out", out,
		"chunks", len(result.Chunks),
		"skipped", len(result.Invalid),
	)
	return nil
}

func (a *App) runMesh(in string) (Result, error) {
	m, err := meshio.Load(in)
	if err != nil {
		return Result{}, err
	}
	if a.cfg.WeldTolerance > 0 {
		before := m.PointCount()
		m = m.Weld(a.cfg.WeldTolerance)
		a.log.Debug("welded", "mesh", m.Name, "before", before, "after", m.PointCount())
	}
	return a.ColorizeMesh(m)
}

func (a *App) runScript(in string) (Result, error) {
	source, err := os.ReadFile(in)
	if err != nil {
		return Result{}, err
	}
	result := a.Evaluate(string(source))
	if result.Failed() {
		return result, fmt.Errorf("%s: %w", in, result.Err())
	}
	return result, nil
}

// DefaultOutput derives an output path from the input: OBJ input stays OBJ,
// everything else becomes binary glTF.
func DefaultOutput(in string) string {
	ext := filepath.Ext(in)
	base := strings.TrimSuffix(in, ext)
	if strings.EqualFold(ext, ".obj") {
		return base + ".colored.obj"
	}
	return base + ".colored.glb"
}
