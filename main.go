// Command chunkcolor paints every connected chunk of a mesh with its own
// random vertex color. The input is a mesh file (.obj, .gltf, .glb) or a
// scene script; the output is a mesh file with vertex colors.
//
// Usage:
//
//	chunkcolor [-config run.toml] [-seed n] [-o out.glb] [-watch] [-v] input
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chazu/chunkcolor/pkg/config"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run parses args, executes one command and returns the exit code.
func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("chunkcolor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "TOML or YAML settings file")
	seed := fs.Int64("seed", 0, "color seed (0 uses the config seed, or the current unix nano epoch)")
	out := fs.String("o", "", "output file; .gltf, .glb or .obj")
	watch := fs.Bool("watch", false, "re-run whenever the input file changes")
	verbose := fs.Bool("v", false, "log at debug level")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: chunkcolor [flags] input")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *out != "" {
		cfg.Output = *out
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	app := NewApp(cfg, logger)
	input := fs.Arg(0)

	var err error
	if *watch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err = app.Watch(ctx, input, cfg.Output)
	} else {
		err = app.Run(input, cfg.Output)
	}
	if err != nil {
		logger.Error("chunkcolor failed", "err", err)
		return 1
	}
	return 0
}
