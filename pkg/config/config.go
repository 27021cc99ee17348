// Package config loads run settings from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds the settings for a colorizing run. The zero value is not
// useful; start from Default.
type Config struct {
	// Seed for the color generator. 0 picks a time based seed.
	Seed int64 `toml:"seed" yaml:"seed"`

	// MeshCells is the marching cubes resolution along the longest axis.
	MeshCells int `toml:"mesh_cells" yaml:"mesh_cells"`

	// WeldTolerance merges points closer than this. 0 keeps loaded meshes
	// as they are and lets the kernel use its default.
	WeldTolerance float64 `toml:"weld_tolerance" yaml:"weld_tolerance"`

	// EvalTimeout bounds script evaluation, as a Go duration string.
	EvalTimeout string `toml:"eval_timeout" yaml:"eval_timeout"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level" yaml:"log_level"`

	// Output is the default output path. Its extension picks the format.
	Output string `toml:"output" yaml:"output"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		MeshCells:   64,
		EvalTimeout: "5s",
		LogLevel:    "info",
	}
}

// ErrUnknownFormat is returned by Load for files that are neither TOML
// nor YAML.
var ErrUnknownFormat = errors.New("unknown config format")

// Load reads path over the defaults. The format follows the extension:
// .toml, or .yaml/.yml. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.NewDecoder(f).DisallowUnknownFields().Decode(&cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err = dec.Decode(&cfg); errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return cfg, fmt.Errorf("config: %q: %w", path, ErrUnknownFormat)
	}
	if err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.MeshCells <= 0 {
		errs = append(errs, fmt.Errorf("mesh_cells must be positive, got %d", c.MeshCells))
	}
	if c.WeldTolerance < 0 {
		errs = append(errs, fmt.Errorf("weld_tolerance must not be negative, got %g", c.WeldTolerance))
	}
	if d, err := time.ParseDuration(c.EvalTimeout); err != nil {
		errs = append(errs, fmt.Errorf("eval_timeout: %w", err))
	} else if d <= 0 {
		errs = append(errs, fmt.Errorf("eval_timeout must be positive, got %s", d))
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Timeout returns EvalTimeout as a duration, or 0 if it does not parse.
func (c Config) Timeout() time.Duration {
	d, _ := time.ParseDuration(c.EvalTimeout)
	return d
}

// Level returns LogLevel as a slog level, defaulting to info.
func (c Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
