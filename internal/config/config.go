// Package config holds the run configuration shared by every command. Values
// come from defaults, then an optional YAML file, then explicitly set flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"mutalign/core/reduce"
)

// ErrInvalid marks configuration errors (reported as usage errors).
var ErrInvalid = errors.New("invalid configuration")

// Output formats.
const (
	FormatText  = "text"
	FormatTSV   = "tsv"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatText, FormatTSV, FormatJSON, FormatJSONL}

type Config struct {
	// Legacy input file; mutually exclusive with Reference/Queries.
	Input     string     `yaml:"input"`
	// FASTA inputs. Weights are required with these.
	Reference string     `yaml:"reference"`
	Queries   string     `yaml:"queries"`
	Weights   []float64  `yaml:"weights"`
	Output    string     `yaml:"output"`
	Format    string     `yaml:"format"`
	Pretty    bool       `yaml:"pretty"`
	Header    bool       `yaml:"header"`
	Workers   int        `yaml:"workers"`
	Threads   int        `yaml:"threads"`
	Kernel    string     `yaml:"kernel"`
	Progress  bool       `yaml:"progress"`
	Log       LogConfig  `yaml:"log"`
	Metrics   Metrics    `yaml:"metrics"`
	Cluster   ClusterCfg `yaml:"cluster"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Metrics struct {
	Addr string `yaml:"addr"`
}

type ClusterCfg struct {
	Listen      string        `yaml:"listen"`
	Coordinator string        `yaml:"coordinator"`
	Rank        int           `yaml:"rank"`
	Size        int           `yaml:"size"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Input:   "input.txt",
		Output:  "-",
		Format:  FormatText,
		Header:  true,
		Workers: 1,
		Kernel:  reduce.Default,
		Log:     LogConfig{Level: "info", Format: "console"},
		Cluster: ClusterCfg{Size: 1, DialTimeout: 30 * time.Second},
	}
}

// Load reads path over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := Decode(bytes.NewReader(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode overlays YAML from r onto cfg. An empty document leaves cfg as is.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// UsesFASTA reports whether the problem comes from FASTA files.
func (c Config) UsesFASTA() bool { return c.Reference != "" || c.Queries != "" }

// Validate checks the settings that do not depend on the command.
func (c Config) Validate() error {
	bad := func(format string, a ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, a...))
	}
	if c.UsesFASTA() {
		if c.Reference == "" || c.Queries == "" {
			return bad("reference and queries must be given together")
		}
		if len(c.Weights) != 4 {
			return bad("FASTA input needs exactly 4 weights, got %d", len(c.Weights))
		}
	} else {
		if c.Input == "" {
			return bad("no input: set input or reference/queries")
		}
		if len(c.Weights) != 0 && len(c.Weights) != 4 {
			return bad("weights override needs exactly 4 values, got %d", len(c.Weights))
		}
	}
	for i, w := range c.Weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return bad("weight %d is not finite: %v", i+1, w)
		}
	}
	if !slices.Contains(Formats, c.Format) {
		return bad("format %q (want %s)", c.Format, strings.Join(Formats, " | "))
	}
	if c.Pretty && c.Format != FormatText {
		return bad("pretty is only valid with the text format")
	}
	if c.Workers < 1 {
		return bad("workers must be >= 1")
	}
	if c.Threads < 0 {
		return bad("threads must be >= 0")
	}
	if !slices.Contains(reduce.Names(), c.Kernel) {
		return bad("kernel %q (want %s)", c.Kernel, strings.Join(reduce.Names(), " | "))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return bad("log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return bad("log format %q", c.Log.Format)
	}
	return nil
}

// ValidateCluster checks the cluster block for a coordinator (worker=false)
// or a worker process.
func (c Config) ValidateCluster(worker bool) error {
	cl := c.Cluster
	switch {
	case cl.Size < 1:
		return fmt.Errorf("%w: cluster size must be >= 1", ErrInvalid)
	case worker && cl.Coordinator == "":
		return fmt.Errorf("%w: worker needs a coordinator address", ErrInvalid)
	case worker && (cl.Rank < 1 || cl.Rank >= cl.Size):
		return fmt.Errorf("%w: worker rank %d outside [1,%d)", ErrInvalid, cl.Rank, cl.Size)
	case !worker && cl.Listen == "" && cl.Size > 1:
		return fmt.Errorf("%w: coordinator needs a listen address", ErrInvalid)
	case cl.DialTimeout < 0:
		return fmt.Errorf("%w: dial timeout must be >= 0", ErrInvalid)
	}
	return nil
}
