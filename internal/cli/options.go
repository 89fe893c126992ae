// internal/cli/options.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"mutalign/core/reduce"
	"mutalign/internal/config"
	"mutalign/internal/writers"
)

// Options collects flag values for one command. Flags write into a scratch
// Config; Resolve copies only the flags that were set onto the base config
// (defaults or --config file), so a file value survives an unset flag.
type Options struct {
	ConfigFile string

	flags    config.Config
	noHeader bool
	overlay  map[string]func(dst *config.Config)
}

func NewOptions() *Options {
	return &Options{flags: config.Default(), overlay: map[string]func(*config.Config){}}
}

func (o *Options) bind(name string, apply func(dst, src *config.Config)) {
	o.overlay[name] = func(dst *config.Config) { apply(dst, &o.flags) }
}

// RegisterInput wires --config and the problem inputs.
func (o *Options) RegisterInput(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ConfigFile, "config", "c", "", "YAML run configuration")
	fs.StringVarP(&o.flags.Input, "input", "i", o.flags.Input, "legacy input file (weights, reference, count, queries) or '-'")
	fs.StringVar(&o.flags.Reference, "reference", "", "reference FASTA (first record); needs --queries and --weights")
	fs.StringVar(&o.flags.Queries, "queries", "", "queries FASTA")
	fs.Float64SliceVar(&o.flags.Weights, "weights", nil, "match,conservative,semi-conservative,mismatch weights")
	o.bind("input", func(d, s *config.Config) { d.Input = s.Input })
	o.bind("reference", func(d, s *config.Config) { d.Reference = s.Reference })
	o.bind("queries", func(d, s *config.Config) { d.Queries = s.Queries })
	o.bind("weights", func(d, s *config.Config) { d.Weights = s.Weights })
}

// RegisterEngine wires the per-process search knobs.
func (o *Options) RegisterEngine(fs *pflag.FlagSet) {
	fs.IntVarP(&o.flags.Threads, "threads", "t", 0, "goroutines per offset fan-out (0 = one per mutant)")
	fs.StringVar(&o.flags.Kernel, "kernel", o.flags.Kernel, "row-reduction kernel: "+strings.Join(reduce.Names(), " | "))
	o.bind("threads", func(d, s *config.Config) { d.Threads = s.Threads })
	o.bind("kernel", func(d, s *config.Config) { d.Kernel = s.Kernel })
}

// RegisterWorkers wires --workers (in-process ranks).
func (o *Options) RegisterWorkers(fs *pflag.FlagSet) {
	fs.IntVarP(&o.flags.Workers, "workers", "w", o.flags.Workers, "in-process ranks")
	o.bind("workers", func(d, s *config.Config) { d.Workers = s.Workers })
}

// RegisterOutput wires the result sink flags.
func (o *Options) RegisterOutput(fs *pflag.FlagSet) {
	fs.StringVarP(&o.flags.Output, "output", "o", o.flags.Output, "output file or '-' for stdout")
	fs.StringVarP(&o.flags.Format, "format", "f", o.flags.Format, "output format: "+strings.Join(writers.Formats(), " | "))
	fs.BoolVar(&o.flags.Pretty, "pretty", false, "alignment block after each text line")
	fs.BoolVar(&o.noHeader, "no-header", false, "suppress the TSV header line")
	fs.BoolVar(&o.flags.Progress, "progress", false, "progress bar on stderr")
	o.bind("output", func(d, s *config.Config) { d.Output = s.Output })
	o.bind("format", func(d, s *config.Config) { d.Format = s.Format })
	o.bind("pretty", func(d, s *config.Config) { d.Pretty = s.Pretty })
	o.bind("no-header", func(d, _ *config.Config) { d.Header = !o.noHeader })
	o.bind("progress", func(d, s *config.Config) { d.Progress = s.Progress })
}

// RegisterObservability wires logging and metrics.
func (o *Options) RegisterObservability(fs *pflag.FlagSet) {
	fs.StringVar(&o.flags.Log.Level, "log-level", o.flags.Log.Level, "debug | info | warn | error")
	fs.StringVar(&o.flags.Log.Format, "log-format", o.flags.Log.Format, "console | json")
	fs.StringVar(&o.flags.Metrics.Addr, "metrics-addr", "", "serve Prometheus /metrics on this address")
	o.bind("log-level", func(d, s *config.Config) { d.Log.Level = s.Log.Level })
	o.bind("log-format", func(d, s *config.Config) { d.Log.Format = s.Log.Format })
	o.bind("metrics-addr", func(d, s *config.Config) { d.Metrics.Addr = s.Metrics.Addr })
}

// RegisterCoordinator wires the listening side of a TCP cluster.
func (o *Options) RegisterCoordinator(fs *pflag.FlagSet) {
	fs.StringVar(&o.flags.Cluster.Listen, "listen", "", "address workers dial, e.g. :7070")
	fs.IntVar(&o.flags.Cluster.Size, "size", o.flags.Cluster.Size, "ranks in the cluster, coordinator included")
	fs.DurationVar(&o.flags.Cluster.DialTimeout, "join-timeout", o.flags.Cluster.DialTimeout, "wait this long for every worker (0 = forever)")
	o.bind("listen", func(d, s *config.Config) { d.Cluster.Listen = s.Cluster.Listen })
	o.bind("size", func(d, s *config.Config) { d.Cluster.Size = s.Cluster.Size })
	o.bind("join-timeout", func(d, s *config.Config) { d.Cluster.DialTimeout = s.Cluster.DialTimeout })
}

// RegisterWorker wires the dialing side of a TCP cluster.
func (o *Options) RegisterWorker(fs *pflag.FlagSet) {
	fs.StringVar(&o.flags.Cluster.Coordinator, "coordinator", "", "coordinator address")
	fs.IntVar(&o.flags.Cluster.Rank, "rank", 0, "this worker's rank, 1..size-1")
	fs.IntVar(&o.flags.Cluster.Size, "size", o.flags.Cluster.Size, "ranks in the cluster, coordinator included")
	fs.DurationVar(&o.flags.Cluster.DialTimeout, "dial-timeout", o.flags.Cluster.DialTimeout, "keep retrying the coordinator this long (0 = forever)")
	o.bind("coordinator", func(d, s *config.Config) { d.Cluster.Coordinator = s.Cluster.Coordinator })
	o.bind("rank", func(d, s *config.Config) { d.Cluster.Rank = s.Cluster.Rank })
	o.bind("size", func(d, s *config.Config) { d.Cluster.Size = s.Cluster.Size })
	o.bind("dial-timeout", func(d, s *config.Config) { d.Cluster.DialTimeout = s.Cluster.DialTimeout })
}

// Resolve builds the effective configuration: defaults, then --config, then
// every flag that was set on the command line. The result is validated.
func (o *Options) Resolve(fs *pflag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if o.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(o.ConfigFile); err != nil {
			return config.Config{}, err
		}
	}
	fs.Visit(func(f *pflag.Flag) {
		if apply, ok := o.overlay[f.Name]; ok {
			apply(&cfg)
		}
	})
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// Describe renders the effective configuration for debug logs.
func Describe(c config.Config) string {
	src := "input=" + c.Input
	if c.UsesFASTA() {
		src = fmt.Sprintf("reference=%s queries=%s", c.Reference, c.Queries)
	}
	return fmt.Sprintf("%s format=%s workers=%d threads=%d kernel=%s", src, c.Format, c.Workers, c.Threads, c.Kernel)
}
