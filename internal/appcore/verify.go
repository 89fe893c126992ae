// internal/appcore/verify.go
package appcore

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	"mutalign/core/engine"
	"mutalign/core/oracle"
	"mutalign/core/partition"
	"mutalign/core/result"
	"mutalign/internal/cluster"
	"mutalign/internal/config"
)

// Report compares a parallel run against the sequential oracle.
type Report struct {
	Queries    int
	Candidates int64
	Workers    int
	Threads    int
	Kernel     string
	Parallel   time.Duration
	Sequential time.Duration
	Mismatches []oracle.Mismatch
}

func (r Report) Passed() bool { return len(r.Mismatches) == 0 }

// Verify runs p with cfg's workers and kernel, then with the oracle, and
// compares per query: offset and mutant exactly, score within tol.
func Verify(ctx context.Context, cfg config.Config, p engine.Problem, tol float64) (Report, error) {
	eng, err := NewEngine(cfg)
	if err != nil {
		return Report{}, err
	}
	rep := Report{Queries: len(p.Queries), Workers: cfg.Workers, Threads: cfg.Threads, Kernel: cfg.Kernel}

	got := make([]result.Result, len(p.Queries))
	var candidates atomic.Int64
	hooks := cluster.Hooks{
		Searched: func(_, _ int, _ partition.Range, n int, _ time.Duration) { candidates.Add(int64(n)) },
	}
	started := time.Now()
	err = cluster.RunLocal(ctx, cfg.Workers, eng, p, func(q int, r result.Result) error {
		got[q] = r
		return nil
	}, hooks)
	if err != nil {
		return Report{}, err
	}
	rep.Parallel = time.Since(started)
	rep.Candidates = candidates.Load()

	started = time.Now()
	want := oracle.Run(p)
	rep.Sequential = time.Since(started)

	rep.Mismatches = oracle.Compare(got, want, tol)
	return rep, nil
}

// WriteText prints the human-readable report.
func (r Report) WriteText(w io.Writer) error {
	speedup := 0.0
	if r.Parallel > 0 {
		speedup = r.Sequential.Seconds() / r.Parallel.Seconds()
	}
	status := "PASS"
	if !r.Passed() {
		status = fmt.Sprintf("FAIL (%d of %d queries differ)", len(r.Mismatches), r.Queries)
	}
	_, err := fmt.Fprintf(w,
		"queries:     %s\ncandidates:  %s\nparallel:    %s (workers=%d threads=%d kernel=%s)\nsequential:  %s\nspeedup:     %sx\nresult:      %s\n",
		humanize.Comma(int64(r.Queries)),
		humanize.Comma(r.Candidates),
		humanize.SIWithDigits(r.Parallel.Seconds(), 2, "s"), r.Workers, r.Threads, r.Kernel,
		humanize.SIWithDigits(r.Sequential.Seconds(), 2, "s"),
		humanize.FtoaWithDigits(speedup, 2),
		status,
	)
	if err != nil {
		return err
	}
	for _, m := range r.Mismatches {
		if _, err := fmt.Fprintln(w, "  "+m.String()); err != nil {
			return err
		}
	}
	return nil
}
