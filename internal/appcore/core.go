// internal/appcore/core.go
package appcore

import (
	"bytes"
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"mutalign/core/engine"
	"mutalign/core/partition"
	"mutalign/core/result"
	"mutalign/internal/cluster"
	"mutalign/internal/config"
	"mutalign/internal/metrics"
	"mutalign/internal/output"
	"mutalign/internal/pretty"
	"mutalign/internal/writers"
)

// Transport runs the per-query loop of this process.
type Transport func(ctx context.Context, eng *engine.Engine, p engine.Problem, sink cluster.Sink, hooks cluster.Hooks) error

// Local runs workers in-process ranks.
func Local(workers int) Transport {
	return func(ctx context.Context, eng *engine.Engine, p engine.Problem, sink cluster.Sink, hooks cluster.Hooks) error {
		return cluster.RunLocal(ctx, workers, eng, p, sink, hooks)
	}
}

// Over runs this process as one rank of comm.
func Over(comm cluster.Comm) Transport {
	return func(ctx context.Context, eng *engine.Engine, p engine.Problem, sink cluster.Sink, hooks cluster.Hooks) error {
		return cluster.Run(ctx, comm, eng, p, sink, hooks)
	}
}

// Env is what a command hands to Run besides its configuration.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer
	Log    *zap.SugaredLogger
}

// Job describes one batch.
type Job struct {
	Problem engine.Problem
	IDs     []string // optional query IDs, parallel to Problem.Queries
	RunID   uuid.UUID
	// Writes decides whether this process produces output (false on TCP workers).
	Writes    bool
	Transport Transport
}

// Summary is returned after a successful run.
type Summary struct {
	Queries    int
	Found      int
	Candidates int64
	Elapsed    time.Duration
}

// Run executes job under cfg. Output is spooled while the run progresses
// and committed to cfg.Output only after every query succeeded.
func Run(ctx context.Context, env Env, cfg config.Config, job Job) (Summary, error) {
	started := time.Now()
	log := env.Log.With("run", job.RunID.String())
	p := job.Problem

	eng, err := NewEngine(cfg)
	if err != nil {
		return Summary{}, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		addr, errc, err := metrics.Serve(ctx, cfg.Metrics.Addr, m.Handler())
		if err != nil {
			return Summary{}, err
		}
		log.Infow("metrics listening", "addr", addr.String())
		go func() {
			if err := <-errc; err != nil {
				log.Warnw("metrics server stopped", "error", err)
			}
		}()
	}

	var candidates atomic.Int64
	var found int
	hooks := []cluster.Hooks{m.Hooks(), {
		Searched: func(rank, q int, r partition.Range, n int, d time.Duration) {
			candidates.Add(int64(n))
			log.Debugw("range searched", "rank", rank, "query", q, "start", r.Start, "end", r.End, "elapsed", d)
		},
		Reduced: func(q int, r result.Result, d time.Duration) {
			if r.Found() {
				found++
			}
			log.Debugw("query reduced", "query", q, "offset", r.Offset, "mutant", r.Mutant, "score", r.Score, "elapsed", d)
		},
	}}

	if job.Writes && cfg.Progress {
		bar := pb.Full.New(len(p.Queries)).SetWriter(env.Stderr).Start()
		defer bar.Finish()
		hooks = append(hooks, cluster.Hooks{
			Reduced: func(int, result.Result, time.Duration) { bar.Increment() },
		})
	}

	log.Infow("run started", "queries", len(p.Queries), "reference", len(p.Reference), "kernel", cfg.Kernel)

	var (
		spool bytes.Buffer
		sink  cluster.Sink
		rows  chan<- output.Row
		werr  <-chan error
	)
	if job.Writes {
		opt := writers.Options{Header: cfg.Header}
		if cfg.Pretty {
			opt.Render = func(r output.Row) string {
				return pretty.Render(r.Query, p.Reference, r.Result, pretty.DefaultOptions)
			}
		}
		rows, werr = writers.StartWriter(&spool, cfg.Format, opt, 64)
		sink = func(q int, r result.Result) error {
			row := output.Row{Index: q, Query: p.Queries[q], Result: r}
			if q < len(job.IDs) {
				row.ID = job.IDs[q]
			}
			select {
			case rows <- row:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	runErr := job.Transport(ctx, eng, p, sink, cluster.Merge(hooks...))
	if job.Writes {
		close(rows)
		if err := <-werr; err != nil && runErr == nil {
			runErr = err
		}
	}
	if runErr != nil {
		return Summary{}, runErr
	}
	if job.Writes {
		if err := commit(cfg.Output, env.Stdout, spool.Bytes()); err != nil {
			return Summary{}, err
		}
	}

	sum := Summary{Queries: len(p.Queries), Found: found, Candidates: candidates.Load(), Elapsed: time.Since(started)}
	log.Infow("run finished", "queries", sum.Queries, "found", sum.Found, "candidates", sum.Candidates, "elapsed", sum.Elapsed)
	return sum, nil
}
