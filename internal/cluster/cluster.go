// Package cluster runs the per-query search across ranks and folds every
// rank's local best into one global best on the coordinator.
//
// A Comm is one rank's endpoint. Two transports exist: Local (ranks are
// goroutines of one process) and TCP (ranks are processes). Both exchange
// result.Result wire records and meet at a barrier after every query, so
// records from two queries are never in flight together.
package cluster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mutalign/core/engine"
	"mutalign/core/partition"
	"mutalign/core/result"
)

// Coordinator is the rank that folds and persists results.
const Coordinator = 0

// ErrAborted is returned by every rank once any rank aborted the run.
var ErrAborted = errors.New("cluster: run aborted")

// Comm is one rank's view of the cluster.
type Comm interface {
	Rank() int
	Size() int
	// Coordinator reports whether this rank folds and persists results.
	Coordinator() bool
	// Gather sends local to the coordinator. On the coordinator it blocks
	// until every rank's record arrived and returns them indexed by rank;
	// elsewhere it returns nil.
	Gather(ctx context.Context, local result.Result) ([]result.Result, error)
	// Barrier blocks until every rank entered it.
	Barrier(ctx context.Context) error
	// Abort tells every peer to stop. Safe to call more than once.
	Abort(cause error)
	Close() error
}

// Sink receives the global best of query index q. Only the coordinator calls it.
type Sink func(q int, r result.Result) error

// Hooks observe a run. Any field may be nil.
type Hooks struct {
	Searched func(rank, q int, r partition.Range, candidates int, d time.Duration)
	Reduced  func(q int, r result.Result, d time.Duration)
}

// Merge returns hooks calling each of hs in order.
func Merge(hs ...Hooks) Hooks {
	return Hooks{
		Searched: func(rank, q int, r partition.Range, candidates int, d time.Duration) {
			for _, h := range hs {
				if h.Searched != nil {
					h.Searched(rank, q, r, candidates, d)
				}
			}
		},
		Reduced: func(q int, r result.Result, d time.Duration) {
			for _, h := range hs {
				if h.Reduced != nil {
					h.Reduced(q, r, d)
				}
			}
		},
	}
}

// Run processes every query of p on this rank: search the rank's offset
// range, gather on the coordinator, fold, sink, then barrier. Any failure
// aborts all ranks.
func Run(ctx context.Context, comm Comm, eng *engine.Engine, p engine.Problem, sink Sink, hooks Hooks) (err error) {
	defer func() {
		if err != nil && !errors.Is(err, ErrAborted) {
			comm.Abort(err)
		}
	}()

	for q, query := range p.Queries {
		started := time.Now()
		rng := partition.For(engine.MaxOffset(query, p.Reference), comm.Rank(), comm.Size())

		local, err := eng.Search(ctx, query, p.Reference, p.Weights, rng)
		if err != nil {
			return fmt.Errorf("rank %d query %d: %w", comm.Rank(), q, err)
		}
		if hooks.Searched != nil {
			hooks.Searched(comm.Rank(), q, rng, engine.Candidates(query, rng), time.Since(started))
		}

		all, err := comm.Gather(ctx, local)
		if err != nil {
			return fmt.Errorf("rank %d query %d gather: %w", comm.Rank(), q, err)
		}
		if comm.Coordinator() {
			global := result.Reduce(all)
			if hooks.Reduced != nil {
				hooks.Reduced(q, global, time.Since(started))
			}
			if err := sink(q, global); err != nil {
				return fmt.Errorf("query %d sink: %w", q, err)
			}
		}

		if err := comm.Barrier(ctx); err != nil {
			return fmt.Errorf("rank %d query %d barrier: %w", comm.Rank(), q, err)
		}
	}
	return nil
}

// aborted wraps a peer's cause so callers can test for ErrAborted.
func aborted(cause error) error {
	if cause == nil {
		return ErrAborted
	}
	return fmt.Errorf("%w: %v", ErrAborted, cause)
}
