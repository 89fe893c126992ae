package cluster

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"mutalign/core/engine"
	"mutalign/core/result"
)

type envelope struct {
	rank int
	rec  [result.WireSize]byte
}

// hub is the shared state of in-process ranks. Ranks communicate only through it.
type hub struct {
	size    int
	inbox   chan envelope
	barrier *barrier

	abortOnce sync.Once
	abort     chan struct{}
	cause     error
}

func (h *hub) stop(cause error) {
	h.abortOnce.Do(func() {
		h.cause = cause
		close(h.abort)
	})
}

func (h *hub) abortErr() error { return aborted(h.cause) }

type localComm struct {
	h    *hub
	rank int
}

// NewLocal returns size connected in-process endpoints, indexed by rank.
func NewLocal(size int) []Comm {
	if size < 1 {
		size = 1
	}
	h := &hub{
		size:    size,
		inbox:   make(chan envelope, size),
		barrier: newBarrier(size),
		abort:   make(chan struct{}),
	}
	out := make([]Comm, size)
	for r := range out {
		out[r] = &localComm{h: h, rank: r}
	}
	return out
}

func (c *localComm) Rank() int         { return c.rank }
func (c *localComm) Size() int         { return c.h.size }
func (c *localComm) Coordinator() bool { return c.rank == Coordinator }
func (c *localComm) Abort(cause error) { c.h.stop(cause) }
func (c *localComm) Close() error      { return nil }

func (c *localComm) Gather(ctx context.Context, local result.Result) ([]result.Result, error) {
	if !c.Coordinator() {
		var env envelope
		env.rank = c.rank
		if _, err := local.AppendBinary(env.rec[:0]); err != nil {
			return nil, err
		}
		select {
		case c.h.inbox <- env:
			return nil, nil
		case <-c.h.abort:
			return nil, c.h.abortErr()
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	all := make([]result.Result, c.h.size)
	all[c.rank] = local
	for got := 1; got < c.h.size; got++ {
		select {
		case env := <-c.h.inbox:
			if err := all[env.rank].UnmarshalBinary(env.rec[:]); err != nil {
				return nil, err
			}
		case <-c.h.abort:
			return nil, c.h.abortErr()
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return all, nil
}

func (c *localComm) Barrier(ctx context.Context) error {
	return c.h.barrier.wait(ctx, c.h.abort, c.h.abortErr)
}

// RunLocal runs size in-process ranks over private copies of p and returns
// the first error. On error the coordinator's sink may have seen a prefix of
// the queries; callers must discard it.
func RunLocal(ctx context.Context, size int, eng *engine.Engine, p engine.Problem, sink Sink, hooks Hooks) error {
	comms := NewLocal(size)
	g, gctx := errgroup.WithContext(ctx)
	for _, comm := range comms {
		priv := p.Clone()
		g.Go(func() error {
			defer comm.Close()
			return Run(gctx, comm, eng, priv, sink, hooks)
		})
	}
	err := g.Wait()
	if err != nil && errors.Is(err, ErrAborted) {
		// prefer the root cause recorded by the rank that aborted first
		if h := comms[0].(*localComm).h; h.cause != nil {
			return fmt.Errorf("%w: %w", ErrAborted, h.cause)
		}
	}
	return err
}
