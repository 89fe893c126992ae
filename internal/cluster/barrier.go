package cluster

import (
	"context"
	"sync"
)

// barrier is a reusable rendezvous for n in-process ranks.
type barrier struct {
	mu      sync.Mutex
	n       int
	waiting int
	release chan struct{}
}

func newBarrier(n int) *barrier {
	return &barrier{n: n, release: make(chan struct{})}
}

// wait blocks until n callers arrived, the abort channel closes, or ctx ends.
func (b *barrier) wait(ctx context.Context, abort <-chan struct{}, abortErr func() error) error {
	b.mu.Lock()
	ch := b.release
	b.waiting++
	if b.waiting == b.n {
		b.waiting = 0
		b.release = make(chan struct{})
		b.mu.Unlock()
		close(ch)
		return nil
	}
	b.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-abort:
		return abortErr()
	case <-ctx.Done():
		return ctx.Err()
	}
}
