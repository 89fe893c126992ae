package cluster

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mutalign/core/classify"
	"mutalign/core/engine"
	"mutalign/core/oracle"
	"mutalign/core/partition"
	"mutalign/core/result"
)

const aminoAcids = "ACDEFGHIKLMNPQRSTVWY"

func randomProblem(seed uint64, queries int) engine.Problem {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	seq := func(n int) []byte {
		b := make([]byte, n)
		for i := range b {
			b[i] = aminoAcids[rng.IntN(len(aminoAcids))]
		}
		return b
	}
	p := engine.Problem{Weights: classify.Weights{1, 1, 1, 1}, Reference: seq(60)}
	for i := 0; i < queries; i++ {
		p.Queries = append(p.Queries, seq(1+rng.IntN(12)))
	}
	// one query with no valid offset
	p.Queries = append(p.Queries, seq(59))
	return p
}

type collector struct {
	mu  sync.Mutex
	got map[int]result.Result
}

func (c *collector) sink(q int, r result.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.got == nil {
		c.got = make(map[int]result.Result)
	}
	c.got[q] = r
	return nil
}

func (c *collector) slice(n int) []result.Result {
	out := make([]result.Result, n)
	for i := range out {
		out[i] = c.got[i]
	}
	return out
}

func TestRunLocal_MatchesOracleForAnyWorkerCount(t *testing.T) {
	p := randomProblem(3, 8)
	want := oracle.Run(p)
	eng := engine.New(engine.Config{Threads: 2})

	for size := 1; size <= 6; size++ {
		var c collector
		require.NoError(t, RunLocal(context.Background(), size, eng, p, c.sink, Hooks{}))
		require.Len(t, c.got, len(p.Queries))
		assert.Emptyf(t, oracle.Compare(c.slice(len(p.Queries)), want, 1e-9), "size=%d", size)
	}
}

// With all-zero weights every candidate ties; the canonical first one
// (offset 0, mutant 1) must win no matter how offsets are split.
func TestRunLocal_TieBreakIsDeterministic(t *testing.T) {
	p := engine.Problem{Reference: []byte("ACDEFGHIKLMNPQRSTVWY"), Queries: [][]byte{[]byte("KLM")}}
	for size := 1; size <= 5; size++ {
		var c collector
		require.NoError(t, RunLocal(context.Background(), size, engine.New(engine.Config{}), p, c.sink, Hooks{}))
		assert.Equal(t, result.Result{Score: 0, Offset: 0, Mutant: 1}, c.got[0], "size=%d", size)
	}
}

func TestRunLocal_SinkErrorAbortsEveryRank(t *testing.T) {
	p := randomProblem(5, 4)
	boom := errors.New("disk full")
	var calls int
	sink := func(q int, r result.Result) error {
		calls++
		if q == 1 {
			return boom
		}
		return nil
	}
	err := RunLocal(context.Background(), 4, engine.New(engine.Config{}), p, sink, Hooks{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls, "no query after the failing one may reach the sink")
}

func TestRunLocal_Hooks(t *testing.T) {
	p := randomProblem(9, 2)
	var mu sync.Mutex
	searched := map[int]int{}
	var reduced []int
	hooks := Hooks{
		Searched: func(rank, q int, r partition.Range, candidates int, d time.Duration) {
			mu.Lock()
			defer mu.Unlock()
			searched[q] += candidates
		},
		Reduced: func(q int, r result.Result, d time.Duration) { reduced = append(reduced, q) },
	}
	var c collector
	require.NoError(t, RunLocal(context.Background(), 3, engine.New(engine.Config{}), p, c.sink, hooks))
	assert.Equal(t, []int{0, 1, 2}, reduced)
	for q, query := range p.Queries {
		maxOff := max(engine.MaxOffset(query, p.Reference), 0)
		assert.Equal(t, maxOff*len(query), searched[q])
	}
}

func TestRunLocal_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var c collector
	err := RunLocal(ctx, 3, engine.New(engine.Config{}), randomProblem(1, 3), c.sink, Hooks{})
	assert.Error(t, err)
	assert.Empty(t, c.got)
}

func TestLocalComm_AbortUnblocksPeers(t *testing.T) {
	comms := NewLocal(3)
	errs := make(chan error, 2)
	go func() { _, err := comms[0].Gather(context.Background(), result.None()); errs <- err }()
	go func() { errs <- comms[1].Barrier(context.Background()) }()

	comms[2].Abort(errors.New("out of memory"))
	for i := 0; i < 2; i++ {
		select {
		case err := <-errs:
			assert.ErrorIs(t, err, ErrAborted)
			assert.Contains(t, err.Error(), "out of memory")
		case <-time.After(5 * time.Second):
			t.Fatal("peer still blocked after abort")
		}
	}
}

func TestBarrier_Reusable(t *testing.T) {
	b := newBarrier(3)
	never := make(chan struct{})
	for round := 0; round < 4; round++ {
		var wg sync.WaitGroup
		for i := 0; i < 3; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, b.wait(context.Background(), never, func() error { return ErrAborted }))
			}()
		}
		wg.Wait()
	}
}

func TestMerge_CallsEveryHook(t *testing.T) {
	var a, b int
	h := Merge(
		Hooks{Reduced: func(int, result.Result, time.Duration) { a++ }},
		Hooks{},
		Hooks{
			Reduced:  func(int, result.Result, time.Duration) { b++ },
			Searched: func(int, int, partition.Range, int, time.Duration) { b += 10 },
		},
	)
	h.Reduced(0, result.None(), 0)
	h.Searched(0, 0, partition.Range{}, 0, 0)
	assert.Equal(t, 1, a)
	assert.Equal(t, 11, b)
}
