// core/engine/engine.go
package engine

import (
	"context"

	"mutalign/core/classify"
	"mutalign/core/fanout"
	"mutalign/core/mutant"
	"mutalign/core/partition"
	"mutalign/core/reduce"
	"mutalign/core/result"
)

// Config holds search parameters.
type Config struct {
	Threads int           // fan-out goroutine bound per offset (0 = one per mutant)
	Kernel  reduce.Kernel // row reduction (nil = reduce.Rows with one goroutine per row)
}

// Engine searches offset ranges with a fixed configuration. It is safe for
// concurrent use; every Search allocates its own buffers.
type Engine struct {
	cfg Config
}

// New creates a new Engine.
func New(c Config) *Engine {
	if c.Kernel == nil {
		c.Kernel = reduce.Rows{}
	}
	return &Engine{cfg: c}
}

// MaxOffset returns the number of valid offsets of query against ref. A value
// <= 0 means the query has no candidate.
func MaxOffset(query, ref []byte) int { return len(ref) - (len(query) + 1) }

// Evaluate folds the candidates of offset n into best, in increasing mutant
// order: scores[k-1] is the score of mutant k.
func Evaluate(scores []float64, n int, best result.Result) result.Result {
	for i, s := range scores {
		best = result.Fold(best, result.Result{Score: s, Offset: n, Mutant: i + 1})
	}
	return best
}

// Search walks the offsets of r in increasing order and returns the best
// candidate over all of them. An empty range or an empty query yields
// result.None. The only error is the context's.
func (e *Engine) Search(ctx context.Context, query, ref []byte, w classify.Weights, r partition.Range) (result.Result, error) {
	best := result.None()
	if r.Empty() || mutant.Count(query) == 0 {
		return best, nil
	}

	m := fanout.NewMatrix(query)
	scores := make([]float64, mutant.Count(query))
	for n := r.Start; n < r.End; n++ {
		if err := ctx.Err(); err != nil {
			return result.None(), err
		}
		if err := fanout.Fill(ctx, m, query, ref, w, n, e.cfg.Threads); err != nil {
			return result.None(), err
		}
		e.cfg.Kernel.RowSums(m, scores)
		best = Evaluate(scores, n, best)
	}
	return best, nil
}

// Candidates is the number of (offset, mutant) pairs Search evaluates over r.
func Candidates(query []byte, r partition.Range) int {
	return r.Len() * mutant.Count(query)
}
