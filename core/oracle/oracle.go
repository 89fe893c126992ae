// Package oracle is a plain sequential re-implementation of the search, kept
// for validation and benchmarking only. Production paths use core/engine.
package oracle

import (
	"fmt"
	"math"

	"mutalign/core/classify"
	"mutalign/core/engine"
	"mutalign/core/mutant"
	"mutalign/core/result"
)

// Best returns the winning candidate of query against ref, or result.None
// when the query has no valid offset.
func Best(query, ref []byte, w classify.Weights) result.Result {
	final := result.None()
	maxK := len(query) + 1
	for n := 0; n < engine.MaxOffset(query, ref); n++ {
		best := result.None()
		for k := 1; k < maxK; k++ {
			cur := result.Result{Offset: n, Mutant: k}
			for _, v := range mutant.Similarity(query, ref, w, k, n) {
				cur.Score += v
			}
			best = result.Fold(best, cur)
		}
		final = result.Fold(final, best)
	}
	return final
}

// Run returns Best for every query of p, in input order.
func Run(p engine.Problem) []result.Result {
	out := make([]result.Result, len(p.Queries))
	for i, q := range p.Queries {
		out[i] = Best(q, p.Reference, p.Weights)
	}
	return out
}

// Mismatch describes one query whose result differs from the oracle.
type Mismatch struct {
	Query     int
	Got, Want result.Result
}

func (m Mismatch) String() string {
	return fmt.Sprintf("query %d: got offset=%d mutant=%d score=%g, want offset=%d mutant=%d score=%g",
		m.Query, m.Got.Offset, m.Got.Mutant, m.Got.Score, m.Want.Offset, m.Want.Mutant, m.Want.Score)
}

// Compare checks got against want: offsets and mutants must be equal, scores
// within tol.
func Compare(got, want []result.Result, tol float64) []Mismatch {
	var out []Mismatch
	for i := 0; i < max(len(got), len(want)); i++ {
		g, w := result.None(), result.None()
		if i < len(got) {
			g = got[i]
		}
		if i < len(want) {
			w = want[i]
		}
		if !same(g, w, tol) {
			out = append(out, Mismatch{Query: i, Got: g, Want: w})
		}
	}
	return out
}

func same(g, w result.Result, tol float64) bool {
	if g.Found() != w.Found() {
		return false
	}
	if !g.Found() {
		return true
	}
	return g.Offset == w.Offset && g.Mutant == w.Mutant && math.Abs(g.Score-w.Score) <= tol
}
