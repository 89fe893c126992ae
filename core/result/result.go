// core/result/result.go
package result

import (
	"cmp"
	"math"
	"slices"
)

// Result is one scored (offset, mutant) candidate.
type Result struct {
	Score  float64
	Offset int
	Mutant int
}

// None is the identity of Fold: no candidate yet. Mutant indices start at 1,
// so Mutant == 0 marks it.
func None() Result { return Result{Score: math.Inf(-1)} }

// Found reports whether r holds a real candidate.
func (r Result) Found() bool { return r.Mutant > 0 }

// Fold returns cand if it scores strictly higher than best, otherwise best.
// Ties keep best, so the first candidate found in canonical order wins.
func Fold(best, cand Result) Result {
	if !cand.Found() {
		return best
	}
	if !best.Found() || cand.Score > best.Score {
		return cand
	}
	return best
}

// Compare orders results canonically by (offset, mutant).
func Compare(a, b Result) int {
	if c := cmp.Compare(a.Offset, b.Offset); c != 0 {
		return c
	}
	return cmp.Compare(a.Mutant, b.Mutant)
}

// Reduce folds rs in canonical order regardless of the order they arrived in,
// so the winner is the highest score with the smallest (offset, mutant) among
// ties. It returns None when rs holds no candidate.
func Reduce(rs []Result) Result {
	found := make([]Result, 0, len(rs))
	for _, r := range rs {
		if r.Found() {
			found = append(found, r)
		}
	}
	slices.SortFunc(found, Compare)
	best := None()
	for _, r := range found {
		best = Fold(best, r)
	}
	return best
}
