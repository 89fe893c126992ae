// Package mutant builds the similarity vector of one gap-insertion mutant of
// a query aligned at one offset of the reference.
//
// Mutant k is the query with a gap inserted at index k: symbols before k keep
// their index, the gap occupies k, and the rest shift right by one. The
// vector is computed without materializing the mutant.
package mutant

import "mutalign/core/classify"

// Size is the length of every similarity vector for query.
func Size(query []byte) int { return len(query) + 1 }

// Count is the number of mutants evaluated per offset (k = 1..len(query)).
func Count(query []byte) int { return len(query) }

// Fill writes the similarity vector of mutant k at offset n into dst, which
// must have length Size(query). The caller guarantees n+len(query) < len(ref).
func Fill(dst []float64, query, ref []byte, w classify.Weights, k, n int) {
	win := ref[n : n+len(query)+1]
	_ = dst[len(query)]
	i := 0
	for ; i < k; i++ {
		dst[i] = classify.Score(win[i], query[i], w)
	}
	dst[i] = classify.Score(win[i], classify.Gap, w)
	for i++; i <= len(query); i++ {
		dst[i] = classify.Score(win[i], query[i-1], w)
	}
}

// Similarity allocates and returns the similarity vector of mutant k at offset n.
func Similarity(query, ref []byte, w classify.Weights, k, n int) []float64 {
	v := make([]float64, Size(query))
	Fill(v, query, ref, w, k, n)
	return v
}

// Materialize returns a copy of query with the gap inserted at index k.
func Materialize(query []byte, k int) []byte {
	out := make([]byte, 0, len(query)+1)
	out = append(out, query[:k]...)
	out = append(out, classify.Gap)
	return append(out, query[k:]...)
}
