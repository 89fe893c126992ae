package engine

import (
	"bytes"

	"mutalign/core/classify"
)

// Problem is the full input of one batch run.
type Problem struct {
	Weights   classify.Weights
	Reference []byte
	Queries   [][]byte
}

// Clone returns a deep copy so each rank owns private memory.
func (p Problem) Clone() Problem {
	qs := make([][]byte, len(p.Queries))
	for i, q := range p.Queries {
		qs[i] = bytes.Clone(q)
	}
	return Problem{Weights: p.Weights, Reference: bytes.Clone(p.Reference), Queries: qs}
}
