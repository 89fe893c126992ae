package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mutalign/core/classify"
	"mutalign/core/engine"
	"mutalign/core/result"
)

func TestBest_Example(t *testing.T) {
	w := classify.Weights{1, 1, 1, 1}
	got := Best([]byte("BC"), []byte("ABCDE"), w)
	assert.Equal(t, result.Result{Score: 1, Offset: 1, Mutant: 2}, got)
}

func TestBest_NoValidOffset(t *testing.T) {
	w := classify.Weights{1, 1, 1, 1}
	assert.False(t, Best([]byte("ABCD"), []byte("ABCDE"), w).Found())
	assert.False(t, Best([]byte("ABCDEF"), []byte("ABC"), w).Found())
}

func TestRunAndCompare(t *testing.T) {
	p := engine.Problem{
		Weights:   classify.Weights{1, 1, 1, 1},
		Reference: []byte("ABCDE"),
		Queries:   [][]byte{[]byte("BC"), []byte("ABCD")},
	}
	want := Run(p)
	assert.Len(t, want, 2)
	assert.Empty(t, Compare(want, want, 0))

	got := []result.Result{{Score: 1 + 1e-12, Offset: 1, Mutant: 2}, result.None()}
	assert.Empty(t, Compare(got, want, 1e-9))

	got[0].Mutant = 1
	ms := Compare(got, want, 1e-9)
	if assert.Len(t, ms, 1) {
		assert.Equal(t, 0, ms[0].Query)
		assert.Contains(t, ms[0].String(), "query 0")
	}
	assert.Len(t, Compare(nil, want, 1e-9), 1)
}
