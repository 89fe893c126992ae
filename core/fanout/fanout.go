// Package fanout fills the similarity matrix of one offset: one goroutine per
// mutant, each writing only its own row.
package fanout

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"mutalign/core/classify"
	"mutalign/core/mutant"
)

// NewMatrix allocates the matrix for query: Count(query) rows of Size(query)
// columns. It returns nil for an empty query.
func NewMatrix(query []byte) *mat.Dense {
	if mutant.Count(query) == 0 {
		return nil
	}
	return mat.NewDense(mutant.Count(query), mutant.Size(query), nil)
}

// Fill computes row k-1 of m for every mutant k = 1..len(query) at offset n.
// limit bounds the number of goroutines in flight; limit <= 0 starts one per
// mutant. Fill returns once every row is written.
func Fill(ctx context.Context, m *mat.Dense, query, ref []byte, w classify.Weights, n, limit int) error {
	rows, cols := m.Dims()
	if rows != mutant.Count(query) || cols != mutant.Size(query) {
		return fmt.Errorf("fanout: matrix is %dx%d, query needs %dx%d",
			rows, cols, mutant.Count(query), mutant.Size(query))
	}

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for k := 1; k <= rows; k++ {
		row := m.RawRowView(k - 1)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			mutant.Fill(row, query, ref, w, k, n)
			return nil
		})
	}
	return g.Wait()
}
