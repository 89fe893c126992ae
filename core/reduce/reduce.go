// Package reduce sums every row of a similarity matrix into one score per
// mutant. Kernels differ only in how the additions are scheduled; results
// agree up to floating-point reassociation.
package reduce

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/viterin/vek"
	"gonum.org/v1/gonum/mat"
)

// ErrUnknownKernel is returned by Lookup for an unregistered name.
var ErrUnknownKernel = errors.New("unknown reduction kernel")

// Kernel writes the sum of row i of m into dst[i]. len(dst) must equal the
// number of rows.
type Kernel interface {
	RowSums(m *mat.Dense, dst []float64)
}

// Default is the kernel used when none is configured.
const Default = "rows"

var registry = map[string]func(workers int) Kernel{
	"rows": func(workers int) Kernel { return Rows{Workers: workers} },
	"simd": func(int) Kernel { return SIMD{} },
	"blas": func(int) Kernel { return BLAS{} },
}

// Lookup returns the kernel registered under name. An empty name selects Default.
func Lookup(name string, workers int) (Kernel, error) {
	if name == "" {
		name = Default
	}
	mk, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %v)", ErrUnknownKernel, name, Names())
	}
	return mk(workers), nil
}

// Names lists the registered kernels in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Rows splits the rows into contiguous blocks and sums each block in its own
// goroutine, left to right within a row. Workers <= 0 means one goroutine per row.
type Rows struct{ Workers int }

func (k Rows) RowSums(m *mat.Dense, dst []float64) {
	rows, _ := m.Dims()
	w := k.Workers
	if w <= 0 || w > rows {
		w = rows
	}
	if w <= 1 {
		sumRange(m, dst, 0, rows)
		return
	}
	part := rows / w
	var wg sync.WaitGroup
	wg.Add(w)
	for i := 0; i < w; i++ {
		lo, hi := i*part, (i+1)*part
		if i == w-1 {
			hi = rows
		}
		go func() {
			defer wg.Done()
			sumRange(m, dst, lo, hi)
		}()
	}
	wg.Wait()
}

func sumRange(m *mat.Dense, dst []float64, lo, hi int) {
	for r := lo; r < hi; r++ {
		var s float64
		for _, v := range m.RawRowView(r) {
			s += v
		}
		dst[r] = s
	}
}

// SIMD sums each row with vectorised accumulation.
type SIMD struct{}

func (SIMD) RowSums(m *mat.Dense, dst []float64) {
	rows, _ := m.Dims()
	for r := 0; r < rows; r++ {
		dst[r] = vek.Sum(m.RawRowView(r))
	}
}

// BLAS computes the row sums as the matrix-vector product m·1.
type BLAS struct{}

func (BLAS) RowSums(m *mat.Dense, dst []float64) {
	rows, cols := m.Dims()
	ones := make([]float64, cols)
	for i := range ones {
		ones[i] = 1
	}
	mat.NewVecDense(rows, dst).MulVec(m, mat.NewVecDense(cols, ones))
}
