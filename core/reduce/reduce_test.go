package reduce

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func randomMatrix(rows, cols int, seed uint64) *mat.Dense {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = rng.Float64()*4 - 2
	}
	return mat.NewDense(rows, cols, data)
}

func naive(m *mat.Dense) []float64 {
	rows, _ := m.Dims()
	out := make([]float64, rows)
	for r := 0; r < rows; r++ {
		for _, v := range m.RawRowView(r) {
			out[r] += v
		}
	}
	return out
}

func TestKernels_AgreeWithNaive(t *testing.T) {
	shapes := [][2]int{{1, 2}, {3, 4}, {7, 8}, {33, 34}, {120, 121}}
	for i, sh := range shapes {
		m := randomMatrix(sh[0], sh[1], uint64(i+1))
		want := naive(m)
		for _, name := range Names() {
			for _, workers := range []int{0, 1, 4} {
				k, err := Lookup(name, workers)
				require.NoError(t, err)
				got := make([]float64, sh[0])
				k.RowSums(m, got)
				assert.InDeltaSlicef(t, want, got, 1e-9, "kernel=%s workers=%d shape=%v", name, workers, sh)
			}
		}
	}
}

func TestRows_BitIdenticalToNaive(t *testing.T) {
	m := randomMatrix(50, 51, 7)
	got := make([]float64, 50)
	Rows{Workers: 3}.RowSums(m, got)
	assert.Equal(t, naive(m), got)
}

func TestLookup(t *testing.T) {
	k, err := Lookup("", 0)
	require.NoError(t, err)
	assert.IsType(t, Rows{}, k)

	_, err = Lookup("gpu", 0)
	assert.ErrorIs(t, err, ErrUnknownKernel)
	assert.Equal(t, []string{"blas", "rows", "simd"}, Names())
}
