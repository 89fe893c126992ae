package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_CoversWithoutOverlap(t *testing.T) {
	for maxOffset := 0; maxOffset <= 40; maxOffset++ {
		for size := 1; size <= 9; size++ {
			rs := All(maxOffset, size)
			require.Len(t, rs, size)

			seen := make([]int, maxOffset)
			for _, r := range rs {
				for n := r.Start; n < r.End; n++ {
					seen[n]++
				}
			}
			for n, c := range seen {
				require.Equalf(t, 1, c, "offset %d covered %d times (max=%d size=%d)", n, c, maxOffset, size)
			}

			last := rs[size-1]
			for r := 0; r < size-1; r++ {
				assert.GreaterOrEqual(t, last.Len(), rs[r].Len())
				assert.Equal(t, rs[0].Len(), rs[r].Len())
				assert.Equal(t, rs[r].End, rs[r+1].Start, "ranges must be contiguous")
			}
		}
	}
}

func TestFor_Examples(t *testing.T) {
	assert.Equal(t, Range{0, 3}, For(10, 0, 3))
	assert.Equal(t, Range{3, 6}, For(10, 1, 3))
	assert.Equal(t, Range{6, 10}, For(10, 2, 3))
	// fewer offsets than ranks: everything lands on the last rank
	assert.Equal(t, Range{0, 0}, For(2, 0, 4))
	assert.Equal(t, Range{0, 2}, For(2, 3, 4))
}

func TestFor_Degenerate(t *testing.T) {
	assert.True(t, For(0, 0, 1).Empty())
	assert.True(t, For(-3, 0, 2).Empty())
	assert.True(t, For(10, 5, 2).Empty())
	assert.Equal(t, Range{0, 10}, For(10, 0, 0))
}
