// Package partition splits the offset range of one query across ranks.
package partition

// Range is the half-open offset interval [Start, End).
type Range struct{ Start, End int }

func (r Range) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

func (r Range) Empty() bool { return r.Len() == 0 }

// For returns the sub-range of [0, maxOffset) assigned to rank out of size.
// Every rank gets maxOffset/size offsets; the last rank also takes the
// remainder. maxOffset <= 0 or a rank outside [0, size) yields an empty range.
func For(maxOffset, rank, size int) Range {
	if size < 1 {
		size = 1
	}
	if maxOffset <= 0 || rank < 0 || rank >= size {
		return Range{}
	}
	part := maxOffset / size
	start := rank * part
	if rank == size-1 {
		part += maxOffset % size
	}
	return Range{Start: start, End: start + part}
}

// All returns the ranges of every rank, indexed by rank.
func All(maxOffset, size int) []Range {
	if size < 1 {
		size = 1
	}
	out := make([]Range, size)
	for r := range out {
		out[r] = For(maxOffset, r, size)
	}
	return out
}
