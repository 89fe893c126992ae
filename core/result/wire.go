package result

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// WireSize is the fixed size of an encoded Result:
// score float64, offset int32, mutant int32, little-endian.
const WireSize = 16

var (
	ErrShortRecord = errors.New("result: short wire record")
	ErrOutOfRange  = errors.New("result: offset or mutant does not fit in int32")
)

// AppendBinary appends the wire encoding of r to b.
func (r Result) AppendBinary(b []byte) ([]byte, error) {
	if r.Offset < math.MinInt32 || r.Offset > math.MaxInt32 ||
		r.Mutant < math.MinInt32 || r.Mutant > math.MaxInt32 {
		return b, fmt.Errorf("%w: offset=%d mutant=%d", ErrOutOfRange, r.Offset, r.Mutant)
	}
	b = binary.LittleEndian.AppendUint64(b, math.Float64bits(r.Score))
	b = binary.LittleEndian.AppendUint32(b, uint32(int32(r.Offset)))
	b = binary.LittleEndian.AppendUint32(b, uint32(int32(r.Mutant)))
	return b, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (r Result) MarshalBinary() ([]byte, error) {
	return r.AppendBinary(make([]byte, 0, WireSize))
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. Bytes past WireSize are ignored.
func (r *Result) UnmarshalBinary(b []byte) error {
	if len(b) < WireSize {
		return fmt.Errorf("%w: %d bytes", ErrShortRecord, len(b))
	}
	r.Score = math.Float64frombits(binary.LittleEndian.Uint64(b[0:8]))
	r.Offset = int(int32(binary.LittleEndian.Uint32(b[8:12])))
	r.Mutant = int(int32(binary.LittleEndian.Uint32(b[12:16])))
	return nil
}
