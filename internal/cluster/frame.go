package cluster

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"mutalign/core/result"
)

// Frame kinds. Each frame is one kind byte followed by a payload whose size
// is fixed by the kind, except abort which carries a u16 length prefix.
type kind byte

const (
	kindHello   kind = 'H' // rank u32, size u32
	kindWelcome kind = 'W' // 16-byte run ID
	kindResult  kind = 'R' // result.WireSize record
	kindBarrier kind = 'B' // empty
	kindAbort   kind = 'A' // u16 length, message
)

const maxAbortMessage = 1<<16 - 1

var ErrProtocol = errors.New("cluster: protocol error")

type frame struct {
	kind    kind
	payload []byte
}

func payloadSize(k kind) (int, error) {
	switch k {
	case kindHello:
		return 8, nil
	case kindWelcome:
		return 16, nil
	case kindResult:
		return result.WireSize, nil
	case kindBarrier:
		return 0, nil
	}
	return 0, fmt.Errorf("%w: unknown frame kind %q", ErrProtocol, byte(k))
}

func writeFrame(w io.Writer, k kind, payload []byte) error {
	buf := make([]byte, 0, 3+len(payload))
	buf = append(buf, byte(k))
	if k == kindAbort {
		if len(payload) > maxAbortMessage {
			payload = payload[:maxAbortMessage]
		}
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(payload)))
	} else if n, err := payloadSize(k); err != nil {
		return err
	} else if n != len(payload) {
		return fmt.Errorf("%w: frame %q needs %d payload bytes, have %d", ErrProtocol, byte(k), n, len(payload))
	}
	buf = append(buf, payload...)
	_, err := w.Write(buf)
	return err
}

func readFrame(r *bufio.Reader) (frame, error) {
	b, err := r.ReadByte()
	if err != nil {
		return frame{}, err
	}
	f := frame{kind: kind(b)}
	var n int
	if f.kind == kindAbort {
		var l [2]byte
		if _, err := io.ReadFull(r, l[:]); err != nil {
			return frame{}, err
		}
		n = int(binary.LittleEndian.Uint16(l[:]))
	} else if n, err = payloadSize(f.kind); err != nil {
		return frame{}, err
	}
	f.payload = make([]byte, n)
	if _, err := io.ReadFull(r, f.payload); err != nil {
		return frame{}, err
	}
	return f, nil
}

func helloPayload(rank, size int) []byte {
	b := binary.LittleEndian.AppendUint32(nil, uint32(rank))
	return binary.LittleEndian.AppendUint32(b, uint32(size))
}

func parseHello(p []byte) (rank, size int) {
	return int(binary.LittleEndian.Uint32(p[0:4])), int(binary.LittleEndian.Uint32(p[4:8]))
}
