// internal/jsonlutil/jsonlutil.go
package jsonlutil

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"
)

// 64 KiB buffered writers are pooled across JSONL writers.
var bwPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(io.Discard, 64<<10)
	},
}

// Start spins up a JSONL encoder goroutine for values of type T.
//   - encode: converts one value to its wire type and calls enc.Encode
//   - isBroken: recognizes broken/closed pipe errors, which end the stream
//     quietly
//
// After the first error the goroutine keeps draining in, so senders never
// block; done yields that first error once in is closed.
func Start[T any](out io.Writer, bufSize int, encode func(*json.Encoder, T) error, isBroken func(error) bool) (chan<- T, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan T, bufSize)
	done := make(chan error, 1)

	go func() {
		bw := bwPool.Get().(*bufio.Writer)
		bw.Reset(out)
		defer func() {
			bw.Reset(io.Discard)
			bwPool.Put(bw)
		}()

		enc := json.NewEncoder(bw)
		var err error
		for v := range in {
			if err != nil {
				continue
			}
			err = encode(enc, v)
		}
		if err == nil {
			err = bw.Flush()
		}
		if isBroken(err) {
			err = nil
		}
		done <- err
	}()

	return in, done
}
