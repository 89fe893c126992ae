// internal/writers/writer.go
package writers

import (
	"io"

	"mutalign/internal/output"
)

// StartWriter spins up a writer goroutine for format. The returned error
// channel yields once, after in is closed and everything was written. An
// unknown format still drains in so senders never block.
func StartWriter(out io.Writer, format string, opt Options, bufSize int) (chan<- output.Row, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan output.Row, bufSize)
	errCh := make(chan error, 1)

	go func() {
		err := Stream(format, out, in, opt)
		for range in {
		}
		errCh <- err
	}()
	return in, errCh
}
