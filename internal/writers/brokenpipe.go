package writers

import (
	"errors"
	"io"
	"syscall"
)

// IsBrokenPipe reports whether err comes from a reader that went away
// (EPIPE or a closed pipe), e.g. `mutalign run | head -1`.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}

// IgnoreBrokenPipe maps broken-pipe errors to nil.
func IgnoreBrokenPipe(err error) error {
	if IsBrokenPipe(err) {
		return nil
	}
	return err
}
