// internal/iox/brokenpipe.go
package iox

import (
	"errors"
	"io"
	"syscall"
)

// IsBrokenPipe reports whether err means the downstream reader went away
// (e.g. decode output piped into `head`). Callers treat it as a clean
// stop, not a failure.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
