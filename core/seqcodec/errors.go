// core/seqcodec/errors.go
package seqcodec

import "errors"

var (
	// ErrTruncated reports a payload that ends before a length-prefixed
	// field is fully readable.
	ErrTruncated = errors.New("seqcodec: truncated payload")

	// ErrMissingChunkKey reports a payload chunk with no key entry.
	ErrMissingChunkKey = errors.New("seqcodec: missing chunk key")

	// ErrLengthMismatch reports a decode whose symbol count disagrees
	// with the length recorded in the key.
	ErrLengthMismatch = errors.New("seqcodec: decoded length mismatch")
)
