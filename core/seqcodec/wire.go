// core/seqcodec/wire.go
package seqcodec

import (
	"encoding/binary"
	"fmt"
)

// Record payload framing: chunk_count:uint32, then per chunk
// chunk_length:uint32 + bytes. All integers big-endian, matching the
// big-endian integer buffers inside.

// AppendRecordPayload appends the framed payload for chunks to dst.
func AppendRecordPayload(dst []byte, chunks [][]byte) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(chunks)))
	for _, c := range chunks {
		dst = binary.BigEndian.AppendUint32(dst, uint32(len(c)))
		dst = append(dst, c...)
	}
	return dst
}

// ParseRecordPayload splits a framed record payload back into its chunk
// buffers. It fails with ErrTruncated when a declared field runs past the
// end of p, and rejects trailing bytes.
func ParseRecordPayload(p []byte) ([][]byte, error) {
	if len(p) < 4 {
		return nil, fmt.Errorf("%w: %d bytes, chunk count needs 4", ErrTruncated, len(p))
	}
	count := binary.BigEndian.Uint32(p)
	p = p[4:]

	// Each chunk needs at least its 4-byte length header.
	if uint64(count)*4 > uint64(len(p)) {
		return nil, fmt.Errorf("%w: %d chunks declared, %d bytes remain", ErrTruncated, count, len(p))
	}

	chunks := make([][]byte, 0, count)
	for i := uint32(0); i < count; i++ {
		if len(p) < 4 {
			return nil, fmt.Errorf("%w: chunk %d length header", ErrTruncated, i)
		}
		n := binary.BigEndian.Uint32(p)
		p = p[4:]
		if uint64(n) > uint64(len(p)) {
			return nil, fmt.Errorf("%w: chunk %d wants %d bytes, %d remain", ErrTruncated, i, n, len(p))
		}
		chunks = append(chunks, append([]byte(nil), p[:n]...))
		p = p[n:]
	}
	if len(p) != 0 {
		return nil, fmt.Errorf("seqcodec: %d trailing bytes after %d chunks", len(p), count)
	}
	return chunks, nil
}
