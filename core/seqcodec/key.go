// core/seqcodec/key.go
package seqcodec

import "seqvault-core/removal"

// ChunkKey pairs a chunk index with the removal key for that chunk.
type ChunkKey struct {
	Index int
	Key   removal.Key
}

// SequenceKey is everything needed to decode one record: the removal keys,
// the original symbol length (leading 'A' runs are invisible in the
// integers), and the chunk size used at encode time. An explicit tag
// separates the single-chunk and chunked forms, so callers never sniff
// shapes.
type SequenceKey struct {
	Length    int
	ChunkSize int
	Chunked   bool
	Single    removal.Key // when !Chunked
	Chunks    []ChunkKey  // when Chunked, ascending Index
}

// SingleKey builds the key for a record that fit in one chunk.
func SingleKey(length, chunkSize int, k removal.Key) SequenceKey {
	return SequenceKey{Length: length, ChunkSize: chunkSize, Single: k}
}

// ChunkedKey builds the key for a multi-chunk record.
func ChunkedKey(length, chunkSize int, chunks []ChunkKey) SequenceKey {
	return SequenceKey{Length: length, ChunkSize: chunkSize, Chunked: true, Chunks: chunks}
}

// NumChunks is the chunk count for a sequence of the given length: zero
// for the empty sequence, ceil(length/chunkSize) otherwise.
func NumChunks(length, chunkSize int) int {
	if length <= 0 || chunkSize <= 0 {
		return 0
	}
	return (length + chunkSize - 1) / chunkSize
}
