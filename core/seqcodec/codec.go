// core/seqcodec/codec.go

// Package seqcodec chunks symbol strings, drives the converter and the
// removal codec per chunk, and assembles the framed record payload plus
// its sequence key. Decoding reverses the flow exactly, including the
// last-chunk length correction and end-trim contract.
package seqcodec

import (
	"fmt"
	"math/rand"

	"seqvault-core/removal"
	"seqvault-core/seqnum"
)

// Defaults applied by callers that take removal count and chunk size from
// users. Passing these explicitly and omitting them are equivalent.
const (
	DefaultRemovals  = 5
	DefaultChunkSize = 10000
)

// Config selects the converter strategy and the per-chunk parameters.
type Config struct {
	Strategy  seqnum.Strategy // nil → seqnum.Limb
	ChunkSize int             // <= 0 → DefaultChunkSize
	Removals  int             // bytes removed per chunk buffer; < 0 → DefaultRemovals, 0 is legal
}

// Codec is safe for concurrent use: encode randomness comes from the
// caller-supplied source, everything else is read-only.
type Codec struct {
	conv      *seqnum.Converter
	chunkSize int
	removals  int
}

func New(cfg Config) *Codec {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.Removals < 0 {
		cfg.Removals = DefaultRemovals
	}
	return &Codec{
		conv:      seqnum.NewConverter(cfg.Strategy),
		chunkSize: cfg.ChunkSize,
		removals:  cfg.Removals,
	}
}

func (c *Codec) ChunkSize() int            { return c.chunkSize }
func (c *Codec) Removals() int             { return c.removals }
func (c *Codec) Strategy() seqnum.Strategy { return c.conv.Strategy() }

// EncodeRecord encodes one record's symbols into a framed payload and its
// sequence key. Removal positions are drawn from rng (nil falls back to
// the global source). Encoding never fails: unknown symbols fold to N,
// and oversized removal counts clamp to the buffer size.
func (c *Codec) EncodeRecord(seq []byte, rng *rand.Rand) ([]byte, SequenceKey) {
	n := NumChunks(len(seq), c.chunkSize)

	if n <= 1 {
		key := SingleKey(len(seq), c.chunkSize, removal.Key{})
		var chunks [][]byte
		if n == 1 {
			shrunk, rk := removal.Encode(c.conv.EncodeBytes(seq), c.removals, rng)
			key.Single = rk
			chunks = [][]byte{shrunk}
		}
		return AppendRecordPayload(nil, chunks), key
	}

	chunks := make([][]byte, 0, n)
	cks := make([]ChunkKey, 0, n)
	for i := 0; i < n; i++ {
		lo := i * c.chunkSize
		hi := lo + c.chunkSize
		if hi > len(seq) {
			hi = len(seq)
		}
		shrunk, rk := removal.Encode(c.conv.EncodeBytes(seq[lo:hi]), c.removals, rng)
		chunks = append(chunks, shrunk)
		cks = append(cks, ChunkKey{Index: i, Key: rk})
	}
	return AppendRecordPayload(nil, chunks), ChunkedKey(len(seq), c.chunkSize, cks)
}

// DecodeRecord rebuilds the exact original symbols from a framed payload
// and its key. The chunk size and length recorded in the key govern the
// expected symbol count per chunk: every chunk expects min(C, L - i·C),
// so the last chunk always expects the remainder, never blindly C.
// Decoding stops once L symbols are reached, trims any excess from the
// end, and fails with ErrLengthMismatch if fewer than L symbols come out.
func (c *Codec) DecodeRecord(payload []byte, key SequenceKey) ([]byte, error) {
	chunks, err := ParseRecordPayload(payload)
	if err != nil {
		return nil, err
	}
	L := key.Length
	if L < 0 {
		return nil, fmt.Errorf("%w: negative length %d", removal.ErrMalformedKey, L)
	}

	if !key.Chunked {
		switch len(chunks) {
		case 0:
			if L != 0 {
				return nil, fmt.Errorf("%w: decoded 0 symbols, expected %d", ErrLengthMismatch, L)
			}
			return []byte{}, nil
		case 1:
			buf, err := removal.Decode(chunks[0], key.Single)
			if err != nil {
				return nil, fmt.Errorf("chunk 0: %w", err)
			}
			out, err := c.conv.DecodeBytes(buf, L)
			if err != nil {
				return nil, fmt.Errorf("%w: chunk 0: %v", ErrLengthMismatch, err)
			}
			return out, nil
		default:
			return nil, fmt.Errorf("%w: single-chunk key, payload has %d chunks", ErrMissingChunkKey, len(chunks))
		}
	}

	C := key.ChunkSize
	if C <= 0 {
		return nil, fmt.Errorf("%w: chunked key with chunk size %d", removal.ErrMalformedKey, C)
	}
	byIndex := make(map[int]removal.Key, len(key.Chunks))
	for _, ck := range key.Chunks {
		if _, dup := byIndex[ck.Index]; dup {
			return nil, fmt.Errorf("%w: duplicate chunk index %d", removal.ErrMalformedKey, ck.Index)
		}
		byIndex[ck.Index] = ck.Key
	}

	out := make([]byte, 0, L)
	for i := range chunks {
		if len(out) >= L {
			break // remaining chunks are logically unused
		}
		rk, ok := byIndex[i]
		if !ok {
			return nil, fmt.Errorf("%w: chunk %d", ErrMissingChunkKey, i)
		}
		buf, err := removal.Decode(chunks[i], rk)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		expect := L - i*C
		if expect > C {
			expect = C
		}
		syms, err := c.conv.DecodeBytes(buf, expect)
		if err != nil {
			return nil, fmt.Errorf("%w: chunk %d: %v", ErrLengthMismatch, i, err)
		}
		out = append(out, syms...)
	}
	if len(out) > L {
		out = out[:L] // keep the prefix; excess is always at the end
	}
	if len(out) < L {
		return nil, fmt.Errorf("%w: decoded %d symbols, expected %d", ErrLengthMismatch, len(out), L)
	}
	return out, nil
}
