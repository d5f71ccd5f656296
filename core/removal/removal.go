// core/removal/removal.go

// Package removal implements the positional byte removal codec: Encode
// deletes k bytes from a buffer and records (position, value) pairs;
// Decode reinserts them to rebuild the original buffer exactly. Removed
// slots leave no placeholder; the buffer really shrinks.
package removal

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

// Entry records one deleted byte: Pos indexes into the original buffer.
type Entry struct {
	Pos int
	Val byte
}

// Key is a removal key: entries sorted ascending by position, positions
// unique. Decode depends on the ascending order.
type Key []Entry

// ErrMalformedKey reports a key that cannot have been produced by Encode:
// duplicate positions, or a position beyond the buffer being rebuilt.
var ErrMalformedKey = errors.New("removal: malformed key")

// Encode deletes k bytes from buf at distinct positions chosen uniformly
// without replacement from rng (the package-global source when rng is
// nil). k greater than len(buf) is clamped; the caller can detect
// clamping by comparing len(key) to k. buf is not modified.
//
// Deletions run from the highest chosen position to the lowest so lower
// indices stay valid while the buffer shrinks; the returned key is sorted
// ascending.
func Encode(buf []byte, k int, rng *rand.Rand) ([]byte, Key) {
	if k < 0 {
		k = 0
	}
	if k > len(buf) {
		k = len(buf)
	}
	if k == 0 {
		return append([]byte(nil), buf...), Key{}
	}

	var perm []int
	if rng != nil {
		perm = rng.Perm(len(buf))
	} else {
		perm = rand.Perm(len(buf))
	}
	positions := perm[:k]
	sort.Ints(positions)

	key := make(Key, k)
	for i, p := range positions {
		key[i] = Entry{Pos: p, Val: buf[p]}
	}

	out := append([]byte(nil), buf...)
	for i := k - 1; i >= 0; i-- {
		p := positions[i]
		out = append(out[:p], out[p+1:]...)
	}
	return out, key
}

// Decode rebuilds the original buffer from a shrunk buffer and its key.
// Entries are sorted by position, then inserted in ascending order;
// because all lower positions are already placed when an entry is
// processed, inserting at the literal recorded index restores the
// original layout with no shift correction.
func Decode(shrunk []byte, key Key) ([]byte, error) {
	out := make([]byte, len(shrunk), len(shrunk)+len(key))
	copy(out, shrunk)

	if len(key) == 0 {
		return out, nil
	}
	sorted := append(Key(nil), key...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Pos < sorted[j].Pos })

	for i, e := range sorted {
		if i > 0 && e.Pos == sorted[i-1].Pos {
			return nil, fmt.Errorf("%w: duplicate position %d", ErrMalformedKey, e.Pos)
		}
		if e.Pos < 0 || e.Pos > len(out) {
			return nil, fmt.Errorf("%w: position %d outside buffer of %d bytes", ErrMalformedKey, e.Pos, len(out))
		}
		out = append(out, 0)
		copy(out[e.Pos+1:], out[e.Pos:])
		out[e.Pos] = e.Val
	}
	return out, nil
}
