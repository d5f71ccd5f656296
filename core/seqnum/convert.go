// core/seqnum/convert.go

// Package seqnum converts DNA symbol strings to arbitrary-precision
// integers and back: value = Σ digit(s_i) · 5^(n-1-i). The integer alone
// does not determine the string, because leading 'A' symbols are digit
// zero and vanish, so decoding takes the original length.
package seqnum

import (
	"errors"
	"fmt"
	"math/big"

	"seqvault-core/alphabet"
)

// NaturalLength asks Decode for the unpadded digit count. Only safe when
// the caller knows the sequence cannot start with the zero symbol.
const NaturalLength = -1

// ErrTooManyDigits reports an integer whose digit count exceeds the
// requested decode length. Decode never trims.
var ErrTooManyDigits = errors.New("seqnum: digit count exceeds requested length")

// Converter applies one strategy in both directions.
type Converter struct {
	s Strategy
}

// NewConverter returns a converter using s, or the Limb default when s is
// nil.
func NewConverter(s Strategy) *Converter {
	if s == nil {
		s = Limb
	}
	return &Converter{s: s}
}

func (c *Converter) Strategy() Strategy { return c.s }

// Encode folds seq into its positional base-5 integer. Case-insensitive;
// symbols outside the alphabet count as N. The empty string encodes to 0.
func (c *Converter) Encode(seq []byte) *big.Int { return c.s.Encode(seq) }

// EncodeBytes returns the minimal big-endian buffer of Encode(seq). The
// buffer is empty when the value is 0.
func (c *Converter) EncodeBytes(seq []byte) []byte { return c.s.Encode(seq).Bytes() }

// Decode expands a non-negative integer back into a symbol string of
// exactly length characters, left-padding with 'A'. length == 0 with a
// zero value yields the empty string. Pass NaturalLength for the unpadded
// digit count (a correctness hazard under leading 'A' runs, see package
// comment). If the natural digit count exceeds length, Decode fails with
// ErrTooManyDigits; it never trims.
func (c *Converter) Decode(n *big.Int, length int) ([]byte, error) {
	syms := c.s.Symbols(n)
	if length == NaturalLength || length < 0 {
		return syms, nil
	}
	if len(syms) > length {
		return nil, fmt.Errorf("%w: %d digits, length %d", ErrTooManyDigits, len(syms), length)
	}
	if len(syms) == length {
		return syms, nil
	}
	out := make([]byte, length)
	pad := length - len(syms)
	for i := 0; i < pad; i++ {
		out[i] = alphabet.Zero
	}
	copy(out[pad:], syms)
	return out, nil
}

// DecodeBytes is Decode over a minimal big-endian buffer (empty = 0).
func (c *Converter) DecodeBytes(buf []byte, length int) ([]byte, error) {
	return c.Decode(new(big.Int).SetBytes(buf), length)
}
