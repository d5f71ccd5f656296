// core/alphabet/alphabet.go
package alphabet

// Base-5 digit coding of the DNA alphabet. Every byte maps to a digit;
// anything outside {A,C,G,T} (either case) lands in the N slot, so the
// converter never sees an unmappable symbol.

// Base is the number of distinct symbols.
const Base = 5

// Zero is the symbol whose digit value is 0. Leading runs of it vanish
// from the integer representation and must be restored from a recorded
// length.
const Zero = 'A'

var symbolDigit [256]byte

var digitSymbol = [Base]byte{'A', 'C', 'G', 'T', 'N'}

func init() {
	for i := range symbolDigit {
		symbolDigit[i] = 4 // N
	}
	symbolDigit['A'], symbolDigit['a'] = 0, 0
	symbolDigit['C'], symbolDigit['c'] = 1, 1
	symbolDigit['G'], symbolDigit['g'] = 2, 2
	symbolDigit['T'], symbolDigit['t'] = 3, 3
}

// SymbolToDigit maps a symbol byte to its digit 0..4. Case-insensitive;
// unknown or ambiguous symbols map to 4 (N).
func SymbolToDigit(c byte) byte { return symbolDigit[c] }

// DigitToSymbol maps a digit 0..4 to its canonical uppercase symbol.
// Digits outside 0..4 are a programming error.
func DigitToSymbol(d byte) byte { return digitSymbol[d] }

// Canonical returns the canonical form of a symbol: uppercase, with
// anything outside the alphabet folded to 'N'.
func Canonical(c byte) byte { return digitSymbol[symbolDigit[c]] }

// IsCanonical reports whether c is one of the five uppercase symbols.
func IsCanonical(c byte) bool {
	switch c {
	case 'A', 'C', 'G', 'T', 'N':
		return true
	}
	return false
}

// Canonicalize rewrites seq in place to canonical symbols and returns it.
func Canonicalize(seq []byte) []byte {
	for i, c := range seq {
		seq[i] = digitSymbol[symbolDigit[c]]
	}
	return seq
}
