// core/seqnum/strategy.go
package seqnum

import (
	"fmt"
	"math/big"

	"seqvault-core/alphabet"
)

// Strategy turns symbol strings into big integers and back. The two
// implementations must be interchangeable: identical integers in, identical
// symbols out.
type Strategy interface {
	// Name is the stable identifier recorded in key files.
	Name() string
	// Encode folds the symbols into one positional base-5 integer.
	Encode(seq []byte) *big.Int
	// Symbols emits the natural-length symbol string of n (no padding,
	// most-significant digit first; nil for zero).
	Symbols(n *big.Int) []byte
}

// Digitwise is the portable strategy: one big-integer operation per symbol.
var Digitwise Strategy = digitwise{}

// Limb groups symbols so most of the arithmetic happens in machine words.
// It is the default.
var Limb Strategy = limb{}

// ByName resolves a strategy identifier as stored in a key file.
func ByName(name string) (Strategy, error) {
	switch name {
	case "digitwise":
		return Digitwise, nil
	case "limb", "":
		return Limb, nil
	}
	return nil, fmt.Errorf("seqnum: unknown strategy %q", name)
}

type digitwise struct{}

func (digitwise) Name() string { return "digitwise" }

func (digitwise) Encode(seq []byte) *big.Int {
	n := new(big.Int)
	d := new(big.Int)
	for _, c := range seq {
		n.Mul(n, bigBase)
		n.Add(n, d.SetInt64(int64(alphabet.SymbolToDigit(c))))
	}
	return n
}

func (digitwise) Symbols(n *big.Int) []byte {
	if n.Sign() == 0 {
		return nil
	}
	q := new(big.Int).Set(n)
	r := new(big.Int)
	out := make([]byte, 0, 32)
	for q.Sign() > 0 {
		q.DivMod(q, bigBase, r)
		out = append(out, alphabet.DigitToSymbol(byte(r.Uint64())))
	}
	reverse(out)
	return out
}

// limbWidth is the largest symbol count whose base-5 value still fits a
// uint64: 5^27 < 2^63 <= 5^28.
const limbWidth = 27

// limbBase = 5^27.
const limbBase = 7_450_580_596_923_828_125

var (
	bigBase     = big.NewInt(alphabet.Base)
	bigLimbBase = new(big.Int).SetUint64(limbBase)

	// pow5[g] = 5^g for group sizes up to one limb.
	pow5 [limbWidth + 1]*big.Int
)

func init() {
	p := big.NewInt(1)
	for g := 0; g <= limbWidth; g++ {
		pow5[g] = new(big.Int).Set(p)
		p.Mul(p, bigBase)
	}
}

type limb struct{}

func (limb) Name() string { return "limb" }

func (limb) Encode(seq []byte) *big.Int {
	n := new(big.Int)
	grp := new(big.Int)
	for off := 0; off < len(seq); off += limbWidth {
		end := off + limbWidth
		if end > len(seq) {
			end = len(seq)
		}
		var v uint64
		for _, c := range seq[off:end] {
			v = v*alphabet.Base + uint64(alphabet.SymbolToDigit(c))
		}
		n.Mul(n, pow5[end-off])
		n.Add(n, grp.SetUint64(v))
	}
	return n
}

func (limb) Symbols(n *big.Int) []byte {
	if n.Sign() == 0 {
		return nil
	}
	q := new(big.Int).Set(n)
	r := new(big.Int)
	out := make([]byte, 0, 64)
	for q.Sign() > 0 {
		q.DivMod(q, bigLimbBase, r)
		v := r.Uint64()
		if q.Sign() > 0 {
			// Interior limb: always exactly limbWidth digits.
			for i := 0; i < limbWidth; i++ {
				out = append(out, alphabet.DigitToSymbol(byte(v%alphabet.Base)))
				v /= alphabet.Base
			}
		} else {
			// Most-significant limb: natural digits only.
			for v > 0 {
				out = append(out, alphabet.DigitToSymbol(byte(v%alphabet.Base)))
				v /= alphabet.Base
			}
		}
	}
	reverse(out)
	return out
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
