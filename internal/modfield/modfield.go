// Package modfield implements arithmetic over the Goldilocks prime
// p = 2^448 - 2^224 - 1, the base field for the Ed448 curve used by dp9ik's
// SPAKE2-EE exchange.
//
// Every element is represented as a non-negative *big.Int in [0, P). None of
// these operations run in constant time; big.Int's algorithms branch on
// their operands, so this package must never be used where operand secrecy
// matters without further hardening. See the repository's open questions.
package modfield

import "math/big"

// P is the Goldilocks prime 2^448 - 2^224 - 1.
var P = mustHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF")

// Q is the order of the Ed448 group used by dp9ik (a 446-bit prime).
var Q = mustHex("3FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF7CCA23E9C44EDB49AED63690216CC2728DC58F552378C292AB5844F3")

// PHalf is (P-1)/2, the boundary used to decide whether a field element
// should be treated as the "negative" representative of its +/- pair.
var PHalf = new(big.Int).Rsh(new(big.Int).Sub(P, big.NewInt(1)), 1)

func mustHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("modfield: bad constant " + s)
	}
	return n
}

// Elt builds a field element from an int64, reduced mod P.
func Elt(v int64) *big.Int {
	return Reduce(big.NewInt(v))
}

// Reduce returns a mod P, always non-negative.
func Reduce(a *big.Int) *big.Int {
	r := new(big.Int).Mod(a, P)
	return r
}

// Add returns (a+b) mod P.
func Add(a, b *big.Int) *big.Int {
	r := new(big.Int).Add(a, b)
	return r.Mod(r, P)
}

// Sub returns (a-b+P) mod P.
func Sub(a, b *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	return r.Mod(r, P)
}

// Neg returns -a mod P.
func Neg(a *big.Int) *big.Int {
	return Sub(big.NewInt(0), a)
}

// Mul returns (a*b) mod P.
func Mul(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, P)
}

// Inv returns the modular inverse of a, computed as a^(P-2) mod P.
// Inv(0) is 0, matching the convention that the zero element has no inverse
// but callers of this package never rely on that case succeeding.
func Inv(a *big.Int) *big.Int {
	exp := new(big.Int).Sub(P, big.NewInt(2))
	return new(big.Int).Exp(a, exp, P)
}

// Legendre returns the Legendre symbol of a: 1 if a is a nonzero QR, P-1
// (representing -1) if a is a non-residue, 0 if a is 0.
func Legendre(a *big.Int) *big.Int {
	if a.Sign() == 0 {
		return big.NewInt(0)
	}
	exp := new(big.Int).Rsh(new(big.Int).Sub(P, big.NewInt(1)), 1)
	return new(big.Int).Exp(a, exp, P)
}

// IsSquare reports whether a is a nonzero quadratic residue mod P.
func IsSquare(a *big.Int) bool {
	return Legendre(a).Cmp(big.NewInt(1)) == 0
}

// IsNegative reports whether x, taken as a representative in [0, P), lies in
// the "negative" half (x > (P-1)/2). This is the sign convention Decaf uses
// to pick a canonical representative.
func IsNegative(x *big.Int) bool {
	return x.Cmp(PHalf) > 0
}

// sqrtExp is (P+1)/4, valid because P ≡ 3 (mod 4).
var sqrtExp = func() *big.Int {
	e := new(big.Int).Add(P, big.NewInt(1))
	return e.Rsh(e, 2)
}()

// isqrtExp is (P-3)/4, valid because P ≡ 3 (mod 4).
var isqrtExp = func() *big.Int {
	e := new(big.Int).Sub(P, big.NewInt(3))
	return e.Rsh(e, 2)
}()

// Sqrt returns a square root of a mod P, or (nil, false) if a is not a
// quadratic residue. P ≡ 3 (mod 4) so the fast path sqrt(a) = a^((P+1)/4)
// applies directly; TonelliShanks below exists as the general fallback but
// is unreachable for this specific prime.
func Sqrt(a *big.Int) (*big.Int, bool) {
	if a.Sign() == 0 {
		return big.NewInt(0), true
	}
	if !IsSquare(a) {
		return nil, false
	}
	r := new(big.Int).Exp(a, sqrtExp, P)
	return r, true
}

// InvSqrt returns 1/sqrt(a) mod P, or (nil, false) if a is not a quadratic
// residue. Uses the P ≡ 3 (mod 4) fast path isqrt(a) = a^((P-3)/4).
func InvSqrt(a *big.Int) (*big.Int, bool) {
	if a.Sign() == 0 {
		return nil, false
	}
	if !IsSquare(a) {
		return nil, false
	}
	r := new(big.Int).Exp(a, isqrtExp, P)
	return r, true
}

// TonelliShanks is the general-purpose modular square root algorithm. It is
// never reached in practice here because P ≡ 3 (mod 4) always satisfies
// Sqrt's fast path, but it is kept as the textbook fallback the spec calls
// for.
func TonelliShanks(a *big.Int) (*big.Int, bool) {
	if a.Sign() == 0 {
		return big.NewInt(0), true
	}
	if !IsSquare(a) {
		return nil, false
	}

	// Factor P-1 = Q_ord * 2^S with Q_ord odd.
	pMinus1 := new(big.Int).Sub(P, big.NewInt(1))
	qOrd := new(big.Int).Set(pMinus1)
	s := 0
	for qOrd.Bit(0) == 0 {
		qOrd.Rsh(qOrd, 1)
		s++
	}
	if s == 1 {
		// P ≡ 3 (mod 4): fast path.
		exp := new(big.Int).Rsh(new(big.Int).Add(P, big.NewInt(1)), 2)
		return new(big.Int).Exp(a, exp, P), true
	}

	// Find a quadratic non-residue z.
	z := big.NewInt(2)
	for IsSquare(z) {
		z.Add(z, big.NewInt(1))
	}

	m := s
	c := new(big.Int).Exp(z, qOrd, P)
	t := new(big.Int).Exp(a, qOrd, P)
	qPlus1Half := new(big.Int).Rsh(new(big.Int).Add(qOrd, big.NewInt(1)), 1)
	r := new(big.Int).Exp(a, qPlus1Half, P)

	one := big.NewInt(1)
	for t.Cmp(one) != 0 {
		i, tt := 0, new(big.Int).Set(t)
		for tt.Cmp(one) != 0 {
			tt = Mul(tt, tt)
			i++
			if i == m {
				return nil, false
			}
		}
		b := new(big.Int).Exp(c, new(big.Int).Lsh(big.NewInt(1), uint(m-i-1)), P)
		m = i
		c = Mul(b, b)
		t = Mul(t, c)
		r = Mul(r, b)
	}
	return r, true
}

// ToBytes encodes a as a big-endian byte string of exactly n bytes.
func ToBytes(a *big.Int, n int) []byte {
	out := make([]byte, n)
	b := a.Bytes()
	if len(b) > n {
		b = b[len(b)-n:]
	}
	copy(out[n-len(b):], b)
	return out
}

// FromBytes decodes a big-endian byte string to a field element, reduced
// mod P.
func FromBytes(b []byte) *big.Int {
	return Reduce(new(big.Int).SetBytes(b))
}
