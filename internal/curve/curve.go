// Package curve implements the Ed448-Goldilocks curve in extended
// twisted-Edwards coordinates, following 9front's dp9ik key exchange.
//
// The curve equation is a*x^2 + y^2 = 1 + d*x^2*y^2 with a=1 and
// d = -39081 mod P. Every Point is a tuple (X, Y, Z, T) representing the
// affine pair (X/Z, Y/Z) subject to X*Y = T*Z. The generator used here is
// Plan 9's own (Gx, Gy=19), which differs from the RFC 8032 Ed448 basepoint
// and must be preserved exactly for interoperability.
package curve

import (
	"math/big"

	"github.com/lawless-m/Enoch/internal/modfield"
)

// A is the curve's "a" coefficient, always 1 for this untwisted Edwards
// form.
var A = big.NewInt(1)

// D is the curve's "d" coefficient, -39081 mod P.
var D = modfield.Sub(modfield.P, big.NewInt(39081))

// Gx, Gy are the coordinates of Plan 9's base point.
var (
	Gx = mustHex("297EA0EA2692FF1B4FAFF46098453A6A26ADF733245F065C3C59D0709CECFA96147EAAF3932D94C63D96C170033F4BA0C7F0DE840AED939F")
	Gy = big.NewInt(19)
)

func mustHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("curve: bad constant " + s)
	}
	return n
}

// Point is a curve point in extended coordinates.
type Point struct {
	X, Y, Z, T *big.Int
}

// Identity returns the neutral element (0, 1, 1, 0).
func Identity() Point {
	return Point{
		X: big.NewInt(0),
		Y: big.NewInt(1),
		Z: big.NewInt(1),
		T: big.NewInt(0),
	}
}

// Generator returns Plan 9's base point in extended coordinates.
func Generator() Point {
	return FromAffine(Gx, Gy)
}

// FromAffine lifts an affine (x, y) pair to extended coordinates.
func FromAffine(x, y *big.Int) Point {
	return Point{
		X: modfield.Reduce(x),
		Y: modfield.Reduce(y),
		Z: big.NewInt(1),
		T: modfield.Mul(x, y),
	}
}

// Affine returns the point's affine (x, y) coordinates.
func (p Point) Affine() (x, y *big.Int) {
	zinv := modfield.Inv(p.Z)
	return modfield.Mul(p.X, zinv), modfield.Mul(p.Y, zinv)
}

// OnCurve reports whether p satisfies a*x^2 + y^2 = 1 + d*x^2*y^2.
func (p Point) OnCurve() bool {
	x, y := p.Affine()
	x2 := modfield.Mul(x, x)
	y2 := modfield.Mul(y, y)
	lhs := modfield.Add(modfield.Mul(A, x2), y2)
	rhs := modfield.Add(big.NewInt(1), modfield.Mul(D, modfield.Mul(x2, y2)))
	return lhs.Cmp(rhs) == 0
}

// Negate returns -P = (-X, Y, Z, -T).
func Negate(p Point) Point {
	return Point{
		X: modfield.Neg(p.X),
		Y: p.Y,
		Z: p.Z,
		T: modfield.Neg(p.T),
	}
}

// Add computes the unified extended twisted-Edwards addition formula. It
// handles doubling correctly as well, so no separate Double is needed.
func Add(p1, p2 Point) Point {
	a := modfield.Mul(p1.X, p2.X)
	b := modfield.Mul(p1.Y, p2.Y)
	c := modfield.Mul(D, modfield.Mul(p1.T, p2.T))
	d := modfield.Mul(p1.Z, p2.Z)
	e := modfield.Sub(modfield.Mul(modfield.Add(p1.X, p1.Y), modfield.Add(p2.X, p2.Y)), modfield.Add(a, b))
	f := modfield.Sub(d, c)
	g := modfield.Add(d, c)
	h := modfield.Sub(b, modfield.Mul(A, a))

	return Point{
		X: modfield.Mul(e, f),
		Y: modfield.Mul(g, h),
		Z: modfield.Mul(f, g),
		T: modfield.Mul(e, h),
	}
}

// Sub computes p1 - p2.
func Sub(p1, p2 Point) Point {
	return Add(p1, Negate(p2))
}

// ScalarMult computes scalar*P using left-to-right double-and-add. This is
// not constant time, and neither is the modfield arithmetic beneath it.
func ScalarMult(scalar *big.Int, p Point) Point {
	result := Identity()
	if scalar.Sign() == 0 {
		return result
	}
	for i := scalar.BitLen() - 1; i >= 0; i-- {
		result = Add(result, result)
		if scalar.Bit(i) == 1 {
			result = Add(result, p)
		}
	}
	return result
}

// Equal reports whether p1 and p2 represent the same affine point.
func Equal(p1, p2 Point) bool {
	l := modfield.Mul(p1.X, p2.Z)
	r := modfield.Mul(p2.X, p1.Z)
	if l.Cmp(r) != 0 {
		return false
	}
	l = modfield.Mul(p1.Y, p2.Z)
	r = modfield.Mul(p2.Y, p1.Z)
	return l.Cmp(r) == 0
}
