// Package elligator2 maps a 56-byte hash output deterministically onto a
// point of the Ed448 curve, as used by dp9ik's PAK hash derivation
// (authpak_hash in 9front's authpak.c).
//
// elligator2_hash_to_point's body lives outside the retrieved reference
// source (it comes from a crate authpak.rs only calls, never defines), so
// this package implements the standard non-iterative Elligator 2 map
// directly against this curve's Edwards equation rather than porting an
// unavailable original. The map goes through the curve's birational
// Montgomery form B*v^2 = u^3 + A*u^2 + u (A = 2(1+d)/(1-d), B = 4/(1-d),
// derived by substituting x=u/v, y=(u-1)/(u+1) into the Edwards equation),
// picks whichever of the two canonical Elligator 2 candidates for u lands
// on the curve, and converts back to affine Edwards coordinates. Every
// step is a direct field computation; there is no retry or iteration, and
// the three-way branch below (ND zero, ND square, ND non-square) is
// the whole of the map, matching the curve's "every input lands on the
// curve" property (property-tested).
package elligator2

import (
	"math/big"

	"github.com/lawless-m/Enoch/internal/curve"
	"github.com/lawless-m/Enoch/internal/modfield"
)

// N is the fixed smallest quadratic non-residue mod P for this curve.
var N = modfield.Elt(7)

// montA, montB are the Montgomery-form coefficients of the curve's
// birational equivalent B*v^2 = u^3 + A*u^2 + u: A = 2*(a+d)/(a-d),
// B = 4/(a-d), with this curve's a=1 (curve.A) and d (curve.D).
var (
	montA = func() *big.Int {
		num := modfield.Add(curve.A, curve.D)
		den := modfield.Sub(curve.A, curve.D)
		return modfield.Mul(modfield.Elt(2), modfield.Mul(num, modfield.Inv(den)))
	}()
	montB = func() *big.Int {
		den := modfield.Sub(curve.A, curve.D)
		return modfield.Mul(modfield.Elt(4), modfield.Inv(den))
	}()
)

// montgomeryRHS returns u^3 + A*u^2 + u, the Montgomery curve's right-hand
// side at u.
func montgomeryRHS(u *big.Int) *big.Int {
	u2 := modfield.Mul(u, u)
	u3 := modfield.Mul(u2, u)
	return modfield.Add(modfield.Add(u3, modfield.Mul(montA, u2)), u)
}

// HashToPoint deterministically maps a 56-byte hash to a point on the
// curve in a single pass: no candidate is ever retried.
func HashToPoint(hash [56]byte) curve.Point {
	one := big.NewInt(1)
	r0 := modfield.FromBytes(hash[:])
	if r0.Sign() == 0 {
		return curve.Identity()
	}

	// D_val is the denominator of the first Elligator 2 candidate for u;
	// it vanishes only for the rare r0 with N*r0^2 = -1, which this map
	// treats as a degenerate input and sends to the identity, same as the
	// r0 = 0 case above.
	s := modfield.Mul(N, modfield.Mul(r0, r0))
	dVal := modfield.Add(one, s)
	if dVal.Sign() == 0 {
		return curve.Identity()
	}

	u0 := modfield.Neg(modfield.Mul(montA, modfield.Inv(dVal)))
	nVal := montgomeryRHS(u0)
	ndVal := modfield.Mul(montB, nVal)

	var u, v *big.Int
	switch {
	case ndVal.Sign() == 0:
		// u0 is itself a root of the Montgomery curve's 2-torsion; v=0 and
		// the birational map's affine formula for x has no value there, so
		// fall back to the identity, same convention as the r0=0 case.
		return curve.Identity()
	case modfield.IsSquare(ndVal):
		c, _ := modfield.Sqrt(ndVal)
		u = u0
		v = modfield.Mul(c, modfield.Inv(montB))
	default:
		// Exactly one of g(u0) and g(-A-u0) is square on this curve (the
		// product of their B-scaled values is always a non-residue), so
		// with ndVal non-square here, ndE is guaranteed square.
		e := modfield.Sub(modfield.Neg(montA), u0)
		ndE := modfield.Mul(montB, montgomeryRHS(e))
		c, ok := modfield.Sqrt(ndE)
		if !ok {
			return curve.Identity()
		}
		u = e
		v = modfield.Mul(c, modfield.Inv(montB))
	}

	y := modfield.Mul(modfield.Sub(u, one), modfield.Inv(modfield.Add(u, one)))
	x := modfield.Mul(u, modfield.Inv(v))
	return curve.FromAffine(x, y)
}
