package decaf

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/lawless-m/Enoch/internal/curve"
)

func bigFromInt(n int64) *big.Int {
	return big.NewInt(n)
}

func TestEncodeIdentityIsZero(t *testing.T) {
	enc := Encode(curve.Identity())
	for _, b := range enc {
		if b != 0 {
			t.Fatalf("identity should encode to all-zero bytes, got %x", enc)
		}
	}
}

func TestEncodeLength(t *testing.T) {
	enc := Encode(curve.Generator())
	if len(enc) != EncodedLen {
		t.Fatalf("expected %d bytes, got %d", EncodedLen, len(enc))
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	g := curve.Generator()
	a := Encode(g)
	b := Encode(g)
	if !bytes.Equal(a, b) {
		t.Fatalf("Encode should be deterministic for the same point")
	}
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	if _, ok := Decode(make([]byte, 10)); ok {
		t.Fatalf("Decode should reject short input")
	}
}

func TestDecodeRejectsUpperHalf(t *testing.T) {
	// 2^447, with the top bit set and everything else zero, is less than P
	// but greater than (P-1)/2 and so must be rejected as non-canonical.
	b := make([]byte, EncodedLen)
	b[0] = 0x80
	if _, ok := Decode(b); ok {
		t.Fatalf("Decode should reject a non-canonical upper-half scalar")
	}
}

func TestDecodeZeroIsIdentity(t *testing.T) {
	zero := make([]byte, EncodedLen)
	p, ok := Decode(zero)
	if !ok {
		t.Fatalf("Decode should accept the all-zero encoding")
	}
	if !curve.Equal(p, curve.Identity()) {
		t.Fatalf("Decode(0) should be the identity point")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	points := []curve.Point{
		curve.Generator(),
		curve.Negate(curve.Generator()),
		curve.Add(curve.Generator(), curve.Generator()),
		curve.ScalarMult(bigFromInt(12345), curve.Generator()),
	}

	for i, p := range points {
		enc := Encode(p)
		decoded, ok := Decode(enc)
		if !ok {
			t.Fatalf("point %d: Decode rejected an encoding produced by Encode", i)
		}
		reenc := Encode(decoded)
		if !bytes.Equal(enc, reenc) {
			t.Fatalf("point %d: re-encoding decoded point did not reproduce original bytes", i)
		}
	}
}
