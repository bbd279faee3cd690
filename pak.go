package enoch

import (
	"crypto/sha1"
	"crypto/sha256"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"

	"github.com/lawless-m/Enoch/internal/curve"
	"github.com/lawless-m/Enoch/internal/decaf"
	"github.com/lawless-m/Enoch/internal/elligator2"
	"github.com/lawless-m/Enoch/internal/modfield"
)

// pak implements dp9ik's SPAKE2-EE password-authenticated key exchange over
// Ed448-Goldilocks, grounded on 9front's authpak.c.

// Field widths from authsrv.h.
const (
	paksLen    = 56          // field element size (448 bits / 8)
	pakYLen    = 56          // Decaf-encoded point size
	pakXLen    = 56          // private scalar size
	pakKeyLen  = 32          // derived ticket-encryption key size
	pakPLen    = 4 * paksLen // extended point (X,Y,Z,T) = 224 bytes
	pakHashLen = 2 * pakPLen // PM and PN points = 448 bytes
)

// PakPriv holds one side's ephemeral PAK exchange state.
type PakPriv struct {
	X        [pakXLen]byte // private scalar, big-endian
	Y        [pakYLen]byte // public value, Decaf encoded
	IsClient bool
}

// encodeExtendedPoint writes p's four field coordinates as 4*56 big-endian
// bytes, used to store the PM/PN blinding points inside a PAK hash.
func encodeExtendedPoint(p curve.Point, dest []byte) {
	copy(dest[0*paksLen:1*paksLen], modfield.ToBytes(p.X, paksLen))
	copy(dest[1*paksLen:2*paksLen], modfield.ToBytes(p.Y, paksLen))
	copy(dest[2*paksLen:3*paksLen], modfield.ToBytes(p.Z, paksLen))
	copy(dest[3*paksLen:4*paksLen], modfield.ToBytes(p.T, paksLen))
}

// decodeExtendedPoint is the inverse of encodeExtendedPoint.
func decodeExtendedPoint(src []byte) curve.Point {
	return curve.Point{
		X: modfield.FromBytes(src[0*paksLen : 1*paksLen]),
		Y: modfield.FromBytes(src[1*paksLen : 2*paksLen]),
		Z: modfield.FromBytes(src[2*paksLen : 3*paksLen]),
		T: modfield.FromBytes(src[3*paksLen : 4*paksLen]),
	}
}

// generateRandomScalar returns a uniformly random scalar in [1, Q), drawing
// raw bytes from rng.
func generateRandomScalar(rng io.Reader) (*big.Int, error) {
	for {
		buf := make([]byte, paksLen)
		if _, err := io.ReadFull(rng, buf); err != nil {
			return nil, err
		}
		s := new(big.Int).SetBytes(buf)
		s.Mod(s, modfield.Q)
		if s.Sign() != 0 {
			return s, nil
		}
	}
}

// authpakHash derives the pair of PAK blinding points (PM, PN) from a
// password and username:
//
//  1. aesKey = PBKDF2-HMAC-SHA1(password, "Plan 9 key derivation", 9001, 16)
//  2. h = HKDF-SHA256(ikm=aesKey, salt=SHA256(username), info="Plan 9 AuthPAK hash", len=112)
//  3. PM = Elligator2(h[0:56]), PN = Elligator2(h[56:112])
func authpakHash(password, username string) ([pakHashLen]byte, error) {
	aesKey := pbkdf2.Key([]byte(password), []byte("Plan 9 key derivation"), 9001, 16, sha1.New)

	usernameSalt := sha256.Sum256([]byte(username))
	hk := hkdf.New(sha256.New, aesKey, usernameSalt[:], []byte("Plan 9 AuthPAK hash"))
	h := make([]byte, 2*paksLen)
	if _, err := io.ReadFull(hk, h); err != nil {
		return [pakHashLen]byte{}, err
	}

	var hm, hn [56]byte
	copy(hm[:], h[:paksLen])
	copy(hn[:], h[paksLen:])

	pm := elligator2.HashToPoint(hm)
	pn := elligator2.HashToPoint(hn)

	var out [pakHashLen]byte
	encodeExtendedPoint(pm, out[:pakPLen])
	encodeExtendedPoint(pn, out[pakPLen:])
	return out, nil
}

// authpakNew generates a fresh PAK exchange value Y = x*G + blind, where the
// blinding point is PM for the client and PN for the server. rng supplies
// the private scalar; pass crypto/rand.Reader absent a reason to inject
// another source.
func authpakNew(rng io.Reader, pakHash [pakHashLen]byte, isClient bool) (PakPriv, error) {
	offset := 0
	if !isClient {
		offset = pakPLen
	}
	blind := decodeExtendedPoint(pakHash[offset : offset+pakPLen])

	xScalar, err := generateRandomScalar(rng)
	if err != nil {
		return PakPriv{}, err
	}

	g := curve.Generator()
	xG := curve.ScalarMult(xScalar, g)
	y := curve.Add(xG, blind)

	var priv PakPriv
	copy(priv.X[:], modfield.ToBytes(xScalar, pakXLen))
	copy(priv.Y[:], decaf.Encode(y))
	priv.IsClient = isClient
	return priv, nil
}

// authpakFinish completes the exchange and derives the shared PAK key:
//
//	Z = x * (peerY - peerBlind)
//	pakKey = HKDF-SHA256(ikm=Z, salt=SHA256(clientY||serverY), info="Plan 9 AuthPAK key", len=32)
func authpakFinish(priv PakPriv, pakHash [pakHashLen]byte, peerY [pakYLen]byte) ([pakKeyLen]byte, error) {
	offset := pakPLen
	if !priv.IsClient {
		offset = 0
	}
	peerBlind := decodeExtendedPoint(pakHash[offset : offset+pakPLen])

	peerPoint, ok := decaf.Decode(peerY[:])
	if !ok {
		return [pakKeyLen]byte{}, &InputError{Reason: "peer PAK value is not a valid Decaf encoding"}
	}

	unblinded := curve.Sub(peerPoint, peerBlind)
	xScalar := new(big.Int).SetBytes(priv.X[:])
	z := curve.ScalarMult(xScalar, unblinded)
	zBytes := decaf.Encode(z)
	defer clear(zBytes)

	var yConcat [2 * pakYLen]byte
	if priv.IsClient {
		copy(yConcat[:pakYLen], priv.Y[:])
		copy(yConcat[pakYLen:], peerY[:])
	} else {
		copy(yConcat[:pakYLen], peerY[:])
		copy(yConcat[pakYLen:], priv.Y[:])
	}
	salt := sha256.Sum256(yConcat[:])

	hk := hkdf.New(sha256.New, zBytes, salt[:], []byte("Plan 9 AuthPAK key"))
	var pakKey [pakKeyLen]byte
	if _, err := io.ReadFull(hk, pakKey[:]); err != nil {
		return [pakKeyLen]byte{}, err
	}
	return pakKey, nil
}
