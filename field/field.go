// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package field exposes the BN254 base-field operation surface this
// engine depends on, in terms of gnark-crypto's Montgomery-form
// fp.Element. It adds the batch-inversion and secure-zeroization helpers
// the verifier needs that gnark-crypto does not expose directly.
package field

import (
	"crypto/subtle"

	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
)

// Element is a residue class modulo the BN254 base prime, stored
// internally in Montgomery form by fp.Element. Every Element obtained
// through this package's constructors is canonical (reduced to [0, p)).
type Element = fp.Element

// Zero returns the additive identity.
func Zero() Element {
	var e Element
	e.SetZero()
	return e
}

// One returns the multiplicative identity.
func One() Element {
	var e Element
	e.SetOne()
	return e
}

// Add returns a + b mod p.
func Add(a, b Element) Element {
	var r Element
	r.Add(&a, &b)
	return r
}

// Sub returns a - b mod p.
func Sub(a, b Element) Element {
	var r Element
	r.Sub(&a, &b)
	return r
}

// Mul returns a * b mod p.
func Mul(a, b Element) Element {
	var r Element
	r.Mul(&a, &b)
	return r
}

// Sqr returns a^2 mod p.
func Sqr(a Element) Element {
	var r Element
	r.Square(&a)
	return r
}

// Neg returns -a mod p (0 if a is 0).
func Neg(a Element) Element {
	var r Element
	r.Neg(&a)
	return r
}

// Inv returns a^-1 mod p. The caller must not invoke this with a == 0;
// gnark-crypto's Inverse returns 0 in that case rather than panicking,
// matching "undefined for a = 0, caller must not invoke" by simply never
// producing a usable result.
func Inv(a Element) Element {
	var r Element
	r.Inverse(&a)
	return r
}

// Pow5 returns a^5 mod p, the Poseidon S-box.
func Pow5(a Element) Element {
	sq := Sqr(a)
	q4 := Sqr(sq)
	return Mul(q4, a)
}

// BatchInvert inverts every element of xs in place using Montgomery's
// trick: one field inversion plus 3(n-1) multiplications instead of n
// independent inversions. xs must not contain a zero element. The scratch
// prefix-product buffer is securely zeroed before return.
func BatchInvert(xs []Element) {
	n := len(xs)
	if n == 0 {
		return
	}
	if n == 1 {
		xs[0] = Inv(xs[0])
		return
	}

	prefix := make([]Element, n)
	prefix[0] = xs[0]
	for i := 1; i < n; i++ {
		prefix[i] = Mul(prefix[i-1], xs[i])
	}

	inv := Inv(prefix[n-1])

	for i := n - 1; i > 0; i-- {
		xs[i], inv = Mul(inv, prefix[i-1]), Mul(inv, xs[i])
	}
	xs[0] = inv

	SecureZero(prefix)
}

// Cmp compares a and b as canonical integers, returning -1, 0, or +1.
// The walk over the big-endian bytes is branch-free and touches every
// byte regardless of where the first difference sits.
func Cmp(a, b Element) int {
	ab := a.Bytes()
	bb := b.Bytes()

	gt, lt := 0, 0
	for i := 0; i < len(ab); i++ {
		x, y := int(ab[i]), int(bb[i])
		decided := gt | lt
		gt |= ((y - x) >> 8) & 1 &^ decided
		lt |= ((x - y) >> 8) & 1 &^ decided
	}
	return gt - lt
}

// Eq reports whether a and b represent the same residue, in constant time.
func Eq(a, b Element) bool {
	ab := a.Bytes()
	bb := b.Bytes()
	return subtle.ConstantTimeCompare(ab[:], bb[:]) == 1
}

// IsZero reports whether a is the zero element, in constant time.
func IsZero(a Element) bool {
	return Eq(a, Zero())
}

// FromBytes decodes a 32-byte big-endian encoding into an Element.
// Out-of-range input is reduced modulo p rather than rejected; callers
// that need strict canonical-encoding rejection should compare
// ToBytes(result) against the input.
func FromBytes(b []byte) Element {
	var e Element
	e.SetBytes(b)
	return e
}

// ToBytes encodes e as 32 bytes, big-endian, in standard (non-Montgomery)
// form.
func ToBytes(e Element) [32]byte {
	return e.Bytes()
}

// SecureZero overwrites every element of xs with zero. Elements are plain
// value types (no pointers into secret backing storage survive a copy),
// so zeroing the slice in place is sufficient to remove the values from
// this buffer; callers holding other copies must zero those independently.
func SecureZero(xs []Element) {
	for i := range xs {
		xs[i] = Zero()
	}
}
