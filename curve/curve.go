// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package curve wraps gnark-crypto's BN254 G1/G2/GT group implementation
// with the operation surface and wire format this engine's verifier
// needs: on-curve and subgroup checks, uncompressed big-endian point
// encoding (not gnark's own compressed serialization), and multi-pairing
// batching.
package curve

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/luxfi/tetsuo-verify/field"
)

// G1 and G2 alias the underlying affine point types; GT is the pairing
// target group element. These are plain type aliases, so every method
// of the bn254 types (including GT arithmetic) stays reachable; this
// package adds no GT arithmetic of its own beyond pairing and GTEqual.
type (
	G1 = bn254.G1Affine
	G2 = bn254.G2Affine
	GT = bn254.GT
)

var (
	ErrNotOnCurve    = errors.New("curve: point is not on the curve")
	ErrNotInSubgroup = errors.New("curve: point is not in the prime-order subgroup")
	ErrWrongLength   = errors.New("curve: wire encoding has the wrong length")
)

// G1Size and G2Size are the uncompressed big-endian wire sizes, matching
// the proof wire format (A/C are 64 bytes, B is 128 bytes).
const (
	G1Size = 64
	G2Size = 128
)

// InfinityG1 and InfinityG2 are the neutral elements of each group.
func InfinityG1() G1 {
	var p G1
	p.X.SetZero()
	p.Y.SetZero()
	return p
}

func InfinityG2() G2 {
	var p G2
	p.X.A0.SetZero()
	p.X.A1.SetZero()
	p.Y.A0.SetZero()
	p.Y.A1.SetZero()
	return p
}

// IsInfinityG1 reports whether p is the point at infinity, using the
// all-zero-coordinate convention from the wire format (z == 0 in the
// spec's data model maps to X == Y == 0 in affine form since (0,0) is not
// a solution of y^2 = x^3 + 3).
func IsInfinityG1(p G1) bool {
	return p.X.IsZero() && p.Y.IsZero()
}

func IsInfinityG2(p G2) bool {
	return p.X.IsZero() && p.Y.IsZero()
}

// DecodeG1 parses a 64-byte uncompressed big-endian (x, y) encoding. The
// all-zero encoding decodes to infinity without an on-curve check, since
// infinity does not satisfy the curve equation. Any other value is
// rejected unless it lies on the curve and in the prime-order subgroup.
func DecodeG1(b []byte) (G1, error) {
	var p G1
	if len(b) != G1Size {
		return p, ErrWrongLength
	}
	p.X = field.FromBytes(b[0:32])
	p.Y = field.FromBytes(b[32:64])
	if IsInfinityG1(p) {
		return p, nil
	}
	if !p.IsOnCurve() {
		return p, ErrNotOnCurve
	}
	if !p.IsInSubGroup() {
		return p, ErrNotInSubgroup
	}
	return p, nil
}

// EncodeG1 serializes p as 64 bytes, big-endian (x, y).
func EncodeG1(p G1) [G1Size]byte {
	var out [G1Size]byte
	x := field.ToBytes(p.X)
	y := field.ToBytes(p.Y)
	copy(out[0:32], x[:])
	copy(out[32:64], y[:])
	return out
}

// DecodeG2 parses a 128-byte uncompressed big-endian encoding, laid out
// as x_re || x_im || y_re || y_im per the proof wire format.
func DecodeG2(b []byte) (G2, error) {
	var p G2
	if len(b) != G2Size {
		return p, ErrWrongLength
	}
	p.X.A0 = field.FromBytes(b[0:32])
	p.X.A1 = field.FromBytes(b[32:64])
	p.Y.A0 = field.FromBytes(b[64:96])
	p.Y.A1 = field.FromBytes(b[96:128])
	if IsInfinityG2(p) {
		return p, nil
	}
	if !p.IsOnCurve() {
		return p, ErrNotOnCurve
	}
	if !p.IsInSubGroup() {
		return p, ErrNotInSubgroup
	}
	return p, nil
}

// EncodeG2 serializes p as 128 bytes, big-endian, x_re || x_im || y_re || y_im.
func EncodeG2(p G2) [G2Size]byte {
	var out [G2Size]byte
	xre := field.ToBytes(p.X.A0)
	xim := field.ToBytes(p.X.A1)
	yre := field.ToBytes(p.Y.A0)
	yim := field.ToBytes(p.Y.A1)
	copy(out[0:32], xre[:])
	copy(out[32:64], xim[:])
	copy(out[64:96], yre[:])
	copy(out[96:128], yim[:])
	return out
}

// NegG1 returns the additive inverse of p.
func NegG1(p G1) G1 {
	if IsInfinityG1(p) {
		return p
	}
	var r G1
	r.Neg(&p)
	return r
}

// NegG2 returns the additive inverse of p.
func NegG2(p G2) G2 {
	if IsInfinityG2(p) {
		return p
	}
	var r G2
	r.Neg(&p)
	return r
}

// AddG1 returns a + b.
func AddG1(a, b G1) G1 {
	var r G1
	r.Add(&a, &b)
	return r
}

// ScalarMulG1 returns s*p using gnark-crypto's constant-time scalar
// multiplication. The neutral element maps to itself for any scalar.
func ScalarMulG1(p G1, scalar *big.Int) G1 {
	var r G1
	r.ScalarMultiplication(&p, scalar)
	return r
}

// ScalarMulG1Fr is ScalarMulG1 taking an fr.Element scalar, the natural
// type for batch random coefficients.
func ScalarMulG1Fr(p G1, scalar fr.Element) G1 {
	bi := new(big.Int)
	scalar.BigInt(bi)
	return ScalarMulG1(p, bi)
}

// MultiExpG1 computes the multi-scalar multiplication sum(scalars[i] *
// points[i]) using gnark-crypto's built-in Pippenger-bucket MSM
// implementation, the aggregation step of the batch verifier.
func MultiExpG1(points []G1, scalars []fr.Element) (G1, error) {
	var r G1
	if len(points) != len(scalars) {
		return r, errors.New("curve: MultiExpG1 point/scalar length mismatch")
	}
	if len(points) == 0 {
		return InfinityG1(), nil
	}
	if _, err := r.MultiExp(points, scalars, ecc.MultiExpConfig{}); err != nil {
		return r, err
	}
	return r, nil
}
