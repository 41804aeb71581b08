// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package curve

import (
	"crypto/subtle"
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bn254"
)

func subtleConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// ErrPairingFailed is returned when the underlying pairing backend
// reports an error distinct from "check did not hold" (e.g. a malformed
// internal point slipped past the on-curve/subgroup gate).
var ErrPairingFailed = errors.New("curve: pairing evaluation failed")

// Pair computes the optimal-ate pairing e(P, Q).
func Pair(p G1, q G2) (GT, error) {
	gt, err := bn254.Pair([]bn254.G1Affine{p}, []bn254.G2Affine{q})
	if err != nil {
		return gt, ErrPairingFailed
	}
	return gt, nil
}

// PairMulti runs a single Miller loop interleaving every (P_i, Q_i) pair
// followed by one final exponentiation, returning the product
// prod_i e(P_i, Q_i) as one GT element. This is the multi-Miller-loop,
// single-final-exponentiation optimization exposed as a value rather
// than a boolean check, for callers (like the Groth16 single-proof
// verifier) that compare the product against a precomputed GT value
// instead of testing for the identity.
func PairMulti(ps []G1, qs []G2) (GT, error) {
	var zero GT
	if len(ps) != len(qs) {
		return zero, errors.New("curve: PairMulti point count mismatch")
	}
	if len(ps) == 0 {
		return zero, errors.New("curve: PairMulti called with no pairs")
	}
	gt, err := bn254.Pair(ps, qs)
	if err != nil {
		return zero, ErrPairingFailed
	}
	return gt, nil
}

// GTEqual reports whether a and b are the same GT element, comparing
// their serialized form in constant time.
func GTEqual(a, b GT) bool {
	ab := a.Bytes()
	bb := b.Bytes()
	return subtleConstantTimeCompare(ab[:], bb[:])
}

// MultiPairingCheck evaluates a single Miller loop over every (P_i, Q_i)
// pair followed by one final exponentiation, and reports whether the
// product equals the identity of GT: n pairings share one final
// exponentiation instead of paying for n of them.
//
// The Groth16 verification equation
//
//	e(A, B) . e(-IC_acc, gamma) . e(-C, delta) = e(alpha, beta)
//
// can be checked in this form by negating one side of the equality
// (e(-alpha, beta) is the group inverse of e(alpha, beta)) and testing
// whether the four-pairing product is 1 (the batch verifier uses this
// form; the single-proof verifier compares a PairMulti product against
// the precomputed e(alpha, beta) instead):
//
//	e(A, B) . e(-IC_acc, gamma) . e(-C, delta) . e(-alpha, beta) == 1
func MultiPairingCheck(ps []G1, qs []G2) (bool, error) {
	if len(ps) != len(qs) {
		return false, errors.New("curve: MultiPairingCheck point count mismatch")
	}
	if len(ps) == 0 {
		return false, errors.New("curve: MultiPairingCheck called with no pairs")
	}
	ok, err := bn254.PairingCheck(ps, qs)
	if err != nil {
		return false, ErrPairingFailed
	}
	return ok, nil
}
