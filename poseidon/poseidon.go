// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package poseidon exposes the Poseidon(t=3, alpha=5) sponge used by
// this engine for commitments, nullifiers, and the sparse Merkle tree
// exclusion-proof walk.
//
// Parameters are pinned to circomlib's reference instantiation (R_F = 8
// full rounds, R_P = 57 partial rounds, circomlib's Grain-derived round
// constants and MDS matrix) via go-iden3-crypto, the reference Go
// implementation of that parameter set. The native tetsuo-core library
// carried a non-standard 57-round/171-constant "optimized" layout
// attributed to TaceoLabs and demoted its own known-answer test to a
// warning; digests from that layout are not portable to any
// circomlib-based circuit, so this package does not reproduce it. The
// known-answer test here hard-fails against circomlib's published
// vectors.
package poseidon

import (
	"encoding/binary"
	"math/big"

	iden3poseidon "github.com/iden3/go-iden3-crypto/poseidon"

	"github.com/luxfi/tetsuo-verify/field"
)

// Width and round counts of the pinned two-input (t=3) parameter set.
const (
	T  = 3
	RF = 8
	RP = 57
)

// rModulus is the BN254 scalar-field prime the permutation operates
// over. Inputs are reduced into it before absorption, the same view of
// a 32-byte value any circuit over this curve has.
var rModulus, _ = new(big.Int).SetString(
	"21888242871839275222246405745257275088548364400416034343698204186575808495617", 10)

// Hash absorbs one or two field elements and returns the sponge's
// output lane. len(inputs) must be 1 or 2; the remaining lane is the
// capacity and never absorbs input. The reference implementation sizes
// the state to len(inputs)+1, so two inputs run the t=3 permutation and
// a single input runs circomlib's width-2 instance, not the t=3 one.
func Hash(inputs ...field.Element) field.Element {
	if len(inputs) == 0 || len(inputs) > T-1 {
		panic("poseidon: Hash takes 1 or 2 inputs")
	}

	bigs := make([]*big.Int, len(inputs))
	for i := range inputs {
		b := field.ToBytes(inputs[i])
		v := new(big.Int).SetBytes(b[:])
		bigs[i] = v.Mod(v, rModulus)
	}

	out, err := iden3poseidon.Hash(bigs)
	if err != nil {
		// The reference implementation only errors on out-of-range or
		// wrong-arity input; both are excluded above.
		panic("poseidon: " + err.Error())
	}

	var buf [32]byte
	out.FillBytes(buf[:])
	return field.FromBytes(buf[:])
}

// Commitment computes Poseidon(score, secret) serialized big-endian.
func Commitment(score uint16, secret [32]byte) [32]byte {
	var scoreBytes [32]byte
	binary.BigEndian.PutUint16(scoreBytes[30:], score)
	scoreElem := field.FromBytes(scoreBytes[:])
	secretElem := field.FromBytes(secret[:])
	h := Hash(scoreElem, secretElem)
	return field.ToBytes(h)
}

// Nullifier computes Poseidon(agentPK, nonce).
func Nullifier(agentPK field.Element, nonce uint64) field.Element {
	var nonceBytes [32]byte
	binary.BigEndian.PutUint64(nonceBytes[24:], nonce)
	nonceElem := field.FromBytes(nonceBytes[:])
	return Hash(agentPK, nonceElem)
}

// HashBytes32 is a convenience wrapper hashing two 32-byte big-endian
// encodings, used by the sparse Merkle tree walk in package smt.
func HashBytes32(left, right [32]byte) [32]byte {
	l := field.FromBytes(left[:])
	r := field.FromBytes(right[:])
	h := Hash(l, r)
	return field.ToBytes(h)
}
