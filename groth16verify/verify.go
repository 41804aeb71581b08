// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package groth16verify

import (
	"errors"
	"math/big"

	"github.com/luxfi/tetsuo-verify/curve"
	"github.com/luxfi/tetsuo-verify/field"
	"github.com/luxfi/tetsuo-verify/poseidon"
)

// ErrInvalidProof is returned when the pairing equation does not hold.
var ErrInvalidProof = errors.New("groth16verify: pairing equation does not hold")

// PublicInput computes the single public input this engine's circuit
// takes: Poseidon(Poseidon(agent_pk, commitment), threshold).
func PublicInput(agentPK, commitment [32]byte, threshold uint8) field.Element {
	pk := field.FromBytes(agentPK[:])
	cm := field.FromBytes(commitment[:])

	var thresholdBytes [32]byte
	thresholdBytes[31] = threshold
	th := field.FromBytes(thresholdBytes[:])

	// The sponge absorbs at most two lanes per permutation; the third
	// input is folded in by hashing pairwise: combine pk and commitment
	// first, then fold in the threshold.
	folded := poseidon.Hash(pk, cm)
	return poseidon.Hash(folded, th)
}

// Verify checks the Groth16 verification equation for a single parsed
// proof against vk and the single public input x:
//
//	e(A, B) . e(-IC_acc, gamma) . e(-C, delta) = e(alpha, beta)
//
// where IC_acc = IC[0] + x*IC[1]. len(vk.IC) must equal 2 (one public
// input); any other length is ErrICLengthMismatch.
func Verify(vk *VerifyingKey, p *Proof, x field.Element) error {
	if len(vk.IC) != 2 {
		return ErrICLengthMismatch
	}

	xBytes := field.ToBytes(x)
	xBig := new(big.Int).SetBytes(xBytes[:])
	icAcc := curve.AddG1(vk.IC[0], curve.ScalarMulG1(vk.IC[1], xBig))

	ps := []curve.G1{p.A, curve.NegG1(icAcc), curve.NegG1(p.C)}
	qs := []curve.G2{p.B, vk.Gamma, vk.Delta}

	left, err := curve.PairMulti(ps, qs)
	if err != nil {
		return err
	}
	if !curve.GTEqual(left, vk.AlphaBeta) {
		return ErrInvalidProof
	}
	return nil
}
