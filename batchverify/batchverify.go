// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package batchverify implements batch verification: n Groth16 proofs
// sharing one verifying key are checked with a single random linear
// combination, MSMs over the accumulated IC and C terms, and one
// multi-Miller-loop/final-exponentiation pairing check,
// instead of n independent pairing checks.
//
// The native tetsuo-core library's batch_verify builds the MSM of the
// batch's A-points and then falls through to verifying each proof
// sequentially anyway, so it never actually performs an aggregated
// pairing check — a gap this package does not reproduce. Every call
// here either verifies the full aggregated equation or, for batches too
// small to benefit, verifies each proof individually; it never pretends
// to aggregate and silently skips the check.
package batchverify

import (
	"crypto/rand"
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/luxfi/tetsuo-verify/arena"
	"github.com/luxfi/tetsuo-verify/curve"
	"github.com/luxfi/tetsuo-verify/field"
	"github.com/luxfi/tetsuo-verify/groth16verify"
)

// MinAggregateSize is the smallest batch that is worth aggregating. Below
// this, the fixed cost of sampling randomness and building the combined
// MSM terms outweighs just running the proofs sequentially.
const MinAggregateSize = 4

// MaxBatchSize bounds a single call, matching the native library's fixed
// batch capacity (config.max_proof_age and friends are set once per
// context, but a batch itself is bounded so a single call can't be used
// to exhaust memory).
const MaxBatchSize = 1024

// ErrBatchSizeMismatch is returned when proofs and publicInputs disagree
// in length.
var ErrBatchSizeMismatch = errors.New("batchverify: proofs and public input slices have different lengths")

// ErrBatchTooLarge is returned when a batch exceeds MaxBatchSize.
var ErrBatchTooLarge = errors.New("batchverify: batch exceeds MaxBatchSize")

// ErrBatchEmpty is returned for a zero-length batch.
var ErrBatchEmpty = errors.New("batchverify: batch is empty")

// ErrRNGFailed is returned when the OS random source fails while sampling
// the batch's linear-combination coefficients. An RNG failure is fatal
// to the whole batch: never silently substitute a
// deterministic or zero coefficient, since that would let a forged proof
// cancel out of the combination.
var ErrRNGFailed = errors.New("batchverify: failed to sample random linear-combination coefficient")

// Policy holds the context-level checks applied to every proof before
// it is allowed anywhere near the pairing equation.
type Policy struct {
	// CurrentTime is the verifier's notion of "now", in the same epoch
	// as Proof.Timestamp.
	CurrentTime uint32
	// MaxProofAge is the maximum CurrentTime-Timestamp delta a proof may
	// have. Zero disables the age check.
	MaxProofAge uint32
	// MinThreshold is the minimum reputation/payment threshold a proof
	// must assert to pass.
	MinThreshold uint8
}

// Check applies the policy to a single proof, returning the specific
// failure code so callers can report it without running the expensive
// pairing check at all. The expiry check only applies once the caller
// has set a nonzero CurrentTime; a context that never calls SetTime
// accepts proofs of any age.
func (p Policy) Check(proof *groth16verify.Proof) groth16verify.Result {
	if p.CurrentTime > 0 && p.MaxProofAge != 0 &&
		uint64(proof.Timestamp)+uint64(p.MaxProofAge) < uint64(p.CurrentTime) {
		return groth16verify.ResultExpired
	}
	if proof.Threshold < p.MinThreshold {
		return groth16verify.ResultBelowThreshold
	}
	return groth16verify.ResultOK
}

// sampleScalar draws a 128-bit random scalar (the upper 16 bytes of a
// 32-byte big-endian buffer left zero): 128 bits of entropy is enough
// to make an adversarial proof's
// contribution cancel out of the combination with negligible
// probability, while keeping the scalar multiplications for the
// per-proof A terms cheap.
func sampleScalar() (fr.Element, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[16:]); err != nil {
		var zero fr.Element
		return zero, ErrRNGFailed
	}
	var s fr.Element
	s.SetBytes(buf[:])
	for i := range buf {
		buf[i] = 0
	}
	return s, nil
}

// Verify checks a batch of proofs that all share vk, applying policy to
// each proof first and only running the (aggregated or sequential)
// pairing check against the proofs that pass policy. The returned slice
// has one Result per input proof, in the same order, including
// policy-failed entries.
func Verify(vk *groth16verify.VerifyingKey, policy Policy, proofs []*groth16verify.Proof, publicInputs []field.Element) ([]groth16verify.Result, error) {
	n := len(proofs)
	if n != len(publicInputs) {
		return nil, ErrBatchSizeMismatch
	}
	if n == 0 {
		return nil, ErrBatchEmpty
	}
	if n > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}

	results := make([]groth16verify.Result, n)
	active := make([]int, 0, n)
	for i, p := range proofs {
		if r := policy.Check(p); r != groth16verify.ResultOK {
			results[i] = r
			continue
		}
		active = append(active, i)
	}

	if len(active) == 0 {
		return results, nil
	}

	if len(active) < MinAggregateSize {
		verifySequential(vk, proofs, publicInputs, active, results)
		return results, nil
	}

	ok, err := verifyAggregate(vk, proofs, publicInputs, active)
	if err != nil {
		return nil, err
	}
	if ok {
		for _, i := range active {
			results[i] = groth16verify.ResultOK
		}
		return results, nil
	}

	// The aggregated check only proves "the whole batch is not
	// uniformly valid"; fall back to checking each active proof on its
	// own so the caller learns exactly which ones failed, the same
	// per-proof result isolation required of the n<MinAggregateSize path.
	verifySequential(vk, proofs, publicInputs, active, results)
	return results, nil
}

func verifySequential(vk *groth16verify.VerifyingKey, proofs []*groth16verify.Proof, publicInputs []field.Element, active []int, results []groth16verify.Result) {
	for _, i := range active {
		err := groth16verify.Verify(vk, proofs[i], publicInputs[i])
		results[i] = groth16verify.ToResult(err)
	}
}

// verifyAggregate builds the combined equation over every active proof:
//
//	prod_i e(r_i*A_i, B_i) . e(-(Sum r_i)*IC0 - (Sum r_i*x_i)*IC1, gamma) .
//	    e(-(Sum r_i*C_i), delta) . e(-(Sum r_i)*alpha, beta) == 1
//
// which is the per-proof equation
//
//	e(A_i,B_i).e(-IC_acc_i,gamma).e(-C_i,delta).e(-alpha,beta) == 1
//
// raised to the random power r_i and multiplied together. Because IC0
// and IC1 are the same across every proof (one shared verifying key),
// the IC term collapses from n scalar multiplications into a 2-point
// MSM regardless of batch size; the C terms are folded by an n-point
// MSM into one pairing slot, while each A_i still needs its own scalar
// multiplication and pairing slot. All n+3 pairings share a single
// Miller loop and final exponentiation.
func verifyAggregate(vk *groth16verify.VerifyingKey, proofs []*groth16verify.Proof, publicInputs []field.Element, active []int) (bool, error) {
	if len(vk.IC) != 2 {
		return false, groth16verify.ErrICLengthMismatch
	}

	n := len(active)

	// All per-batch accumulator storage comes from this worker's
	// scratch arena; Release resets it once the pairing check is done.
	scratch := arena.AcquireScratch()
	defer arena.ReleaseScratch(scratch)

	coeffs := arena.Slice[fr.Element](scratch, n)
	defer func() {
		for i := range coeffs {
			coeffs[i].SetZero()
		}
	}()
	for i := range coeffs {
		r, err := sampleScalar()
		if err != nil {
			return false, err
		}
		coeffs[i] = r
	}

	var sumR, sumRX fr.Element
	cPoints := arena.Slice[curve.G1](scratch, n)
	scaledA := arena.Slice[curve.G1](scratch, n)
	bPoints := arena.Slice[curve.G2](scratch, n)

	for k, i := range active {
		r := coeffs[k]

		xBytes := field.ToBytes(publicInputs[i])
		var xFr fr.Element
		xFr.SetBytes(xBytes[:])

		var rx fr.Element
		rx.Mul(&r, &xFr)

		sumR.Add(&sumR, &r)
		sumRX.Add(&sumRX, &rx)

		cPoints[k] = proofs[i].C
		scaledA[k] = curve.ScalarMulG1Fr(proofs[i].A, r)
		bPoints[k] = proofs[i].B
	}

	icAcc, err := curve.MultiExpG1([]curve.G1{vk.IC[0], vk.IC[1]}, []fr.Element{sumR, sumRX})
	if err != nil {
		return false, err
	}

	cAcc, err := curve.MultiExpG1(cPoints, coeffs)
	if err != nil {
		return false, err
	}

	alphaAcc := curve.ScalarMulG1Fr(vk.Alpha, sumR)

	ps := arena.Slice[curve.G1](scratch, n+3)
	qs := arena.Slice[curve.G2](scratch, n+3)
	copy(ps, scaledA)
	copy(qs, bPoints)
	ps[n], ps[n+1], ps[n+2] = curve.NegG1(icAcc), curve.NegG1(cAcc), curve.NegG1(alphaAcc)
	qs[n], qs[n+1], qs[n+2] = vk.Gamma, vk.Delta, vk.Beta

	return curve.MultiPairingCheck(ps, qs)
}
