// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package reputation layers agent-trust semantics over the verification
// engine: capability tiers derived from reputation scores, score
// commitments an agent can register publicly, and a verify helper that
// binds a proof to an expected commitment and threshold before handing
// it to the Groth16 check. Scores live in [0, 10000].
package reputation

import (
	"crypto/subtle"
	"errors"

	"github.com/luxfi/tetsuo-verify/engine"
	"github.com/luxfi/tetsuo-verify/groth16verify"
	"github.com/luxfi/tetsuo-verify/poseidon"
)

// MaxScore is the upper bound of the reputation scale.
const MaxScore = 10000

// Tier is an agent capability level.
type Tier uint8

const (
	TierUnverified Tier = iota
	TierBronze
	TierSilver
	TierGold
	TierPlatinum
)

// Tier thresholds, out of MaxScore.
const (
	ThresholdBronze   = 2500
	ThresholdSilver   = 5000
	ThresholdGold     = 7500
	ThresholdPlatinum = 9000
)

var (
	ErrInvalidScore       = errors.New("reputation: score outside [0, 10000]")
	ErrInvalidThreshold   = errors.New("reputation: threshold outside [0, 10000]")
	ErrCommitmentMismatch = errors.New("reputation: proof commitment does not match expected commitment")
)

func (t Tier) String() string {
	switch t {
	case TierBronze:
		return "bronze"
	case TierSilver:
		return "silver"
	case TierGold:
		return "gold"
	case TierPlatinum:
		return "platinum"
	default:
		return "unverified"
	}
}

// TierOf returns the highest tier the given score (or proven threshold)
// qualifies for.
func TierOf(score uint16) Tier {
	switch {
	case score >= ThresholdPlatinum:
		return TierPlatinum
	case score >= ThresholdGold:
		return TierGold
	case score >= ThresholdSilver:
		return TierSilver
	case score >= ThresholdBronze:
		return TierBronze
	default:
		return TierUnverified
	}
}

// TierThreshold returns the minimum score for a tier; TierUnverified is 0.
func TierThreshold(t Tier) uint16 {
	switch t {
	case TierBronze:
		return ThresholdBronze
	case TierSilver:
		return ThresholdSilver
	case TierGold:
		return ThresholdGold
	case TierPlatinum:
		return ThresholdPlatinum
	default:
		return 0
	}
}

// Qualifies reports whether score reaches tier.
func Qualifies(score uint16, tier Tier) bool {
	return score <= MaxScore && score >= TierThreshold(tier)
}

// Commit computes the Poseidon commitment an agent registers publicly:
// Poseidon(score, secret). The score and secret stay private with the
// agent; only the 32-byte commitment is shared.
func Commit(score uint16, secret [32]byte) ([32]byte, error) {
	if score > MaxScore {
		return [32]byte{}, ErrInvalidScore
	}
	return poseidon.Commitment(score, secret), nil
}

// Verify checks a wire proof against ctx after binding it to the
// commitment the verifier already knows for this agent: the proof's
// embedded commitment must match expected byte for byte (compared in
// constant time) and its proven threshold must reach the floor the
// verifier demands. Only then does the Groth16 check run.
func Verify(ctx *engine.Context, wire []byte, expected [32]byte, threshold uint16) (groth16verify.Result, error) {
	if threshold > MaxScore {
		return groth16verify.ResultInvalidParam, ErrInvalidThreshold
	}

	p, err := groth16verify.Parse(wire)
	if err != nil {
		return groth16verify.ToResult(err), nil
	}

	if subtle.ConstantTimeCompare(p.Commitment[:], expected[:]) != 1 {
		return groth16verify.ResultInvalidProof, ErrCommitmentMismatch
	}
	// Reputation proofs carry the full 0..10000 proven threshold in the
	// wire record's 16-bit flags slot, not just its low byte.
	if p.Flags < threshold {
		return groth16verify.ResultBelowThreshold, nil
	}

	return ctx.VerifyProof(wire), nil
}
