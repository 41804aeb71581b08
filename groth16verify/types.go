// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package groth16verify implements wire parsing/validation and
// single-proof Groth16 verification for the verification engine: the
// packed proof wire format, on-curve/subgroup checks, and the pairing
// equation e(A,B)*e(-IC_acc,gamma)*e(-C,delta) = e(alpha,beta).
package groth16verify

import (
	"errors"

	"github.com/luxfi/tetsuo-verify/curve"
)

// Wire layout sizes. The packed record is 1+1+2+4+32+32+256 = 328
// bytes, byte for byte the native tetsuo-core #pragma pack(1) proof
// struct.
const (
	WireSize       = 328
	ProofDataSize  = 256
	AgentPKSize    = 32
	CommitmentSize = 32

	offsetType       = 0
	offsetVersion    = 1
	offsetFlags      = 2
	offsetTimestamp  = 4
	offsetAgentPK    = 8
	offsetCommitment = 40
	offsetProofData  = 72

	WireVersion = 1
)

// ProofType mirrors tetsuo_proof_type_t.
type ProofType uint8

const (
	ProofReputation ProofType = 0
	ProofPayment    ProofType = 1
	ProofInference  ProofType = 2
)

var (
	ErrWrongWireSize    = errors.New("groth16verify: wire proof has the wrong size")
	ErrWrongVersion     = errors.New("groth16verify: unsupported wire version")
	ErrPointInfinity    = errors.New("groth16verify: A or C must not be the point at infinity")
	ErrICLengthMismatch = errors.New("groth16verify: verifying key IC length does not match public input count")
)

// VerifyingKey owns the Groth16 public parameters for one circuit: alpha in
// G1, beta/gamma/delta in G2, and the IC vector of length n_inputs+1. AlphaBeta
// is the precomputed pairing e(alpha, beta), computed once at load time so
// the hot verification path never redoes it.
type VerifyingKey struct {
	Alpha curve.G1
	Beta  curve.G2
	Gamma curve.G2
	Delta curve.G2
	IC    []curve.G1

	AlphaBeta curve.GT
}

// Proof is the parsed, validated form of the wire record: scalar
// fields plus three group elements known to be on-curve and in the
// prime-order subgroup (or infinity, for the fields that permit it).
type Proof struct {
	Type       ProofType
	Timestamp  uint32
	Flags      uint16
	Threshold  uint8 // low byte of Flags, the policy-floor comparand
	AgentPK    [32]byte
	Commitment [32]byte

	A curve.G1
	B curve.G2
	C curve.G1
}
