// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package groth16verify

import (
	"encoding/binary"
	"errors"
)

// ErrProofDataTooLarge is returned by EncodeWire when proofData exceeds
// the fixed 256-byte slot in the wire record.
var ErrProofDataTooLarge = errors.New("groth16verify: proof data exceeds wire slot")

// EncodeWire packs a wire-format proof record from its components,
// mirroring the native library's tetsuo_proof_create. threshold fills
// the 16-bit flags slot; policy checks read its low byte, reputation
// proofs the full 0..10000 value. proofData shorter than the 256-byte
// slot is zero-padded on the right; longer input is rejected rather
// than truncated.
func EncodeWire(typ ProofType, threshold uint16, timestamp uint32, agentPK, commitment [32]byte, proofData []byte) ([]byte, error) {
	if len(proofData) > ProofDataSize {
		return nil, ErrProofDataTooLarge
	}

	wire := make([]byte, WireSize)
	wire[offsetType] = byte(typ)
	wire[offsetVersion] = WireVersion
	binary.LittleEndian.PutUint16(wire[offsetFlags:], threshold)
	binary.LittleEndian.PutUint32(wire[offsetTimestamp:], timestamp)
	copy(wire[offsetAgentPK:], agentPK[:])
	copy(wire[offsetCommitment:], commitment[:])
	copy(wire[offsetProofData:], proofData)
	return wire, nil
}
