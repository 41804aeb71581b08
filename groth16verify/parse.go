// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package groth16verify

import (
	"encoding/binary"

	"github.com/luxfi/tetsuo-verify/curve"
)

// Parse decodes a WireSize-byte wire-format proof, running every
// rejection check: wrong version, malformed group elements, points
// outside the curve or prime-order subgroup, and A/C landing on the
// point at infinity. Callers report all of these as one MALFORMED
// result so the rejecting check is never observable externally; the
// specific sentinel error is for internal logging only.
func Parse(wire []byte) (Proof, error) {
	var p Proof

	if len(wire) != WireSize {
		return p, ErrWrongWireSize
	}
	if wire[offsetVersion] != WireVersion {
		return p, ErrWrongVersion
	}

	p.Type = ProofType(wire[offsetType])
	p.Flags = binary.LittleEndian.Uint16(wire[offsetFlags : offsetFlags+2])
	p.Threshold = uint8(p.Flags & 0xFF)
	p.Timestamp = binary.LittleEndian.Uint32(wire[offsetTimestamp : offsetTimestamp+4])

	copy(p.AgentPK[:], wire[offsetAgentPK:offsetAgentPK+AgentPKSize])
	copy(p.Commitment[:], wire[offsetCommitment:offsetCommitment+CommitmentSize])

	data := wire[offsetProofData : offsetProofData+ProofDataSize]

	a, err := curve.DecodeG1(data[0:64])
	if err != nil {
		return p, err
	}
	b, err := curve.DecodeG2(data[64:192])
	if err != nil {
		return p, err
	}
	c, err := curve.DecodeG1(data[192:256])
	if err != nil {
		return p, err
	}

	if curve.IsInfinityG1(a) || curve.IsInfinityG1(c) {
		return p, ErrPointInfinity
	}

	p.A = a
	p.B = b
	p.C = c
	return p, nil
}
