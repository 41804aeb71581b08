// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package groth16verify

import (
	"encoding/binary"
	"errors"

	"github.com/luxfi/tetsuo-verify/curve"
)

// MaxVKSize bounds a verification key blob.
const MaxVKSize = 1 << 20 // 1 MiB

var (
	ErrVKTooShort = errors.New("groth16verify: verifying key blob too short")
	ErrVKTooLarge = errors.New("groth16verify: verifying key blob exceeds MaxVKSize")
	ErrVKBadICLen = errors.New("groth16verify: verifying key IC length field inconsistent with blob length")
)

// minVKHeaderSize is alpha(64) + beta(128) + gamma(128) + delta(128) + ic_len(4).
const minVKHeaderSize = 64 + 128 + 128 + 128 + 4

// LoadVerifyingKey parses the wire format:
//
//	alpha (64) || beta (128) || gamma (128) || delta (128) ||
//	ic_len (4, LE) || IC[0..ic_len-1] (64 each)
//
// and precomputes e(alpha, beta) so Verify never redoes that pairing on
// the hot path.
func LoadVerifyingKey(blob []byte) (*VerifyingKey, error) {
	if len(blob) < minVKHeaderSize {
		return nil, ErrVKTooShort
	}
	if len(blob) > MaxVKSize {
		return nil, ErrVKTooLarge
	}

	off := 0
	alpha, err := curve.DecodeG1(blob[off : off+64])
	if err != nil {
		return nil, err
	}
	off += 64

	beta, err := curve.DecodeG2(blob[off : off+128])
	if err != nil {
		return nil, err
	}
	off += 128

	gamma, err := curve.DecodeG2(blob[off : off+128])
	if err != nil {
		return nil, err
	}
	off += 128

	delta, err := curve.DecodeG2(blob[off : off+128])
	if err != nil {
		return nil, err
	}
	off += 128

	icLen := binary.LittleEndian.Uint32(blob[off : off+4])
	off += 4

	if len(blob) != off+int(icLen)*64 {
		return nil, ErrVKBadICLen
	}

	ic := make([]curve.G1, icLen)
	for i := 0; i < int(icLen); i++ {
		p, err := curve.DecodeG1(blob[off : off+64])
		if err != nil {
			return nil, err
		}
		ic[i] = p
		off += 64
	}

	alphaBeta, err := curve.Pair(alpha, beta)
	if err != nil {
		return nil, err
	}

	return &VerifyingKey{
		Alpha:     alpha,
		Beta:      beta,
		Gamma:     gamma,
		Delta:     delta,
		IC:        ic,
		AlphaBeta: alphaBeta,
	}, nil
}
