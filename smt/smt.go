// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package smt implements sparse Merkle tree exclusion-proof
// verification: walking a leaf up to a root through a sequence of
// direction-tagged sibling hashes, folding with Poseidon at each level.
package smt

import (
	"crypto/subtle"
	"errors"

	"github.com/luxfi/tetsuo-verify/poseidon"
)

// levelSize is one (direction byte, 32-byte sibling) path entry.
const levelSize = 33

// MaxDepth bounds the tree depth a single proof may claim, matching the
// original library's fixed bound of 256 levels.
const MaxDepth = 256

// MinProofLen and MaxProofLen bound the raw exclusion-proof byte slice:
// a depth-0 proof is 32 bytes (leaf must equal root directly), up to
// MaxDepth levels of 33 bytes each.
const (
	MinProofLen = 32
	MaxProofLen = MinProofLen + MaxDepth*levelSize
)

var (
	// ErrProofLength is returned when the proof byte slice falls outside
	// [MinProofLen, MaxProofLen].
	ErrProofLength = errors.New("smt: exclusion proof length out of bounds")
	// ErrBadDirection is returned when a path entry's direction byte is
	// anything other than 0 or 1.
	ErrBadDirection = errors.New("smt: exclusion proof direction byte must be 0 or 1")
)

// VerifyExclusion reports whether leaf, folded up through path against
// the direction/sibling levels encoded in proof, reaches root.
//
// proof starts with depth 33-byte (direction, sibling) pairs; depth is
// derived from len(proof) the same way the original source does,
// depth = (len(proof) - MinProofLen) / levelSize, matching its exact
// length-bound formula. The bytes after the last pair (at least
// MinProofLen of them) are not read. root is compared in constant time
// once the final level is folded.
func VerifyExclusion(root [32]byte, leaf [32]byte, proof []byte) (bool, error) {
	if len(proof) < MinProofLen || len(proof) > MaxProofLen {
		return false, ErrProofLength
	}

	depth := (len(proof) - MinProofLen) / levelSize

	current := leaf
	for i := 0; i < depth; i++ {
		entry := proof[i*levelSize : (i+1)*levelSize]
		direction := entry[0]
		if direction > 1 {
			return false, ErrBadDirection
		}
		var sibling [32]byte
		copy(sibling[:], entry[1:1+32])

		if direction == 0 {
			current = poseidon.HashBytes32(current, sibling)
		} else {
			current = poseidon.HashBytes32(sibling, current)
		}
	}

	return subtle.ConstantTimeCompare(current[:], root[:]) == 1, nil
}
