// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package smt

import (
	"testing"

	"github.com/luxfi/tetsuo-verify/poseidon"
)

func TestVerifyExclusionDepthZero(t *testing.T) {
	var leaf [32]byte
	leaf[0] = 0x42

	ok, err := VerifyExclusion(leaf, leaf, make([]byte, MinProofLen))
	if err != nil {
		t.Fatalf("VerifyExclusion: %v", err)
	}
	if !ok {
		t.Fatalf("expected depth-0 proof with leaf == root to verify")
	}
}

func TestVerifyExclusionSingleLevel(t *testing.T) {
	var leaf, sibling [32]byte
	leaf[0] = 0x01
	sibling[0] = 0x02

	root := poseidon.HashBytes32(leaf, sibling)

	proof := make([]byte, MinProofLen+levelSize)
	proof[0] = 0 // leaf is the left child
	copy(proof[1:33], sibling[:])

	ok, err := VerifyExclusion(root, leaf, proof)
	if err != nil {
		t.Fatalf("VerifyExclusion: %v", err)
	}
	if !ok {
		t.Fatalf("expected single-level proof to verify against the folded root")
	}
}

func TestVerifyExclusionRightChild(t *testing.T) {
	var leaf, sibling [32]byte
	leaf[0] = 0x01
	sibling[0] = 0x02

	root := poseidon.HashBytes32(sibling, leaf)

	proof := make([]byte, MinProofLen+levelSize)
	proof[0] = 1 // leaf is the right child
	copy(proof[1:33], sibling[:])

	ok, err := VerifyExclusion(root, leaf, proof)
	if err != nil {
		t.Fatalf("VerifyExclusion: %v", err)
	}
	if !ok {
		t.Fatalf("expected right-child proof to verify")
	}

	// Using the wrong direction must not verify, since the fold order
	// changes which side of Poseidon's non-commutative pairing each leaf
	// enters.
	proof[0] = 0
	ok, err = VerifyExclusion(root, leaf, proof)
	if err != nil {
		t.Fatalf("VerifyExclusion: %v", err)
	}
	if ok {
		t.Fatalf("expected wrong-direction proof to fail verification")
	}
}

func TestVerifyExclusionRejectsBadDirection(t *testing.T) {
	var leaf, root [32]byte
	proof := make([]byte, MinProofLen+levelSize)
	proof[0] = 2

	if _, err := VerifyExclusion(root, leaf, proof); err != ErrBadDirection {
		t.Fatalf("expected ErrBadDirection, got %v", err)
	}
}

func TestVerifyExclusionRejectsLengthOutOfBounds(t *testing.T) {
	var leaf, root [32]byte

	if _, err := VerifyExclusion(root, leaf, make([]byte, MinProofLen-1)); err != ErrProofLength {
		t.Fatalf("expected ErrProofLength for too-short proof, got %v", err)
	}
	if _, err := VerifyExclusion(root, leaf, make([]byte, MaxProofLen+1)); err != ErrProofLength {
		t.Fatalf("expected ErrProofLength for too-long proof, got %v", err)
	}
}

func TestVerifyExclusionRejectsMismatchedRoot(t *testing.T) {
	var leaf, sibling, root [32]byte
	leaf[0] = 0x01
	sibling[0] = 0x02
	root[0] = 0xFF // deliberately wrong

	proof := make([]byte, MinProofLen+levelSize)
	proof[0] = 0
	copy(proof[1:33], sibling[:])

	ok, err := VerifyExclusion(root, leaf, proof)
	if err != nil {
		t.Fatalf("VerifyExclusion: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatched root to fail verification")
	}
}
