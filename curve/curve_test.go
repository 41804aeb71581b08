// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package curve

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254"
)

func generators() (bn254.G1Affine, bn254.G2Affine) {
	_, _, g1, g2 := bn254.Generators()
	return g1, g2
}

func TestG1EncodeDecodeRoundTrip(t *testing.T) {
	g1, _ := generators()
	enc := EncodeG1(g1)
	dec, err := DecodeG1(enc[:])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !dec.Equal(&g1) {
		t.Fatalf("round trip mismatch")
	}
}

func TestG2EncodeDecodeRoundTrip(t *testing.T) {
	_, g2 := generators()
	enc := EncodeG2(g2)
	dec, err := DecodeG2(enc[:])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !dec.Equal(&g2) {
		t.Fatalf("round trip mismatch")
	}
}

func TestInfinityRoundTrips(t *testing.T) {
	inf := InfinityG1()
	enc := EncodeG1(inf)
	dec, err := DecodeG1(enc[:])
	if err != nil {
		t.Fatalf("decode infinity: %v", err)
	}
	if !IsInfinityG1(dec) {
		t.Fatalf("decoded infinity is not infinity")
	}
}

func TestDecodeG1RejectsOffCurvePoint(t *testing.T) {
	g1, _ := generators()
	enc := EncodeG1(g1)
	enc[63] ^= 0x01 // perturb y
	if _, err := DecodeG1(enc[:]); err == nil {
		t.Fatalf("expected rejection of off-curve point")
	}
}

func TestDecodeG1RejectsWrongLength(t *testing.T) {
	if _, err := DecodeG1(make([]byte, 63)); err != ErrWrongLength {
		t.Fatalf("expected ErrWrongLength, got %v", err)
	}
}

func TestPairingBilinearity(t *testing.T) {
	g1, g2 := generators()
	two := ScalarMulG1(g1, big.NewInt(2))

	lhs, err := Pair(two, g2)
	if err != nil {
		t.Fatalf("pair: %v", err)
	}
	single, err := Pair(g1, g2)
	if err != nil {
		t.Fatalf("pair: %v", err)
	}
	var rhs GT
	rhs.Square(&single)

	if !lhs.Equal(&rhs) {
		t.Fatalf("e(2P, Q) != e(P, Q)^2")
	}
}

func TestMultiPairingCheckOnBalancedEquation(t *testing.T) {
	g1, g2 := generators()
	neg := NegG1(g1)
	ok, err := MultiPairingCheck([]G1{g1, neg}, []G2{g2, g2})
	if err != nil {
		t.Fatalf("multi pairing check: %v", err)
	}
	if !ok {
		t.Fatalf("e(P,Q).e(-P,Q) should equal 1")
	}
}
