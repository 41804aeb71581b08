// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package field

import (
	"bytes"
	"testing"
)

const propertySampleSize = 64

func sampleElements(n int) []Element {
	out := make([]Element, n)
	for i := range out {
		var e Element
		e.SetRandom()
		out[i] = e
	}
	return out
}

func TestAddCommutativeAssociative(t *testing.T) {
	xs := sampleElements(propertySampleSize)
	for i := 0; i+2 < len(xs); i += 3 {
		a, b, c := xs[i], xs[i+1], xs[i+2]
		if !Eq(Add(a, b), Add(b, a)) {
			t.Fatalf("add not commutative")
		}
		if !Eq(Add(Add(a, b), c), Add(a, Add(b, c))) {
			t.Fatalf("add not associative")
		}
	}
}

func TestAddIdentityAndInverse(t *testing.T) {
	for _, a := range sampleElements(propertySampleSize) {
		if !Eq(Add(a, Zero()), a) {
			t.Fatalf("0 is not additive identity")
		}
		if !IsZero(Add(a, Neg(a))) {
			t.Fatalf("a + (-a) != 0")
		}
	}
}

func TestMulCommutativeAssociativeDistributive(t *testing.T) {
	xs := sampleElements(propertySampleSize)
	for i := 0; i+2 < len(xs); i += 3 {
		a, b, c := xs[i], xs[i+1], xs[i+2]
		if !Eq(Mul(a, b), Mul(b, a)) {
			t.Fatalf("mul not commutative")
		}
		if !Eq(Mul(Mul(a, b), c), Mul(a, Mul(b, c))) {
			t.Fatalf("mul not associative")
		}
		lhs := Mul(a, Add(b, c))
		rhs := Add(Mul(a, b), Mul(a, c))
		if !Eq(lhs, rhs) {
			t.Fatalf("mul does not distribute over add")
		}
	}
}

func TestMulIdentityAndZero(t *testing.T) {
	for _, a := range sampleElements(propertySampleSize) {
		if !Eq(Mul(a, One()), a) {
			t.Fatalf("1 is not multiplicative identity")
		}
		if !IsZero(Mul(a, Zero())) {
			t.Fatalf("a * 0 != 0")
		}
	}
}

func TestSqrMatchesMul(t *testing.T) {
	for _, a := range sampleElements(propertySampleSize) {
		if !Eq(Sqr(a), Mul(a, a)) {
			t.Fatalf("sqr(a) != mul(a, a)")
		}
	}
}

func TestInvIsMultiplicativeInverse(t *testing.T) {
	for _, a := range sampleElements(propertySampleSize) {
		if IsZero(a) {
			continue
		}
		if !Eq(Mul(a, Inv(a)), One()) {
			t.Fatalf("a * inv(a) != 1")
		}
	}
}

func TestBatchInvertMatchesIndividualInverse(t *testing.T) {
	xs := sampleElements(16)
	want := make([]Element, len(xs))
	for i, x := range xs {
		want[i] = Inv(x)
	}
	got := append([]Element(nil), xs...)
	BatchInvert(got)
	for i := range got {
		if !Eq(got[i], want[i]) {
			t.Fatalf("batch invert[%d] mismatch", i)
		}
	}
}

func TestBatchInvertEmptyAndSingle(t *testing.T) {
	empty := []Element{}
	BatchInvert(empty)
	if len(empty) != 0 {
		t.Fatalf("empty batch invert changed length")
	}

	one := sampleElements(1)
	want := Inv(one[0])
	BatchInvert(one)
	if !Eq(one[0], want) {
		t.Fatalf("single-element batch invert mismatch")
	}
}

func TestCmpMatchesByteOrder(t *testing.T) {
	xs := sampleElements(propertySampleSize)
	for i := 0; i+1 < len(xs); i += 2 {
		a, b := xs[i], xs[i+1]
		ab := ToBytes(a)
		bb := ToBytes(b)
		if got, want := Cmp(a, b), bytes.Compare(ab[:], bb[:]); got != want {
			t.Fatalf("Cmp = %d, want %d", got, want)
		}
		if Cmp(a, a) != 0 {
			t.Fatalf("Cmp(a, a) != 0")
		}
		if Cmp(a, b) != -Cmp(b, a) {
			t.Fatalf("Cmp is not antisymmetric")
		}
	}
}

func TestBytesRoundTrip(t *testing.T) {
	for _, a := range sampleElements(propertySampleSize) {
		b := ToBytes(a)
		back := FromBytes(b[:])
		if !Eq(a, back) {
			t.Fatalf("from_bytes(to_bytes(a)) != a")
		}
	}
}

func TestPow5MatchesRepeatedMul(t *testing.T) {
	for _, a := range sampleElements(propertySampleSize) {
		want := Mul(Mul(Mul(Mul(a, a), a), a), a)
		if !Eq(Pow5(a), want) {
			t.Fatalf("pow5 mismatch")
		}
	}
}
