// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"encoding/binary"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/tetsuo-verify/curve"
	"github.com/luxfi/tetsuo-verify/groth16verify"
)

// buildToyVKBlob serializes a hand-rolled (non-trusted-setup) toy
// verifying key in the wire format LoadVerifyingKey expects, used only
// to exercise the context lifecycle end to end.
func buildToyVKBlob() []byte {
	_, _, g1Gen, g2Gen := bn254.Generators()

	alpha := curve.EncodeG1(g1Gen)
	beta := curve.EncodeG2(g2Gen)
	gamma := curve.EncodeG2(g2Gen)
	delta := curve.EncodeG2(g2Gen)
	ic0 := curve.EncodeG1(g1Gen)
	ic1 := curve.EncodeG1(g1Gen)

	blob := make([]byte, 0, 64+128*3+4+64*2)
	blob = append(blob, alpha[:]...)
	blob = append(blob, beta[:]...)
	blob = append(blob, gamma[:]...)
	blob = append(blob, delta[:]...)

	var icLen [4]byte
	binary.LittleEndian.PutUint32(icLen[:], 2)
	blob = append(blob, icLen[:]...)
	blob = append(blob, ic0[:]...)
	blob = append(blob, ic1[:]...)
	return blob
}

// buildValidWire packs a wire proof whose A/B/C slots hold the group
// generators: well-formed (on-curve, in-subgroup, non-infinity) so it
// survives parsing, but not a satisfying Groth16 assignment, so the
// pairing equation rejects it.
func buildValidWire(t *testing.T, threshold uint16, timestamp uint32) []byte {
	t.Helper()
	_, _, g1Gen, g2Gen := bn254.Generators()

	a := curve.EncodeG1(g1Gen)
	b := curve.EncodeG2(g2Gen)
	c := curve.EncodeG1(g1Gen)

	data := make([]byte, 0, groth16verify.ProofDataSize)
	data = append(data, a[:]...)
	data = append(data, b[:]...)
	data = append(data, c[:]...)

	var pk, cm [32]byte
	pk[0] = 0x42
	cm[0] = 0x43

	wire, err := groth16verify.EncodeWire(groth16verify.ProofReputation, threshold, timestamp, pk, cm, data)
	require.NoError(t, err)
	return wire
}

func TestContextFailsClosedWithoutVerifyingKey(t *testing.T) {
	ctx := New(nil)
	require.Equal(t, groth16verify.ResultInvalidProof, ctx.VerifyProof(buildValidWire(t, 0, 0)))
}

func TestContextLoadVerifyingKeyAndFingerprint(t *testing.T) {
	ctx := New(nil)
	blob := buildToyVKBlob()

	require.NoError(t, ctx.LoadVerifyingKey(blob))
	require.NotZero(t, ctx.VerifyingKeyFingerprint())
}

func TestContextRejectsExpiredProof(t *testing.T) {
	ctx := New(nil)
	require.NoError(t, ctx.LoadVerifyingKey(buildToyVKBlob()))

	ctx.SetTime(1000)
	ctx.SetMaxProofAge(10)

	require.Equal(t, groth16verify.ResultExpired, ctx.VerifyProof(buildValidWire(t, 0, 5)))
}

func TestContextRejectsBelowThreshold(t *testing.T) {
	ctx := New(nil)
	require.NoError(t, ctx.LoadVerifyingKey(buildToyVKBlob()))

	ctx.SetTime(1000)
	ctx.SetThreshold(80)

	require.Equal(t, groth16verify.ResultBelowThreshold, ctx.VerifyProof(buildValidWire(t, 10, 995)))
}

func TestContextRejectsMalformedProof(t *testing.T) {
	ctx := New(nil)
	require.NoError(t, ctx.LoadVerifyingKey(buildToyVKBlob()))

	wire := buildValidWire(t, 0, 995)
	wire[len(wire)-1] ^= 0x01 // corrupt the C point's y coordinate

	require.Equal(t, groth16verify.ResultMalformed, ctx.VerifyProof(wire))
}

func TestBatchAddRespectsCapacity(t *testing.T) {
	ctx := New(nil)
	require.NoError(t, ctx.LoadVerifyingKey(buildToyVKBlob()))
	ctx.SetTime(1000)

	batch := ctx.NewBatch(1)
	wire := buildValidWire(t, 0, 995)

	require.NoError(t, batch.Add(wire))
	require.ErrorIs(t, batch.Add(wire), ErrBatchFull)
	require.Equal(t, 1, batch.Len())
}

func TestBatchVerifyWithoutVerifyingKeyFailsClosed(t *testing.T) {
	ctx := New(nil)
	batch := ctx.NewBatch(4)

	require.NoError(t, batch.Add(buildValidWire(t, 0, 0)))

	results, err := batch.Verify()
	require.NoError(t, err)
	require.Equal(t, []groth16verify.Result{groth16verify.ResultInvalidProof}, results)
}

func TestBatchResetAllowsReuse(t *testing.T) {
	ctx := New(nil)
	require.NoError(t, ctx.LoadVerifyingKey(buildToyVKBlob()))

	batch := ctx.NewBatch(2)
	require.NoError(t, batch.Add(buildValidWire(t, 0, 0)))
	require.Equal(t, 1, batch.Len())

	batch.Reset()
	require.Equal(t, 0, batch.Len())
	require.NoError(t, batch.Add(buildValidWire(t, 0, 0)))
}

func TestStatsAccumulateAcrossVerifications(t *testing.T) {
	ctx := New(nil)
	require.NoError(t, ctx.LoadVerifyingKey(buildToyVKBlob()))
	ctx.SetTime(1000)

	wire := buildValidWire(t, 0, 995)

	ctx.VerifyProof(wire)
	ctx.VerifyProof(wire)

	s := ctx.Stats()
	require.Equal(t, uint64(2), s.TotalFailed+s.TotalVerified)
}
