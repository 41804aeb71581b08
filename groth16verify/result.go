// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package groth16verify

// Result is the stable result code returned by every verification call.
// It is defined here (rather than in the higher-level engine/capi
// packages) because policy checks that produce these codes already run
// inside the batch verifier at this layer; engine returns it unchanged,
// and capi translates it to the C enum's values (see toResultCode).
type Result int32

const (
	ResultOK Result = iota
	ResultInvalidProof
	ResultBelowThreshold
	ResultExpired
	ResultMalformed
	ResultBlacklisted

	// Parameter-validation codes start at 100, resource-exhaustion at
	// 200, cryptographic-failure at 300, keeping each class in its own
	// hundred.
	ResultInvalidParam Result = iota + 94 // = 100
	ResultNotInitialized

	ResultOutOfMemory Result = iota + 192 // = 200
	ResultBatchFull
	ResultArenaExhausted
	ResultSizeLimit

	ResultRNGFailed Result = iota + 288 // = 300
	ResultInvalidPoint
	ResultNotOnCurve
	ResultPairingFailed
)

// String renders the stable strerror-style label for a result code.
func (r Result) String() string {
	switch r {
	case ResultOK:
		return "OK"
	case ResultInvalidProof:
		return "INVALID_PROOF"
	case ResultBelowThreshold:
		return "BELOW_THRESHOLD"
	case ResultExpired:
		return "EXPIRED"
	case ResultMalformed:
		return "MALFORMED"
	case ResultBlacklisted:
		return "BLACKLISTED"
	case ResultInvalidParam:
		return "INVALID_PARAM"
	case ResultNotInitialized:
		return "NOT_INITIALIZED"
	case ResultOutOfMemory:
		return "OUT_OF_MEMORY"
	case ResultBatchFull:
		return "BATCH_FULL"
	case ResultArenaExhausted:
		return "ARENA_EXHAUSTED"
	case ResultSizeLimit:
		return "SIZE_LIMIT"
	case ResultRNGFailed:
		return "RNG_FAILED"
	case ResultInvalidPoint:
		return "INVALID_POINT"
	case ResultNotOnCurve:
		return "NOT_ON_CURVE"
	case ResultPairingFailed:
		return "PAIRING_FAILED"
	default:
		return "UNKNOWN"
	}
}

// ToResult classifies a parse/verify error into its external result code,
// collapsing every parse/validation cause into ResultMalformed: the
// caller never learns which specific on-curve/subgroup/version check
// failed, only that the proof was malformed or the equation didn't hold.
func ToResult(err error) Result {
	if err == nil {
		return ResultOK
	}
	switch err {
	case ErrInvalidProof:
		return ResultInvalidProof
	default:
		return ResultMalformed
	}
}
