// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package capi is the cgo-exported C ABI surface, mirroring the native
// tetsuo-core header (tetsuo.h) function for function so an existing
// caller of the native library needs only to relink against this
// package's shared object, not rewrite its call sites.
//
// Handles (tetsuo_ctx_t*, tetsuo_batch_t*) are opaque runtime/cgo.Handle
// values reinterpreted as pointers: the Go object never actually lives at
// that address, cgo.Handle just gives us a stable, GC-safe integer to
// round-trip through a C pointer-sized slot.
package capi

/*
#include <stdint.h>
#include <stddef.h>
#include <stdbool.h>

typedef enum {
    TETSUO_OK = 0,
    TETSUO_ERR_INVALID_PROOF = 1,
    TETSUO_ERR_BELOW_THRESHOLD = 2,
    TETSUO_ERR_EXPIRED = 3,
    TETSUO_ERR_MALFORMED = 4,
    TETSUO_ERR_BLACKLISTED = 5,
    TETSUO_ERR_OUT_OF_MEMORY = 100,
    TETSUO_ERR_INVALID_PARAM = 101,
} tetsuo_result_t;

typedef enum {
    TETSUO_PROOF_REPUTATION = 0,
    TETSUO_PROOF_PAYMENT = 1,
    TETSUO_PROOF_INFERENCE = 2,
} tetsuo_proof_type_t;

typedef struct tetsuo_ctx tetsuo_ctx_t;
typedef struct tetsuo_batch tetsuo_batch_t;

#pragma pack(push, 1)
typedef struct {
    uint8_t type;
    uint8_t version;
    uint16_t flags;
    uint32_t timestamp;
    uint8_t agent_pk[32];
    uint8_t commitment[32];
    uint8_t proof_data[256];
} tetsuo_proof_t;
#pragma pack(pop)

typedef struct {
    uint32_t max_proof_age;
    uint8_t min_threshold;
    uint8_t blacklist_root[32];
    const uint8_t *vk_data;
    size_t vk_len;
} tetsuo_config_t;

typedef struct {
    uint64_t total_verified;
    uint64_t total_failed;
    uint64_t total_batches;
    uint64_t avg_batch_size;
    uint64_t peak_memory_usage;
    double avg_verify_time_us;
} tetsuo_stats_t;
*/
import "C"

import (
	"runtime/cgo"
	"sync"
	"time"
	"unsafe"

	"github.com/luxfi/tetsuo-verify/engine"
	"github.com/luxfi/tetsuo-verify/field"
	"github.com/luxfi/tetsuo-verify/groth16verify"
	"github.com/luxfi/tetsuo-verify/poseidon"
	"github.com/luxfi/tetsuo-verify/reputation"
	"github.com/luxfi/tetsuo-verify/smt"
)

const wireVersion = groth16verify.WireVersion

func toResultCode(r groth16verify.Result) C.tetsuo_result_t {
	switch r {
	case groth16verify.ResultOK:
		return C.TETSUO_OK
	case groth16verify.ResultInvalidProof:
		return C.TETSUO_ERR_INVALID_PROOF
	case groth16verify.ResultBelowThreshold:
		return C.TETSUO_ERR_BELOW_THRESHOLD
	case groth16verify.ResultExpired:
		return C.TETSUO_ERR_EXPIRED
	case groth16verify.ResultMalformed:
		return C.TETSUO_ERR_MALFORMED
	case groth16verify.ResultNotInitialized:
		// No verifying key or backend means no proof can be trusted;
		// report the proof as invalid rather than ever leaning toward OK.
		return C.TETSUO_ERR_INVALID_PROOF
	case groth16verify.ResultBlacklisted:
		return C.TETSUO_ERR_BLACKLISTED
	case groth16verify.ResultOutOfMemory, groth16verify.ResultArenaExhausted:
		return C.TETSUO_ERR_OUT_OF_MEMORY
	default:
		return C.TETSUO_ERR_INVALID_PARAM
	}
}

func handleToPointer(h cgo.Handle) unsafe.Pointer {
	return unsafe.Pointer(uintptr(h))
}

func pointerToHandle(p unsafe.Pointer) cgo.Handle {
	return cgo.Handle(uintptr(p))
}

func proofWireBytes(p *C.tetsuo_proof_t) []byte {
	return C.GoBytes(unsafe.Pointer(p), C.int(groth16verify.WireSize))
}

//export tetsuo_init
func tetsuo_init() C.tetsuo_result_t {
	// No global state to set up: gnark-crypto's field/curve tables are
	// package-level constants, and each context owns its own arena.
	return C.TETSUO_OK
}

//export tetsuo_cleanup
func tetsuo_cleanup() {}

//export tetsuo_ctx_create
func tetsuo_ctx_create(config *C.tetsuo_config_t) *C.tetsuo_ctx_t {
	ctx := engine.New(nil)

	if config != nil {
		ctx.SetMaxProofAge(uint32(config.max_proof_age))
		ctx.SetThreshold(uint8(config.min_threshold))

		var root [32]byte
		for i := range root {
			root[i] = byte(config.blacklist_root[i])
		}
		ctx.SetBlacklistRoot(root)

		if config.vk_data != nil && config.vk_len > 0 {
			vkBlob := C.GoBytes(unsafe.Pointer(config.vk_data), C.int(config.vk_len))
			if err := ctx.LoadVerifyingKey(vkBlob); err != nil {
				return nil
			}
		}
	}

	h := cgo.NewHandle(ctx)
	return (*C.tetsuo_ctx_t)(handleToPointer(h))
}

//export tetsuo_ctx_destroy
func tetsuo_ctx_destroy(ctx *C.tetsuo_ctx_t) {
	if ctx == nil {
		return
	}
	pointerToHandle(unsafe.Pointer(ctx)).Delete()
}

func contextFromHandle(ctx *C.tetsuo_ctx_t) *engine.Context {
	if ctx == nil {
		return nil
	}
	return pointerToHandle(unsafe.Pointer(ctx)).Value().(*engine.Context)
}

//export tetsuo_ctx_set_time
func tetsuo_ctx_set_time(ctx *C.tetsuo_ctx_t, timestamp C.uint64_t) C.tetsuo_result_t {
	c := contextFromHandle(ctx)
	if c == nil {
		return C.TETSUO_ERR_INVALID_PARAM
	}
	c.SetTime(uint32(timestamp))
	return C.TETSUO_OK
}

//export tetsuo_ctx_set_threshold
func tetsuo_ctx_set_threshold(ctx *C.tetsuo_ctx_t, threshold C.uint8_t) C.tetsuo_result_t {
	c := contextFromHandle(ctx)
	if c == nil {
		return C.TETSUO_ERR_INVALID_PARAM
	}
	c.SetThreshold(uint8(threshold))
	return C.TETSUO_OK
}

//export tetsuo_ctx_set_blacklist
func tetsuo_ctx_set_blacklist(ctx *C.tetsuo_ctx_t, root *C.uint8_t) C.tetsuo_result_t {
	c := contextFromHandle(ctx)
	if c == nil || root == nil {
		return C.TETSUO_ERR_INVALID_PARAM
	}
	var r [32]byte
	copy(r[:], C.GoBytes(unsafe.Pointer(root), 32))
	c.SetBlacklistRoot(r)
	return C.TETSUO_OK
}

//export tetsuo_verify
func tetsuo_verify(ctx *C.tetsuo_ctx_t, proof *C.tetsuo_proof_t) C.tetsuo_result_t {
	c := contextFromHandle(ctx)
	if c == nil || proof == nil {
		return C.TETSUO_ERR_INVALID_PARAM
	}
	return toResultCode(c.VerifyProof(proofWireBytes(proof)))
}

//export tetsuo_batch_create
func tetsuo_batch_create(ctx *C.tetsuo_ctx_t, capacity C.size_t) *C.tetsuo_batch_t {
	c := contextFromHandle(ctx)
	if c == nil {
		return nil
	}
	b := c.NewBatch(int(capacity))
	h := cgo.NewHandle(b)
	return (*C.tetsuo_batch_t)(handleToPointer(h))
}

func batchFromHandle(b *C.tetsuo_batch_t) *engine.Batch {
	if b == nil {
		return nil
	}
	return pointerToHandle(unsafe.Pointer(b)).Value().(*engine.Batch)
}

//export tetsuo_batch_add
func tetsuo_batch_add(batch *C.tetsuo_batch_t, proof *C.tetsuo_proof_t) C.tetsuo_result_t {
	b := batchFromHandle(batch)
	if b == nil || proof == nil {
		return C.TETSUO_ERR_INVALID_PARAM
	}
	if err := b.Add(proofWireBytes(proof)); err != nil {
		if err == engine.ErrBatchFull {
			return C.TETSUO_ERR_OUT_OF_MEMORY
		}
		return C.TETSUO_ERR_MALFORMED
	}
	return C.TETSUO_OK
}

// lastResults caches the most recent Verify() output per batch handle so
// tetsuo_batch_get_results can hand results back in a second call, the
// same split tetsuo_batch_verify / tetsuo_batch_get_results calling
// convention the header documents. Guarded by a mutex because distinct
// contexts (and therefore distinct batches) may be driven from parallel
// host threads.
var lastResults = struct {
	sync.Mutex
	m map[cgo.Handle][]groth16verify.Result
}{m: make(map[cgo.Handle][]groth16verify.Result)}

//export tetsuo_batch_verify
func tetsuo_batch_verify(batch *C.tetsuo_batch_t) C.tetsuo_result_t {
	b := batchFromHandle(batch)
	if b == nil {
		return C.TETSUO_ERR_INVALID_PARAM
	}
	results, err := b.Verify()
	if err != nil {
		return C.TETSUO_ERR_INVALID_PARAM
	}

	h := pointerToHandle(unsafe.Pointer(batch))
	lastResults.Lock()
	lastResults.m[h] = results
	lastResults.Unlock()

	for _, r := range results {
		if r != groth16verify.ResultOK {
			return toResultCode(r)
		}
	}
	return C.TETSUO_OK
}

//export tetsuo_batch_get_results
func tetsuo_batch_get_results(batch *C.tetsuo_batch_t, results *C.tetsuo_result_t, count *C.size_t) {
	b := batchFromHandle(batch)
	if b == nil || results == nil || count == nil {
		return
	}
	h := pointerToHandle(unsafe.Pointer(batch))
	lastResults.Lock()
	rs := lastResults.m[h]
	lastResults.Unlock()

	n := int(*count)
	if len(rs) < n {
		n = len(rs)
	}
	out := unsafe.Slice(results, n)
	for i := 0; i < n; i++ {
		out[i] = toResultCode(rs[i])
	}
	*count = C.size_t(n)
}

//export tetsuo_batch_reset
func tetsuo_batch_reset(batch *C.tetsuo_batch_t) {
	b := batchFromHandle(batch)
	if b == nil {
		return
	}
	b.Reset()
	lastResults.Lock()
	delete(lastResults.m, pointerToHandle(unsafe.Pointer(batch)))
	lastResults.Unlock()
}

//export tetsuo_batch_destroy
func tetsuo_batch_destroy(batch *C.tetsuo_batch_t) {
	if batch == nil {
		return
	}
	h := pointerToHandle(unsafe.Pointer(batch))
	lastResults.Lock()
	delete(lastResults.m, h)
	lastResults.Unlock()
	h.Delete()
}

//export tetsuo_get_stats
func tetsuo_get_stats(ctx *C.tetsuo_ctx_t, stats *C.tetsuo_stats_t) {
	c := contextFromHandle(ctx)
	if c == nil || stats == nil {
		return
	}
	s := c.Stats()
	stats.total_verified = C.uint64_t(s.TotalVerified)
	stats.total_failed = C.uint64_t(s.TotalFailed)
	stats.total_batches = C.uint64_t(s.TotalBatches)
	stats.avg_batch_size = C.uint64_t(s.AvgBatchSize)
	stats.peak_memory_usage = C.uint64_t(c.PeakMemory())
	stats.avg_verify_time_us = C.double(s.AvgVerifyTimeUs)
}

//export tetsuo_proof_create
func tetsuo_proof_create(
	proof *C.tetsuo_proof_t,
	proofType C.tetsuo_proof_type_t,
	threshold C.uint8_t,
	agentPK *C.uint8_t,
	commitment *C.uint8_t,
	proofBytes *C.uint8_t,
	proofLen C.size_t,
) C.tetsuo_result_t {
	if proof == nil || agentPK == nil || commitment == nil || proofBytes == nil {
		return C.TETSUO_ERR_INVALID_PARAM
	}
	if int(proofLen) > groth16verify.ProofDataSize {
		return C.TETSUO_ERR_INVALID_PARAM
	}

	proof._type = C.uint8_t(proofType)
	proof.version = C.uint8_t(wireVersion)
	proof.flags = C.uint16_t(threshold)
	proof.timestamp = C.uint32_t(time.Now().Unix())

	agentPKBytes := C.GoBytes(unsafe.Pointer(agentPK), 32)
	for i := 0; i < 32; i++ {
		proof.agent_pk[i] = C.uint8_t(agentPKBytes[i])
	}
	commitmentBytes := C.GoBytes(unsafe.Pointer(commitment), 32)
	for i := 0; i < 32; i++ {
		proof.commitment[i] = C.uint8_t(commitmentBytes[i])
	}

	data := C.GoBytes(unsafe.Pointer(proofBytes), C.int(proofLen))
	for i := 0; i < len(data); i++ {
		proof.proof_data[i] = C.uint8_t(data[i])
	}
	return C.TETSUO_OK
}

//export tetsuo_make_commitment
func tetsuo_make_commitment(out *C.uint8_t, score C.uint16_t, secret *C.uint8_t) C.tetsuo_result_t {
	if out == nil || secret == nil {
		return C.TETSUO_ERR_INVALID_PARAM
	}
	var s [32]byte
	copy(s[:], C.GoBytes(unsafe.Pointer(secret), 32))

	c, err := reputation.Commit(uint16(score), s)
	if err != nil {
		return C.TETSUO_ERR_INVALID_PARAM
	}
	dst := unsafe.Slice(out, 32)
	copy(dst, c[:])
	return C.TETSUO_OK
}

//export tetsuo_compute_nullifier
func tetsuo_compute_nullifier(out *C.uint8_t, agentPK *C.uint8_t, nonce C.uint64_t) {
	if out == nil || agentPK == nil {
		return
	}
	pkBytes := C.GoBytes(unsafe.Pointer(agentPK), 32)
	null := poseidon.Nullifier(field.FromBytes(pkBytes), uint64(nonce))
	outBytes := field.ToBytes(null)
	dst := unsafe.Slice(out, 32)
	copy(dst, outBytes[:])
}

//export tetsuo_verify_exclusion
func tetsuo_verify_exclusion(root *C.uint8_t, leaf *C.uint8_t, proof *C.uint8_t, proofLen C.size_t) C.bool {
	if root == nil || leaf == nil {
		return C.bool(false)
	}
	var rootArr, leafArr [32]byte
	copy(rootArr[:], C.GoBytes(unsafe.Pointer(root), 32))
	copy(leafArr[:], C.GoBytes(unsafe.Pointer(leaf), 32))

	var proofBytes []byte
	if proof != nil && proofLen > 0 {
		proofBytes = C.GoBytes(unsafe.Pointer(proof), C.int(proofLen))
	}

	ok, err := smt.VerifyExclusion(rootArr, leafArr, proofBytes)
	if err != nil {
		return C.bool(false)
	}
	return C.bool(ok)
}
