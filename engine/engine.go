// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package engine implements the verification context and batch
// lifecycle: the stateful object that owns one verifying key, the
// policy (clock, max proof age, minimum threshold, blacklist root)
// applied to every proof it checks, and the running statistics the
// native library exposes through tetsuo_get_stats. This is the Go-level
// public API the cgo surface in capi/ wraps one-to-one.
package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/luxfi/crypto/hash/blake3"
	"github.com/luxfi/log"

	"github.com/luxfi/tetsuo-verify/arena"
	"github.com/luxfi/tetsuo-verify/batchverify"
	"github.com/luxfi/tetsuo-verify/field"
	"github.com/luxfi/tetsuo-verify/groth16verify"
	"github.com/luxfi/tetsuo-verify/smt"
)

// ErrNoVerifyingKey is returned by any verification call made before a
// verifying key has been loaded. Fail closed: a context with no VK must
// never report success.
var ErrNoVerifyingKey = errors.New("engine: no verifying key loaded")

// Stats mirrors tetsuo_stats_t: running counters plus a Welford online
// mean for batch size and per-verification latency, so a long-lived
// context doesn't need to retain every historical sample to report an
// accurate average.
type Stats struct {
	TotalVerified   uint64
	TotalFailed     uint64
	TotalBatches    uint64
	AvgBatchSize    float64
	AvgVerifyTimeUs float64

	verifyCount uint64
}

func (s *Stats) recordVerify(ok bool) {
	if ok {
		s.TotalVerified++
	} else {
		s.TotalFailed++
	}
}

func (s *Stats) recordBatch(size int) {
	s.TotalBatches++
	n := float64(s.TotalBatches)
	s.AvgBatchSize += (float64(size) - s.AvgBatchSize) / n
}

// recordVerifyTime folds one latency sample (microseconds) into the
// running mean via Welford's online algorithm: mean_n = mean_{n-1} +
// (x_n - mean_{n-1})/n. This avoids the native library's
// sum-divided-by-count approach, which silently overflows on a
// long-lived process; the online form never needs the running sum.
func (s *Stats) recordVerifyTime(us float64) {
	s.verifyCount++
	s.AvgVerifyTimeUs += (us - s.AvgVerifyTimeUs) / float64(s.verifyCount)
}

// Policy is the batchverify.Policy alias exposed at this layer so
// callers configuring a Context don't need to import batchverify
// directly.
type Policy = batchverify.Policy

// Context owns one verifying key and the policy/statistics state for
// every proof checked against it, guarded by a single RWMutex.
type Context struct {
	mu sync.RWMutex

	vk            *groth16verify.VerifyingKey
	vkFingerprint [32]byte

	policy        Policy
	blacklistRoot [32]byte

	arena *arena.Arena

	stats Stats

	log log.Logger
}

// New creates an empty context with no verifying key loaded. logger may
// be nil, in which case an Info-level log.NewTestLogger is used. The
// context's arena
// backs every transient buffer the context stages (wire records queued
// into a batch); destroying the context releases it all at once.
func New(logger log.Logger) *Context {
	if logger == nil {
		logger = log.NewTestLogger(log.InfoLevel)
	}
	return &Context{log: logger, arena: arena.New(0)}
}

// PeakMemory reports the high-water mark of the context arena's usage.
func (c *Context) PeakMemory() int64 {
	return c.arena.Peak()
}

// LoadVerifyingKey parses and installs vkBlob as this context's
// verifying key, replacing any previously loaded key. The fingerprint
// (a fast, non-cryptographic blake3 digest used only for cache-key and
// logging purposes, never as a security boundary) is recomputed on
// every load.
func (c *Context) LoadVerifyingKey(vkBlob []byte) error {
	vk, err := groth16verify.LoadVerifyingKey(vkBlob)
	if err != nil {
		c.log.Warn("verifying key load failed", "err", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.vk = vk
	digest := blake3.HashBytes(vkBlob)
	copy(c.vkFingerprint[:], digest[:32])
	c.log.Info("verifying key loaded", "fingerprint", c.vkFingerprint)
	return nil
}

// VerifyingKeyFingerprint returns the blake3 digest of the currently
// loaded verifying key blob, the zero value if none is loaded.
func (c *Context) VerifyingKeyFingerprint() [32]byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vkFingerprint
}

// SetTime sets the context's notion of "now" used for proof-expiry
// checks.
func (c *Context) SetTime(now uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.policy.CurrentTime = now
}

// SetMaxProofAge sets the maximum age a proof's timestamp may have
// relative to the context's current time. Zero disables the check.
func (c *Context) SetMaxProofAge(maxAge uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.policy.MaxProofAge = maxAge
}

// SetThreshold sets the minimum threshold a proof must assert.
func (c *Context) SetThreshold(minThreshold uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.policy.MinThreshold = minThreshold
}

// SetBlacklistRoot sets the sparse Merkle tree root exclusion proofs are
// checked against.
func (c *Context) SetBlacklistRoot(root [32]byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blacklistRoot = root
}

// VerifyProof parses and verifies a single wire proof against the
// loaded verifying key and the current policy, returning a stable
// result code. A context with no verifying key always returns
// ResultInvalidProof rather than attempting a pairing check against a
// nil key; verification fails closed, and the caller cannot tell a
// missing key apart from a proof the key rejects.
func (c *Context) VerifyProof(wire []byte) groth16verify.Result {
	start := time.Now()

	c.mu.RLock()
	vk := c.vk
	policy := c.policy
	c.mu.RUnlock()

	if vk == nil {
		c.recordResult(groth16verify.ResultInvalidProof, start)
		return groth16verify.ResultInvalidProof
	}

	p, err := groth16verify.Parse(wire)
	if err != nil {
		r := groth16verify.ToResult(err)
		c.recordResult(r, start)
		return r
	}

	if r := policy.Check(&p); r != groth16verify.ResultOK {
		c.recordResult(r, start)
		return r
	}

	x := groth16verify.PublicInput(p.AgentPK, p.Commitment, p.Threshold)
	err = groth16verify.Verify(vk, &p, x)
	r := groth16verify.ToResult(err)
	c.recordResult(r, start)
	return r
}

func (c *Context) recordResult(r groth16verify.Result, start time.Time) {
	us := float64(time.Since(start).Microseconds())
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.recordVerify(r == groth16verify.ResultOK)
	c.stats.recordVerifyTime(us)
}

// VerifyExclusion checks that leaf is absent from the loaded blacklist
// tree.
func (c *Context) VerifyExclusion(leaf [32]byte, proof []byte) (bool, error) {
	c.mu.RLock()
	root := c.blacklistRoot
	c.mu.RUnlock()
	return smt.VerifyExclusion(root, leaf, proof)
}

// IsBlacklisted is the complement of VerifyExclusion, matching the
// public-facing question callers actually ask ("has this agent been
// blacklisted?") rather than the tree's own "is this leaf excluded?"
// framing.
func (c *Context) IsBlacklisted(leaf [32]byte, exclusionProof []byte) (bool, error) {
	excluded, err := c.VerifyExclusion(leaf, exclusionProof)
	if err != nil {
		return false, err
	}
	return !excluded, nil
}

// Stats returns a snapshot of the running statistics.
func (c *Context) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// Batch accumulates proofs for a single call to batchverify.Verify
// against this context's verifying key and policy.
type Batch struct {
	ctx     *Context
	cp      arena.Checkpoint
	proofs  []*groth16verify.Proof
	inputs  []field.Element
	maxSize int
}

// NewBatch creates a batch bound to this context, accepting at most
// maxSize proofs (maxSize <= 0 uses batchverify.MaxBatchSize). The
// batch's staged wire records live in the context arena between the
// checkpoint taken here and the batch's Reset.
func (c *Context) NewBatch(maxSize int) *Batch {
	if maxSize <= 0 || maxSize > batchverify.MaxBatchSize {
		maxSize = batchverify.MaxBatchSize
	}
	return &Batch{ctx: c, cp: c.arena.Checkpoint(), maxSize: maxSize}
}

// ErrBatchFull is returned by Add once the batch has reached its
// configured capacity.
var ErrBatchFull = errors.New("engine: batch is full")

// Add stages wire in the context arena, parses it, and appends the
// parsed proof to the batch. It does not run the pairing check; that
// happens once, for the whole batch, in Verify.
func (b *Batch) Add(wire []byte) error {
	if len(b.proofs) >= b.maxSize {
		return ErrBatchFull
	}
	staged := b.ctx.arena.Alloc(len(wire))
	copy(staged, wire)
	p, err := groth16verify.Parse(staged)
	if err != nil {
		return err
	}
	x := groth16verify.PublicInput(p.AgentPK, p.Commitment, p.Threshold)
	b.proofs = append(b.proofs, &p)
	b.inputs = append(b.inputs, x)
	return nil
}

// Len reports how many proofs have been added so far.
func (b *Batch) Len() int { return len(b.proofs) }

// Verify runs the batch's proofs against b.ctx's verifying key and
// policy, returning one result per proof in Add order.
func (b *Batch) Verify() ([]groth16verify.Result, error) {
	b.ctx.mu.RLock()
	vk := b.ctx.vk
	policy := b.ctx.policy
	b.ctx.mu.RUnlock()

	if vk == nil {
		results := make([]groth16verify.Result, len(b.proofs))
		for i := range results {
			results[i] = groth16verify.ResultInvalidProof
		}
		return results, nil
	}

	results, err := batchverify.Verify(vk, policy, b.proofs, b.inputs)
	if err != nil {
		return nil, err
	}

	b.ctx.mu.Lock()
	b.ctx.stats.recordBatch(len(b.proofs))
	for _, r := range results {
		b.ctx.stats.recordVerify(r == groth16verify.ResultOK)
	}
	b.ctx.mu.Unlock()

	return results, nil
}

// Reset empties the batch so it can be reused for another round without
// reallocating its backing arrays, and rewinds the context arena to the
// batch's creation checkpoint, reclaiming every staged wire record.
func (b *Batch) Reset() {
	b.proofs = b.proofs[:0]
	b.inputs = b.inputs[:0]
	b.ctx.arena.Restore(b.cp)
}
