// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package arena implements a bump-pointer, fragmentation-free allocator
// used to back transient verification buffers: a context's staged batch
// wire records and the batch verifier's coefficient, point and pairing
// input vectors come from an arena rather than individual heap
// allocations.
package arena

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

// DefaultBlockSize is the size of a block requested from the Go heap when
// the arena needs more room. 1 MiB matches the original block size.
const DefaultBlockSize = 1024 * 1024

// ScratchSize is the size of the per-goroutine scratch arena.
const ScratchSize = 256 * 1024

type block struct {
	data []byte
	used int
	next *block
}

// Arena is a singly linked chain of blocks with a monotonically advancing
// cursor. Allocation never frees individual objects; Reset or Restore
// reclaims whole regions at once.
type Arena struct {
	mu         sync.Mutex
	head       *block
	current    *block
	blockSize  int
	totalAlloc int64
	peakUsage  int64
	refCount   int32
}

// New creates an arena that requests blocks of blockSize bytes from the Go
// heap as needed. blockSize <= 0 selects DefaultBlockSize.
func New(blockSize int) *Arena {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	a := &Arena{blockSize: blockSize, refCount: 1}
	b := a.newBlock(blockSize)
	a.head = b
	a.current = b
	return a
}

func (a *Arena) newBlock(size int) *block {
	return &block{data: make([]byte, size)}
}

// Ref increments the arena's reference count for sharing across goroutines.
func (a *Arena) Ref() {
	atomic.AddInt32(&a.refCount, 1)
}

// Unref decrements the reference count. The arena's backing storage is left
// for the garbage collector once the count reaches zero; there is no
// explicit OS-level free since blocks are plain Go slices.
func (a *Arena) Unref() {
	atomic.AddInt32(&a.refCount, -1)
}

func align(n, alignment int) int {
	if alignment <= 1 {
		return n
	}
	rem := n % alignment
	if rem == 0 {
		return n
	}
	return n + (alignment - rem)
}

// Alloc returns size bytes of zeroed, 8-byte aligned storage. It never
// fails: if the current block lacks room, a new block is appended to the
// chain (sized to max(blockSize, size) so oversized requests still
// succeed in one block).
func (a *Arena) Alloc(size int) []byte {
	return a.AllocAligned(size, 8)
}

// AllocAligned is Alloc with an explicit alignment requirement, measured
// from the start of the block's data slice.
func (a *Arena) AllocAligned(size, alignment int) []byte {
	if size < 0 {
		panic("arena: negative allocation size")
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	cur := a.current
	start := align(cur.used, alignment)
	if start+size > len(cur.data) {
		if nb := cur.next; nb != nil && size <= len(nb.data) {
			// Reuse a block left linked (and emptied) by Reset/Restore.
			cur = nb
		} else {
			need := a.blockSize
			if size > need {
				need = size
			}
			nb := a.newBlock(need)
			nb.next = cur.next
			cur.next = nb
			cur = nb
		}
		a.current = cur
		start = 0
	}
	cur.used = start + size
	a.totalAlloc += int64(size)
	if used := a.usedLocked(); used > a.peakUsage {
		a.peakUsage = used
	}
	ret := cur.data[start : start+size : start+size]
	// Blocks are reused after Reset/Restore, so the region may hold
	// stale bytes from a previous allocation.
	clear(ret)
	return ret
}

// Calloc allocates count*size bytes of zeroed storage, matching the
// original arena_calloc helper (the Go slice is already zero-valued, so
// this is Alloc with an overflow-checked size computation).
func (a *Arena) Calloc(count, size int) []byte {
	if count < 0 || size < 0 {
		panic("arena: negative calloc dimensions")
	}
	n := count * size
	if size != 0 && n/size != count {
		panic("arena: calloc size overflows int")
	}
	return a.Alloc(n)
}

// Checkpoint captures a position in the arena that Restore can later
// reclaim back to.
type Checkpoint struct {
	blk  *block
	mark int
}

// Checkpoint returns the current allocation position.
func (a *Arena) Checkpoint() Checkpoint {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Checkpoint{blk: a.current, mark: a.current.used}
}

// Restore rewinds the arena to cp, invalidating every slice returned by
// Alloc after the checkpoint was taken. Blocks allocated after cp remain
// linked (their used cursor is reset to zero) so they are reused by the
// next allocation rather than discarded; the original C allocator frees
// them, but reuse is the natural translation under a GC.
func (a *Arena) Restore(cp Checkpoint) {
	a.mu.Lock()
	defer a.mu.Unlock()
	cp.blk.used = cp.mark
	for b := cp.blk.next; b != nil; b = b.next {
		b.used = 0
	}
	a.current = cp.blk
}

// Reset reclaims every block back to empty, equivalent to Restore to the
// very first checkpoint of the arena's life.
func (a *Arena) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for b := a.head; b != nil; b = b.next {
		b.used = 0
	}
	a.current = a.head
}

func (a *Arena) usedLocked() int64 {
	var total int64
	for b := a.head; b != nil; b = b.next {
		total += int64(b.used)
	}
	return total
}

// Used returns the total number of bytes currently live across all blocks.
func (a *Arena) Used() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.usedLocked()
}

// Peak returns the high-water mark of Used observed over the arena's life.
func (a *Arena) Peak() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.peakUsage
}

// Slice carves a zeroed []T of length n out of a, aligned for T. The
// returned slice is invalidated by any Reset or Restore past its
// allocation point, like every other arena allocation.
func Slice[T any](a *Arena, n int) []T {
	if n == 0 {
		return nil
	}
	var t T
	size := int(unsafe.Sizeof(t))
	buf := a.AllocAligned(n*size, int(unsafe.Alignof(t)))
	return unsafe.Slice((*T)(unsafe.Pointer(&buf[0])), n)
}

// scratchPool hands out per-worker scratch arenas. Go has no thread
// identity to key a true thread-local on; a sync.Pool is the idiomatic
// equivalent — each worker goroutine acquires a private arena for the
// duration of one batch, so concurrent workers never share one.
var scratchPool = sync.Pool{
	New: func() any { return New(ScratchSize) },
}

// AcquireScratch returns a scratch arena owned exclusively by the
// caller until it is released.
func AcquireScratch() *Arena {
	return scratchPool.Get().(*Arena)
}

// ReleaseScratch resets a and returns it to the pool for the next
// worker.
func ReleaseScratch(a *Arena) {
	a.Reset()
	scratchPool.Put(a)
}
