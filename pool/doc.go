// Package pool provides a fixed-size-class pool allocator for small blocks.
//
// # Overview
//
// A Pool serves many same-or-similar-sized allocations by recycling released
// blocks through per-size free lists. Fresh blocks are carved with a bump
// pointer from chunks obtained from a system allocator (see package sysmem).
// Requests larger than Config.MaxPooledSize bypass the pool entirely.
//
// # Size Classes
//
// Sizes are rounded up to a multiple of Config.Alignment. With the default
// configuration (8-byte alignment, 128-byte maximum) there are 16 classes:
//
//	Class 0:    1 -   8 bytes
//	Class 1:    9 -  16 bytes
//	Class 2:   17 -  24 bytes
//	...
//	Class 15: 121 - 128 bytes
//
// A free list only ever holds blocks of exactly its class width.
//
// # Allocation Path
//
//	Allocate(size)
//	  size > MaxPooledSize  → system allocator
//	  free list non-empty   → pop (LIFO)
//	  otherwise             → refill: carve RefillBatch blocks from the
//	                          current chunk, hand out the first, keep the rest
//
// When the current chunk cannot supply even one block, its tail is pushed onto
// the free list it exactly fits and a new chunk is requested. The request size
// grows with allocation history:
//
//	2 * RefillBatch * blockSize + roundUp(totalObtained / 16)
//
// If the system refuses, the pool scavenges one idle block from the smallest
// larger non-empty class and carves from that instead. If no such block
// exists it retries the system exactly once more and then fails with
// ErrOutOfMemory.
//
// # Usage Example
//
//	p, err := pool.New(nil)
//	if err != nil {
//	    return err
//	}
//	defer p.Release()
//
//	b, err := p.Allocate(24)
//	if err != nil {
//	    return err
//	}
//	// use b...
//	p.Deallocate(b, 24) // size must match the Allocate call
//
// # Caller Contract
//
// The pool records no per-block metadata. Deallocate must be called with the
// same size that was passed to Allocate, exactly once per block. Violations
// silently corrupt the free lists. Wrap a Pool in a CheckedPool during
// testing to detect them.
//
// # Thread Safety
//
// Pool instances are not thread-safe. Every free-list head and the chunk
// bounds are unsynchronized. Use one Pool per goroutine or guard all calls
// with a single mutex. The sysmem allocators underneath are safe for
// concurrent use.
package pool
