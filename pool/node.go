package pool

import "unsafe"

// This file is the only place that treats pool memory as anything other
// than bytes.
//
// While a block sits on a free list its first machine word holds a pointer
// to the next free block of the same class; nil ends the list. Once a block
// is popped its contents belong to the caller and the old link is garbage.
//
// Blocks are always addressed through unsafe.Pointer values derived from a
// chunk's backing array with unsafe.Add, never from integers, so heap-backed
// chunks stay valid under checkptr. Every pointer stays inside a chunk held
// in chunkAllocator.chunks, so the memory stays reachable until Release.

const wordSize = int(unsafe.Sizeof(uintptr(0)))

// loadNext reads the link word of the free block at p.
func loadNext(p unsafe.Pointer) unsafe.Pointer {
	return *(*unsafe.Pointer)(p)
}

// storeNext writes the link word of the free block at p.
func storeNext(p, next unsafe.Pointer) {
	*(*unsafe.Pointer)(p) = next
}

// blockAt returns a view of length n and capacity c over the block at p.
func blockAt(p unsafe.Pointer, n, c int) []byte {
	return unsafe.Slice((*byte)(p), c)[:n:c]
}

// blockPtr returns a pointer to the first byte of b's backing array.
func blockPtr(b []byte) unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(b))
}

// addrOf returns the address of b's first byte, for comparisons and keys only.
func addrOf(b []byte) uintptr {
	return uintptr(blockPtr(b))
}
