// Package sysmem supplies the system allocators a pool obtains chunks and
// oversized blocks from.
//
// Three implementations are provided:
//
//   - Mmap: page mappings outside the Go heap (mmap on unix, VirtualAlloc on
//     windows, plain heap slices elsewhere)
//   - Heap: Go heap slices over-allocated and shifted to a fixed alignment
//   - Limited: a byte budget in front of another Allocator, used to model an
//     exhausted system
//
// All implementations are safe for concurrent use.
package sysmem

import (
	"errors"
	"unsafe"

	"github.com/joshuapare/poolkit/internal/mmap"
)

var (
	// ErrExhausted indicates the system could not supply the requested bytes.
	ErrExhausted = errors.New("sysmem: memory exhausted")

	// ErrUnknownBlock indicates Free was given memory this allocator did not hand out.
	ErrUnknownBlock = errors.New("sysmem: unknown block")

	// ErrInvalidSize indicates a non-positive allocation size.
	ErrInvalidSize = errors.New("sysmem: invalid size")
)

// Allocator is the lower layer beneath a pool.
//
// Alloc returns exactly size bytes or an error wrapping ErrExhausted. Free
// accepts the slice returned by Alloc, or any reslice of it that starts at
// the same address.
type Allocator interface {
	Alloc(size int) ([]byte, error)
	Free(b []byte) error
}

// Default returns the preferred allocator for the current platform.
func Default() Allocator {
	if mmap.Supported {
		return NewMmap()
	}
	return NewHeap(defaultHeapAlignment)
}

// base returns the address of the first byte of b.
func base(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}
