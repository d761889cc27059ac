package sysmem

import (
	"fmt"
	"sync/atomic"

	"github.com/joshuapare/poolkit/internal/align"
)

const (
	defaultHeapAlignment = 64

	// maxHeapAlloc caps single requests so that an absurd size is reported as
	// exhaustion instead of crashing the runtime.
	maxHeapAlloc = 1 << 40
)

// Heap allocates from the Go heap. Blocks are aligned by over-allocating
// and shifting the slice, and Free only updates accounting.
type Heap struct {
	alignment int
	live      atomic.Int64
}

// NewHeap returns a Heap whose blocks start on a multiple of alignment.
// Non-power-of-two alignments fall back to 64.
func NewHeap(alignment int) *Heap {
	if !align.IsPow2(alignment) {
		alignment = defaultHeapAlignment
	}
	return &Heap{alignment: alignment}
}

// Alloc implements Allocator.
func (h *Heap) Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	total, ok := align.AddOverflowSafe(size, h.alignment)
	if !ok || total > maxHeapAlloc {
		return nil, fmt.Errorf("%w: heap request of %d bytes", ErrExhausted, size)
	}

	buf := make([]byte, total) // padding for alignment
	addr := base(buf)
	shift := int(align.UpPtr(addr, uintptr(h.alignment)) - addr)
	h.live.Add(int64(size))
	return buf[shift : size+shift : size+shift], nil
}

// Free implements Allocator.
func (h *Heap) Free(b []byte) error {
	h.live.Add(-int64(cap(b)))
	return nil
}

// Live returns the bytes handed out and not yet freed.
func (h *Heap) Live() int64 {
	return h.live.Load()
}

var _ Allocator = (*Heap)(nil)
