package pool

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/poolkit/internal/mmap"
	"github.com/joshuapare/poolkit/pool/sysmem"
)

// mmapAlignment is the smallest page size the pool assumes for mapped chunks.
const mmapAlignment = 4096

// Pool is a size-class pool allocator. Each Pool is an independent arena;
// the zero value is not usable, create one with New.
//
// A Pool is not safe for concurrent use.
type Pool struct {
	cfg     Config
	classes *sizeClassTable
	lists   *freeLists
	chunk   *chunkAllocator
	sys     sysmem.Allocator
	log     *slog.Logger
	zero    bool

	stats    Stats
	released bool
}

// New creates a Pool. opts may be nil.
func New(opts *Options) (*Pool, error) {
	if opts == nil {
		opts = &Options{}
	}

	cfg := DefaultConfig
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sys := opts.System
	if sys == nil {
		sys = defaultSystem(cfg.Alignment)
	}
	logger := opts.Logger
	if logger == nil {
		logger = defaultLogger()
	}

	p := &Pool{
		cfg:     cfg,
		classes: newSizeClassTable(cfg),
		lists:   newFreeLists(cfg.NumClasses()),
		sys:     sys,
		log:     logger,
		zero:    opts.Zero,
	}
	p.chunk = &chunkAllocator{
		classes: p.classes,
		lists:   p.lists,
		sys:     sys,
		log:     logger,
		stats:   &p.stats,
	}
	return p, nil
}

// defaultSystem picks sysmem.Default when its blocks are aligned enough.
func defaultSystem(alignment int) sysmem.Allocator {
	if mmap.Supported && alignment <= mmapAlignment {
		return sysmem.Default()
	}
	return sysmem.NewHeap(max(alignment, 64))
}

// Allocate returns a block of size bytes. The block's capacity is size
// rounded up to the class width; its contents are unspecified unless the
// pool was created with Options.Zero.
//
// Requests larger than MaxPooledSize go straight to the system allocator.
// The only failure for a positive size is an error wrapping ErrOutOfMemory.
func (p *Pool) Allocate(size int) ([]byte, error) {
	if p.released {
		return nil, ErrReleased
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	p.stats.AllocCalls++

	if !p.classes.pooled(size) {
		return p.allocateOversize(size)
	}

	class := p.classes.index(size)
	blockSize := p.classes.classSize(class)

	addr, ok := p.lists.pop(class)
	if ok {
		p.stats.AllocFastPath++
	} else {
		var err error
		if addr, err = p.refill(blockSize); err != nil {
			return nil, err
		}
	}

	b := blockAt(addr, size, blockSize)
	if p.zero {
		clear(b[:blockSize])
	}
	return b, nil
}

// MustAllocate is like Allocate but panics on failure. It never returns nil.
func (p *Pool) MustAllocate(size int) []byte {
	b, err := p.Allocate(size)
	if err != nil {
		panic(err)
	}
	return b
}

// TryAllocate is like Allocate but returns nil on failure.
func (p *Pool) TryAllocate(size int) []byte {
	b, err := p.Allocate(size)
	if err != nil {
		return nil
	}
	return b
}

func (p *Pool) allocateOversize(size int) ([]byte, error) {
	b, err := p.sys.Alloc(size)
	if err != nil {
		p.stats.OutOfMemory++
		return nil, fmt.Errorf("%w: oversize request of %d bytes: %w", ErrOutOfMemory, size, err)
	}
	p.stats.OversizeAllocs++
	p.stats.OversizeBytes += int64(size)
	if p.zero {
		clear(b)
	}
	return b[:size:size], nil
}

// Deallocate returns b to the pool. size must equal the size b was
// allocated with; the pool cannot detect a mismatch. Pooled blocks go onto
// the free list of their class, oversized blocks back to the system.
//
// Deallocate never panics on a valid block. A nil b or a non-positive size
// is ignored. After Release, pooled blocks are ignored but oversized blocks
// are still returned to the system.
func (p *Pool) Deallocate(b []byte, size int) {
	if cap(b) == 0 {
		return
	}
	if size <= 0 {
		p.log.Warn("pool: deallocate with non-positive size ignored", "size", size)
		return
	}

	if !p.classes.pooled(size) {
		p.stats.FreeCalls++
		p.stats.OversizeFrees++
		p.stats.OversizeBytes -= int64(size)
		if err := p.sys.Free(b); err != nil {
			p.log.Warn("pool: system free failed", "size", size, "err", err)
		}
		return
	}
	if p.released {
		return
	}
	p.stats.FreeCalls++
	p.lists.push(p.classes.index(size), blockPtr(b))
}

// Release returns every chunk to the system allocator. All blocks handed out
// by the pool, pooled or not yet deallocated, become invalid. Oversized
// blocks still held by callers stay valid and may still be deallocated.
// Release is idempotent.
func (p *Pool) Release() error {
	if p.released {
		return nil
	}
	p.released = true
	p.lists.reset()
	return p.chunk.release()
}

// Config returns the pool's configuration.
func (p *Pool) Config() Config {
	return p.cfg
}

// RoundUp returns the block width a request of size bytes occupies.
// Oversized requests are returned unchanged.
func (p *Pool) RoundUp(size int) int {
	if size <= 0 || !p.classes.pooled(size) {
		return size
	}
	return p.classes.roundUp(size)
}

// ClassOf returns the size class serving size, or -1 when size is not pooled.
func (p *Pool) ClassOf(size int) int {
	if size <= 0 || !p.classes.pooled(size) {
		return -1
	}
	return p.classes.index(size)
}

// FreeCount returns the number of free blocks held for class.
func (p *Pool) FreeCount(class int) int {
	if class < 0 || class >= p.classes.numClasses {
		return 0
	}
	return p.lists.len(class)
}

// ChunkAvailable returns the bytes left in the current chunk.
func (p *Pool) ChunkAvailable() int {
	return p.chunk.available()
}

// Footprint returns the total bytes ever obtained from the system for chunks.
func (p *Pool) Footprint() int {
	return p.chunk.total
}

// Chunks returns the number of chunks obtained from the system.
func (p *Pool) Chunks() int {
	return len(p.chunk.chunks)
}
