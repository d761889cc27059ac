package pool

import (
	"errors"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/joshuapare/poolkit/internal/align"
	"github.com/joshuapare/poolkit/pool/sysmem"
)

// phase names the step of requestBlocks that produced memory.
type phase uint8

const (
	phaseCarve      phase = iota // current chunk
	phaseGrow                    // new chunk from the system
	phaseScavenge                // idle block from a larger class
	phaseLastResort              // second system request after a failed scavenge
)

func (ph phase) String() string {
	switch ph {
	case phaseCarve:
		return "carve"
	case phaseGrow:
		return "grow"
	case phaseScavenge:
		return "scavenge"
	case phaseLastResort:
		return "last-resort"
	default:
		return "unknown"
	}
}

// chunkAllocator owns the bump region [start, start+avail) and the growth ledger.
type chunkAllocator struct {
	classes *sizeClassTable
	lists   *freeLists
	sys     sysmem.Allocator
	log     *slog.Logger
	stats   *Stats

	// start is nil whenever avail is 0, so it never points past a chunk.
	start unsafe.Pointer
	avail int

	// total is the growth ledger: bytes ever obtained from sys. It only increases.
	total int

	// chunks keeps every system grant reachable until release.
	chunks [][]byte

	// Test hook: called with the request size before every system request (nil in production)
	onGrow func(int)
}

// available returns the bytes left in the current chunk.
func (c *chunkAllocator) available() int {
	return c.avail
}

// requestBlocks hands out up to want contiguous blocks of blockSize bytes and
// reports how many it granted (at least one).
//
// Three phases run in order, each only when the previous one produced
// nothing: carve the current chunk, grow a new chunk from the system,
// scavenge an idle block of a larger class. After a failed scavenge the
// system is asked exactly once more; if that also fails the result is
// ErrOutOfMemory. Any memory installed by grow, scavenge or the final
// request holds at least one block, so the closing carve always succeeds.
func (c *chunkAllocator) requestBlocks(blockSize, want int) (unsafe.Pointer, int, error) {
	need, ok := align.MulOverflowSafe(want, blockSize)
	if !ok {
		return nil, 0, fmt.Errorf("%w: batch of %d x %d bytes overflows", ErrOutOfMemory, want, blockSize)
	}

	if addr, n, ok := c.carve(blockSize, want, need); ok {
		return addr, n, nil
	}

	c.spill()

	size, ok := c.growthSize(need)
	if !ok {
		return nil, 0, fmt.Errorf("%w: growth size overflows (need=%d, ledger=%d)",
			ErrOutOfMemory, need, c.total)
	}

	via := phaseGrow
	err := c.grow(size)
	if err != nil {
		c.log.Warn("pool: system allocation failed, scavenging",
			"size", size, "block", blockSize, "err", err)
		via = phaseScavenge
		if !c.scavenge(blockSize) {
			via = phaseLastResort
			c.stats.LastResorts++
			if retryErr := c.grow(size); retryErr != nil {
				c.stats.OutOfMemory++
				c.log.Error("pool: out of memory",
					"size", size, "block", blockSize, "ledger", c.total, "err", retryErr)
				return nil, 0, fmt.Errorf("%w: %d-byte blocks after scavenge and retry: %w",
					ErrOutOfMemory, blockSize, errors.Join(err, retryErr))
			}
		}
	}

	addr, n, _ := c.carve(blockSize, want, need)
	c.log.Debug("pool: blocks granted", "phase", via, "block", blockSize, "granted", n)
	return addr, n, nil
}

// carve takes want blocks from the current chunk, or as many whole blocks
// as remain when that is fewer. It fails only when not even one block fits.
func (c *chunkAllocator) carve(blockSize, want, need int) (unsafe.Pointer, int, bool) {
	avail := c.available()
	n := want
	switch {
	case avail >= need:
	case avail >= blockSize:
		n = avail / blockSize
		c.stats.PartialGrants++
	default:
		return nil, 0, false
	}
	addr := c.start
	c.consume(n * blockSize)
	return addr, n, true
}

// install makes [p, p+size) the current chunk.
func (c *chunkAllocator) install(p unsafe.Pointer, size int) {
	c.start, c.avail = p, size
}

// consume advances start by n bytes. An exhausted chunk drops its pointer
// instead of holding one past the end of the allocation.
func (c *chunkAllocator) consume(n int) {
	c.avail -= n
	if c.avail == 0 {
		c.start = nil
		return
	}
	c.start = unsafe.Add(c.start, n)
}

// spill pushes the tail of the current chunk onto the free list of the class
// it exactly equals. The tail is a multiple of the alignment and smaller than
// the block that did not fit, so that class always exists.
func (c *chunkAllocator) spill() {
	rem := c.available()
	if rem == 0 {
		return
	}
	c.lists.push(c.classes.index(rem), c.start)
	c.consume(rem)
	c.stats.Spills++
	c.stats.SpillBytes += int64(rem)
}

// growthSize returns 2*need + roundUp(total/16).
func (c *chunkAllocator) growthSize(need int) (int, bool) {
	twice, ok := align.MulOverflowSafe(need, 2)
	if !ok {
		return 0, false
	}
	return align.AddOverflowSafe(twice, c.classes.roundUp(c.total>>4))
}

// grow installs a fresh chunk of exactly size bytes.
func (c *chunkAllocator) grow(size int) error {
	if c.onGrow != nil {
		c.onGrow(size)
	}
	c.stats.GrowCalls++

	mem, err := c.sys.Alloc(size)
	if err != nil {
		c.stats.GrowFailures++
		return err
	}

	c.chunks = append(c.chunks, mem)
	c.install(blockPtr(mem), size)
	c.total += size
	c.stats.GrowBytes += int64(size)

	c.log.Debug("pool: chunk obtained", "size", size, "ledger", c.total, "chunks", len(c.chunks))
	return nil
}

// scavenge pops one block from the smallest non-empty class strictly larger
// than blockSize's and makes it the current chunk.
func (c *chunkAllocator) scavenge(blockSize int) bool {
	for class := c.classes.index(blockSize) + 1; class < c.classes.numClasses; class++ {
		addr, ok := c.lists.pop(class)
		if !ok {
			continue
		}
		size := c.classes.classSize(class)
		c.install(addr, size)
		c.stats.Scavenges++
		c.log.Debug("pool: scavenged free block", "class", class, "size", size, "block", blockSize)
		return true
	}
	return false
}

// release returns every chunk to the system and empties the region.
func (c *chunkAllocator) release() error {
	var errs []error
	for _, mem := range c.chunks {
		if err := c.sys.Free(mem); err != nil {
			errs = append(errs, err)
		}
	}
	c.chunks = nil
	c.install(nil, 0)
	return errors.Join(errs...)
}
