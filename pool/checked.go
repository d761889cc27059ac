package pool

import (
	"fmt"
	"runtime"
)

// checkedCallerFrames selects the caller of CheckedPool.Allocate.
const checkedCallerFrames = 1

// CheckedPool wraps a Pool with a side table of live blocks and their sizes.
// It turns the caller-contract violations a bare Pool cannot see (wrong size,
// double free, foreign block) into errors and reports leaks.
//
// It is meant for tests and debugging. Like Pool, it is not safe for
// concurrent use.
type CheckedPool struct {
	pool *Pool
	live map[uintptr]checkedBlock
	sz   int
}

type checkedBlock struct {
	size int
	pc   uintptr
	line int
}

// NewCheckedPool wraps p.
func NewCheckedPool(p *Pool) *CheckedPool {
	return &CheckedPool{pool: p, live: make(map[uintptr]checkedBlock)}
}

// Pool returns the wrapped pool.
func (c *CheckedPool) Pool() *Pool { return c.pool }

// CurrentAlloc returns the bytes requested by live blocks.
func (c *CheckedPool) CurrentAlloc() int { return c.sz }

// Live returns the number of live blocks.
func (c *CheckedPool) Live() int { return len(c.live) }

// Allocate allocates through the wrapped pool and records the block.
func (c *CheckedPool) Allocate(size int) ([]byte, error) {
	b, err := c.pool.Allocate(size)
	if err != nil {
		return nil, err
	}
	info := checkedBlock{size: size}
	if pc, _, line, ok := runtime.Caller(checkedCallerFrames); ok {
		info.pc, info.line = pc, line
	}
	c.live[addrOf(b)] = info
	c.sz += size
	return b, nil
}

// Deallocate checks b against the side table and forwards it to the wrapped
// pool. A block that was never allocated here, was already deallocated, or is
// released with a different size is rejected without touching the pool.
func (c *CheckedPool) Deallocate(b []byte, size int) error {
	if cap(b) == 0 {
		return nil
	}
	addr := addrOf(b)
	info, ok := c.live[addr]
	if !ok {
		return fmt.Errorf("%w: %#x", ErrUnknownBlock, addr)
	}
	if info.size != size {
		return fmt.Errorf("%w: block %#x allocated with %d bytes, released with %d",
			ErrSizeMismatch, addr, info.size, size)
	}
	delete(c.live, addr)
	c.sz -= size
	c.pool.Deallocate(b, size)
	return nil
}

// TestingT is the subset of testing.TB used by AssertSize.
type TestingT interface {
	Errorf(format string, args ...any)
	Helper()
}

// AssertSize fails t when the live bytes differ from sz, listing every live
// block and where it was allocated.
func (c *CheckedPool) AssertSize(t TestingT, sz int) {
	t.Helper()
	if c.sz == sz {
		return
	}
	for addr, info := range c.live {
		name := "unknown"
		if f := runtime.FuncForPC(info.pc); f != nil {
			name = f.Name()
		}
		t.Errorf("LEAK of %d bytes at %#x FROM %s line %d", info.size, addr, name, info.line)
	}
	t.Errorf("invalid memory size exp=%d, got=%d", sz, c.sz)
}
