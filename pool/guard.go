package pool

// Guard owns one block and gives it back to its Pool on Release.
//
//	g, err := pool.Acquire(p, 64)
//	if err != nil {
//	    return err
//	}
//	defer g.Release()
type Guard struct {
	pool *Pool
	buf  []byte
	size int
}

// Acquire allocates size bytes from p and wraps them in a Guard.
func Acquire(p *Pool, size int) (*Guard, error) {
	b, err := p.Allocate(size)
	if err != nil {
		return nil, err
	}
	return &Guard{pool: p, buf: b, size: size}, nil
}

// Bytes returns the guarded block, or nil after Release.
func (g *Guard) Bytes() []byte {
	return g.buf
}

// Release deallocates the block. Calling it more than once is a no-op.
func (g *Guard) Release() {
	if g.buf == nil {
		return
	}
	g.pool.Deallocate(g.buf, g.size)
	g.buf = nil
}
