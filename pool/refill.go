package pool

import "unsafe"

// refill serves a request whose free list is empty. It asks the chunk
// allocator for RefillBatch blocks of blockSize bytes, returns the first and
// pushes the rest onto the class list.
func (p *Pool) refill(blockSize int) (unsafe.Pointer, error) {
	addr, n, err := p.chunk.requestBlocks(blockSize, p.cfg.RefillBatch)
	if err != nil {
		return nil, err
	}
	p.stats.Refills++
	p.stats.RefillBlocks += int64(n)

	if n == 1 {
		return addr, nil
	}
	p.lists.thread(p.classes.index(blockSize), unsafe.Add(addr, blockSize), n-1, blockSize)
	return addr, nil
}
