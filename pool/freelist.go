package pool

import "unsafe"

// freeLists is the bank of per-class LIFO stacks. Heads point at free
// blocks, threaded through their link words (see node.go).
type freeLists struct {
	heads  []unsafe.Pointer
	counts []int
}

func newFreeLists(numClasses int) *freeLists {
	return &freeLists{
		heads:  make([]unsafe.Pointer, numClasses),
		counts: make([]int, numClasses),
	}
}

// pop removes and returns the head of class, if any.
func (f *freeLists) pop(class int) (unsafe.Pointer, bool) {
	head := f.heads[class]
	if head == nil {
		return nil, false
	}
	f.heads[class] = loadNext(head)
	f.counts[class]--
	return head, true
}

// push makes p the new head of class. The caller guarantees p is a block of
// exactly this class that nothing else references.
func (f *freeLists) push(class int, p unsafe.Pointer) {
	storeNext(p, f.heads[class])
	f.heads[class] = p
	f.counts[class]++
}

// thread links n contiguous blocks of blockSize bytes starting at first and
// installs them as the head of class, first block on top. The last block
// links to the previous head, which is nil when a refill runs on an empty list.
func (f *freeLists) thread(class int, first unsafe.Pointer, n, blockSize int) {
	if n <= 0 {
		return
	}
	cur := first
	for range n - 1 {
		next := unsafe.Add(cur, blockSize)
		storeNext(cur, next)
		cur = next
	}
	storeNext(cur, f.heads[class])
	f.heads[class] = first
	f.counts[class] += n
}

// len returns the number of free blocks in class.
func (f *freeLists) len(class int) int {
	return f.counts[class]
}

// total returns the number of free blocks across all classes.
func (f *freeLists) total() int {
	n := 0
	for _, c := range f.counts {
		n += c
	}
	return n
}

// reset forgets every list without touching block memory.
func (f *freeLists) reset() {
	clear(f.heads)
	clear(f.counts)
}
