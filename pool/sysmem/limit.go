package sysmem

import (
	"fmt"
	"sync"
)

// Limited enforces a byte budget in front of another Allocator. Requests
// that would push usage past the budget fail with ErrExhausted without
// reaching the wrapped allocator.
type Limited struct {
	next Allocator

	mu     sync.Mutex
	budget int
	used   int
	sizes  map[uintptr]int // base address -> charged bytes
	denied int
}

// Limit wraps a with a budget of budget bytes.
func Limit(a Allocator, budget int) *Limited {
	return &Limited{
		next:   a,
		budget: budget,
		sizes:  make(map[uintptr]int),
	}
}

// Alloc implements Allocator.
func (l *Limited) Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	l.mu.Lock()
	if l.used+size > l.budget {
		l.denied++
		used, budget := l.used, l.budget
		l.mu.Unlock()
		return nil, fmt.Errorf("%w: request %d exceeds budget (used=%d, budget=%d)",
			ErrExhausted, size, used, budget)
	}
	l.used += size
	l.mu.Unlock()

	b, err := l.next.Alloc(size)
	if err != nil {
		l.mu.Lock()
		l.used -= size
		l.mu.Unlock()
		return nil, err
	}

	l.mu.Lock()
	l.sizes[base(b)] = size
	l.mu.Unlock()
	return b, nil
}

// Free implements Allocator.
func (l *Limited) Free(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	key := base(b)

	l.mu.Lock()
	size, ok := l.sizes[key]
	if ok {
		delete(l.sizes, key)
		l.used -= size
	}
	l.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: 0x%x", ErrUnknownBlock, key)
	}
	return l.next.Free(b)
}

// SetBudget changes the budget. Lowering it below Used does not reclaim anything;
// it only denies further requests.
func (l *Limited) SetBudget(budget int) {
	l.mu.Lock()
	l.budget = budget
	l.mu.Unlock()
}

// Used returns the bytes currently charged against the budget.
func (l *Limited) Used() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.used
}

// Denied returns how many requests were refused.
func (l *Limited) Denied() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.denied
}

var _ Allocator = (*Limited)(nil)
