package sysmem

import (
	"fmt"
	"sync"

	"github.com/joshuapare/poolkit/internal/mmap"
)

// Mmap hands out anonymous page mappings. Each Alloc is its own mapping, so
// small requests still cost a whole page.
type Mmap struct {
	mu       sync.Mutex
	mappings map[uintptr][]byte // base address -> original mapping
	mapped   int64
}

// NewMmap creates an empty Mmap allocator.
func NewMmap() *Mmap {
	return &Mmap{mappings: make(map[uintptr][]byte)}
}

// Alloc implements Allocator.
func (m *Mmap) Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	data, err := mmap.Anon(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExhausted, err)
	}

	m.mu.Lock()
	m.mappings[base(data)] = data
	m.mapped += int64(len(data))
	m.mu.Unlock()

	return data[:size:size], nil
}

// Free implements Allocator.
func (m *Mmap) Free(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	key := base(b)

	m.mu.Lock()
	data, ok := m.mappings[key]
	if ok {
		delete(m.mappings, key)
		m.mapped -= int64(len(data))
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: 0x%x", ErrUnknownBlock, key)
	}
	return mmap.Unmap(data)
}

// Mapped returns the number of bytes currently mapped.
func (m *Mmap) Mapped() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mapped
}

// Mappings returns the number of live mappings.
func (m *Mmap) Mappings() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.mappings)
}

var _ Allocator = (*Mmap)(nil)
