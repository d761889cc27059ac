package pool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/poolkit/pool/sysmem"
)

// scriptedSystem is a heap-backed system allocator that records every
// request and refuses the ones failAt selects.
type scriptedSystem struct {
	heap   *sysmem.Heap
	failAt func(call, size int) bool

	calls int
	sizes []int
	frees int
}

func newScriptedSystem() *scriptedSystem {
	return &scriptedSystem{heap: sysmem.NewHeap(64)}
}

func (s *scriptedSystem) Alloc(size int) ([]byte, error) {
	call := s.calls
	s.calls++
	s.sizes = append(s.sizes, size)
	if s.failAt != nil && s.failAt(call, size) {
		return nil, sysmem.ErrExhausted
	}
	return s.heap.Alloc(size)
}

func (s *scriptedSystem) Free(b []byte) error {
	s.frees++
	return s.heap.Free(b)
}

// failFrom refuses every request starting with call n (zero-based).
func failFrom(n int) func(int, int) bool {
	return func(call, _ int) bool { return call >= n }
}

// failCalls refuses exactly the listed calls.
func failCalls(calls ...int) func(int, int) bool {
	return func(call, _ int) bool {
		for _, c := range calls {
			if c == call {
				return true
			}
		}
		return false
	}
}

// newTestPool creates a pool over a scripted system allocator.
func newTestPool(t testing.TB, cfg *Config) (*Pool, *scriptedSystem) {
	t.Helper()
	sys := newScriptedSystem()
	p, err := New(&Options{Config: cfg, System: sys})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Release() })
	return p, sys
}

// mustAlloc allocates size bytes and returns the block address.
func mustAlloc(t testing.TB, p *Pool, size int) (uintptr, []byte) {
	t.Helper()
	b, err := p.Allocate(size)
	require.NoError(t, err)
	require.Len(t, b, size)
	return addrOf(b), b
}
