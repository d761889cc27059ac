package sysmem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMmap_AllocFree(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping mmap test in short mode")
	}
	m := NewMmap()

	b, err := m.Alloc(4000)
	require.NoError(t, err)
	require.Len(t, b, 4000)
	require.Equal(t, 4000, cap(b), "capacity must not expose the page tail")
	assert.Equal(t, 1, m.Mappings())

	for i := range b {
		b[i] = 0x5A
	}
	require.NoError(t, m.Free(b))
	assert.Zero(t, m.Mappings())
	assert.Zero(t, m.Mapped())
}

func TestMmap_FreeReslice(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping mmap test in short mode")
	}
	m := NewMmap()
	b, err := m.Alloc(512)
	require.NoError(t, err)

	// Callers may hand back a shorter view of the same block.
	require.NoError(t, m.Free(b[:10]))
	assert.Zero(t, m.Mappings())
}

func TestMmap_FreeUnknown(t *testing.T) {
	m := NewMmap()
	err := m.Free(make([]byte, 8))
	require.ErrorIs(t, err, ErrUnknownBlock)
	require.NoError(t, m.Free(nil), "empty free is a no-op")
}

func TestMmap_InvalidSize(t *testing.T) {
	_, err := NewMmap().Alloc(0)
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestHeap_Alignment(t *testing.T) {
	for _, a := range []int{8, 16, 64, 4096} {
		h := NewHeap(a)
		for _, size := range []int{1, 7, 100, 129, 5000} {
			b, err := h.Alloc(size)
			require.NoError(t, err)
			require.Len(t, b, size)
			assert.Zero(t, base(b)%uintptr(a), "alignment %d size %d", a, size)
		}
	}
}

func TestHeap_LiveAccounting(t *testing.T) {
	h := NewHeap(3) // not a power of two: falls back to the default
	b, err := h.Alloc(100)
	require.NoError(t, err)
	assert.Zero(t, base(b)%defaultHeapAlignment)
	assert.Equal(t, int64(100), h.Live())
	require.NoError(t, h.Free(b))
	assert.Zero(t, h.Live())
}

func TestHeap_HugeRequestIsExhaustion(t *testing.T) {
	_, err := NewHeap(8).Alloc(maxHeapAlloc + 1)
	require.ErrorIs(t, err, ErrExhausted)
}

func TestLimit_Budget(t *testing.T) {
	l := Limit(NewHeap(8), 1000)

	a, err := l.Alloc(600)
	require.NoError(t, err)
	assert.Equal(t, 600, l.Used())

	_, err = l.Alloc(500)
	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 1, l.Denied())
	assert.Equal(t, 600, l.Used(), "denied request must not be charged")

	require.NoError(t, l.Free(a))
	assert.Zero(t, l.Used())

	_, err = l.Alloc(500)
	require.NoError(t, err, "freed bytes return to the budget")
}

func TestLimit_SetBudget(t *testing.T) {
	l := Limit(NewHeap(8), 0)
	_, err := l.Alloc(8)
	require.ErrorIs(t, err, ErrExhausted)

	l.SetBudget(64)
	_, err = l.Alloc(8)
	require.NoError(t, err)
}

func TestLimit_FreeUnknown(t *testing.T) {
	l := Limit(NewHeap(8), 64)
	require.ErrorIs(t, l.Free(make([]byte, 4)), ErrUnknownBlock)
}

func TestDefault(t *testing.T) {
	a := Default()
	require.NotNil(t, a)
	b, err := a.Alloc(256)
	require.NoError(t, err)
	require.Len(t, b, 256)
	require.NoError(t, a.Free(b))
}
