package pool

import (
	"runtime"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeLists_LIFO(t *testing.T) {
	mem := make([]byte, 64)
	base := blockPtr(mem)
	f := newFreeLists(2)

	_, ok := f.pop(0)
	require.False(t, ok, "new list must be empty")

	f.push(0, base)
	f.push(0, unsafe.Add(base, 16))
	f.push(1, unsafe.Add(base, 32))
	assert.Equal(t, 2, f.len(0))
	assert.Equal(t, 3, f.total())

	got, ok := f.pop(0)
	require.True(t, ok)
	assert.Equal(t, unsafe.Add(base, 16), got)
	got, ok = f.pop(0)
	require.True(t, ok)
	assert.Equal(t, base, got)
	_, ok = f.pop(0)
	assert.False(t, ok)

	assert.Equal(t, 1, f.len(1), "other classes are independent")
	runtime.KeepAlive(mem)
}

func TestFreeLists_Thread(t *testing.T) {
	const blockSize = 16
	mem := make([]byte, 5*blockSize)
	base := blockPtr(mem)
	f := newFreeLists(1)

	// An existing head must end up below the threaded run.
	f.push(0, unsafe.Add(base, 4*blockSize))
	f.thread(0, base, 4, blockSize)
	require.Equal(t, 5, f.len(0))

	for i := range 5 {
		got, ok := f.pop(0)
		require.True(t, ok)
		assert.Equal(t, unsafe.Add(base, i*blockSize), got, "pop %d", i)
	}
	_, ok := f.pop(0)
	assert.False(t, ok, "list must be terminated")

	f.thread(0, base, 0, blockSize)
	assert.Zero(t, f.len(0))
	runtime.KeepAlive(mem)
}

func TestFreeLists_Reset(t *testing.T) {
	mem := make([]byte, 16)
	f := newFreeLists(1)
	f.push(0, blockPtr(mem))
	f.reset()
	assert.Zero(t, f.total())
	_, ok := f.pop(0)
	assert.False(t, ok)
	runtime.KeepAlive(mem)
}
