package align

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPow2(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8, 16, 4096, 1 << 40} {
		assert.True(t, IsPow2(n), "IsPow2(%d)", n)
	}
	for _, n := range []int{0, -8, 3, 6, 12, 24, 4097} {
		assert.False(t, IsPow2(n), "IsPow2(%d)", n)
	}
}

func TestUp(t *testing.T) {
	tests := []struct {
		n, a, want int
	}{
		{1, 8, 8},
		{7, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{128, 8, 128},
		{129, 8, 136},
		{17, 16, 32},
		{0, 8, 0},
		{1, 4096, 4096},
		{4097, 4096, 8192},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Up(tt.n, tt.a), "Up(%d, %d)", tt.n, tt.a)
	}
}

func TestUpPtrAndDown(t *testing.T) {
	assert.Equal(t, uintptr(64), UpPtr(33, 64))
	assert.Equal(t, uintptr(64), UpPtr(64, 64))
	assert.Equal(t, 8, Down(15, 8))
	assert.Equal(t, 16, Down(16, 8))
	assert.Equal(t, 0, Down(7, 8))
}

func TestAddOverflowSafe(t *testing.T) {
	sum, ok := AddOverflowSafe(10, 5)
	require.True(t, ok)
	require.Equal(t, 15, sum)

	_, ok = AddOverflowSafe(math.MaxInt, 1)
	require.False(t, ok, "expected overflow when adding to MaxInt")

	_, ok = AddOverflowSafe(math.MinInt, -1)
	require.False(t, ok, "expected underflow when subtracting from MinInt")
}

func TestMulOverflowSafe(t *testing.T) {
	p, ok := MulOverflowSafe(16, 128)
	require.True(t, ok)
	require.Equal(t, 2048, p)

	p, ok = MulOverflowSafe(0, math.MaxInt)
	require.True(t, ok)
	require.Zero(t, p)

	_, ok = MulOverflowSafe(math.MaxInt/2, 3)
	require.False(t, ok)

	_, ok = MulOverflowSafe(-1, 8)
	require.False(t, ok, "negative operands are rejected")
}
