package align

import "github.com/JohnCGriffin/overflow"

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	return overflow.Add(a, b)
}

// MulOverflowSafe multiplies two non-negative ints, returning ok = false on overflow.
// Growth sizes are always count * blockSize products, so negative operands are
// reported as overflow rather than handled.
func MulOverflowSafe(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	return overflow.Mul(a, b)
}
