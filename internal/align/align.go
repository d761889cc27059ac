// Package align holds the power-of-two rounding and overflow-checked
// arithmetic shared by the pool and the system allocators.
package align

// IsPow2 reports whether n is a positive power of two.
func IsPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Up returns n rounded up to the next multiple of a.
// a must be a power of two; this is not checked.
//
// Example:
//
//	Up(1, 8)  = 8
//	Up(8, 8)  = 8
//	Up(9, 8)  = 16
//	Up(17, 16) = 32
func Up(n, a int) int {
	return (n + a - 1) &^ (a - 1)
}

// UpPtr is Up for addresses.
func UpPtr(p, a uintptr) uintptr {
	return (p + a - 1) &^ (a - 1)
}

// Down returns n rounded down to a multiple of a (a power of two).
func Down(n, a int) int {
	return n &^ (a - 1)
}
