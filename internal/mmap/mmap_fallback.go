//go:build !unix && !windows

// Package mmap provides platform-specific helpers for mapping anonymous,
// page-aligned memory outside the Go heap.
package mmap

import "fmt"

// Supported reports whether Anon returns memory outside the Go heap.
const Supported = false

// Anon allocates from the Go heap when mmap is not available.
func Anon(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("mmap: invalid size %d", size)
	}
	return make([]byte, size), nil
}

// Unmap is a no-op; the garbage collector reclaims the memory.
func Unmap(data []byte) error {
	return nil
}
