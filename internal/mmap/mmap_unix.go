//go:build unix

// Package mmap provides platform-specific helpers for mapping anonymous,
// page-aligned memory outside the Go heap.
package mmap

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Supported reports whether Anon returns memory outside the Go heap.
const Supported = true

// Anon maps size bytes of zeroed, private, read-write memory.
func Anon(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("mmap: invalid size %d", size)
	}
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("mmap: map %d bytes: %w", size, err)
	}
	return data, nil
}

// Unmap releases a mapping returned by Anon. data must be the exact slice
// Anon returned.
func Unmap(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	err := unix.Munmap(data)
	if errors.Is(err, unix.EINVAL) {
		// Treat double-unmap as no-op for callers.
		return nil
	}
	return err
}
