//go:build unix

// Package arena provides the backing memory region for allocators.
package arena

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Map returns a zero-filled anonymous mapping of size bytes together with a
// release function. The mapping is private to the process and page-aligned,
// so the allocator's unit alignment holds for the backing memory itself.
func Map(size int) ([]byte, func() error, error) {
	if size < 0 {
		return nil, nil, fmt.Errorf("arena: negative size %d", size)
	}
	if size == 0 {
		return []byte{}, func() error { return nil }, nil
	}
	data, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, nil, fmt.Errorf("arena: mmap %d bytes: %w", size, err)
	}
	release := func() error {
		if data == nil {
			return nil
		}
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-release as no-op for callers.
			return nil
		}
		return err
	}
	return data, release, nil
}
