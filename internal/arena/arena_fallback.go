//go:build !unix

// Package arena provides the backing memory region for allocators.
package arena

import "fmt"

// Map returns a heap-backed region when anonymous mmap is not available.
func Map(size int) ([]byte, func() error, error) {
	if size < 0 {
		return nil, nil, fmt.Errorf("arena: negative size %d", size)
	}
	return make([]byte, size), func() error { return nil }, nil
}
