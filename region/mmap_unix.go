//go:build linux || darwin || freebsd || netbsd || openbsd

package region

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Map reserves an anonymous private read/write mapping of at least length
// bytes, rounded up to the page size.
func Map(length uint) (*Region, error) {
	if length == 0 {
		return nil, ErrEmpty
	}
	page := uint(unix.Getpagesize())
	size := (length + page - 1) &^ (page - 1)
	data, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("%w: mmap %d bytes: %w", ErrNoMemory, size, err)
	}
	return newRegion(data, func() error {
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		return err
	}), nil
}
