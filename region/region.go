// Package region obtains memory that lives outside the Go heap, suitable for
// handing to a heap's Init as an unused region.
package region

import (
	"errors"
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/phuslu/log"
	"github.com/smasher164/mem"
)

var (
	// ErrEmpty indicates a request for a zero-length region.
	ErrEmpty = errors.New("region: zero length")

	// ErrNoMemory indicates the operating system refused the request.
	ErrNoMemory = errors.New("region: out of memory")
)

// Region is a contiguous block of off-heap memory.
type Region struct {
	data     []byte
	release  func() error
	released atomic.Bool
}

func newRegion(data []byte, release func() error) *Region {
	return &Region{data: data, release: release}
}

// New allocates length bytes with the manual allocator from smasher164/mem.
func New(length uint) (*Region, error) {
	if length == 0 {
		return nil, ErrEmpty
	}
	ptr := mem.Alloc(length)
	if ptr == nil {
		return nil, fmt.Errorf("%w: %d bytes", ErrNoMemory, length)
	}
	data := unsafe.Slice((*byte)(ptr), length)
	log.Debug().Msgf("region allocated %d bytes at %p", length, ptr)
	return newRegion(data, func() error {
		mem.Free(ptr)
		return nil
	}), nil
}

func (r *Region) Base() uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(r.data)))
}

func (r *Region) Len() uintptr {
	return uintptr(len(r.data))
}

// Bytes exposes the region's memory. The slice must not be used after Release.
func (r *Region) Bytes() []byte {
	return r.data
}

// Contains reports whether p lies within the region.
func (r *Region) Contains(p uintptr) bool {
	base := r.Base()
	return p >= base && p-base < r.Len()
}

// Release returns the memory to where it came from. Later calls are no-ops.
func (r *Region) Release() error {
	if !r.released.CompareAndSwap(false, true) {
		return nil
	}
	log.Debug().Msgf("region releasing %d bytes at %#x", r.Len(), r.Base())
	return r.release()
}
