package lazyheap

import (
	"sync/atomic"

	"github.com/phuslu/log"
)

// GlobalAlloc is the process-wide dynamic memory interface.
type GlobalAlloc interface {
	Alloc(layout Layout) uintptr
	Dealloc(ptr uintptr, layout Layout)
}

type globalSlot struct {
	alloc GlobalAlloc
}

var (
	global     atomic.Pointer[globalSlot]
	globalInit atomic.Int32
)

func init() {
	global.Store(&globalSlot{alloc: Empty()})
}

// SetGlobal registers alloc as the process's allocator. It may be called
// only once.
func SetGlobal(alloc GlobalAlloc) {
	if alloc == nil {
		panic("allocator cannot be nil")
	}
	if globalInit.Add(1) != 1 {
		panic("allocator can only be set once")
	}
	global.Store(&globalSlot{alloc: alloc})
	log.Debug().Msgf("lazyheap global allocator set to %T", alloc)
}

// Global returns the registered allocator. Until SetGlobal is called it is
// an empty LazyHeap, which fails every allocation.
func Global() GlobalAlloc {
	return global.Load().alloc
}

func Alloc(layout Layout) uintptr {
	return Global().Alloc(layout)
}

func Dealloc(ptr uintptr, layout Layout) {
	Global().Dealloc(ptr, layout)
}
