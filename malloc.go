package lazyheap

import (
	"unsafe"

	"go.yuchanns.xyz/lazyheap/internal/spin"
	"go.yuchanns.xyz/timefall"
)

const mallocAlign = 16

// Allocator is the malloc/free shape expected by libraries that take raw
// memory, such as timefall.
type Allocator interface {
	Alloc(size uint) unsafe.Pointer
	Free(ptr unsafe.Pointer)
}

// Malloc adapts a GlobalAlloc to Allocator, remembering each block's layout
// so Free needs only the pointer. The GlobalAlloc must manage real memory.
type Malloc struct {
	alloc GlobalAlloc
	lock  spin.Lock
	sizes map[uintptr]Layout
}

func NewMalloc(alloc GlobalAlloc) *Malloc {
	if alloc == nil {
		panic("allocator cannot be nil")
	}
	return &Malloc{alloc: alloc, sizes: make(map[uintptr]Layout)}
}

// Alloc returns nil for a zero size or when the heap is exhausted.
func (m *Malloc) Alloc(size uint) unsafe.Pointer {
	if size == 0 {
		return nil
	}
	layout, err := NewLayout(uintptr(size), mallocAlign)
	if err != nil {
		return nil
	}
	ptr := m.alloc.Alloc(layout)
	if ptr == 0 {
		return nil
	}
	m.lock.Lock()
	m.sizes[ptr] = layout
	m.lock.Unlock()
	return unsafe.Pointer(ptr) //nolint:govet
}

// Free ignores nil and pointers this Malloc did not hand out.
func (m *Malloc) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	p := uintptr(ptr)
	m.lock.Lock()
	layout, ok := m.sizes[p]
	delete(m.sizes, p)
	m.lock.Unlock()
	if ok {
		m.alloc.Dealloc(p, layout)
	}
}

// Live returns the number of blocks handed out and not yet freed.
func (m *Malloc) Live() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return len(m.sizes)
}

// RegisterTimefall makes timefall draw its memory from alloc. timefall
// accepts a single allocator per process.
func RegisterTimefall(alloc GlobalAlloc) *Malloc {
	m := NewMalloc(alloc)
	timefall.SetAllocator(m)
	return m
}
