// Package lazyheap provides a process-wide heap that materializes its backing
// allocator on first use instead of requiring explicit setup before the
// first allocation.
//
//	var Heap = lazyheap.New(func() *lazyheap.LockedHeap {
//		return slab.Empty()
//	})
//
//	func main() {
//		r, _ := region.Map(1 << 20)
//		_ = Heap.InitRegion(r)
//		p := Heap.Alloc(lazyheap.MustLayout(64, 8))
//		// ...
//	}
package lazyheap

import (
	"github.com/phuslu/log"
	"go.yuchanns.xyz/lazyheap/internal/spin"
	"go.yuchanns.xyz/lazyheap/region"
	"go.yuchanns.xyz/lazyheap/slab"
)

// LockedHeap is the backing allocator.
type LockedHeap = slab.LockedHeap

// Layout describes a requested block.
type Layout = slab.Layout

var (
	NewLayout  = slab.NewLayout
	MustLayout = slab.MustLayout
)

// LazyHeap wraps a LockedHeap that is constructed on the first Init, Alloc
// or Dealloc from any goroutine. The initializer runs at most once; callers
// racing with it spin until it has finished and then share its result.
//
// The zero value behaves like Empty().
type LazyHeap struct {
	initializer func() *LockedHeap
	cell        spin.Lazy[*LockedHeap]
}

// New stores init without calling it.
func New(init func() *LockedHeap) *LazyHeap {
	return &LazyHeap{initializer: init}
}

// Empty returns a LazyHeap whose backing allocator starts without a region.
func Empty() *LazyHeap {
	return New(slab.Empty)
}

func (l *LazyHeap) heap() *LockedHeap {
	return *l.cell.Force(l.materialize)
}

func (l *LazyHeap) materialize() *LockedHeap {
	init := l.initializer
	if init == nil {
		init = slab.Empty
	}
	h := init()
	if h == nil {
		panic("lazyheap: initializer returned nil heap")
	}
	log.Debug().Msgf("lazyheap materialized backing heap %p", h)
	return h
}

// Materialized reports whether the backing allocator has been constructed.
func (l *LazyHeap) Materialized() bool {
	_, ok := l.cell.Get()
	return ok
}

// Init materializes the backing allocator and hands it [base, base+length).
//
// The caller guarantees the region is valid and unused. Errors come from the
// backing allocator.
func (l *LazyHeap) Init(base, length uintptr) error {
	return l.heap().Init(base, length)
}

// InitRegion is Init over a region obtained from the region package.
func (l *LazyHeap) InitRegion(r *region.Region) error {
	return l.Init(r.Base(), r.Len())
}

// Alloc returns 0 when the block cannot be served, including before Init.
func (l *LazyHeap) Alloc(layout Layout) uintptr {
	return l.heap().Alloc(layout)
}

func (l *LazyHeap) Dealloc(ptr uintptr, layout Layout) {
	l.heap().Dealloc(ptr, layout)
}
