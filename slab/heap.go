// Package slab implements the heap that backs a lazily materialized global
// allocator.
//
// A LockedHeap manages an address range it never dereferences: all
// bookkeeping (free spans and per-class free stacks) lives in ordinary Go
// memory. Small requests are served from power-of-two size classes, larger
// ones from an address-ordered list of free spans with splitting and
// coalescing. Every operation holds a spin lock for its duration only.
package slab

import (
	"fmt"
	"math/bits"
	"slices"

	"github.com/phuslu/log"
	"go.yuchanns.xyz/lazyheap/internal/spin"
)

type span struct {
	start uintptr
	end   uintptr
}

// LockedHeap is a bounded-region heap guarded by a spin lock.
type LockedHeap struct {
	lock     spin.Lock
	minBlock uintptr
	maxBlock uintptr

	base   uintptr
	length uintptr

	spans   []span      // free, sorted by start, never adjacent
	classes [][]uintptr // free blocks per size class
}

// Empty returns a heap with the default size classes and no region. Every
// Alloc fails until Init supplies one.
func Empty() *LockedHeap {
	h, _ := EmptyWithConfig(DefaultConfig())
	return h
}

// EmptyWithConfig is like Empty with custom size classes.
func EmptyWithConfig(cfg Config) (*LockedHeap, error) {
	cfg = cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &LockedHeap{
		minBlock: uintptr(cfg.MinBlock),
		maxBlock: uintptr(cfg.MaxBlock),
		classes:  make([][]uintptr, cfg.numClasses()),
	}, nil
}

// Init hands the heap the region [base, base+length).
//
// The caller guarantees the region is valid, unused and stays so for the
// life of the heap; only its shape is checked here.
func (h *LockedHeap) Init(base, length uintptr) error {
	if base == 0 || length == 0 || length > ^uintptr(0)-base {
		return fmt.Errorf("%w: base %#x length %d", ErrInvalidRegion, base, length)
	}

	h.lock.Lock()
	if h.length != 0 {
		h.lock.Unlock()
		return fmt.Errorf("%w: managing [%#x, %#x)", ErrAlreadyInitialized, h.base, h.base+h.length)
	}
	h.base, h.length = base, length
	h.spans = append(h.spans[:0], span{start: base, end: base + length})
	h.lock.Unlock()

	log.Debug().Msgf("slab heap configured over [%#x, %#x)", base, base+length)
	return nil
}

// Region returns the configured range, or zeros before Init.
func (h *LockedHeap) Region() (base, length uintptr) {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.base, h.length
}

// Alloc returns the address of a block satisfying layout, or 0 when the heap
// cannot serve it.
func (h *LockedHeap) Alloc(layout Layout) uintptr {
	h.lock.Lock()
	ptr := h.tryAlloc(layout)
	reclaimed := false
	if ptr == 0 && h.reclaim() {
		reclaimed = true
		ptr = h.tryAlloc(layout)
	}
	h.lock.Unlock()

	if reclaimed {
		log.Debug().Msgf("slab heap reclaimed cached blocks for %s", layout)
	}
	if ptr == 0 {
		log.Debug().Msgf("slab heap out of memory for %s", layout)
	}
	return ptr
}

// Dealloc returns a block obtained from Alloc with the same layout.
// Addresses outside the region are ignored.
func (h *LockedHeap) Dealloc(ptr uintptr, layout Layout) {
	if ptr == 0 {
		return
	}

	h.lock.Lock()
	if ptr < h.base || ptr-h.base >= h.length {
		h.lock.Unlock()
		log.Debug().Msgf("slab heap ignoring foreign pointer %#x", ptr)
		return
	}
	if idx, _ := h.class(layout); idx >= 0 {
		h.classes[idx] = append(h.classes[idx], ptr)
	} else {
		h.free(ptr, h.largeSize(layout))
	}
	h.lock.Unlock()
}

// class returns the size class index and block size for layout, or -1 when
// layout is served from the span list.
func (h *LockedHeap) class(layout Layout) (int, uintptr) {
	n := max(layout.size, layout.align, h.minBlock)
	if n > h.maxBlock {
		return -1, 0
	}
	block := uintptr(1) << bits.Len(uint(n-1))
	return bits.TrailingZeros(uint(block)) - bits.TrailingZeros(uint(h.minBlock)), block
}

func (h *LockedHeap) largeSize(layout Layout) uintptr {
	return alignUp(max(layout.size, 1), h.minBlock)
}

func (h *LockedHeap) tryAlloc(layout Layout) uintptr {
	idx, block := h.class(layout)
	if idx < 0 {
		return h.carve(h.largeSize(layout), max(layout.align, h.minBlock))
	}
	stack := h.classes[idx]
	if n := len(stack); n > 0 {
		h.classes[idx] = stack[:n-1]
		return stack[n-1]
	}
	// Class blocks are aligned to their own size, which covers layout.align.
	return h.carve(block, block)
}

// carve takes size bytes aligned to align from the first span that fits,
// leaving the remainder on either side free.
func (h *LockedHeap) carve(size, align uintptr) uintptr {
	for i, s := range h.spans {
		start := alignUp(s.start, align)
		if start < s.start || start >= s.end || s.end-start < size {
			continue
		}
		end := start + size
		var rest [2]span
		n := 0
		if start > s.start {
			rest[n] = span{start: s.start, end: start}
			n++
		}
		if end < s.end {
			rest[n] = span{start: end, end: s.end}
			n++
		}
		h.spans = slices.Replace(h.spans, i, i+1, rest[:n]...)
		return start
	}
	return 0
}

// free inserts [start, start+size) and merges it with adjacent spans.
func (h *LockedHeap) free(start, size uintptr) {
	end := start + size
	i, _ := slices.BinarySearchFunc(h.spans, start, func(s span, target uintptr) int {
		switch {
		case s.start < target:
			return -1
		case s.start > target:
			return 1
		}
		return 0
	})
	mergePrev := i > 0 && h.spans[i-1].end == start
	mergeNext := i < len(h.spans) && h.spans[i].start == end
	switch {
	case mergePrev && mergeNext:
		h.spans[i-1].end = h.spans[i].end
		h.spans = slices.Delete(h.spans, i, i+1)
	case mergePrev:
		h.spans[i-1].end = end
	case mergeNext:
		h.spans[i].start = start
	default:
		h.spans = slices.Insert(h.spans, i, span{start: start, end: end})
	}
}

// reclaim moves every cached class block back to the span list.
func (h *LockedHeap) reclaim() bool {
	moved := false
	for idx, stack := range h.classes {
		block := h.minBlock << idx
		for _, ptr := range stack {
			h.free(ptr, block)
			moved = true
		}
		h.classes[idx] = stack[:0]
	}
	return moved
}
