package slab

import (
	"fmt"
	"math"
	"unsafe"
)

// Layout describes the size and alignment of a requested block.
type Layout struct {
	size  uintptr
	align uintptr
}

// NewLayout validates align is a power of two and that size, rounded up to
// align, does not exceed math.MaxInt.
func NewLayout(size, align uintptr) (Layout, error) {
	if align == 0 || align&(align-1) != 0 {
		return Layout{}, fmt.Errorf("%w: alignment %d is not a power of two", ErrInvalidLayout, align)
	}
	if size > math.MaxInt-(align-1) {
		return Layout{}, fmt.Errorf("%w: size %d overflows with alignment %d", ErrInvalidLayout, size, align)
	}
	return Layout{size: size, align: align}, nil
}

// MustLayout is like NewLayout but panics on an invalid layout.
func MustLayout(size, align uintptr) Layout {
	l, err := NewLayout(size, align)
	if err != nil {
		panic(err)
	}
	return l
}

// LayoutOf returns the layout of a value of type T.
func LayoutOf[T any]() Layout {
	var t T
	return Layout{size: unsafe.Sizeof(t), align: unsafe.Alignof(t)}
}

func (l Layout) Size() uintptr  { return l.size }
func (l Layout) Align() uintptr { return l.align }

func (l Layout) String() string {
	return fmt.Sprintf("{size:%d align:%d}", l.size, l.align)
}

func alignUp(x, align uintptr) uintptr {
	return (x + align - 1) &^ (align - 1)
}
