package slab

import "errors"

var (
	// ErrInvalidRegion indicates a region that is empty, starts at address zero, or wraps the address space.
	ErrInvalidRegion = errors.New("slab: invalid region")

	// ErrAlreadyInitialized indicates a second Init on a heap that already manages a region.
	ErrAlreadyInitialized = errors.New("slab: heap already initialized")

	// ErrInvalidLayout indicates a non power-of-two alignment or a size that overflows once padded.
	ErrInvalidLayout = errors.New("slab: invalid layout")

	// ErrInvalidConfig indicates block bounds that cannot form size classes.
	ErrInvalidConfig = errors.New("slab: invalid config")
)
