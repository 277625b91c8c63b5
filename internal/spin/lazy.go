package spin

import (
	"runtime"
	"sync/atomic"
)

const (
	incomplete uint32 = iota
	running
	complete
	poisoned
)

// Lazy holds a value computed at most once, on first Force.
//
// Does not need explicit construction: simply do Lazy[MyType]{}.
type Lazy[T any] struct {
	state atomic.Uint32
	value T
}

// Force returns the value, running init if no caller has done so yet.
//
// Callers racing with the one running init spin until it publishes the
// value. If init panics the cell is poisoned and every later Force panics.
func (l *Lazy[T]) Force(init func() T) *T {
	if l.state.Load() == complete {
		return &l.value
	}
	// Outlined slow-path to allow inlining of the fast-path.
	return l.forceSlow(init)
}

func (l *Lazy[T]) forceSlow(init func() T) *T {
	for {
		switch l.state.Load() {
		case incomplete:
			if l.state.CompareAndSwap(incomplete, running) {
				l.run(init)
				return &l.value
			}
		case running:
			runtime.Gosched()
		case complete:
			return &l.value
		case poisoned:
			panic("spin: lazy value poisoned by a panicking initializer")
		}
	}
}

func (l *Lazy[T]) run(init func() T) {
	finished := false
	defer func() {
		if !finished {
			l.state.Store(poisoned)
		}
	}()
	l.value = init()
	finished = true
	// The store publishes value to every goroutine that loads complete.
	l.state.Store(complete)
}

// Get returns the value if it has been computed, without forcing it.
func (l *Lazy[T]) Get() (*T, bool) {
	if l.state.Load() != complete {
		return nil, false
	}
	return &l.value, true
}

// Poisoned reports whether the initializer panicked.
func (l *Lazy[T]) Poisoned() bool {
	return l.state.Load() == poisoned
}
