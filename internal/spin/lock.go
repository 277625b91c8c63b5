// Package spin provides busy-waiting synchronization primitives that do not
// park on a scheduler-backed wait queue.
package spin

import (
	"runtime"
	"sync/atomic"
)

// Lock is a test-and-set spin lock. The zero value is unlocked.
type Lock struct {
	held atomic.Bool
}

// TryLock acquires the lock if it is free.
func (l *Lock) TryLock() bool {
	return l.held.CompareAndSwap(false, true)
}

// Lock spins until the lock is acquired.
func (l *Lock) Lock() {
	for !l.held.CompareAndSwap(false, true) {
		for l.held.Load() {
			runtime.Gosched()
		}
	}
}

func (l *Lock) Unlock() {
	if !l.held.Swap(false) {
		panic("spin: unlock of unlocked lock")
	}
}
