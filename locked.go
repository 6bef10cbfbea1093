package fixedarena

import "sync"

// Locked is a mutex-protected wrapper for sharing one allocator between
// goroutines. The allocators never lock themselves; wrap them when they
// are shared.
type Locked struct {
	mu sync.Mutex
	a  Allocator
}

// NewLocked wraps a. The caller must stop using a directly.
func NewLocked(a Allocator) *Locked {
	return &Locked{a: a}
}

// Allocate calls the wrapped allocator's Allocate under the lock.
func (l *Locked) Allocate(size, alignment int) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Allocate(size, alignment)
}

// Release calls the wrapped allocator's Release under the lock. It panics
// if the wrapped allocator cannot release.
func (l *Locked) Release(p []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.a.(Releaser)
	if !ok {
		panic("fixedarena: Release on an allocator without Release")
	}
	r.Release(p)
}

// Do runs fn with exclusive access to the wrapped allocator, for
// sequences that must not interleave with other goroutines (Reset,
// Metrics, a batch of allocations).
func (l *Locked) Do(fn func(a Allocator)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.a)
}
