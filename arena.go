// Package fixedarena implements allocators over a single caller-supplied
// byte buffer. Typical usage: hand one buffer to one allocator, carve many
// differently sized and aligned blocks out of it, then Reset() when the
// whole batch is no longer needed.
package fixedarena

import (
	"fmt"
	"unsafe"

	"github.com/cockroachdb/errors"
)

// region is the fixed arena shared by every allocator in this package.
type region struct {
	buf    []byte // caller-owned backing memory, never resized
	next   int    // high-water mark: end of all committed bytes
	closed bool
	stats  counters
}

// counters are the operation totals reported by Metrics.
type counters struct {
	allocs   uint64
	reuses   uint64
	releases uint64
	failures uint64
}

func newRegion(buf []byte) region {
	return region{buf: buf}
}

// base returns the address of the first byte of the arena. It is not
// cached: a buffer living on a goroutine stack may move.
func (r *region) base() uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(r.buf)))
}

// alignOffset returns the smallest offset >= off whose absolute address
// is a multiple of alignment.
func (r *region) alignOffset(off, alignment int) int {
	base := r.base()
	return int(alignForward(base+uintptr(off), uintptr(alignment)) - base)
}

// Offset returns the position of p's first byte within the arena, or -1
// if p does not point into it.
func (r *region) Offset(p []byte) int {
	if cap(p) == 0 || len(r.buf) == 0 {
		return -1
	}
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(p)))
	base := r.base()
	if addr < base || addr >= base+uintptr(len(r.buf)) {
		return -1
	}
	return int(addr - base)
}

// Reset rewinds the high-water mark to the start of the arena.
// Every slice handed out before the call must be considered dead.
func (r *region) Reset() {
	r.panicIfClosed()
	r.next = 0
}

// Close drops the arena buffer and makes the allocator unusable.
// Any subsequent allocation will panic. Calling Close twice is safe.
func (r *region) Close() {
	r.buf = nil
	r.next = 0
	r.closed = true
}

// Resize always fails: blocks cannot grow or shrink in place.
func (r *region) Resize(p []byte, size int) error {
	r.panicIfClosed()
	return errors.Wrapf(ErrNotSupported, "resize %d-byte block to %d bytes", len(p), size)
}

// Remap always fails: blocks cannot be moved.
func (r *region) Remap(p []byte, size int) ([]byte, error) {
	r.panicIfClosed()
	return nil, errors.Wrapf(ErrNotSupported, "remap %d-byte block to %d bytes", len(p), size)
}

// panicIfClosed panics if the allocator has been closed.
func (r *region) panicIfClosed() {
	if r.closed {
		panic("fixedarena: use after Close()")
	}
}

// checkAlignment panics unless alignment is a positive power of two.
func checkAlignment(alignment int) {
	if alignment <= 0 || alignment&(alignment-1) != 0 {
		panic(fmt.Sprintf("fixedarena: alignment %d is not a power of two", alignment))
	}
}

// checkSize panics if size is negative.
func checkSize(size int) {
	if size < 0 {
		panic(fmt.Sprintf("fixedarena: negative size %d", size))
	}
}

func alignForward(x, alignment uintptr) uintptr {
	mask := alignment - 1
	return (x + mask) & ^mask
}

func alignBackward(x, alignment uintptr) uintptr {
	return x & ^(alignment - 1)
}

func isAligned(x, alignment uintptr) bool {
	return x&(alignment-1) == 0
}
