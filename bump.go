package fixedarena

// Bump is a bump (stack) allocator over a fixed arena. It never reuses
// space and has no Release method; memory comes back only through Reset.
// Not goroutine-safe.
type Bump struct {
	region
}

// NewBump creates a Bump allocator that owns buf until it is closed.
func NewBump(buf []byte) *Bump {
	return &Bump{region: newRegion(buf)}
}

// Allocate returns size bytes whose first address is a multiple of
// alignment. It returns ErrOutOfMemory, leaving the allocator untouched,
// when the request does not fit. Returns nil if size is 0 and
// panics if it is negative.
func (b *Bump) Allocate(size, alignment int) ([]byte, error) {
	b.panicIfClosed()
	checkAlignment(alignment)
	checkSize(size)
	if size == 0 {
		return nil, nil
	}

	start := b.alignOffset(b.next, alignment)
	if size > len(b.buf)-start {
		b.stats.failures++
		return nil, outOfMemory(size, alignment, start, len(b.buf))
	}

	end := start + size
	b.next = end
	b.stats.allocs++
	return b.buf[start:end:end], nil
}
