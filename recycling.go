package fixedarena

// Recycling extends Tagging with reuse. Every allocation first scans the
// header chain in arrival order and takes the first free block that is
// long enough; only when none qualifies does it grow the high-water mark.
// Blocks are never split or merged. Not goroutine-safe.
type Recycling struct {
	Tagging
}

// NewRecycling creates a Recycling allocator that owns buf until it is
// closed.
func NewRecycling(buf []byte) *Recycling {
	return &Recycling{Tagging: Tagging{region: newRegion(buf)}}
}

// Allocate returns size bytes whose first address is a multiple of
// alignment, reusing the first released block that can hold them.
// Returns nil if size is 0 and panics if it is negative.
func (r *Recycling) Allocate(size, alignment int) ([]byte, error) {
	r.panicIfClosed()
	checkAlignment(alignment)
	checkSize(size)
	if size == 0 {
		return nil, nil
	}
	if p := r.reuse(size, alignment); p != nil {
		return p, nil
	}
	return r.allocate(size, alignment)
}

// reuse implements the first-fit scan. A free block qualifies when its
// recorded length is at least size and its data start already satisfies
// alignment. The recorded length shrinks to size; the bytes past it stay
// with the block but are not tracked.
func (r *Recycling) reuse(size, alignment int) []byte {
	base := r.base()
	for pos := r.first; pos < r.next; {
		if pos+headerSize > r.next {
			break
		}
		h := r.headerAt(pos)
		data := pos + headerSize
		if h.free() && h.length() >= size && isAligned(base+uintptr(data), uintptr(alignment)) {
			h.set(size, false)
			r.stats.allocs++
			r.stats.reuses++
			end := data + size
			return r.buf[data:end:end]
		}
		pos += int(h.extent)
	}
	return nil
}
