package fixedarena

// Tagging is a bump allocator that writes a header in front of every
// block so blocks can be marked free. Freed space is never handed out
// again; use Recycling for that. Not goroutine-safe.
type Tagging struct {
	region
	first  int // offset of the first header
	last   int // offset of the most recent header
	blocks int
}

// NewTagging creates a Tagging allocator that owns buf until it is closed.
func NewTagging(buf []byte) *Tagging {
	return &Tagging{region: newRegion(buf)}
}

// Allocate returns size bytes whose first address is a multiple of
// alignment, preceded in the arena by a header recording size.
// Returns nil if size is 0 and panics if it is negative.
func (t *Tagging) Allocate(size, alignment int) ([]byte, error) {
	t.panicIfClosed()
	checkAlignment(alignment)
	checkSize(size)
	if size == 0 {
		return nil, nil
	}
	return t.allocate(size, alignment)
}

// allocate places a new block at the high-water mark.
func (t *Tagging) allocate(size, alignment int) ([]byte, error) {
	hdr := t.alignOffset(t.next, headerAlign)
	data := t.alignOffset(hdr+headerSize, alignment)
	if size > len(t.buf)-data {
		t.stats.failures++
		return nil, outOfMemory(size, alignment, data, len(t.buf))
	}

	// Alignments larger than the header's push the data, and the header
	// with it, past hdr. The previous block's extent absorbs the gap so
	// the chain stays contiguous.
	off := data - headerSize
	end := data + size
	h := t.headerAt(off)
	h.extent = uintptr(end - off)
	h.set(size, false)

	if t.blocks > 0 {
		t.headerAt(t.last).extent = uintptr(off - t.last)
	} else {
		t.first = off
	}
	t.last = off
	t.blocks++
	t.next = end
	t.stats.allocs++
	return t.buf[data:end:end], nil
}

// Release marks the block that p was allocated as free. The high-water
// mark does not move. p must be a slice returned by Allocate that has not
// been released yet; releasing nil is a no-op, and releasing a block
// that is already free leaves it free without counting again.
func (t *Tagging) Release(p []byte) {
	t.panicIfClosed()
	if cap(p) == 0 {
		return
	}
	h := t.headerAt(t.headerOffset(p))
	if h.free() {
		return
	}
	h.word |= 1
	t.stats.releases++
}

// HeaderOf returns the header of the block that p was allocated as.
func (t *Tagging) HeaderOf(p []byte) Header {
	t.panicIfClosed()
	return t.headerAt(t.headerOffset(p)).decode()
}

// Blocks returns the header chain in allocation order.
func (t *Tagging) Blocks() []Block {
	if t.closed {
		return nil
	}
	blocks := make([]Block, 0, t.blocks)
	t.walk(func(off int, h *header) bool {
		blocks = append(blocks, Block{Offset: off + headerSize, Header: h.decode()})
		return true
	})
	return blocks
}

// walk calls fn for every header in the chain until fn returns false.
func (t *Tagging) walk(fn func(off int, h *header) bool) {
	for pos := t.first; pos+headerSize <= t.next; {
		h := t.headerAt(pos)
		if !fn(pos, h) {
			return
		}
		pos += int(h.extent)
	}
}

// Reset forgets every block and rewinds the arena.
func (t *Tagging) Reset() {
	t.region.Reset()
	t.first, t.last, t.blocks = 0, 0, 0
}

// Close drops the arena buffer; see region.Close.
func (t *Tagging) Close() {
	t.region.Close()
	t.first, t.last, t.blocks = 0, 0, 0
}
