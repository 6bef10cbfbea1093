package fixedarena

import "unsafe"

// header is the in-band record written immediately before every block of
// a Tagging or Recycling allocator.
type header struct {
	// extent is the distance from this header to the next one in the
	// chain, or to the high-water mark for the last block. Never zero.
	extent uintptr
	// word packs the block length and the free flag: length<<1 | free.
	word uintptr
}

const (
	headerSize  = int(unsafe.Sizeof(header{}))
	headerAlign = int(unsafe.Alignof(header{}))
)

// Header is the decoded content of a block's header record.
type Header struct {
	Length int  // bytes handed to the current owner
	Free   bool // released and available for reuse
}

// Block describes one entry of the header chain.
type Block struct {
	Offset int // position of the first data byte in the arena
	Header
}

func (h *header) length() int {
	return int(h.word >> 1)
}

func (h *header) free() bool {
	return h.word&1 == 1
}

func (h *header) set(length int, free bool) {
	h.word = uintptr(length) << 1
	if free {
		h.word |= 1
	}
}

func (h *header) decode() Header {
	return Header{Length: h.length(), Free: h.free()}
}

// headerAt reinterprets the bytes at off as a header. The caller
// guarantees off is header-aligned and off+headerSize <= len(buf).
func (r *region) headerAt(off int) *header {
	return (*header)(unsafe.Pointer(&r.buf[off]))
}

// headerOffset recovers the header of the block whose data starts at p.
// It reverses the placement done at allocation time: the header always
// ends exactly where the data begins.
func (r *region) headerOffset(p []byte) int {
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(p)))
	base := r.base()
	if addr < base+uintptr(headerSize) || addr >= base+uintptr(r.next) {
		panic("fixedarena: slice was not allocated from this arena")
	}
	return int(alignBackward(addr-uintptr(headerSize), uintptr(headerAlign)) - base)
}
