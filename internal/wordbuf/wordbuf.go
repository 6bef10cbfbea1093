// Package wordbuf allocates byte buffers whose first byte is aligned to a
// machine word, so arena offsets are reproducible between runs.
package wordbuf

import "unsafe"

const wordSize = int(unsafe.Sizeof(uint64(0)))

// New returns a zeroed n-byte buffer starting on an 8-byte boundary.
// Returns nil if n <= 0.
func New(n int) []byte {
	if n <= 0 {
		return nil
	}
	words := make([]uint64, (n+wordSize-1)/wordSize)
	return unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), n)
}
