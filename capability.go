package fixedarena

// Allocator hands out aligned blocks of its arena.
type Allocator interface {
	// Allocate returns size bytes starting at an address that is a
	// multiple of alignment, or an error wrapping ErrOutOfMemory.
	Allocate(size, alignment int) ([]byte, error)
}

// Releaser is an Allocator whose blocks can be given back.
type Releaser interface {
	Allocator
	Release(p []byte)
}

// Resizer is offered by every allocator so generic callers can probe for
// in-place growth. All implementations here return ErrNotSupported.
type Resizer interface {
	Resize(p []byte, size int) error
	Remap(p []byte, size int) ([]byte, error)
}

var (
	_ Allocator = (*Bump)(nil)
	_ Resizer   = (*Bump)(nil)
	_ Releaser  = (*Tagging)(nil)
	_ Resizer   = (*Tagging)(nil)
	_ Releaser  = (*Recycling)(nil)
	_ Resizer   = (*Recycling)(nil)
	_ Releaser  = (*Locked)(nil)
)
