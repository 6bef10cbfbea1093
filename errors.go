package fixedarena

import "github.com/cockroachdb/errors"

var (
	// ErrOutOfMemory is returned when a request does not fit in the arena.
	// The allocator state is unchanged when it is returned.
	ErrOutOfMemory = errors.New("fixedarena: out of memory")

	// ErrNotSupported is returned by Resize and Remap. None of the
	// allocators can grow or move a block in place.
	ErrNotSupported = errors.New("fixedarena: operation not supported")
)

func outOfMemory(size, alignment, start, capacity int) error {
	return errors.Wrapf(ErrOutOfMemory,
		"allocate %d bytes aligned to %d at offset %d: arena holds %d",
		size, alignment, start, capacity)
}
