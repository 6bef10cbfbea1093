package fixedarena

import (
	"math"
	"unsafe"

	"github.com/cockroachdb/errors"
)

// Create returns a pointer to a zeroed T stored inside the allocator's
// arena, aligned for T. T must not contain Go pointers: the garbage
// collector does not scan the arena.
func Create[T any](a Allocator) (*T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return new(T), nil
	}
	b, err := a.Allocate(size, int(unsafe.Alignof(zero)))
	if err != nil {
		return nil, err
	}
	clear(b)
	return (*T)(unsafe.Pointer(&b[0])), nil
}

// CreateSlice allocates a zeroed slice of n elements of type T inside the
// arena. Returns nil if n <= 0. The same pointer restriction as Create
// applies to T.
func CreateSlice[T any](a Allocator, n int) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if elemSize == 0 {
		return make([]T, n), nil
	}
	if n > math.MaxInt/elemSize {
		return nil, errors.Wrapf(ErrOutOfMemory, "%d elements of %d bytes overflow int", n, elemSize)
	}
	b, err := a.Allocate(elemSize*n, int(unsafe.Alignof(zero)))
	if err != nil {
		return nil, err
	}
	clear(b)
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n), nil
}

// Destroy releases the block holding *p. p must come from Create on the
// same allocator. Destroying nil is a no-op.
func Destroy[T any](r Releaser, p *T) {
	size := int(unsafe.Sizeof(*p))
	if p == nil || size == 0 {
		return
	}
	r.Release(unsafe.Slice((*byte)(unsafe.Pointer(p)), size))
}

// DestroySlice releases the block backing s. s must come from CreateSlice
// on the same allocator, resliced at most from the end.
func DestroySlice[T any](r Releaser, s []T) {
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if cap(s) == 0 || elemSize == 0 {
		return
	}
	r.Release(unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), cap(s)*elemSize))
}
