// Package fixedarena implements three allocators over a single fixed-size
// byte buffer supplied by the caller.
//
// # Overview
//
// The buffer never grows and no memory is obtained from the Go runtime on
// behalf of the caller. The allocators differ in what they do with
// released blocks:
//
//   - Bump advances an offset and never reuses anything.
//   - Tagging writes a header before every block so it can be marked free,
//     but never hands freed space out again.
//   - Recycling scans the headers on every request and reuses the first
//     free block that is long enough before falling back to bumping.
//
// # Basic Usage
//
//	buf := make([]byte, 4096)
//	r := fixedarena.NewRecycling(buf)
//	defer r.Close()
//
//	p, err := r.Allocate(64, 8) // 64 bytes, 8-byte aligned
//	if errors.Is(err, fixedarena.ErrOutOfMemory) {
//		// arena exhausted
//	}
//	r.Release(p) // block becomes available to later requests
//
//	// Typed values
//	v, _ := fixedarena.Create[Point](r)
//	fixedarena.Destroy(r, v)
//
// # Memory Layout
//
// Tagging and Recycling prefix every block with a two-word header holding
// the distance to the next header and the block length with its free flag.
// The header always ends exactly where the data begins, so Release finds
// it from the data address alone. Alignment padding ahead of a header is
// absorbed by the previous block.
//
// Alignment is applied to absolute addresses, not buffer offsets.
//
// # Thread Safety
//
// None of the allocators is goroutine-safe. A buffer must be owned by
// exactly one allocator. Wrap an allocator with NewLocked to share it:
//
//	l := fixedarena.NewLocked(fixedarena.NewRecycling(buf))
//	p, err := l.Allocate(32, 8) // safe from any goroutine
//
// # Important Notes
//
//   - Released blocks are reused whole: no splitting, no coalescing.
//   - Reuse is first-fit in allocation order, not best-fit.
//   - Memory is not zeroed on Allocate; Create and CreateSlice zero it.
//   - Resize and Remap always return ErrNotSupported.
//   - Slices are invalid after Reset or Close.
//
// # Metrics and Monitoring
//
//	m := r.Metrics()
//	fmt.Println(m) // 1.2 KiB of 4.0 KiB in use (30.0%), 12 blocks, ...
package fixedarena
