package fixedarena

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// SizeInUse returns the high-water mark: bytes committed so far, including
// headers and alignment padding. Released blocks still count.
func (r *region) SizeInUse() int {
	return r.next
}

// Capacity returns the arena length in bytes, 0 after Close.
func (r *region) Capacity() int {
	return len(r.buf)
}

// Utilization returns the ratio of bytes in use to capacity (0.0 to 1.0).
// Returns 0.0 if the arena has no capacity.
func (r *region) Utilization() float64 {
	capacity := r.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(r.SizeInUse()) / float64(capacity)
}

func (r *region) metrics() ArenaMetrics {
	return ArenaMetrics{
		SizeInUse:   r.SizeInUse(),
		Capacity:    r.Capacity(),
		Utilization: r.Utilization(),
		Allocs:      r.stats.allocs,
		Reuses:      r.stats.reuses,
		Releases:    r.stats.releases,
		Failures:    r.stats.failures,
	}
}

// Metrics returns a snapshot of arena statistics.
func (b *Bump) Metrics() ArenaMetrics {
	return b.metrics()
}

// Metrics returns a snapshot of arena statistics, including a walk of the
// header chain.
func (t *Tagging) Metrics() ArenaMetrics {
	m := t.metrics()
	if t.closed {
		return m
	}
	t.walk(func(_ int, h *header) bool {
		m.Blocks++
		if h.free() {
			m.FreeBlocks++
			m.FreeBytes += h.length()
		}
		return true
	})
	return m
}

// ArenaMetrics contains statistical information about an allocator.
type ArenaMetrics struct {
	SizeInUse   int     // High-water mark in bytes
	Capacity    int     // Arena length in bytes
	Utilization float64 // Ratio of used to total capacity (0.0-1.0)
	Blocks      int     // Blocks in the header chain (0 for Bump)
	FreeBlocks  int     // Blocks currently marked free
	FreeBytes   int     // Sum of the recorded lengths of free blocks
	Allocs      uint64  // Successful allocations, reuses included
	Reuses      uint64  // Allocations served from a released block
	Releases    uint64  // Release calls that marked a block free
	Failures    uint64  // Allocations rejected with ErrOutOfMemory
}

func (m ArenaMetrics) String() string {
	return fmt.Sprintf("%s of %s in use (%.1f%%), %d blocks, %d free (%s), %d allocs, %d reuses, %d releases, %d failures",
		humanize.IBytes(uint64(m.SizeInUse)), humanize.IBytes(uint64(m.Capacity)), m.Utilization*100,
		m.Blocks, m.FreeBlocks, humanize.IBytes(uint64(m.FreeBytes)),
		m.Allocs, m.Reuses, m.Releases, m.Failures)
}
