package fixedarena

import (
	"fmt"
	"runtime"
	"testing"
)

// BenchmarkRealisticUsage compares the allocators with the Go heap on
// request-scoped workloads.
func BenchmarkRealisticUsage(b *testing.B) {

	// Many small allocations with periodic cleanup
	b.Run("ManySmallAllocs/Bump", func(b *testing.B) {
		a := NewBump(make([]byte, 64*1024))
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := 0; j < 100; j++ {
				_, _ = a.Allocate(64, 8)
			}
			a.Reset()
		}
	})

	b.Run("ManySmallAllocs/Tagging", func(b *testing.B) {
		a := NewTagging(make([]byte, 64*1024))
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := 0; j < 100; j++ {
				_, _ = a.Allocate(64, 8)
			}
			a.Reset()
		}
	})

	b.Run("ManySmallAllocs/Builtin", func(b *testing.B) {
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			objects := make([][]byte, 100)
			for j := 0; j < 100; j++ {
				objects[j] = make([]byte, 64)
			}
			if i%10 == 0 {
				runtime.GC()
			}
		}
	})

	type record struct {
		ID   int64
		Data [56]byte
	}

	b.Run("StructAllocs/Bump", func(b *testing.B) {
		a := NewBump(make([]byte, 64*1024))
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := 0; j < 50; j++ {
				s, _ := Create[record](a)
				s.ID = int64(j)
			}
			a.Reset()
		}
	})

	b.Run("StructAllocs/Builtin", func(b *testing.B) {
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			structs := make([]*record, 50)
			for j := 0; j < 50; j++ {
				structs[j] = &record{ID: int64(j)}
			}
			if i%10 == 0 {
				runtime.GC()
			}
		}
	})

	// Temporary buffers released and reacquired without Reset
	b.Run("BufferReuse/Recycling", func(b *testing.B) {
		a := NewRecycling(make([]byte, 64*1024))
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := 0; j < 10; j++ {
				buf1, _ := a.Allocate(1024, 8)
				buf2, _ := a.Allocate(2048, 8)
				buf3, _ := a.Allocate(512, 8)

				buf1[0] = byte(j)
				buf2[0] = byte(j)
				buf3[0] = byte(j)

				a.Release(buf3)
				a.Release(buf2)
				a.Release(buf1)
			}
		}
	})

	b.Run("BufferReuse/Builtin", func(b *testing.B) {
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			buffers := make([][]byte, 30)
			for j := 0; j < 10; j++ {
				buffers[j*3] = make([]byte, 1024)
				buffers[j*3+1] = make([]byte, 2048)
				buffers[j*3+2] = make([]byte, 512)

				buffers[j*3][0] = byte(j)
				buffers[j*3+1][0] = byte(j)
				buffers[j*3+2][0] = byte(j)
			}
			if i%5 == 0 {
				runtime.GC()
			}
		}
	})
}

// BenchmarkWorstCase measures the first-fit scan when no released block
// matches and every request falls through to the high-water mark.
func BenchmarkWorstCase(b *testing.B) {
	for _, n := range []int{16, 256, 1024} {
		b.Run(fmt.Sprintf("LongChainNoFit/%d", n), func(b *testing.B) {
			a := NewRecycling(make([]byte, 1<<22))
			fillChain(a, n)
			mark := a.SizeInUse()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := a.Allocate(64, 8); err != nil {
					b.StopTimer()
					a.Reset()
					fillChain(a, n)
					if a.SizeInUse() != mark {
						b.Fatalf("chain rebuilt to %d bytes, want %d", a.SizeInUse(), mark)
					}
					b.StartTimer()
				}
			}
		})
	}
}

// fillChain appends n small blocks and then releases all of them.
func fillChain(a *Recycling, n int) {
	blocks := make([][]byte, n)
	for i := range blocks {
		blocks[i], _ = a.Allocate(8, 8)
	}
	for _, p := range blocks {
		a.Release(p)
	}
}
