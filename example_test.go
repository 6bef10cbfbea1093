package fixedarena_test

import (
	"fmt"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/pavanmanishd/fixedarena"
	"github.com/pavanmanishd/fixedarena/internal/wordbuf"
)

// Example demonstrates basic bump allocation over a caller-owned buffer.
func Example() {
	a := fixedarena.NewBump(wordbuf.New(1024))
	defer a.Close()

	// Allocate raw bytes
	buf, _ := a.Allocate(100, 1)
	fmt.Printf("Allocated buffer of size: %d\n", len(buf))

	// Allocate a typed value (zeroed)
	ptr, _ := fixedarena.Create[int64](a)
	*ptr = 42
	fmt.Printf("Allocated int64 with value: %d\n", *ptr)

	// Allocate a slice
	slice, _ := fixedarena.CreateSlice[int32](a, 5)
	for i := range slice {
		slice[i] = int32(i * 2)
	}
	fmt.Printf("Allocated slice: %v\n", slice)

	fmt.Printf("Memory in use: %d bytes\n", a.SizeInUse())
	fmt.Printf("Utilization: %.2f%%\n", a.Utilization()*100)

	a.Reset()
	fmt.Printf("After reset, memory in use: %d bytes\n", a.SizeInUse())

	// Output:
	// Allocated buffer of size: 100
	// Allocated int64 with value: 42
	// Allocated slice: [0 2 4 6 8]
	// Memory in use: 132 bytes
	// Utilization: 12.89%
	// After reset, memory in use: 0 bytes
}

// ExampleRecycling shows a released block being handed out again.
func ExampleRecycling() {
	r := fixedarena.NewRecycling(wordbuf.New(256))
	defer r.Close()

	a, _ := r.Allocate(16, 8)
	b, _ := r.Allocate(16, 8)
	r.Release(a)

	c, _ := r.Allocate(12, 4)
	fmt.Println("reused a:", r.Offset(c) == r.Offset(a))
	fmt.Println("b untouched:", !r.HeaderOf(b).Free)
	fmt.Println("new length:", r.HeaderOf(c).Length)

	// Output:
	// reused a: true
	// b untouched: true
	// new length: 12
}

// ExampleTagging shows that Tagging marks released blocks without reusing
// them.
func ExampleTagging() {
	t := fixedarena.NewTagging(wordbuf.New(256))
	defer t.Close()

	a, _ := t.Allocate(8, 8)
	t.Release(a)
	b, _ := t.Allocate(8, 8)

	fmt.Println("released:", t.HeaderOf(a).Free)
	fmt.Println("placed after a:", t.Offset(b) > t.Offset(a))
	for _, blk := range t.Blocks() {
		fmt.Printf("length=%d free=%t\n", blk.Length, blk.Free)
	}

	// Output:
	// released: true
	// placed after a: true
	// length=8 free=true
	// length=8 free=false
}

// ExampleBump_Reset demonstrates arena reuse with Reset.
func ExampleBump_Reset() {
	a := fixedarena.NewBump(wordbuf.New(1024))
	defer a.Close()

	for round := 1; round <= 3; round++ {
		for i := 0; i < 5; i++ {
			_, _ = fixedarena.Create[int64](a)
		}

		fmt.Printf("Round %d - Memory in use: %d bytes\n", round, a.SizeInUse())

		a.Reset()
	}

	// Output:
	// Round 1 - Memory in use: 40 bytes
	// Round 2 - Memory in use: 40 bytes
	// Round 3 - Memory in use: 40 bytes
}

// ExampleBump_Allocate shows how exhaustion is reported.
func ExampleBump_Allocate() {
	a := fixedarena.NewBump(wordbuf.New(32))

	_, err := a.Allocate(24, 8)
	fmt.Println("first:", err)

	_, err = a.Allocate(16, 8)
	fmt.Println("out of memory:", errors.Is(err, fixedarena.ErrOutOfMemory))

	// Output:
	// first: <nil>
	// out of memory: true
}

// ExampleArenaMetrics demonstrates monitoring an arena.
func ExampleArenaMetrics() {
	a := fixedarena.NewBump(wordbuf.New(1024))
	defer a.Close()

	_, _ = a.Allocate(100, 1)
	_, _ = fixedarena.Create[int64](a)
	_, _ = fixedarena.CreateSlice[int32](a, 50)

	metrics := a.Metrics()
	fmt.Printf("Metrics:\n")
	fmt.Printf("  Size in use: %d bytes\n", metrics.SizeInUse)
	fmt.Printf("  Capacity: %d bytes\n", metrics.Capacity)
	fmt.Printf("  Allocs: %d\n", metrics.Allocs)
	fmt.Printf("  Utilization: %.1f%%\n", metrics.Utilization*100)

	// Output:
	// Metrics:
	//   Size in use: 312 bytes
	//   Capacity: 1024 bytes
	//   Allocs: 3
	//   Utilization: 30.5%
}

// ExampleCreate demonstrates that typed allocations are properly aligned.
func ExampleCreate() {
	a := fixedarena.NewTagging(wordbuf.New(1024))
	defer a.Close()

	ptr1, _ := fixedarena.Create[int8](a)
	ptr2, _ := fixedarena.Create[int64](a)
	ptr3, _ := fixedarena.Create[int32](a)

	fmt.Printf("int8 address alignment: %d\n", uintptr(unsafe.Pointer(ptr1))%unsafe.Alignof(*ptr1))
	fmt.Printf("int64 address alignment: %d\n", uintptr(unsafe.Pointer(ptr2))%unsafe.Alignof(*ptr2))
	fmt.Printf("int32 address alignment: %d\n", uintptr(unsafe.Pointer(ptr3))%unsafe.Alignof(*ptr3))

	// Output:
	// int8 address alignment: 0
	// int64 address alignment: 0
	// int32 address alignment: 0
}
