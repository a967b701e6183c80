// Package container implements the fixed-capacity array, dense
// row-major tensor, and ragged CSR-style multivector the particle
// model and spatial indexing build on.
package container

import "github.com/bluetit/solver/internal/core"

// FixedArray is a fixed-size, never-growing array of T. Its
// move-only nature in the original design is modeled in Go as a
// convention rather than a compiler-enforced rule: callers should
// pass a *FixedArray[T] or call Clone explicitly rather than copying
// the struct by value. The zero value is the empty array.
type FixedArray[T any] struct {
	data []T
}

// NewFixedArray returns a FixedArray of the given size, every element
// initialized to initial.
func NewFixedArray[T any](size int, initial T) FixedArray[T] {
	core.Assert(size >= 0, "container: FixedArray size %d must be >= 0", size)
	a := FixedArray[T]{data: make([]T, size)}
	for i := range a.data {
		a.data[i] = initial
	}
	return a
}

// NewFixedArrayFromSlice copies src into a new FixedArray of the same
// size (the "from sized range" constructor).
func NewFixedArrayFromSlice[T any](src []T) FixedArray[T] {
	a := FixedArray[T]{data: make([]T, len(src))}
	copy(a.data, src)
	return a
}

// EmptyFixedArray returns the empty FixedArray — FixedArray(0) is
// valid per spec.
func EmptyFixedArray[T any]() FixedArray[T] { return FixedArray[T]{} }

// Len returns the array's fixed size.
func (a FixedArray[T]) Len() int { return len(a.data) }

// At returns the element at index i.
func (a FixedArray[T]) At(i int) T {
	core.Assert(i >= 0 && i < len(a.data), "container: FixedArray index %d out of range [0,%d)", i, len(a.data))
	return a.data[i]
}

// Set replaces the element at index i.
func (a FixedArray[T]) Set(i int, v T) {
	core.Assert(i >= 0 && i < len(a.data), "container: FixedArray index %d out of range [0,%d)", i, len(a.data))
	a.data[i] = v
}

// Slice exposes the array's contiguous backing storage — the stand-in
// for spec's "random-access iterator meeting contiguous-iterator
// contract". Mutations through the returned slice are visible to the
// FixedArray.
func (a FixedArray[T]) Slice() []T { return a.data }

// Clone returns a deep copy, for call sites that need move-only
// semantics made explicit rather than relying on Go's value-copy of
// the (shared-backing-array) struct.
func (a FixedArray[T]) Clone() FixedArray[T] {
	return NewFixedArrayFromSlice(a.data)
}
