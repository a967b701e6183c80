package container

import "github.com/bluetit/solver/internal/core"

// Mdvector is a dense D-dimensional tensor with runtime extents,
// addressed row-major.
type Mdvector[T any] struct {
	extents []int
	strides []int
	data    []T
}

// NewMdvector returns a zero-valued tensor with the given extents.
func NewMdvector[T any](extents ...int) Mdvector[T] {
	var m Mdvector[T]
	m.Reshape(extents...)
	return m
}

// Reshape replaces the tensor's extents, discarding any existing
// data — spec's "assignment replaces extents".
func (m *Mdvector[T]) Reshape(extents ...int) {
	core.Assert(len(extents) >= 1, "container: Mdvector requires at least one extent")
	size := 1
	for _, e := range extents {
		core.Assert(e >= 0, "container: Mdvector extent %d must be >= 0", e)
		size *= e
	}
	m.extents = append([]int(nil), extents...)
	m.strides = rowMajorStrides(extents)
	m.data = make([]T, size)
}

func rowMajorStrides(extents []int) []int {
	strides := make([]int, len(extents))
	stride := 1
	for i := len(extents) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= extents[i]
	}
	return strides
}

// Extents returns the tensor's current extents.
func (m Mdvector[T]) Extents() []int { return append([]int(nil), m.extents...) }

// Rank returns the number of dimensions.
func (m Mdvector[T]) Rank() int { return len(m.extents) }

func (m Mdvector[T]) index(idx []int) int {
	core.Assert(len(idx) == len(m.extents), "container: Mdvector index rank %d != tensor rank %d", len(idx), len(m.extents))
	addr := 0
	for d, i := range idx {
		core.Assert(i >= 0 && i < m.extents[d], "container: Mdvector index %d out of range [0,%d) on axis %d", i, m.extents[d], d)
		addr += i * m.strides[d]
	}
	return addr
}

// At returns the element at the given multi-index.
func (m Mdvector[T]) At(idx ...int) T { return m.data[m.index(idx)] }

// Set replaces the element at the given multi-index.
func (m Mdvector[T]) Set(v T, idx ...int) { m.data[m.index(idx)] = v }

// Data exposes the tensor's flat row-major backing storage.
func (m Mdvector[T]) Data() []T { return m.data }
