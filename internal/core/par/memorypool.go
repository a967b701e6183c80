package par

import "sync"

// MemoryPool is a thread-safe bulk allocator for scratch slices of T.
// Allocation (Get) is lock-free via sync.Pool; there is no per-object
// free — Put hands a buffer back to the pool for reuse rather than
// releasing it. Idle buffers are reclaimed by sync.Pool itself, which
// may drop them at any garbage collection, and all remaining ones go
// when the pool is dropped.
type MemoryPool[T any] struct {
	pool sync.Pool
}

// NewMemoryPool creates a pool whose buffers start with the given
// capacity (length zero, ready to be grown with append).
func NewMemoryPool[T any](capacity int) *MemoryPool[T] {
	p := &MemoryPool[T]{}
	p.pool.New = func() any {
		buf := make([]T, 0, capacity)
		return &buf
	}
	return p
}

// Get returns a zero-length scratch slice, reusing a previously
// returned buffer when available.
func (p *MemoryPool[T]) Get() []T {
	buf := p.pool.Get().(*[]T)
	return (*buf)[:0]
}

// Put returns a buffer to the pool for reuse.
func (p *MemoryPool[T]) Put(buf []T) {
	p.pool.Put(&buf)
}
