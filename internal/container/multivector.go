package container

import (
	"sync/atomic"

	"github.com/bluetit/solver/internal/core"
	"github.com/bluetit/solver/internal/core/par"
)

// Pair is one (bucket, value) entry in the assembly stream consumed
// by BulkAssembleTall/BulkAssembleWide.
type Pair[T any] struct {
	Bucket int
	Value  T
}

// Multivector is a ragged 2-D container of B buckets of T, built by
// bulk assembly from a stream of (bucket, value) pairs rather than
// incremental appends.
type Multivector[T any] struct {
	offsets []int // length numBuckets+1
	data    []T
}

// NumBuckets returns the number of buckets.
func (mv *Multivector[T]) NumBuckets() int {
	if len(mv.offsets) == 0 {
		return 0
	}
	return len(mv.offsets) - 1
}

// Len returns the total number of elements across all buckets.
func (mv *Multivector[T]) Len() int { return len(mv.data) }

// Bucket returns the slice of values belonging to bucket b.
func (mv *Multivector[T]) Bucket(b int) ([]T, error) {
	if b < 0 || b >= mv.NumBuckets() {
		return nil, core.Newf(core.BucketIndexOutOfRange, "bucket %d out of range [0,%d)", b, mv.NumBuckets())
	}
	return mv.data[mv.offsets[b]:mv.offsets[b+1]], nil
}

// Clear resets the multivector to one bucket-offset sentinel — zero
// buckets, zero elements.
func (mv *Multivector[T]) Clear() {
	mv.offsets = []int{0}
	mv.data = nil
}

func validateBuckets[T any](numBuckets int, pairs []Pair[T]) error {
	for _, p := range pairs {
		if p.Bucket < 0 || p.Bucket >= numBuckets {
			return core.Newf(core.BucketIndexOutOfRange, "bucket %d out of range [0,%d)", p.Bucket, numBuckets)
		}
	}
	return nil
}

// BulkAssembleTall builds a Multivector via the "tall" assembly mode
// (#buckets >> avg bucket size): a two-pass atomic fetch-add
// prefix-sum scheme. Pass 1 counts per-bucket sizes into work[b+2];
// a serial prefix sum converts counts to starting offsets; pass 2
// uses work[b+1] as an atomic write cursor. Order within a bucket is
// not deterministic — callers needing a canonical order must sort
// afterward.
func BulkAssembleTall[T any](numBuckets int, pairs []Pair[T]) (*Multivector[T], error) {
	if err := validateBuckets(numBuckets, pairs); err != nil {
		return nil, err
	}

	work := make([]atomic.Int64, numBuckets+2)
	par.For(len(pairs), func(i0, i1, _ int) {
		for i := i0; i < i1; i++ {
			work[pairs[i].Bucket+2].Add(1)
		}
	})

	for i := 1; i <= numBuckets+1; i++ {
		work[i].Store(work[i].Load() + work[i-1].Load())
	}

	offsets := make([]int, numBuckets+1)
	for b := 0; b <= numBuckets; b++ {
		offsets[b] = int(work[b+1].Load())
	}

	data := make([]T, offsets[numBuckets])
	par.For(len(pairs), func(i0, i1, _ int) {
		for i := i0; i < i1; i++ {
			p := pairs[i]
			idx := work[p.Bucket+1].Add(1) - 1
			data[idx] = p.Value
		}
	})

	return &Multivector[T]{offsets: offsets, data: data}, nil
}

// BulkAssembleWide builds a Multivector via the "wide" assembly mode
// (avg bucket size >> #buckets): a per-thread-per-bucket count
// matrix, scanned across threads into per-thread write cursors, so
// each worker writes only to its own cursor range with no atomics.
// Order within a bucket is per-thread-ordered (deterministic given a
// fixed worker count and chunking).
func BulkAssembleWide[T any](numBuckets int, pairs []Pair[T]) (*Multivector[T], error) {
	if err := validateBuckets(numBuckets, pairs); err != nil {
		return nil, err
	}

	numWorkers := par.NumWorkers()
	counts := make([][]int, numWorkers)
	for w := range counts {
		counts[w] = make([]int, numBuckets)
	}

	par.For(len(pairs), func(i0, i1, workerID int) {
		local := counts[workerID]
		for i := i0; i < i1; i++ {
			local[pairs[i].Bucket]++
		}
	})

	offsets := make([]int, numBuckets+1)
	cursor := make([][]int, numWorkers)
	for w := range cursor {
		cursor[w] = make([]int, numBuckets)
	}
	for b := 0; b < numBuckets; b++ {
		acc := offsets[b]
		for w := 0; w < numWorkers; w++ {
			cursor[w][b] = acc
			acc += counts[w][b]
		}
		offsets[b+1] = acc
	}

	data := make([]T, offsets[numBuckets])
	par.For(len(pairs), func(i0, i1, workerID int) {
		local := cursor[workerID]
		for i := i0; i < i1; i++ {
			p := pairs[i]
			idx := local[p.Bucket]
			data[idx] = p.Value
			local[p.Bucket] = idx + 1
		}
	})

	return &Multivector[T]{offsets: offsets, data: data}, nil
}
