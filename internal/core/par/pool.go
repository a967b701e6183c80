// Package par provides the process-wide worker pool, an error-capturing
// task group, and a bulk memory pool, grounded on the teacher's
// worker-chunk parallel pattern (game/parallel.go: build snapshots,
// dispatch fixed-size chunks across runtime.GOMAXPROCS workers, apply
// results single-threaded) and generalized to spec.md §5's scheduling
// model: a fixed-size pool set once at process init, never resized
// once a parallel region has started.
package par

import (
	"sync"
	"sync/atomic"

	"github.com/bluetit/solver/internal/core"
)

var (
	poolSize   atomic.Int64
	poolInited atomic.Bool
	regionRan  atomic.Bool
)

// Init sets the process-wide worker count. It must be called at most
// once, before the first parallel region runs; later calls once a
// region has started are ignored (spec.md §9: "enforce at construction
// that no parallel region has yet started, and reject reconfiguration
// otherwise").
func Init(numWorkers int) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if regionRan.Load() {
		core.Warn("par: ignoring Init after a parallel region has already run", "requested", numWorkers)
		return
	}
	poolSize.Store(int64(numWorkers))
	poolInited.Store(true)
}

// NumWorkers returns the configured worker count, defaulting to 8 if
// Init was never called (spec.md §6: TIT_NUM_THREADS default 8).
func NumWorkers() int {
	if !poolInited.Load() {
		return 8
	}
	return int(poolSize.Load())
}

// Chunks splits [0, n) into at most NumWorkers contiguous, roughly
// equal ranges, skipping empty ranges when n is smaller than the pool.
func Chunks(n int) [][2]int {
	regionRan.Store(true)
	workers := NumWorkers()
	if workers > n {
		workers = n
	}
	if workers < 1 {
		return nil
	}
	chunkSize := (n + workers - 1) / workers
	ranges := make([][2]int, 0, workers)
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		ranges = append(ranges, [2]int{start, end})
	}
	return ranges
}

// For runs fn(i0, i1, workerID) over NumWorkers roughly-equal chunks of
// [0, n), in parallel, and blocks until every chunk has returned
// (spec.md §5's "join-before-next-phase" ordering guarantee).
func For(n int, fn func(i0, i1, workerID int)) {
	ranges := Chunks(n)
	if len(ranges) <= 1 {
		if len(ranges) == 1 {
			fn(ranges[0][0], ranges[0][1], 0)
		}
		return
	}
	var wg sync.WaitGroup
	wg.Add(len(ranges))
	for w, r := range ranges {
		go func(workerID, i0, i1 int) {
			defer wg.Done()
			fn(i0, i1, workerID)
		}(w, r[0], r[1])
	}
	wg.Wait()
}
