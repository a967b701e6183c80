package par

import "sync"

// Group runs a fixed number of tasks concurrently and captures the
// first error raised by any of them. All tasks always run to
// completion (spec.md §5: "in-flight parallel regions always run to
// completion") even if an earlier one has already failed; Wait drains
// every task before returning the first captured error, matching
// spec.md §7's propagation policy for parallel regions.
type Group struct {
	wg      sync.WaitGroup
	once    sync.Once
	firstMu sync.Mutex
	first   error
}

// Go launches fn in its own goroutine, recording fn's error (if any)
// as the group's first error if none has been recorded yet.
func (g *Group) Go(fn func() error) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		if err := fn(); err != nil {
			g.firstMu.Lock()
			if g.first == nil {
				g.first = err
			}
			g.firstMu.Unlock()
		}
	}()
}

// Wait blocks until every launched task has returned, then returns the
// first captured error, or nil if all tasks succeeded.
func (g *Group) Wait() error {
	g.wg.Wait()
	return g.first
}
