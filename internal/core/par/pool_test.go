package par

import (
	"sync/atomic"
	"testing"
)

func TestForCoversEveryIndexExactlyOnce(t *testing.T) {
	const n = 1000
	var hits [n]int32
	For(n, func(i0, i1, _ int) {
		for i := i0; i < i1; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	})
	for i, h := range hits {
		if h != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, h)
		}
	}
}

func TestForEmptyRangeNoop(t *testing.T) {
	called := false
	For(0, func(i0, i1, _ int) { called = true })
	if called {
		t.Fatal("For(0, ...) should not invoke fn")
	}
}

func TestChunksDisjointAndCovering(t *testing.T) {
	ranges := Chunks(37)
	seen := make([]bool, 37)
	for _, r := range ranges {
		for i := r[0]; i < r[1]; i++ {
			if seen[i] {
				t.Fatalf("index %d covered by more than one chunk", i)
			}
			seen[i] = true
		}
	}
	for i, ok := range seen {
		if !ok {
			t.Fatalf("index %d not covered by any chunk", i)
		}
	}
}

func TestGroupCapturesFirstError(t *testing.T) {
	var g Group
	sentinel := errTest("boom")
	for i := 0; i < 8; i++ {
		i := i
		g.Go(func() error {
			if i == 3 {
				return sentinel
			}
			return nil
		})
	}
	if err := g.Wait(); err != sentinel {
		t.Fatalf("Wait() = %v, want %v", err, sentinel)
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }

func TestGroupNilWhenNoErrors(t *testing.T) {
	var g Group
	for i := 0; i < 4; i++ {
		g.Go(func() error { return nil })
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("Wait() = %v, want nil", err)
	}
}
