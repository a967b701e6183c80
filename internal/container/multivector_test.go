package container

import (
	"sort"
	"testing"

	"github.com/bluetit/solver/internal/core"
)

func pairsFor(t *testing.T) (int, []Pair[int]) {
	t.Helper()
	const numBuckets = 5
	pairs := []Pair[int]{
		{Bucket: 0, Value: 1},
		{Bucket: 2, Value: 2},
		{Bucket: 2, Value: 3},
		{Bucket: 4, Value: 4},
		{Bucket: 0, Value: 5},
		{Bucket: 1, Value: 6},
	}
	return numBuckets, pairs
}

func checkBuckets(t *testing.T, mv *Multivector[int]) {
	t.Helper()
	if mv.NumBuckets() != 5 {
		t.Fatalf("NumBuckets() = %d, want 5", mv.NumBuckets())
	}
	b0, err := mv.Bucket(0)
	if err != nil {
		t.Fatalf("Bucket(0): %v", err)
	}
	sort.Ints(b0)
	if len(b0) != 2 || b0[0] != 1 || b0[1] != 5 {
		t.Fatalf("Bucket(0) = %v, want [1 5]", b0)
	}
	b3, err := mv.Bucket(3)
	if err != nil || len(b3) != 0 {
		t.Fatalf("Bucket(3) = %v, err=%v, want empty bucket", b3, err)
	}
	if mv.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", mv.Len())
	}
}

func TestBulkAssembleTall(t *testing.T) {
	numBuckets, pairs := pairsFor(t)
	mv, err := BulkAssembleTall(numBuckets, pairs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkBuckets(t, mv)
}

func TestBulkAssembleWide(t *testing.T) {
	numBuckets, pairs := pairsFor(t)
	mv, err := BulkAssembleWide(numBuckets, pairs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkBuckets(t, mv)
}

func TestBulkAssembleRejectsOutOfRangeBucket(t *testing.T) {
	_, err := BulkAssembleTall(2, []Pair[int]{{Bucket: 7, Value: 1}})
	if !core.Is(err, core.BucketIndexOutOfRange) {
		t.Fatalf("expected BucketIndexOutOfRange, got %v", err)
	}
}

func TestMultivectorClearResetsToSentinel(t *testing.T) {
	numBuckets, pairs := pairsFor(t)
	mv, err := BulkAssembleTall(numBuckets, pairs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mv.Clear()
	if mv.NumBuckets() != 0 || mv.Len() != 0 {
		t.Fatalf("Clear() left NumBuckets=%d Len=%d, want 0,0", mv.NumBuckets(), mv.Len())
	}
}
