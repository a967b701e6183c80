package geom

import (
	"testing"

	"github.com/bluetit/solver/internal/particle"
	"github.com/bluetit/solver/internal/vecmat"
)

func TestSFCPartitionerProducesContiguousBlockSizes(t *testing.T) {
	pts := gridOf2D() // 16 points
	weights := uniformWeights[float64](len(pts))

	var sfc SFCPartitioner[float64]
	labels, err := sfc.Partition(pts, weights, 4)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	if len(labels) != len(pts) {
		t.Fatalf("got %d labels, want %d", len(labels), len(pts))
	}

	counts := map[particle.PartVec]int{}
	for _, l := range labels {
		counts[l]++
	}
	if len(counts) != 4 {
		t.Fatalf("expected 4 distinct blocks, got %d", len(counts))
	}
	for _, c := range counts {
		if c != 4 {
			t.Fatalf("expected each block to hold 4 of 16 points evenly, got %d", c)
		}
	}
}
