package geom

import (
	"testing"

	"github.com/bluetit/solver/internal/vecmat"
)

func TestRIBPartitionerSeparatesWellSeparatedClusters(t *testing.T) {
	var pts []vecmat.Vec[float64]
	for _, x := range []float64{0, 0.1, 0.2, 0.3} {
		pts = append(pts, vecmat.NewVec(x, 0.0))
	}
	for _, x := range []float64{100, 100.1, 100.2, 100.3} {
		pts = append(pts, vecmat.NewVec(x, 0.0))
	}
	weights := make([]float64, len(pts))
	for i := range weights {
		weights[i] = 1
	}

	var rib RIBPartitioner[float64]
	labels, err := rib.Partition(pts, weights, 2)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}

	for i := 0; i < 4; i++ {
		if labels[i] != labels[0] {
			t.Fatalf("expected first cluster to share a partition label, particle %d diverged", i)
		}
	}
	for i := 4; i < 8; i++ {
		if labels[i] != labels[4] {
			t.Fatalf("expected second cluster to share a partition label, particle %d diverged", i)
		}
	}
	if labels[0] == labels[4] {
		t.Fatal("expected the two well-separated clusters to receive different partition labels")
	}
}

func TestRIBPartitionerCoversEveryPoint(t *testing.T) {
	var pts []vecmat.Vec[float64]
	for i := 0; i < 17; i++ {
		pts = append(pts, vecmat.NewVec(float64(i), float64(i%3)))
	}
	weights := make([]float64, len(pts))
	for i := range weights {
		weights[i] = 1
	}
	var rib RIBPartitioner[float64]
	labels, err := rib.Partition(pts, weights, 4)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	if len(labels) != len(pts) {
		t.Fatalf("Partition returned %d labels, want %d", len(labels), len(pts))
	}
}
