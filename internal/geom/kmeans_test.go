package geom

import (
	"testing"

	"github.com/bluetit/solver/internal/vecmat"
)

func TestKMeansPartitionerSeparatesWellSeparatedClusters(t *testing.T) {
	var pts []vecmat.Vec[float64]
	for _, x := range []float64{0, 0.1, 0.2} {
		for _, y := range []float64{0, 0.1} {
			pts = append(pts, vecmat.NewVec(x, y))
		}
	}
	for _, x := range []float64{50, 50.1, 50.2} {
		for _, y := range []float64{0, 0.1} {
			pts = append(pts, vecmat.NewVec(x, y))
		}
	}
	weights := uniformWeights[float64](len(pts))

	kp := KMeansPartitioner[float64]{CellEdge: 1.0, Tol: 1e-6, MaxIter: 50}
	labels, err := kp.Partition(pts, weights, 2)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	for i := 1; i < 6; i++ {
		if labels[i] != labels[0] {
			t.Fatalf("expected first cluster to share a label, particle %d diverged", i)
		}
	}
	for i := 7; i < 12; i++ {
		if labels[i] != labels[6] {
			t.Fatalf("expected second cluster to share a label, particle %d diverged", i)
		}
	}
	if labels[0] == labels[6] {
		t.Fatal("expected distinct clusters to land in different blocks")
	}
}
