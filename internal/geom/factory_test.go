package geom

import "testing"

func TestNewEngineFactoryRejectsUnknownMethod(t *testing.T) {
	if _, err := NewEngineFactory("quadtree", 1.0, 16); err == nil {
		t.Fatalf("expected an error for an unknown search method")
	}
}

func TestNewEngineFactoryBuildsKnownMethods(t *testing.T) {
	for _, method := range []string{"grid", "kdtree"} {
		if _, err := NewEngineFactory(method, 1.0, 16); err != nil {
			t.Fatalf("NewEngineFactory(%q): %v", method, err)
		}
	}
}

func TestNewPartitionerBuildsEachKnownMethod(t *testing.T) {
	params := PartitionerParams{KMeansCellEdge: 1.0, KMeansTol: 1e-6, KMeansMaxIter: 10}
	for _, method := range []string{"rib", "sfc", "kmeans"} {
		if _, err := NewPartitioner(method, params); err != nil {
			t.Fatalf("NewPartitioner(%q): %v", method, err)
		}
	}
}

func TestNewPartitionerRejectsUnknownMethod(t *testing.T) {
	if _, err := NewPartitioner("octree", PartitionerParams{}); err == nil {
		t.Fatalf("expected an error for an unknown partition method")
	}
}
