package geom

import (
	"github.com/bluetit/solver/internal/core"
	"github.com/bluetit/solver/internal/vecmat"
)

// NewEngineFactory builds the newEngine closure BuildAdjacency
// expects, selecting GridSearch or KDTree by name. searchMethod is
// one of "grid" or "kdtree" — the same vocabulary
// internal/config.PartitionConfig.SearchMethod uses, kept as a plain
// string here rather than importing internal/config so this package
// stays below config in the dependency order (cmd/bluetit-solver
// wires the two together).
func NewEngineFactory(searchMethod string, gridCellSize float64, kdMaxLeaf int) (func(points []vecmat.Vec[float64]) SearchEngine[float64], error) {
	switch searchMethod {
	case "grid":
		return func(points []vecmat.Vec[float64]) SearchEngine[float64] {
			return NewGridSearch(points, gridCellSize)
		}, nil
	case "kdtree":
		return func(points []vecmat.Vec[float64]) SearchEngine[float64] {
			return NewKDTree(points, kdMaxLeaf)
		}, nil
	default:
		return nil, core.Newf(core.InvalidState, "geom: unknown search method %q", searchMethod)
	}
}

// PartitionerParams bundles the parameters KMeansPartitioner needs;
// RIBPartitioner and SFCPartitioner take none.
type PartitionerParams struct {
	KMeansCellEdge float64
	KMeansTol      float64
	KMeansMaxIter  int
}

// NewPartitioner selects the domain partitioner partitionMethod
// names: one of "rib", "sfc", "kmeans".
func NewPartitioner(partitionMethod string, p PartitionerParams) (Partitioner[float64], error) {
	switch partitionMethod {
	case "rib":
		return RIBPartitioner[float64]{}, nil
	case "sfc":
		return SFCPartitioner[float64]{}, nil
	case "kmeans":
		return KMeansPartitioner[float64]{
			CellEdge: p.KMeansCellEdge,
			Tol:      p.KMeansTol,
			MaxIter:  p.KMeansMaxIter,
		}, nil
	default:
		return nil, core.Newf(core.InvalidState, "geom: unknown partition method %q", partitionMethod)
	}
}
