package geom

import (
	"github.com/bluetit/solver/internal/particle"
	"github.com/bluetit/solver/internal/vecmat"
)

// Partitioner assigns each point a hierarchical partition label in
// [0, numParts) (broadcast uniformly across all PartVec levels unless
// the partitioner is genuinely hierarchical, as RIBPartitioner is).
// spec.md §9's "configured partition method" selects one of these at
// solver startup.
type Partitioner[T vecmat.Scalar] interface {
	Partition(points []vecmat.Vec[T], weights []T, numParts int) ([]particle.PartVec, error)
}

func broadcastLabels[T vecmat.Scalar](labels []int) []particle.PartVec {
	out := make([]particle.PartVec, len(labels))
	for i, l := range labels {
		lvl := uint8(l)
		out[i] = particle.NewPartVec(lvl, lvl, lvl, lvl, lvl, lvl, lvl, lvl)
	}
	return out
}
