package geom

import (
	"github.com/bluetit/solver/internal/core"
	"github.com/bluetit/solver/internal/particle"
	"github.com/bluetit/solver/internal/vecmat"
)

// KMeansPartitioner implements the pixelated k-means variant of
// spec.md §4.5: rasterize points to a grid of cell edge CellEdge
// (typically 2h), run Lloyd iterations on the populated cells'
// centroids (each weighted by its points' summed weight) rather than on raw points,
// then lift the converged cell labels back to the points they
// rasterized from. This bounds the clustering cost by the number of
// occupied cells instead of the number of particles.
type KMeansPartitioner[T vecmat.Scalar] struct {
	CellEdge T
	Tol      T
	MaxIter  int
}

func (kp KMeansPartitioner[T]) Partition(points []vecmat.Vec[T], weights []T, numParts int) ([]particle.PartVec, error) {
	core.Assert(numParts >= 1, "geom: k-means target part count must be >= 1")
	core.Assert(kp.CellEdge > 0, "geom: k-means cell edge must be positive")
	if len(points) == 0 {
		return nil, nil
	}
	dim := points[0].N()

	// Rasterize: bucket points into grid cells, accumulate weighted
	// centroid and population per occupied cell.
	type cellAgg struct {
		centroid vecmat.Vec[T]
		mass     T
		members  []int
	}
	cells := make(map[cellKey]*cellAgg)
	grid := &GridSearch[T]{cellSize: kp.CellEdge, dim: dim}
	for i, p := range points {
		k := grid.keyOf(p)
		c, ok := cells[k]
		if !ok {
			c = &cellAgg{centroid: vecmat.ZeroVec[T](dim)}
			cells[k] = c
		}
		w := weights[i]
		c.centroid = c.centroid.Add(p.Scale(w))
		c.mass += w
		c.members = append(c.members, i)
	}

	cellKeys := make([]cellKey, 0, len(cells))
	cellPoints := make([]vecmat.Vec[T], 0, len(cells))
	for k, c := range cells {
		cellKeys = append(cellKeys, k)
		if c.mass > 0 {
			c.centroid = c.centroid.Scale(1 / c.mass)
		}
		cellPoints = append(cellPoints, c.centroid)
	}

	if numParts > len(cellPoints) {
		numParts = len(cellPoints)
	}
	if numParts < 1 {
		numParts = 1
	}

	centers := make([]vecmat.Vec[T], numParts)
	for c := range centers {
		centers[c] = cellPoints[(c*len(cellPoints))/numParts]
	}

	assign := make([]int, len(cellPoints))
	converged := false
	for iter := 0; iter < kp.MaxIter; iter++ {
		for i, p := range cellPoints {
			best, bestDistSq := 0, p.Sub(centers[0]).NormSq()
			for c := 1; c < numParts; c++ {
				d := p.Sub(centers[c]).NormSq()
				if d < bestDistSq {
					best, bestDistSq = c, d
				}
			}
			assign[i] = best
		}

		newCenters := make([]vecmat.Vec[T], numParts)
		newMass := make([]T, numParts)
		for c := range newCenters {
			newCenters[c] = vecmat.ZeroVec[T](dim)
		}
		for i, c := range assign {
			w := cells[cellKeys[i]].mass
			newCenters[c] = newCenters[c].Add(cellPoints[i].Scale(w))
			newMass[c] += w
		}

		var maxShift T
		for c := range newCenters {
			if newMass[c] > 0 {
				newCenters[c] = newCenters[c].Scale(1 / newMass[c])
			} else {
				newCenters[c] = centers[c]
			}
			shift := newCenters[c].Sub(centers[c]).Norm()
			if shift > maxShift {
				maxShift = shift
			}
		}
		centers = newCenters
		if maxShift < kp.Tol {
			converged = true
			break
		}
	}
	if !converged {
		core.Warn("geom: pixelated k-means did not converge", "max_iter", kp.MaxIter, "tol", kp.Tol)
	}

	labels := make([]int, len(points))
	for i, k := range cellKeys {
		for _, member := range cells[k].members {
			labels[member] = assign[i]
		}
	}
	return broadcastLabels[T](labels), nil
}
