// Package geom implements spec.md §4.5's spatial indexing and
// partitioning layer: GridSearch and KDTree neighbor search engines,
// recursive inertial bisection and pixelated k-means partitioners, and
// the BuildAdjacency procedure that ties neighbor search together with
// partitioning to produce a particle.Adjacency and its lock-free
// coloring into particle.ColoredBlocks.
package geom

import "github.com/bluetit/solver/internal/vecmat"

// BBox is an axis-aligned bounding box in up to vecmat.MaxDim
// dimensions.
type BBox[T vecmat.Scalar] struct {
	Min, Max vecmat.Vec[T]
}

// boundsOf computes the bounding box of points[idx] for idx in perm.
func boundsOf[T vecmat.Scalar](points []vecmat.Vec[T], perm []int) BBox[T] {
	n := points[perm[0]].N()
	lo, hi := points[perm[0]], points[perm[0]]
	for _, i := range perm[1:] {
		p := points[i]
		for a := 0; a < n; a++ {
			if p.At(a) < lo.At(a) {
				lo = lo.Set(a, p.At(a))
			}
			if p.At(a) > hi.At(a) {
				hi = hi.Set(a, p.At(a))
			}
		}
	}
	return BBox[T]{Min: lo, Max: hi}
}

// WidestAxis returns the axis with the largest extent.
func (b BBox[T]) WidestAxis() int {
	best, bestWidth := 0, b.Max.At(0)-b.Min.At(0)
	for a := 1; a < b.Min.N(); a++ {
		w := b.Max.At(a) - b.Min.At(a)
		if w > bestWidth {
			best, bestWidth = a, w
		}
	}
	return best
}

// DistSq returns the squared distance from p to the nearest point of
// b, zero if p lies inside b.
func (b BBox[T]) DistSq(p vecmat.Vec[T]) T {
	var sum T
	for a := 0; a < p.N(); a++ {
		x := p.At(a)
		var gap T
		if x < b.Min.At(a) {
			gap = b.Min.At(a) - x
		} else if x > b.Max.At(a) {
			gap = x - b.Max.At(a)
		}
		sum += gap * gap
	}
	return sum
}
