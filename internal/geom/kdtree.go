package geom

import (
	"github.com/bluetit/solver/internal/core"
	"github.com/bluetit/solver/internal/vecmat"
)

// KDTree is a balanced, median-split k-d tree neighbor search engine
// (spec.md §4.5). Leaves hold contiguous index ranges of size <=
// MaxLeaf; internal nodes split on the widest bounding-box axis at a
// tie-aware median (see splitNode).
type KDTree[T vecmat.Scalar] struct {
	points []vecmat.Vec[T]
	perm   []int
	root   *kdNode[T]
}

type kdNode[T vecmat.Scalar] struct {
	bbox        BBox[T]
	lo, hi      int // leaf: index range into perm
	left, right *kdNode[T]
}

func (n *kdNode[T]) isLeaf() bool { return n.left == nil }

// NewKDTree builds a KDTree over points with leaves capped at maxLeaf
// points.
func NewKDTree[T vecmat.Scalar](points []vecmat.Vec[T], maxLeaf int) *KDTree[T] {
	core.Assert(maxLeaf >= 1, "geom: KDTree max leaf size must be >= 1")
	perm := make([]int, len(points))
	for i := range perm {
		perm[i] = i
	}
	t := &KDTree[T]{points: points, perm: perm}
	if len(points) > 0 {
		t.root = t.build(0, len(perm), maxLeaf)
	}
	return t
}

func (t *KDTree[T]) build(lo, hi, maxLeaf int) *kdNode[T] {
	bbox := boundsOf(t.points, t.perm[lo:hi])
	n := hi - lo
	if n <= maxLeaf {
		return &kdNode[T]{bbox: bbox, lo: lo, hi: hi}
	}

	axis := bbox.WidestAxis()
	split := t.splitNode(lo, hi, axis)
	if split <= lo || split >= hi {
		// Degenerate split (every point coincides on axis): force a
		// leaf rather than recursing forever on an unsplittable range.
		return &kdNode[T]{bbox: bbox, lo: lo, hi: hi}
	}

	return &kdNode[T]{
		bbox:  bbox,
		lo:    lo,
		hi:    hi,
		left:  t.build(lo, split, maxLeaf),
		right: t.build(split, hi, maxLeaf),
	}
}

// splitNode partitions perm[lo:hi] in place by axis value around the
// median with one three-way pass into "<", "==" and ">" blocks, and
// picks split index = max(first index of the ">=" block, the range's
// midpoint). The pivot is the median value, so at most mid-lo keys lie
// below it and the split is always the midpoint: equal keys may
// straddle it, and a large equal-value block can't unbalance the
// tree. Returns the resulting split index (left subtree is
// perm[lo:split), right is perm[split:hi)).
func (t *KDTree[T]) splitNode(lo, hi, axis int) int {
	perm := t.perm
	axisVal := func(i int) T { return t.points[perm[i]].At(axis) }

	mid := lo + (hi-lo)/2
	pivot := medianSelect(perm[lo:hi], func(i int) T { return t.points[i].At(axis) }, mid-lo)

	swap := func(a, b int) { perm[a], perm[b] = perm[b], perm[a] }

	// Three-way (Dutch national flag) partition of perm[lo:hi] around
	// pivot: [lo,low) < pivot, [low,i) == pivot, [i,hi) > pivot.
	low, i, high := lo, lo, hi
	for i < high {
		v := axisVal(i)
		switch {
		case v < pivot:
			swap(low, i)
			low++
			i++
		case v > pivot:
			high--
			swap(i, high)
		default:
			i++
		}
	}

	firstGeqPivot := low
	if firstGeqPivot < mid {
		return mid
	}
	return firstGeqPivot
}

// medianSelect returns the value of the k-th smallest element (0
// indexed) of perm by key, using quickselect; perm is left reordered
// but that reordering is discarded by the caller's own partition pass.
func medianSelect[T vecmat.Scalar](perm []int, key func(int) T, k int) T {
	lo, hi := 0, len(perm)-1
	for {
		if lo == hi {
			return key(perm[lo])
		}
		pivotIdx := lo + (hi-lo)/2
		pivot := key(perm[pivotIdx])
		perm[pivotIdx], perm[hi] = perm[hi], perm[pivotIdx]
		store := lo
		for i := lo; i < hi; i++ {
			if key(perm[i]) < pivot {
				perm[i], perm[store] = perm[store], perm[i]
				store++
			}
		}
		perm[store], perm[hi] = perm[hi], perm[store]
		switch {
		case k == store:
			return pivot
		case k < store:
			hi = store - 1
		default:
			lo = store + 1
		}
	}
}

// Search returns the indices of points within radius r of p. Fails
// InvalidRadius if r <= 0.
func (t *KDTree[T]) Search(p vecmat.Vec[T], r T) ([]int, error) {
	if r <= 0 {
		return nil, core.Newf(core.InvalidRadius, "geom: KDTree search radius %v must be positive", r)
	}
	if t.root == nil {
		return nil, nil
	}
	rSq := r * r
	var out []int
	t.searchNode(t.root, p, rSq, &out)
	return out, nil
}

func (t *KDTree[T]) searchNode(n *kdNode[T], p vecmat.Vec[T], rSq T, out *[]int) {
	if n.bbox.DistSq(p) > rSq {
		return
	}
	if n.isLeaf() {
		for _, i := range t.perm[n.lo:n.hi] {
			d := p.Sub(t.points[i])
			if d.NormSq() <= rSq {
				*out = append(*out, i)
			}
		}
		return
	}
	// Near-child-first descent: the bounding-box gap already prunes
	// correctly regardless of order, but visiting the nearer child
	// first matches spec.md §4.5's descent order.
	near, far := n.left, n.right
	if n.right.bbox.DistSq(p) < n.left.bbox.DistSq(p) {
		near, far = n.right, n.left
	}
	t.searchNode(near, p, rSq, out)
	t.searchNode(far, p, rSq, out)
}
