package geom

import (
	"sort"

	"github.com/bluetit/solver/internal/container"
	"github.com/bluetit/solver/internal/core"
	"github.com/bluetit/solver/internal/core/par"
	"github.com/bluetit/solver/internal/particle"
	"github.com/bluetit/solver/internal/vecmat"
)

// SearchEngine is the common interface GridSearch and KDTree satisfy:
// a neighbor query returning exact-distance-tested point indices
// within radius r of p.
type SearchEngine[T vecmat.Scalar] interface {
	Search(p vecmat.Vec[T], r T) ([]int, error)
}

// BuildAdjacency runs spec.md §4.5's seven-step adjacency build: it
// extracts arr's position field, instantiates a search engine over
// it, finds each particle's neighbors within a caller-supplied radius,
// resolves fixed-particle mirror interpolation neighbors, assigns a
// hierarchical partition via partitioner (writing it back into arr's
// parinfo column), and colors every adjacency edge into P disjoint
// interior blocks plus one shared boundary block.
//
// newEngine instantiates the configured search engine over a slice of
// points (e.g. NewGridSearch or NewKDTree, partially applied). fixed
// marks wall/boundary particles by index; radiusOf(i) is the caller's
// search radius for particle i (usually k*h[i]).
func BuildAdjacency[R vecmat.Scalar](
	arr *particle.Array[R],
	newEngine func(points []vecmat.Vec[R]) SearchEngine[R],
	radiusOf func(i int) R,
	fixed []bool,
	domain BBox[R],
	partitioner Partitioner[R],
	numParts int,
) (*particle.Adjacency, *particle.ColoredBlocks, error) {
	n := arr.Len()
	core.Assert(len(fixed) == n, "geom: BuildAdjacency fixed mask length must match particle count")

	// Step 1: extract the position view.
	positions := append([]vecmat.Vec[R](nil), particle.Field[R, vecmat.Vec[R]](arr, "r")...)

	// Step 2: instantiate the search engine.
	engine := newEngine(positions)

	// Step 3: parallel per-particle neighbor search.
	neighborPairs := make([][]container.Pair[int], n)
	group := &par.Group{}
	par.For(n, func(i0, i1, _ int) {
		for i := i0; i < i1; i++ {
			hits, err := engine.Search(positions[i], radiusOf(i))
			if err != nil {
				group.Go(func() error { return err })
				continue
			}
			bucket := make([]container.Pair[int], 0, len(hits))
			for _, j := range hits {
				if j == i {
					continue
				}
				bucket = append(bucket, container.Pair[int]{Bucket: i, Value: j})
			}
			neighborPairs[i] = bucket
		}
	})
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}
	neighbors, err := container.BulkAssembleTall(n, flatten(neighborPairs))
	if err != nil {
		return nil, nil, err
	}

	// Step 4: fixed-particle mirror search at 3x radius, bucketing only
	// non-fixed hits into the interpolation adjacency.
	interpPairs := make([][]container.Pair[int], n)
	par.For(n, func(i0, i1, _ int) {
		for i := i0; i < i1; i++ {
			if !fixed[i] {
				continue
			}
			mirror := mirrorThroughNearestFace(positions[i], domain)
			hits, serr := engine.Search(mirror, 3*radiusOf(i))
			if serr != nil {
				continue // InvalidRadius here is a config bug, not a per-call failure worth aborting the whole build over
			}
			bucket := make([]container.Pair[int], 0, len(hits))
			for _, j := range hits {
				if !fixed[j] {
					bucket = append(bucket, container.Pair[int]{Bucket: i, Value: j})
				}
			}
			interpPairs[i] = bucket
		}
	})
	interpolation, err := container.BulkAssembleTall(n, flatten(interpPairs))
	if err != nil {
		return nil, nil, err
	}

	// Step 5: canonicalize bucket order.
	sortBuckets(neighbors)
	sortBuckets(interpolation)

	adjacency := &particle.Adjacency{Neighbors: neighbors, Interpolation: interpolation}

	// Step 6: partition and record parinfo.
	weights := uniformWeights[R](n)
	if mField, ok := arr.Schema().Lookup("m"); ok && mField.Kind == particle.Variable {
		weights = particle.Field[R, R](arr, "m")
	}
	labels, err := partitioner.Partition(positions, weights, numParts)
	if err != nil {
		return nil, nil, err
	}
	i := 0
	for v := range arr.Views() {
		v.SetParinfo(labels[i])
		i++
	}

	// Step 7: color edges into P disjoint interior blocks plus one
	// shared boundary block, via blockID (the partition leaf a
	// particle was assigned, canonically numbered in first-seen
	// order) rather than raw partitioner part indices, so this works
	// identically whether the partitioner is flat (SFC, k-means) or
	// genuinely hierarchical (RIB).
	blockID := make(map[particle.PartVec]int)
	for _, l := range labels {
		if _, ok := blockID[l]; !ok {
			blockID[l] = len(blockID)
		}
	}
	p := len(blockID)

	edgePairs := make([]container.Pair[particle.Edge], 0, neighbors.Len())
	for i := 0; i < n; i++ {
		bucket, berr := neighbors.Bucket(i)
		if berr != nil {
			return nil, nil, berr
		}
		for _, j := range bucket {
			color := p
			if labels[i] == labels[j] {
				color = blockID[labels[i]]
			}
			edgePairs = append(edgePairs, container.Pair[particle.Edge]{Bucket: color, Value: particle.Edge{I: i, J: j}})
		}
	}
	blocks, err := container.BulkAssembleWide(p+1, edgePairs)
	if err != nil {
		return nil, nil, err
	}

	return adjacency, &particle.ColoredBlocks{Blocks: blocks, P: p}, nil
}

func flatten(buckets [][]container.Pair[int]) []container.Pair[int] {
	total := 0
	for _, b := range buckets {
		total += len(b)
	}
	out := make([]container.Pair[int], 0, total)
	for _, b := range buckets {
		out = append(out, b...)
	}
	return out
}

func sortBuckets(mv *container.Multivector[int]) {
	for b := 0; b < mv.NumBuckets(); b++ {
		bucket, err := mv.Bucket(b)
		if err != nil {
			continue
		}
		sort.Ints(bucket)
	}
}

func uniformWeights[R vecmat.Scalar](n int) []R {
	out := make([]R, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

// mirrorThroughNearestFace reflects p across whichever domain face
// (across any axis, either side) it is closest to.
func mirrorThroughNearestFace[T vecmat.Scalar](p vecmat.Vec[T], domain BBox[T]) vecmat.Vec[T] {
	bestAxis, bestLo := 0, true
	var bestGap T = -1
	for a := 0; a < p.N(); a++ {
		loGap := p.At(a) - domain.Min.At(a)
		hiGap := domain.Max.At(a) - p.At(a)
		if bestGap < 0 || loGap < bestGap {
			bestAxis, bestLo, bestGap = a, true, loGap
		}
		if bestGap < 0 || hiGap < bestGap {
			bestAxis, bestLo, bestGap = a, false, hiGap
		}
	}
	mirror := p
	if bestLo {
		mirror = mirror.Set(bestAxis, 2*domain.Min.At(bestAxis)-p.At(bestAxis))
	} else {
		mirror = mirror.Set(bestAxis, 2*domain.Max.At(bestAxis)-p.At(bestAxis))
	}
	return mirror
}
