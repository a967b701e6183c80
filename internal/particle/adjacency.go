package particle

import "github.com/bluetit/solver/internal/container"

// Adjacency holds the neighbor lists spatial indexing builds: a
// primary per-particle neighbor multivector, and a secondary
// interpolation multivector used by fixed particles to borrow field
// values from their nearest non-fixed neighbors via mirror points
// (spec.md §4.5 step 4).
type Adjacency struct {
	Neighbors    *container.Multivector[int]
	Interpolation *container.Multivector[int]
}

// NeighborsOf returns the neighbor indices of particle i.
func (a *Adjacency) NeighborsOf(i int) ([]int, error) {
	return a.Neighbors.Bucket(i)
}

// InterpolationNeighborsOf returns the non-fixed particle indices a
// fixed particle i should interpolate its mirrored field values from.
func (a *Adjacency) InterpolationNeighborsOf(i int) ([]int, error) {
	return a.Interpolation.Bucket(i)
}

// Edge is a directed adjacency edge (i, j) produced by the spatial
// search, carried through the coloring step before being consumed by
// the SPH force-accumulation pass.
type Edge struct {
	I, J int
}

// ColoredBlocks partitions an adjacency's edges into P disjoint
// "interior" blocks plus one shared "boundary" block (bucket P of a
// single P+1-bucket multivector), the coloring spec.md §4.5 step 7
// describes: within an interior block no two edges share a vertex, so
// the P interior blocks can be processed lock-free in parallel; the
// boundary block must be serialized.
type ColoredBlocks struct {
	Blocks *container.Multivector[Edge] // P+1 buckets; bucket P is the boundary block
	P      int
}

// InteriorBlock returns the edge list for interior color block p (0 <= p < P).
func (c *ColoredBlocks) InteriorBlock(p int) ([]Edge, error) {
	return c.Blocks.Bucket(p)
}

// BoundaryBlock returns the edge list for the shared boundary block.
func (c *ColoredBlocks) BoundaryBlock() ([]Edge, error) {
	return c.Blocks.Bucket(c.P)
}
