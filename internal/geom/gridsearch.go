package geom

import (
	"math"

	"github.com/bluetit/solver/internal/core"
	"github.com/bluetit/solver/internal/vecmat"
)

// GridSearch is a uniform-grid neighbor search engine (spec.md §4.5):
// cell edge >= max search radius, so a radius query only ever needs
// to inspect the 3x3x3 (3^dim) block of cells centered on the query
// point. Grounded on the teacher's cell-bucketed SpatialGrid
// (systems/spatial.go), generalized from a fixed 2-D toroidal array to
// an unbounded n-dimensional domain keyed by cell coordinate.
type GridSearch[T vecmat.Scalar] struct {
	cellSize T
	dim      int
	points   []vecmat.Vec[T]
	cells    map[cellKey][]int
}

// cellKey is a fixed-width, comparable cell coordinate usable as a map
// key regardless of the points' actual dimension (unused axes are 0).
type cellKey [vecmat.MaxDim]int32

// NewGridSearch builds a GridSearch over points with the given cell
// edge length. cellSize must be at least as large as any radius the
// caller intends to query with.
func NewGridSearch[T vecmat.Scalar](points []vecmat.Vec[T], cellSize T) *GridSearch[T] {
	core.Assert(cellSize > 0, "geom: GridSearch cell size must be positive")
	g := &GridSearch[T]{cellSize: cellSize, cells: make(map[cellKey][]int, len(points))}
	if len(points) > 0 {
		g.dim = points[0].N()
	}
	g.points = points
	for i, p := range points {
		k := g.keyOf(p)
		g.cells[k] = append(g.cells[k], i)
	}
	return g
}

func (g *GridSearch[T]) keyOf(p vecmat.Vec[T]) cellKey {
	var k cellKey
	for a := 0; a < g.dim; a++ {
		k[a] = int32(math.Floor(float64(p.At(a)) / float64(g.cellSize)))
	}
	return k
}

// Search returns the indices of points within radius r of p, using an
// exact distance test over the 3^dim neighboring cells. Fails
// InvalidRadius if r <= 0.
func (g *GridSearch[T]) Search(p vecmat.Vec[T], r T) ([]int, error) {
	if r <= 0 {
		return nil, core.Newf(core.InvalidRadius, "geom: GridSearch search radius %v must be positive", r)
	}
	rSq := r * r
	center := g.keyOf(p)

	var out []int
	var walk func(axis int, k cellKey)
	walk = func(axis int, k cellKey) {
		if axis == g.dim {
			for _, i := range g.cells[k] {
				d := p.Sub(g.points[i])
				if d.NormSq() <= rSq {
					out = append(out, i)
				}
			}
			return
		}
		for d := int32(-1); d <= 1; d++ {
			k[axis] = center[axis] + d
			walk(axis+1, k)
		}
	}
	walk(0, center)
	return out, nil
}
