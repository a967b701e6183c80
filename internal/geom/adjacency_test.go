package geom

import (
	"testing"

	"github.com/bluetit/solver/internal/particle"
	"github.com/bluetit/solver/internal/vecmat"
)

func buildTestArray(t *testing.T, pts []vecmat.Vec[float64]) *particle.Array[float64] {
	t.Helper()
	schema := particle.StandardSchema(2)
	arr := particle.NewArray[float64](schema, 2)
	for _, p := range pts {
		v := arr.Append()
		v.SetVector("r", p)
		v.SetScalar("m", 1.0)
	}
	return arr
}

func TestBuildAdjacencyInvariants(t *testing.T) {
	pts := gridOf2D() // 16 points on a 4x4 integer grid
	arr := buildTestArray(t, pts)
	fixed := make([]bool, len(pts))
	domain := BBox[float64]{Min: vecmat.NewVec(-1.0, -1.0), Max: vecmat.NewVec(4.0, 4.0)}

	newEngine := func(points []vecmat.Vec[float64]) SearchEngine[float64] {
		return NewGridSearch(points, 1.0)
	}
	var sfc SFCPartitioner[float64]

	adjacency, colored, err := BuildAdjacency[float64](arr, newEngine, func(int) float64 { return 1.01 }, fixed, domain, sfc, 4)
	if err != nil {
		t.Fatalf("BuildAdjacency: %v", err)
	}

	// Every particle must have been assigned a partition (parinfo set).
	for i, v := range collectViews(arr) {
		_ = i
		_ = v.Parinfo()
	}

	// The set of particles touched by a given interior block's edges
	// is disjoint from every other interior block's particle set (the
	// property that makes parallel accumulation over interior blocks
	// lock-free).
	touched := make([]map[int]int, colored.P) // block -> particle -> count (unused beyond membership)
	for b := 0; b < colored.P; b++ {
		touched[b] = make(map[int]int)
		edges, err := colored.InteriorBlock(b)
		if err != nil {
			t.Fatalf("InteriorBlock(%d): %v", b, err)
		}
		for _, e := range edges {
			touched[b][e.I]++
			touched[b][e.J]++
		}
	}
	for b1 := 0; b1 < colored.P; b1++ {
		for b2 := b1 + 1; b2 < colored.P; b2++ {
			for p := range touched[b1] {
				if _, ok := touched[b2][p]; ok {
					t.Fatalf("particle %d touched by both interior block %d and %d", p, b1, b2)
				}
			}
		}
	}

	if adjacency.Neighbors.NumBuckets() != len(pts) {
		t.Fatalf("Neighbors has %d buckets, want %d", adjacency.Neighbors.NumBuckets(), len(pts))
	}
}

func collectViews(arr *particle.Array[float64]) []particle.View[float64] {
	var out []particle.View[float64]
	for v := range arr.Views() {
		out = append(out, v)
	}
	return out
}
