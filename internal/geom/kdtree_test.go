package geom

import (
	"sort"
	"testing"

	"github.com/bluetit/solver/internal/core"
	"github.com/bluetit/solver/internal/vecmat"
)

func TestKDTreeMatchesBruteForce(t *testing.T) {
	pts := gridOf2D()
	tree := NewKDTree(pts, 3)

	query := vecmat.NewVec(2.0, 1.5)
	const r = 1.6

	got, err := tree.Search(query, r)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	sort.Ints(got)

	var want []int
	for i, p := range pts {
		if p.Sub(query).Norm() <= r {
			want = append(want, i)
		}
	}
	sort.Ints(want)

	if len(got) != len(want) {
		t.Fatalf("Search = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("Search = %v, want %v", got, want)
		}
	}
}

func TestKDTreeRejectsNonPositiveRadius(t *testing.T) {
	tree := NewKDTree(gridOf2D(), 3)
	if _, err := tree.Search(vecmat.NewVec(0.0, 0.0), 0); !core.Is(err, core.InvalidRadius) {
		t.Fatalf("expected InvalidRadius, got %v", err)
	}
}

func TestKDTreeLeavesRespectMaxLeaf(t *testing.T) {
	pts := gridOf2D()
	tree := NewKDTree(pts, 3)
	var walk func(n *kdNode[float64])
	walk = func(n *kdNode[float64]) {
		if n.isLeaf() {
			if n.hi-n.lo > 3 {
				t.Fatalf("leaf holds %d points, want <= 3", n.hi-n.lo)
			}
			return
		}
		walk(n.left)
		walk(n.right)
	}
	walk(tree.root)
}
