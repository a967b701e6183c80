package vecmat

import "testing"

func TestVecArithmetic(t *testing.T) {
	a := NewVec(1.0, 2.0, 3.0)
	b := NewVec(4.0, 5.0, 6.0)

	if got := a.Add(b); !got.ApproxEqual(NewVec(5.0, 7.0, 9.0), 1e-12) {
		t.Fatalf("Add = %v", got.Slice())
	}
	if got := b.Sub(a); !got.ApproxEqual(NewVec(3.0, 3.0, 3.0), 1e-12) {
		t.Fatalf("Sub = %v", got.Slice())
	}
	if got := a.Dot(b); got != 32.0 {
		t.Fatalf("Dot = %v, want 32", got)
	}
	if got := a.Scale(2.0); !got.ApproxEqual(NewVec(2.0, 4.0, 6.0), 1e-12) {
		t.Fatalf("Scale = %v", got.Slice())
	}
}

func TestVecNorm(t *testing.T) {
	v := NewVec(3.0, 4.0)
	if got := v.Norm(); got != 5.0 {
		t.Fatalf("Norm = %v, want 5", got)
	}
}

func TestVecOuterProducesMatchingMatrix(t *testing.T) {
	a := NewVec(1.0, 2.0)
	b := NewVec(3.0, 4.0)
	m := a.Outer(b)
	want := [][]float64{{3, 4}, {6, 8}}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if m.At(i, j) != want[i][j] {
				t.Fatalf("Outer[%d][%d] = %v, want %v", i, j, m.At(i, j), want[i][j])
			}
		}
	}
}

func TestVecApproxEqualToleratesFloatingPointError(t *testing.T) {
	a := NewVec(1.0, 2.0, 3.0)
	b := NewVec(1.0+1e-10, 2.0, 3.0)
	if !a.ApproxEqual(b, 1e-6) {
		t.Fatal("expected near-identical vectors to be approx equal")
	}
	c := NewVec(1.1, 2.0, 3.0)
	if a.ApproxEqual(c, 1e-6) {
		t.Fatal("expected distinctly different vectors to not be approx equal")
	}
}

func TestZeroVecRejectsOutOfRangeDimension(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for dimension above MaxDim")
		}
	}()
	ZeroVec[float64](MaxDim + 1)
}
