package vecmat

import "testing"

func TestRegLoadStoreRoundTrips(t *testing.T) {
	span := []float64{1, 2, 3, 4}
	r := Load(4, span)
	out := make([]float64, 4)
	r.Store(out)
	for i := range span {
		if span[i] != out[i] {
			t.Fatalf("lane %d: got %v, want %v", i, out[i], span[i])
		}
	}
}

func TestRegAddSubMul(t *testing.T) {
	a := Load(4, []float64{1, 2, 3, 4})
	b := Load(4, []float64{10, 20, 30, 40})

	sum := a.Add(b)
	for i, want := range []float64{11, 22, 33, 44} {
		if sum.Lane(i) != want {
			t.Fatalf("Add lane %d = %v, want %v", i, sum.Lane(i), want)
		}
	}

	diff := b.Sub(a)
	for i, want := range []float64{9, 18, 27, 36} {
		if diff.Lane(i) != want {
			t.Fatalf("Sub lane %d = %v, want %v", i, diff.Lane(i), want)
		}
	}
}

func TestRegFMA(t *testing.T) {
	r := Load(2, []float64{2, 3})
	a := Load(2, []float64{4, 5})
	b := Load(2, []float64{1, 1})
	got := r.FMA(a, b)
	want := []float64{2*4 + 1, 3*5 + 1}
	for i, w := range want {
		if got.Lane(i) != w {
			t.Fatalf("FMA lane %d = %v, want %v", i, got.Lane(i), w)
		}
	}
}

func TestRegSumIsStableAcrossEquivalentOrderings(t *testing.T) {
	a := Load(8, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	b := Load(8, []float64{8, 7, 6, 5, 4, 3, 2, 1})
	if a.Sum() != b.Sum() {
		t.Fatalf("Sum should depend only on the multiset of lanes here: %v vs %v", a.Sum(), b.Sum())
	}
	if a.Sum() != 36 {
		t.Fatalf("Sum = %v, want 36", a.Sum())
	}
}

func TestRegSelect(t *testing.T) {
	a := Load(4, []float64{1, 1, 1, 1})
	b := Load(4, []float64{2, 2, 2, 2})
	mask := a.Less(Load(4, []float64{0, 5, 0, 5}))
	got := a.Select(mask, b)
	want := []float64{2, 1, 2, 1}
	for i, w := range want {
		if got.Lane(i) != w {
			t.Fatalf("Select lane %d = %v, want %v", i, got.Lane(i), w)
		}
	}
}

func TestRegFloat32BulkPathMatchesScalarPath(t *testing.T) {
	vals := make([]float32, blasCrossover)
	others := make([]float32, blasCrossover)
	for i := range vals {
		vals[i] = float32(i) + 1
		others[i] = float32(i) * 2
	}
	r := Load(blasCrossover, vals)
	o := Load(blasCrossover, others)
	got := r.Add(o)
	for i := range vals {
		want := vals[i] + others[i]
		if got.Lane(i) != want {
			t.Fatalf("lane %d = %v, want %v", i, got.Lane(i), want)
		}
	}
}

func TestLoadRejectsShortSpan(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic loading from a span shorter than N")
		}
	}()
	Load[float64](4, []float64{1, 2})
}
