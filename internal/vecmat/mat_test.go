package vecmat

import (
	"testing"

	"github.com/bluetit/solver/internal/core"
)

func TestMatEyeAndTrace(t *testing.T) {
	id := Eye[float64](3)
	if id.Trace() != 3.0 {
		t.Fatalf("Trace(I3) = %v, want 3", id.Trace())
	}
}

func TestMatTranspose(t *testing.T) {
	m := ZeroMat[float64](2)
	m = func() Mat[float64] {
		m.set(0, 1, 5.0)
		return m
	}()
	tr := m.Transpose()
	if tr.At(1, 0) != 5.0 {
		t.Fatalf("Transpose[1][0] = %v, want 5", tr.At(1, 0))
	}
}

func TestMatMulVec(t *testing.T) {
	m := Diag(NewVec(2.0, 3.0))
	v := NewVec(4.0, 5.0)
	got := m.MulVec(v)
	if !got.ApproxEqual(NewVec(8.0, 15.0), 1e-12) {
		t.Fatalf("MulVec = %v", got.Slice())
	}
}

func TestMatDetOfIdentity(t *testing.T) {
	id := Eye[float64](4)
	if got := id.Det(); got != 1.0 {
		t.Fatalf("Det(I4) = %v, want 1", got)
	}
}

func TestMatInverseRoundTrips(t *testing.T) {
	m := Diag(NewVec(2.0, 4.0, 5.0))
	inv, err := m.Inverse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prod := m.MulMat(inv)
	if !prod.ApproxEqual(Eye[float64](3), 1e-9) {
		t.Fatalf("m * inverse(m) != I: %+v", prod)
	}
}

func TestMatInverseSingularFails(t *testing.T) {
	singular := ZeroMat[float64](2)
	_, err := singular.Inverse()
	if !core.Is(err, core.SingularMatrix) {
		t.Fatalf("expected SingularMatrix error, got %v", err)
	}
}
