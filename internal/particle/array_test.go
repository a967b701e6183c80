package particle

import (
	"testing"

	"github.com/bluetit/solver/internal/vecmat"
)

func TestArrayAppendAndFieldAccess(t *testing.T) {
	schema := StandardSchema(2)
	arr := NewArray[float64](schema, 2)

	v0 := arr.Append()
	v1 := arr.Append()

	if arr.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", arr.Len())
	}

	v0.SetVector("r", vecmat.NewVec(1.0, 2.0))
	v1.SetVector("r", vecmat.NewVec(3.0, 4.0))
	v0.SetScalar("m", 0.5)

	if got := v0.Vector("r"); !got.ApproxEqual(vecmat.NewVec(1.0, 2.0), 1e-12) {
		t.Fatalf("v0.Vector(r) = %v", got.Slice())
	}
	if got := v1.Vector("r"); !got.ApproxEqual(vecmat.NewVec(3.0, 4.0), 1e-12) {
		t.Fatalf("v1.Vector(r) = %v", got.Slice())
	}
	if got := v0.Scalar("m"); got != 0.5 {
		t.Fatalf("v0.Scalar(m) = %v, want 0.5", got)
	}
}

func TestArrayViewEquality(t *testing.T) {
	schema := StandardSchema(2)
	arr := NewArray[float64](schema, 2)
	v0 := arr.Append()
	v0Again := View[float64]{}
	for v := range arr.Views() {
		v0Again = v
		break
	}
	if v0 != v0Again {
		t.Fatal("expected views of the same array/index to compare equal")
	}

	other := NewArray[float64](schema, 2)
	v0Other := other.Append()
	if v0 == v0Other {
		t.Fatal("expected views of different arrays to compare unequal")
	}
}

func TestConstantFieldBroadcasts(t *testing.T) {
	schema := NewSchema(
		FieldSpec{Name: "gamma", Type: dummyScalarType(), Kind: Constant},
		FieldSpec{Name: "m", Type: dummyScalarType(), Kind: Variable},
	)
	arr := NewArray[float64](schema, 2)
	SetConstant[float64, float64](arr, "gamma", 1.4)

	v0 := arr.Append()
	v1 := arr.Append()
	v0.SetScalar("m", 1.0)
	v1.SetScalar("m", 2.0)

	if v0.Scalar("gamma") != 1.4 || v1.Scalar("gamma") != 1.4 {
		t.Fatal("expected constant field to broadcast the same value to every particle")
	}
}

func TestParinfoColumnGrowsWithAppend(t *testing.T) {
	schema := StandardSchema(2)
	arr := NewArray[float64](schema, 2)
	v := arr.Append()
	v.SetParinfo(NewPartVec(0, 0, 0, 0, 0, 0, 0, 3))
	if got := v.Parinfo().Level(0); got != 0 {
		t.Fatalf("Level(0) = %d, want 0", got)
	}
}
