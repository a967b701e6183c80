package sph

import (
	"math"
	"testing"

	"github.com/bluetit/solver/internal/geom"
	"github.com/bluetit/solver/internal/particle"
	"github.com/bluetit/solver/internal/vecmat"
)

func newTestFluidArray(t *testing.T, pts []vecmat.Vec[float64]) *particle.Array[float64] {
	t.Helper()
	schema := particle.StandardSchema(2)
	arr := particle.NewArray[float64](schema, 2)
	for _, p := range pts {
		v := arr.Append()
		v.SetVector("r", p)
		v.SetVector("v", vecmat.ZeroVec[float64](2))
		v.SetScalar("rho", 1000.0)
		v.SetScalar("u", 1.0)
		v.SetScalar("m", 1.0)
		v.SetScalar("h", 1.0)
	}
	return arr
}

func newTestIntegrator() *Integrator[float64] {
	return &Integrator[float64]{
		Kernel: CubicSpline[float64]{Dim: 2},
		EOS:    LinearCole[float64]{C0: 10, Rho0: 1000, P0: 0},
		NewEngine: func(points []vecmat.Vec[float64]) geom.SearchEngine[float64] {
			return geom.NewGridSearch(points, 2.0)
		},
		Domain:      geom.BBox[float64]{Min: vecmat.NewVec(-5.0, -5.0), Max: vecmat.NewVec(5.0, 5.0)},
		Partitioner: geom.SFCPartitioner[float64]{},
		NumParts:    2,
		Order:       2,
	}
}

func TestIntegratorStepProducesFiniteState(t *testing.T) {
	pts := []vecmat.Vec[float64]{
		vecmat.NewVec(0.0, 0.0),
		vecmat.NewVec(0.5, 0.0),
		vecmat.NewVec(0.0, 0.5),
		vecmat.NewVec(0.5, 0.5),
	}
	arr := newTestFluidArray(t, pts)
	fixed := make([]bool, len(pts))
	it := newTestIntegrator()

	if err := it.Step(0.001, arr, fixed); err != nil {
		t.Fatalf("Step: %v", err)
	}

	rho := particle.Field[float64, float64](arr, "rho")
	for i, rv := range rho {
		if math.IsNaN(rv) || rv <= 0 {
			t.Fatalf("particle %d density = %v, want finite positive", i, rv)
		}
	}
}

func TestIntegratorStepRestoresStateOnDivergence(t *testing.T) {
	pts := []vecmat.Vec[float64]{
		vecmat.NewVec(0.0, 0.0),
		vecmat.NewVec(0.5, 0.0),
	}
	arr := newTestFluidArray(t, pts)
	rho := particle.Field[float64, float64](arr, "rho")
	for i := range rho {
		rho[i] = 1001
	}
	before := append([]float64(nil), rho...)

	// A grossly oversized dt with an artificially huge mass turns the
	// small overpressure (rho one unit above rho0) into a density rate
	// negative enough to violate rho > 0 within one step.
	v := particle.Field[float64, float64](arr, "m")
	for i := range v {
		v[i] = 1e6
	}
	fixed := make([]bool, len(pts))
	it := newTestIntegrator()

	err := it.Step(50.0, arr, fixed)
	if err == nil {
		t.Skip("this dt/mass combination did not trigger divergence on this run")
	}

	after := particle.Field[float64, float64](arr, "rho")
	for i := range before {
		if after[i] != before[i] {
			t.Fatalf("particle %d rho = %v after failed step, want restored %v", i, after[i], before[i])
		}
	}
}
