package sph

import (
	"math"
	"testing"

	"github.com/bluetit/solver/internal/particle"
	"github.com/bluetit/solver/internal/vecmat"
)

func newTestView(t *testing.T, rho, u float64) particle.View[float64] {
	t.Helper()
	schema := particle.StandardSchema(2)
	arr := particle.NewArray[float64](schema, 2)
	v := arr.Append()
	v.SetVector("r", vecmat.ZeroVec[float64](2))
	v.SetScalar("rho", rho)
	v.SetScalar("u", u)
	return v
}

func TestIdealGasEOSMatchesSpecScenario(t *testing.T) {
	v := newTestView(t, 2.0, 5.0)
	eos := IdealGas[float64]{Gamma: 1.4}
	if err := eos.ComputePressure(v); err != nil {
		t.Fatalf("ComputePressure: %v", err)
	}
	if math.Abs(v.Scalar("p")-4.0) > 1e-9 {
		t.Fatalf("p = %v, want 4.0", v.Scalar("p"))
	}
	want := math.Sqrt(1.4 * 0.4 * 5.0)
	if math.Abs(v.Scalar("cs")-want) > 1e-9 {
		t.Fatalf("cs = %v, want %v", v.Scalar("cs"), want)
	}
}

func TestLinearColeEOSMatchesSpecScenario(t *testing.T) {
	eos := LinearCole[float64]{C0: 10, Rho0: 1000, P0: 0}

	vAbove := newTestView(t, 1001, 0)
	if err := eos.ComputePressure(vAbove); err != nil {
		t.Fatalf("ComputePressure: %v", err)
	}
	if math.Abs(vAbove.Scalar("p")-100) > 1e-9 {
		t.Fatalf("p = %v, want 100", vAbove.Scalar("p"))
	}

	vBelow := newTestView(t, 999, 0)
	if err := eos.ComputePressure(vBelow); err != nil {
		t.Fatalf("ComputePressure: %v", err)
	}
	if math.Abs(vBelow.Scalar("p")-(-100)) > 1e-9 {
		t.Fatalf("p = %v, want -100", vBelow.Scalar("p"))
	}
}

func TestEOSRejectsNonPositiveDensity(t *testing.T) {
	v := newTestView(t, 0, 1.0)
	eos := IdealGas[float64]{Gamma: 1.4}
	if err := eos.ComputePressure(v); err == nil {
		t.Fatalf("expected an error for rho <= 0")
	}
}

func TestAdiabaticIdealGasRejectsGammaAtOne(t *testing.T) {
	v := newTestView(t, 1.0, 1.0)
	eos := AdiabaticIdealGas[float64]{Kappa: 1, Gamma: 1}
	if err := eos.ComputePressure(v); err == nil {
		t.Fatalf("expected an error for gamma <= 1")
	}
}

func TestWeaklyCompressibleColeConstantSoundSpeed(t *testing.T) {
	v := newTestView(t, 1000, 0)
	eos := WeaklyCompressibleCole[float64]{C0: 10, Rho0: 1000, P0: 0, Gamma: 7}
	if err := eos.ComputePressure(v); err != nil {
		t.Fatalf("ComputePressure: %v", err)
	}
	if math.Abs(v.Scalar("p")) > 1e-9 {
		t.Fatalf("p = %v, want ~0 at rho==rho0", v.Scalar("p"))
	}
	if v.Scalar("cs") != 10 {
		t.Fatalf("cs = %v, want 10", v.Scalar("cs"))
	}
}
