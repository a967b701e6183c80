package sph

import (
	"math"

	"github.com/bluetit/solver/internal/core"
	"github.com/bluetit/solver/internal/particle"
	"github.com/bluetit/solver/internal/vecmat"
)

// EOS is spec.md §4.6's equation-of-state strategy interface: given a
// per-particle view it must write that particle's pressure field "p"
// and sound speed field "cs" in place.
type EOS[T vecmat.Scalar] interface {
	ComputePressure(v particle.View[T]) error
}

func mustPositive[T vecmat.Scalar](name string, x T) error {
	if x <= 0 {
		return core.Newf(core.InvalidState, "sph: %s must be positive, got %v", name, float64(x))
	}
	return nil
}

// IdealGas implements p = (gamma-1)*rho*u, cs = sqrt(gamma*(gamma-1)*u).
type IdealGas[T vecmat.Scalar] struct{ Gamma T }

func (eos IdealGas[T]) ComputePressure(v particle.View[T]) error {
	if eos.Gamma <= 1 {
		return core.Newf(core.InvalidState, "sph: IdealGas gamma must be > 1, got %v", float64(eos.Gamma))
	}
	rho := v.Scalar("rho")
	if err := mustPositive("rho", rho); err != nil {
		return err
	}
	u := v.Scalar("u")
	p := (eos.Gamma - 1) * rho * u
	cs := sqrtScalar(eos.Gamma * (eos.Gamma - 1) * u)
	v.SetScalar("p", p)
	v.SetScalar("cs", cs)
	return nil
}

// AdiabaticIdealGas implements p = kappa*rho^gamma, cs = sqrt(gamma*p/rho).
type AdiabaticIdealGas[T vecmat.Scalar] struct {
	Kappa T
	Gamma T
}

func (eos AdiabaticIdealGas[T]) ComputePressure(v particle.View[T]) error {
	if eos.Gamma <= 1 {
		return core.Newf(core.InvalidState, "sph: AdiabaticIdealGas gamma must be > 1, got %v", float64(eos.Gamma))
	}
	rho := v.Scalar("rho")
	if err := mustPositive("rho", rho); err != nil {
		return err
	}
	p := eos.Kappa * powScalar(rho, eos.Gamma)
	cs := sqrtScalar(eos.Gamma * p / rho)
	v.SetScalar("p", p)
	v.SetScalar("cs", cs)
	return nil
}

// WeaklyCompressibleCole implements the Cole (Tait) equation of state
// used by weakly-compressible SPH: p1 = rho0*c0^2/gamma,
// p = p0 + p1*(rho/rho0)^gamma - p1.
type WeaklyCompressibleCole[T vecmat.Scalar] struct {
	C0    T
	Rho0  T
	P0    T
	Gamma T
}

func (eos WeaklyCompressibleCole[T]) ComputePressure(v particle.View[T]) error {
	if eos.Gamma <= 1 {
		return core.Newf(core.InvalidState, "sph: WeaklyCompressibleCole gamma must be > 1, got %v", float64(eos.Gamma))
	}
	if err := mustPositive("c0", eos.C0); err != nil {
		return err
	}
	rho := v.Scalar("rho")
	if err := mustPositive("rho", rho); err != nil {
		return err
	}
	p1 := eos.Rho0 * eos.C0 * eos.C0 / eos.Gamma
	p := eos.P0 + p1*powScalar(rho/eos.Rho0, eos.Gamma) - p1
	v.SetScalar("p", p)
	v.SetScalar("cs", eos.C0)
	return nil
}

// LinearCole implements the linearized Cole equation of state:
// p = p0 + c0^2*(rho-rho0).
type LinearCole[T vecmat.Scalar] struct {
	C0   T
	Rho0 T
	P0   T
}

func (eos LinearCole[T]) ComputePressure(v particle.View[T]) error {
	if err := mustPositive("c0", eos.C0); err != nil {
		return err
	}
	rho := v.Scalar("rho")
	if err := mustPositive("rho", rho); err != nil {
		return err
	}
	p := eos.P0 + eos.C0*eos.C0*(rho-eos.Rho0)
	v.SetScalar("p", p)
	v.SetScalar("cs", eos.C0)
	return nil
}

func sqrtScalar[T vecmat.Scalar](x T) T { return T(math.Sqrt(float64(x))) }
func powScalar[T vecmat.Scalar](x, y T) T { return T(math.Pow(float64(x), float64(y))) }
