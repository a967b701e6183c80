package sph

import "github.com/bluetit/solver/internal/core"

// NewKernel builds one of the five named smoothing kernels for the
// given spatial dimension. kernelType is one of "cubic_spline",
// "wendland_c2", "wendland_c4", "gaussian", "quartic" — the same
// vocabulary internal/config.KernelConfig.Type uses, kept as a plain
// string here rather than importing internal/config so this package
// stays below config in the dependency order (cmd/bluetit-solver
// wires the two together).
func NewKernel(kernelType string, dim int) (Kernel[float64], error) {
	switch kernelType {
	case "cubic_spline":
		return CubicSpline[float64]{Dim: dim}, nil
	case "wendland_c2":
		return WendlandC2[float64]{Dim: dim}, nil
	case "wendland_c4":
		return WendlandC4[float64]{Dim: dim}, nil
	case "gaussian":
		return Gaussian[float64]{Dim: dim}, nil
	case "quartic":
		return Quartic[float64]{Dim: dim}, nil
	default:
		return nil, core.Newf(core.InvalidState, "sph: unknown kernel type %q", kernelType)
	}
}

// EOSParams bundles the parameters any of the four equations of state
// may need; each constructor below reads only the fields it uses.
type EOSParams struct {
	Gamma float64
	Kappa float64
	C0    float64
	Rho0  float64
	P0    float64
}

// NewEOS builds one of the four named equations of state. eosType is
// one of "ideal_gas", "adiabatic_ideal_gas",
// "weakly_compressible_cole", "linear_cole".
func NewEOS(eosType string, p EOSParams) (EOS[float64], error) {
	switch eosType {
	case "ideal_gas":
		return IdealGas[float64]{Gamma: p.Gamma}, nil
	case "adiabatic_ideal_gas":
		return AdiabaticIdealGas[float64]{Kappa: p.Kappa, Gamma: p.Gamma}, nil
	case "weakly_compressible_cole":
		return WeaklyCompressibleCole[float64]{C0: p.C0, Rho0: p.Rho0, P0: p.P0, Gamma: p.Gamma}, nil
	case "linear_cole":
		return LinearCole[float64]{C0: p.C0, Rho0: p.Rho0, P0: p.P0}, nil
	default:
		return nil, core.Newf(core.InvalidState, "sph: unknown eos type %q", eosType)
	}
}
