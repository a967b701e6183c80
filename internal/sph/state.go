package sph

import (
	"math"

	"github.com/bluetit/solver/internal/particle"
	"github.com/bluetit/solver/internal/vecmat"
)

// stepState holds the subset of a particle array's fields a Runge-
// Kutta stage advances: position, velocity, density, and internal
// energy. Mass, smoothing length, and the other schema fields are
// held fixed across a step (no adaptive-h scheme is implemented here;
// see DESIGN.md).
type stepState[T vecmat.Scalar] struct {
	R   []vecmat.Vec[T]
	V   []vecmat.Vec[T]
	Rho []T
	U   []T
}

// derivatives is one Runge-Kutta stage's evaluation of dState/dt.
type derivatives[T vecmat.Scalar] struct {
	DR   []vecmat.Vec[T] // == V at the stage state, carried explicitly for symmetry
	DV   []vecmat.Vec[T]
	DRho []T
	DU   []T
}

func snapshotState[T vecmat.Scalar](arr *particle.Array[T]) stepState[T] {
	n := arr.Len()
	return stepState[T]{
		R:   append([]vecmat.Vec[T](nil), particle.Field[T, vecmat.Vec[T]](arr, "r")[:n]...),
		V:   append([]vecmat.Vec[T](nil), particle.Field[T, vecmat.Vec[T]](arr, "v")[:n]...),
		Rho: append([]T(nil), particle.Field[T, T](arr, "rho")[:n]...),
		U:   append([]T(nil), particle.Field[T, T](arr, "u")[:n]...),
	}
}

func writeState[T vecmat.Scalar](arr *particle.Array[T], s stepState[T]) {
	copy(particle.Field[T, vecmat.Vec[T]](arr, "r"), s.R)
	copy(particle.Field[T, vecmat.Vec[T]](arr, "v"), s.V)
	copy(particle.Field[T, T](arr, "rho"), s.Rho)
	copy(particle.Field[T, T](arr, "u"), s.U)
}

// zeroDerivatives allocates a derivatives value for n particles of
// dimension dim, with every vector field pre-set to the zero vector
// (Vec's bare zero value carries no dimension, so callers that
// accumulate via Add/Sub before ever assigning must seed it here).
func zeroDerivatives[T vecmat.Scalar](n, dim int) derivatives[T] {
	d := derivatives[T]{
		DR:   make([]vecmat.Vec[T], n),
		DV:   make([]vecmat.Vec[T], n),
		DRho: make([]T, n),
		DU:   make([]T, n),
	}
	zero := vecmat.ZeroVec[T](dim)
	for i := 0; i < n; i++ {
		d.DR[i] = zero
		d.DV[i] = zero
	}
	return d
}

// combine returns y0 advanced by dt * sum_i coeffs[i]*stages[i],
// skipping stages whose coefficient is exactly zero (every stage
// after the current one in a strictly-lower-triangular tableau).
func combine[T vecmat.Scalar](y0 stepState[T], dt T, coeffs []T, stages []derivatives[T]) stepState[T] {
	n := len(y0.R)
	out := stepState[T]{
		R:   append([]vecmat.Vec[T](nil), y0.R...),
		V:   append([]vecmat.Vec[T](nil), y0.V...),
		Rho: append([]T(nil), y0.Rho...),
		U:   append([]T(nil), y0.U...),
	}
	for s, c := range coeffs {
		if c == 0 || s >= len(stages) {
			continue
		}
		d := stages[s]
		for i := 0; i < n; i++ {
			out.R[i] = out.R[i].Add(d.DR[i].Scale(dt * c))
			out.V[i] = out.V[i].Add(d.DV[i].Scale(dt * c))
			out.Rho[i] += dt * c * d.DRho[i]
			out.U[i] += dt * c * d.DU[i]
		}
	}
	return out
}

// checkDiverged implements spec.md §4.6's failure condition: any
// non-positive smoothing length or density, or a NaN in a key field,
// is a SimulationDiverged contract violation rather than a value the
// solver silently propagates.
func checkDiverged[T vecmat.Scalar](arr *particle.Array[T]) error {
	h := particle.Field[T, T](arr, "h")
	rho := particle.Field[T, T](arr, "rho")
	r := particle.Field[T, vecmat.Vec[T]](arr, "r")
	v := particle.Field[T, vecmat.Vec[T]](arr, "v")
	u := particle.Field[T, T](arr, "u")
	for i := 0; i < arr.Len(); i++ {
		if h[i] <= 0 {
			return divergedf("smoothing length h[%d]=%v is non-positive", i, float64(h[i]))
		}
		if rho[i] <= 0 {
			return divergedf("density rho[%d]=%v is non-positive", i, float64(rho[i]))
		}
		if isNaN(rho[i]) || isNaN(u[i]) || vecHasNaN(r[i]) || vecHasNaN(v[i]) {
			return divergedf("NaN detected in particle %d's state", i)
		}
	}
	return nil
}

func isNaN[T vecmat.Scalar](x T) bool { return math.IsNaN(float64(x)) }

func vecHasNaN[T vecmat.Scalar](v vecmat.Vec[T]) bool {
	for i := 0; i < v.N(); i++ {
		if isNaN(v.At(i)) {
			return true
		}
	}
	return false
}
