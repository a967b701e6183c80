package sph

import "github.com/bluetit/solver/internal/vecmat"

// tableau is an explicit Runge-Kutta Butcher tableau: stage i uses
// y_i = y0 + dt * sum_{j<i} A[i][j]*k_j, k_i = f(y_i), and the final
// update is y0 + dt * sum_i B[i]*k_i. A is strictly lower triangular
// since every scheme here is explicit.
type tableau[T vecmat.Scalar] struct {
	A [][]T
	B []T
}

func (tb tableau[T]) stages() int { return len(tb.B) }

// rk2Tableau is the explicit midpoint method, spec.md's default
// second-order scheme.
func rk2Tableau[T vecmat.Scalar]() tableau[T] {
	return tableau[T]{
		A: [][]T{
			{0, 0},
			{T(0.5), 0},
		},
		B: []T{0, 1},
	}
}

// rk4Tableau is the classical four-stage fourth-order scheme,
// spec.md's default fourth-order alternative. Stage storage here is
// the straightforward per-stage-state form rather than a true
// low-storage (2N/2R) register scheme — see DESIGN.md for why that
// simplification was made.
func rk4Tableau[T vecmat.Scalar]() tableau[T] {
	half := T(0.5)
	sixth := T(1.0 / 6.0)
	third := T(1.0 / 3.0)
	return tableau[T]{
		A: [][]T{
			{0, 0, 0, 0},
			{half, 0, 0, 0},
			{0, half, 0, 0},
			{0, 0, 1, 0},
		},
		B: []T{sixth, third, third, sixth},
	}
}

// tableauForOrder selects a scheme by order, defaulting to RK2 for
// any value other than 4 (spec.md §4.6: "default low-storage
// RK2/RK4").
func tableauForOrder[T vecmat.Scalar](order int) tableau[T] {
	if order == 4 {
		return rk4Tableau[T]()
	}
	return rk2Tableau[T]()
}
