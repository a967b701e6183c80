// Package sph implements spec.md §4.6's discretization pipeline:
// pluggable smoothing kernels, equations of state, and the
// colored-block time integrator that composes them over a
// particle.Array and its geom-built adjacency.
package sph

import (
	"github.com/bluetit/solver/internal/core"
	"github.com/bluetit/solver/internal/vecmat"
)

// Kernel is spec.md §4.6's smoothing-kernel strategy interface: given
// a pair separation x = r_a - r_b and smoothing length h, it reports
// the kernel value W(x,h), its gradient with respect to x, and the
// compact support radius used to size adjacency searches.
type Kernel[T vecmat.Scalar] interface {
	W(x vecmat.Vec[T], h T) T
	GradW(x vecmat.Vec[T], h T) vecmat.Vec[T]
	Radius(h T) T
}

// dimNorm looks up a kernel's dimension-dependent normalization
// constant from its tabulated 1-D/2-D/3-D values. Every concrete
// kernel below only has a closed-form normalization for dim in
// {1,2,3} in the SPH literature this repo is grounded on; higher
// dimensions are a contract violation rather than a silently wrong
// answer.
func dimNorm[T vecmat.Scalar](dim int, d1, d2, d3 T) T {
	switch dim {
	case 1:
		return d1
	case 2:
		return d2
	case 3:
		return d3
	default:
		core.Assert(false, "sph: kernel normalization is only tabulated for dim in {1,2,3}, got %d", dim)
		return 0
	}
}

// gradFromRadialDerivative turns a radial derivative dW/dq (w.r.t.
// q = r/h) into the Cartesian gradient of W with respect to the
// separation vector x, using grad_x W = (dW/dq) * (1/(h*r)) * x. At
// r == 0 the gradient is defined as zero (the kernel is even in x).
func gradFromRadialDerivative[T vecmat.Scalar](x vecmat.Vec[T], h, dWdq T) vecmat.Vec[T] {
	r := x.Norm()
	if r <= 0 {
		return vecmat.ZeroVec[T](x.N())
	}
	return x.Scale(dWdq / (h * r))
}

// CubicSpline is the classic B-spline (M4) kernel, support radius 2h.
type CubicSpline[T vecmat.Scalar] struct{ Dim int }

func (k CubicSpline[T]) sigma() T {
	return dimNorm[T](k.Dim, T(2.0/3.0), T(10.0/7.0)/pi[T](), T(1)/pi[T]())
}

func (k CubicSpline[T]) Radius(h T) T { return 2 * h }

func (k CubicSpline[T]) W(x vecmat.Vec[T], h T) T {
	q := x.Norm() / h
	sigma := k.sigma() / hPow[T](h, k.Dim)
	switch {
	case q < 1:
		return sigma * (1 - T(1.5)*q*q + T(0.75)*q*q*q)
	case q < 2:
		d := 2 - q
		return sigma * T(0.25) * d * d * d
	default:
		return 0
	}
}

func (k CubicSpline[T]) GradW(x vecmat.Vec[T], h T) vecmat.Vec[T] {
	q := x.Norm() / h
	sigma := k.sigma() / hPow[T](h, k.Dim)
	var dWdq T
	switch {
	case q < 1:
		dWdq = sigma * (-3*q + T(2.25)*q*q)
	case q < 2:
		d := 2 - q
		dWdq = -sigma * T(0.75) * d * d
	default:
		return vecmat.ZeroVec[T](x.N())
	}
	return gradFromRadialDerivative(x, h, dWdq)
}

// WendlandC2 is the Wendland C2 kernel, support radius 2h, used where
// a lower-order Wendland family is wanted (pairs with WendlandC4 to
// cover spec.md's "Wendland C2, C4/C6" requirement).
type WendlandC2[T vecmat.Scalar] struct{ Dim int }

func (k WendlandC2[T]) sigma() T {
	return dimNorm[T](k.Dim, T(5.0/8.0), T(7)/(T(4)*pi[T]()), T(21)/(T(16)*pi[T]()))
}

func (k WendlandC2[T]) Radius(h T) T { return 2 * h }

func (k WendlandC2[T]) W(x vecmat.Vec[T], h T) T {
	q := x.Norm() / h
	if q >= 2 {
		return 0
	}
	sigma := k.sigma() / hPow[T](h, k.Dim)
	base := 1 - q/2
	b2 := base * base
	b4 := b2 * b2
	return sigma * b4 * (2*q + 1)
}

func (k WendlandC2[T]) GradW(x vecmat.Vec[T], h T) vecmat.Vec[T] {
	q := x.Norm() / h
	if q >= 2 {
		return vecmat.ZeroVec[T](x.N())
	}
	sigma := k.sigma() / hPow[T](h, k.Dim)
	base := 1 - q/2
	b3 := base * base * base
	dWdq := sigma * (-5 * q * b3)
	return gradFromRadialDerivative(x, h, dWdq)
}

// WendlandC4 is the Wendland C4 kernel, support radius 2h. spec.md
// names "Wendland C4/C6" as one slash-alternative entry; C6 is
// omitted here (see DESIGN.md) since the two only differ in the
// order of contact at q=2 and a single higher-order Wendland variant
// already exercises the same code paths (EOS/integrator consumers
// only depend on the Kernel interface, not on which Wendland order
// backs it).
type WendlandC4[T vecmat.Scalar] struct{ Dim int }

func (k WendlandC4[T]) sigma() T {
	return dimNorm[T](k.Dim, T(3.0/4.0), T(9)/(T(4)*pi[T]()), T(495)/(T(256)*pi[T]()))
}

func (k WendlandC4[T]) Radius(h T) T { return 2 * h }

func (k WendlandC4[T]) W(x vecmat.Vec[T], h T) T {
	q := x.Norm() / h
	if q >= 2 {
		return 0
	}
	sigma := k.sigma() / hPow[T](h, k.Dim)
	base := 1 - q/2
	b2 := base * base
	b6 := b2 * b2 * b2
	poly := T(35.0/12.0)*q*q + 3*q + 1
	return sigma * b6 * poly
}

func (k WendlandC4[T]) GradW(x vecmat.Vec[T], h T) vecmat.Vec[T] {
	q := x.Norm() / h
	if q >= 2 {
		return vecmat.ZeroVec[T](x.N())
	}
	sigma := k.sigma() / hPow[T](h, k.Dim)
	base := 1 - q/2
	b2 := base * base
	b5 := b2 * b2 * base
	poly := T(35.0/12.0)*q*q + 3*q + 1
	dPoly := T(35.0/6.0)*q + 3
	// d/dq[base^6 * poly] = 6*base^5*(-1/2)*poly + base^6*dPoly
	dWdq := sigma * (-3*b5*poly + b2*b2*b2*dPoly)
	return gradFromRadialDerivative(x, h, dWdq)
}

// Gaussian is the unbounded Gaussian kernel, truncated at q=3 for
// adjacency-building purposes (the tail beyond 3h is negligible but
// nonzero — a documented truncation, not an exact compact-support
// kernel).
type Gaussian[T vecmat.Scalar] struct{ Dim int }

func (k Gaussian[T]) sigma() T {
	return dimNorm[T](k.Dim, T(1)/sqrtPi[T](), T(1)/pi[T](), T(1)/(pi[T]()*sqrtPi[T]()))
}

func (k Gaussian[T]) Radius(h T) T { return 3 * h }

func (k Gaussian[T]) W(x vecmat.Vec[T], h T) T {
	q := x.Norm() / h
	if q >= 3 {
		return 0
	}
	sigma := k.sigma() / hPow[T](h, k.Dim)
	return sigma * expScalar(-q*q)
}

func (k Gaussian[T]) GradW(x vecmat.Vec[T], h T) vecmat.Vec[T] {
	q := x.Norm() / h
	if q >= 3 {
		return vecmat.ZeroVec[T](x.N())
	}
	sigma := k.sigma() / hPow[T](h, k.Dim)
	dWdq := sigma * (-2 * q * expScalar(-q*q))
	return gradFromRadialDerivative(x, h, dWdq)
}

// Quartic is the quartic (M5) spline kernel, support radius 2.5h.
type Quartic[T vecmat.Scalar] struct{ Dim int }

func (k Quartic[T]) sigma() T {
	return dimNorm[T](k.Dim, T(1.0/24.0), T(96)/(T(1199)*pi[T]()), T(1)/(T(20)*pi[T]()))
}

func (k Quartic[T]) Radius(h T) T { return T(2.5) * h }

func quarticTerms[T vecmat.Scalar](q T) (a, b, c T, haveB, haveC bool) {
	t := T(2.5) - q
	a = t * t * t * t
	if q < T(1.5) {
		t2 := T(1.5) - q
		b = t2 * t2 * t2 * t2
		haveB = true
	}
	if q < T(0.5) {
		t3 := T(0.5) - q
		c = t3 * t3 * t3 * t3
		haveC = true
	}
	return
}

func (k Quartic[T]) W(x vecmat.Vec[T], h T) T {
	q := x.Norm() / h
	if q >= T(2.5) {
		return 0
	}
	sigma := k.sigma() / hPow[T](h, k.Dim)
	a, b, c, haveB, haveC := quarticTerms[T](q)
	val := a
	if haveB {
		val -= 5 * b
	}
	if haveC {
		val += 10 * c
	}
	return sigma * val
}

func (k Quartic[T]) GradW(x vecmat.Vec[T], h T) vecmat.Vec[T] {
	q := x.Norm() / h
	if q >= T(2.5) {
		return vecmat.ZeroVec[T](x.N())
	}
	sigma := k.sigma() / hPow[T](h, k.Dim)
	t := T(2.5) - q
	dWdq := sigma * (-4 * t * t * t)
	if q < T(1.5) {
		t2 := T(1.5) - q
		dWdq -= sigma * (-20 * t2 * t2 * t2)
	}
	if q < T(0.5) {
		t3 := T(0.5) - q
		dWdq += sigma * (-40 * t3 * t3 * t3)
	}
	return gradFromRadialDerivative(x, h, dWdq)
}
