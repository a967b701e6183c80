package sph

import (
	"math"
	"testing"

	"github.com/bluetit/solver/internal/vecmat"
)

func allKernels2D() map[string]Kernel[float64] {
	return map[string]Kernel[float64]{
		"cubic_spline": CubicSpline[float64]{Dim: 2},
		"wendland_c2":  WendlandC2[float64]{Dim: 2},
		"wendland_c4":  WendlandC4[float64]{Dim: 2},
		"gaussian":     Gaussian[float64]{Dim: 2},
		"quartic":      Quartic[float64]{Dim: 2},
	}
}

func TestKernelsVanishOutsideSupportRadius(t *testing.T) {
	h := 1.0
	for name, k := range allKernels2D() {
		r := k.Radius(h)
		x := vecmat.NewVec(r*1.01, 0.0)
		if w := k.W(x, h); w != 0 {
			t.Errorf("%s: W outside support = %v, want 0", name, w)
		}
		g := k.GradW(x, h)
		if g.Norm() != 0 {
			t.Errorf("%s: GradW outside support = %v, want 0", name, g)
		}
	}
}

func TestKernelsArePositiveAtOrigin(t *testing.T) {
	h := 1.0
	for name, k := range allKernels2D() {
		w := k.W(vecmat.ZeroVec[float64](2), h)
		if w <= 0 {
			t.Errorf("%s: W(0,h) = %v, want > 0", name, w)
		}
	}
}

func TestKernelsAreEvenInSeparation(t *testing.T) {
	h := 1.0
	for name, k := range allKernels2D() {
		x := vecmat.NewVec(0.3, 0.1)
		negX := vecmat.NewVec(-0.3, -0.1)
		if math.Abs(k.W(x, h)-k.W(negX, h)) > 1e-12 {
			t.Errorf("%s: W(x) != W(-x)", name)
		}
	}
}

func TestGradWPointsOppositeSeparationForDecreasingKernel(t *testing.T) {
	h := 1.0
	for name, k := range allKernels2D() {
		x := vecmat.NewVec(0.3, 0.0)
		g := k.GradW(x, h)
		if g.At(0) >= 0 {
			t.Errorf("%s: GradW x-component = %v, want < 0 (kernel decreasing outward)", name, g.At(0))
		}
	}
}

// TestGradWMatchesFiniteDifferenceOfW catches GradW implementations
// that drift from W by a stray power of q (the WendlandC4 bug this
// test was added for: a dropped factor of base put GradW ~18% high at
// q=0.3 while leaving its sign, and thus the sibling "points opposite
// the separation" test, untouched).
func TestGradWMatchesFiniteDifferenceOfW(t *testing.T) {
	h := 1.0
	const eps = 1e-6
	for name, k := range allKernels2D() {
		for _, r := range []float64{0.05, 0.1, 0.3, 0.6, 1.0, 1.5, 1.9} {
			if r >= k.Radius(h) {
				continue
			}
			plus := k.W(vecmat.NewVec(r+eps, 0.0), h)
			minus := k.W(vecmat.NewVec(r-eps, 0.0), h)
			want := (plus - minus) / (2 * eps)
			got := k.GradW(vecmat.NewVec(r, 0.0), h).At(0)
			if diff := math.Abs(got - want); diff > 1e-4*math.Max(1, math.Abs(want)) {
				t.Errorf("%s: GradW(r=%v).x = %v, finite-difference dW/dr = %v (diff %v)", name, r, got, want, diff)
			}
		}
	}
}
