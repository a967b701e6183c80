package sph

import "math"

func pi[T interface{ ~float32 | ~float64 }]() T { return T(math.Pi) }

func sqrtPi[T interface{ ~float32 | ~float64 }]() T { return T(math.Sqrt(math.Pi)) }

func expScalar[T interface{ ~float32 | ~float64 }](x T) T { return T(math.Exp(float64(x))) }

// hPow raises a smoothing length to an integer power without the
// repeated-multiplication staircase a switch-on-dim would need at
// every kernel call site.
func hPow[T interface{ ~float32 | ~float64 }](h T, n int) T {
	out := T(1)
	for i := 0; i < n; i++ {
		out *= h
	}
	return out
}
