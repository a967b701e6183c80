package sph

import (
	"github.com/bluetit/solver/internal/particle"
	"github.com/bluetit/solver/internal/vecmat"
)

// enforceBoundary is spec.md §4.6 phase 2: each fixed particle
// borrows a kernel-weighted average of velocity, density, and
// internal energy from the non-fixed neighbors its mirror point
// found during adjacency construction (particle.Adjacency's
// Interpolation list), approximating the source's mirror-point
// interpolation without re-deriving the mirror position here (the
// fixed particle's own position already lies close enough to the
// mirror point, inside the same kernel support, that weighting by
// distance from it rather than from the mirror gives the same
// qualitative boundary behavior — a documented simplification, see
// DESIGN.md). Velocity is negated so a fixed wall particle presents a
// no-slip condition to its fluid neighbors.
func enforceBoundary[T vecmat.Scalar](arr *particle.Array[T], adjacency *particle.Adjacency, kernel Kernel[T], fixed []bool) error {
	r := particle.Field[T, vecmat.Vec[T]](arr, "r")
	v := particle.Field[T, vecmat.Vec[T]](arr, "v")
	rho := particle.Field[T, T](arr, "rho")
	u := particle.Field[T, T](arr, "u")
	h := particle.Field[T, T](arr, "h")

	for i, isFixed := range fixed {
		if !isFixed {
			continue
		}
		neighbors, err := adjacency.InterpolationNeighborsOf(i)
		if err != nil {
			return err
		}
		if len(neighbors) == 0 {
			continue
		}
		var wsum T
		var vAcc vecmat.Vec[T]
		vAcc = vecmat.ZeroVec[T](r[i].N())
		var rhoAcc, uAcc T
		for _, j := range neighbors {
			x := r[i].Sub(r[j])
			w := kernel.W(x, h[i])
			if w <= 0 {
				continue
			}
			wsum += w
			vAcc = vAcc.Add(v[j].Scale(w))
			rhoAcc += rho[j] * w
			uAcc += u[j] * w
		}
		if wsum <= 0 {
			continue
		}
		v[i] = vAcc.Scale(1 / wsum).Scale(-1)
		rho[i] = rhoAcc / wsum
		u[i] = uAcc / wsum
	}
	return nil
}
