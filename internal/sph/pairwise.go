package sph

import (
	"github.com/bluetit/solver/internal/core/par"
	"github.com/bluetit/solver/internal/particle"
	"github.com/bluetit/solver/internal/vecmat"
)

// accumulatePairwise is spec.md §4.6 phase 3: for every unique
// adjacent pair, accumulate the symmetric SPH momentum and energy
// equations (pressure-gradient form) and the density continuity
// equation, processing the P interior color blocks concurrently — no
// two edges in the same interior block share a particle (see
// internal/geom's ValidateColoring), so each block's goroutine writes
// a disjoint set of accumulator slots — then the boundary block
// serially, matching spec.md §5's "boundary block P has a single
// writer" rule. Grounded on the teacher's compute-in-parallel-then-
// join structure in game/parallel.go's updateBehaviorAndPhysicsParallel.
func accumulatePairwise[T vecmat.Scalar](arr *particle.Array[T], colored *particle.ColoredBlocks, kernel Kernel[T]) (derivatives[T], error) {
	n := arr.Len()
	out := zeroDerivatives[T](n, arr.Dim())

	r := particle.Field[T, vecmat.Vec[T]](arr, "r")
	v := particle.Field[T, vecmat.Vec[T]](arr, "v")
	rho := particle.Field[T, T](arr, "rho")
	p := particle.Field[T, T](arr, "p")
	m := particle.Field[T, T](arr, "m")
	h := particle.Field[T, T](arr, "h")

	for i := 0; i < n; i++ {
		out.DR[i] = v[i]
	}

	accumulate := func(e particle.Edge) {
		i, j := e.I, e.J
		x := r[i].Sub(r[j])
		havg := (h[i] + h[j]) / 2
		grad := kernel.GradW(x, havg)

		piaSq := p[i] / (rho[i] * rho[i])
		pjaSq := p[j] / (rho[j] * rho[j])
		pressureTerm := piaSq + pjaSq

		dvij := v[i].Sub(v[j])
		vdotgrad := dvij.Dot(grad)

		out.DV[i] = out.DV[i].Sub(grad.Scale(m[j] * pressureTerm))
		out.DV[j] = out.DV[j].Add(grad.Scale(m[i] * pressureTerm))

		out.DRho[i] += m[j] * vdotgrad
		out.DRho[j] += m[i] * vdotgrad

		work := T(0.5) * pressureTerm * vdotgrad
		out.DU[i] += m[j] * work
		out.DU[j] += m[i] * work
	}

	var group par.Group
	for b := 0; b < colored.P; b++ {
		group.Go(func() error {
			edges, err := colored.InteriorBlock(b)
			if err != nil {
				return err
			}
			for _, e := range edges {
				accumulate(e)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return out, err
	}

	boundary, err := colored.BoundaryBlock()
	if err != nil {
		return out, err
	}
	for _, e := range boundary {
		accumulate(e)
	}

	return out, nil
}
