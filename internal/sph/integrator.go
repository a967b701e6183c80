package sph

import (
	"github.com/bluetit/solver/internal/core"
	"github.com/bluetit/solver/internal/core/stats"
	"github.com/bluetit/solver/internal/geom"
	"github.com/bluetit/solver/internal/particle"
	"github.com/bluetit/solver/internal/vecmat"
)

// FrameWriter is the optional phase 6 sink a caller supplies to
// persist the post-step state at a configured cadence (spec.md §4.6
// phase 6; cmd/bluetit-solver supplies a StorageWriter, which writes to
// internal/data.Storage). time is the simulation's
// elapsed time after the step that produced arr.
type FrameWriter[T vecmat.Scalar] interface {
	WriteFrame(time T, arr *particle.Array[T]) error
}

// Integrator ties a Kernel, an EOS, and a geom spatial-indexing
// configuration together into spec.md §4.6's six-phase step: rebuild
// adjacency, enforce boundary conditions, accumulate pairwise
// derivatives over colored blocks, recompute pressure, advance the
// state with a configurable-order explicit Runge-Kutta scheme, and
// optionally write a frame.
type Integrator[T vecmat.Scalar] struct {
	Kernel      Kernel[T]
	EOS         EOS[T]
	NewEngine   func(points []vecmat.Vec[T]) geom.SearchEngine[T]
	Domain      geom.BBox[T]
	Partitioner geom.Partitioner[T]
	NumParts    int
	// Order selects the Runge-Kutta scheme: 2 (default) or 4.
	Order int
	// Writer, if non-nil, is invoked once after every successful step
	// (spec.md §4.6 phase 6). Cadence gating is the caller's
	// responsibility (e.g. call Step N times, invoke the writer only
	// every Kth), so Writer here always means "write this frame".
	Writer FrameWriter[T]
	Stats  *stats.Collector

	elapsed T
}

func divergedf(format string, args ...any) error {
	return core.Newf(core.SimulationDiverged, "sph: "+format, args...)
}

func (it *Integrator[T]) statsCollector() *stats.Collector {
	if it.Stats != nil {
		return it.Stats
	}
	return stats.NewCollector(false, 1)
}

func (it *Integrator[T]) computeEOS(arr *particle.Array[T]) error {
	for v := range arr.Views() {
		if err := it.EOS.ComputePressure(v); err != nil {
			return err
		}
	}
	return nil
}

func (it *Integrator[T]) radiusOf(arr *particle.Array[T]) func(int) T {
	h := particle.Field[T, T](arr, "h")
	return func(i int) T { return it.Kernel.Radius(h[i]) }
}

// Step advances arr by dt in place. On a SimulationDiverged failure
// (phases 3-5) the array's mutable fields are restored to their
// pre-step values before the error is returned, following spec.md
// §4.6's checkpoint-before-phase-3 requirement.
func (it *Integrator[T]) Step(dt T, arr *particle.Array[T], fixed []bool) error {
	core.Assert(len(fixed) == arr.Len(), "sph: fixed must have one entry per particle")

	collector := it.statsCollector()
	collector.StartStep()
	defer collector.EndStep()

	collector.StartPhase("adjacency")
	adjacency, colored, err := geom.BuildAdjacency[T](
		arr, it.NewEngine, it.radiusOf(arr), fixed, it.Domain, it.Partitioner, it.NumParts)
	if err != nil {
		return err
	}

	collector.StartPhase("boundary")
	if err := enforceBoundary[T](arr, adjacency, it.Kernel, fixed); err != nil {
		return err
	}

	// Checkpoint: every mutable field phases 3-5 can alter, restored
	// on SimulationDiverged.
	checkpoint := snapshotState[T](arr)

	// Seed pressure/sound speed for the first stage's pairwise pass.
	collector.StartPhase("eos")
	if err := it.computeEOS(arr); err != nil {
		restoreState(arr, checkpoint)
		return err
	}

	tb := tableauForOrder[T](it.Order)
	y0 := snapshotState[T](arr)
	stageDerivs := make([]derivatives[T], tb.stages())

	for s := 0; s < tb.stages(); s++ {
		collector.StartPhase("stage_state")
		stageState := combine(y0, dt, tb.A[s], stageDerivs[:s])
		writeState(arr, stageState)

		collector.StartPhase("pairwise")
		dv, err := accumulatePairwise[T](arr, colored, it.Kernel)
		if err != nil {
			restoreState(arr, checkpoint)
			return err
		}
		stageDerivs[s] = dv

		collector.StartPhase("eos")
		if err := it.computeEOS(arr); err != nil {
			restoreState(arr, checkpoint)
			return err
		}
	}

	collector.StartPhase("advance")
	final := combine(y0, dt, tb.B, stageDerivs)
	writeState(arr, final)

	if err := checkDiverged[T](arr); err != nil {
		restoreState(arr, checkpoint)
		return err
	}

	it.elapsed += dt

	if it.Writer != nil {
		collector.StartPhase("frame_write")
		if err := it.Writer.WriteFrame(it.elapsed, arr); err != nil {
			return err
		}
	}

	return nil
}

func restoreState[T vecmat.Scalar](arr *particle.Array[T], checkpoint stepState[T]) {
	writeState(arr, checkpoint)
}
