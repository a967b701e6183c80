// Command bluetit-solver drives the SPH solver to completion: load
// configuration, build the kernel/EOS/spatial-indexing stack it
// describes, seed a cubic-lattice initial condition, and step the
// integrator for the configured number of steps, persisting a frame
// every FrameCadence steps. Exit code 0 on success, 1 on any uncaught
// error, matching spec.md §6.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/bluetit/solver/internal/config"
	"github.com/bluetit/solver/internal/core"
	"github.com/bluetit/solver/internal/core/par"
	"github.com/bluetit/solver/internal/core/stats"
	"github.com/bluetit/solver/internal/data"
	"github.com/bluetit/solver/internal/geom"
	"github.com/bluetit/solver/internal/particle"
	"github.com/bluetit/solver/internal/sph"
	"github.com/bluetit/solver/internal/vecmat"
)

func main() {
	configPath := flag.String("config", "", "Override YAML config file (empty = embedded defaults only)")
	particlesPerAxis := flag.Int("particles-per-axis", 12, "Cubic lattice resolution along each domain axis for the seeded initial condition")
	seriesParams := flag.String("series-params", "", "Free-form JSON recorded alongside the created series (empty = {})")
	flag.Parse()

	if err := run(*configPath, *particlesPerAxis, *seriesParams); err != nil {
		logFatal(err)
		os.Exit(1)
	}
}

// logFatal prints a domain error's source location and message the
// way spec.md §7 describes the outer harness doing for an uncaught
// domain error; any other error is logged as-is.
func logFatal(err error) {
	var de *core.Error
	if e, ok := err.(*core.Error); ok {
		de = e
	}
	if de != nil {
		fmt.Fprintf(os.Stderr, "%s:%d: %s: %s\n", de.File, de.Line, de.Kind, de.Message)
		if trace := de.StackTrace(); trace != "" {
			fmt.Fprint(os.Stderr, trace)
		}
		return
	}
	fmt.Fprintln(os.Stderr, err)
}

func run(configPath string, particlesPerAxis int, seriesParams string) error {
	if err := config.Init(configPath); err != nil {
		return err
	}
	cfg := config.Cfg()

	numThreads, err := core.GetEnvPositiveInt("TIT_NUM_THREADS", 8)
	if err != nil {
		return err
	}
	par.Init(numThreads)

	enableStats, err := core.GetEnv("TIT_ENABLE_STATS", false)
	if err != nil {
		return err
	}
	enableProfiler, err := core.GetEnv("TIT_ENABLE_PROFILER", false)
	if err != nil {
		return err
	}

	var profileOut *os.File
	if enableProfiler {
		profileOut, err = os.Create("bluetit-solver.prof")
		if err != nil {
			return core.Externalf("create profile output", err)
		}
		defer profileOut.Close()
	}
	profiler := core.NewProfiler(enableProfiler, profileOut)
	if err := profiler.Start(); err != nil {
		return err
	}
	defer profiler.Stop()

	collector := stats.NewCollector(enableStats, cfg.Telemetry.StatsWindow)

	storage, err := data.Open(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer storage.Close()
	if err := storage.SetMaxSeries(cfg.Storage.MaxSeries); err != nil {
		return err
	}

	if seriesParams == "" {
		seriesParams = "{}"
	}
	seriesID, err := storage.CreateSeries(seriesParams)
	if err != nil {
		return err
	}

	kernel, err := sph.NewKernel(cfg.Kernel.Type, cfg.Dim)
	if err != nil {
		return err
	}
	eos, err := sph.NewEOS(cfg.EOS.Type, sph.EOSParams{
		Gamma: cfg.EOS.Gamma,
		Kappa: cfg.EOS.Kappa,
		C0:    cfg.EOS.C0,
		Rho0:  cfg.EOS.Rho0,
		P0:    cfg.EOS.P0,
	})
	if err != nil {
		return err
	}

	newEngine, err := geom.NewEngineFactory(cfg.Partition.SearchMethod, cfg.Partition.GridCellSize, cfg.Partition.KDMaxLeaf)
	if err != nil {
		return err
	}
	partitioner, err := geom.NewPartitioner(cfg.Partition.PartitionMethod, geom.PartitionerParams{
		KMeansCellEdge: cfg.Partition.KMeansCellEdge,
		KMeansTol:      cfg.Partition.KMeansTol,
		KMeansMaxIter:  cfg.Partition.KMeansMaxIter,
	})
	if err != nil {
		return err
	}

	domain := geom.BBox[float64]{
		Min: vecmat.NewVec(cfg.Domain.Min...),
		Max: vecmat.NewVec(cfg.Domain.Max...),
	}

	arr := seedLattice(cfg, particlesPerAxis)
	fixed := make([]bool, arr.Len())

	writer := &sph.StorageWriter{Storage: storage, SeriesID: seriesID}
	integrator := &sph.Integrator[float64]{
		Kernel:      kernel,
		EOS:         eos,
		NewEngine:   newEngine,
		Domain:      domain,
		Partitioner: partitioner,
		NumParts:    cfg.Partition.NumParts,
		Order:       cfg.Integrator.Order,
		Stats:       collector,
	}

	slog.Info("bluetit-solver starting",
		"particles", arr.Len(), "dim", cfg.Dim, "steps", cfg.Integrator.MaxSteps, "dt", cfg.Integrator.DT)

	for step := 0; step < cfg.Integrator.MaxSteps; step++ {
		writeThisStep := cfg.Integrator.FrameCadence > 0 && (step+1)%cfg.Integrator.FrameCadence == 0
		if writeThisStep {
			integrator.Writer = writer
		} else {
			integrator.Writer = nil
		}
		if err := integrator.Step(cfg.Integrator.DT, arr, fixed); err != nil {
			return err
		}
	}

	if enableStats {
		summary := collector.Summarize()
		slog.Info("bluetit-solver step timing", summary.LogAttrs()...)
	}

	return nil
}

// seedLattice fills the configured domain with a cubic lattice of
// particlesPerAxis particles per axis, at rest, with density/mass/
// smoothing length derived from the configured reference density
// (spec.md leaves initial-condition construction out of scope; this
// is a minimal deterministic seed for exercising the integrator end
// to end, not a general-purpose IC loader).
func seedLattice(cfg *config.Config, particlesPerAxis int) *particle.Array[float64] {
	dim := cfg.Dim
	if particlesPerAxis < 1 {
		particlesPerAxis = 1
	}

	rho0 := cfg.EOS.Rho0
	if rho0 <= 0 {
		rho0 = 1.0
	}

	spacing := make([]float64, dim)
	for a := 0; a < dim; a++ {
		width := cfg.Domain.Max[a] - cfg.Domain.Min[a]
		spacing[a] = width / float64(particlesPerAxis)
	}
	cellVolume := 1.0
	for a := 0; a < dim; a++ {
		cellVolume *= spacing[a]
	}
	mass := rho0 * cellVolume
	smoothing := 1.2 * spacing[0]

	arr := particle.NewArray[float64](particle.StandardSchema(dim), dim)

	total := 1
	for a := 0; a < dim; a++ {
		total *= particlesPerAxis
	}
	idx := make([]int, dim)
	for n := 0; n < total; n++ {
		rem := n
		for a := 0; a < dim; a++ {
			idx[a] = rem % particlesPerAxis
			rem /= particlesPerAxis
		}
		coords := make([]float64, dim)
		for a := 0; a < dim; a++ {
			coords[a] = cfg.Domain.Min[a] + (float64(idx[a])+0.5)*spacing[a]
		}
		v := arr.Append()
		v.SetVector("r", vecmat.NewVec(coords...))
		v.SetVector("v", vecmat.ZeroVec[float64](dim))
		v.SetScalar("rho", rho0)
		v.SetScalar("m", mass)
		v.SetScalar("h", smoothing)
		v.SetScalar("u", 1.0)
	}
	return arr
}
