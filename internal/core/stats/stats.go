// Package stats implements a rolling per-phase wall-clock timing
// accumulator, grounded on the teacher's telemetry/perf.go and
// game/perf.go (two near-duplicate perf trackers in the source
// repository, folded into one here) and on the original C++ source's
// tit/core/stats.hpp, which the distilled spec.md names only implicitly
// (§6's TIT_ENABLE_STATS env var) — see SPEC_FULL.md §7.
package stats

import (
	"sort"
	"time"
)

// Sample holds timing data for a single step.
type Sample struct {
	Total  time.Duration
	Phases map[string]time.Duration
}

// Collector tracks execution time for named phases over a rolling
// window of recent steps.
type Collector struct {
	enabled       bool
	windowSize    int
	samples       []Sample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	stepStart     time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewCollector creates a collector. When enabled is false, every
// method is a cheap no-op (so callers need not branch on
// TIT_ENABLE_STATS themselves). windowSize is the number of steps to
// average over.
func NewCollector(enabled bool, windowSize int) *Collector {
	if windowSize < 1 {
		windowSize = 120
	}
	return &Collector{
		enabled:    enabled,
		windowSize: windowSize,
		samples:    make([]Sample, windowSize),
	}
}

// StartStep begins timing a new step.
func (c *Collector) StartStep() {
	if !c.enabled {
		return
	}
	c.stepStart = time.Now()
	c.currentPhases = make(map[string]time.Duration)
	c.lastPhase = ""
}

// StartPhase begins timing a named phase, ending whichever phase was
// previously open.
func (c *Collector) StartPhase(phase string) {
	if !c.enabled {
		return
	}
	now := time.Now()
	if c.lastPhase != "" {
		c.currentPhases[c.lastPhase] += now.Sub(c.phaseStart)
	}
	c.phaseStart = now
	c.lastPhase = phase
}

// EndStep closes the current phase and records the step's sample.
func (c *Collector) EndStep() {
	if !c.enabled {
		return
	}
	now := time.Now()
	if c.lastPhase != "" {
		c.currentPhases[c.lastPhase] += now.Sub(c.phaseStart)
	}
	c.samples[c.writeIndex] = Sample{Total: now.Sub(c.stepStart), Phases: c.currentPhases}
	c.writeIndex = (c.writeIndex + 1) % c.windowSize
	if c.sampleCount < c.windowSize {
		c.sampleCount++
	}
}

// Summary holds aggregated statistics over the current window.
type Summary struct {
	AvgStep    time.Duration
	MinStep    time.Duration
	MaxStep    time.Duration
	PhaseAvg   map[string]time.Duration
	PhasePct   map[string]float64
	StepsPerSec float64
}

// Summarize computes aggregated statistics over the current window.
func (c *Collector) Summarize() Summary {
	if !c.enabled || c.sampleCount == 0 {
		return Summary{PhaseAvg: map[string]time.Duration{}, PhasePct: map[string]float64{}}
	}

	var total, minStep, maxStep time.Duration
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < c.sampleCount; i++ {
		s := c.samples[i]
		total += s.Total
		if i == 0 || s.Total < minStep {
			minStep = s.Total
		}
		if s.Total > maxStep {
			maxStep = s.Total
		}
		for phase, d := range s.Phases {
			phaseSum[phase] += d
		}
	}

	avg := total / time.Duration(c.sampleCount)
	phaseAvg := make(map[string]time.Duration, len(phaseSum))
	phasePct := make(map[string]float64, len(phaseSum))
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(c.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	var stepsPerSec float64
	if avg > 0 {
		stepsPerSec = float64(time.Second) / float64(avg)
	}

	return Summary{
		AvgStep:     avg,
		MinStep:     minStep,
		MaxStep:     maxStep,
		PhaseAvg:    phaseAvg,
		PhasePct:    phasePct,
		StepsPerSec: stepsPerSec,
	}
}

// SortedPhases returns phase names ordered by descending average cost.
func (s Summary) SortedPhases() []string {
	names := make([]string, 0, len(s.PhaseAvg))
	for name := range s.PhaseAvg {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return s.PhaseAvg[names[i]] > s.PhaseAvg[names[j]] })
	return names
}

// LogAttrs returns the summary as slog-style key/value pairs.
func (s Summary) LogAttrs() []any {
	attrs := []any{
		"avg_step_us", s.AvgStep.Microseconds(),
		"min_step_us", s.MinStep.Microseconds(),
		"max_step_us", s.MaxStep.Microseconds(),
		"steps_per_sec", s.StepsPerSec,
	}
	for _, phase := range s.SortedPhases() {
		attrs = append(attrs, phase+"_pct", s.PhasePct[phase])
	}
	return attrs
}

// Row is the flat CSV-friendly form of a phase's contribution to one
// window, used by the gocsv exporter in csv.go.
type Row struct {
	Phase      string  `csv:"phase"`
	AvgUS      int64   `csv:"avg_us"`
	PctOfStep  float64 `csv:"pct_of_step"`
}

// Rows flattens the summary into one row per phase for CSV export.
func (s Summary) Rows() []Row {
	phases := s.SortedPhases()
	rows := make([]Row, 0, len(phases))
	for _, phase := range phases {
		rows = append(rows, Row{
			Phase:     phase,
			AvgUS:     s.PhaseAvg[phase].Microseconds(),
			PctOfStep: s.PhasePct[phase],
		})
	}
	return rows
}
