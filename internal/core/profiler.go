package core

import (
	"io"
	"runtime/pprof"
)

// Profiler is a no-op-unless-started wrapper around runtime/pprof,
// gated by the TIT_ENABLE_PROFILER environment variable (spec.md §6).
// The original source carries the equivalent as core/profiler.cpp;
// spec.md names the env var but leaves its effect unspecified, so this
// is a supplemented feature (see SPEC_FULL.md §7).
type Profiler struct {
	enabled bool
	out     io.Writer
	started bool
}

// NewProfiler returns a Profiler that is a no-op when enabled is false.
func NewProfiler(enabled bool, out io.Writer) *Profiler {
	return &Profiler{enabled: enabled, out: out}
}

// Start begins CPU profiling into out, if enabled.
func (p *Profiler) Start() error {
	if !p.enabled || p.out == nil {
		return nil
	}
	if err := pprof.StartCPUProfile(p.out); err != nil {
		return Externalf("pprof.StartCPUProfile", err)
	}
	p.started = true
	return nil
}

// Stop ends CPU profiling, if it was started.
func (p *Profiler) Stop() {
	if p.started {
		pprof.StopCPUProfile()
		p.started = false
	}
}
