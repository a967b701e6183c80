// Package config is the solver's static configuration layer,
// grounded on the teacher's config/config.go: an embedded YAML
// defaults document merged with an optional override file, exposed
// through a package-level singleton set once at process startup.
package config

import (
	_ "embed"
	"os"

	"github.com/bluetit/solver/internal/core"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config is the solver's full configuration tree: spatial domain,
// kernel and equation-of-state choice, integrator scheme, spatial
// indexing and partitioning method, and storage settings.
type Config struct {
	Dim        int              `yaml:"dim"`
	Domain     DomainConfig     `yaml:"domain"`
	Kernel     KernelConfig     `yaml:"kernel"`
	EOS        EOSConfig        `yaml:"eos"`
	Integrator IntegratorConfig `yaml:"integrator"`
	Partition  PartitionConfig  `yaml:"partition"`
	Storage    StorageConfig    `yaml:"storage"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	Derived DerivedConfig `yaml:"-"`
}

// DomainConfig is the axis-aligned simulation domain bounds.
type DomainConfig struct {
	Min []float64 `yaml:"min"`
	Max []float64 `yaml:"max"`
}

// KernelConfig selects spec.md §4.6's smoothing kernel.
//
// Type is one of "cubic_spline", "wendland_c2", "wendland_c4",
// "gaussian", "quartic".
type KernelConfig struct {
	Type string `yaml:"type"`
}

// EOSConfig selects spec.md §4.6's equation of state and its
// parameters. Not every field applies to every Type; unused fields
// are ignored by that EOS's constructor in internal/sph/factory.go.
//
// Type is one of "ideal_gas", "adiabatic_ideal_gas",
// "weakly_compressible_cole", "linear_cole".
type EOSConfig struct {
	Type  string  `yaml:"type"`
	Gamma float64 `yaml:"gamma"`
	Kappa float64 `yaml:"kappa"`
	C0    float64 `yaml:"c0"`
	Rho0  float64 `yaml:"rho0"`
	P0    float64 `yaml:"p0"`
}

// IntegratorConfig configures the fixed-step explicit Runge-Kutta
// time integration spec.md §4.6 describes.
type IntegratorConfig struct {
	Order        int     `yaml:"order"`
	DT           float64 `yaml:"dt"`
	MaxSteps     int     `yaml:"max_steps"`
	FrameCadence int     `yaml:"frame_cadence"`
}

// PartitionConfig configures spec.md §4.5's spatial search engine and
// domain partitioner.
//
// SearchMethod is "grid" or "kdtree". PartitionMethod is "rib", "sfc",
// or "kmeans".
type PartitionConfig struct {
	SearchMethod    string  `yaml:"search_method"`
	GridCellSize    float64 `yaml:"grid_cell_size"`
	KDMaxLeaf       int     `yaml:"kd_max_leaf"`
	PartitionMethod string  `yaml:"partition_method"`
	NumParts        int     `yaml:"num_parts"`
	KMeansCellEdge  float64 `yaml:"kmeans_cell_edge"`
	KMeansTol       float64 `yaml:"kmeans_tol"`
	KMeansMaxIter   int     `yaml:"kmeans_max_iter"`
}

// StorageConfig configures the persistent series store spec.md §3
// defines and internal/data implements.
type StorageConfig struct {
	Path      string `yaml:"path"`
	MaxSeries int    `yaml:"max_series"`
}

// TelemetryConfig configures the supplemented per-phase statistics
// collector (SPEC_FULL.md §7); enablement itself is read from the
// TIT_ENABLE_STATS env var at startup, not from this file, matching
// spec.md §6's env-var collaborator contract.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"`
}

// DerivedConfig holds values computed once from the rest of Config,
// mirroring the teacher's computeDerived pattern (its DerivedConfig.
// DT32 field is reused verbatim here for the same reason: render/
// float32 consumers want a pre-narrowed copy rather than narrowing on
// every read).
type DerivedConfig struct {
	DT32 float32
}

func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Integrator.DT)
}

var global *Config

// Init loads Config from path (merged over the embedded defaults) and
// installs it as the package singleton. Must be called at most once,
// before the first Cfg() call.
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit calls Init and panics on error — used at process startup
// where a malformed config file is a fatal condition, not a
// recoverable error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(err)
	}
}

// Cfg returns the installed singleton. Panics if Init was never
// called — a contract violation, not a recoverable error, since every
// component that reads configuration assumes it by construction.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load builds a Config from the embedded defaults, optionally
// overridden by the YAML file at path (path == "" skips the
// override).
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, core.Wrapf(core.BadEnvValue, err, "config: invalid embedded defaults")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, core.Wrapf(core.BadEnvValue, err, "config: reading %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, core.Wrapf(core.BadEnvValue, err, "config: invalid override file %s", path)
		}
	}
	cfg.computeDerived()
	return cfg, nil
}
