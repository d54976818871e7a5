// Package config provides the unified configuration for plumetab.
// It defines a single Config structure shared by the ingestion stage and the
// reduction pipeline, so that field naming conventions (weight column,
// grouper column, time column) are declared once instead of being scattered
// as string literals across producer and consumer call sites.
//
// The configuration is organized into logical sections:
//   - Naming: field name conventions shared by every stage
//   - Pipeline: reduction mode, weighting and reshaping
//   - Store: on-disk columnar store location and codec
//   - Ingest: source file handling
//   - Observability: logging and metrics
//
// Example usage:
//
//	cfg := config.NewDefaultConfig()
//	cfg.Pipeline.Reduce = 10
//	cfg.Store.Path = "./colvar-store"
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"fmt"
)

// Config is the unified configuration structure for plumetab.
type Config struct {
	// Naming declares the shared field name conventions
	Naming NamingConfig `yaml:"naming" json:"naming"`

	// Pipeline controls reduction, weighting and reshaping
	Pipeline PipelineConfig `yaml:"pipeline" json:"pipeline"`

	// Store configures the on-disk columnar store
	Store StoreConfig `yaml:"store" json:"store"`

	// Ingest configures source file handling
	Ingest IngestConfig `yaml:"ingest" json:"ingest"`

	// Observability configures logging and metrics
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

// NamingConfig declares the field names every stage agrees on.
type NamingConfig struct {
	// Grouper is the index/column name identifying the originating simulation
	Grouper string `yaml:"grouper" json:"grouper"`
	// WeightField is the name of the per-row statistical weight column
	WeightField string `yaml:"weight_field" json:"weight_field"`
	// TimeField is the name of the simulation time column
	TimeField string `yaml:"time_field" json:"time_field"`
	// ResidueLevel is the name of the residue index level added by reshaping
	ResidueLevel string `yaml:"residue_level" json:"residue_level"`
}

// PipelineConfig controls the reduction pipeline.
// Reduce and Aggregator are mutually exclusive; exactly one must be set.
type PipelineConfig struct {
	// Reduce retains every Nth sample when positive (stride mode)
	Reduce int `yaml:"reduce" json:"reduce"`
	// Aggregator names a built-in reduction function (sum, mean, min, max)
	// collapsing each field to one scalar per simulation (aggregate mode)
	Aggregator string `yaml:"aggregator" json:"aggregator"`
	// Weight multiplies observables by the weight column before aggregating
	Weight bool `yaml:"weight" json:"weight"`
	// Reshape melts per-residue column families into a residue index level
	Reshape bool `yaml:"reshape" json:"reshape"`
}

// StoreConfig configures the Arrow directory store.
type StoreConfig struct {
	// Path is the store directory
	Path string `yaml:"path" json:"path"`
	// Compression selects the record batch codec ("zstd" or "none")
	Compression string `yaml:"compression" json:"compression"`
	// Overwrite replaces an existing store instead of appending to it
	Overwrite bool `yaml:"overwrite" json:"overwrite"`
}

// IngestConfig configures PLUMED file ingestion.
type IngestConfig struct {
	// FieldMap renames fields before they are written to the store
	FieldMap map[string]string `yaml:"field_map" json:"field_map"`
}

// ObservabilityConfig configures logging and metrics.
type ObservabilityConfig struct {
	// LogLevel sets logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level"`
	// Development switches the logger to human-readable output
	Development bool `yaml:"development" json:"development"`
	// EnableMetrics activates Prometheus metrics collection
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics"`
}

// NewDefaultConfig creates a Config with the conventional defaults: weight
// column "ww", grouper "ff", time column "time", weighted aggregation and
// reshaping enabled.
func NewDefaultConfig() *Config {
	return &Config{
		Naming: NamingConfig{
			Grouper:      "ff",
			WeightField:  "ww",
			TimeField:    "time",
			ResidueLevel: "res_nr",
		},
		Pipeline: PipelineConfig{
			Reduce:     0,
			Aggregator: "",
			Weight:     true,
			Reshape:    true,
		},
		Store: StoreConfig{
			Compression: "zstd",
			Overwrite:   false,
		},
		Ingest: IngestConfig{},
		Observability: ObservabilityConfig{
			LogLevel:      "info",
			Development:   false,
			EnableMetrics: true,
		},
	}
}

// Validate validates the configuration for correctness. Mode validation
// proper (mutual exclusivity, missing aggregator) happens again at pipeline
// construction; checking here catches bad config files before any work runs.
func (c *Config) Validate() error {
	if c.Naming.Grouper == "" {
		return fmt.Errorf("naming.grouper is required")
	}
	if c.Naming.WeightField == "" {
		return fmt.Errorf("naming.weight_field is required")
	}
	if c.Naming.ResidueLevel == "" {
		return fmt.Errorf("naming.residue_level is required")
	}
	if c.Naming.Grouper == c.Naming.WeightField {
		return fmt.Errorf("naming.grouper and naming.weight_field must differ")
	}
	if c.Pipeline.Reduce < 0 {
		return fmt.Errorf("pipeline.reduce cannot be negative")
	}
	if c.Pipeline.Reduce > 0 && c.Pipeline.Aggregator != "" {
		return fmt.Errorf("pipeline.reduce and pipeline.aggregator are mutually exclusive")
	}
	if c.Pipeline.Reduce == 0 && c.Pipeline.Aggregator == "" {
		return fmt.Errorf("one of pipeline.reduce or pipeline.aggregator is required")
	}
	switch c.Store.Compression {
	case "", "none", "zstd":
	default:
		return fmt.Errorf("store.compression must be \"zstd\" or \"none\", got %q", c.Store.Compression)
	}
	return nil
}
