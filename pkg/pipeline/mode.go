package pipeline

import (
	"math"
	"sort"

	"github.com/plumetab/plumetab/pkg/config"
	"github.com/plumetab/plumetab/pkg/errors"
)

// Aggregator collapses one field's full time series into a scalar.
type Aggregator func([]float64) float64

// Sum returns the sum of vals
func Sum(vals []float64) float64 {
	s := 0.0
	for _, v := range vals {
		s += v
	}
	return s
}

// Mean returns the arithmetic mean of vals
func Mean(vals []float64) float64 {
	return Sum(vals) / float64(len(vals))
}

// Min returns the smallest value, NaN for an empty input
func Min(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest value, NaN for an empty input
func Max(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

var builtinAggregators = map[string]Aggregator{
	"sum":  Sum,
	"mean": Mean,
	"min":  Min,
	"max":  Max,
}

// LookupAggregator resolves a built-in aggregator by name.
func LookupAggregator(name string) (Aggregator, bool) {
	agg, ok := builtinAggregators[name]
	return agg, ok
}

// AggregatorNames returns the sorted names of the built-in aggregators.
func AggregatorNames() []string {
	names := make([]string, 0, len(builtinAggregators))
	for n := range builtinAggregators {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type modeKind uint8

const (
	modeStride modeKind = iota
	modeAggregate
)

// Mode is the validated reduction mode: either stride down-sampling or
// scalar aggregation. The zero Mode is invalid; construct one with Stride
// or Aggregate, or let Options.mode derive it. Making the mode a closed
// variant is what rules out the "no aggregator selected" fault at the
// reduction site.
type Mode struct {
	kind     modeKind
	stride   int
	agg      Aggregator
	weighted bool
}

// Stride creates a down-sampling mode retaining every stride-th sample.
func Stride(stride int) Mode {
	return Mode{kind: modeStride, stride: stride}
}

// Aggregate creates a mode collapsing each field to one scalar per
// simulation. When weighted, observables are multiplied elementwise by the
// weight column before aggregation.
func Aggregate(agg Aggregator, weighted bool) Mode {
	return Mode{kind: modeAggregate, agg: agg, weighted: weighted}
}

func (m Mode) validate() error {
	switch m.kind {
	case modeStride:
		if m.stride <= 0 {
			return errors.New(errors.ErrorTypeValidation, "stride must be positive")
		}
	case modeAggregate:
		if m.agg == nil {
			return errors.New(errors.ErrorTypeValidation,
				"an aggregator function is required in aggregate mode")
		}
	}
	return nil
}

// String names the mode for logs and metrics labels
func (m Mode) String() string {
	if m.kind == modeStride {
		return "stride"
	}
	return "aggregate"
}

// Options mirrors the keyword surface of the original tool. Use
// DefaultOptions and override; the zero value selects no mode and is
// rejected.
type Options struct {
	// Reduce retains every Nth sample when positive (stride mode).
	// Mutually exclusive with Aggregator.
	Reduce int
	// Aggregator collapses each field to a scalar per simulation
	// (aggregate mode). Mutually exclusive with Reduce.
	Aggregator Aggregator
	// Weight multiplies observables by the weight column before
	// aggregating. Only meaningful in aggregate mode.
	Weight bool
	// Reshape melts per-residue column families into a residue index level
	Reshape bool
	// Grouper is the index/column name identifying the simulation
	Grouper string
	// WeightName is the name of the weight column
	WeightName string
	// TimeName is the name of the time column
	TimeName string
	// ResidueLevel is the name of the residue index level added by
	// reshaping
	ResidueLevel string
}

// DefaultOptions returns the conventional defaults: weighted aggregation,
// reshaping enabled, grouper "ff", weight column "ww", time column "time".
func DefaultOptions() Options {
	return Options{
		Weight:       true,
		Reshape:      true,
		Grouper:      "ff",
		WeightName:   "ww",
		TimeName:     "time",
		ResidueLevel: "res_nr",
	}
}

// OptionsFromConfig builds Options from the unified configuration,
// resolving the aggregator by name.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	opts := Options{
		Reduce:       cfg.Pipeline.Reduce,
		Weight:       cfg.Pipeline.Weight,
		Reshape:      cfg.Pipeline.Reshape,
		Grouper:      cfg.Naming.Grouper,
		WeightName:   cfg.Naming.WeightField,
		TimeName:     cfg.Naming.TimeField,
		ResidueLevel: cfg.Naming.ResidueLevel,
	}

	if name := cfg.Pipeline.Aggregator; name != "" {
		agg, ok := LookupAggregator(name)
		if !ok {
			return Options{}, errors.Newf(errors.ErrorTypeConfig,
				"unknown aggregator %q, expected one of %v", name, AggregatorNames())
		}
		opts.Aggregator = agg
	}

	return opts, nil
}

// withDefaults fills empty naming options
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Grouper == "" {
		o.Grouper = def.Grouper
	}
	if o.WeightName == "" {
		o.WeightName = def.WeightName
	}
	if o.TimeName == "" {
		o.TimeName = def.TimeName
	}
	if o.ResidueLevel == "" {
		o.ResidueLevel = def.ResidueLevel
	}
	return o
}

// mode validates the mutually exclusive mode selection up front, before any
// store access.
func (o Options) mode() (Mode, error) {
	if o.Reduce < 0 {
		return Mode{}, errors.New(errors.ErrorTypeValidation,
			"reduction stride cannot be negative")
	}
	if o.Reduce > 0 && o.Aggregator != nil {
		return Mode{}, errors.New(errors.ErrorTypeConflict,
			"cannot specify both a reduction stride and an aggregator")
	}
	if o.Reduce == 0 {
		if o.Aggregator == nil {
			return Mode{}, errors.New(errors.ErrorTypeValidation,
				"an aggregator is required when no reduction stride is given")
		}
		return Aggregate(o.Aggregator, o.Weight), nil
	}
	return Stride(o.Reduce), nil
}
