package pipeline

import (
	"math"
	"sort"

	"github.com/plumetab/plumetab/pkg/errors"
	"github.com/plumetab/plumetab/pkg/frame"
)

// reduceRecord turns one simulation record into a per-simulation frame:
// a down-sampled table in stride mode or a single aggregated row in
// aggregate mode. The simulation key ends up in the grouper column either
// way; aggregate mode additionally indexes the row by it.
func reduceRecord(key string, rec map[string][]float64, mode Mode, opts Options) (*frame.Frame, error) {
	names := make([]string, 0, len(rec))
	rows := -1
	for name, col := range rec {
		if rows == -1 {
			rows = len(col)
		} else if len(col) != rows {
			return nil, errors.Newf(errors.ErrorTypeSchema,
				"simulation %q: field %q has %d rows, expected %d",
				key, name, len(col), rows)
		}
		names = append(names, name)
	}
	if rows <= 0 {
		return nil, errors.Newf(errors.ErrorTypeSchema,
			"simulation %q has no data", key)
	}
	sort.Strings(names)

	if mode.kind == modeStride {
		return strideRecord(key, rec, names, mode.stride, opts)
	}
	return aggregateRecord(key, rec, names, mode, opts)
}

func strideRecord(key string, rec map[string][]float64, names []string, stride int, opts Options) (*frame.Frame, error) {
	weights, ok := rec[opts.WeightName]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeSchema,
			"simulation %q lacks weight field %q", key, opts.WeightName)
	}

	retained := sample(weights, stride)
	mass := Sum(retained)
	if mass <= 0 || math.IsNaN(mass) || math.IsInf(mass, 0) {
		return nil, errors.Newf(errors.ErrorTypeData,
			"simulation %q: retained weight mass %g cannot be renormalized", key, mass)
	}
	for i := range retained {
		retained[i] /= mass
	}

	out := frame.New()
	for _, name := range names {
		if name == opts.Grouper {
			// The key tag below owns this column name.
			continue
		}

		var err error
		if name == opts.WeightName {
			err = out.AddFloats(name, retained)
		} else {
			err = out.AddFloats(name, sample(rec[name], stride))
		}
		if err != nil {
			return nil, err
		}
	}

	keys := make([]string, out.Len())
	for i := range keys {
		keys[i] = key
	}
	if err := out.AddStrings(opts.Grouper, keys); err != nil {
		return nil, err
	}

	return out, nil
}

func aggregateRecord(key string, rec map[string][]float64, names []string, mode Mode, opts Options) (*frame.Frame, error) {
	var weights []float64
	if mode.weighted {
		var ok bool
		weights, ok = rec[opts.WeightName]
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeSchema,
				"simulation %q lacks weight field %q", key, opts.WeightName)
		}
	}

	out := frame.New()
	for _, name := range names {
		// Time and weights would be collapsed into meaningless scalars.
		if name == opts.TimeName || name == opts.WeightName || name == opts.Grouper {
			continue
		}

		vals := rec[name]
		if mode.weighted {
			weighted := make([]float64, len(vals))
			for i, v := range vals {
				weighted[i] = v * weights[i]
			}
			vals = weighted
		}

		if err := out.AddFloats(name, []float64{mode.agg(vals)}); err != nil {
			return nil, err
		}
	}

	// The key is both the row index and a bookkeeping column; reshaping
	// consumes one or the other depending on configuration.
	if err := out.AddStrings(opts.Grouper, []string{key}); err != nil {
		return nil, err
	}
	if err := out.AppendLevel(opts.Grouper, []frame.Label{frame.StringLabel(key)}); err != nil {
		return nil, err
	}

	return out, nil
}

// sample copies every stride-th value, starting at the first.
func sample(vals []float64, stride int) []float64 {
	out := make([]float64, 0, (len(vals)+stride-1)/stride)
	for i := 0; i < len(vals); i += stride {
		out = append(out, vals[i])
	}
	return out
}
