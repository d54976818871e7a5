package pipeline

import (
	"sort"

	"github.com/plumetab/plumetab/pkg/errors"
	"github.com/plumetab/plumetab/pkg/fieldname"
	"github.com/plumetab/plumetab/pkg/frame"
)

// wideToLong melts per-residue column families ("phi0", "phi1", ...) of a
// wide frame into one column per base plus an integer residue index level.
// idCol is consumed as the outer index level; every other bookkeeping or
// unindexed column is carried along, replicated across residues. Any index
// levels already on the wide frame are discarded, mirroring how melting
// resets the row identity.
func wideToLong(wide *frame.Frame, idCol string, opts Options) (*frame.Frame, error) {
	id, ok := wide.Column(idCol)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeSchema,
			"reshaping requires column %q", idCol)
	}

	bookkeeping := map[string]struct{}{
		opts.TimeName:   {},
		opts.Grouper:    {},
		opts.WeightName: {},
	}

	// Group observables into indexed families; everything else is carried.
	families := make(map[string]map[int]string)
	var carried []string
	residueSet := make(map[int]struct{})
	for _, name := range wide.Columns() {
		if name == idCol {
			continue
		}
		if _, book := bookkeeping[name]; book {
			carried = append(carried, name)
			continue
		}

		f := fieldname.Parse(name)
		if !f.Indexed {
			carried = append(carried, name)
			continue
		}
		if families[f.Base] == nil {
			families[f.Base] = make(map[int]string)
		}
		families[f.Base][f.Index] = name
		residueSet[f.Index] = struct{}{}
	}

	residues := make([]int, 0, len(residueSet))
	for r := range residueSet {
		residues = append(residues, r)
	}
	sort.Ints(residues)
	if len(residues) == 0 {
		// Nothing indexed: the reshape is trivial but still adds the
		// residue level so the output layout is uniform.
		residues = []int{0}
	}

	bases := make([]string, 0, len(families))
	for b := range families {
		bases = append(bases, b)
	}
	sort.Strings(bases)

	nres := len(residues)
	rows := wide.Len()
	long := frame.New()

	idLabels := make([]frame.Label, 0, rows*nres)
	resLabels := make([]frame.Label, 0, rows*nres)
	for r := 0; r < rows; r++ {
		for _, j := range residues {
			idLabels = append(idLabels, columnLabel(id, r))
			resLabels = append(resLabels, frame.IntLabel(j))
		}
	}
	if err := long.AppendLevel(idCol, idLabels); err != nil {
		return nil, err
	}
	if err := long.AppendLevel(opts.ResidueLevel, resLabels); err != nil {
		return nil, err
	}

	for _, base := range bases {
		col := frame.NewFloatColumn()
		for r := 0; r < rows; r++ {
			for _, j := range residues {
				name, ok := families[base][j]
				if !ok {
					col.AppendMissing()
					continue
				}
				src, _ := wide.Floats(name)
				if src == nil {
					return nil, errors.Newf(errors.ErrorTypeSchema,
						"observable column %q is not numeric", name)
				}
				if err := col.Append(src[r]); err != nil {
					return nil, err
				}
			}
		}
		if err := long.AddColumn(base, col); err != nil {
			return nil, err
		}
	}

	for _, name := range carried {
		src, _ := wide.Column(name)
		var col frame.Column
		if src.Type() == frame.ColumnTypeString {
			col = frame.NewStringColumn()
		} else {
			col = frame.NewFloatColumn()
		}
		for r := 0; r < rows; r++ {
			for range residues {
				if err := col.Append(src.Get(r)); err != nil {
					return nil, err
				}
			}
		}
		if err := long.AddColumn(name, col); err != nil {
			return nil, err
		}
	}

	return long, nil
}

func columnLabel(c frame.Column, row int) frame.Label {
	if c.Type() == frame.ColumnTypeString {
		return frame.StringLabel(c.Get(row).(string))
	}
	return frame.FloatLabel(c.Get(row).(float64))
}

// Melt reshapes a wide pipeline result (produced with Reshape=false) into
// the long form that Reshape=true would have produced directly.
func Melt(wide *frame.Frame, opts Options) (*frame.Frame, error) {
	opts = opts.withDefaults()

	switch {
	case levelNamesEqual(wide, sampleLevel, opts.Grouper):
		// Stride-mode wide layout: (sample, grouper) index.
		inner, err := flattenWide(wide, opts.Grouper, 1)
		if err != nil {
			return nil, err
		}
		long, err := wideToLong(inner, opts.TimeName, opts)
		if err != nil {
			return nil, err
		}
		if err := foldGrouperLevel(long, opts.Grouper); err != nil {
			return nil, err
		}
		long.SortColumns()
		long.SortIndex()
		return long, nil

	case levelNamesEqual(wide, opts.Grouper):
		// Aggregate-mode wide layout: (grouper) index.
		inner, err := flattenWide(wide, opts.Grouper, 0)
		if err != nil {
			return nil, err
		}
		long, err := wideToLong(inner, opts.Grouper, opts)
		if err != nil {
			return nil, err
		}
		long.SortColumns()
		long.SortIndex()
		return long, nil

	default:
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"frame index %v is not a wide pipeline layout", wide.LevelNames())
	}
}

// flattenWide rebuilds a wide result as a plain column table, restoring the
// grouper index level at grouperLevel as a column.
func flattenWide(wide *frame.Frame, grouper string, grouperLevel int) (*frame.Frame, error) {
	out := frame.New()
	for _, name := range wide.Columns() {
		src, _ := wide.Column(name)
		switch c := src.(type) {
		case *frame.FloatColumn:
			if err := out.AddFloats(name, c.Values()); err != nil {
				return nil, err
			}
		case *frame.StringColumn:
			if err := out.AddStrings(name, c.Values()); err != nil {
				return nil, err
			}
		}
	}

	labels := wide.Level(grouperLevel).Labels
	keys := make([]string, len(labels))
	for i, l := range labels {
		keys[i] = l.Str()
	}
	if err := out.AddStrings(grouper, keys); err != nil {
		return nil, err
	}
	return out, nil
}

// foldGrouperLevel moves the grouper column into the innermost index level.
func foldGrouperLevel(f *frame.Frame, grouper string) error {
	keys, ok := f.Strings(grouper)
	if !ok {
		return errors.Newf(errors.ErrorTypeSchema,
			"grouper column %q missing after reshape", grouper)
	}

	labels := make([]frame.Label, len(keys))
	for i, k := range keys {
		labels[i] = frame.StringLabel(k)
	}
	if err := f.AppendLevel(grouper, labels); err != nil {
		return err
	}
	f.DropColumn(grouper)
	return nil
}
