// Package frame provides the in-memory result table of the reduction
// pipeline: named, typed columns over a multi-level row index.
//
// A Frame is deliberately small compared to a general dataframe library. It
// supports exactly the operations the pipeline needs: appending columns and
// index levels, row-stacking concatenation with outer column alignment,
// and deterministic sorting of columns and of the row index. Missing values
// are NaN in float columns; they are introduced only by concatenating
// heterogeneous simulation records and by melting uneven column families.
package frame

import (
	"sort"

	"github.com/plumetab/plumetab/pkg/errors"
)

// Frame is a two-dimensional table with named columns and an ordered list of
// named row index levels. All columns and levels have equal length.
type Frame struct {
	levels []Level
	order  []string
	cols   map[string]Column
	rows   int
	sized  bool
}

// New creates an empty frame. The first column or index level appended
// fixes the row count.
func New() *Frame {
	return &Frame{cols: make(map[string]Column)}
}

// Len returns the number of rows
func (f *Frame) Len() int { return f.rows }

// NumColumns returns the number of columns
func (f *Frame) NumColumns() int { return len(f.order) }

// Columns returns the column names in frame order
func (f *Frame) Columns() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// HasColumn reports whether a column exists
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.cols[name]
	return ok
}

// Column returns a column by name
func (f *Frame) Column(name string) (Column, bool) {
	c, ok := f.cols[name]
	return c, ok
}

// Floats returns the values of a float column. The frame retains ownership
// of the slice.
func (f *Frame) Floats(name string) ([]float64, bool) {
	c, ok := f.cols[name].(*FloatColumn)
	if !ok {
		return nil, false
	}
	return c.Values(), true
}

// Strings returns the values of a string column. The frame retains
// ownership of the slice.
func (f *Frame) Strings(name string) ([]string, bool) {
	c, ok := f.cols[name].(*StringColumn)
	if !ok {
		return nil, false
	}
	return c.Values(), true
}

// AddColumn appends a column to the frame
func (f *Frame) AddColumn(name string, col Column) error {
	if _, exists := f.cols[name]; exists {
		return errors.Newf(errors.ErrorTypeConflict, "column %q already exists", name)
	}
	if err := f.claimRows(col.Len()); err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, "column "+name)
	}

	f.cols[name] = col
	f.order = append(f.order, name)
	return nil
}

// AddFloats appends a float column holding a copy of vals
func (f *Frame) AddFloats(name string, vals []float64) error {
	return f.AddColumn(name, NewFloatColumnFrom(vals))
}

// AddStrings appends a string column holding a copy of vals
func (f *Frame) AddStrings(name string, vals []string) error {
	return f.AddColumn(name, NewStringColumnFrom(vals))
}

// DropColumn removes a column if present
func (f *Frame) DropColumn(name string) {
	if _, ok := f.cols[name]; !ok {
		return
	}
	delete(f.cols, name)
	for i, n := range f.order {
		if n == name {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}

// NumLevels returns the number of row index levels
func (f *Frame) NumLevels() int { return len(f.levels) }

// Level returns the i-th index level. The frame retains ownership of the
// label slice.
func (f *Frame) Level(i int) Level { return f.levels[i] }

// LevelNames returns the index level names in order
func (f *Frame) LevelNames() []string {
	out := make([]string, len(f.levels))
	for i, l := range f.levels {
		out[i] = l.Name
	}
	return out
}

// AppendLevel appends an index level as the new innermost level
func (f *Frame) AppendLevel(name string, labels []Label) error {
	if err := f.claimRows(len(labels)); err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, "level "+name)
	}

	owned := make([]Label, len(labels))
	copy(owned, labels)
	f.levels = append(f.levels, Level{Name: name, Labels: owned})
	return nil
}

// claimRows fixes or verifies the frame's row count
func (f *Frame) claimRows(n int) error {
	if !f.sized {
		f.rows = n
		f.sized = true
		return nil
	}
	if n != f.rows {
		return errors.Newf(errors.ErrorTypeValidation,
			"length %d does not match frame length %d", n, f.rows)
	}
	return nil
}

// SortColumns orders the frame's columns alphabetically by name.
func (f *Frame) SortColumns() {
	sort.Strings(f.order)
}

// SortIndex stably sorts rows lexicographically over all index levels, in
// level order. Frames without index levels are left untouched.
func (f *Frame) SortIndex() {
	if len(f.levels) == 0 || f.rows < 2 {
		return
	}

	perm := make([]int, f.rows)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		ra, rb := perm[a], perm[b]
		for _, lvl := range f.levels {
			if c := lvl.Labels[ra].Compare(lvl.Labels[rb]); c != 0 {
				return c < 0
			}
		}
		return false
	})

	for li := range f.levels {
		src := f.levels[li].Labels
		dst := make([]Label, len(src))
		for i, s := range perm {
			dst[i] = src[s]
		}
		f.levels[li].Labels = dst
	}
	for name, col := range f.cols {
		f.cols[name] = gatherColumn(col, perm)
	}
}

// Concat stacks frames row-wise. Index level names must agree across all
// parts; the column set is the union, with missing entries filled with the
// column type's missing marker (NaN for floats). No deduplication and no
// value reconciliation is performed.
func Concat(parts []*Frame) (*Frame, error) {
	if len(parts) == 0 {
		return nil, errors.New(errors.ErrorTypeValidation, "nothing to concatenate")
	}

	first := parts[0]
	for _, p := range parts[1:] {
		if len(p.levels) != len(first.levels) {
			return nil, errors.New(errors.ErrorTypeSchema,
				"frames have differing index depths")
		}
		for i := range p.levels {
			if p.levels[i].Name != first.levels[i].Name {
				return nil, errors.Newf(errors.ErrorTypeSchema,
					"index level %d: %q != %q", i, p.levels[i].Name, first.levels[i].Name)
			}
		}
	}

	total := 0
	for _, p := range parts {
		total += p.rows
	}

	// Column order is first appearance across parts.
	var order []string
	types := make(map[string]ColumnType)
	for _, p := range parts {
		for _, name := range p.order {
			t := p.cols[name].Type()
			if seen, ok := types[name]; ok {
				if seen != t {
					return nil, errors.Newf(errors.ErrorTypeSchema,
						"column %q has conflicting types", name)
				}
				continue
			}
			types[name] = t
			order = append(order, name)
		}
	}

	out := New()
	out.rows = total
	out.sized = true

	for li := range first.levels {
		labels := make([]Label, 0, total)
		for _, p := range parts {
			labels = append(labels, p.levels[li].Labels...)
		}
		out.levels = append(out.levels, Level{Name: first.levels[li].Name, Labels: labels})
	}

	for _, name := range order {
		var col Column
		if types[name] == ColumnTypeString {
			col = &StringColumn{values: make([]string, 0, total)}
		} else {
			col = &FloatColumn{values: make([]float64, 0, total)}
		}
		for _, p := range parts {
			src, ok := p.cols[name]
			if !ok {
				for i := 0; i < p.rows; i++ {
					col.AppendMissing()
				}
				continue
			}
			switch s := src.(type) {
			case *FloatColumn:
				fc := col.(*FloatColumn)
				fc.values = append(fc.values, s.values...)
			case *StringColumn:
				sc := col.(*StringColumn)
				sc.values = append(sc.values, s.values...)
			}
		}
		out.cols[name] = col
		out.order = append(out.order, name)
	}

	return out, nil
}
