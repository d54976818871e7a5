package frame

import (
	"fmt"
	"math"
)

// ColumnType represents the data type of a column
type ColumnType int

const (
	ColumnTypeFloat ColumnType = iota
	ColumnTypeString
)

// Column is the base interface for all column types
type Column interface {
	Type() ColumnType
	Len() int
	Get(i int) interface{}
	Append(value interface{}) error
	// AppendMissing appends the type's missing-value marker: NaN for
	// float columns, the empty string for string columns.
	AppendMissing()
	Clear()
}

// FloatColumn stores float64 values. Missing entries are NaN.
type FloatColumn struct {
	values []float64
}

// NewFloatColumn creates a new float column
func NewFloatColumn() *FloatColumn {
	return &FloatColumn{
		values: make([]float64, 0, 1024),
	}
}

// NewFloatColumnFrom creates a float column owning a copy of vals
func NewFloatColumnFrom(vals []float64) *FloatColumn {
	c := &FloatColumn{values: make([]float64, len(vals))}
	copy(c.values, vals)
	return c
}

func (c *FloatColumn) Type() ColumnType { return ColumnTypeFloat }
func (c *FloatColumn) Len() int         { return len(c.values) }

func (c *FloatColumn) Get(i int) interface{} {
	return c.values[i]
}

func (c *FloatColumn) Append(value interface{}) error {
	switch v := value.(type) {
	case float64:
		c.values = append(c.values, v)
	case float32:
		c.values = append(c.values, float64(v))
	case int:
		c.values = append(c.values, float64(v))
	default:
		return fmt.Errorf("expected float, got %T", value)
	}
	return nil
}

func (c *FloatColumn) AppendMissing() {
	c.values = append(c.values, math.NaN())
}

func (c *FloatColumn) Clear() {
	c.values = c.values[:0]
}

// Values returns the backing slice. The column retains ownership.
func (c *FloatColumn) Values() []float64 {
	return c.values
}

// StringColumn stores string values. Missing entries are empty strings.
type StringColumn struct {
	values []string
}

// NewStringColumn creates a new string column
func NewStringColumn() *StringColumn {
	return &StringColumn{
		values: make([]string, 0, 1024),
	}
}

// NewStringColumnFrom creates a string column owning a copy of vals
func NewStringColumnFrom(vals []string) *StringColumn {
	c := &StringColumn{values: make([]string, len(vals))}
	copy(c.values, vals)
	return c
}

func (c *StringColumn) Type() ColumnType { return ColumnTypeString }
func (c *StringColumn) Len() int         { return len(c.values) }

func (c *StringColumn) Get(i int) interface{} {
	return c.values[i]
}

func (c *StringColumn) Append(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	c.values = append(c.values, s)
	return nil
}

func (c *StringColumn) AppendMissing() {
	c.values = append(c.values, "")
}

func (c *StringColumn) Clear() {
	c.values = c.values[:0]
}

// Values returns the backing slice. The column retains ownership.
func (c *StringColumn) Values() []string {
	return c.values
}

// gatherColumn builds a new column with rows reordered by perm, where
// perm[i] is the source row of destination row i.
func gatherColumn(c Column, perm []int) Column {
	switch col := c.(type) {
	case *FloatColumn:
		out := &FloatColumn{values: make([]float64, len(perm))}
		for i, src := range perm {
			out.values[i] = col.values[src]
		}
		return out
	case *StringColumn:
		out := &StringColumn{values: make([]string, len(perm))}
		for i, src := range perm {
			out.values[i] = col.values[src]
		}
		return out
	default:
		panic(fmt.Sprintf("frame: unknown column type %T", c))
	}
}
