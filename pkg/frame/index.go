package frame

import (
	"fmt"
	"strconv"
)

// LabelKind represents the data type of an index label
type LabelKind uint8

const (
	LabelKindString LabelKind = iota
	LabelKindInt
	LabelKindFloat
)

// Label is a single row label within an index level. Labels compare
// lexicographically for strings and numerically otherwise; a level holds
// labels of one kind only.
type Label struct {
	kind LabelKind
	str  string
	i    int64
	f    float64
}

// StringLabel creates a string-kinded label
func StringLabel(s string) Label {
	return Label{kind: LabelKindString, str: s}
}

// IntLabel creates an int-kinded label
func IntLabel(i int) Label {
	return Label{kind: LabelKindInt, i: int64(i)}
}

// FloatLabel creates a float-kinded label
func FloatLabel(f float64) Label {
	return Label{kind: LabelKindFloat, f: f}
}

// Kind returns the label's kind
func (l Label) Kind() LabelKind { return l.kind }

// Str returns the string value of a string-kinded label
func (l Label) Str() string { return l.str }

// Int returns the integer value of an int-kinded label
func (l Label) Int() int { return int(l.i) }

// Float returns the float value of a float-kinded label
func (l Label) Float() float64 { return l.f }

// Compare orders two labels. Mixed-kind comparisons order by kind so that
// sorting stays total even over malformed level contents.
func (l Label) Compare(o Label) int {
	if l.kind != o.kind {
		if l.kind < o.kind {
			return -1
		}
		return 1
	}

	switch l.kind {
	case LabelKindString:
		switch {
		case l.str < o.str:
			return -1
		case l.str > o.str:
			return 1
		}
	case LabelKindInt:
		switch {
		case l.i < o.i:
			return -1
		case l.i > o.i:
			return 1
		}
	case LabelKindFloat:
		switch {
		case l.f < o.f:
			return -1
		case l.f > o.f:
			return 1
		}
	}
	return 0
}

// String renders the label for display
func (l Label) String() string {
	switch l.kind {
	case LabelKindString:
		return l.str
	case LabelKindInt:
		return strconv.FormatInt(l.i, 10)
	default:
		return fmt.Sprintf("%g", l.f)
	}
}

// Level is one named level of a frame's row index.
type Level struct {
	Name   string
	Labels []Label
}
