// Package fieldname implements the naming contract for observable fields.
//
// PLUMED output encodes per-residue observable families as column names with
// a trailing integer: "phi0", "phi1", ... all belong to base "phi". This
// package is the single place that convention is interpreted; the reshaper
// and any renaming logic go through Parse instead of stripping digits ad hoc.
package fieldname

import (
	"sort"
	"strconv"
	"strings"
)

// Field is a parsed observable field name.
type Field struct {
	// Base is the field name with any trailing residue index removed
	Base string
	// Index is the residue index; meaningful only when Indexed is true
	Index int
	// Indexed reports whether the name carried a trailing integer
	Indexed bool
}

// Parse splits a field name into its base and optional residue index.
// A name consisting only of digits is its own base: there is no family to
// attach it to.
func Parse(name string) Field {
	base := strings.TrimRight(name, "0123456789")
	if base == name || base == "" {
		return Field{Base: name}
	}

	idx, err := strconv.Atoi(name[len(base):])
	if err != nil {
		// Suffix too large to represent; treat the whole name as a base.
		return Field{Base: name}
	}

	return Field{Base: base, Index: idx, Indexed: true}
}

// Name reassembles the on-disk field name.
func (f Field) Name() string {
	if !f.Indexed {
		return f.Base
	}
	return f.Base + strconv.Itoa(f.Index)
}

// Join builds the field name for one member of an indexed family.
func Join(base string, index int) string {
	return base + strconv.Itoa(index)
}

// Bases returns the sorted unique bases of names, skipping any name listed
// in exclude.
func Bases(names []string, exclude ...string) []string {
	skip := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		skip[e] = struct{}{}
	}

	seen := make(map[string]struct{})
	bases := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := skip[n]; ok {
			continue
		}
		b := Parse(n).Base
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		bases = append(bases, b)
	}

	sort.Strings(bases)
	return bases
}
