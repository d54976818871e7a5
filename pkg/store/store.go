// Package store provides the columnar simulation store: a mapping from
// simulation key to named float64 columns of equal length.
//
// Two implementations are provided. DirStore persists each simulation
// record as an Arrow IPC file inside a directory with a JSON manifest;
// MemStore keeps records in memory for tests and programmatic pipelines.
// Stores are single-reader scoped resources: open one for the duration of a
// pipeline call and do not mutate it while a read is in progress.
package store

import (
	"context"
)

// Store reads simulation records.
type Store interface {
	// Keys returns all simulation keys in sorted order.
	Keys() []string
	// Fields returns the sorted field names of one simulation record.
	Fields(ctx context.Context, key string) ([]string, error)
	// Record materializes one simulation record. The returned columns are
	// owned by the caller.
	Record(ctx context.Context, key string) (map[string][]float64, error)
	// Close releases the store.
	Close() error
}

// Writer populates a store. Writing a key that already exists is a
// conflict; whole-store overwrite vs append is chosen when the writer is
// opened.
type Writer interface {
	WriteRecord(ctx context.Context, key string, fields map[string][]float64) error
	Close() error
}

// validateRecord checks that a record has at least one field and that all
// columns are the same length.
func validateRecord(fields map[string][]float64) (rows int, ok bool) {
	first := true
	for _, col := range fields {
		if first {
			rows = len(col)
			first = false
			continue
		}
		if len(col) != rows {
			return 0, false
		}
	}
	return rows, !first
}
