package store

import (
	"context"
	"sort"

	"github.com/plumetab/plumetab/pkg/errors"
)

// MemStore is an in-memory store implementing both Store and Writer.
// Records are copied on write and on read, so callers cannot alias the
// store's internal state.
type MemStore struct {
	records map[string]map[string][]float64
}

// NewMemStore creates an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{records: make(map[string]map[string][]float64)}
}

// WriteRecord stores a copy of fields under key
func (m *MemStore) WriteRecord(_ context.Context, key string, fields map[string][]float64) error {
	if _, exists := m.records[key]; exists {
		return errors.Newf(errors.ErrorTypeConflict, "simulation %q already exists", key)
	}
	if _, ok := validateRecord(fields); !ok {
		return errors.Newf(errors.ErrorTypeSchema,
			"simulation %q has empty or unevenly sized columns", key)
	}

	rec := make(map[string][]float64, len(fields))
	for name, col := range fields {
		c := make([]float64, len(col))
		copy(c, col)
		rec[name] = c
	}
	m.records[key] = rec
	return nil
}

// Keys returns all simulation keys in sorted order
func (m *MemStore) Keys() []string {
	keys := make([]string, 0, len(m.records))
	for k := range m.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fields returns the sorted field names of one record
func (m *MemStore) Fields(_ context.Context, key string) ([]string, error) {
	rec, ok := m.records[key]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "simulation %q not found", key)
	}

	fields := make([]string, 0, len(rec))
	for name := range rec {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return fields, nil
}

// Record returns a copy of one record
func (m *MemStore) Record(_ context.Context, key string) (map[string][]float64, error) {
	rec, ok := m.records[key]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "simulation %q not found", key)
	}

	out := make(map[string][]float64, len(rec))
	for name, col := range rec {
		c := make([]float64, len(col))
		copy(c, col)
		out[name] = c
	}
	return out, nil
}

// Close is a no-op for the in-memory store
func (m *MemStore) Close() error { return nil }
