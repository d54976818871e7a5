package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumetab/plumetab/pkg/errors"
)

func testRecord() map[string][]float64 {
	return map[string][]float64{
		"time": {0, 1, 2, 3},
		"phi0": {0.1, 0.2, 0.3, 0.4},
		"phi1": {1.1, 1.2, 1.3, 1.4},
		"ww":   {0.25, 0.25, 0.25, 0.25},
	}
}

func TestMemStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore()

	require.NoError(t, m.WriteRecord(ctx, "sim-b", testRecord()))
	require.NoError(t, m.WriteRecord(ctx, "sim-a", testRecord()))

	assert.Equal(t, []string{"sim-a", "sim-b"}, m.Keys())

	fields, err := m.Fields(ctx, "sim-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"phi0", "phi1", "time", "ww"}, fields)

	rec, err := m.Record(ctx, "sim-a")
	require.NoError(t, err)
	assert.Equal(t, testRecord(), rec)

	// Mutating the returned record must not affect the store.
	rec["phi0"][0] = 99
	again, err := m.Record(ctx, "sim-a")
	require.NoError(t, err)
	assert.Equal(t, 0.1, again["phi0"][0])
}

func TestMemStoreDuplicateKey(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore()

	require.NoError(t, m.WriteRecord(ctx, "sim-a", testRecord()))
	err := m.WriteRecord(ctx, "sim-a", testRecord())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConflict))
}

func TestMemStoreRaggedRecord(t *testing.T) {
	err := NewMemStore().WriteRecord(context.Background(), "sim-a", map[string][]float64{
		"phi0": {1, 2, 3},
		"ww":   {0.5, 0.5},
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchema))
}

func TestMemStoreNotFound(t *testing.T) {
	_, err := NewMemStore().Record(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestDirStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	w, err := OpenWriter(dir, WriterOptions{})
	require.NoError(t, err)
	require.NoError(t, w.WriteRecord(ctx, "sim-b", testRecord()))
	require.NoError(t, w.WriteRecord(ctx, "sim-a", testRecord()))
	require.NoError(t, w.Close())

	st, err := Open(dir)
	require.NoError(t, err)
	defer st.Close()

	assert.Equal(t, []string{"sim-a", "sim-b"}, st.Keys())

	fields, err := st.Fields(ctx, "sim-b")
	require.NoError(t, err)
	assert.Equal(t, []string{"phi0", "phi1", "time", "ww"}, fields)

	rec, err := st.Record(ctx, "sim-b")
	require.NoError(t, err)
	assert.Equal(t, testRecord(), rec)
}

func TestDirStoreUncompressed(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	w, err := OpenWriter(dir, WriterOptions{Compression: CompressionNone})
	require.NoError(t, err)
	require.NoError(t, w.WriteRecord(ctx, "sim-a", testRecord()))
	require.NoError(t, w.Close())

	st, err := Open(dir)
	require.NoError(t, err)
	defer st.Close()

	rec, err := st.Record(ctx, "sim-a")
	require.NoError(t, err)
	assert.Equal(t, testRecord(), rec)
}

func TestDirStoreAppend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	w, err := OpenWriter(dir, WriterOptions{})
	require.NoError(t, err)
	require.NoError(t, w.WriteRecord(ctx, "sim-a", testRecord()))
	require.NoError(t, w.Close())

	// Reopening without Overwrite extends the store.
	w, err = OpenWriter(dir, WriterOptions{})
	require.NoError(t, err)
	require.NoError(t, w.WriteRecord(ctx, "sim-b", testRecord()))

	// Appending an existing key is rejected.
	err = w.WriteRecord(ctx, "sim-a", testRecord())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConflict))
	require.NoError(t, w.Close())

	st, err := Open(dir)
	require.NoError(t, err)
	defer st.Close()
	assert.Equal(t, []string{"sim-a", "sim-b"}, st.Keys())
}

func TestDirStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	w, err := OpenWriter(dir, WriterOptions{})
	require.NoError(t, err)
	require.NoError(t, w.WriteRecord(ctx, "sim-a", testRecord()))
	require.NoError(t, w.Close())

	w, err = OpenWriter(dir, WriterOptions{Overwrite: true})
	require.NoError(t, err)
	require.NoError(t, w.WriteRecord(ctx, "sim-c", testRecord()))
	require.NoError(t, w.Close())

	st, err := Open(dir)
	require.NoError(t, err)
	defer st.Close()
	assert.Equal(t, []string{"sim-c"}, st.Keys())
}

func TestOpenMissingStore(t *testing.T) {
	_, err := Open(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
}

func TestOpenWriterBadCompression(t *testing.T) {
	_, err := OpenWriter(t.TempDir(), WriterOptions{Compression: "lz4"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}
