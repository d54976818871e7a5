package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumetab/plumetab/pkg/errors"
	"github.com/plumetab/plumetab/pkg/store"
)

const colvarSample = `#! FIELDS time phi0 phi1 ww
#! SET min_phi0 -pi
 0.000000 -1.234 0.567 0.25
 1.000000 -1.200 0.600 0.25
#! FIELDS time phi0 phi1 ww
 2.000000 -1.150 0.690 0.50
`

func writeSample(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFields(t *testing.T) {
	fields, err := ReadFields(strings.NewReader(colvarSample))
	require.NoError(t, err)
	assert.Equal(t, []string{"time", "phi0", "phi1", "ww"}, fields)
}

func TestReadFieldsMalformed(t *testing.T) {
	for _, input := range []string{"", "0.0 1.0\n", "#! NOTFIELDS a b\n"} {
		_, err := ReadFields(strings.NewReader(input))
		assert.Error(t, err, "input %q", input)
	}
}

func TestFile(t *testing.T) {
	ctx := context.Background()
	path := writeSample(t, "COLVAR", colvarSample)
	st := store.NewMemStore()

	require.NoError(t, File(ctx, path, "sim-a", st, Options{}))

	rec, err := st.Record(ctx, "sim-a")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2}, rec["time"])
	assert.Equal(t, []float64{-1.234, -1.2, -1.15}, rec["phi0"])
	assert.Equal(t, []float64{0.25, 0.25, 0.5}, rec["ww"])
}

func TestFileGzip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "COLVAR.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(colvarSample))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	st := store.NewMemStore()
	require.NoError(t, File(ctx, path, "sim-gz", st, Options{}))

	rec, err := st.Record(ctx, "sim-gz")
	require.NoError(t, err)
	assert.Len(t, rec["phi1"], 3)
}

func TestFileFieldMap(t *testing.T) {
	ctx := context.Background()
	path := writeSample(t, "COLVAR", "#! FIELDS time @1.phi ww\n0 1 0.5\n1 2 0.5\n")
	st := store.NewMemStore()

	opts := Options{FieldMap: map[string]string{"@1.phi": "phi1"}}
	require.NoError(t, File(ctx, path, "sim-a", st, opts))

	fields, err := st.Fields(ctx, "sim-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"phi1", "time", "ww"}, fields)
}

func TestFileFieldMapCollision(t *testing.T) {
	ctx := context.Background()
	path := writeSample(t, "COLVAR", "#! FIELDS a b\n0 1\n")

	err := File(ctx, path, "sim-a", store.NewMemStore(),
		Options{FieldMap: map[string]string{"a": "b"}})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConflict))
}

func TestFileMalformedData(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"ragged row", "#! FIELDS a b\n0 1\n2\n"},
		{"bad float", "#! FIELDS a b\n0 oops\n"},
		{"data before header", "0 1\n#! FIELDS a b\n"},
		{"no header", "# just a comment\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSample(t, "COLVAR", tt.content)
			err := File(context.Background(), path, "sim-a", store.NewMemStore(), Options{})
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeData))
		})
	}
}

func TestFilesKeyCountMismatch(t *testing.T) {
	err := Files(context.Background(), []string{"a", "b"}, []string{"only"},
		store.NewMemStore(), Options{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestFilesMultiple(t *testing.T) {
	ctx := context.Background()
	pathA := writeSample(t, "COLVAR_A", colvarSample)
	pathB := writeSample(t, "COLVAR_B", colvarSample)
	st := store.NewMemStore()

	require.NoError(t, Files(ctx, []string{pathA, pathB}, []string{"sim-a", "sim-b"}, st, Options{}))
	assert.Equal(t, []string{"sim-a", "sim-b"}, st.Keys())
}
