package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/plumetab/plumetab/pkg/errors"
	"github.com/plumetab/plumetab/pkg/logger"
)

const (
	manifestName    = "manifest.json"
	manifestVersion = 1
)

// Compression selects the Arrow IPC body codec
type Compression string

const (
	// CompressionZstd compresses record batches with zstd
	CompressionZstd Compression = "zstd"
	// CompressionNone writes uncompressed record batches
	CompressionNone Compression = "none"
)

// manifest is the on-disk index of a directory store. Simulation keys live
// only here; data files are assigned sequential names.
type manifest struct {
	Version     int               `json:"version"`
	Simulations []simulationEntry `json:"simulations"`
}

type simulationEntry struct {
	Key    string   `json:"key"`
	File   string   `json:"file"`
	Rows   int      `json:"rows"`
	Fields []string `json:"fields"`
}

func readManifest(dir string) (*manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "cannot read store manifest")
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeStore, "malformed store manifest")
	}
	if m.Version != manifestVersion {
		return nil, errors.Newf(errors.ErrorTypeStore,
			"unsupported store version %d", m.Version)
	}
	return &m, nil
}

func (m *manifest) write(dir string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeStore, "cannot encode store manifest")
	}
	if err := os.WriteFile(filepath.Join(dir, manifestName), data, 0o644); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "cannot write store manifest")
	}
	return nil
}

func (m *manifest) entry(key string) (simulationEntry, bool) {
	for _, e := range m.Simulations {
		if e.Key == key {
			return e, true
		}
	}
	return simulationEntry{}, false
}

// DirStore reads simulation records from a directory of Arrow IPC files.
type DirStore struct {
	dir      string
	manifest *manifest
	alloc    memory.Allocator
}

// Open opens an existing directory store for reading.
func Open(dir string) (*DirStore, error) {
	m, err := readManifest(dir)
	if err != nil {
		return nil, err
	}

	return &DirStore{
		dir:      dir,
		manifest: m,
		alloc:    memory.NewGoAllocator(),
	}, nil
}

// Keys returns all simulation keys in sorted order
func (s *DirStore) Keys() []string {
	keys := make([]string, 0, len(s.manifest.Simulations))
	for _, e := range s.manifest.Simulations {
		keys = append(keys, e.Key)
	}
	sort.Strings(keys)
	return keys
}

// Fields returns the sorted field names of one record
func (s *DirStore) Fields(_ context.Context, key string) ([]string, error) {
	e, ok := s.manifest.entry(key)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "simulation %q not found", key)
	}

	fields := make([]string, len(e.Fields))
	copy(fields, e.Fields)
	return fields, nil
}

// Record materializes one simulation record from its Arrow file.
func (s *DirStore) Record(ctx context.Context, key string) (map[string][]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeStore, "record read aborted")
	}

	e, ok := s.manifest.entry(key)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "simulation %q not found", key)
	}

	f, err := os.Open(filepath.Join(s.dir, e.File))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "cannot open record file")
	}
	defer f.Close()

	fr, err := ipc.NewFileReader(f, ipc.WithAllocator(s.alloc))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeStore, "cannot read record file").
			WithDetail("simulation", key)
	}
	defer fr.Close()

	out := make(map[string][]float64, len(e.Fields))
	for i := 0; i < fr.NumRecords(); i++ {
		rec, err := fr.Record(i)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeStore, "cannot read record batch").
				WithDetail("simulation", key)
		}

		for j, fld := range rec.Schema().Fields() {
			col, ok := rec.Column(j).(*array.Float64)
			if !ok {
				rec.Release()
				return nil, errors.Newf(errors.ErrorTypeSchema,
					"field %q of simulation %q is not float64", fld.Name, key)
			}
			out[fld.Name] = append(out[fld.Name], col.Float64Values()...)
		}
		rec.Release()
	}

	return out, nil
}

// Close releases the store. Record files are opened per read, so there is
// nothing to tear down beyond invalidating the handle.
func (s *DirStore) Close() error {
	s.manifest = &manifest{Version: manifestVersion}
	return nil
}

// WriterOptions configures a directory store writer.
type WriterOptions struct {
	// Overwrite discards an existing store; the default appends to it
	Overwrite bool
	// Compression selects the IPC body codec; default zstd
	Compression Compression
}

// DirWriter appends simulation records to a directory store. Records are
// written immediately; the manifest is committed on Close.
type DirWriter struct {
	dir      string
	manifest *manifest
	compress bool
	alloc    memory.Allocator
	log      *zap.Logger
}

// OpenWriter opens a directory store for writing, creating the directory if
// needed. Without Overwrite an existing store is extended, mirroring append
// mode of the original HDF5 layout.
func OpenWriter(dir string, opts WriterOptions) (*DirWriter, error) {
	switch opts.Compression {
	case "", CompressionZstd, CompressionNone:
	default:
		return nil, errors.Newf(errors.ErrorTypeConfig,
			"unknown compression %q", opts.Compression)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "cannot create store directory")
	}

	m := &manifest{Version: manifestVersion}
	if _, err := os.Stat(filepath.Join(dir, manifestName)); err == nil {
		if opts.Overwrite {
			if err := os.RemoveAll(dir); err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeFile, "cannot clear store directory")
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeFile, "cannot recreate store directory")
			}
		} else {
			existing, err := readManifest(dir)
			if err != nil {
				return nil, err
			}
			m = existing
		}
	}

	return &DirWriter{
		dir:      dir,
		manifest: m,
		compress: opts.Compression != CompressionNone,
		alloc:    memory.NewGoAllocator(),
		log:      logger.With(zap.String("store", dir)),
	}, nil
}

// WriteRecord writes one simulation record as a single Arrow record batch.
func (w *DirWriter) WriteRecord(ctx context.Context, key string, fields map[string][]float64) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeStore, "record write aborted")
	}
	if _, exists := w.manifest.entry(key); exists {
		return errors.Newf(errors.ErrorTypeConflict, "simulation %q already exists", key)
	}
	rows, ok := validateRecord(fields)
	if !ok {
		return errors.Newf(errors.ErrorTypeSchema,
			"simulation %q has empty or unevenly sized columns", key)
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	arrowFields := make([]arrow.Field, len(names))
	for i, name := range names {
		arrowFields[i] = arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64}
	}
	schema := arrow.NewSchema(arrowFields, nil)

	bldr := array.NewRecordBuilder(w.alloc, schema)
	defer bldr.Release()
	for i, name := range names {
		bldr.Field(i).(*array.Float64Builder).AppendValues(fields[name], nil)
	}
	rec := bldr.NewRecord()
	defer rec.Release()

	fileName := recordFileName(len(w.manifest.Simulations))
	f, err := os.Create(filepath.Join(w.dir, fileName))
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "cannot create record file")
	}

	ipcOpts := []ipc.Option{ipc.WithSchema(schema), ipc.WithAllocator(w.alloc)}
	if w.compress {
		ipcOpts = append(ipcOpts, ipc.WithZstd())
	}

	fw, err := ipc.NewFileWriter(f, ipcOpts...)
	if err != nil {
		f.Close()
		return errors.Wrap(err, errors.ErrorTypeStore, "cannot create record writer")
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		f.Close()
		return errors.Wrap(err, errors.ErrorTypeStore, "cannot write record batch").
			WithDetail("simulation", key)
	}
	if err := fw.Close(); err != nil {
		f.Close()
		return errors.Wrap(err, errors.ErrorTypeStore, "cannot finalize record file")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "cannot close record file")
	}

	w.manifest.Simulations = append(w.manifest.Simulations, simulationEntry{
		Key:    key,
		File:   fileName,
		Rows:   rows,
		Fields: names,
	})

	w.log.Debug("simulation record written",
		zap.String("simulation", key),
		zap.Int("rows", rows),
		zap.Int("fields", len(names)))

	return nil
}

// Close commits the manifest.
func (w *DirWriter) Close() error {
	if err := w.manifest.write(w.dir); err != nil {
		return err
	}
	w.log.Info("store committed",
		zap.Int("simulations", len(w.manifest.Simulations)))
	return nil
}

func recordFileName(ordinal int) string {
	return fmt.Sprintf("sim_%05d.arrow", ordinal)
}
