// Package ingest converts PLUMED enhanced-sampling output files into
// simulation records of a columnar store.
//
// PLUMED output is whitespace-separated float64 text with a "#! FIELDS"
// header naming the columns and occasional repeated comment lines. One input
// file becomes one simulation record, keyed by a caller-supplied identifier.
// Field renaming happens here, before the store is written, so the reduction
// pipeline can trust field names as final.
package ingest

import (
	"bufio"
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/plumetab/plumetab/pkg/errors"
	"github.com/plumetab/plumetab/pkg/logger"
	"github.com/plumetab/plumetab/pkg/metrics"
	"github.com/plumetab/plumetab/pkg/store"
)

// maxLineBytes bounds a single input line; PLUMED easily emits thousands of
// columns per row.
const maxLineBytes = 8 * 1024 * 1024

// Options configures ingestion.
type Options struct {
	// FieldMap renames fields before they are written to the store,
	// replacing PLUMED's sometimes awkward generated names.
	FieldMap map[string]string
}

// Files ingests one simulation record per input file, using the key at the
// matching position. Any failure aborts the whole call.
func Files(ctx context.Context, files, keys []string, w store.Writer, opts Options) error {
	if len(files) != len(keys) {
		return errors.Newf(errors.ErrorTypeValidation,
			"must supply the same number of keys as files (%d != %d)", len(keys), len(files))
	}

	for i, path := range files {
		if err := File(ctx, path, keys[i], w, opts); err != nil {
			return err
		}
	}
	return nil
}

// File ingests a single PLUMED output file as one simulation record.
// Files ending in ".gz" are decompressed transparently.
func File(ctx context.Context, path, key string, w store.Writer, opts Options) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "ingest aborted")
	}

	r, err := openFile(path)
	if err != nil {
		return err
	}
	defer r.Close()

	fields, columns, err := readColumns(r)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "file "+path)
	}

	record := make(map[string][]float64, len(fields))
	for i, name := range fields {
		if renamed, ok := opts.FieldMap[name]; ok {
			name = renamed
		}
		if _, dup := record[name]; dup {
			return errors.Newf(errors.ErrorTypeConflict,
				"file %s: duplicate field %q after renaming", path, name)
		}
		record[name] = columns[i]
	}

	if err := w.WriteRecord(ctx, key, record); err != nil {
		return err
	}

	rows := 0
	if len(columns) > 0 {
		rows = len(columns[0])
	}
	metrics.RowsIngested.WithLabelValues(key).Add(float64(rows))
	metrics.SimulationsWritten.Inc()

	logger.Info("simulation ingested",
		zap.String("file", path),
		zap.String("simulation", key),
		zap.Int("rows", rows),
		zap.Int("fields", len(fields)))

	return nil
}

// readColumns streams a PLUMED file into per-field columns.
func readColumns(r io.Reader) ([]string, [][]float64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var fields []string
	var columns [][]float64

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			// The first header names the columns; later repeats (PLUMED
			// restarts) and other comments are skipped.
			if fields == nil && strings.HasPrefix(line, fieldsPrefix) {
				parsed, err := parseFieldsHeader(line)
				if err != nil {
					return nil, nil, err
				}
				fields = parsed
				columns = make([][]float64, len(fields))
			}
			continue
		}

		if fields == nil {
			return nil, nil, errors.New(errors.ErrorTypeData,
				"data before FIELDS header")
		}

		tokens := strings.Fields(line)
		if len(tokens) != len(fields) {
			return nil, nil, errors.Newf(errors.ErrorTypeData,
				"row has %d values, expected %d", len(tokens), len(fields))
		}

		for i, tok := range tokens {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, nil, errors.Wrap(err, errors.ErrorTypeData,
					"malformed value in field "+fields[i])
			}
			columns[i] = append(columns[i], v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrorTypeFile, "read failed")
	}
	if fields == nil {
		return nil, nil, errors.New(errors.ErrorTypeData, "missing FIELDS header")
	}

	return fields, columns, nil
}

// gzipReadCloser closes both the gzip stream and the underlying file.
type gzipReadCloser struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipReadCloser) Close() error {
	gzErr := g.Reader.Close()
	if err := g.file.Close(); err != nil {
		return err
	}
	return gzErr
}

func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "cannot open "+path)
	}

	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "cannot decompress "+path)
	}
	return &gzipReadCloser{Reader: gz, file: f}, nil
}
