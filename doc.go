// Package plumetab turns free-energy simulation output into deterministic,
// analysis-ready tables.
//
// Enhanced-sampling runs (PLUMED COLVAR files and the like) produce one
// whitespace table per simulation: a time column, a statistical weight
// column, and per-residue observable families such as phi0, phi1, psi0.
// Plumetab ingests those tables into a columnar Arrow store, reduces each
// simulation either by stride down-sampling with weight renormalization or
// by collapsing every field to a scalar, and reshapes the combined result
// so that residue-indexed column families become an integer index level.
// Row and column order of the final table are fully sorted, so identical
// inputs always yield identical tables.
//
// # Quick Start
//
// Ingest a set of COLVAR files and reduce them to one frame:
//
//	import (
//	    "context"
//	    "github.com/plumetab/plumetab/pkg/ingest"
//	    "github.com/plumetab/plumetab/pkg/pipeline"
//	    "github.com/plumetab/plumetab/pkg/store"
//	)
//
//	ctx := context.Background()
//
//	w, err := store.OpenWriter("colvar.store", store.WriterOptions{Overwrite: true})
//	if err != nil { ... }
//	err = ingest.Files(ctx, []string{"amber/COLVAR", "charmm/COLVAR"},
//	    []string{"amber", "charmm"}, w, ingest.Options{})
//	if err != nil { ... }
//	if err := w.Close(); err != nil { ... }
//
//	opts := pipeline.DefaultOptions()
//	opts.Aggregator = pipeline.Mean
//	frame, err := pipeline.FrameFromDir(ctx, "colvar.store", opts)
//
// # Packages
//
//   - pkg/ingest: COLVAR header and data parsing, plain or gzipped
//   - pkg/store: Arrow IPC columnar store with a JSON manifest
//   - pkg/pipeline: stride/aggregate reduction, concatenation, reshaping
//   - pkg/frame: the multi-indexed result table
//   - pkg/fieldname: the base+residue field naming contract
//   - pkg/config: unified YAML configuration
//   - pkg/errors, pkg/logger, pkg/metrics: error taxonomy, zap logging,
//     Prometheus instrumentation
package plumetab
