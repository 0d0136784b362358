// Package reference builds the DRI reference table and answers lookups against it.
//
// The build joins the long-form DRI rows with the reconciled nutrient catalog
// and writes two files: the catalog, kept for review, and the reference
// table itself. Nothing is written unless every step succeeds.
package reference

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/tphakala/nutridri/internal/catalog"
	"github.com/tphakala/nutridri/internal/dri"
	"github.com/tphakala/nutridri/internal/errors"
	"github.com/tphakala/nutridri/internal/logger"
	"github.com/tphakala/nutridri/internal/units"
)

// Paths locates the build inputs and outputs.
type Paths struct {
	Units     string   // unit table; empty uses the built-in table
	Nutrients string   // nutrient definition file
	UnitMap   string   // DRI nutrient to unit text map
	DRI       []string // wide DRI tables, concatenated in order
	Catalog   string   // catalog output; empty skips it
	Reference string   // reference table output
}

// Builder runs the reference build against a filesystem.
type Builder struct {
	fs    afero.Fs
	paths Paths
	log   logger.Logger
}

// Result is the in-memory outcome of a build.
type Result struct {
	Units   *units.Table
	Catalog *catalog.Catalog
	Report  *catalog.Report
	DRIRows int
	Rows    []Row
}

// NewBuilder returns a builder. A nil logger uses the package logger.
func NewBuilder(fs afero.Fs, paths Paths, log logger.Logger) *Builder {
	if log == nil {
		log = GetLogger()
	}
	return &Builder{fs: fs, paths: paths, log: log}
}

// Build loads every input, reconciles the catalog and joins it with the DRI
// rows. It does not write anything.
func (b *Builder) Build() (*Result, error) {
	start := time.Now()

	unitTable, err := b.loadUnits()
	if err != nil {
		return nil, err
	}

	var tables []*dri.WideTable
	for _, path := range b.paths.DRI {
		t, err := dri.ReadWide(b.fs, path)
		if err != nil {
			return nil, err
		}
		b.log.Debug("read DRI table",
			logger.String("path", path),
			logger.Int("rows", len(t.Rows)),
			logger.Int("nutrients", len(t.Nutrients)))
		tables = append(tables, t)
	}
	driRows := dri.ReshapeAll(tables...)

	unitMap, err := dri.LoadUnitMap(b.fs, b.paths.UnitMap)
	if err != nil {
		return nil, err
	}

	base, err := catalog.LoadNutrientDefs(b.fs, b.paths.Nutrients)
	if err != nil {
		return nil, err
	}

	reconciler := catalog.NewReconciler(unitTable, unitMap, b.log.Module("catalog"))
	cat, report, err := reconciler.Reconcile(base, dri.NutrientNames(driRows))
	if err != nil {
		return nil, err
	}

	rows, err := Join(driRows, cat)
	if err != nil {
		return nil, err
	}

	b.log.Info("reference table built",
		logger.Int("dri_rows", len(driRows)),
		logger.Int("catalog_entries", cat.Len()),
		logger.Int("reference_rows", len(rows)),
		logger.Int("ambiguous", len(report.Ambiguous)),
		logger.Duration("elapsed", time.Since(start)))

	return &Result{
		Units:   unitTable,
		Catalog: cat,
		Report:  report,
		DRIRows: len(driRows),
		Rows:    rows,
	}, nil
}

// Run builds the table and then writes the output files.
func (b *Builder) Run() (*Result, error) {
	result, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := b.Write(result); err != nil {
		return nil, err
	}
	return result, nil
}

func (b *Builder) loadUnits() (*units.Table, error) {
	if b.paths.Units == "" {
		return units.DefaultTable(), nil
	}
	return units.LoadTable(b.fs, b.paths.Units)
}

// Join pairs each DRI row with every catalog entry tagged with its nutrient
// name. Rows come out in DRI order, then catalog position order.
func Join(rows []dri.Row, cat *catalog.Catalog) ([]Row, error) {
	byName := make(map[string][]catalog.Entry)
	for _, e := range cat.Entries() {
		if e.Tagged() {
			byName[e.NIHName] = append(byName[e.NIHName], e)
		}
	}

	out := make([]Row, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		entries, ok := byName[r.Nutrient]
		if !ok {
			return nil, errors.Newf("DRI nutrient %q has no catalog entry", r.Nutrient).
				Category(errors.CategoryBuildInput).
				Context("nutrient", r.Nutrient).
				Build()
		}
		for _, e := range entries {
			out = append(out, Row{
				NutrientID: e.ID,
				AgeMin:     r.AgeMin,
				AgeMax:     r.AgeMax,
				AgeGroup:   r.AgeGroup,
				Sex:        r.Sex,
				Value:      r.Value,
				Unit:       e.NIHUnit,
			})
		}
	}
	return out, nil
}

// pendingFile is an output rendered in memory and staged in a temp file.
type pendingFile struct {
	path string
	data []byte
	temp string
}

// Write stages both outputs as temp files next to their targets and renames
// them into place once both are complete.
func (b *Builder) Write(result *Result) error {
	var files []*pendingFile

	if b.paths.Catalog != "" {
		var buf bytes.Buffer
		if err := catalog.Write(&buf, result.Catalog); err != nil {
			return fmt.Errorf("render catalog: %w", err)
		}
		files = append(files, &pendingFile{path: b.paths.Catalog, data: buf.Bytes()})
	}

	var buf bytes.Buffer
	if err := WriteRows(&buf, result.Rows); err != nil {
		return fmt.Errorf("render reference table: %w", err)
	}
	files = append(files, &pendingFile{path: b.paths.Reference, data: buf.Bytes()})

	defer func() {
		for _, f := range files {
			if f.temp != "" {
				_ = b.fs.Remove(f.temp)
			}
		}
	}()

	for _, f := range files {
		if err := b.stage(f); err != nil {
			return err
		}
	}

	for _, f := range files {
		if err := b.fs.Rename(f.temp, f.path); err != nil {
			return errors.FileError(fmt.Errorf("replace output file: %w", err), f.path)
		}
		f.temp = ""
		b.log.Info("wrote output file",
			logger.String("path", f.path),
			logger.Int("bytes", len(f.data)))
	}
	return nil
}

func (b *Builder) stage(f *pendingFile) error {
	dir := filepath.Dir(f.path)
	if err := b.fs.MkdirAll(dir, 0o755); err != nil {
		return errors.FileError(fmt.Errorf("create output directory: %w", err), dir)
	}

	tmp, err := afero.TempFile(b.fs, dir, "."+filepath.Base(f.path)+"-*.tmp")
	if err != nil {
		return errors.FileError(fmt.Errorf("create temporary file: %w", err), f.path)
	}
	f.temp = tmp.Name()

	if _, err := tmp.Write(f.data); err != nil {
		_ = tmp.Close()
		return errors.FileError(fmt.Errorf("write temporary file: %w", err), f.temp)
	}
	if err := tmp.Close(); err != nil {
		return errors.FileError(fmt.Errorf("close temporary file: %w", err), f.temp)
	}
	return nil
}
