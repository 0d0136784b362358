// Package units maps unit text from the nutrient sources to canonical unit codes.
//
// The food-composition catalog and the DRI tables were authored independently
// and spell units differently. Normalization here is a plain string lookup:
// text that is not in the table passes through unchanged and no conversion
// between units is ever attempted.
package units

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/tphakala/nutridri/internal/errors"
)

//go:embed unit_lkup.csv
var defaultTableCSV string

// microGram is the micro sign followed by "g" as it appears in the catalog source
const microGram = "\xc2\xb5g"

// Entry is one row of the unit lookup table.
type Entry struct {
	Code             int
	Description      string // text as written in the sources, matched exactly
	ShortDescription string // canonical lowercase label used for comparisons
}

// Table is an immutable unit lookup table. It is safe for concurrent use.
type Table struct {
	entries []Entry
	byCode  map[int]int
	byDesc  map[string]int
}

// NewTable builds a table from entries. Codes and descriptions must be unique.
func NewTable(entries []Entry) (*Table, error) {
	t := &Table{
		entries: slices.Clone(entries),
		byCode:  make(map[int]int, len(entries)),
		byDesc:  make(map[string]int, len(entries)),
	}
	for i, e := range t.entries {
		if _, dup := t.byCode[e.Code]; dup {
			return nil, errors.Newf("duplicate unit code %d", e.Code).
				Category(errors.CategoryBuildInput).
				Context("unit_code", e.Code).
				Build()
		}
		if _, dup := t.byDesc[e.Description]; dup {
			return nil, errors.Newf("duplicate unit description %q", e.Description).
				Category(errors.CategoryBuildInput).
				Context("unit_desc", e.Description).
				Build()
		}
		t.byCode[e.Code] = i
		t.byDesc[e.Description] = i
	}
	return t, nil
}

// ParseTable reads a code,desc,desc_short CSV with a header row.
func ParseTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.New(fmt.Errorf("read unit table header: %w", err)).
			Category(errors.CategoryBuildInput).
			Build()
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var idx [3]int
	for i, name := range []string{"code", "desc", "desc_short"} {
		col, ok := cols[name]
		if !ok {
			return nil, errors.Newf("unit table is missing column %q", name).
				Category(errors.CategoryBuildInput).
				Build()
		}
		idx[i] = col
	}

	var entries []Entry
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.New(fmt.Errorf("read unit table: %w", err)).
				Category(errors.CategoryBuildInput).
				Context("line", line).
				Build()
		}

		code, err := strconv.Atoi(strings.TrimSpace(record[idx[0]]))
		if err != nil {
			return nil, errors.New(fmt.Errorf("unit code %q is not an integer", record[idx[0]])).
				Category(errors.CategoryBuildInput).
				Context("line", line).
				Build()
		}
		entries = append(entries, Entry{
			Code:             code,
			Description:      strings.TrimSpace(record[idx[1]]),
			ShortDescription: strings.TrimSpace(record[idx[2]]),
		})
	}

	return NewTable(entries)
}

// LoadTable reads a unit table from path on fs.
func LoadTable(fs afero.Fs, path string) (*Table, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.FileError(fmt.Errorf("open unit table: %w", err), path)
	}
	defer f.Close()

	t, err := ParseTable(f)
	if err != nil {
		return nil, errors.New(err).FileContext(path, 0).Build()
	}
	return t, nil
}

var defaultTable = sync.OnceValues(func() (*Table, error) {
	return ParseTable(strings.NewReader(defaultTableCSV))
})

// DefaultTable returns the built-in unit table.
func DefaultTable() *Table {
	t, err := defaultTable()
	if err != nil {
		panic(fmt.Sprintf("units: embedded unit table is invalid: %v", err))
	}
	return t
}

// Resolve looks up text by exact, case-sensitive description. Text that is
// not in the table comes back unresolved with the original text kept.
func (t *Table) Resolve(text string) Ref {
	if i, ok := t.byDesc[text]; ok {
		return Code(t.entries[i].Code)
	}
	return Ref{Text: text}
}

// ResolveNative resolves unit text from the food-composition catalog.
func (t *Table) ResolveNative(text string) Ref {
	return t.Resolve(NormalizeNativeUnit(text))
}

// Describe returns the short description for code.
func (t *Table) Describe(code int) (string, error) {
	i, ok := t.byCode[code]
	if !ok {
		return "", errors.Newf("unit code %d not found", code).
			Category(errors.CategoryNotFound).
			Context("unit_code", code).
			Build()
	}
	return t.entries[i].ShortDescription, nil
}

// Entries returns a copy of the table rows in file order.
func (t *Table) Entries() []Entry {
	return slices.Clone(t.entries)
}

// NormalizeNativeUnit fixes the micro sign encoding used for micrograms in the catalog source.
func NormalizeNativeUnit(text string) string {
	if text == microGram {
		return "mcg"
	}
	return text
}
