// Package dri reads the wide DRI source tables and reshapes them into one
// row per age bracket, sex and nutrient.
package dri

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/tphakala/nutridri/internal/errors"
)

// Categorical columns present in every DRI table. All other columns are nutrients.
const (
	ColAgeMin   = "age_min"
	ColAgeMax   = "age_max"
	ColAgeGroup = "age_group"
	ColSex      = "sex"
)

var categoricalColumns = []string{ColAgeMin, ColAgeMax, ColAgeGroup, ColSex}

// RawRow is one wide DRI row: a bracket and its value for each nutrient column.
type RawRow struct {
	AgeMin   float64
	AgeMax   float64
	AgeGroup string
	Sex      Sex
	Values   map[string]float64 // absent cells are NaN
}

// WideTable is a parsed DRI source table. Nutrients keeps header order.
type WideTable struct {
	Source    string
	Nutrients []string
	Rows      []RawRow
}

// Row is the long form: one nutrient value for one bracket.
type Row struct {
	AgeMin   float64
	AgeMax   float64
	AgeGroup string
	Sex      Sex
	Nutrient string
	Value    float64
}

// Covers reports whether age falls inside the bracket, bounds included.
func (r *Row) Covers(age float64) bool {
	return r.AgeMin <= age && age <= r.AgeMax
}

// ReadWide loads one wide DRI table from path on fs.
func ReadWide(fs afero.Fs, path string) (*WideTable, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.FileError(fmt.Errorf("open DRI table: %w", err), path)
	}
	defer f.Close()

	return ParseWide(f, path)
}

// ParseWide parses a wide DRI table. source names the input in errors.
func ParseWide(r io.Reader, source string) (*WideTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.BuildInputError(fmt.Errorf("read DRI header: %w", err), source, 1)
	}

	cols := make(map[string]int, len(header))
	table := &WideTable{Source: source}
	nutrientCols := make([]int, 0, len(header))
	for i, raw := range header {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, errors.BuildInputError(fmt.Errorf("DRI column %d has no name", i+1), source, 1)
		}
		if _, dup := cols[name]; dup {
			return nil, errors.BuildInputError(fmt.Errorf("duplicate DRI column %q", name), source, 1)
		}
		cols[name] = i
		if !isCategorical(name) {
			table.Nutrients = append(table.Nutrients, name)
			nutrientCols = append(nutrientCols, i)
		}
	}
	for _, name := range categoricalColumns {
		if _, ok := cols[name]; !ok {
			return nil, errors.BuildInputError(fmt.Errorf("DRI table is missing column %q", name), source, 1)
		}
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.BuildInputError(fmt.Errorf("read DRI row: %w", err), source, 0)
		}
		line, _ := reader.FieldPos(0)

		row, err := parseRawRow(record, cols, table.Nutrients, nutrientCols)
		if err != nil {
			return nil, errors.BuildInputError(err, source, line)
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func parseRawRow(record []string, cols map[string]int, nutrients []string, nutrientCols []int) (RawRow, error) {
	var row RawRow
	var err error

	if row.AgeMin, err = parseBound(record[cols[ColAgeMin]]); err != nil {
		return row, fmt.Errorf("%s: %w", ColAgeMin, err)
	}
	if row.AgeMax, err = parseBound(record[cols[ColAgeMax]]); err != nil {
		return row, fmt.Errorf("%s: %w", ColAgeMax, err)
	}
	if row.AgeMin > row.AgeMax {
		return row, fmt.Errorf("age_min %g exceeds age_max %g", row.AgeMin, row.AgeMax)
	}
	row.AgeGroup = strings.TrimSpace(record[cols[ColAgeGroup]])
	if row.Sex, err = ParseSex(record[cols[ColSex]]); err != nil {
		return row, err
	}

	row.Values = make(map[string]float64, len(nutrients))
	for i, col := range nutrientCols {
		v, err := parseValue(record[col])
		if err != nil {
			return row, fmt.Errorf("%s: %w", nutrients[i], err)
		}
		row.Values[nutrients[i]] = v
	}
	return row, nil
}

func parseBound(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) {
		return 0, fmt.Errorf("invalid age bound %q", s)
	}
	return v, nil
}

// parseValue reads a nutrient cell. Blank and not-determined cells are NaN.
func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToUpper(s) {
	case "", "NA", "ND", "NAN":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q", s)
	}
	return v, nil
}

func isCategorical(name string) bool {
	return slices.Contains(categoricalColumns, name)
}

// Reshape emits one Row per raw row and nutrient column, in source order.
// The result always has len(t.Rows) * len(t.Nutrients) entries.
func Reshape(t *WideTable) []Row {
	out := make([]Row, 0, len(t.Rows)*len(t.Nutrients))
	for i := range t.Rows {
		raw := &t.Rows[i]
		for _, nutrient := range t.Nutrients {
			value, ok := raw.Values[nutrient]
			if !ok {
				value = math.NaN()
			}
			out = append(out, Row{
				AgeMin:   raw.AgeMin,
				AgeMax:   raw.AgeMax,
				AgeGroup: raw.AgeGroup,
				Sex:      raw.Sex,
				Nutrient: nutrient,
				Value:    value,
			})
		}
	}
	return out
}

// ReshapeAll concatenates the reshaped rows of tables in order.
func ReshapeAll(tables ...*WideTable) []Row {
	var out []Row
	for _, t := range tables {
		out = append(out, Reshape(t)...)
	}
	return out
}

// NutrientNames returns the distinct nutrient names of rows in first-seen order.
func NutrientNames(rows []Row) []string {
	seen := make(map[string]bool)
	var names []string
	for i := range rows {
		if n := rows[i].Nutrient; !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	return names
}
