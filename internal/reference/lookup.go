package reference

import (
	"fmt"
	"math"
	"slices"

	"github.com/spf13/afero"
	"golang.org/x/text/cases"

	"github.com/tphakala/nutridri/internal/dri"
	"github.com/tphakala/nutridri/internal/errors"
	"github.com/tphakala/nutridri/internal/units"
)

// Measurement is a measured nutrient amount, on whatever basis the source
// reports it (typically per 100 g).
type Measurement struct {
	NutrientID int
	Value      float64
	Unit       string
}

// Subject is the person a measurement is evaluated for.
type Subject struct {
	Sex dri.Sex
	Age float64
}

// Status is the outcome of a lookup.
type Status int

const (
	StatusPercent      Status = iota // a DRI was found and compared
	StatusNoMatch                    // no DRI for this nutrient and subject
	StatusUnitMismatch               // a DRI exists in a different unit
)

func (s Status) String() string {
	switch s {
	case StatusPercent:
		return "percent"
	case StatusNoMatch:
		return "no-match"
	case StatusUnitMismatch:
		return "unit-mismatch"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText renders the status name in YAML and JSON output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result of FindDRI. DRI fields are set for StatusPercent and StatusUnitMismatch.
type Result struct {
	Status   Status  `yaml:"status"`
	Value    float64 `yaml:"value"`
	Unit     string  `yaml:"unit"`
	DRIValue float64 `yaml:"dri_value,omitempty"`
	DRIUnit  string  `yaml:"dri_unit,omitempty"`
	Percent  int     `yaml:"percent,omitempty"`
}

// Table is a loaded reference table. It is never modified after
// construction, so lookups need no locking.
type Table struct {
	rows  []Row
	byID  map[int][]int // nutrient id -> row indices in table order
	units *units.Table
}

// NewTable indexes rows for lookup. unitTable describes the row unit codes.
func NewTable(rows []Row, unitTable *units.Table) *Table {
	t := &Table{
		rows:  slices.Clone(rows),
		byID:  make(map[int][]int),
		units: unitTable,
	}
	for i := range t.rows {
		id := t.rows[i].NutrientID
		t.byID[id] = append(t.byID[id], i)
	}
	return t
}

// LoadTable reads the reference file at path on fs.
func LoadTable(fs afero.Fs, path string, unitTable *units.Table) (*Table, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.FileError(fmt.Errorf("open reference table: %w", err), path)
	}
	defer f.Close()

	rows, err := ReadRows(f, path)
	if err != nil {
		return nil, err
	}
	return NewTable(rows, unitTable), nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Rows returns a copy of the rows in table order.
func (t *Table) Rows() []Row { return slices.Clone(t.rows) }

// Units returns the unit table used to describe row units.
func (t *Table) Units() *units.Table { return t.units }

// FindDRI compares m against the first row matching the nutrient, the
// subject's sex and an age bracket containing the subject's age. A missing
// DRI or a unit that differs from the DRI unit is a status, not an error;
// only a row unit code absent from the unit table is an error.
func (t *Table) FindDRI(m Measurement, s Subject) (Result, error) {
	result := Result{Status: StatusNoMatch, Value: m.Value, Unit: m.Unit}

	row, ok := t.match(m.NutrientID, s)
	if !ok {
		return result, nil
	}
	if math.IsNaN(row.Value) || row.Value <= 0 {
		return result, nil
	}

	driUnit := row.Unit.Text
	if row.Unit.Resolved {
		desc, err := t.units.Describe(row.Unit.Code)
		if err != nil {
			return result, err
		}
		driUnit = desc
	}

	result.DRIValue = row.Value
	result.DRIUnit = driUnit

	fold := cases.Fold()
	if fold.String(driUnit) != fold.String(m.Unit) {
		result.Status = StatusUnitMismatch
		return result, nil
	}

	result.Status = StatusPercent
	result.Percent = int(math.RoundToEven(m.Value / row.Value * 100))
	return result, nil
}

func (t *Table) match(id int, s Subject) (*Row, bool) {
	for _, i := range t.byID[id] {
		row := &t.rows[i]
		if row.Sex == s.Sex && row.AgeMin <= s.Age && s.Age <= row.AgeMax {
			return row, true
		}
	}
	return nil, false
}
