package reference

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/tphakala/nutridri/internal/dri"
	"github.com/tphakala/nutridri/internal/errors"
	"github.com/tphakala/nutridri/internal/units"
)

// Header is the column layout of the reference file.
var Header = []string{"nutrient_ndb_num", "age_min", "age_max", "age_group", "sex", "value", "unit_cd_nih"}

// Row is one DRI value for a catalog nutrient, age bracket and sex.
type Row struct {
	NutrientID int
	AgeMin     float64
	AgeMax     float64
	AgeGroup   string
	Sex        dri.Sex
	Value      float64 // NaN when the source had no value
	Unit       units.Ref
}

// WriteRows renders rows as CSV with a header row. NaN values are written empty.
func WriteRows(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for i := range rows {
		r := &rows[i]
		record := []string{
			strconv.Itoa(r.NutrientID),
			formatFloat(r.AgeMin),
			formatFloat(r.AgeMax),
			r.AgeGroup,
			strconv.Itoa(int(r.Sex)),
			formatFloat(r.Value),
			r.Unit.String(),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadRows parses a reference file written by WriteRows.
func ReadRows(r io.Reader, source string) ([]Row, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, errors.BuildInputError(fmt.Errorf("read reference header: %w", err), source, 1)
	}
	if !slices.Equal(header, Header) {
		return nil, errors.BuildInputError(fmt.Errorf("unexpected reference header %v", header), source, 1)
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.BuildInputError(fmt.Errorf("read reference row: %w", err), source, 0)
		}
		line, _ := cr.FieldPos(0)

		row, err := parseRow(record)
		if err != nil {
			return nil, errors.BuildInputError(err, source, line)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(record []string) (Row, error) {
	var row Row
	var err error

	if row.NutrientID, err = strconv.Atoi(record[0]); err != nil {
		return row, fmt.Errorf("nutrient id %q is not an integer", record[0])
	}
	if row.AgeMin, err = strconv.ParseFloat(record[1], 64); err != nil {
		return row, fmt.Errorf("invalid age_min %q", record[1])
	}
	if row.AgeMax, err = strconv.ParseFloat(record[2], 64); err != nil {
		return row, fmt.Errorf("invalid age_max %q", record[2])
	}
	row.AgeGroup = record[3]
	if row.Sex, err = dri.ParseSex(record[4]); err != nil {
		return row, err
	}
	if record[5] == "" {
		row.Value = math.NaN()
	} else if row.Value, err = strconv.ParseFloat(record[5], 64); err != nil {
		return row, fmt.Errorf("invalid value %q", record[5])
	}
	row.Unit = units.ParseRef(record[6])
	return row, nil
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
