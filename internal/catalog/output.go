package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/tphakala/nutridri/internal/errors"
	"github.com/tphakala/nutridri/internal/units"
)

// Header is the column layout of the built catalog file.
var Header = []string{"id", "unit_cd_ndb", "name_ndb", "num_dec", "name_nih", "unit_cd_nih"}

// Write renders c as CSV with a header row.
func Write(w io.Writer, c *Catalog) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for i := range c.entries {
		e := &c.entries[i]
		record := []string{
			strconv.Itoa(e.ID),
			e.NativeUnit.String(),
			e.NativeName,
			e.DecimalPlaces,
			e.NIHName,
			e.NIHUnit.String(),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read parses a catalog written by Write.
func Read(r io.Reader, source string) (*Catalog, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, errors.BuildInputError(fmt.Errorf("read catalog header: %w", err), source, 1)
	}
	if !slices.Equal(header, Header) {
		return nil, errors.BuildInputError(fmt.Errorf("unexpected catalog header %v", header), source, 1)
	}

	c := &Catalog{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.BuildInputError(fmt.Errorf("read catalog: %w", err), source, 0)
		}
		id, err := strconv.Atoi(record[0])
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, errors.BuildInputError(fmt.Errorf("catalog id %q is not an integer", record[0]), source, line)
		}
		c.entries = append(c.entries, Entry{
			ID:            id,
			NativeUnit:    units.ParseRef(record[1]),
			NativeName:    record[2],
			DecimalPlaces: record[3],
			NIHName:       record[4],
			NIHUnit:       units.ParseRef(record[5]),
		})
	}
	return c, nil
}
