package dri

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"

	"github.com/tphakala/nutridri/internal/errors"
)

// UnitMap maps a DRI nutrient name to the unit text its values are given in.
type UnitMap map[string]string

// LoadUnitMap reads the nutrient,unit CSV at path. The first row is a header.
func LoadUnitMap(fs afero.Fs, path string) (UnitMap, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.FileError(fmt.Errorf("open DRI unit map: %w", err), path)
	}
	defer f.Close()

	return ParseUnitMap(f, path)
}

// ParseUnitMap parses a nutrient,unit CSV. A nutrient listed twice is malformed.
func ParseUnitMap(r io.Reader, source string) (UnitMap, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		return nil, errors.BuildInputError(fmt.Errorf("read DRI unit map header: %w", err), source, 1)
	}

	m := make(UnitMap)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.BuildInputError(fmt.Errorf("read DRI unit map: %w", err), source, 0)
		}
		line, _ := reader.FieldPos(0)

		if len(record) < 2 {
			return nil, errors.BuildInputError(fmt.Errorf("want nutrient,unit, got %d fields", len(record)), source, line)
		}
		name := strings.TrimSpace(record[0])
		if _, dup := m[name]; dup {
			return nil, errors.BuildInputError(fmt.Errorf("nutrient %q listed twice", name), source, line)
		}
		m[name] = strings.TrimSpace(record[1])
	}
	return m, nil
}
