// Package catalog loads the food-composition nutrient catalog and reconciles
// DRI nutrient names onto its entries.
package catalog

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding/charmap"

	"github.com/tphakala/nutridri/internal/errors"
	"github.com/tphakala/nutridri/internal/units"
)

// UntaggedUnitCode marks entries that no DRI nutrient was reconciled onto.
const UntaggedUnitCode = 9999

// Entry is one nutrient of the catalog. Native fields come from the
// food-composition source; NIH fields are filled in by reconciliation.
type Entry struct {
	ID            int
	NativeUnit    units.Ref
	NativeName    string
	DecimalPlaces string
	NIHName       string
	NIHUnit       units.Ref
}

// Tagged reports whether a DRI nutrient name has been attached to the entry.
func (e *Entry) Tagged() bool {
	return e.NIHName != ""
}

// Catalog is an ordered list of entries. Position is the index in file order.
type Catalog struct {
	entries []Entry
}

// New returns a catalog holding a copy of entries.
func New(entries []Entry) *Catalog {
	return &Catalog{entries: slices.Clone(entries)}
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// At returns the entry at position i.
func (c *Catalog) At(i int) Entry { return c.entries[i] }

// Entries returns a copy of all entries in position order.
func (c *Catalog) Entries() []Entry { return slices.Clone(c.entries) }

// Clone returns an independent copy of the catalog.
func (c *Catalog) Clone() *Catalog { return New(c.entries) }

// MaxID returns the largest entry id, or 0 for an empty catalog.
func (c *Catalog) MaxID() int {
	maxID := 0
	for i := range c.entries {
		maxID = max(maxID, c.entries[i].ID)
	}
	return maxID
}

// ByNIHName returns every entry tagged with name, in position order.
func (c *Catalog) ByNIHName(name string) []Entry {
	var out []Entry
	for i := range c.entries {
		if c.entries[i].NIHName == name {
			out = append(out, c.entries[i])
		}
	}
	return out
}

// appendNew adds an entry with the next free id and returns its position.
func (c *Catalog) appendNew(e Entry) int {
	e.ID = c.MaxID() + 1
	c.entries = append(c.entries, e)
	return len(c.entries) - 1
}

// LoadNutrientDefs reads the nutrient definition file at path on fs.
func LoadNutrientDefs(fs afero.Fs, path string) (*Catalog, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.FileError(fmt.Errorf("open nutrient catalog: %w", err), path)
	}
	defer f.Close()

	return ParseNutrientDefs(f, path)
}

// ParseNutrientDefs parses caret separated, tilde quoted records of the form
// num^units^tag^name^num_dec^sr_order. Lines that are not valid UTF-8 are
// decoded as Latin-1. Every entry starts untagged.
func ParseNutrientDefs(r io.Reader, source string) (*Catalog, error) {
	latin1 := charmap.ISO8859_1.NewDecoder()
	scanner := bufio.NewScanner(r)

	c := &Catalog{}
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		if !utf8.ValidString(text) {
			decoded, err := latin1.String(text)
			if err != nil {
				return nil, errors.BuildInputError(fmt.Errorf("decode line: %w", err), source, line)
			}
			text = decoded
		}

		fields, err := splitRecord(text)
		if err != nil {
			return nil, errors.BuildInputError(err, source, line)
		}
		if len(fields) != 6 {
			return nil, errors.BuildInputError(fmt.Errorf("want 6 fields, got %d", len(fields)), source, line)
		}

		id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, errors.BuildInputError(fmt.Errorf("nutrient number %q is not an integer", fields[0]), source, line)
		}

		c.entries = append(c.entries, Entry{
			ID:            id,
			NativeUnit:    units.Ref{Text: fields[1]},
			NativeName:    fields[3],
			DecimalPlaces: fields[4],
			NIHUnit:       units.Code(UntaggedUnitCode),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.FileError(fmt.Errorf("read nutrient catalog: %w", err), source)
	}

	return c, nil
}

// splitRecord splits one caret separated line. A field wrapped in tildes may
// contain carets.
func splitRecord(line string) ([]string, error) {
	var fields []string
	var sb strings.Builder
	quoted := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '~':
			quoted = !quoted
		case ch == '^' && !quoted:
			fields = append(fields, sb.String())
			sb.Reset()
		default:
			sb.WriteByte(ch)
		}
	}
	if quoted {
		return nil, fmt.Errorf("unterminated ~ quote")
	}
	return append(fields, sb.String()), nil
}
