package dri

import (
	"math"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/nutridri/internal/errors"
)

const elementsCSV = `age_min,age_max,age_group,sex,calcium,iron,zinc
19,50,adult,1,1000,8,11
19,50,adult,2,1000,18,8
51,70,older adult,female,1200,,8
`

func TestParseSex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Sex
	}{
		{"1", Male}, {"m", Male}, {"Male", Male}, {" M ", Male},
		{"2", Female}, {"F", Female}, {"female", Female},
	}
	for _, tt := range tests {
		got, err := ParseSex(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseSex("3")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
	assert.Equal(t, "female", Female.String())
}

func TestReshapeIsLosslessInRowCount(t *testing.T) {
	t.Parallel()

	table, err := ParseWide(strings.NewReader(elementsCSV), "dri_elements.csv")
	require.NoError(t, err)
	require.Equal(t, []string{"calcium", "iron", "zinc"}, table.Nutrients)
	require.Len(t, table.Rows, 3)

	rows := Reshape(table)
	assert.Len(t, rows, len(table.Nutrients)*len(table.Rows))

	iron := rows[7]
	assert.Equal(t, "iron", iron.Nutrient)
	assert.Equal(t, Female, iron.Sex)
	assert.Equal(t, "older adult", iron.AgeGroup)
	assert.True(t, math.IsNaN(iron.Value), "blank cell keeps its row as NaN")

	assert.Equal(t, Row{AgeMin: 19, AgeMax: 50, AgeGroup: "adult", Sex: Male, Nutrient: "iron", Value: 8}, rows[1])
}

func TestReshapeAllConcatenates(t *testing.T) {
	t.Parallel()

	elements, err := ParseWide(strings.NewReader(elementsCSV), "dri_elements.csv")
	require.NoError(t, err)
	vitamins, err := ParseWide(strings.NewReader("sex,age_group,age_min,age_max,vitamin c\nm,adult,19,50,90\n"), "dri_vitamins.csv")
	require.NoError(t, err)

	rows := ReshapeAll(elements, vitamins)
	assert.Len(t, rows, 10)
	assert.Equal(t, "vitamin c", rows[9].Nutrient)
	assert.Equal(t, []string{"calcium", "iron", "zinc", "vitamin c"}, NutrientNames(rows))
}

func TestParseWideMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"missing sex column", "age_min,age_max,age_group,iron\n19,50,adult,8\n"},
		{"missing age_group column", "age_min,age_max,sex,iron\n19,50,1,8\n"},
		{"bad age bound", "age_min,age_max,age_group,sex,iron\nold,50,adult,1,8\n"},
		{"inverted bracket", "age_min,age_max,age_group,sex,iron\n50,19,adult,1,8\n"},
		{"bad sex", "age_min,age_max,age_group,sex,iron\n19,50,adult,x,8\n"},
		{"unparseable value", "age_min,age_max,age_group,sex,iron\n19,50,adult,1,lots\n"},
		{"short row", "age_min,age_max,age_group,sex,iron\n19,50,adult,1\n"},
		{"duplicate column", "age_min,age_max,age_group,sex,iron,iron\n19,50,adult,1,8,8\n"},
		{"empty file", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseWide(strings.NewReader(tt.input), "dri.csv")
			require.Error(t, err)
			assert.True(t, errors.IsBuildInput(err), "got %v", err)
		})
	}
}

func TestReadWideFromFs(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/dri_elements.csv", []byte(elementsCSV), 0o644))

	table, err := ReadWide(fs, "/src/dri_elements.csv")
	require.NoError(t, err)
	assert.Equal(t, "/src/dri_elements.csv", table.Source)

	_, err = ReadWide(fs, "/src/none.csv")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileIO))
}

func TestRowCovers(t *testing.T) {
	t.Parallel()

	r := Row{AgeMin: 19, AgeMax: 50}
	assert.True(t, r.Covers(19))
	assert.True(t, r.Covers(50))
	assert.False(t, r.Covers(50.5))
	assert.False(t, r.Covers(18))
}

func TestLoadUnitMap(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/dri_unit_map.csv",
		[]byte("nutrient,unit\ncalcium,mg\nvitamin d,mcg\nprotein,g\n"), 0o644))

	m, err := LoadUnitMap(fs, "/src/dri_unit_map.csv")
	require.NoError(t, err)
	assert.Equal(t, UnitMap{"calcium": "mg", "vitamin d": "mcg", "protein": "g"}, m)

	require.NoError(t, afero.WriteFile(fs, "/src/dup.csv", []byte("nutrient,unit\niron,mg\niron,mcg\n"), 0o644))
	_, err = LoadUnitMap(fs, "/src/dup.csv")
	require.Error(t, err)
	assert.True(t, errors.IsBuildInput(err))

	require.NoError(t, afero.WriteFile(fs, "/src/short.csv", []byte("nutrient,unit\niron\n"), 0o644))
	_, err = LoadUnitMap(fs, "/src/short.csv")
	require.Error(t, err)
	assert.True(t, errors.IsBuildInput(err))
}
