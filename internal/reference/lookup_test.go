package reference

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/nutridri/internal/dri"
	"github.com/tphakala/nutridri/internal/errors"
	"github.com/tphakala/nutridri/internal/units"
)

func scenarioTable(t *testing.T, extra ...Row) *Table {
	t.Helper()

	unitTable, err := units.NewTable([]units.Entry{
		{Code: 1, Description: "mg", ShortDescription: "mg"},
		{Code: 2, Description: "mcg", ShortDescription: "mcg"},
	})
	require.NoError(t, err)

	rows := append([]Row{
		{NutrientID: 301, AgeMin: 19, AgeMax: 50, AgeGroup: "adult", Sex: dri.Male, Value: 8, Unit: units.Code(1)},
	}, extra...)
	return NewTable(rows, unitTable)
}

func TestFindDRIScenarios(t *testing.T) {
	t.Parallel()

	table := scenarioTable(t)
	male30 := Subject{Sex: dri.Male, Age: 30}

	tests := []struct {
		name string
		m    Measurement
		s    Subject
		want Result
	}{
		{
			name: "percent of daily value",
			m:    Measurement{NutrientID: 301, Value: 1.04, Unit: "mg"},
			s:    male30,
			want: Result{Status: StatusPercent, Value: 1.04, Unit: "mg", DRIValue: 8, DRIUnit: "mg", Percent: 13},
		},
		{
			name: "unit compared without case",
			m:    Measurement{NutrientID: 301, Value: 4, Unit: "MG"},
			s:    male30,
			want: Result{Status: StatusPercent, Value: 4, Unit: "MG", DRIValue: 8, DRIUnit: "mg", Percent: 50},
		},
		{
			name: "age outside every bracket",
			m:    Measurement{NutrientID: 301, Value: 1.04, Unit: "mg"},
			s:    Subject{Sex: dri.Male, Age: 70},
			want: Result{Status: StatusNoMatch, Value: 1.04, Unit: "mg"},
		},
		{
			name: "other sex",
			m:    Measurement{NutrientID: 301, Value: 1.04, Unit: "mg"},
			s:    Subject{Sex: dri.Female, Age: 30},
			want: Result{Status: StatusNoMatch, Value: 1.04, Unit: "mg"},
		},
		{
			name: "unit mismatch",
			m:    Measurement{NutrientID: 301, Value: 1.04, Unit: "mcg"},
			s:    male30,
			want: Result{Status: StatusUnitMismatch, Value: 1.04, Unit: "mcg", DRIValue: 8, DRIUnit: "mg"},
		},
		{
			name: "nutrient absent from table",
			m:    Measurement{NutrientID: 999, Value: 1, Unit: "mg"},
			s:    male30,
			want: Result{Status: StatusNoMatch, Value: 1, Unit: "mg"},
		},
		{
			name: "bracket bounds are inclusive",
			m:    Measurement{NutrientID: 301, Value: 8, Unit: "mg"},
			s:    Subject{Sex: dri.Male, Age: 50},
			want: Result{Status: StatusPercent, Value: 8, Unit: "mg", DRIValue: 8, DRIUnit: "mg", Percent: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := table.FindDRI(tt.m, tt.s)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindDRIIsPure(t *testing.T) {
	t.Parallel()

	table := scenarioTable(t)
	m := Measurement{NutrientID: 301, Value: 1.04, Unit: "mg"}
	s := Subject{Sex: dri.Male, Age: 30}

	first, err := table.FindDRI(m, s)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			got, err := table.FindDRI(m, s)
			assert.NoError(t, err)
			assert.Equal(t, first, got)
		})
	}
	wg.Wait()
	assert.Equal(t, 1, table.Len())
}

func TestFindDRITakesFirstRowInTableOrder(t *testing.T) {
	t.Parallel()

	table := scenarioTable(t,
		Row{NutrientID: 301, AgeMin: 0, AgeMax: 120, Sex: dri.Male, Value: 16, Unit: units.Code(1)})

	got, err := table.FindDRI(Measurement{NutrientID: 301, Value: 8, Unit: "mg"}, Subject{Sex: dri.Male, Age: 30})
	require.NoError(t, err)
	assert.Equal(t, 100, got.Percent)

	got, err = table.FindDRI(Measurement{NutrientID: 301, Value: 8, Unit: "mg"}, Subject{Sex: dri.Male, Age: 80})
	require.NoError(t, err)
	assert.Equal(t, 50, got.Percent)
}

func TestFindDRIUnusableValueIsNoMatch(t *testing.T) {
	t.Parallel()

	table := scenarioTable(t,
		Row{NutrientID: 302, AgeMin: 19, AgeMax: 50, Sex: dri.Male, Value: math.NaN(), Unit: units.Code(1)},
		Row{NutrientID: 303, AgeMin: 19, AgeMax: 50, Sex: dri.Male, Value: 0, Unit: units.Code(1)})

	for _, id := range []int{302, 303} {
		got, err := table.FindDRI(Measurement{NutrientID: id, Value: 1, Unit: "mg"}, Subject{Sex: dri.Male, Age: 30})
		require.NoError(t, err)
		assert.Equal(t, StatusNoMatch, got.Status)
	}
}

func TestFindDRIUnknownUnitCode(t *testing.T) {
	t.Parallel()

	table := scenarioTable(t,
		Row{NutrientID: 304, AgeMin: 19, AgeMax: 50, Sex: dri.Male, Value: 5, Unit: units.Code(42)})

	_, err := table.FindDRI(Measurement{NutrientID: 304, Value: 1, Unit: "mg"}, Subject{Sex: dri.Male, Age: 30})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestFindDRIUnresolvedUnitTextCompares(t *testing.T) {
	t.Parallel()

	table := scenarioTable(t,
		Row{NutrientID: 305, AgeMin: 19, AgeMax: 50, Sex: dri.Male, Value: 4, Unit: units.Ref{Text: "IU"}})

	got, err := table.FindDRI(Measurement{NutrientID: 305, Value: 2, Unit: "iu"}, Subject{Sex: dri.Male, Age: 30})
	require.NoError(t, err)
	assert.Equal(t, StatusPercent, got.Status)
	assert.Equal(t, 50, got.Percent)
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "percent", StatusPercent.String())
	assert.Equal(t, "no-match", StatusNoMatch.String())
	assert.Equal(t, "unit-mismatch", StatusUnitMismatch.String())
	text, err := StatusUnitMismatch.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "unit-mismatch", string(text))
}
