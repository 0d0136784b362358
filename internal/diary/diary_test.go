package diary

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/nutridri/internal/dri"
	"github.com/tphakala/nutridri/internal/errors"
	"github.com/tphakala/nutridri/internal/reference"
	"github.com/tphakala/nutridri/internal/units"
)

const searchJSON = `{
  "totalHits": 2,
  "foods": [
    {
      "description": "Avocados, raw, California",
      "fdcId": 171706,
      "ndbNumber": "9038",
      "dataType": "SR Legacy",
      "foodNutrients": [
        {"nutrientName": "Iron, Fe", "nutrientNumber": "303", "unitName": "MG", "value": 0.61},
        {"nutrientName": "Vitamin C, total ascorbic acid", "nutrientNumber": "401", "unitName": "MG", "value": 8.8},
        {"nutrientName": "Vitamin D (D2 + D3)", "nutrientNumber": "328", "unitName": "UG", "value": 0},
        {"nutrientName": "PUFA 18:2", "nutrientNumber": "618", "unitName": "G", "value": 1.67},
        {"nutrientName": "PUFA 18:3", "nutrientNumber": "619", "unitName": "G", "value": 0.11}
      ]
    },
    {
      "description": "Thyme, dried",
      "fdcId": 170938,
      "ndbNumber": 2042,
      "foodNutrients": [
        {"nutrientName": "Iron, Fe", "nutrientNumber": "303", "unitName": "MG", "value": 123.6}
      ]
    }
  ]
}`

func loadResults(t *testing.T) *SearchResults {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/saved/avocado.json", []byte(searchJSON), 0o644))
	results, err := LoadSearchResults(fs, "/saved/avocado.json")
	require.NoError(t, err)
	return results
}

func TestLoadSearchResults(t *testing.T) {
	t.Parallel()

	results := loadResults(t)
	require.Len(t, results.Foods, 2)
	assert.Equal(t, NDBNumber("9038"), results.Foods[0].NdbNumber)
	assert.Equal(t, NDBNumber("2042"), results.Foods[1].NdbNumber, "numeric ndbNumber accepted")

	food, err := results.Food(0)
	require.NoError(t, err)
	assert.Equal(t, "Avocados, raw, California", food.Name)
	assert.Equal(t, 171706, food.FdcID)
	assert.Len(t, food.Nutrients, 5)

	_, err = results.Food(2)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestLoadSearchResultsErrors(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	_, err := LoadSearchResults(fs, "/saved/none.json")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileIO))

	require.NoError(t, afero.WriteFile(fs, "/saved/bad.json", []byte(`{"foods": [`), 0o644))
	_, err = LoadSearchResults(fs, "/saved/bad.json")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileParsing))
}

func TestNewFoodRejectsBadNutrientNumber(t *testing.T) {
	t.Parallel()

	_, err := NewFood(&FoodItem{
		Description:   "Mystery",
		FoodNutrients: []FoodNutrient{{NutrientName: "Iron", NutrientNumber: "x"}},
	})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestFoodNutrientSearch(t *testing.T) {
	t.Parallel()

	food, err := loadResults(t).Food(0)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, food.FindNutrient("VITAMIN"))
	assert.Equal(t, []int{3, 4}, food.FindNutrient("pufa"))
	assert.Empty(t, food.FindNutrient("zinc"))
	assert.Equal(t, []int{0, 1, 3, 4}, food.NonzeroNutrients())

	n, err := food.Nutrient(0)
	require.NoError(t, err)
	assert.Equal(t, "Iron, Fe: 0.61 MG", n.String())
	assert.Equal(t, reference.Measurement{NutrientID: 303, Value: 0.61, Unit: "MG"}, n.Measurement())

	_, err = food.Nutrient(9)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestEFARatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		nutrients []Nutrient
		want      float64
	}{
		{"both present", []Nutrient{{Name: "PUFA 18:2", Value: 1.67}, {Name: "PUFA 18:3", Value: 0.11}}, 15.18},
		{"named by omega", []Nutrient{{Name: "PUFA n-6", Value: 3}, {Name: "PUFA n-3", Value: 2}}, 1.5},
		{"only omega-6", []Nutrient{{Name: "PUFA 18:2", Value: 2}}, 1},
		{"no omega-6", []Nutrient{{Name: "PUFA 18:3", Value: 2}}, 0},
		{"non pufa ignored", []Nutrient{{Name: "Fatty acids 18:2", Value: 9}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := &Food{Nutrients: tt.nutrients}
			assert.InDelta(t, tt.want, f.EFARatio(), 1e-9)
		})
	}
}

func TestUserDays(t *testing.T) {
	t.Parallel()

	u := NewUser("Alex", dri.Female, 34, 140)
	assert.NotEqual(t, u.ID, NewUser("Alex", dri.Female, 34, 140).ID)

	start := time.Date(2026, 1, 1, 8, 30, 0, 0, time.UTC)
	for i := range 10 {
		u.AddDay(start.AddDate(0, 0, i))
	}
	again := u.AddDay(start.Add(10 * time.Hour))
	assert.Equal(t, 10, u.TotalDays(), "same calendar day is not added twice")
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), again.Date)

	recent := u.Days(0)
	require.Len(t, recent, DefaultDays)
	assert.Equal(t, 10, recent[0].Date.Day(), "newest first")
	assert.Equal(t, 4, recent[6].Date.Day())
	assert.Len(t, u.Days(50), 10)

	d, ok := u.Day(time.Date(2026, 1, 5, 23, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 5, d.Date.Day())
	_, ok = u.Day(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)

	assert.Equal(t, reference.Subject{Sex: dri.Female, Age: 34}, u.Profile())
}

func TestDayFoodsIsACopy(t *testing.T) {
	t.Parallel()

	food, err := loadResults(t).Food(1)
	require.NoError(t, err)

	d := NewUser("Sam", dri.Male, 30, 180).AddDay(time.Now())
	d.AddFood(food)
	foods := d.Foods()
	foods[0] = nil
	assert.Same(t, food, d.Foods()[0])
	assert.Contains(t, d.String(), "1 food items")
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	table := reference.NewTable([]reference.Row{
		{NutrientID: 303, AgeMin: 19, AgeMax: 50, Sex: dri.Male, Value: 8, Unit: units.Code(2)},
		{NutrientID: 401, AgeMin: 19, AgeMax: 50, Sex: dri.Male, Value: 90, Unit: units.Code(3)},
	}, units.DefaultTable())

	food, err := loadResults(t).Food(0)
	require.NoError(t, err)
	subject := reference.Subject{Sex: dri.Male, Age: 30}

	evals, err := Evaluate(table, subject, food, food.FindNutrient("iron")...)
	require.NoError(t, err)
	require.Len(t, evals, 1)
	assert.Equal(t, reference.StatusPercent, evals[0].Result.Status)
	assert.Equal(t, 8, evals[0].Result.Percent)

	all, err := Evaluate(table, subject, food)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, reference.StatusUnitMismatch, all[1].Result.Status, "vitamin C stored in ug")
	assert.Equal(t, reference.StatusNoMatch, all[2].Result.Status)

	none, err := Evaluate(table, subject, food, food.FindNutrient("zinc")...)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = Evaluate(table, subject, food, 42)
	require.Error(t, err)
}
