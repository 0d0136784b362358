package diary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/afero"

	"github.com/tphakala/nutridri/internal/errors"
)

// SearchResults is a saved food search response.
type SearchResults struct {
	TotalHits int        `json:"totalHits"`
	Foods     []FoodItem `json:"foods"`
}

// FoodItem is one food of a search response.
type FoodItem struct {
	Description   string         `json:"description"`
	FdcID         int            `json:"fdcId"`
	NdbNumber     NDBNumber      `json:"ndbNumber"`
	DataType      string         `json:"dataType"`
	FoodNutrients []FoodNutrient `json:"foodNutrients"`
}

// FoodNutrient is one nutrient amount of a food item, per 100 g.
type FoodNutrient struct {
	NutrientName   string  `json:"nutrientName"`
	NutrientNumber string  `json:"nutrientNumber"`
	UnitName       string  `json:"unitName"`
	Value          float64 `json:"value"`
}

// NDBNumber accepts the legacy database number as either a JSON string or number.
type NDBNumber string

func (n *NDBNumber) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = NDBNumber(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("ndbNumber: %w", err)
	}
	*n = NDBNumber(num.String())
	return nil
}

// LoadSearchResults reads a saved search response from path on fs.
func LoadSearchResults(fs afero.Fs, path string) (*SearchResults, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.FileError(fmt.Errorf("read search results: %w", err), path)
	}

	var results SearchResults
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, errors.New(fmt.Errorf("parse search results: %w", err)).
			Category(errors.CategoryFileParsing).
			FileContext(path, 0).
			Build()
	}
	return &results, nil
}

// Food builds the food at index i.
func (r *SearchResults) Food(i int) (*Food, error) {
	if i < 0 || i >= len(r.Foods) {
		return nil, errors.Newf("food index %d out of range, %d results", i, len(r.Foods)).
			Category(errors.CategoryValidation).
			Build()
	}
	return NewFood(&r.Foods[i])
}

func parseNutrientNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Newf("invalid nutrient number %q", s).
			Category(errors.CategoryValidation).
			Build()
	}
	return n, nil
}
