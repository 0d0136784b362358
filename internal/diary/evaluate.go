package diary

import (
	"fmt"

	"github.com/tphakala/nutridri/internal/reference"
)

// Lookup finds the DRI for a measurement. *reference.Table implements it.
type Lookup interface {
	FindDRI(m reference.Measurement, s reference.Subject) (reference.Result, error)
}

// Evaluation pairs a nutrient with its lookup result.
type Evaluation struct {
	Nutrient Nutrient         `yaml:"nutrient"`
	Result   reference.Result `yaml:"result"`
}

// Evaluate looks up the nutrients of food at indices, or all of them when
// indices is nil. An empty non-nil slice evaluates nothing.
func Evaluate(lookup Lookup, subject reference.Subject, food *Food, indices ...int) ([]Evaluation, error) {
	if indices == nil {
		indices = make([]int, len(food.Nutrients))
		for i := range indices {
			indices[i] = i
		}
	}

	out := make([]Evaluation, 0, len(indices))
	for _, idx := range indices {
		n, err := food.Nutrient(idx)
		if err != nil {
			return nil, err
		}
		res, err := lookup.FindDRI(n.Measurement(), subject)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s: %w", n.Name, err)
		}
		out = append(out, Evaluation{Nutrient: n, Result: res})
	}
	return out, nil
}
