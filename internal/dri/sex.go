package dri

import (
	"strings"

	"github.com/tphakala/nutridri/internal/errors"
)

// Sex uses the numeric coding of the source tables.
type Sex int

const (
	SexUnknown Sex = 0
	Male       Sex = 1
	Female     Sex = 2
)

// ParseSex accepts 1/2, m/f and male/female in any case.
func ParseSex(s string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "m", "male":
		return Male, nil
	case "2", "f", "female":
		return Female, nil
	}
	return SexUnknown, errors.Newf("invalid sex %q, want male or female", s).
		Category(errors.CategoryValidation).
		Build()
}

func (s Sex) String() string {
	switch s {
	case Male:
		return "male"
	case Female:
		return "female"
	default:
		return "unknown"
	}
}
