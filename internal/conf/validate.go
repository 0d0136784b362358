// conf/validate.go

package conf

import (
	"fmt"
	"strings"
)

// maxAge bounds the profile age; DRI tables stop well before it
const maxAge = 130

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateSourceSettings(&settings.Sources); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateOutputSettings(&settings.Output); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateProfileSettings(&settings.Profile); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return ve
	}

	return nil
}

func validateSourceSettings(s *SourceSettings) error {
	for i, path := range s.DRI {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("sources.dri[%d] is empty", i)
		}
	}
	return nil
}

func validateOutputSettings(o *OutputSettings) error {
	if o.Reference == "" {
		return fmt.Errorf("output.reference must be set")
	}
	if o.Catalog != "" && o.Catalog == o.Reference {
		return fmt.Errorf("output.catalog and output.reference must differ")
	}
	return nil
}

func validateProfileSettings(p *ProfileSettings) error {
	if p.Sex != "" {
		if err := validateSex(p.Sex); err != nil {
			return fmt.Errorf("profile.sex: %w", err)
		}
	}
	if err := validateAge(p.Age); err != nil {
		return fmt.Errorf("profile.age: %w", err)
	}
	return nil
}

// validateSex accepts the same spellings as dri.ParseSex
func validateSex(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "m", "male", "2", "f", "female":
		return nil
	}
	return fmt.Errorf("must be male or female, got %q", value)
}

func validateAge(age float64) error {
	if age < 0 || age > maxAge {
		return fmt.Errorf("must be between 0 and %d, got %g", maxAge, age)
	}
	return nil
}
