// env.go - environment variable configuration and validation
package conf

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// envBinding holds metadata for environment variable bindings
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns all environment variable bindings with validation
func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", "NUTRIDRI_DEBUG", validateEnvBool},

		// Reference build inputs and outputs
		{"sources.units", "NUTRIDRI_UNITS", nil},
		{"sources.nutrients", "NUTRIDRI_NUTRIENTS", nil},
		{"sources.unitmap", "NUTRIDRI_UNITMAP", nil},
		{"output.catalog", "NUTRIDRI_CATALOG", nil},
		{"output.reference", "NUTRIDRI_REFERENCE", nil},

		// Default subject
		{"profile.sex", "NUTRIDRI_SEX", validateEnvSex},
		{"profile.age", "NUTRIDRI_AGE", validateEnvAge},
	}
}

// bindEnvVars binds environment variables and reports values that fail validation
func bindEnvVars() error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		if err := viper.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate != nil {
			if envValue := os.Getenv(binding.EnvVar); envValue != "" {
				if err := binding.Validate(envValue); err != nil {
					warnings = append(warnings, fmt.Sprintf("Invalid %s value '%s': %v", binding.EnvVar, envValue, err))
				}
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}

	return nil
}

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("must be true or false")
	}
	return nil
}

func validateEnvSex(value string) error {
	return validateSex(value)
}

func validateEnvAge(value string) error {
	age, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	return validateAge(age)
}
