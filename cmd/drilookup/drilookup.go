// drilookup.go dri command code
package drilookup

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/tphakala/nutridri/cmd/reftable"
	"github.com/tphakala/nutridri/internal/conf"
	"github.com/tphakala/nutridri/internal/dri"
	"github.com/tphakala/nutridri/internal/errors"
	"github.com/tphakala/nutridri/internal/reference"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

// Command creates the dri parent command
func Command(settings *conf.Settings) *cobra.Command {
	driCmd := &cobra.Command{
		Use:   "dri",
		Short: "Compare nutrient amounts against the DRI reference table",
	}

	driCmd.PersistentFlags().StringVar(&settings.Profile.Sex, "sex", settings.Profile.Sex, "Subject sex, male or female")
	driCmd.PersistentFlags().Float64Var(&settings.Profile.Age, "age", settings.Profile.Age, "Subject age in years")
	driCmd.PersistentFlags().StringVar(&settings.Output.Reference, "reference", settings.Output.Reference, "Reference table to read")
	driCmd.PersistentFlags().StringVar(&settings.Sources.Units, "units", settings.Sources.Units, "Unit lookup table, empty for the built-in table")
	driCmd.PersistentFlags().String("format", formatText, "Output format, text or yaml")

	driCmd.AddCommand(LookupCommand(settings), FoodCommand(settings))

	return driCmd
}

// loadTable reads the reference table named in settings
func loadTable(fs afero.Fs, settings *conf.Settings) (*reference.Table, error) {
	unitTable, err := reftable.LoadUnits(fs, settings.Sources.Units)
	if err != nil {
		return nil, err
	}
	return reference.LoadTable(fs, settings.Output.Reference, unitTable)
}

// subject builds the lookup subject from the profile settings
func subject(settings *conf.Settings) (reference.Subject, error) {
	sex, err := dri.ParseSex(settings.Profile.Sex)
	if err != nil {
		return reference.Subject{}, err
	}
	if settings.Profile.Age < 0 {
		return reference.Subject{}, errors.Newf("age must not be negative, got %g", settings.Profile.Age).
			Category(errors.CategoryValidation).
			Build()
	}
	return reference.Subject{Sex: sex, Age: settings.Profile.Age}, nil
}

func outputFormat(cmd *cobra.Command) (string, error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", err
	}
	switch format {
	case formatText, formatYAML:
		return format, nil
	}
	return "", errors.Newf("unknown output format %q, want text or yaml", format).
		Category(errors.CategoryValidation).
		Build()
}
