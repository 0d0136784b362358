package reftable

import (
	"fmt"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/tphakala/nutridri/internal/conf"
	"github.com/tphakala/nutridri/internal/errors"
	"github.com/tphakala/nutridri/internal/units"
)

// UnitCommand creates the unit subcommand
func UnitCommand(settings *conf.Settings) *cobra.Command {
	unitCmd := &cobra.Command{
		Use:   "unit [code]",
		Short: "Describe a unit code, or list the unit table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := LoadUnits(afero.NewOsFs(), settings.Sources.Units)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, e := range table.Entries() {
					fmt.Fprintf(out, "%d\t%s\t%s\n", e.Code, e.Description, e.ShortDescription)
				}
				return nil
			}

			code, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Newf("unit code %q is not an integer", args[0]).
					Category(errors.CategoryValidation).
					Build()
			}
			desc, err := table.Describe(code)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, desc)
			return nil
		},
	}

	unitCmd.Flags().StringVar(&settings.Sources.Units, "units", settings.Sources.Units, "Unit lookup table, empty for the built-in table")

	return unitCmd
}

// LoadUnits loads the unit table at path, or the built-in table when path is empty.
func LoadUnits(fs afero.Fs, path string) (*units.Table, error) {
	if path == "" {
		return units.DefaultTable(), nil
	}
	return units.LoadTable(fs, path)
}
