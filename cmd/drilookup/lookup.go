package drilookup

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/nutridri/internal/conf"
	"github.com/tphakala/nutridri/internal/reference"
)

// LookupCommand creates the lookup subcommand
func LookupCommand(settings *conf.Settings) *cobra.Command {
	var m reference.Measurement

	lookupCmd := &cobra.Command{
		Use:   "lookup",
		Short: "Look up the DRI for one nutrient amount",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			s, err := subject(settings)
			if err != nil {
				return err
			}
			table, err := loadTable(afero.NewOsFs(), settings)
			if err != nil {
				return err
			}

			result, err := table.FindDRI(m, s)
			if err != nil {
				return err
			}

			if format == formatYAML {
				return writeYAML(cmd.OutOrStdout(), result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), describeResult(fmt.Sprintf("nutrient %d", m.NutrientID), result))
			return nil
		},
	}

	lookupCmd.Flags().IntVar(&m.NutrientID, "nutrient", 0, "Nutrient number")
	lookupCmd.Flags().Float64Var(&m.Value, "value", 0, "Measured amount")
	lookupCmd.Flags().StringVar(&m.Unit, "unit", "", "Unit of the measured amount")
	_ = lookupCmd.MarkFlagRequired("nutrient")
	_ = lookupCmd.MarkFlagRequired("value")
	_ = lookupCmd.MarkFlagRequired("unit")

	return lookupCmd
}

// describeResult renders one lookup outcome as a single line
func describeResult(label string, r reference.Result) string {
	switch r.Status {
	case reference.StatusPercent:
		return fmt.Sprintf("%s: %g%s | DRI: %g%s | DV: %d%%", label, r.Value, r.Unit, r.DRIValue, r.DRIUnit, r.Percent)
	case reference.StatusUnitMismatch:
		return fmt.Sprintf("%s: %g%s | DRI: %g%s | units differ, not compared", label, r.Value, r.Unit, r.DRIValue, r.DRIUnit)
	default:
		return fmt.Sprintf("%s: %g%s | no DRI for this subject", label, r.Value, r.Unit)
	}
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("error encoding YAML output: %w", err)
	}
	return enc.Close()
}
