package drilookup

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/tphakala/nutridri/internal/conf"
	"github.com/tphakala/nutridri/internal/diary"
)

// foodReport is the YAML form of the food subcommand output
type foodReport struct {
	Food        string             `yaml:"food"`
	FdcID       int                `yaml:"fdc_id"`
	NdbNumber   string             `yaml:"ndb_number,omitempty"`
	EFARatio    float64            `yaml:"efa_ratio"`
	Evaluations []diary.Evaluation `yaml:"nutrients"`
}

// FoodCommand creates the food subcommand
func FoodCommand(settings *conf.Settings) *cobra.Command {
	var (
		index   int
		nonzero bool
		search  string
	)

	foodCmd := &cobra.Command{
		Use:   "food [results.json]",
		Short: "Evaluate a saved food search result against the DRI table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			s, err := subject(settings)
			if err != nil {
				return err
			}

			fs := afero.NewOsFs()
			results, err := diary.LoadSearchResults(fs, args[0])
			if err != nil {
				return err
			}
			food, err := results.Food(index)
			if err != nil {
				return err
			}
			table, err := loadTable(fs, settings)
			if err != nil {
				return err
			}

			evals, err := diary.Evaluate(table, s, food, selectNutrients(food, search, nonzero)...)
			if err != nil {
				return err
			}

			report := foodReport{
				Food:        food.Name,
				FdcID:       food.FdcID,
				NdbNumber:   food.NdbNumber,
				EFARatio:    food.EFARatio(),
				Evaluations: evals,
			}
			if format == formatYAML {
				return writeYAML(cmd.OutOrStdout(), report)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (fdc %d), values per 100 g\n", report.Food, report.FdcID)
			for _, e := range report.Evaluations {
				fmt.Fprintln(out, describeResult(e.Nutrient.Name, e.Result))
			}
			fmt.Fprintf(out, "omega-6:omega-3 ratio: %g\n", report.EFARatio)
			return nil
		},
	}

	foodCmd.Flags().IntVar(&index, "index", 0, "Index of the food within the saved results")
	foodCmd.Flags().BoolVar(&nonzero, "nonzero", false, "Only evaluate nutrients with a positive amount")
	foodCmd.Flags().StringVar(&search, "search", "", "Only evaluate nutrients whose name contains this text")

	return foodCmd
}

// selectNutrients returns the nutrient indices to evaluate, nil meaning all
func selectNutrients(food *diary.Food, search string, nonzero bool) []int {
	if search == "" && !nonzero {
		return nil
	}

	var idx []int
	if search != "" {
		idx = food.FindNutrient(search)
	} else {
		idx = food.NonzeroNutrients()
	}
	if search != "" && nonzero {
		keep := idx[:0]
		for _, i := range idx {
			if food.Nutrients[i].Value > 0 {
				keep = append(keep, i)
			}
		}
		idx = keep
	}
	return idx
}
