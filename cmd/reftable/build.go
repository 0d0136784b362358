package reftable

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/tphakala/nutridri/internal/conf"
	"github.com/tphakala/nutridri/internal/logger"
	"github.com/tphakala/nutridri/internal/reference"
)

// BuildCommand creates the build subcommand
func BuildCommand(settings *conf.Settings) *cobra.Command {
	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Build the nutrient catalog and DRI reference table from source data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := reference.Paths{
				Units:     settings.Sources.Units,
				Nutrients: settings.Sources.Nutrients,
				UnitMap:   settings.Sources.UnitMap,
				DRI:       settings.Sources.DRI,
				Catalog:   settings.Output.Catalog,
				Reference: settings.Output.Reference,
			}

			builder := reference.NewBuilder(afero.NewOsFs(), paths, logger.Global().Module("reference"))
			result, err := builder.Run()
			if err != nil {
				return fmt.Errorf("reference build failed: %w", err)
			}

			printSummary(cmd.OutOrStdout(), result, paths)
			return nil
		},
	}

	buildCmd.Flags().StringVar(&settings.Sources.Units, "units", settings.Sources.Units, "Unit lookup table, empty for the built-in table")
	buildCmd.Flags().StringVar(&settings.Sources.Nutrients, "nutrients", settings.Sources.Nutrients, "Nutrient definition file")
	buildCmd.Flags().StringVar(&settings.Sources.UnitMap, "unitmap", settings.Sources.UnitMap, "DRI nutrient unit map")
	buildCmd.Flags().StringSliceVar(&settings.Sources.DRI, "dri", settings.Sources.DRI, "Wide DRI tables, in join order")
	buildCmd.Flags().StringVar(&settings.Output.Catalog, "catalog", settings.Output.Catalog, "Catalog output file, empty to skip")
	buildCmd.Flags().StringVar(&settings.Output.Reference, "output", settings.Output.Reference, "Reference table output file")

	return buildCmd
}

func printSummary(w io.Writer, result *reference.Result, paths reference.Paths) {
	fmt.Fprintf(w, "DRI rows:        %d\n", result.DRIRows)
	fmt.Fprintf(w, "Catalog entries: %d\n", result.Catalog.Len())
	fmt.Fprintf(w, "Reference rows:  %d -> %s\n", len(result.Rows), paths.Reference)
	if paths.Catalog != "" {
		fmt.Fprintf(w, "Catalog written: %s\n", paths.Catalog)
	}
	for _, name := range result.Report.Synthesized {
		fmt.Fprintf(w, "new catalog entry: %s\n", name)
	}
	for _, a := range result.Report.Ambiguous {
		fmt.Fprintf(w, "review: %q matched ids %v\n", a.Name, a.IDs)
	}
}
