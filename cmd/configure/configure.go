// configure.go config command code
package configure

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tphakala/nutridri/internal/conf"
)

// Command creates the config parent command
func Command(settings *conf.Settings) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or save the active configuration",
	}

	configCmd.AddCommand(pathCommand(), saveCommand(settings))

	return configCmd
}

func pathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := conf.FindConfigFile()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func saveCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "save [path]",
		Short: "Write the active settings, flags and environment included, as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			} else {
				found, err := conf.FindConfigFile()
				if err != nil {
					return err
				}
				path = found
			}

			if err := conf.ValidateSettings(settings); err != nil {
				return err
			}
			if err := conf.SaveYAMLConfig(path, settings); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved configuration to %s\n", path)
			return nil
		},
	}
}
