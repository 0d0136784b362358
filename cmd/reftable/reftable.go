// reftable.go reference command code
package reftable

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/nutridri/internal/conf"
)

// Command creates the reference parent command
func Command(settings *conf.Settings) *cobra.Command {
	refCmd := &cobra.Command{
		Use:   "reference",
		Short: "Commands for building and inspecting the DRI reference table",
	}

	refCmd.AddCommand(BuildCommand(settings), UnitCommand(settings))

	return refCmd
}
