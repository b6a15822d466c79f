package commands

import (
	"github.com/spf13/cobra"

	"github.com/lakeforge/lakeforge/cmd/lakeforge/handlers"
)

// Validate returns the command that checks a platform definition without
// touching any control plane.
func Validate() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the platform definition without provisioning",
		Long: `Validate the platform definition.

Parses the YAML, checks required fields, and assembles the step graph to
catch wiring problems. Makes no network calls.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Validate(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to platform definition (default: lakeforge.yaml)")

	return cmd
}
