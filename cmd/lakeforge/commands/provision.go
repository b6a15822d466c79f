package commands

import (
	"github.com/spf13/cobra"

	"github.com/lakeforge/lakeforge/cmd/lakeforge/handlers"
)

// Provision returns the command that converges the platform onto its
// declared configuration.
//
// Optional flags:
//
//	--config, -c: Path to platform definition YAML (default: lakeforge.yaml)
//	--resume:     Path to a prior run's report; successful steps are carried over
//	--report:     Where to write this run's JSON report (overrides config)
//	--dry-run:    Print the step plan and exit without provisioning
//
// Environment variables:
//
//	LAKEFORGE_CLIENT_SECRET: client secret for the app registration (required)
func Provision() *cobra.Command {
	var opts handlers.ProvisionOptions

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create or converge the data platform",
		Long: `Create or converge your Fabric data platform.

This command ensures every declared resource exists: the workspace on its
capacity, the lakehouses, the governance domain, and the Purview collection,
data source, and scan. Resources already present are left untouched, so the
command is safe to re-run at any time.

Examples:
  # Converge using lakeforge.yaml in the current directory
  lakeforge provision

  # Converge using a specific definition
  lakeforge provision -c production.yaml

  # Retry only the steps that failed in the previous run
  lakeforge provision --resume report.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Provision(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to platform definition (default: lakeforge.yaml)")
	cmd.Flags().StringVar(&opts.ResumeFrom, "resume", "", "Path to a prior run report to resume from")
	cmd.Flags().StringVar(&opts.ReportPath, "report", "", "Path to write the run report (overrides config)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the step plan without contacting any control plane")

	return cmd
}
