package cmd

import (
	"github.com/docgap/docgap/core"
	"github.com/docgap/docgap/internal/contract"
	"github.com/spf13/cobra"
)

// identifiersCmd shows the effective mining setup.
var identifiersCmd = &cobra.Command{
	Use:   "identifiers [repo-path]",
	Short: "Show the identifier patterns, markers and curated advisories in effect.",
	Long: `Print the identifier patterns the miner will search for, the marker
keywords the forensic pipeline will scan for, and the curated advisories
loaded from --advisories. Useful for verifying configuration before a run.

Examples:
  # Show the default setup
  docgap identifiers

  # Verify a curated advisories file parses
  docgap identifiers --advisories advisories.yaml`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteIdentifiers(cfg); err != nil {
			contract.LogFatal("Cannot show identifier setup", err)
		}
	},
}
