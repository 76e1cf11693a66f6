package cmd

import (
	"github.com/docgap/docgap/core"
	"github.com/docgap/docgap/internal/contract"
	"github.com/spf13/cobra"
)

// densityCmd analyzes a single file without touching history.
var densityCmd = &cobra.Command{
	Use:   "density [repo-path]",
	Short: "Show line counts and the comment ratio for a single file.",
	Long: `Run the density analyzer against one file and print its blank, comment
and code line counts plus the comment-to-code ratio. No Git history is
mined; this inspects the working tree as-is.

Examples:
  # Inspect one file in the current repository
  docgap density --path crypto/dh/dh_check.c

  # Machine-readable output
  docgap density --path src/parser.py --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDensity(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run density analysis", err)
		}
	},
}
