package cmd

import (
	"github.com/docgap/docgap/core"
	"github.com/docgap/docgap/internal/contract"
	"github.com/spf13/cobra"
)

// forensicsCmd extracts the evidence bundle for one ranked file.
var forensicsCmd = &cobra.Command{
	Use:   "forensics [repo-path]",
	Short: "Extract a forensic evidence bundle for a ranked file.",
	Long: `Run the full ranking, pick the file at the requested rank and extract
an investigation bundle for it:

- The pre-fix snapshot of the file (the vulnerable revision)
- Unified, word-level and stat views of the fix diff
- Vulnerability marker locations in the vulnerable code
- A human-readable investigation summary

The bundle is written to a directory (--out, default 'forensics') and is
safe to re-generate; identical inputs produce identical artifacts.

Examples:
  # Investigate the worst-documented security-relevant file
  docgap forensics

  # Investigate the third-ranked file in a specific repo
  docgap forensics --rank 3 ~/src/openssl

  # Write the bundle somewhere else
  docgap forensics --out /tmp/investigation`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteForensics(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run forensic extraction", err)
		}
	},
}
