package cmd

import (
	"github.com/docgap/docgap/core"
	"github.com/docgap/docgap/internal/contract"
	"github.com/spf13/cobra"
)

// rankCmd performs the full mine-and-rank analysis.
var rankCmd = &cobra.Command{
	Use:   "rank [repo-path]",
	Short: "Rank security-relevant files by comment density, worst first.",
	Long: `Mine Git history for security fixes and rank the files they touched
by comment density, ascending. The files at the top of the list carry
proven security relevance and the least documentation.

The miner combines two sources:
- A curated advisories file (--advisories) mapping commits to identifiers
- A search-discovery pass over commit messages (--identifiers, default CVE-)

Examples:
  # Rank the current repository
  docgap rank

  # Rank with a curated advisories file
  docgap rank --advisories advisories.yaml

  # Mine only recent history and mention security keywords too
  docgap rank --since "2 years ago" --identifiers "CVE-,GHSA-"

  # Export the full ranking to CSV for tracking
  docgap rank --output csv --output-file ranking.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRank(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run ranking analysis", err)
		}
	},
}
