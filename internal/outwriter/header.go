package outwriter

import (
	"fmt"

	"github.com/docgap/docgap/internal/contract"
)

// LogAnalysisHeader prints the run banner before a ranking analysis.
func LogAnalysisHeader(cfg *contract.Config) {
	fmt.Printf("docgap: analyzing %s\n", cfg.RepoPath)
	if cfg.Since.IsZero() {
		fmt.Println("History window: full history")
	} else {
		fmt.Printf("History window: since %s\n", cfg.Since.Format("2006-01-02"))
	}
	if cfg.AdvisoriesPath != "" {
		fmt.Printf("Curated advisories: %s\n", cfg.AdvisoriesPath)
	}
	fmt.Println()
}
