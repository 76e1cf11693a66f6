package outwriter

import (
	"os"

	"github.com/docgap/docgap/internal/contract"
	"golang.org/x/term"
)

// getMaxTablePathWidth calculates the maximum width for file paths in table
// output based on terminal width and the fixed columns.
func getMaxTablePathWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Ratio + Label + three line counters + identifiers column, with
	// table borders and padding.
	const baseWidth = 75

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
