package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/docgap/docgap/internal/contract"
	"github.com/docgap/docgap/schema"
)

// WriteDensityResult prints a single file's density metric in the configured
// output format.
func WriteDensityResult(metric schema.FileDensity, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, metric)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			if err := csvWriter.Write(schema.RankingCSVHeader[:5]); err != nil {
				return err
			}
			return csvWriter.Write([]string{
				metric.Path,
				strconv.Itoa(metric.TotalLines),
				strconv.Itoa(metric.CommentLines),
				strconv.Itoa(metric.CodeLines),
				strconv.FormatFloat(metric.Ratio, 'f', 2, 64),
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDensityText(w, metric, cfg)
		}, "Wrote text")
	}
}

// writeDensityText renders the density metric as a short report.
func writeDensityText(w io.Writer, metric schema.FileDensity, cfg *contract.Config) error {
	label := schema.GetPlainLabel(metric.Ratio)
	if cfg.UseColors {
		label = contract.GetColorLabel(label)
	}
	_, err := fmt.Fprintf(w,
		"%s\n  Total lines:   %d\n  Blank lines:   %d\n  Comment lines: %d\n  Code lines:    %d\n  Comment ratio: %.*f%% (%s debt)\n",
		metric.Path, metric.TotalLines, metric.BlankLines, metric.CommentLines, metric.CodeLines,
		cfg.Precision, metric.Ratio, label)
	return err
}

// AdvisoryRow is the display shape of one curated advisory.
type AdvisoryRow struct {
	Commit      string
	Identifier  string
	Description string
}

// WriteIdentifierSetup prints the effective identifier patterns, the marker
// keywords and the curated advisories.
func WriteIdentifierSetup(cfg *contract.Config, advisories []AdvisoryRow) error {
	fmt.Println("Identifier patterns (search-discovery pass):")
	for _, p := range cfg.Identifiers {
		fmt.Printf("  %s\n", p)
	}
	fmt.Println("\nVulnerability markers (forensic scan):")
	for _, m := range cfg.Markers {
		fmt.Printf("  %s\n", m)
	}
	if len(advisories) == 0 {
		fmt.Println("\nNo curated advisories loaded (use --advisories to supply a list).")
		return nil
	}
	fmt.Printf("\nCurated advisories (%d, processed before discovery):\n", len(advisories))
	for _, adv := range advisories {
		if adv.Description != "" {
			fmt.Printf("  %s  %s  %s\n", adv.Identifier, shortCommit(adv.Commit), adv.Description)
		} else {
			fmt.Printf("  %s  %s\n", adv.Identifier, shortCommit(adv.Commit))
		}
	}
	return nil
}

// shortCommit abbreviates a commit hash for display.
func shortCommit(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
