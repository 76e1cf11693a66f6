// Package outwriter has output and writer logic.
package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/docgap/docgap/internal/contract"
	"github.com/docgap/docgap/internal/parquet"
	"github.com/docgap/docgap/schema"
)

// WriteRankResults outputs the ranking, dispatching on the configured format.
// The text table shows the top cfg.ResultLimit rows; the machine-readable
// formats always carry the full ranking since downstream tooling consumes
// one row per ranked file.
func WriteRankResults(ranked []schema.RankedFile, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFloatFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, schema.EnrichRankedFiles(ranked))
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeRankCSV(csvWriter, ranked)
		}, "Wrote CSV")
	case schema.ParquetOut:
		outputFile := cfg.OutputFile
		if outputFile == "" {
			outputFile = "docgap-ranking.parquet"
		}
		if err := parquet.WriteRankedFiles(ranked, outputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		fmt.Printf("Wrote Parquet to %s\n", outputFile)
		return nil
	default:
		// Default to human-readable table
		limited := ranked
		if cfg.ResultLimit > 0 && len(limited) > cfg.ResultLimit {
			limited = limited[:cfg.ResultLimit]
		}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankTable(limited, len(ranked), cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
}
