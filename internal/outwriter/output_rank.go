package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/docgap/docgap/internal/contract"
	"github.com/docgap/docgap/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeRankCSV writes the ranking in the fixed CSV artifact shape. The ratio
// column always carries two decimals so re-runs produce identical bytes, and
// the identifiers column is space-separated.
func writeRankCSV(w *csv.Writer, ranked []schema.RankedFile) error {
	if err := w.Write(schema.RankingCSVHeader); err != nil {
		return err
	}
	for _, r := range ranked {
		row := []string{
			r.Path,
			strconv.Itoa(r.TotalLines),
			strconv.Itoa(r.CommentLines),
			strconv.Itoa(r.CodeLines),
			strconv.FormatFloat(r.Ratio, 'f', 2, 64),
			schema.FormatIdentifiers(r.Identifiers),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// writeRankTable generates and writes the human-readable table.
func writeRankTable(ranked []schema.RankedFile, totalRows int, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	defer func() { _ = table.Close() }()

	headers := []string{"Rank", "Path", "Ratio %", "Label", "Lines", "Comments", "Code", "Identifiers"}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	maxPathWidth := getMaxTablePathWidth(cfg)
	var data [][]string
	for i, r := range ranked {
		label := schema.GetPlainLabel(r.Ratio)
		if cfg.UseColors {
			label = contract.GetColorLabel(label)
		}
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(r.Path, maxPathWidth),
			fmtFloat(r.Ratio),
			label,
			strconv.Itoa(r.TotalLines),
			strconv.Itoa(r.CommentLines),
			strconv.Itoa(r.CodeLines),
			schema.FormatIdentifiers(r.Identifiers),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Summary footer
	identifierSet := make(map[string]struct{})
	for _, r := range ranked {
		for _, id := range r.Identifiers {
			identifierSet[id] = struct{}{}
		}
	}
	if _, err := fmt.Fprintf(writer, "Showing %d of %d exposed files (%d distinct identifiers)\n", len(ranked), totalRows, len(identifierSet)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}
