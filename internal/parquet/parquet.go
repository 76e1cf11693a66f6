// Package parquet exports ranking results to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"

	"github.com/docgap/docgap/schema"
	"github.com/parquet-go/parquet-go"
)

// RankedFileRecord is the flattened Parquet row for one ranked file.
type RankedFileRecord struct {
	// FilePath is the relative path to the file in the repository
	FilePath string `parquet:"file_path,snappy"`

	// TotalLines is the total line count of the file
	TotalLines int32 `parquet:"total_lines,snappy"`

	// BlankLines is the count of whitespace-only lines
	BlankLines int32 `parquet:"blank_lines,snappy"`

	// CommentLines is the count of comment lines
	CommentLines int32 `parquet:"comment_lines,snappy"`

	// CodeLines is the count of code lines
	CodeLines int32 `parquet:"code_lines,snappy"`

	// CommentRatioPct is 100 * comment lines / code lines
	CommentRatioPct float64 `parquet:"comment_ratio_pct,snappy"`

	// Identifiers is the space-joined list of security identifiers
	Identifiers string `parquet:"identifiers,snappy"`

	// FixCommit is the hash of the first commit that exposed this file
	FixCommit string `parquet:"fix_commit,snappy"`
}

// WriteRankedFiles writes the ranking to a Parquet file. The schema is
// inferred from the RankedFileRecord struct tags.
func WriteRankedFiles(ranked []schema.RankedFile, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[RankedFileRecord](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(convertRankedFiles(ranked)); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

func convertRankedFiles(ranked []schema.RankedFile) []RankedFileRecord {
	records := make([]RankedFileRecord, len(ranked))
	for i, rf := range ranked {
		records[i] = RankedFileRecord{
			FilePath:        rf.Path,
			TotalLines:      int32(rf.TotalLines),
			BlankLines:      int32(rf.BlankLines),
			CommentLines:    int32(rf.CommentLines),
			CodeLines:       int32(rf.CodeLines),
			CommentRatioPct: rf.Ratio,
			Identifiers:     schema.FormatIdentifiers(rf.Identifiers),
			FixCommit:       rf.FixCommit,
		}
	}
	return records
}
