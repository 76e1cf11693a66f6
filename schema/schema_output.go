package schema

import "strings"

// EnrichedRankedFile adds presentation data to a RankedFile.
type EnrichedRankedFile struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	RankedFile
}

// GetPlainLabel returns a plain text label indicating the documentation-debt
// severity for a comment ratio. Lower ratios mean worse debt, so the scale is
// inverted relative to the usual "higher is worse" scoring.
func GetPlainLabel(ratio float64) string {
	switch {
	case ratio < 5:
		return "Critical"
	case ratio < 15:
		return "High"
	case ratio < 30:
		return "Moderate"
	default:
		return "Low"
	}
}

// EnrichRankedFiles adds rank and label to a list of ranked files.
func EnrichRankedFiles(files []RankedFile) []EnrichedRankedFile {
	output := make([]EnrichedRankedFile, len(files))
	for i, f := range files {
		output[i] = EnrichedRankedFile{
			Rank:       i + 1,
			Label:      GetPlainLabel(f.Ratio),
			RankedFile: f,
		}
	}
	return output
}

// FormatIdentifiers renders an identifier set as the space-separated form
// used in the CSV artifact and the table view.
func FormatIdentifiers(identifiers []string) string {
	return strings.Join(identifiers, " ")
}
