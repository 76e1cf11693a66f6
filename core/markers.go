package core

import (
	"strings"

	"github.com/docgap/docgap/core/algo"
	"github.com/docgap/docgap/schema"
)

// ScanMarkers searches a pre-fix snapshot for vulnerability-related keywords.
// Matching is case-insensitive substring search per line; a line mentioning
// several keywords yields one finding per keyword. An empty result set is a
// valid outcome, not an error.
func ScanMarkers(content []byte, markers []string) []schema.MarkerFinding {
	var findings []schema.MarkerFinding
	for i, line := range algo.SplitLines(content) {
		lower := strings.ToLower(line)
		for _, keyword := range markers {
			if strings.Contains(lower, strings.ToLower(keyword)) {
				findings = append(findings, schema.MarkerFinding{
					Line:    i + 1,
					Keyword: keyword,
					Text:    strings.TrimSpace(line),
				})
			}
		}
	}
	return findings
}
