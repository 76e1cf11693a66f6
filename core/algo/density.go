// Package algo has the pure algorithms for density analysis and ranking.
package algo

import (
	"path/filepath"
	"strings"

	"github.com/docgap/docgap/schema"
)

// CommentStyle describes the comment markers of one language family.
type CommentStyle struct {
	Line       []string // Single-line markers, e.g. "//" or "#"
	BlockOpen  string   // Block opener, empty when the language has none
	BlockClose string   // Block closer
}

var (
	cStyle = CommentStyle{Line: []string{"//"}, BlockOpen: "/*", BlockClose: "*/"}

	hashStyle = CommentStyle{Line: []string{"#"}}

	styleByExt = map[string]CommentStyle{
		".c": cStyle, ".h": cStyle, ".cc": cStyle, ".cpp": cStyle,
		".cxx": cStyle, ".hpp": cStyle, ".go": cStyle, ".java": cStyle,
		".kt": cStyle, ".js": cStyle, ".jsx": cStyle, ".ts": cStyle,
		".tsx": cStyle, ".cs": cStyle, ".rs": cStyle, ".swift": cStyle,
		".m": cStyle, ".scala": cStyle, ".php": {Line: []string{"//", "#"}, BlockOpen: "/*", BlockClose: "*/"},

		".py": {Line: []string{"#"}, BlockOpen: `"""`, BlockClose: `"""`},
		".rb": hashStyle, ".sh": hashStyle, ".pl": hashStyle,

		".lua": {Line: []string{"--"}, BlockOpen: "--[[", BlockClose: "]]"},
		".sql": {Line: []string{"--"}, BlockOpen: "/*", BlockClose: "*/"},
		".hs":  {Line: []string{"--"}, BlockOpen: "{-", BlockClose: "-}"},
		".ml":  {BlockOpen: "(*", BlockClose: "*)"},
	}
)

// StyleForPath returns the comment style for a file based on its extension.
func StyleForPath(path string) (CommentStyle, bool) {
	style, ok := styleByExt[strings.ToLower(filepath.Ext(path))]
	return style, ok
}

// density analyzer states.
const (
	stateCode = iota
	stateInBlockComment
)

// Analyze computes the line-category counts and comment ratio for a file.
// It runs a two-state machine over the lines: CODE and IN_BLOCK_COMMENT.
// The heuristic deliberately does not disambiguate nested block comments or
// markers inside string literals; malformed input can overcount comments,
// which is why the code-line count is clamped instead of raising an error.
func Analyze(path string, lines []string) schema.FileDensity {
	style, _ := StyleForPath(path)

	metric := schema.FileDensity{
		Path:       path,
		TotalLines: len(lines),
	}

	state := stateCode
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if state == stateInBlockComment {
			metric.CommentLines++
			if strings.Contains(trimmed, style.BlockClose) {
				state = stateCode
			}
			continue
		}

		if trimmed == "" {
			metric.BlankLines++
			continue
		}

		if matchesLineMarker(trimmed, style.Line) {
			metric.CommentLines++
			continue
		}

		if style.BlockOpen != "" {
			if idx := strings.Index(trimmed, style.BlockOpen); idx >= 0 {
				metric.CommentLines++
				rest := trimmed[idx+len(style.BlockOpen):]
				if !strings.Contains(rest, style.BlockClose) {
					state = stateInBlockComment
				}
				continue
			}
		}
	}

	metric.CodeLines = metric.TotalLines - metric.BlankLines - metric.CommentLines
	if metric.CodeLines < 0 {
		metric.CodeLines = 0
	}
	if metric.CodeLines > 0 {
		metric.Ratio = 100 * float64(metric.CommentLines) / float64(metric.CodeLines)
	}
	return metric
}

// matchesLineMarker reports whether a trimmed line starts with one of the
// single-line comment markers.
func matchesLineMarker(trimmed string, markers []string) bool {
	for _, m := range markers {
		if strings.HasPrefix(trimmed, m) {
			return true
		}
	}
	return false
}

// SplitLines breaks file content into lines the way the analyzer expects:
// a trailing newline does not produce a phantom empty final line.
func SplitLines(content []byte) []string {
	s := string(content)
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
