// Package schema has configs, models and shared constants for all parts of docgap.
package schema

import "time"

// FileDensity holds the line-category counts and comment ratio for a single
// source file. It is created once per analyzed file and never mutated.
type FileDensity struct {
	Path         string  `json:"path"`          // Relative path to the file in the repository
	TotalLines   int     `json:"total_lines"`   // All lines in the file
	BlankLines   int     `json:"blank_lines"`   // Whitespace-only lines
	CommentLines int     `json:"comment_lines"` // Lines attributed to comments by the state machine
	CodeLines    int     `json:"code_lines"`    // TotalLines - BlankLines - CommentLines, clamped to >= 0
	Ratio        float64 `json:"ratio"`         // 100 * CommentLines / CodeLines, 0 when CodeLines is 0
}

// CommitInfo holds the metadata of a single commit as reported by the VCS.
type CommitInfo struct {
	Hash    string    `json:"hash"`
	Author  string    `json:"author"`
	Email   string    `json:"email"`
	Date    time.Time `json:"date"`
	Subject string    `json:"subject"`
	Body    string    `json:"body,omitempty"`
}

// SecurityCommit is one (commit, identifier) pair discovered by the history
// miner. A commit that fixes two identifiers yields two SecurityCommit values.
type SecurityCommit struct {
	Commit      CommitInfo `json:"commit"`
	Identifier  string     `json:"identifier"`
	Description string     `json:"description,omitempty"`
	Files       []string   `json:"files"`   // Source files touched by the commit
	Curated     bool       `json:"curated"` // True when sourced from the curated advisories list
}

// RankedFile joins a file's density metric with its security exposure.
// The ranked collection holds each path exactly once, ordered ascending by
// ratio with ties broken by path.
type RankedFile struct {
	FileDensity
	Identifiers []string `json:"identifiers"` // Sorted, no duplicates
	FixCommit   string   `json:"fix_commit"`  // First commit that exposed this path (curated data wins)
}

// MarkerFinding is a single vulnerability-marker hit in a pre-fix snapshot.
type MarkerFinding struct {
	Line    int    `json:"line"` // 1-based line number
	Keyword string `json:"keyword"`
	Text    string `json:"text"` // The matching line, trimmed
}

// DiffViews holds the three views of the same change between the parent and
// fix revisions.
type DiffViews struct {
	Unified   string `json:"unified"`
	WordLevel string `json:"word_level"`
	Stat      string `json:"stat"`
}

// ForensicBundle is the artifact set produced by the forensic extraction
// pipeline for one target file. It is assembled phase by phase and never
// mutated after the pipeline completes.
type ForensicBundle struct {
	TargetPath     string          `json:"target_path"`
	Identifiers    []string        `json:"identifiers"`
	Metric         FileDensity     `json:"metric"`
	FixCommit      CommitInfo      `json:"fix_commit"`
	ParentCommit   CommitInfo      `json:"parent_commit"`
	PreFixSnapshot []byte          `json:"-"`
	Diffs          DiffViews       `json:"diffs"`
	Markers        []MarkerFinding `json:"markers"`
	Summary        string          `json:"summary"`
	Partial        bool            `json:"partial"` // True when phase 5 degraded to a partial report
}
