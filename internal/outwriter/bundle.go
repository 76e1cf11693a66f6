package outwriter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docgap/docgap/schema"
)

// Bundle directory layout. The layout is fixed so downstream tooling can
// consume the artifacts without discovery logic.
const (
	bundleOriginalDir = "original"
	bundleDiffsDir    = "analysis/diffs"
	bundleMetaDir     = "analysis/metadata"
	bundleSummaryName = "analysis/INVESTIGATION_SUMMARY.md"
)

// WriteBundle materializes a forensic bundle in its fixed directory layout.
// Writes are plain truncating writes, so re-running with identical inputs
// overwrites prior outputs with identical bytes.
func WriteBundle(bundle *schema.ForensicBundle, outDir string) error {
	for _, dir := range []string{bundleOriginalDir, bundleDiffsDir, bundleMetaDir} {
		if err := os.MkdirAll(filepath.Join(outDir, dir), 0o755); err != nil {
			return fmt.Errorf("cannot create bundle directory: %w", err)
		}
	}

	snapshotName := filepath.Base(bundle.TargetPath)
	files := map[string][]byte{
		filepath.Join(bundleOriginalDir, snapshotName):              bundle.PreFixSnapshot,
		filepath.Join(bundleDiffsDir, "unified.diff"):               []byte(bundle.Diffs.Unified),
		filepath.Join(bundleDiffsDir, "word-diff.txt"):              []byte(bundle.Diffs.WordLevel),
		filepath.Join(bundleDiffsDir, "stats.txt"):                  []byte(bundle.Diffs.Stat),
		filepath.Join(bundleMetaDir, "timeline.txt"):                []byte(renderTimelineFile(bundle)),
		filepath.Join(bundleMetaDir, "vulnerability_locations.txt"): []byte(renderMarkerFile(bundle)),
		bundleSummaryName: []byte(bundle.Summary),
	}

	for name, content := range files {
		if err := os.WriteFile(filepath.Join(outDir, name), content, 0o644); err != nil {
			return fmt.Errorf("cannot write bundle file %s: %w", name, err)
		}
	}
	return nil
}

// renderTimelineFile formats the commit chronology as plain text. Only commit
// data appears, never the wall clock, to keep re-runs byte-identical.
func renderTimelineFile(bundle *schema.ForensicBundle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Target: %s\n", bundle.TargetPath)
	if len(bundle.Identifiers) > 0 {
		fmt.Fprintf(&b, "Identifiers: %s\n", strings.Join(bundle.Identifiers, " "))
	}
	b.WriteString("\n")

	parent := bundle.ParentCommit
	fix := bundle.FixCommit
	fmt.Fprintf(&b, "%s  %s  parent commit (vulnerable state)\n", parent.Date.Format("2006-01-02 15:04:05 -0700"), parent.Hash)
	fmt.Fprintf(&b, "                             author: %s <%s>\n", parent.Author, parent.Email)
	fmt.Fprintf(&b, "                             %s\n\n", parent.Subject)
	fmt.Fprintf(&b, "%s  %s  fix commit\n", fix.Date.Format("2006-01-02 15:04:05 -0700"), fix.Hash)
	fmt.Fprintf(&b, "                             author: %s <%s>\n", fix.Author, fix.Email)
	fmt.Fprintf(&b, "                             %s\n", fix.Subject)
	if fix.Body != "" {
		b.WriteString("\n" + fix.Body + "\n")
	}
	return b.String()
}

// renderMarkerFile formats the phase-4 findings, one per line.
func renderMarkerFile(bundle *schema.ForensicBundle) string {
	if len(bundle.Markers) == 0 {
		return "no markers found\n"
	}
	var b strings.Builder
	for _, f := range bundle.Markers {
		fmt.Fprintf(&b, "line %d [%s]: %s\n", f.Line, f.Keyword, f.Text)
	}
	return b.String()
}
