package outwriter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/docgap/docgap/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBundle() *schema.ForensicBundle {
	return &schema.ForensicBundle{
		TargetPath:  "crypto/dh/dh_check.c",
		Identifiers: []string{"CVE-2023-3817"},
		Metric:      schema.FileDensity{Path: "crypto/dh/dh_check.c", TotalLines: 4, CodeLines: 3, CommentLines: 1, Ratio: 33.33},
		FixCommit: schema.CommitInfo{
			Hash: "fix456", Author: "Jo Smith", Email: "jo@example.org",
			Date:    time.Date(2023, 7, 19, 10, 0, 0, 0, time.UTC),
			Subject: "Fix excessive time in DH checks",
			Body:    "Reported by fuzzing.",
		},
		ParentCommit: schema.CommitInfo{
			Hash: "parent123", Author: "Pat Doe", Email: "pat@example.org",
			Date:    time.Date(2023, 5, 2, 9, 0, 0, 0, time.UTC),
			Subject: "Refactor DH parameter handling",
		},
		PreFixSnapshot: []byte("int dh_check(DH *dh) { return 1; }\n"),
		Diffs: schema.DiffViews{
			Unified:   "--- a\n+++ b\n",
			WordLevel: "return {+check(+}1{+)+};",
			Stat:      " dh_check.c | 3 ++-\n",
		},
		Markers: []schema.MarkerFinding{
			{Line: 2, Keyword: "valid", Text: "/* missing length validation */"},
		},
		Summary: "# Investigation Summary\n",
	}
}

// TestWriteBundle tests the fixed bundle directory layout.
func TestWriteBundle(t *testing.T) {
	t.Run("layout and contents", func(t *testing.T) {
		outDir := t.TempDir()
		require.NoError(t, WriteBundle(sampleBundle(), outDir))

		snapshot, err := os.ReadFile(filepath.Join(outDir, "original", "dh_check.c"))
		require.NoError(t, err)
		assert.Equal(t, sampleBundle().PreFixSnapshot, snapshot)

		for _, name := range []string{
			"analysis/diffs/unified.diff",
			"analysis/diffs/word-diff.txt",
			"analysis/diffs/stats.txt",
			"analysis/metadata/timeline.txt",
			"analysis/metadata/vulnerability_locations.txt",
			"analysis/INVESTIGATION_SUMMARY.md",
		} {
			_, err := os.Stat(filepath.Join(outDir, filepath.FromSlash(name)))
			assert.NoError(t, err, name)
		}

		timeline, err := os.ReadFile(filepath.Join(outDir, "analysis", "metadata", "timeline.txt"))
		require.NoError(t, err)
		assert.Contains(t, string(timeline), "parent123")
		assert.Contains(t, string(timeline), "fix456")
		assert.Contains(t, string(timeline), "Reported by fuzzing.")

		locations, err := os.ReadFile(filepath.Join(outDir, "analysis", "metadata", "vulnerability_locations.txt"))
		require.NoError(t, err)
		assert.Equal(t, "line 2 [valid]: /* missing length validation */\n", string(locations))
	})

	t.Run("no markers found placeholder", func(t *testing.T) {
		bundle := sampleBundle()
		bundle.Markers = nil
		outDir := t.TempDir()
		require.NoError(t, WriteBundle(bundle, outDir))

		locations, err := os.ReadFile(filepath.Join(outDir, "analysis", "metadata", "vulnerability_locations.txt"))
		require.NoError(t, err)
		assert.Equal(t, "no markers found\n", string(locations))
	})

	t.Run("rewriting is idempotent", func(t *testing.T) {
		outDir := t.TempDir()
		require.NoError(t, WriteBundle(sampleBundle(), outDir))
		first, err := os.ReadFile(filepath.Join(outDir, "analysis", "metadata", "timeline.txt"))
		require.NoError(t, err)

		require.NoError(t, WriteBundle(sampleBundle(), outDir))
		second, err := os.ReadFile(filepath.Join(outDir, "analysis", "metadata", "timeline.txt"))
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}
