package outwriter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/docgap/docgap/internal/contract"
	"github.com/docgap/docgap/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRanking() []schema.RankedFile {
	return []schema.RankedFile{
		{
			FileDensity: schema.FileDensity{
				Path: "crypto/dh/dh_check.c", TotalLines: 120, BlankLines: 10,
				CommentLines: 5, CodeLines: 105, Ratio: 4.761904761904762,
			},
			Identifiers: []string{"CVE-2023-3446", "CVE-2023-3817"},
			FixCommit:   "fix456",
		},
		{
			FileDensity: schema.FileDensity{
				Path: "ssl/statem/statem.c", TotalLines: 200, BlankLines: 20,
				CommentLines: 60, CodeLines: 120, Ratio: 50,
			},
			Identifiers: []string{"CVE-2021-3712"},
			FixCommit:   "fix789",
		},
	}
}

// TestWriteRankCSV tests the fixed CSV artifact shape.
func TestWriteRankCSV(t *testing.T) {
	t.Run("header and rows", func(t *testing.T) {
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		require.NoError(t, writeRankCSV(w, sampleRanking()))
		w.Flush()

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "file_path,total_lines,comment_lines,code_lines,comment_ratio_pct,identifiers",
			lines[0])
		assert.Equal(t, "crypto/dh/dh_check.c,120,5,105,4.76,CVE-2023-3446 CVE-2023-3817", lines[1])
		assert.Equal(t, "ssl/statem/statem.c,200,60,120,50.00,CVE-2021-3712", lines[2])
	})

	t.Run("ratio always carries two decimals", func(t *testing.T) {
		ranked := []schema.RankedFile{{
			FileDensity: schema.FileDensity{Path: "a.c", Ratio: 0},
		}}
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		require.NoError(t, writeRankCSV(w, ranked))
		w.Flush()
		assert.Contains(t, buf.String(), "a.c,0,0,0,0.00,")
	})

	t.Run("identical input produces identical bytes", func(t *testing.T) {
		var first, second bytes.Buffer
		w1 := csv.NewWriter(&first)
		require.NoError(t, writeRankCSV(w1, sampleRanking()))
		w1.Flush()
		w2 := csv.NewWriter(&second)
		require.NoError(t, writeRankCSV(w2, sampleRanking()))
		w2.Flush()
		assert.Equal(t, first.Bytes(), second.Bytes())
	})
}

// TestWriteRankTable tests the human-readable table output.
func TestWriteRankTable(t *testing.T) {
	cfg := &contract.Config{
		ResultLimit:  25,
		Precision:    2,
		UseColors:    false,
		Width:        120,
		CacheBackend: schema.SQLiteBackend,
	}
	fmtFloat := createFloatFormatter(cfg.Precision)

	var buf bytes.Buffer
	err := writeRankTable(sampleRanking(), 2, cfg, fmtFloat, 5*time.Millisecond, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "dh_check.c")
	assert.Contains(t, out, "4.76")
	assert.Contains(t, out, "Critical")
	assert.Contains(t, out, "CVE-2023-3446 CVE-2023-3817")
	assert.Contains(t, out, "Showing 2 of 2 exposed files (3 distinct identifiers)")
	assert.Contains(t, out, "Cache backend: sqlite")
}
