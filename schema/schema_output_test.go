package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPlainLabel(t *testing.T) {
	testCases := []struct {
		ratio float64
		want  string
	}{
		{0, "Critical"},
		{4.99, "Critical"},
		{5, "High"},
		{14.99, "High"},
		{15, "Moderate"},
		{29.99, "Moderate"},
		{30, "Low"},
		{100, "Low"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, GetPlainLabel(tc.ratio))
	}
}

func TestEnrichRankedFiles(t *testing.T) {
	t.Run("ranks are one-based and labels follow ratio", func(t *testing.T) {
		files := []RankedFile{
			{FileDensity: FileDensity{Path: "a.c", Ratio: 2}},
			{FileDensity: FileDensity{Path: "b.c", Ratio: 40}},
		}
		enriched := EnrichRankedFiles(files)
		assert.Len(t, enriched, 2)
		assert.Equal(t, 1, enriched[0].Rank)
		assert.Equal(t, "Critical", enriched[0].Label)
		assert.Equal(t, 2, enriched[1].Rank)
		assert.Equal(t, "Low", enriched[1].Label)
		assert.Equal(t, "b.c", enriched[1].Path)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, EnrichRankedFiles(nil))
	})
}

func TestFormatIdentifiers(t *testing.T) {
	assert.Equal(t, "CVE-2023-3446 CVE-2023-3817", FormatIdentifiers([]string{"CVE-2023-3446", "CVE-2023-3817"}))
	assert.Equal(t, "", FormatIdentifiers(nil))
}
