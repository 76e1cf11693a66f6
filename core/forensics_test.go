package core

import (
	"context"
	"testing"
	"time"

	"github.com/docgap/docgap/internal/contract"
	"github.com/docgap/docgap/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const preFixSource = `int dh_check(DH *dh) {
    /* missing length validation */
    return 1;
}
`

const postFixSource = `int dh_check(DH *dh) {
    if (!length_check(dh))
        return 0;
    return 1;
}
`

// forensicTarget is a ranked row as the correlation engine would produce it.
func forensicTarget() schema.RankedFile {
	return schema.RankedFile{
		FileDensity: schema.FileDensity{
			Path:         "crypto/dh/dh_check.c",
			TotalLines:   4,
			CommentLines: 1,
			CodeLines:    3,
			Ratio:        33.33,
		},
		Identifiers: []string{"CVE-2023-3817"},
		FixCommit:   "fix456",
	}
}

// wireHappyPath sets up the mock for a full five-phase run.
func wireHappyPath(ctx context.Context, cfg *contract.Config, client *contract.MockGitClient) {
	fixInfo := schema.CommitInfo{
		Hash:    "fix456",
		Author:  "Jo Smith",
		Email:   "jo@example.org",
		Date:    time.Date(2023, 7, 19, 10, 0, 0, 0, time.UTC),
		Subject: "Fix excessive time in DH checks (CVE-2023-3817)",
	}
	parentInfo := schema.CommitInfo{
		Hash:    "parent123",
		Author:  "Pat Doe",
		Email:   "pat@example.org",
		Date:    time.Date(2023, 5, 2, 9, 0, 0, 0, time.UTC),
		Subject: "Refactor DH parameter handling",
	}
	client.On("GetCommitInfo", ctx, cfg.RepoPath, "fix456").Return(fixInfo, nil)
	client.On("GetParentHash", ctx, cfg.RepoPath, "fix456").Return("parent123", nil)
	client.On("GetCommitInfo", ctx, cfg.RepoPath, "parent123").Return(parentInfo, nil)
	client.On("ShowFileAtRef", ctx, cfg.RepoPath, "parent123", "crypto/dh/dh_check.c").Return([]byte(preFixSource), nil)
	client.On("DiffUnified", ctx, cfg.RepoPath, "parent123", "fix456", "crypto/dh/dh_check.c").Return([]byte("--- a\n+++ b\n"), nil)
	client.On("DiffStat", ctx, cfg.RepoPath, "parent123", "fix456", "crypto/dh/dh_check.c").Return([]byte(" dh_check.c | 3 ++-\n"), nil)
	client.On("ShowFileAtRef", ctx, cfg.RepoPath, "fix456", "crypto/dh/dh_check.c").Return([]byte(postFixSource), nil)
}

// TestRunForensics tests the five-phase pipeline.
func TestRunForensics(t *testing.T) {
	ctx := context.Background()

	t.Run("full bundle on the happy path", func(t *testing.T) {
		cfg := &contract.Config{RepoPath: t.TempDir(), Markers: contract.DefaultMarkers}
		client := &contract.MockGitClient{}
		wireHappyPath(ctx, cfg, client)

		bundle, err := RunForensics(ctx, cfg, client, forensicTarget())
		require.NoError(t, err)
		assert.False(t, bundle.Partial)
		assert.Equal(t, "fix456", bundle.FixCommit.Hash)
		assert.Equal(t, "parent123", bundle.ParentCommit.Hash)
		assert.Equal(t, []byte(preFixSource), bundle.PreFixSnapshot)
		assert.NotEmpty(t, bundle.Diffs.Unified)
		assert.NotEmpty(t, bundle.Diffs.Stat)
		assert.Contains(t, bundle.Diffs.WordLevel, "{+")
		assert.Contains(t, bundle.Diffs.WordLevel, "[-")
		assert.Contains(t, bundle.Summary, "# Investigation Summary")
		assert.Contains(t, bundle.Summary, "CVE-2023-3817")
		assert.Contains(t, bundle.Summary, "2023-05-02")
		assert.Contains(t, bundle.Summary, "2023-07-19")
	})

	t.Run("markers found in pre-fix snapshot", func(t *testing.T) {
		cfg := &contract.Config{RepoPath: t.TempDir(), Markers: contract.DefaultMarkers}
		client := &contract.MockGitClient{}
		wireHappyPath(ctx, cfg, client)

		bundle, err := RunForensics(ctx, cfg, client, forensicTarget())
		require.NoError(t, err)
		// Pre-fix source mentions "valid" (validation) and "length".
		keywords := make(map[string]bool)
		for _, f := range bundle.Markers {
			keywords[f.Keyword] = true
		}
		assert.True(t, keywords["valid"])
		assert.True(t, keywords["length"])
	})

	t.Run("metadata failure is fatal", func(t *testing.T) {
		cfg := &contract.Config{RepoPath: t.TempDir(), Markers: contract.DefaultMarkers}
		client := &contract.MockGitClient{}
		client.On("GetCommitInfo", ctx, cfg.RepoPath, "fix456").Return(schema.CommitInfo{}, assert.AnError)

		bundle, err := RunForensics(ctx, cfg, client, forensicTarget())
		require.Error(t, err)
		assert.Nil(t, bundle)
		assert.Contains(t, err.Error(), "metadata extraction")
		client.AssertNotCalled(t, "GetParentHash", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unresolvable parent is fatal", func(t *testing.T) {
		cfg := &contract.Config{RepoPath: t.TempDir(), Markers: contract.DefaultMarkers}
		client := &contract.MockGitClient{}
		client.On("GetCommitInfo", ctx, cfg.RepoPath, "fix456").Return(
			schema.CommitInfo{Hash: "fix456"}, nil)
		client.On("GetParentHash", ctx, cfg.RepoPath, "fix456").Return("", assert.AnError)

		_, err := RunForensics(ctx, cfg, client, forensicTarget())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pre-fix snapshot")
	})

	t.Run("identical inputs produce identical bundles", func(t *testing.T) {
		cfg := &contract.Config{RepoPath: t.TempDir(), Markers: contract.DefaultMarkers}
		client := &contract.MockGitClient{}
		wireHappyPath(ctx, cfg, client)

		first, err := RunForensics(ctx, cfg, client, forensicTarget())
		require.NoError(t, err)
		second, err := RunForensics(ctx, cfg, client, forensicTarget())
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

// TestWordLevelDiff tests the inline diff rendering.
func TestWordLevelDiff(t *testing.T) {
	t.Run("insertions and deletions are wrapped", func(t *testing.T) {
		out := wordLevelDiff("return n;", "return check(n);")
		assert.Contains(t, out, "{+")
		assert.Contains(t, out, "+}")
	})

	t.Run("identical inputs pass through", func(t *testing.T) {
		out := wordLevelDiff("same\n", "same\n")
		assert.Equal(t, "same\n", out)
	})

	t.Run("pure deletion", func(t *testing.T) {
		out := wordLevelDiff("keep drop\n", "keep \n")
		assert.Contains(t, out, "[-drop-]")
	})
}

// TestMarkerCounts tests the summary aggregation helper.
func TestMarkerCounts(t *testing.T) {
	findings := []schema.MarkerFinding{
		{Line: 1, Keyword: "valid"},
		{Line: 4, Keyword: "check"},
		{Line: 9, Keyword: "valid"},
	}
	lines := markerCounts(findings)
	require.Len(t, lines, 2)
	assert.Equal(t, "`check`: 1", lines[0])
	assert.Equal(t, "`valid`: 2", lines[1])
}

// TestShortHash tests hash abbreviation.
func TestShortHash(t *testing.T) {
	assert.Equal(t, "abc", shortHash("abc"))
	assert.Equal(t, "0123456789ab", shortHash("0123456789abcdef0123"))
}
