// Package contract provides interfaces and shared utilities for docgap's internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/docgap/docgap/schema"
)

// GitClient defines the version-control operations needed by the miner and
// the forensic pipeline. This allows the core logic to be tested without a
// real git executable.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command and returns the combined output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// --- Repository Resolution ---

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetRepoHash returns the current HEAD commit hash of the repository.
	GetRepoHash(ctx context.Context, repoPath string) (string, error)

	// --- History Mining ---

	// SearchCommits returns the commits whose message matches the given
	// pattern, newest first, limited to commits after the since date when it
	// is non-zero. Zero matches is a valid result, not an error.
	SearchCommits(ctx context.Context, repoPath, pattern string, since time.Time) ([]schema.CommitInfo, error)

	// GetCommitInfo returns the metadata of a single commit, including its
	// full message body.
	GetCommitInfo(ctx context.Context, repoPath, ref string) (schema.CommitInfo, error)

	// ListChangedFiles returns the paths changed by the given commit.
	ListChangedFiles(ctx context.Context, repoPath, ref string) ([]string, error)

	// --- Forensic Extraction ---

	// GetParentHash resolves the single first ancestor of the given commit.
	GetParentHash(ctx context.Context, repoPath, ref string) (string, error)

	// ShowFileAtRef materializes a file's content at a specific revision.
	ShowFileAtRef(ctx context.Context, repoPath, ref, path string) ([]byte, error)

	// DiffUnified produces a unified diff of one path between two revisions.
	DiffUnified(ctx context.Context, repoPath, base, target, path string) ([]byte, error)

	// DiffStat produces the summary statistics view of the same change.
	DiffStat(ctx context.Context, repoPath, base, target, path string) ([]byte, error)
}

// CacheManager defines the interface for managing the mining cache store.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetMiningStore() CacheStore
}

// CacheStore defines the interface for cache data storage.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Clear() error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}
