package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/docgap/docgap/schema"
)

// commitDelimiter separates commit records in multi-commit log output.
// Commit bodies are free text, so a plain newline is not a safe separator.
const commitDelimiter = "<<DOCGAP_COMMIT>>"

// prettyFormat emits one header line (hash|author|email|date|subject)
// followed by the raw body.
const prettyFormat = "--pretty=format:" + commitDelimiter + "%H|%an|%ae|%ad|%s%n%b"

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(_ context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.Command("git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetRepoHash implements the GitClient interface.
func (c *LocalGitClient) GetRepoHash(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// SearchCommits implements the GitClient interface.
func (c *LocalGitClient) SearchCommits(ctx context.Context, repoPath, pattern string, since time.Time) ([]schema.CommitInfo, error) {
	args := []string{
		"log",
		"--all",
		"--regexp-ignore-case",
		"--grep=" + pattern,
		"--date=iso-strict",
		prettyFormat,
	}
	if !since.IsZero() {
		args = append(args, "--since="+since.Format(DateTimeFormat))
	}
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	return parseCommitRecords(string(out))
}

// GetCommitInfo implements the GitClient interface.
func (c *LocalGitClient) GetCommitInfo(ctx context.Context, repoPath, ref string) (schema.CommitInfo, error) {
	out, err := c.Run(ctx, repoPath, "show", "--no-patch", "--date=iso-strict", prettyFormat, ref)
	if err != nil {
		return schema.CommitInfo{}, err
	}
	commits, err := parseCommitRecords(string(out))
	if err != nil {
		return schema.CommitInfo{}, err
	}
	if len(commits) == 0 {
		return schema.CommitInfo{}, fmt.Errorf("no commit found for ref %q", ref)
	}
	return commits[0], nil
}

// ListChangedFiles implements the GitClient interface.
func (c *LocalGitClient) ListChangedFiles(ctx context.Context, repoPath, ref string) ([]string, error) {
	out, err := c.Run(ctx, repoPath, "diff-tree", "--no-commit-id", "--name-only", "-r", ref)
	if err != nil {
		return nil, err
	}
	files := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(files) == 1 && files[0] == "" {
		return []string{}, nil
	}
	return files, nil
}

// GetParentHash implements the GitClient interface. The first-parent rule
// makes the pre-fix revision deterministic even for merge commits.
func (c *LocalGitClient) GetParentHash(ctx context.Context, repoPath, ref string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", ref+"^")
	if err != nil {
		return "", fmt.Errorf("cannot resolve parent of %q: %w", ref, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// ShowFileAtRef implements the GitClient interface.
func (c *LocalGitClient) ShowFileAtRef(ctx context.Context, repoPath, ref, path string) ([]byte, error) {
	return c.Run(ctx, repoPath, "show", ref+":"+path)
}

// DiffUnified implements the GitClient interface.
func (c *LocalGitClient) DiffUnified(ctx context.Context, repoPath, base, target, path string) ([]byte, error) {
	return c.Run(ctx, repoPath, "diff", base, target, "--", path)
}

// DiffStat implements the GitClient interface.
func (c *LocalGitClient) DiffStat(ctx context.Context, repoPath, base, target, path string) ([]byte, error) {
	return c.Run(ctx, repoPath, "diff", "--stat", base, target, "--", path)
}

// parseCommitRecords parses delimiter-separated log output into CommitInfo values.
func parseCommitRecords(raw string) ([]schema.CommitInfo, error) {
	records := strings.Split(raw, commitDelimiter)
	commits := make([]schema.CommitInfo, 0, len(records))
	for _, rec := range records {
		rec = strings.TrimSpace(rec)
		if rec == "" {
			continue
		}
		header, body, _ := strings.Cut(rec, "\n")
		fields := strings.SplitN(header, "|", 5)
		if len(fields) != 5 {
			return nil, fmt.Errorf("malformed commit record: %q", header)
		}
		date, err := time.Parse(time.RFC3339, fields[3])
		if err != nil {
			return nil, fmt.Errorf("malformed commit date %q: %w", fields[3], err)
		}
		commits = append(commits, schema.CommitInfo{
			Hash:    fields[0],
			Author:  fields[1],
			Email:   fields[2],
			Date:    date,
			Subject: fields[4],
			Body:    strings.TrimSpace(body),
		})
	}
	return commits, nil
}
