package contract

import (
	"context"
	"time"

	"github.com/docgap/docgap/schema"
	"github.com/stretchr/testify/mock"
)

// MockGitClient is a testify mock for the GitClient type.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	var mockArgs []any
	mockArgs = append(mockArgs, ctx, repoPath)
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	root, _ := ret.Get(0).(string)
	return root, ret.Error(1)
}

// GetRepoHash implements the GitClient interface.
func (m *MockGitClient) GetRepoHash(ctx context.Context, repoPath string) (string, error) {
	ret := m.Called(ctx, repoPath)
	hash, _ := ret.Get(0).(string)
	return hash, ret.Error(1)
}

// SearchCommits implements the GitClient interface.
func (m *MockGitClient) SearchCommits(ctx context.Context, repoPath, pattern string, since time.Time) ([]schema.CommitInfo, error) {
	ret := m.Called(ctx, repoPath, pattern, since)
	commits, _ := ret.Get(0).([]schema.CommitInfo)
	return commits, ret.Error(1)
}

// GetCommitInfo implements the GitClient interface.
func (m *MockGitClient) GetCommitInfo(ctx context.Context, repoPath, ref string) (schema.CommitInfo, error) {
	ret := m.Called(ctx, repoPath, ref)
	info, _ := ret.Get(0).(schema.CommitInfo)
	return info, ret.Error(1)
}

// ListChangedFiles implements the GitClient interface.
func (m *MockGitClient) ListChangedFiles(ctx context.Context, repoPath, ref string) ([]string, error) {
	ret := m.Called(ctx, repoPath, ref)
	files, _ := ret.Get(0).([]string)
	return files, ret.Error(1)
}

// GetParentHash implements the GitClient interface.
func (m *MockGitClient) GetParentHash(ctx context.Context, repoPath, ref string) (string, error) {
	ret := m.Called(ctx, repoPath, ref)
	hash, _ := ret.Get(0).(string)
	return hash, ret.Error(1)
}

// ShowFileAtRef implements the GitClient interface.
func (m *MockGitClient) ShowFileAtRef(ctx context.Context, repoPath, ref, path string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, ref, path)
	content, _ := ret.Get(0).([]byte)
	return content, ret.Error(1)
}

// DiffUnified implements the GitClient interface.
func (m *MockGitClient) DiffUnified(ctx context.Context, repoPath, base, target, path string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, base, target, path)
	content, _ := ret.Get(0).([]byte)
	return content, ret.Error(1)
}

// DiffStat implements the GitClient interface.
func (m *MockGitClient) DiffStat(ctx context.Context, repoPath, base, target, path string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, base, target, path)
	content, _ := ret.Get(0).([]byte)
	return content, ret.Error(1)
}
