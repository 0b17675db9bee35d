package githubapi

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

// MockSourceAPI is a mock implementation of SourceAPI for testing.
type MockSourceAPI struct {
	mock.Mock
}

var _ contract.SourceAPI = &MockSourceAPI{} // Compile-time check

// FetchCommits implements the SourceAPI interface.
func (m *MockSourceAPI) FetchCommits(ctx context.Context, repo schema.RepoRef, author string) ([]schema.CommitEvent, error) {
	args := m.Called(ctx, repo, author)
	commits, _ := args.Get(0).([]schema.CommitEvent)
	return commits, args.Error(1)
}

// FetchPullRequests implements the SourceAPI interface.
func (m *MockSourceAPI) FetchPullRequests(ctx context.Context, repo schema.RepoRef, author string) ([]schema.PullRequestEvent, error) {
	args := m.Called(ctx, repo, author)
	prs, _ := args.Get(0).([]schema.PullRequestEvent)
	return prs, args.Error(1)
}

// FetchRepositoryInsights implements the SourceAPI interface.
func (m *MockSourceAPI) FetchRepositoryInsights(ctx context.Context, repo schema.RepoRef) (schema.RepositoryInsights, error) {
	args := m.Called(ctx, repo)
	insights, _ := args.Get(0).(schema.RepositoryInsights)
	return insights, args.Error(1)
}
