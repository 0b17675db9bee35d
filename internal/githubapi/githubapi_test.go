package githubapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

func testClient(serverURL string) *Client {
	return NewClient(&contract.Config{BaseURL: serverURL, Token: "test-token"})
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestFetchCommitsParsesAndEnriches(t *testing.T) {
	var gotAuth, gotAccept, gotAuthor string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/api/commits":
			gotAuth = r.Header.Get("Authorization")
			gotAccept = r.Header.Get("Accept")
			gotAuthor = r.URL.Query().Get("author")
			writeJSON(t, w, []map[string]any{
				{
					"sha": "abc123",
					"commit": map[string]any{
						"message": "fix login flow",
						"author": map[string]any{
							"email": "dev@acme.io",
							"date":  "2024-03-08T10:00:00Z",
						},
					},
				},
			})
		case "/repos/acme/api/commits/abc123":
			writeJSON(t, w, map[string]any{
				"stats": map[string]any{"additions": 12, "deletions": 4},
				"files": []map[string]any{{"filename": "auth.go"}, {"filename": "auth_test.go"}},
			})
		default:
			t.Errorf("unexpected request path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := testClient(server.URL)
	commits, err := client.FetchCommits(context.Background(), schema.RepoRef{Owner: "acme", Name: "api"}, "octocat")
	require.NoError(t, err)
	require.Len(t, commits, 1)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "application/vnd.github+json", gotAccept)
	assert.Equal(t, "octocat", gotAuthor)

	commit := commits[0]
	assert.Equal(t, "abc123", commit.SHA)
	assert.Equal(t, "fix login flow", commit.Message)
	assert.Equal(t, "dev@acme.io", commit.AuthorEmail)
	assert.Equal(t, "2024-03-08T10:00:00Z", commit.CommittedAt)
	assert.Equal(t, 12, commit.Additions)
	assert.Equal(t, 4, commit.Deletions)
	assert.Equal(t, 2, commit.ChangedFiles)
}

func TestFetchCommitsEnrichmentFailureIsPartial(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/api/commits":
			writeJSON(t, w, []map[string]any{
				{"sha": "abc123", "commit": map[string]any{"message": "m", "author": map[string]any{"email": "e", "date": "d"}}},
			})
		default:
			// Detail endpoint is down
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer server.Close()

	client := testClient(server.URL)
	commits, err := client.FetchCommits(context.Background(), schema.RepoRef{Owner: "acme", Name: "api"}, "")
	require.NoError(t, err, "Detail failures should not fail the fetch")
	require.Len(t, commits, 1)
	assert.Zero(t, commits[0].Additions)
	assert.Zero(t, commits[0].ChangedFiles)
}

func TestFetchCommitsListError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"API rate limit exceeded"}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.FetchCommits(context.Background(), schema.RepoRef{Owner: "acme", Name: "api"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "API rate limit exceeded")
}

func TestFetchPullRequestsFiltersAuthor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/api/pulls":
			assert.Equal(t, "all", r.URL.Query().Get("state"))
			assert.Equal(t, "updated", r.URL.Query().Get("sort"))
			writeJSON(t, w, []map[string]any{
				{"number": 1, "title": "mine", "state": "closed", "created_at": "2024-03-01T00:00:00Z", "merged_at": "2024-03-02T00:00:00Z", "user": map[string]any{"login": "octocat"}},
				{"number": 2, "title": "theirs", "state": "open", "created_at": "2024-03-03T00:00:00Z", "user": map[string]any{"login": "hubber"}},
			})
		case "/repos/acme/api/pulls/1":
			writeJSON(t, w, map[string]any{"additions": 30, "deletions": 8})
		case "/repos/acme/api/pulls/1/reviews":
			writeJSON(t, w, []map[string]any{
				{"user": map[string]any{"login": "hubber"}, "state": "APPROVED", "submitted_at": "2024-03-01T12:00:00Z"},
			})
		case "/repos/acme/api/pulls/1/commits":
			writeJSON(t, w, []map[string]any{
				{"sha": "abc123", "commit": map[string]any{"author": map[string]any{"date": "2024-03-01T10:00:00Z"}}},
			})
		default:
			t.Errorf("unexpected request path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := testClient(server.URL)
	prs, err := client.FetchPullRequests(context.Background(), schema.RepoRef{Owner: "acme", Name: "api"}, "octocat")
	require.NoError(t, err)
	require.Len(t, prs, 1, "Only octocat's pull request should survive the filter")

	pr := prs[0]
	assert.Equal(t, 1, pr.Number)
	assert.Equal(t, "octocat", pr.Author)
	assert.True(t, pr.Merged())
	assert.Equal(t, 30, pr.Additions)
	require.Len(t, pr.Reviews, 1)
	assert.Equal(t, "hubber", pr.Reviews[0].Reviewer)
	assert.Equal(t, "APPROVED", pr.Reviews[0].State)
	require.Len(t, pr.Commits, 1)
	assert.Equal(t, "abc123", pr.Commits[0].SHA)
}

func TestFetchRepositoryInsights(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repos/acme/api", r.URL.Path)
		writeJSON(t, w, map[string]any{
			"full_name":         "acme/api",
			"default_branch":    "main",
			"stargazers_count":  120,
			"forks_count":       14,
			"open_issues_count": 9,
			"language":          "Go",
			"pushed_at":         "2024-03-09T18:00:00Z",
		})
	}))
	defer server.Close()

	client := testClient(server.URL)
	insights, err := client.FetchRepositoryInsights(context.Background(), schema.RepoRef{Owner: "acme", Name: "api"})
	require.NoError(t, err)
	assert.Equal(t, "acme/api", insights.FullName)
	assert.Equal(t, "main", insights.DefaultBranch)
	assert.Equal(t, 120, insights.Stars)
	assert.Equal(t, "Go", insights.Language)
}

func TestNewClientDefaultsBaseURL(t *testing.T) {
	client := NewClient(&contract.Config{})
	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Empty(t, client.token)
}

func TestGetJSONWithoutTokenOmitsAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(t, w, map[string]any{})
	}))
	defer server.Close()

	client := NewClient(&contract.Config{BaseURL: server.URL})
	var out map[string]any
	require.NoError(t, client.getJSON(context.Background(), "/anything", &out))
}
