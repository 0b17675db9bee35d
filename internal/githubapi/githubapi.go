// Package githubapi implements the source contract against the GitHub
// REST API. It is deliberately lenient: per-record enrichment failures
// degrade to partial data rather than failing a whole fetch.
package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

// DefaultBaseURL is the public GitHub API endpoint.
const DefaultBaseURL = "https://api.github.com"

// Paging bounds. Fetches are capped so a huge repository cannot consume
// the whole rate budget in one refresh.
const (
	perPage         = 100
	maxPages        = 3
	maxDetailFetch  = 200
	requestTimeout  = 15 * time.Second
	acceptMediaType = "application/vnd.github+json"
)

// Client talks to the GitHub REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

var _ contract.SourceAPI = &Client{} // Compile-time check

// NewClient builds a client from the validated config. An empty base URL
// targets public GitHub; a token is optional but strongly recommended.
func NewClient(cfg *contract.Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    baseURL,
		token:      cfg.Token,
	}
}

// FetchCommits returns commits on the default branch, newest first. The
// list endpoint has no line stats, so each commit is enriched with a
// detail call; enrichment failures leave zero stats on that commit.
func (c *Client) FetchCommits(ctx context.Context, repo schema.RepoRef, author string) ([]schema.CommitEvent, error) {
	params := url.Values{"per_page": {fmt.Sprint(perPage)}}
	if author != "" {
		params.Set("author", author)
	}

	var commits []schema.CommitEvent
	for page := 1; page <= maxPages; page++ {
		params.Set("page", fmt.Sprint(page))
		path := fmt.Sprintf("/repos/%s/%s/commits?%s", repo.Owner, repo.Name, params.Encode())

		var wire []wireCommit
		if err := c.getJSON(ctx, path, &wire); err != nil {
			return nil, err
		}
		for _, wc := range wire {
			commits = append(commits, wc.toEvent())
		}
		if len(wire) < perPage {
			break
		}
	}

	for i := range commits {
		if i >= maxDetailFetch {
			break
		}
		c.enrichCommit(ctx, repo, &commits[i])
	}
	return commits, nil
}

// enrichCommit fills line stats from the commit detail endpoint.
func (c *Client) enrichCommit(ctx context.Context, repo schema.RepoRef, commit *schema.CommitEvent) {
	path := fmt.Sprintf("/repos/%s/%s/commits/%s", repo.Owner, repo.Name, commit.SHA)
	var detail wireCommitDetail
	if err := c.getJSON(ctx, path, &detail); err != nil {
		contract.LogWarn("commit detail "+commit.SHA, err)
		return
	}
	commit.Additions = detail.Stats.Additions
	commit.Deletions = detail.Stats.Deletions
	commit.ChangedFiles = len(detail.Files)
}

// FetchPullRequests returns pull requests with reviews and commit refs.
func (c *Client) FetchPullRequests(ctx context.Context, repo schema.RepoRef, author string) ([]schema.PullRequestEvent, error) {
	params := url.Values{
		"state":     {"all"},
		"sort":      {"updated"},
		"direction": {"desc"},
		"per_page":  {fmt.Sprint(perPage)},
	}

	var prs []schema.PullRequestEvent
	for page := 1; page <= maxPages; page++ {
		params.Set("page", fmt.Sprint(page))
		path := fmt.Sprintf("/repos/%s/%s/pulls?%s", repo.Owner, repo.Name, params.Encode())

		var wire []wirePullRequest
		if err := c.getJSON(ctx, path, &wire); err != nil {
			return nil, err
		}
		for _, wp := range wire {
			if author != "" && wp.User.Login != author {
				continue
			}
			prs = append(prs, wp.toEvent())
		}
		if len(wire) < perPage {
			break
		}
	}

	for i := range prs {
		if i >= maxDetailFetch {
			break
		}
		c.enrichPullRequest(ctx, repo, &prs[i])
	}
	return prs, nil
}

// enrichPullRequest fills line stats, reviews and commit refs.
func (c *Client) enrichPullRequest(ctx context.Context, repo schema.RepoRef, pr *schema.PullRequestEvent) {
	base := fmt.Sprintf("/repos/%s/%s/pulls/%d", repo.Owner, repo.Name, pr.Number)

	var detail wirePullRequestDetail
	if err := c.getJSON(ctx, base, &detail); err != nil {
		contract.LogWarn(fmt.Sprintf("pull request detail #%d", pr.Number), err)
	} else {
		pr.Additions = detail.Additions
		pr.Deletions = detail.Deletions
	}

	var reviews []wireReview
	if err := c.getJSON(ctx, base+"/reviews", &reviews); err != nil {
		contract.LogWarn(fmt.Sprintf("pull request reviews #%d", pr.Number), err)
	} else {
		for _, wr := range reviews {
			pr.Reviews = append(pr.Reviews, schema.ReviewEvent{
				Reviewer:    wr.User.Login,
				SubmittedAt: wr.SubmittedAt,
				State:       wr.State,
			})
		}
	}

	var commits []wireCommit
	if err := c.getJSON(ctx, base+"/commits", &commits); err != nil {
		contract.LogWarn(fmt.Sprintf("pull request commits #%d", pr.Number), err)
	} else {
		for _, wc := range commits {
			pr.Commits = append(pr.Commits, schema.CommitRef{
				SHA:         wc.SHA,
				CommittedAt: wc.Commit.Author.Date,
			})
		}
	}
}

// FetchRepositoryInsights returns coarse repository metadata.
func (c *Client) FetchRepositoryInsights(ctx context.Context, repo schema.RepoRef) (schema.RepositoryInsights, error) {
	var wire wireRepository
	path := fmt.Sprintf("/repos/%s/%s", repo.Owner, repo.Name)
	if err := c.getJSON(ctx, path, &wire); err != nil {
		return schema.RepositoryInsights{}, err
	}
	return schema.RepositoryInsights{
		FullName:      wire.FullName,
		DefaultBranch: wire.DefaultBranch,
		Stars:         wire.StargazersCount,
		Forks:         wire.ForksCount,
		OpenIssues:    wire.OpenIssuesCount,
		Language:      wire.Language,
		PushedAt:      wire.PushedAt,
	}, nil
}

// getJSON performs an authenticated GET and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", acceptMediaType)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github request %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("github %s returned %s: %s", path, resp.Status, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode github response %s: %w", path, err)
	}
	return nil
}
