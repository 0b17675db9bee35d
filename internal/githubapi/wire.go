package githubapi

import "github.com/devpulse/devpulse/schema"

// Wire structs mirror the subset of the GitHub REST payloads we consume.

type wireUser struct {
	Login string `json:"login"`
}

type wireCommit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Email string `json:"email"`
			Date  string `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

func (wc wireCommit) toEvent() schema.CommitEvent {
	return schema.CommitEvent{
		SHA:         wc.SHA,
		CommittedAt: wc.Commit.Author.Date,
		AuthorEmail: wc.Commit.Author.Email,
		Message:     wc.Commit.Message,
	}
}

type wireCommitDetail struct {
	Stats struct {
		Additions int `json:"additions"`
		Deletions int `json:"deletions"`
	} `json:"stats"`
	Files []struct {
		Filename string `json:"filename"`
	} `json:"files"`
}

type wirePullRequest struct {
	Number    int      `json:"number"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	State     string   `json:"state"`
	CreatedAt string   `json:"created_at"`
	MergedAt  string   `json:"merged_at"`
	ClosedAt  string   `json:"closed_at"`
	UpdatedAt string   `json:"updated_at"`
	User      wireUser `json:"user"`
}

func (wp wirePullRequest) toEvent() schema.PullRequestEvent {
	return schema.PullRequestEvent{
		Number:    wp.Number,
		Title:     wp.Title,
		Body:      wp.Body,
		State:     wp.State,
		CreatedAt: wp.CreatedAt,
		MergedAt:  wp.MergedAt,
		ClosedAt:  wp.ClosedAt,
		UpdatedAt: wp.UpdatedAt,
		Author:    wp.User.Login,
	}
}

type wirePullRequestDetail struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

type wireReview struct {
	User        wireUser `json:"user"`
	State       string   `json:"state"`
	SubmittedAt string   `json:"submitted_at"`
}

type wireRepository struct {
	FullName        string `json:"full_name"`
	DefaultBranch   string `json:"default_branch"`
	StargazersCount int    `json:"stargazers_count"`
	ForksCount      int    `json:"forks_count"`
	OpenIssuesCount int    `json:"open_issues_count"`
	Language        string `json:"language"`
	PushedAt        string `json:"pushed_at"`
}
