package schema

// CommitEvent is a single commit as delivered by the source API.
// Timestamps stay in their wire form; parsing happens at computation time so
// that one malformed record never poisons a whole batch.
type CommitEvent struct {
	SHA          string `json:"sha"`
	CommittedAt  string `json:"committed_at"`
	Additions    int    `json:"additions"`
	Deletions    int    `json:"deletions"`
	ChangedFiles int    `json:"changed_files"`
	AuthorEmail  string `json:"author_email"`
	Message      string `json:"message"`
}

// ReviewEvent is a single review submitted on a pull request.
type ReviewEvent struct {
	Reviewer    string `json:"reviewer"`
	SubmittedAt string `json:"submitted_at"`
	State       string `json:"state"`
}

// CommitRef ties a commit to the pull request that carried it.
type CommitRef struct {
	SHA         string `json:"sha"`
	CommittedAt string `json:"committed_at"`
}

// PullRequestEvent is a pull request with its reviews and commit references.
type PullRequestEvent struct {
	Number    int           `json:"number"`
	Title     string        `json:"title"`
	Body      string        `json:"body"`
	CreatedAt string        `json:"created_at"`
	MergedAt  string        `json:"merged_at,omitempty"`
	ClosedAt  string        `json:"closed_at,omitempty"`
	UpdatedAt string        `json:"updated_at,omitempty"`
	State     string        `json:"state"`
	Author    string        `json:"author"`
	Additions int           `json:"additions"`
	Deletions int           `json:"deletions"`
	Reviews   []ReviewEvent `json:"reviews,omitempty"`
	Commits   []CommitRef   `json:"commits,omitempty"`
}

// Merged reports whether the pull request has a merge timestamp.
func (pr *PullRequestEvent) Merged() bool {
	return pr.MergedAt != ""
}

// RepoRef identifies a repository by owner and name.
type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// FullName returns the canonical "owner/name" form.
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// RepositoryInsights is coarse repository metadata from the source API.
type RepositoryInsights struct {
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	Stars         int    `json:"stars"`
	Forks         int    `json:"forks"`
	OpenIssues    int    `json:"open_issues"`
	Language      string `json:"language"`
	PushedAt      string `json:"pushed_at"`
}
