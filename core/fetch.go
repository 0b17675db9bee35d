package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/devpulse/devpulse/schema"
)

// repoEvents is what one repository fetch produced.
type repoEvents struct {
	commits []schema.CommitEvent
	prs     []schema.PullRequestEvent
	failure *schema.RepoFailure
}

// fetchEvents gathers commits and pull requests for the task's scope.
// Tracked scope aggregates the developer's repositories through a bounded
// worker pool; individual repository failures are partial, not fatal.
func (m *Manager) fetchEvents(ctx context.Context, task schema.RefreshTask) ([]schema.CommitEvent, []schema.PullRequestEvent, []schema.RepoFailure, error) {
	repos := task.Repos
	author := ""

	if task.Scope == schema.TrackedScope {
		author = task.Subject
		if len(repos) == 0 {
			var err error
			repos, err = m.trackedRepos(task.Subject)
			if err != nil {
				return nil, nil, nil, err
			}
		}
		if len(repos) == 0 {
			return nil, nil, nil, fmt.Errorf("no tracked repositories for developer %s", task.Subject)
		}
	} else if len(repos) == 0 {
		repos = []schema.RepoRef{m.cfg.Repo}
	}

	if len(repos) == 1 {
		commits, prs, err := m.fetchRepo(ctx, repos[0], author)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("fetch %s: %w", repos[0].FullName(), err)
		}
		return commits, prs, nil, nil
	}

	return m.fetchRepoPool(ctx, repos, author)
}

// fetchRepoPool fans the repositories out over a bounded worker pool and
// merges the results in repository order.
func (m *Manager) fetchRepoPool(ctx context.Context, repos []schema.RepoRef, author string) ([]schema.CommitEvent, []schema.PullRequestEvent, []schema.RepoFailure, error) {
	workers := schema.FetchWorkers
	if m.cfg.Workers > 0 && m.cfg.Workers < workers {
		workers = m.cfg.Workers
	}
	if len(repos) < workers {
		workers = len(repos)
	}

	results := make([]repoEvents, len(repos))
	idxCh := make(chan int, len(repos))
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range idxCh {
				repo := repos[idx]
				commits, prs, err := m.fetchRepo(ctx, repo, author)
				if err != nil {
					results[idx] = repoEvents{failure: &schema.RepoFailure{
						Repo:  repo.FullName(),
						Error: err.Error(),
					}}
					continue
				}
				results[idx] = repoEvents{commits: commits, prs: prs}
			}
		}()
	}

	for idx := range repos {
		idxCh <- idx
	}
	close(idxCh)
	wg.Wait()

	var commits []schema.CommitEvent
	var prs []schema.PullRequestEvent
	var failures []schema.RepoFailure
	for _, r := range results {
		if r.failure != nil {
			failures = append(failures, *r.failure)
			continue
		}
		commits = append(commits, r.commits...)
		prs = append(prs, r.prs...)
	}

	if len(failures) == len(repos) {
		return nil, nil, failures, errors.New("all tracked repositories failed to fetch")
	}
	return commits, prs, failures, nil
}

// fetchRepo pulls one repository's events under the per-repo timeout.
func (m *Manager) fetchRepo(ctx context.Context, repo schema.RepoRef, author string) ([]schema.CommitEvent, []schema.PullRequestEvent, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, m.cfg.FetchTimeout)
	defer cancel()

	commits, err := m.source.FetchCommits(fetchCtx, repo, author)
	if err != nil {
		return nil, nil, fmt.Errorf("commits: %w", err)
	}
	prs, err := m.source.FetchPullRequests(fetchCtx, repo, author)
	if err != nil {
		return nil, nil, fmt.Errorf("pull requests: %w", err)
	}
	return commits, prs, nil
}

// trackedRepos resolves the developer's repository list from the store.
func (m *Manager) trackedRepos(developer string) ([]schema.RepoRef, error) {
	if m.stores == nil {
		return nil, errors.New("tracked scope requires a snapshot store")
	}
	store := m.stores.GetSnapshotStore()
	if store == nil {
		return nil, errors.New("tracked scope requires a snapshot store")
	}
	repos, err := store.GetTrackedRepos(developer)
	if err != nil {
		return nil, fmt.Errorf("tracked repositories for %s: %w", developer, err)
	}
	return repos, nil
}
