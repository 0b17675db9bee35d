// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/devpulse/devpulse/schema"
)

// SourceAPI defines the operations needed against the hosting provider.
// This allows the metrics and refresh logic to be tested without network access.
type SourceAPI interface {
	// FetchCommits returns commits on the default branch, newest first.
	// An empty author fetches all commits; otherwise only that author's.
	FetchCommits(ctx context.Context, repo schema.RepoRef, author string) ([]schema.CommitEvent, error)

	// FetchPullRequests returns pull requests with reviews and commit refs.
	// An empty author fetches all pull requests; otherwise only that author's.
	FetchPullRequests(ctx context.Context, repo schema.RepoRef, author string) ([]schema.PullRequestEvent, error)

	// FetchRepositoryInsights returns coarse repository metadata.
	FetchRepositoryInsights(ctx context.Context, repo schema.RepoRef) (schema.RepositoryInsights, error)
}

// SnapshotStore defines the interface for metrics snapshot persistence.
// This allows mocking the store for testing.
type SnapshotStore interface {
	// SaveSnapshot upserts a snapshot keyed by (subject, date).
	SaveSnapshot(snap *schema.MetricsSnapshot) error

	// GetHistory returns up to limit snapshots for a subject, oldest first.
	GetHistory(subject string, limit int) ([]schema.MetricsSnapshot, error)

	// GetLatest returns the most recent snapshot per distinct subject.
	GetLatest() ([]schema.MetricsSnapshot, error)

	// GetTrackedRepos returns the repositories tracked for a developer.
	GetTrackedRepos(developer string) ([]schema.RepoRef, error)

	// TrackRepo adds a repository to a developer's tracked set.
	TrackRepo(developer string, repo schema.RepoRef) error

	// GetStatus returns status information about the snapshot store.
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// ModelStore defines the interface for trained model persistence.
type ModelStore interface {
	// SaveModel upserts a serialized model keyed by (subject, metric path).
	SaveModel(subject, metricPath string, blob []byte, meta schema.ModelMeta) error

	// LoadModel returns the serialized model and its metadata, or
	// (nil, zero, nil) when no model exists for the key.
	LoadModel(subject, metricPath string) ([]byte, schema.ModelMeta, error)

	// ListMeta returns metadata for every persisted model.
	ListMeta() ([]schema.ModelMeta, error)

	// DeleteModels removes all models for a subject. An empty subject
	// removes everything.
	DeleteModels(subject string) error

	// Close closes the underlying connection.
	Close() error
}

// StoreManager defines the interface for managing persistence stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetSnapshotStore() SnapshotStore
	GetModelStore() ModelStore
}

// Summarizer produces a human-readable narrative for a computed snapshot.
// Implementations may call out to external services; a nil summarizer is
// valid and skips narration entirely.
type Summarizer interface {
	Summarize(ctx context.Context, snap *schema.MetricsSnapshot) (string, error)
}
