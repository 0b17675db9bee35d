package schema

import "time"

// Refresh orchestration constants.
const (
	// CacheMaxAgeMinutes is how long a snapshot stays fresh.
	CacheMaxAgeMinutes = 15
	// RateWindowSeconds is the sliding rate-limit window.
	RateWindowSeconds = 3600
	// RateMaxRequests is the request budget per window.
	RateMaxRequests = 4000
	// QueueWaitSeconds bounds how long an enqueue blocks before giving up.
	QueueWaitSeconds = 30
	// WorkerSleepSeconds is the idle pause of the background worker.
	WorkerSleepSeconds = 5
	// FetchWorkers bounds the multi-repository fetch pool.
	FetchWorkers = 5
	// RepoFetchTimeoutSeconds bounds one repository fetch.
	RepoFetchTimeoutSeconds = 30
)

// Refresh status codes. Every refresh call resolves to exactly one of these;
// failures are reported as values, never as panics.
const (
	RefreshOK         = "ok"
	RefreshFromCache  = "cache"
	RefreshInProgress = "refresh_in_progress"
	RefreshRateLimit  = "rate_limited"
	RefreshFailed     = "failed"
)

// RepoFailure records one repository that could not be fetched during a
// tracked-scope refresh. The rest of the batch still proceeds.
type RepoFailure struct {
	Repo  string `json:"repo"`
	Error string `json:"error"`
}

// RefreshResult is the structured outcome of one refresh request.
type RefreshResult struct {
	Status       string                  `json:"status"`
	Source       string                  `json:"source,omitempty"` // "cache" when served stale-free from cache
	Subject      string                  `json:"subject"`
	Scope        Scope                   `json:"scope"`
	Snapshot     *MetricsSnapshot        `json:"snapshot,omitempty"`
	RepoInsights *RepositoryInsights     `json:"repository_insights,omitempty"`
	Queued       bool                    `json:"queued,omitempty"`
	Error        string                  `json:"error,omitempty"`
	FailedRepos  []RepoFailure           `json:"failed_repos,omitempty"`
	Outcomes     map[string]TrainOutcome `json:"training_outcomes,omitempty"`
	Learning     *LearningSummary        `json:"learning,omitempty"`
	Summary      string                  `json:"summary,omitempty"`
	DurationMS   int64                   `json:"duration_ms"`
	CompletedAt  time.Time               `json:"completed_at"`
}

// RefreshTask is one refresh request, either direct or queued for the
// background worker. Force bypasses the snapshot cache even when fresh.
type RefreshTask struct {
	Subject    string    `json:"subject"`
	Scope      Scope     `json:"scope"`
	Repos      []RepoRef `json:"repos,omitempty"`
	Force      bool      `json:"force,omitempty"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Key returns the in-flight dedupe key for the task.
func (t RefreshTask) Key() string {
	return string(t.Scope) + ":" + t.Subject
}

// CacheStatus summarizes the in-memory snapshot cache.
type CacheStatus struct {
	Entries    int      `json:"entries"`
	Fresh      int      `json:"fresh"`
	Stale      int      `json:"stale"`
	MaxAgeMins int      `json:"max_age_minutes"`
	Keys       []string `json:"keys,omitempty"`
}

// RateStatus summarizes the sliding-window rate limiter.
type RateStatus struct {
	WindowSeconds int `json:"window_seconds"`
	MaxRequests   int `json:"max_requests"`
	Used          int `json:"used"`
	Remaining     int `json:"remaining"`
}

// QueueStatus summarizes the pending refresh queue.
type QueueStatus struct {
	Depth    int  `json:"depth"`
	Capacity int  `json:"capacity"`
	Running  bool `json:"worker_running"`
}

// SubjectStatus is the orchestrator's view of one refresh key.
type SubjectStatus struct {
	Key           string    `json:"key"`
	InFlight      bool      `json:"in_flight"`
	Cached        bool      `json:"cached"`
	CacheFresh    bool      `json:"cache_fresh"`
	LastRefreshAt time.Time `json:"last_refresh_at,omitzero"`
	QueueDepth    int       `json:"queue_depth"`
	RateRemaining int       `json:"rate_remaining"`
}

// RefreshStatus is the full orchestrator status surface.
type RefreshStatus struct {
	Cache    CacheStatus `json:"cache"`
	Rate     RateStatus  `json:"rate_limit"`
	Queue    QueueStatus `json:"queue"`
	InFlight []string    `json:"in_flight,omitempty"`
}

// StoreStatus reports persistence health for one backing store.
type StoreStatus struct {
	Backend   DatabaseBackend `json:"backend"`
	Reachable bool            `json:"reachable"`
	Detail    string          `json:"detail,omitempty"`
	Snapshots int             `json:"snapshots"`
	Models    int             `json:"models"`
}
