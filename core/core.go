// Package core orchestrates metric refreshes. A refresh runs through the
// snapshot cache, an in-flight marker, the rate limiter and the source
// fetch, then computes metrics, trains forecast models and persists the
// result. Failures come back as structured results, never panics.
package core

import (
	"sync"
	"time"

	"github.com/devpulse/devpulse/core/forecast"
	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

// Manager owns the refresh pipeline state. All methods are safe for
// concurrent use.
type Manager struct {
	cfg        *contract.Config
	source     contract.SourceAPI
	stores     contract.StoreManager
	engine     *forecast.Engine
	summarizer contract.Summarizer
	now        func() time.Time

	mu       sync.Mutex
	cache    map[string]cacheEntry
	inFlight map[string]bool
	running  bool

	limiter *rateLimiter

	queue    chan schema.RefreshTask
	stopCh   chan struct{}
	workerWG sync.WaitGroup
}

// Option customizes manager construction.
type Option func(*Manager)

// WithSummarizer attaches an optional snapshot narrator.
func WithSummarizer(s contract.Summarizer) Option {
	return func(m *Manager) { m.summarizer = s }
}

// WithClock overrides the manager's time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager builds a refresh manager over the given source and stores.
func NewManager(cfg *contract.Config, source contract.SourceAPI, stores contract.StoreManager, engine *forecast.Engine, opts ...Option) *Manager {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = contract.DefaultQueueSize
	}
	m := &Manager{
		cfg:      cfg,
		source:   source,
		stores:   stores,
		engine:   engine,
		now:      time.Now,
		cache:    make(map[string]cacheEntry),
		inFlight: make(map[string]bool),
		queue:    make(chan schema.RefreshTask, queueSize),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.limiter = newRateLimiter(cfg.RateWindow, cfg.RateMax)
	return m
}

// markInFlight claims the refresh key. It returns false when another
// refresh already holds it.
func (m *Manager) markInFlight(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight[key] {
		return false
	}
	m.inFlight[key] = true
	return true
}

func (m *Manager) releaseInFlight(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inFlight, key)
}
