// Package forecast trains per-subject metric models with continuous
// learning, detects anomalies and clusters subjects by behavior.
package forecast

import (
	"fmt"
	"sync"
	"time"

	"github.com/devpulse/devpulse/internal/contract"
)

// Engine owns the trained models for every (subject, metric path) pair.
// All methods are safe for concurrent use.
type Engine struct {
	mu     sync.Mutex
	models map[string]*modelState
	store  contract.ModelStore
	now    func() time.Time
}

// Option customizes engine construction.
type Option func(*Engine)

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine builds an engine backed by the given model store. A nil store
// keeps models in memory only.
func NewEngine(store contract.ModelStore, opts ...Option) *Engine {
	e := &Engine{
		models: make(map[string]*modelState),
		store:  store,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func modelKey(subject, metricPath string) string {
	return subject + "|" + metricPath
}

// getModel returns the cached state for the key, loading from the store on
// first access. Callers must hold e.mu.
func (e *Engine) getModel(subject, metricPath string) (*modelState, error) {
	key := modelKey(subject, metricPath)
	if state, ok := e.models[key]; ok {
		return state, nil
	}
	if e.store == nil {
		return nil, nil
	}
	blob, meta, err := e.store.LoadModel(subject, metricPath)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", key, err)
	}
	if blob == nil {
		return nil, nil
	}
	state, err := decodeModelState(blob)
	if err != nil {
		// A corrupt blob is treated as no model; the next training
		// pass rebuilds it from scratch.
		contract.LogWarn("decode model "+key, err)
		return nil, nil
	}
	state.Meta = meta
	e.models[key] = state
	return state, nil
}

// putModel caches and persists the state. Callers must hold e.mu.
func (e *Engine) putModel(subject, metricPath string, state *modelState) error {
	e.models[modelKey(subject, metricPath)] = state
	if e.store == nil {
		return nil
	}
	blob, err := encodeModelState(state)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	return e.store.SaveModel(subject, metricPath, blob, state.Meta)
}
