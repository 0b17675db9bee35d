package core

import (
	"context"
	"time"
)

// StartWorker launches the background worker that drains the deferred
// queue. Starting an already-running worker is a no-op.
func (m *Manager) StartWorker() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.workerWG.Add(1)
	go m.workerLoop(m.stopCh)
}

// StopWorker signals the worker and waits for it to exit.
func (m *Manager) StopWorker() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	close(m.stopCh)
	m.mu.Unlock()
	m.workerWG.Wait()
}

func (m *Manager) workerLoop(stopCh <-chan struct{}) {
	defer m.workerWG.Done()
	for {
		select {
		case <-stopCh:
			return
		case task := <-m.queue:
			// A queued task already lost its slot once; the retry must
			// not be absorbed by a snapshot cached since then.
			task.Force = true
			m.Refresh(context.Background(), task)
			// Pace between iterations so a deep queue cannot hammer
			// the source budget in a tight loop.
			select {
			case <-stopCh:
				return
			case <-time.After(m.cfg.WorkerSleep):
			}
		}
	}
}
