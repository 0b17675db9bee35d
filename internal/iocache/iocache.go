// Package iocache persists metric snapshots and trained forecast models
// across SQLite, MySQL and PostgreSQL backends.
package iocache

import (
	"fmt"
	"sync"

	"github.com/devpulse/devpulse/internal/contract"
)

// StoreManagerImpl manages the snapshot and model store instances.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	snapshots    contract.SnapshotStore
	models       contract.ModelStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetSnapshotStore returns the snapshot store.
func (mgr *StoreManagerImpl) GetSnapshotStore() contract.SnapshotStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.snapshots
}

// GetModelStore returns the model store.
func (mgr *StoreManagerImpl) GetModelStore() contract.ModelStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.models
}

// Global Manager instance for main logic.
var (
	Manager   = &StoreManagerImpl{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global store manager from the validated
// config. It runs exactly once, even with concurrent calls.
func InitStores(cfg *contract.Config) error {
	var initErr error

	initOnce.Do(func() {
		snapshots, err := NewSnapshotStore(cfg.SnapshotBackend, cfg.SnapshotDBConnect)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize snapshot store: %w", err)
			return
		}

		models, err := NewModelStore(cfg.ModelBackend, cfg.ModelDBConnect)
		if err != nil {
			_ = snapshots.Close()
			initErr = fmt.Errorf("failed to initialize model store: %w", err)
			return
		}

		Manager.snapshots = snapshots
		Manager.models = models
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.snapshots != nil {
			_ = Manager.snapshots.Close()
		}
		if Manager.models != nil {
			_ = Manager.models.Close()
		}
	})
}
