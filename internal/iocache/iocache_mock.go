package iocache

import (
	"github.com/stretchr/testify/mock"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

// MockSnapshotStore is a mock implementation of SnapshotStore for testing.
type MockSnapshotStore struct {
	mock.Mock
}

var _ contract.SnapshotStore = &MockSnapshotStore{} // Compile-time check

// SaveSnapshot implements the SnapshotStore interface.
func (m *MockSnapshotStore) SaveSnapshot(snap *schema.MetricsSnapshot) error {
	args := m.Called(snap)
	return args.Error(0)
}

// GetHistory implements the SnapshotStore interface.
func (m *MockSnapshotStore) GetHistory(subject string, limit int) ([]schema.MetricsSnapshot, error) {
	args := m.Called(subject, limit)
	snapshots, _ := args.Get(0).([]schema.MetricsSnapshot)
	return snapshots, args.Error(1)
}

// GetLatest implements the SnapshotStore interface.
func (m *MockSnapshotStore) GetLatest() ([]schema.MetricsSnapshot, error) {
	args := m.Called()
	snapshots, _ := args.Get(0).([]schema.MetricsSnapshot)
	return snapshots, args.Error(1)
}

// GetTrackedRepos implements the SnapshotStore interface.
func (m *MockSnapshotStore) GetTrackedRepos(developer string) ([]schema.RepoRef, error) {
	args := m.Called(developer)
	repos, _ := args.Get(0).([]schema.RepoRef)
	return repos, args.Error(1)
}

// TrackRepo implements the SnapshotStore interface.
func (m *MockSnapshotStore) TrackRepo(developer string, repo schema.RepoRef) error {
	args := m.Called(developer, repo)
	return args.Error(0)
}

// GetStatus implements the SnapshotStore interface.
func (m *MockSnapshotStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	status, _ := args.Get(0).(schema.StoreStatus)
	return status, args.Error(1)
}

// Close implements the SnapshotStore interface.
func (m *MockSnapshotStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockModelStore is a mock implementation of ModelStore for testing.
type MockModelStore struct {
	mock.Mock
}

var _ contract.ModelStore = &MockModelStore{} // Compile-time check

// SaveModel implements the ModelStore interface.
func (m *MockModelStore) SaveModel(subject, metricPath string, blob []byte, meta schema.ModelMeta) error {
	args := m.Called(subject, metricPath, blob, meta)
	return args.Error(0)
}

// LoadModel implements the ModelStore interface.
func (m *MockModelStore) LoadModel(subject, metricPath string) ([]byte, schema.ModelMeta, error) {
	args := m.Called(subject, metricPath)
	blob, _ := args.Get(0).([]byte)
	meta, _ := args.Get(1).(schema.ModelMeta)
	return blob, meta, args.Error(2)
}

// ListMeta implements the ModelStore interface.
func (m *MockModelStore) ListMeta() ([]schema.ModelMeta, error) {
	args := m.Called()
	metas, _ := args.Get(0).([]schema.ModelMeta)
	return metas, args.Error(1)
}

// DeleteModels implements the ModelStore interface.
func (m *MockModelStore) DeleteModels(subject string) error {
	args := m.Called(subject)
	return args.Error(0)
}

// Close implements the ModelStore interface.
func (m *MockModelStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetSnapshotStore implements the StoreManager interface.
func (m *MockStoreManager) GetSnapshotStore() contract.SnapshotStore {
	args := m.Called()
	store, _ := args.Get(0).(contract.SnapshotStore)
	return store
}

// GetModelStore implements the StoreManager interface.
func (m *MockStoreManager) GetModelStore() contract.ModelStore {
	args := m.Called()
	store, _ := args.Get(0).(contract.ModelStore)
	return store
}
