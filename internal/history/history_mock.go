package history

import (
	"time"

	"github.com/huangsam/cyclereport/internal/contract"
	"github.com/huangsam/cyclereport/schema"
	"github.com/stretchr/testify/mock"
)

// MockHistoryManager is a mock implementation of HistoryManager for testing.
type MockHistoryManager struct {
	mock.Mock
}

var _ contract.HistoryManager = &MockHistoryManager{} // Compile-time check

// GetHistoryStore implements the HistoryManager interface.
func (m *MockHistoryManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginRun implements the HistoryStore interface.
func (m *MockHistoryStore) BeginRun(quarter string, startedAt time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(quarter, startedAt, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// RecordRows implements the HistoryStore interface.
func (m *MockHistoryStore) RecordRows(runID int64, rows []schema.DerivedRow) error {
	args := m.Called(runID, rows)
	return args.Error(0)
}

// EndRun implements the HistoryStore interface.
func (m *MockHistoryStore) EndRun(runID int64, finishedAt time.Time, totalRows int) error {
	args := m.Called(runID, finishedAt, totalRows)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns() ([]schema.ReportRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.ReportRunRecord)
	return runs, args.Error(1)
}

// GetAllRows implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRows() ([]schema.CycleRowRecord, error) {
	args := m.Called()
	rows, _ := args.Get(0).([]schema.CycleRowRecord)
	return rows, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
