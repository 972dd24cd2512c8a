package store

import (
	"context"
	"sync"

	"github.com/stavnycha/whereami/internal/models"
)

// MockStore is a test double for the Store interface
// It allows tests to control behavior and verify interactions
type MockStore struct {
	mu sync.Mutex

	// Data holds the mock data (IP address -> record)
	Data map[string]*models.GeoRecord

	// Track method calls for verification in tests
	FindByIPCalls []string
	CloseCalled   bool

	// Control behavior for error scenarios
	FindByIPError error
	CloseError    error
}

// NewMockStore creates a mock store pre-populated with common test IPs
func NewMockStore() *MockStore {
	return &MockStore{
		Data: map[string]*models.GeoRecord{
			"8.8.8.8": {
				IP:      "8.8.8.8",
				City:    "Mountain View",
				Country: "United States",
			},
			"1.1.1.1": {
				IP:      "1.1.1.1",
				City:    "Sydney",
				Country: "Australia",
			},
		},
		FindByIPCalls: []string{},
	}
}

// NewEmptyMockStore creates a mock store with no data
func NewEmptyMockStore() *MockStore {
	return &MockStore{
		Data:          map[string]*models.GeoRecord{},
		FindByIPCalls: []string{},
	}
}

// FindByIP implements the Store interface
// Tracks calls and returns configured data or errors
func (m *MockStore) FindByIP(_ context.Context, ip string) (*models.GeoRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FindByIPCalls = append(m.FindByIPCalls, ip)

	if m.FindByIPError != nil {
		return nil, m.FindByIPError
	}

	record, exists := m.Data[ip]
	if !exists {
		return nil, ErrNotFound
	}

	return record, nil
}

// Calls returns a copy of the IPs FindByIP was called with
func (m *MockStore) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.FindByIPCalls...)
}

// Close implements the Store interface
func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	return m.CloseError
}
