package geo

import (
	"context"
	"sync"
)

// MockLocator is a test double for the Locator interface
// It returns canned outcomes per address and records every call
type MockLocator struct {
	mu sync.Mutex

	// Countries maps an address to the country returned for it
	// Addresses not in the map resolve to NotFound
	Countries map[string]string

	// LookupCalls tracks the addresses Lookup was called with
	LookupCalls []string
}

// NewMockLocator creates a mock locator answering from countries
func NewMockLocator(countries map[string]string) *MockLocator {
	if countries == nil {
		countries = map[string]string{}
	}
	return &MockLocator{
		Countries:   countries,
		LookupCalls: []string{},
	}
}

// Lookup implements the Locator interface
func (m *MockLocator) Lookup(_ context.Context, address string) Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LookupCalls = append(m.LookupCalls, address)

	country, ok := m.Countries[address]
	if !ok {
		return NotFound()
	}
	return Found(country)
}

// Calls returns a copy of the addresses Lookup was called with
func (m *MockLocator) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.LookupCalls...)
}
