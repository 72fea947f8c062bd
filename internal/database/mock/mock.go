// Package mock provides mock implementations of database interfaces for testing.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/database"
)

// MockRecordStore is an in-memory implementation of database.RecordStore
type MockRecordStore struct {
	mu      sync.RWMutex
	records map[string]*database.Record
	nextID  int64

	// Call counters
	LookupCalls int

	// Error injection
	LookupError error
	CountError  error
	CreateError error
	DeleteError error
	Closed      bool
}

// NewMockRecordStore creates a new mock record store
func NewMockRecordStore() *MockRecordStore {
	return &MockRecordStore{
		records: make(map[string]*database.Record),
		nextID:  1,
	}
}

// AddRecord adds a record to the mock store, bypassing validation
func (m *MockRecordStore) AddRecord(r database.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == 0 {
		r.ID = m.nextID
		m.nextID++
	}
	m.records[r.NormalizedName()] = &r
}

// Lookup retrieves a record by normalized name
func (m *MockRecordStore) Lookup(ctx context.Context, name string) (*database.Record, error) {
	m.mu.Lock()
	m.LookupCalls++
	m.mu.Unlock()

	if m.LookupError != nil {
		return nil, m.LookupError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[database.NormalizeName(name)]
	if !ok {
		return nil, database.ErrRecordNotFound
	}
	out := *r
	return &out, nil
}

// Count returns the number of records
func (m *MockRecordStore) Count(ctx context.Context) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

// Create stores a record
func (m *MockRecordStore) Create(ctx context.Context, r *database.Record) (int64, error) {
	if m.CreateError != nil {
		return 0, m.CreateError
	}
	if err := r.Validate(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := r.NormalizedName()
	if _, ok := m.records[key]; ok {
		return 0, database.ErrDuplicateRecord
	}
	stored := *r
	stored.ID = m.nextID
	stored.CreatedAt = time.Now()
	m.nextID++
	m.records[key] = &stored
	return stored.ID, nil
}

// Delete removes a record
func (m *MockRecordStore) Delete(ctx context.Context, name string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := database.NormalizeName(name)
	if _, ok := m.records[key]; !ok {
		return database.ErrRecordNotFound
	}
	delete(m.records, key)
	return nil
}

// Close marks the store closed
func (m *MockRecordStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// Verify interface compliance
var _ database.RecordStore = (*MockRecordStore)(nil)
