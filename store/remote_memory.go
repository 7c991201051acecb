package store

import (
	"context"
	"sync"

	"questengine/domain"
)

// MemoryRemote is an in-memory RemoteStore used in tests and when no
// remote store URL is configured.
type MemoryRemote struct {
	mu      sync.Mutex
	records map[string]*domain.PersistenceRecord
}

// Ensure MemoryRemote implements the RemoteStore interface.
var _ RemoteStore = (*MemoryRemote)(nil)

// NewMemoryRemote creates an empty in-memory remote store.
func NewMemoryRemote() *MemoryRemote {
	return &MemoryRemote{records: make(map[string]*domain.PersistenceRecord)}
}

// Load returns the records owned by ownerID.
func (m *MemoryRemote) Load(ctx context.Context, ownerID string) ([]*domain.PersistenceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.PersistenceRecord
	for _, rec := range m.records {
		if rec.OwnerID == ownerID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Save stores a record.
func (m *MemoryRemote) Save(ctx context.Context, record *domain.PersistenceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.SessionID] = record
	return nil
}

// Delete removes a record.
func (m *MemoryRemote) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, sessionID)
	return nil
}

// Len returns the number of stored records.
func (m *MemoryRemote) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
