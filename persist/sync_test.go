package persist

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questengine/domain"
	"questengine/store"
)

func record(sessionID string, transcriptLen int) *domain.PersistenceRecord {
	rec := &domain.PersistenceRecord{
		SessionID: sessionID,
		OwnerID:   "owner_1",
		Phase:     domain.PhaseExploration,
		SavedAt:   time.Now(),
	}
	for i := 0; i < transcriptLen; i++ {
		rec.Transcript = append(rec.Transcript, domain.Message{MessageID: "m", Kind: domain.MessageKindParticipant})
	}
	return rec
}

func TestMergeLongerTranscriptWins(t *testing.T) {
	local := record("sess_1", 5)
	remote := record("sess_1", 12)

	assert.Same(t, remote, Merge(local, remote))
	assert.Same(t, local, Merge(remote, local))
}

func TestMergeTieKeepsLocal(t *testing.T) {
	local := record("sess_1", 3)
	remote := record("sess_1", 3)

	assert.Same(t, local, Merge(local, remote))
}

func TestMergeNilSides(t *testing.T) {
	rec := record("sess_1", 1)
	assert.Same(t, rec, Merge(nil, rec))
	assert.Same(t, rec, Merge(rec, nil))
	assert.Nil(t, Merge(nil, nil))
}

func newTestSynchronizer(t *testing.T, source SessionSource, interval time.Duration) (*Synchronizer, *store.SQLiteCache, *store.MemoryRemote) {
	t.Helper()
	cache, err := store.NewSQLiteCache(":memory:")
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })

	remote := store.NewMemoryRemote()
	p := NewSynchronizer(cache, remote, source, interval)
	t.Cleanup(p.StopAll)
	return p, cache, remote
}

// mapSource is a SessionSource backed by a plain map.
type mapSource struct {
	mu      sync.Mutex
	records map[string]*domain.PersistenceRecord
}

func newMapSource() *mapSource {
	return &mapSource{records: make(map[string]*domain.PersistenceRecord)}
}

func (m *mapSource) Record(sessionID string) (*domain.PersistenceRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[sessionID]
	return rec, ok
}

func (m *mapSource) set(rec *domain.PersistenceRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.SessionID] = rec
}

func (m *mapSource) remove(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, sessionID)
}

func TestSaveNowWritesBothTiers(t *testing.T) {
	p, cache, remote := newTestSynchronizer(t, newMapSource(), time.Hour)
	ctx := context.Background()

	p.SaveNow(ctx, record("sess_1", 2))

	cached, err := cache.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "sess_1", cached[0].SessionID)

	// The remote write is asynchronous.
	waitFor(t, func() bool { return remote.Len() == 1 })
}

func TestRemoveDeletesBothTiers(t *testing.T) {
	p, cache, remote := newTestSynchronizer(t, newMapSource(), time.Hour)
	ctx := context.Background()

	p.SaveNow(ctx, record("sess_1", 2))
	waitFor(t, func() bool { return remote.Len() == 1 })

	p.Remove(ctx, "sess_1")

	cached, err := cache.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, cached)
	waitFor(t, func() bool { return remote.Len() == 0 })
}

func TestAutoSavePersistsPeriodically(t *testing.T) {
	source := newMapSource()
	source.set(record("sess_1", 4))
	p, _, remote := newTestSynchronizer(t, source, 20*time.Millisecond)

	p.StartAutoSave("sess_1")
	waitFor(t, func() bool { return remote.Len() == 1 })

	p.StopAutoSave("sess_1")
}

func TestAutoSaveStopsWhenSessionGone(t *testing.T) {
	source := newMapSource()
	source.set(record("sess_1", 1))
	p, _, remote := newTestSynchronizer(t, source, 10*time.Millisecond)

	p.StartAutoSave("sess_1")
	waitFor(t, func() bool { return remote.Len() == 1 })

	source.remove("sess_1")

	// The loop winds itself down; restarting later must work again.
	waitFor(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		_, running := p.stops["sess_1"]
		return !running
	})
	p.StartAutoSave("sess_1")
	p.StopAutoSave("sess_1")
}

func TestWriteBackAndLoadCache(t *testing.T) {
	p, _, _ := newTestSynchronizer(t, newMapSource(), time.Hour)
	ctx := context.Background()

	err := p.WriteBack(ctx, []*domain.PersistenceRecord{record("sess_1", 1), record("sess_2", 2)})
	require.NoError(t, err)

	records, err := p.LoadCache(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}
