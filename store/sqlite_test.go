package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questengine/domain"
)

func newTestCache(t *testing.T) *SQLiteCache {
	t.Helper()
	c, err := NewSQLiteCache(":memory:")
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func testRecord(sessionID string, transcriptLen int) *domain.PersistenceRecord {
	now := time.Now().UTC().Truncate(time.Second)
	s := &domain.Session{
		SessionID: sessionID,
		OwnerID:   "owner_1",
		Config:    domain.SessionConfig{Realm: "Fantasy", MaxParticipants: 4, Duration: time.Hour},
		Phase:     domain.PhaseExploration,
		StartedAt: now.Add(-time.Hour),
	}
	for i := 0; i < transcriptLen; i++ {
		s.Append(domain.Message{MessageID: "m", Kind: domain.MessageKindParticipant, Content: "hi", CreatedAt: now})
	}
	m := &domain.AIPartyMember{CompanionID: "c1", Name: "Kaelen", Class: "ranger", LastSpokeAt: now}
	m.Relationships.Set("p1", 5)
	s.Companions = []*domain.AIPartyMember{m}
	return domain.NewRecord(s, now)
}

func TestSQLiteCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	rec := testRecord("sess_1", 2)
	if err := c.Save(ctx, rec); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	records, err := c.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, rec.SessionID, got.SessionID)
	assert.Equal(t, rec.OwnerID, got.OwnerID)
	assert.Equal(t, rec.Phase, got.Phase)
	assert.Len(t, got.Transcript, 2)
	require.Len(t, got.Companions, 1)
	assert.Equal(t, []domain.RelationshipEntry{{ParticipantID: "p1", Score: 5}}, got.Companions[0].Relationships)
}

func TestSQLiteCacheSaveReplaces(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, testRecord("sess_1", 1)))
	require.NoError(t, c.Save(ctx, testRecord("sess_1", 3)))

	records, err := c.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Len(t, records[0].Transcript, 3)
}

func TestSQLiteCacheSaveAll(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	batch := []*domain.PersistenceRecord{
		testRecord("sess_1", 1),
		testRecord("sess_2", 2),
		testRecord("sess_3", 3),
	}
	if err := c.SaveAll(ctx, batch); err != nil {
		t.Fatalf("save all failed: %v", err)
	}

	records, err := c.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestSQLiteCacheDelete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, testRecord("sess_1", 1)))
	require.NoError(t, c.Delete(ctx, "sess_1"))

	records, err := c.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	// Deleting an unknown id is not an error.
	assert.NoError(t, c.Delete(ctx, "sess_unknown"))
}

func TestMemoryRemoteFiltersByOwner(t *testing.T) {
	m := NewMemoryRemote()
	ctx := context.Background()

	mine := testRecord("sess_1", 1)
	theirs := testRecord("sess_2", 1)
	theirs.OwnerID = "owner_2"

	require.NoError(t, m.Save(ctx, mine))
	require.NoError(t, m.Save(ctx, theirs))

	records, err := m.Load(ctx, "owner_1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "sess_1", records[0].SessionID)

	require.NoError(t, m.Delete(ctx, "sess_1"))
	assert.Equal(t, 1, m.Len())
}
