package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	ranger := &AIPartyMember{
		CompanionID: "comp_1",
		Name:        "Kaelen",
		Class:       "ranger",
		Personality: Personality{Traits: []string{"observant"}, Alignment: "neutral good"},
		Stats:       Stats{Level: 2, Health: 34},
		LastSpokeAt: now.Add(-time.Minute),
	}
	ranger.Relationships.Set("p1", 7)
	ranger.PushContext("Watch the treeline.")

	s := &Session{
		SessionID: "sess_1",
		OwnerID:   "owner_1",
		Config:    SessionConfig{Realm: "Fantasy", MaxParticipants: 4, Duration: time.Hour},
		Phase:     PhaseExploration,
		StartedAt: now.Add(-time.Hour),
		Participants: []Participant{
			{ParticipantID: "p1", DisplayName: "Alice", JoinedAt: now.Add(-time.Hour)},
		},
		Companions: []*AIPartyMember{ranger},
		Insights:   NewInsightLog(),
	}
	s.Insights.Add("The party entered the forest.", now)
	s.Append(Message{MessageID: "m1", Kind: MessageKindParticipant, Sender: "Alice", Content: "Hello", CreatedAt: now})

	rec := NewRecord(s, now)
	back := rec.Session()

	assert.Equal(t, s.SessionID, back.SessionID)
	assert.Equal(t, s.OwnerID, back.OwnerID)
	assert.Equal(t, s.Config, back.Config)
	assert.Equal(t, s.Phase, back.Phase)
	assert.Equal(t, s.Participants, back.Participants)
	assert.Equal(t, s.Transcript, back.Transcript)

	require.Len(t, back.Companions, 1)
	got := back.Companions[0]
	assert.Equal(t, ranger.Name, got.Name)
	assert.Equal(t, ranger.Stats, got.Stats)
	assert.Equal(t, ranger.RecentContext, got.RecentContext)

	score, ok := got.Relationships.Get("p1")
	require.True(t, ok)
	assert.Equal(t, 7, score)

	require.NotNil(t, back.Insights)
	assert.Equal(t, 1, back.Insights.Len())
	assert.Equal(t, "The party entered the forest.", back.Insights.Items[0].Text)
}

func TestRecordIsDetachedFromSession(t *testing.T) {
	s := &Session{SessionID: "sess_1"}
	s.Append(Message{MessageID: "m1"})

	rec := NewRecord(s, time.Now())
	s.Append(Message{MessageID: "m2"})

	assert.Len(t, rec.Transcript, 1)
}
