package domain

import (
	"encoding/json"
	"time"
)

// CompanionRecord is the serializable projection of an AIPartyMember.
// Relationships are flattened to a pair list for portability.
type CompanionRecord struct {
	CompanionID   string              `json:"companion_id"`
	Name          string              `json:"name"`
	Class         string              `json:"class"`
	Archetype     string              `json:"archetype,omitempty"`
	Personality   Personality         `json:"personality"`
	Stats         Stats               `json:"stats"`
	Relationships []RelationshipEntry `json:"relationships"`
	LastSpokeAt   time.Time           `json:"last_spoke_at"`
	RecentContext []string            `json:"recent_context,omitempty"`
}

// PersistenceRecord is the serializable projection of a Session written
// to the local cache and the remote store.
type PersistenceRecord struct {
	SessionID    string            `json:"session_id"`
	OwnerID      string            `json:"owner_id"`
	Config       SessionConfig     `json:"config"`
	Phase        Phase             `json:"phase"`
	StartedAt    time.Time         `json:"started_at"`
	Participants []Participant     `json:"participants"`
	Companions   []CompanionRecord `json:"companions"`
	Transcript   []Message         `json:"transcript"`
	WorldState   json.RawMessage   `json:"world_state,omitempty"`
	Quests       json.RawMessage   `json:"quests,omitempty"`
	NPCs         json.RawMessage   `json:"npcs,omitempty"`
	Insights     []Insight         `json:"insights,omitempty"`
	SavedAt      time.Time         `json:"saved_at"`
}

// NewRecord projects a session into its persistence form.
func NewRecord(s *Session, savedAt time.Time) *PersistenceRecord {
	rec := &PersistenceRecord{
		SessionID:    s.SessionID,
		OwnerID:      s.OwnerID,
		Config:       s.Config,
		Phase:        s.Phase,
		StartedAt:    s.StartedAt,
		Participants: append([]Participant(nil), s.Participants...),
		Transcript:   append([]Message(nil), s.Transcript...),
		WorldState:   s.WorldState,
		Quests:       s.Quests,
		NPCs:         s.NPCs,
		SavedAt:      savedAt,
	}
	if s.Insights != nil {
		rec.Insights = append([]Insight(nil), s.Insights.Items...)
	}
	for _, m := range s.Companions {
		rec.Companions = append(rec.Companions, CompanionRecord{
			CompanionID:   m.CompanionID,
			Name:          m.Name,
			Class:         m.Class,
			Archetype:     m.Archetype,
			Personality:   m.Personality,
			Stats:         m.Stats,
			Relationships: m.Relationships.Entries(),
			LastSpokeAt:   m.LastSpokeAt,
			RecentContext: append([]string(nil), m.RecentContext...),
		})
	}
	return rec
}

// Session reconstructs a live session from the record, rebuilding
// companion relationship maps from their pair lists.
func (r *PersistenceRecord) Session() *Session {
	s := &Session{
		SessionID:    r.SessionID,
		OwnerID:      r.OwnerID,
		Config:       r.Config,
		Phase:        r.Phase,
		StartedAt:    r.StartedAt,
		Participants: append([]Participant(nil), r.Participants...),
		Transcript:   append([]Message(nil), r.Transcript...),
		WorldState:   r.WorldState,
		Quests:       r.Quests,
		NPCs:         r.NPCs,
		Insights:     NewInsightLog(),
	}
	for _, in := range r.Insights {
		s.Insights.Add(in.Text, in.At)
	}
	for _, c := range r.Companions {
		m := &AIPartyMember{
			CompanionID:   c.CompanionID,
			Name:          c.Name,
			Class:         c.Class,
			Archetype:     c.Archetype,
			Personality:   c.Personality,
			Stats:         c.Stats,
			LastSpokeAt:   c.LastSpokeAt,
			RecentContext: append([]string(nil), c.RecentContext...),
		}
		for _, e := range c.Relationships {
			m.Relationships.Set(e.ParticipantID, e.Score)
		}
		s.Companions = append(s.Companions, m)
	}
	return s
}
