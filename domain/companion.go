package domain

import (
	"encoding/json"
	"time"
)

// MaxRecentContext bounds the rolling conversational window kept per
// companion.
const MaxRecentContext = 5

// Relationship score bounds.
const (
	MinRelationship = -100
	MaxRelationship = 100
)

// Personality describes a companion's persona.
type Personality struct {
	Traits     []string `json:"traits,omitempty"`
	Alignment  string   `json:"alignment,omitempty"`
	Background string   `json:"background,omitempty"`
	Quirks     []string `json:"quirks,omitempty"`
}

// Stats holds a companion's numeric attributes. Resource is nil for
// classes without a resource pool.
type Stats struct {
	Level            int    `json:"level"`
	Health           int    `json:"health"`
	Resource         *int   `json:"resource,omitempty"`
	PrimaryAttribute string `json:"primary_attribute,omitempty"`
}

// AIPartyMember is an autonomous companion agent in a session.
type AIPartyMember struct {
	CompanionID   string          `json:"companion_id"`
	Name          string          `json:"name"`
	Class         string          `json:"class"`
	Archetype     string          `json:"archetype,omitempty"`
	Personality   Personality     `json:"personality"`
	Stats         Stats           `json:"stats"`
	Relationships RelationshipMap `json:"relationships"`
	LastSpokeAt   time.Time       `json:"last_spoke_at"`
	RecentContext []string        `json:"recent_context,omitempty"`
}

// MarkSpoke records that the companion spoke. LastSpokeAt never moves
// backwards.
func (m *AIPartyMember) MarkSpoke(now time.Time) {
	if now.After(m.LastSpokeAt) {
		m.LastSpokeAt = now
	}
}

// PushContext appends text to the rolling context window, truncating to
// the most recent MaxRecentContext entries.
func (m *AIPartyMember) PushContext(text string) {
	m.RecentContext = append(m.RecentContext, text)
	if len(m.RecentContext) > MaxRecentContext {
		m.RecentContext = m.RecentContext[len(m.RecentContext)-MaxRecentContext:]
	}
}

// RelationshipEntry is one participant's score as stored. Maps are not
// portable across the persistence tiers, so relationships serialize as a
// pair list.
type RelationshipEntry struct {
	ParticipantID string `json:"participant_id"`
	Score         int    `json:"score"`
}

// RelationshipMap maps participant ids to clamped integer scores while
// keeping a stable order for serialization.
type RelationshipMap struct {
	entries []RelationshipEntry
}

func clampScore(score int) int {
	if score < MinRelationship {
		return MinRelationship
	}
	if score > MaxRelationship {
		return MaxRelationship
	}
	return score
}

// Get returns the score toward a participant.
func (r *RelationshipMap) Get(participantID string) (int, bool) {
	for _, e := range r.entries {
		if e.ParticipantID == participantID {
			return e.Score, true
		}
	}
	return 0, false
}

// Set stores a score, clamped to [MinRelationship, MaxRelationship].
func (r *RelationshipMap) Set(participantID string, score int) {
	score = clampScore(score)
	for i := range r.entries {
		if r.entries[i].ParticipantID == participantID {
			r.entries[i].Score = score
			return
		}
	}
	r.entries = append(r.entries, RelationshipEntry{ParticipantID: participantID, Score: score})
}

// Adjust shifts a score by delta (missing participants start at 0) and
// returns the clamped result.
func (r *RelationshipMap) Adjust(participantID string, delta int) int {
	cur, _ := r.Get(participantID)
	next := clampScore(cur + delta)
	r.Set(participantID, next)
	return next
}

// Entries returns a copy of the stored pairs.
func (r *RelationshipMap) Entries() []RelationshipEntry {
	out := make([]RelationshipEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of tracked participants.
func (r *RelationshipMap) Len() int { return len(r.entries) }

// MarshalJSON serializes the map as an ordered pair list.
func (r RelationshipMap) MarshalJSON() ([]byte, error) {
	if r.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.entries)
}

// UnmarshalJSON restores the map from a pair list, re-clamping scores.
func (r *RelationshipMap) UnmarshalJSON(data []byte) error {
	var entries []RelationshipEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	r.entries = nil
	for _, e := range entries {
		r.Set(e.ParticipantID, e.Score)
	}
	return nil
}
