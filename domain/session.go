// Package domain defines the core domain models for the session engine.
package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Phase represents a stage of the session lifecycle.
type Phase string

const (
	PhaseWaiting      Phase = "waiting"
	PhaseIntroduction Phase = "introduction"
	PhaseExploration  Phase = "exploration"
	PhaseCombat       Phase = "combat"
	PhaseResolution   Phase = "resolution"
)

// GameType selects how a session is paced and narrated.
type GameType string

const (
	GameTypeSolo        GameType = "solo"
	GameTypeMultiplayer GameType = "multiplayer"
	// GameTypeAutomated runs without a narrator reply; companions carry
	// the whole exchange.
	GameTypeAutomated GameType = "automated"
)

// NarratorStyle tunes the tone of narrator replies.
type NarratorStyle string

const (
	NarratorStyleClassic   NarratorStyle = "classic"
	NarratorStyleGrim      NarratorStyle = "grim"
	NarratorStyleWhimsical NarratorStyle = "whimsical"
)

// ContentRating tags a session for content policy purposes.
type ContentRating string

const (
	RatingFamily   ContentRating = "family"
	RatingStandard ContentRating = "standard"
	RatingMature   ContentRating = "mature"
)

// SessionConfig is the immutable configuration a session is created with.
type SessionConfig struct {
	Realm           string        `json:"realm"`
	Theme           string        `json:"theme,omitempty"`
	GameType        GameType      `json:"game_type"`
	MaxParticipants int           `json:"max_participants"`
	Duration        time.Duration `json:"duration"`
	NarratorStyle   NarratorStyle `json:"narrator_style,omitempty"`
	AutoStart       bool          `json:"auto_start"`
	Rating          ContentRating `json:"rating,omitempty"`
}

// Validate checks the config at session creation time.
func (c SessionConfig) Validate() error {
	if c.MaxParticipants < 1 {
		return fmt.Errorf("%w: max_participants must be >= 1", ErrInvalidConfig)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be > 0", ErrInvalidConfig)
	}
	return nil
}

// Participant is a human player in a session, unique by ParticipantID.
type Participant struct {
	ParticipantID string    `json:"participant_id"`
	DisplayName   string    `json:"display_name"`
	Experience    string    `json:"experience,omitempty"`
	Preferences   []string  `json:"preferences,omitempty"`
	JoinedAt      time.Time `json:"joined_at"`
}

// Session is the aggregate root. It is owned exclusively by the engine's
// registry; other components receive it for the duration of a single
// operation and must not retain it.
type Session struct {
	SessionID    string           `json:"session_id"`
	OwnerID      string           `json:"owner_id"`
	Config       SessionConfig    `json:"config"`
	Participants []Participant    `json:"participants"`
	Companions   []*AIPartyMember `json:"companions"`
	Phase        Phase            `json:"phase"`
	StartedAt    time.Time        `json:"started_at"`
	Transcript   []Message        `json:"transcript"`
	WorldState   json.RawMessage  `json:"world_state,omitempty"`
	Quests       json.RawMessage  `json:"quests,omitempty"`
	NPCs         json.RawMessage  `json:"npcs,omitempty"`
	Insights     *InsightLog      `json:"insights,omitempty"`
}

// HasParticipant reports whether a participant id is present.
func (s *Session) HasParticipant(id string) bool {
	for _, p := range s.Participants {
		if p.ParticipantID == id {
			return true
		}
	}
	return false
}

// Companion returns the roster member with the given id, or nil.
func (s *Session) Companion(id string) *AIPartyMember {
	for _, m := range s.Companions {
		if m.CompanionID == id {
			return m
		}
	}
	return nil
}

// Append adds a message to the transcript, clamping its timestamp so the
// transcript stays non-decreasing in append order. It returns the message
// as stored.
func (s *Session) Append(m Message) Message {
	if n := len(s.Transcript); n > 0 {
		if last := s.Transcript[n-1].CreatedAt; m.CreatedAt.Before(last) {
			m.CreatedAt = last
		}
	}
	s.Transcript = append(s.Transcript, m)
	return m
}

// TranscriptTail returns up to the last n transcript messages.
func (s *Session) TranscriptTail(n int) []Message {
	if len(s.Transcript) <= n {
		return s.Transcript
	}
	return s.Transcript[len(s.Transcript)-n:]
}
