package domain

import "time"

// MessageKind identifies who produced a transcript entry.
type MessageKind string

const (
	MessageKindNarrator    MessageKind = "narrator"
	MessageKindParticipant MessageKind = "participant"
	MessageKindCompanion   MessageKind = "companion"
	MessageKindSystem      MessageKind = "system"
)

// ConversationType classifies a companion-to-companion exchange.
type ConversationType string

const (
	ConversationStrategic ConversationType = "strategic"
	ConversationMemory    ConversationType = "memory"
	ConversationBanter    ConversationType = "banter"
)

// SupportType classifies a supportive interaction.
type SupportType string

const (
	SupportEmotional SupportType = "emotional"
	SupportGuidance  SupportType = "guidance"
	SupportPhysical  SupportType = "physical"
)

// MessageMeta carries optional attribution detail for companion messages.
type MessageMeta struct {
	CompanionID  string           `json:"companion_id,omitempty"`
	Conversation ConversationType `json:"conversation,omitempty"`
	Support      SupportType      `json:"support,omitempty"`
}

// Message is a single transcript entry. The transcript is an append-only
// log; entries are never edited or reordered.
type Message struct {
	MessageID string       `json:"message_id"`
	Kind      MessageKind  `json:"kind"`
	Content   string       `json:"content"`
	Sender    string       `json:"sender"`
	CreatedAt time.Time    `json:"created_at"`
	Meta      *MessageMeta `json:"meta,omitempty"`
}
