package domain

import "errors"

// Errors surfaced synchronously to callers of the engine. Completion and
// remote store failures are never surfaced; they degrade to fallbacks
// inside the engine.
var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrSessionFull          = errors.New("session is full")
	ErrDuplicateParticipant = errors.New("participant already joined")
	ErrInvalidConfig        = errors.New("invalid session config")
	ErrInvalidTransition    = errors.New("invalid phase transition")
)
