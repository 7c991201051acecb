package engine

import (
	"context"
	"fmt"
	"sort"

	"questengine/domain"
)

// CreateSession validates the config, builds the companion roster,
// registers the session in the waiting phase, and starts its timers. It
// returns the new session id. The initial cache write is best-effort and
// never blocks on the remote store.
func (e *Engine) CreateSession(ctx context.Context, cfg domain.SessionConfig) (string, error) {
	if cfg.GameType == "" {
		cfg.GameType = domain.GameTypeMultiplayer
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	now := e.now()
	s := &domain.Session{
		OwnerID:   e.opts.OwnerID,
		Config:    cfg,
		Phase:     domain.PhaseWaiting,
		StartedAt: now,
		Insights:  domain.NewInsightLog(),
	}
	s.Companions = e.factory.BuildRoster(cfg, nil)

	e.mu.Lock()
	s.SessionID = e.newSessionID()
	e.sessions[s.SessionID] = &liveSession{s: s}
	e.mu.Unlock()

	e.sync.StartAutoSave(s.SessionID)
	e.sync.SaveNow(ctx, domain.NewRecord(s, now))

	return s.SessionID, nil
}

// AddParticipant joins a participant to a session. A full session or a
// duplicate id is rejected. When auto-start is configured, reaching two
// participants advances the session into the introduction phase.
func (e *Engine) AddParticipant(ctx context.Context, sessionID string, p domain.Participant) error {
	entry, ok := e.lookup(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}

	entry.mu.Lock()
	s := entry.s
	if len(s.Participants) == s.Config.MaxParticipants {
		entry.mu.Unlock()
		return domain.ErrSessionFull
	}
	if s.HasParticipant(p.ParticipantID) {
		entry.mu.Unlock()
		return domain.ErrDuplicateParticipant
	}

	now := e.now()
	if p.JoinedAt.IsZero() {
		p.JoinedAt = now
	}
	s.Participants = append(s.Participants, p)

	// Companions meet the newcomer with a small non-zero disposition.
	for _, m := range s.Companions {
		m.Relationships.Set(p.ParticipantID, e.dice.IntRange(-10, 10))
	}

	s.Append(domain.Message{
		MessageID: newMessageID(),
		Kind:      domain.MessageKindSystem,
		Content:   fmt.Sprintf("%s joined the party.", p.DisplayName),
		Sender:    "system",
		CreatedAt: now,
	})

	if s.Config.AutoStart && len(s.Participants) == 2 && s.Phase == domain.PhaseWaiting {
		e.advanceLocked(s, domain.PhaseIntroduction)
	}
	entry.mu.Unlock()

	e.saveAsync(sessionID)
	return nil
}

// RemoveParticipant removes a participant if present. Removing an absent
// participant returns false, not an error.
func (e *Engine) RemoveParticipant(ctx context.Context, sessionID, participantID string) (bool, error) {
	entry, ok := e.lookup(sessionID)
	if !ok {
		return false, domain.ErrSessionNotFound
	}

	entry.mu.Lock()
	s := entry.s
	idx := -1
	for i, p := range s.Participants {
		if p.ParticipantID == participantID {
			idx = i
			break
		}
	}
	if idx < 0 {
		entry.mu.Unlock()
		return false, nil
	}

	name := s.Participants[idx].DisplayName
	s.Participants = append(s.Participants[:idx], s.Participants[idx+1:]...)
	s.Append(domain.Message{
		MessageID: newMessageID(),
		Kind:      domain.MessageKindSystem,
		Content:   fmt.Sprintf("%s left the party.", name),
		Sender:    "system",
		CreatedAt: e.now(),
	})
	entry.mu.Unlock()

	e.saveAsync(sessionID)
	return true, nil
}

// DeleteSession cancels the session's timers and removes it from memory
// and the local cache. Remote deletion is best-effort.
func (e *Engine) DeleteSession(ctx context.Context, sessionID string) error {
	e.mu.Lock()
	_, ok := e.sessions[sessionID]
	if !ok {
		e.mu.Unlock()
		return domain.ErrSessionNotFound
	}
	delete(e.sessions, sessionID)
	e.mu.Unlock()

	e.phases.Cancel(sessionID)
	e.sync.StopAutoSave(sessionID)
	e.sync.Remove(ctx, sessionID)
	return nil
}

// GetSession returns a snapshot of a session, or false if absent.
// Callers never receive the live aggregate.
func (e *Engine) GetSession(sessionID string) (*domain.Session, bool) {
	rec, ok := e.Record(sessionID)
	if !ok {
		return nil, false
	}
	return rec.Session(), true
}

// ListActiveSessions returns snapshots of every registered session,
// oldest first.
func (e *Engine) ListActiveSessions() []*domain.Session {
	out := e.snapshotAll()
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}

// ListRecoverableSessions returns snapshots of sessions a player can
// rejoin: those with transcript activity that have not resolved.
func (e *Engine) ListRecoverableSessions() []*domain.Session {
	all := e.ListActiveSessions()
	out := make([]*domain.Session, 0, len(all))
	for _, s := range all {
		if s.Phase != domain.PhaseResolution && len(s.Transcript) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// CleanupExpired removes sessions past the retention age that never saw
// any transcript activity, and returns how many were removed. Sessions
// with activity are only ever deleted manually.
func (e *Engine) CleanupExpired(ctx context.Context) int {
	cutoff := e.now().Add(-e.opts.RetentionAge)

	var expired []string
	for _, s := range e.snapshotAll() {
		if len(s.Transcript) == 0 && s.StartedAt.Before(cutoff) {
			expired = append(expired, s.SessionID)
		}
	}

	count := 0
	for _, id := range expired {
		if err := e.DeleteSession(ctx, id); err == nil {
			count++
		}
	}
	return count
}
