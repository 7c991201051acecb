package engine

import (
	"fmt"

	"questengine/domain"
	"questengine/phase"
)

// AdvancePhase manually advances a session's phase. Invalid transitions
// are rejected; resolution accepts no further advances.
func (e *Engine) AdvancePhase(sessionID string, to domain.Phase) error {
	entry, ok := e.lookup(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}

	entry.mu.Lock()
	if !phase.CanTransition(entry.s.Phase, to) {
		from := entry.s.Phase
		entry.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}
	e.advanceLocked(entry.s, to)
	entry.mu.Unlock()

	e.saveAsync(sessionID)
	return nil
}

// timedAdvance is the phase timer callback. The session is looked up by
// id; if it was deleted, or drifted to a phase the transition no longer
// applies to, this is a silent no-op.
func (e *Engine) timedAdvance(sessionID string, to domain.Phase) {
	entry, ok := e.lookup(sessionID)
	if !ok {
		return
	}

	entry.mu.Lock()
	if !phase.CanTransition(entry.s.Phase, to) {
		entry.mu.Unlock()
		return
	}
	e.advanceLocked(entry.s, to)
	entry.mu.Unlock()

	e.saveAsync(sessionID)
}

// advanceLocked performs the transition. The caller holds the session
// lock and has validated the transition.
func (e *Engine) advanceLocked(s *domain.Session, to domain.Phase) {
	now := e.now()
	s.Phase = to
	s.Append(domain.Message{
		MessageID: newMessageID(),
		Kind:      domain.MessageKindSystem,
		Content:   fmt.Sprintf("The session enters the %s phase.", to),
		Sender:    "system",
		CreatedAt: now,
	})
	if s.Insights != nil {
		s.Insights.Add(fmt.Sprintf("Phase changed to %s.", to), now)
	}

	switch to {
	case domain.PhaseIntroduction:
		e.phases.ScheduleAdvance(s.SessionID, domain.PhaseExploration, e.opts.IntroductionDwell)
	case domain.PhaseResolution:
		e.phases.Cancel(s.SessionID)
	}
}
