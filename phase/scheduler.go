// Package phase drives the session phase state machine and owns the
// per-session phase transition timers.
package phase

import (
	"log"
	"sync"
	"time"

	"questengine/domain"
)

// DefaultIntroductionDwell is how long a session stays in the
// introduction phase before advancing automatically.
const DefaultIntroductionDwell = 30 * time.Second

// transitions is the allowed phase graph. Combat is reachable from and
// returns to exploration; resolution is terminal.
var transitions = map[domain.Phase][]domain.Phase{
	domain.PhaseWaiting:      {domain.PhaseIntroduction},
	domain.PhaseIntroduction: {domain.PhaseExploration},
	domain.PhaseExploration:  {domain.PhaseCombat, domain.PhaseResolution},
	domain.PhaseCombat:       {domain.PhaseExploration, domain.PhaseResolution},
	domain.PhaseResolution:   {},
}

// CanTransition reports whether from may advance to to.
func CanTransition(from, to domain.Phase) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AdvanceFunc is called when a phase timer fires. Implementations look
// the session up by id and must no-op silently if it no longer exists.
type AdvanceFunc func(sessionID string, to domain.Phase)

// Scheduler owns at most one pending phase timer per session.
type Scheduler struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	advance AdvanceFunc
}

// NewScheduler creates a scheduler that reports fired timers through
// advance.
func NewScheduler(advance AdvanceFunc) *Scheduler {
	return &Scheduler{
		timers:  make(map[string]*time.Timer),
		advance: advance,
	}
}

// ScheduleAdvance arms a one-shot transition timer for the session,
// cancelling any prior pending timer for the same id.
func (s *Scheduler) ScheduleAdvance(sessionID string, to domain.Phase, after time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[sessionID]; ok {
		t.Stop()
	}
	s.timers[sessionID] = time.AfterFunc(after, func() {
		s.fire(sessionID, to)
	})
}

func (s *Scheduler) fire(sessionID string, to domain.Phase) {
	// A timer callback must never escape its own boundary.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: phase timer for session %s panicked: %v", sessionID, r)
		}
	}()

	s.mu.Lock()
	delete(s.timers, sessionID)
	s.mu.Unlock()

	s.advance(sessionID, to)
}

// Cancel stops the pending timer for a session, if any. It is safe to
// call for unknown ids and after the timer has fired.
func (s *Scheduler) Cancel(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[sessionID]; ok {
		t.Stop()
		delete(s.timers, sessionID)
	}
}

// CancelAll stops every pending timer.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// Pending reports whether a timer is currently armed for the session.
func (s *Scheduler) Pending(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[sessionID]
	return ok
}
