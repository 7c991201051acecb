package engine

import (
	"context"
	"log"

	"questengine/domain"
	"questengine/policy"
)

// ProcessMessage appends a participant's message, runs the conversation
// orchestrator to produce companion messages and a narrator reply, and
// returns the reply. The per-session lock is released around the
// external completion calls so a slow gateway never blocks unrelated
// operations on other sessions.
func (e *Engine) ProcessMessage(ctx context.Context, sessionID, participantID, text string) (domain.Message, error) {
	entry, ok := e.lookup(sessionID)
	if !ok {
		return domain.Message{}, domain.ErrSessionNotFound
	}

	decision := policy.DecisionAllow
	if e.policy != nil {
		entry.mu.Lock()
		rating := string(entry.s.Config.Rating)
		entry.mu.Unlock()

		d, err := e.policy.Evaluate(ctx, rating, text)
		if err != nil {
			// Policy trouble never blocks play.
			log.Printf("ERROR: content policy evaluation failed: %v", err)
		} else {
			decision = d
		}
	}

	entry.mu.Lock()
	s := entry.s
	sender := ""
	for _, p := range s.Participants {
		if p.ParticipantID == participantID {
			sender = p.DisplayName
			break
		}
	}
	if sender == "" {
		entry.mu.Unlock()
		return domain.Message{}, domain.ErrParticipantNotFound
	}

	if decision == policy.DecisionBlock {
		blocked := s.Append(domain.Message{
			MessageID: newMessageID(),
			Kind:      domain.MessageKindSystem,
			Content:   "The narrator gently steers the story elsewhere.",
			Sender:    "system",
			CreatedAt: e.now(),
		})
		entry.mu.Unlock()
		e.saveAsync(sessionID)
		return blocked, nil
	}

	s.Append(domain.Message{
		MessageID: newMessageID(),
		Kind:      domain.MessageKindParticipant,
		Content:   text,
		Sender:    sender,
		CreatedAt: e.now(),
	})
	plan := e.convo.Plan(s, participantID, text)
	entry.mu.Unlock()

	// External completion calls run without the session lock.
	result := e.convo.Execute(ctx, plan)

	entry.mu.Lock()
	appended := e.convo.Apply(entry.s, plan, result)
	entry.mu.Unlock()

	e.saveAsync(sessionID)

	// The narrator reply is the caller's return value; automated
	// sessions have none, so fall back to the last generated message.
	for i := len(appended) - 1; i >= 0; i-- {
		if appended[i].Kind == domain.MessageKindNarrator {
			return appended[i], nil
		}
	}
	if len(appended) > 0 {
		return appended[len(appended)-1], nil
	}
	return domain.Message{}, nil
}
