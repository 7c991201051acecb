// Package convo decides which companions speak on each player turn and
// generates their lines through the external completion capability.
//
// The work is split into three stages so the engine can hold the
// per-session lock only around state access: Plan reads session state and
// rolls the dice, Execute performs the external completion calls, and
// Apply writes the results back to the session.
package convo

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"questengine/completion"
	"questengine/domain"
	"questengine/internal/dice"
)

const (
	defaultResponseCooldown = 30 * time.Second
	defaultPairCooldown     = 45 * time.Second

	randomEligibilityChance = 0.3
	secondResponderChance   = 0.3
	pairChance              = 0.3

	maxSupporters  = 2
	narratorWindow = 10

	narratorFallback = "The adventure continues..."
)

// Config tunes orchestrator behavior. Zero values take defaults.
type Config struct {
	ResponseCooldown time.Duration
	PairCooldown     time.Duration
	Now              func() time.Time
}

// Orchestrator plans and generates companion turns.
type Orchestrator struct {
	svc              completion.Service
	dice             *dice.Dice
	responseCooldown time.Duration
	pairCooldown     time.Duration
	now              func() time.Time
}

// New creates an orchestrator.
func New(svc completion.Service, d *dice.Dice, cfg Config) *Orchestrator {
	o := &Orchestrator{
		svc:              svc,
		dice:             d,
		responseCooldown: cfg.ResponseCooldown,
		pairCooldown:     cfg.PairCooldown,
		now:              cfg.Now,
	}
	if o.responseCooldown == 0 {
		o.responseCooldown = defaultResponseCooldown
	}
	if o.pairCooldown == 0 {
		o.pairCooldown = defaultPairCooldown
	}
	if o.now == nil {
		o.now = time.Now
	}
	return o
}

// ResponderPlan is one companion selected to answer the participant.
type ResponderPlan struct {
	CompanionID string
	Name        string
	Prompt      string
}

// PairPlan is a companion-to-companion exchange selected for this turn.
type PairPlan struct {
	AID, AName   string
	BID, BName   string
	Type         domain.ConversationType
	OpenerPrompt string
	ReplyPersona string
}

// SupportPlan is one companion selected to offer support.
type SupportPlan struct {
	CompanionID string
	Name        string
	Type        domain.SupportType
	Prompt      string
}

// Plan captures every decision for one participant turn. It holds only
// snapshots, never session references.
type Plan struct {
	ParticipantID  string
	Trigger        string
	Responders     []ResponderPlan
	Pair           *PairPlan
	Support        []SupportPlan
	NarratorPrompt string
}

// Line is one generated companion utterance.
type Line struct {
	CompanionID string
	Name        string
	Text        string
	Fallback    bool
}

// PairResult is a completed two-turn exchange.
type PairResult struct {
	Type   domain.ConversationType
	Opener Line
	Reply  Line
}

// Result holds the generated text for a plan.
type Result struct {
	Responses []Line
	Pair      *PairResult
	Support   []Line
	Narrator  string
}

// Plan decides which companions speak for this turn. It performs no I/O
// and must be called while the session is locked.
func (o *Orchestrator) Plan(s *domain.Session, participantID, text string) *Plan {
	now := o.now()
	p := &Plan{ParticipantID: participantID, Trigger: text}

	// 1. Companion responses: cooldown elapsed, affinity keyword, or a
	// random draw make a companion eligible; 1 responder is chosen, 2
	// with a smaller probability.
	var eligible []*domain.AIPartyMember
	for _, m := range s.Companions {
		idle := m.LastSpokeAt.IsZero() || now.Sub(m.LastSpokeAt) > o.responseCooldown
		if idle || hasAffinityKeyword(m.Class, text) || o.dice.Chance(randomEligibilityChance) {
			eligible = append(eligible, m)
		}
	}
	if len(eligible) > 0 {
		n := 1
		if o.dice.Chance(secondResponderChance) {
			n = 2
		}
		if n > len(eligible) {
			n = len(eligible)
		}
		o.dice.Shuffle(len(eligible), func(i, j int) {
			eligible[i], eligible[j] = eligible[j], eligible[i]
		})
		for _, m := range eligible[:n] {
			p.Responders = append(p.Responders, ResponderPlan{
				CompanionID: m.CompanionID,
				Name:        m.Name,
				Prompt:      responsePrompt(m, text),
			})
		}
	}

	// 2. Companion-to-companion exchange: at most one pair per turn.
	for i := 0; i < len(s.Companions) && p.Pair == nil; i++ {
		for j := i + 1; j < len(s.Companions); j++ {
			a, b := s.Companions[i], s.Companions[j]
			if !o.pairIdle(a, now) || !o.pairIdle(b, now) {
				continue
			}
			if !o.dice.Chance(pairChance) {
				continue
			}
			ct := classifyConversation(text)
			p.Pair = &PairPlan{
				AID: a.CompanionID, AName: a.Name,
				BID: b.CompanionID, BName: b.Name,
				Type:         ct,
				OpenerPrompt: pairOpenerPrompt(a, b, ct, text),
				ReplyPersona: personaBlock(b),
			}
			break
		}
	}

	// 3. Supportive interactions.
	if st, ok := detectSupportType(text); ok {
		for _, m := range s.Companions {
			if len(p.Support) == maxSupporters {
				break
			}
			if !matchesSupport(m, st) {
				continue
			}
			p.Support = append(p.Support, SupportPlan{
				CompanionID: m.CompanionID,
				Name:        m.Name,
				Type:        st,
				Prompt:      supportPrompt(m, st, text),
			})
		}
	}

	// 4. Narrator reply, except for fully automated sessions.
	if s.Config.GameType != domain.GameTypeAutomated {
		p.NarratorPrompt = narratorPrompt(s.Config.NarratorStyle, s.TranscriptTail(narratorWindow), text)
	}

	return p
}

func (o *Orchestrator) pairIdle(m *domain.AIPartyMember, now time.Time) bool {
	return m.LastSpokeAt.IsZero() || now.Sub(m.LastSpokeAt) > o.pairCooldown
}

// Execute generates text for a plan. It performs all external calls and
// must be invoked without holding the session lock. Completion failures
// degrade per part: responders fall back to an in-character placeholder,
// pair exchanges are omitted, support lines are omitted, and the
// narrator falls back to a stock line.
func (o *Orchestrator) Execute(ctx context.Context, p *Plan) *Result {
	r := &Result{}

	for _, rp := range p.Responders {
		text, err := o.svc.Complete(ctx, rp.Prompt)
		if err != nil {
			log.Printf("WARN: completion failed for companion %s: %v", rp.CompanionID, err)
			r.Responses = append(r.Responses, Line{
				CompanionID: rp.CompanionID,
				Name:        rp.Name,
				Text:        "*" + rp.Name + " nods thoughtfully*",
				Fallback:    true,
			})
			continue
		}
		r.Responses = append(r.Responses, Line{CompanionID: rp.CompanionID, Name: rp.Name, Text: text})
	}

	if p.Pair != nil {
		opener, err := o.svc.Complete(ctx, p.Pair.OpenerPrompt)
		if err != nil {
			log.Printf("WARN: pair exchange opener failed (%s, %s): %v", p.Pair.AID, p.Pair.BID, err)
		} else {
			reply, err := o.svc.Complete(ctx, pairReplyPrompt(p.Pair.ReplyPersona, p.Pair.AName, opener))
			if err != nil {
				log.Printf("WARN: pair exchange reply failed (%s, %s): %v", p.Pair.AID, p.Pair.BID, err)
			} else {
				r.Pair = &PairResult{
					Type:   p.Pair.Type,
					Opener: Line{CompanionID: p.Pair.AID, Name: p.Pair.AName, Text: opener},
					Reply:  Line{CompanionID: p.Pair.BID, Name: p.Pair.BName, Text: reply},
				}
			}
		}
	}

	for _, sp := range p.Support {
		text, err := o.svc.Complete(ctx, sp.Prompt)
		if err != nil {
			log.Printf("WARN: support line failed for companion %s: %v", sp.CompanionID, err)
			continue
		}
		r.Support = append(r.Support, Line{CompanionID: sp.CompanionID, Name: sp.Name, Text: text})
	}

	if p.NarratorPrompt != "" {
		text, err := o.svc.Complete(ctx, p.NarratorPrompt)
		if err != nil {
			log.Printf("WARN: narrator completion failed: %v", err)
			text = narratorFallback
		}
		r.Narrator = text
	}

	return r
}

// Apply appends the generated messages to the session transcript in the
// contract order (responses, pair exchange, support, narrator) and
// updates companion state. It must be called while the session is locked
// and returns the appended messages.
func (o *Orchestrator) Apply(s *domain.Session, p *Plan, r *Result) []domain.Message {
	now := o.now()
	var appended []domain.Message

	speak := func(id, text string) {
		if m := s.Companion(id); m != nil {
			m.MarkSpoke(now)
			m.PushContext(text)
		}
	}

	for _, line := range r.Responses {
		appended = append(appended, s.Append(domain.Message{
			MessageID: newMessageID(),
			Kind:      domain.MessageKindCompanion,
			Content:   line.Text,
			Sender:    line.Name,
			CreatedAt: now,
			Meta:      &domain.MessageMeta{CompanionID: line.CompanionID},
		}))
		if m := s.Companion(line.CompanionID); m != nil {
			m.MarkSpoke(now)
			m.PushContext(p.Trigger)
			m.PushContext(line.Text)
			if !line.Fallback {
				m.Relationships.Adjust(p.ParticipantID, 1)
			}
		}
	}

	if r.Pair != nil {
		for _, line := range []Line{r.Pair.Opener, r.Pair.Reply} {
			appended = append(appended, s.Append(domain.Message{
				MessageID: newMessageID(),
				Kind:      domain.MessageKindCompanion,
				Content:   line.Text,
				Sender:    line.Name,
				CreatedAt: now,
				Meta:      &domain.MessageMeta{CompanionID: line.CompanionID, Conversation: r.Pair.Type},
			}))
			speak(line.CompanionID, line.Text)
		}
		if s.Insights != nil {
			s.Insights.Add(r.Pair.Opener.Name+" and "+r.Pair.Reply.Name+" shared a moment of "+string(r.Pair.Type)+".", now)
		}
	}

	for _, line := range r.Support {
		var st domain.SupportType
		for _, sp := range p.Support {
			if sp.CompanionID == line.CompanionID {
				st = sp.Type
				break
			}
		}
		appended = append(appended, s.Append(domain.Message{
			MessageID: newMessageID(),
			Kind:      domain.MessageKindCompanion,
			Content:   line.Text,
			Sender:    line.Name,
			CreatedAt: now,
			Meta:      &domain.MessageMeta{CompanionID: line.CompanionID, Support: st},
		}))
		speak(line.CompanionID, line.Text)
		if m := s.Companion(line.CompanionID); m != nil {
			m.Relationships.Adjust(p.ParticipantID, 2)
		}
	}

	if r.Narrator != "" {
		appended = append(appended, s.Append(domain.Message{
			MessageID: newMessageID(),
			Kind:      domain.MessageKindNarrator,
			Content:   r.Narrator,
			Sender:    "Narrator",
			CreatedAt: now,
		}))
	}

	return appended
}

func newMessageID() string {
	return "msg_" + uuid.New().String()[:8]
}
