package convo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questengine/completion"
	"questengine/domain"
	"questengine/internal/dice"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
}

func testOrchestrator(svc completion.Service) *Orchestrator {
	return New(svc, dice.New(1), Config{Now: fixedNow})
}

func echoService() completion.Service {
	return completion.Func(func(ctx context.Context, prompt string) (string, error) {
		return "generated line", nil
	})
}

func failingService() completion.Service {
	return completion.Func(func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("upstream unavailable")
	})
}

func companion(id, name, class string, traits ...string) *domain.AIPartyMember {
	return &domain.AIPartyMember{
		CompanionID: id,
		Name:        name,
		Class:       class,
		Personality: domain.Personality{Traits: traits},
	}
}

func testSession(companions ...*domain.AIPartyMember) *domain.Session {
	return &domain.Session{
		SessionID: "sess_test",
		Config: domain.SessionConfig{
			Realm:           "Fantasy",
			GameType:        domain.GameTypeMultiplayer,
			MaxParticipants: 4,
			Duration:        time.Hour,
		},
		Participants: []domain.Participant{{ParticipantID: "p1", DisplayName: "Alice"}},
		Companions:   companions,
		Phase:        domain.PhaseExploration,
		Insights:     domain.NewInsightLog(),
	}
}

func TestPlanIdleCompanionResponds(t *testing.T) {
	o := testOrchestrator(echoService())
	s := testSession(companion("c1", "Kaelen", "ranger"))

	p := o.Plan(s, "p1", "shall we move on?")

	require.Len(t, p.Responders, 1)
	assert.Equal(t, "c1", p.Responders[0].CompanionID)
	assert.Contains(t, p.Responders[0].Prompt, "Kaelen")
}

func TestPlanKeywordOverridesCooldown(t *testing.T) {
	o := testOrchestrator(echoService())
	ranger := companion("c1", "Kaelen", "ranger")
	ranger.LastSpokeAt = fixedNow() // just spoke, not idle
	s := testSession(ranger)

	p := o.Plan(s, "p1", "there are strange tracks in the forest")

	require.Len(t, p.Responders, 1)
	assert.Equal(t, "c1", p.Responders[0].CompanionID)
}

func TestPlanNoPairWhenCompanionsBusy(t *testing.T) {
	o := testOrchestrator(echoService())
	a := companion("c1", "Kaelen", "ranger")
	b := companion("c2", "Brakka", "warrior")
	a.LastSpokeAt = fixedNow()
	b.LastSpokeAt = fixedNow()
	s := testSession(a, b)

	p := o.Plan(s, "p1", "onward")
	assert.Nil(t, p.Pair)
}

func TestPlanSupportSelection(t *testing.T) {
	o := testOrchestrator(echoService())
	s := testSession(
		companion("c1", "Kaelen", "ranger", "observant"),
		companion("c2", "Sister Maren", "cleric", "empathetic"),
		companion("c3", "Brakka", "warrior", "protective"),
		companion("c4", "Whistle", "rogue", "loyal"),
	)

	p := o.Plan(s, "p1", "I'm really scared of this place")

	require.Len(t, p.Support, maxSupporters)
	assert.Equal(t, "c2", p.Support[0].CompanionID)
	assert.Equal(t, "c3", p.Support[1].CompanionID)
	assert.Equal(t, domain.SupportEmotional, p.Support[0].Type)
}

func TestPlanNarratorSkippedForAutomated(t *testing.T) {
	o := testOrchestrator(echoService())

	s := testSession(companion("c1", "Kaelen", "ranger"))
	p := o.Plan(s, "p1", "hello")
	assert.NotEmpty(t, p.NarratorPrompt)

	s.Config.GameType = domain.GameTypeAutomated
	p = o.Plan(s, "p1", "hello")
	assert.Empty(t, p.NarratorPrompt)
}

func TestExecuteResponderFallback(t *testing.T) {
	o := testOrchestrator(failingService())
	p := &Plan{
		ParticipantID:  "p1",
		Responders:     []ResponderPlan{{CompanionID: "c1", Name: "Kaelen", Prompt: "x"}},
		NarratorPrompt: "y",
	}

	r := o.Execute(context.Background(), p)

	require.Len(t, r.Responses, 1)
	assert.True(t, r.Responses[0].Fallback)
	assert.Equal(t, "*Kaelen nods thoughtfully*", r.Responses[0].Text)
	assert.Equal(t, narratorFallback, r.Narrator)
}

func TestExecuteOmitsFailedPairAndSupport(t *testing.T) {
	o := testOrchestrator(failingService())
	p := &Plan{
		ParticipantID: "p1",
		Pair: &PairPlan{
			AID: "c1", AName: "Kaelen",
			BID: "c2", BName: "Brakka",
			Type:         domain.ConversationBanter,
			OpenerPrompt: "x",
			ReplyPersona: "persona",
		},
		Support: []SupportPlan{{CompanionID: "c2", Name: "Brakka", Type: domain.SupportPhysical, Prompt: "z"}},
	}

	r := o.Execute(context.Background(), p)

	assert.Nil(t, r.Pair)
	assert.Empty(t, r.Support)
}

func TestExecuteGeneratesPair(t *testing.T) {
	o := testOrchestrator(echoService())
	p := &Plan{
		ParticipantID: "p1",
		Pair: &PairPlan{
			AID: "c1", AName: "Kaelen",
			BID: "c2", BName: "Brakka",
			Type:         domain.ConversationStrategic,
			OpenerPrompt: "x",
			ReplyPersona: "persona",
		},
	}

	r := o.Execute(context.Background(), p)

	require.NotNil(t, r.Pair)
	assert.Equal(t, domain.ConversationStrategic, r.Pair.Type)
	assert.Equal(t, "c1", r.Pair.Opener.CompanionID)
	assert.Equal(t, "c2", r.Pair.Reply.CompanionID)
	assert.Equal(t, "generated line", r.Pair.Opener.Text)
}

func TestApplyOrderAndSideEffects(t *testing.T) {
	o := testOrchestrator(echoService())
	a := companion("c1", "Kaelen", "ranger")
	b := companion("c2", "Brakka", "warrior")
	c := companion("c3", "Sister Maren", "cleric", "empathetic")
	s := testSession(a, b, c)

	p := &Plan{
		ParticipantID: "p1",
		Trigger:       "we should press on",
		Responders:    []ResponderPlan{{CompanionID: "c1", Name: "Kaelen"}},
		Support:       []SupportPlan{{CompanionID: "c3", Name: "Sister Maren", Type: domain.SupportEmotional}},
	}
	r := &Result{
		Responses: []Line{{CompanionID: "c1", Name: "Kaelen", Text: "Agreed."}},
		Pair: &PairResult{
			Type:   domain.ConversationBanter,
			Opener: Line{CompanionID: "c1", Name: "Kaelen", Text: "Heard that, Brakka?"},
			Reply:  Line{CompanionID: "c2", Name: "Brakka", Text: "Loud and clear."},
		},
		Support:  []Line{{CompanionID: "c3", Name: "Sister Maren", Text: "Stay close to me."}},
		Narrator: "The path winds upward.",
	}

	appended := o.Apply(s, p, r)

	require.Len(t, appended, 5)
	assert.Equal(t, domain.MessageKindCompanion, appended[0].Kind)
	assert.Equal(t, "Kaelen", appended[0].Sender)
	assert.Equal(t, "Heard that, Brakka?", appended[1].Content)
	assert.Equal(t, "Loud and clear.", appended[2].Content)
	assert.Equal(t, domain.SupportEmotional, appended[3].Meta.Support)
	assert.Equal(t, domain.MessageKindNarrator, appended[4].Kind)
	assert.Equal(t, len(appended), len(s.Transcript))

	// Speakers are marked and remember the exchange.
	assert.Equal(t, fixedNow(), a.LastSpokeAt)
	assert.Equal(t, fixedNow(), b.LastSpokeAt)
	assert.Contains(t, a.RecentContext, "we should press on")

	// Responding warms the relationship by 1, support by 2.
	score, _ := a.Relationships.Get("p1")
	assert.Equal(t, 1, score)
	score, _ = c.Relationships.Get("p1")
	assert.Equal(t, 2, score)

	// The pair exchange leaves an insight behind.
	assert.Equal(t, 1, s.Insights.Len())
}

func TestApplyFallbackDoesNotWarmRelationship(t *testing.T) {
	o := testOrchestrator(echoService())
	a := companion("c1", "Kaelen", "ranger")
	s := testSession(a)

	p := &Plan{ParticipantID: "p1", Trigger: "hi", Responders: []ResponderPlan{{CompanionID: "c1", Name: "Kaelen"}}}
	r := &Result{Responses: []Line{{CompanionID: "c1", Name: "Kaelen", Text: "*Kaelen nods thoughtfully*", Fallback: true}}}

	o.Apply(s, p, r)

	_, ok := a.Relationships.Get("p1")
	assert.False(t, ok)
}
