package convo

import (
	"fmt"
	"strings"

	"questengine/domain"
)

func personaBlock(m *domain.AIPartyMember) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a %s %s.\n", m.Name, m.Archetype, m.Class)
	if len(m.Personality.Traits) > 0 {
		fmt.Fprintf(&b, "Traits: %s.\n", strings.Join(m.Personality.Traits, ", "))
	}
	if m.Personality.Background != "" {
		fmt.Fprintf(&b, "Background: %s\n", m.Personality.Background)
	}
	if len(m.Personality.Quirks) > 0 {
		fmt.Fprintf(&b, "Quirks: %s.\n", strings.Join(m.Personality.Quirks, "; "))
	}
	if len(m.RecentContext) > 0 {
		fmt.Fprintf(&b, "Recent conversation:\n")
		for _, line := range m.RecentContext {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}
	return b.String()
}

func responsePrompt(m *domain.AIPartyMember, trigger string) string {
	return personaBlock(m) +
		fmt.Sprintf("A party member just said: %q\nReply in character, in one or two sentences.", trigger)
}

func pairOpenerPrompt(a, b *domain.AIPartyMember, ct domain.ConversationType, trigger string) string {
	var mood string
	switch ct {
	case domain.ConversationStrategic:
		mood = "discuss tactics for the situation"
	case domain.ConversationMemory:
		mood = "share a memory this brings back"
	default:
		mood = "make light conversation"
	}
	return personaBlock(a) +
		fmt.Sprintf("Turn to your fellow companion %s and %s, prompted by: %q\nOne sentence, in character.", b.Name, mood, trigger)
}

// pairReplyPrompt composes the reply prompt from the persona snapshot
// taken at planning time and the opener generated at execute time.
func pairReplyPrompt(replyPersona, openerName, opener string) string {
	return replyPersona +
		fmt.Sprintf("Your fellow companion %s just said to you: %q\nAnswer them in one sentence, in character.", openerName, opener)
}

func supportPrompt(m *domain.AIPartyMember, st domain.SupportType, trigger string) string {
	var need string
	switch st {
	case domain.SupportEmotional:
		need = "reassure them"
	case domain.SupportGuidance:
		need = "offer them direction"
	case domain.SupportPhysical:
		need = "tend to them"
	}
	return personaBlock(m) +
		fmt.Sprintf("A party member is struggling; they said: %q\nSay one short supportive line to %s.", trigger, need)
}

func narratorPrompt(style domain.NarratorStyle, tail []domain.Message, trigger string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the narrator of an interactive adventure")
	if style != "" {
		fmt.Fprintf(&b, " in a %s style", style)
	}
	b.WriteString(".\nRecent events:\n")
	for _, m := range tail {
		fmt.Fprintf(&b, "[%s] %s: %s\n", m.Kind, m.Sender, m.Content)
	}
	fmt.Fprintf(&b, "A player just said: %q\nNarrate what happens next in two or three sentences.", trigger)
	return b.String()
}
