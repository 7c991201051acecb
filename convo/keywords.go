package convo

import (
	"strings"

	"questengine/domain"
)

// classAffinities maps a companion class to the trigger words that force
// response eligibility regardless of cooldown.
var classAffinities = map[string][]string{
	"ranger":       {"forest", "track", "hunt", "wild", "trail", "animal"},
	"cleric":       {"heal", "wounded", "divine", "pray", "bless"},
	"warrior":      {"fight", "battle", "sword", "attack", "shield"},
	"wizard":       {"magic", "spell", "arcane", "rune", "ritual"},
	"rogue":        {"sneak", "lock", "trap", "steal", "shadow"},
	"bard":         {"song", "story", "music", "tale"},
	"medic":        {"heal", "wounded", "hurt", "patch"},
	"engineer":     {"repair", "machine", "hack", "circuit", "door"},
	"investigator": {"clue", "mystery", "evidence", "suspect"},
}

// distressKeywords maps support types to their trigger words.
var distressKeywords = map[domain.SupportType][]string{
	domain.SupportEmotional: {"scared", "afraid", "worried", "overwhelmed", "anxious"},
	domain.SupportGuidance:  {"confused", "lost", "help", "unsure"},
	domain.SupportPhysical:  {"tired", "hurt", "injured", "exhausted", "bleeding"},
}

// supportTraits maps support types to the personality traits that
// qualify a companion to offer that kind of support.
var supportTraits = map[domain.SupportType][]string{
	domain.SupportEmotional: {"protective", "empathetic", "loyal"},
	domain.SupportGuidance:  {"wise", "experienced", "helpful"},
	domain.SupportPhysical:  {"healer", "protective"},
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func hasAffinityKeyword(class, text string) bool {
	words, ok := classAffinities[strings.ToLower(class)]
	if !ok {
		return false
	}
	return containsAny(strings.ToLower(text), words)
}

// classifyConversation picks the companion-pair conversation type from
// the trigger text.
func classifyConversation(text string) domain.ConversationType {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, []string{"danger", "combat"}):
		return domain.ConversationStrategic
	case containsAny(lower, []string{"remember", "past"}):
		return domain.ConversationMemory
	default:
		return domain.ConversationBanter
	}
}

// detectSupportType scans the trigger text for distress keyword classes.
// Emotional distress takes precedence over guidance, guidance over
// physical.
func detectSupportType(text string) (domain.SupportType, bool) {
	lower := strings.ToLower(text)
	for _, st := range []domain.SupportType{domain.SupportEmotional, domain.SupportGuidance, domain.SupportPhysical} {
		if containsAny(lower, distressKeywords[st]) {
			return st, true
		}
	}
	return "", false
}

// matchesSupport reports whether a companion qualifies to offer the
// given kind of support. Physical support also admits healer classes.
func matchesSupport(m *domain.AIPartyMember, st domain.SupportType) bool {
	if st == domain.SupportPhysical {
		switch strings.ToLower(m.Class) {
		case "cleric", "medic":
			return true
		}
	}
	qualifying := supportTraits[st]
	for _, trait := range m.Personality.Traits {
		if containsAny(strings.ToLower(trait), qualifying) {
			return true
		}
	}
	return false
}
