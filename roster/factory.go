// Package roster builds AI companion rosters for new sessions.
package roster

import (
	"github.com/google/uuid"

	"questengine/catalog"
	"questengine/domain"
	"questengine/internal/dice"
)

const (
	minCompanions = 2
	maxCompanions = 3
)

// Factory instantiates companions from the template catalog.
type Factory struct {
	catalog *catalog.Catalog
	dice    *dice.Dice
}

// New creates a factory backed by the given catalog and random source.
func New(c *catalog.Catalog, d *dice.Dice) *Factory {
	return &Factory{catalog: c, dice: d}
}

// desiredCount is the pre-clamp companion target for a session shape.
// Solo play targets a fixed pair; multi-party sessions fill the table
// toward four seats.
func desiredCount(gameType domain.GameType, participantCount int) int {
	if gameType == domain.GameTypeSolo {
		return 2
	}
	n := 4 - participantCount
	if n < 1 {
		n = 1
	}
	return n
}

// BuildRoster creates the companion roster for a session. Templates are
// shuffled and taken without replacement; duplicates only occur when the
// realm's catalog is smaller than the roster.
func (f *Factory) BuildRoster(cfg domain.SessionConfig, participants []domain.Participant) []*domain.AIPartyMember {
	count := desiredCount(cfg.GameType, len(participants))
	if count < minCompanions {
		count = minCompanions
	}
	if count > maxCompanions {
		count = maxCompanions
	}

	templates := f.catalog.Templates(cfg.Realm)
	order := make([]int, len(templates))
	for i := range order {
		order[i] = i
	}
	f.dice.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	members := make([]*domain.AIPartyMember, 0, count)
	for i := 0; i < count; i++ {
		// Wrap around when the catalog has fewer templates than seats.
		tpl := templates[order[i%len(order)]]
		members = append(members, f.instantiate(tpl, participants))
	}
	return members
}

func (f *Factory) instantiate(tpl catalog.Template, participants []domain.Participant) *domain.AIPartyMember {
	m := &domain.AIPartyMember{
		CompanionID: "comp_" + uuid.New().String()[:8],
		Name:        tpl.Name,
		Class:       tpl.Class,
		Archetype:   tpl.Archetype,
		Personality: domain.Personality{
			Traits:     append([]string(nil), tpl.Traits...),
			Alignment:  tpl.Alignment,
			Background: tpl.Background,
			Quirks:     append([]string(nil), tpl.Quirks...),
		},
		Stats: domain.Stats{
			Level:            f.dice.IntRange(1, 4),
			Health:           tpl.BaseHealth + f.dice.Intn(10),
			PrimaryAttribute: tpl.PrimaryAttribute,
		},
	}
	if tpl.BaseResource > 0 {
		pool := tpl.BaseResource + f.dice.Intn(10)
		m.Stats.Resource = &pool
	}
	// Seed relationships with a small non-zero spread so companions do
	// not start artificially uniform.
	for _, p := range participants {
		m.Relationships.Set(p.ParticipantID, f.dice.IntRange(-10, 10))
	}
	return m
}
