package outcome

import (
	"fmt"
	"slices"

	"github.com/louisbranch/spellduel/internal/random"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/spell"
)

// SpellChoiceSize is how many spells a level-up offer holds when the catalog
// has enough unseen spells.
const SpellChoiceSize = 3

// OfferSpellChoice builds a level-up offer: one spell from the defeated
// opponent's pool plus random unseen catalog spells. Unlocked spells are never
// offered. Short pools produce short offers.
func OfferSpellChoice(opponentPool, unlocked []string, catalog *spell.Catalog, rng random.Source) []string {
	known := make(map[string]bool, len(unlocked))
	for _, id := range unlocked {
		known[id] = true
	}
	var offer []string
	var fromOpponent []string
	for _, id := range unknownSpells(opponentPool, known) {
		if catalog.Has(id) {
			fromOpponent = append(fromOpponent, id)
		}
	}
	if len(fromOpponent) > 0 {
		pick := fromOpponent[rng.Intn(len(fromOpponent))]
		offer = append(offer, pick)
		known[pick] = true
	}
	rest := unknownSpells(catalog.IDs(), known)
	random.Shuffle(rng, rest)
	for _, id := range rest {
		if len(offer) >= SpellChoiceSize {
			break
		}
		offer = append(offer, id)
	}
	return offer
}

// ApplySpellChoice adds pick to unlocked. The pick must be part of offer.
func ApplySpellChoice(offer []string, pick string, unlocked []string) ([]string, error) {
	if !slices.Contains(offer, pick) {
		return nil, fmt.Errorf("spell %q was not offered", pick)
	}
	out := slices.Clone(unlocked)
	if !slices.Contains(out, pick) {
		out = append(out, pick)
	}
	return out, nil
}

// Progression maps accumulated experience to wizard levels.
type Progression struct {
	ExperiencePerLevel int
}

// LevelFor returns the level reached with xp. Levels start at 1.
func (p Progression) LevelFor(xp int) int {
	if p.ExperiencePerLevel <= 0 || xp <= 0 {
		return 1
	}
	return 1 + xp/p.ExperiencePerLevel
}

// LeveledUp reports whether gaining experience crosses a level boundary.
func (p Progression) LeveledUp(before, after int) bool {
	return p.LevelFor(after) > p.LevelFor(before)
}
