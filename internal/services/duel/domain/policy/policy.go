// Package policy chooses the AI opponent's spells and builds opponent pools.
package policy

import (
	"fmt"

	"github.com/louisbranch/spellduel/internal/random"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/spell"
)

// ChooseSpell picks the spell the opponent casts from hand.
//
// Only affordable spells are considered. At aiLevel 1 the choice is uniform
// at random; from level 2 the highest damage wins and ties go to the earliest
// hand position. It reports false when nothing is affordable.
func ChooseSpell(hand []spell.Spell, mana, aiLevel int, rng random.Source) (spell.Spell, bool) {
	affordable := make([]spell.Spell, 0, len(hand))
	for _, s := range hand {
		if s.ManaCost <= mana {
			affordable = append(affordable, s)
		}
	}
	if len(affordable) == 0 {
		return spell.Spell{}, false
	}
	if aiLevel <= 1 {
		return affordable[rng.Intn(len(affordable))], true
	}
	best := affordable[0]
	for _, s := range affordable[1:] {
		if s.Damage > best.Damage {
			best = s
		}
	}
	return best, true
}

// PoolForLevel returns every catalog spell unlocked at aiLevel, in catalog
// order. Each level unlocks the matching spell tier.
func PoolForLevel(catalog *spell.Catalog, aiLevel int) []spell.Spell {
	var pool []spell.Spell
	for _, s := range catalog.All() {
		if s.Tier <= aiLevel {
			pool = append(pool, s)
		}
	}
	return pool
}

// GenerateOpponent draws size spell ids from the aiLevel pool without
// replacement. Short pools are returned whole.
func GenerateOpponent(catalog *spell.Catalog, aiLevel, size int, rng random.Source) ([]string, error) {
	if aiLevel < 1 {
		return nil, fmt.Errorf("ai level %d must be at least 1", aiLevel)
	}
	pool := PoolForLevel(catalog, aiLevel)
	if len(pool) == 0 {
		return nil, fmt.Errorf("no spells available at ai level %d", aiLevel)
	}
	ids := make([]string, len(pool))
	for i, s := range pool {
		ids[i] = s.ID
	}
	random.Shuffle(rng, ids)
	if size > 0 && size < len(ids) {
		ids = ids[:size]
	}
	return ids, nil
}
