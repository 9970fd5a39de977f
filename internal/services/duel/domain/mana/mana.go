// Package mana implements the duel mana economy.
package mana

import (
	"github.com/louisbranch/spellduel/internal/services/duel/domain/combat"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/spell"
)

// CanAfford reports whether c has enough mana to cast s.
func CanAfford(c combat.Combatant, s spell.Spell) bool {
	return c.Mana >= s.ManaCost
}

// Spend deducts the spell cost, flooring at zero. It returns the mana spent.
func Spend(c *combat.Combatant, s spell.Spell) int {
	before := c.Mana
	c.Mana = max(0, c.Mana-s.ManaCost)
	return before - c.Mana
}

// Regen applies one round of regeneration. It returns the mana gained.
func Regen(c *combat.Combatant) int {
	return Restore(c, c.ManaRegen)
}

// Restore adds amount, which may be negative, clamped to [0, MaxMana]. It
// returns the actual change.
func Restore(c *combat.Combatant, amount int) int {
	before := c.Mana
	c.Mana = min(c.MaxMana, max(0, c.Mana+amount))
	return c.Mana - before
}
