// Package deck moves spell ids between a combatant's draw pile, hand and
// discard pile.
//
// Every function preserves the multiset DrawPile + Hand + DiscardPile == Pool.
package deck

import (
	"slices"

	"github.com/louisbranch/spellduel/internal/random"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/combat"
)

// Draw pops the top of the draw pile into the hand.
//
// An empty draw pile is reshuffled first. Draw reports false when the hand is
// already full or the pool has nothing left to give.
func Draw(c *combat.Combatant, maxHand int, rng random.Source) (string, bool) {
	if len(c.Hand) >= maxHand {
		return "", false
	}
	if len(c.DrawPile) == 0 {
		Reshuffle(c, rng)
	}
	if len(c.DrawPile) == 0 {
		return "", false
	}
	top := len(c.DrawPile) - 1
	id := c.DrawPile[top]
	c.DrawPile = c.DrawPile[:top]
	c.Hand = append(c.Hand, id)
	return id, true
}

// Reshuffle rebuilds the draw pile from every pool entry not currently in
// hand and empties the discard pile.
func Reshuffle(c *combat.Combatant, rng random.Source) {
	inHand := make(map[string]int, len(c.Hand))
	for _, id := range c.Hand {
		inHand[id]++
	}
	pile := make([]string, 0, len(c.Pool))
	for _, id := range c.Pool {
		if inHand[id] > 0 {
			inHand[id]--
			continue
		}
		pile = append(pile, id)
	}
	random.Shuffle(rng, pile)
	c.DrawPile = pile
	c.DiscardPile = nil
}

// Discard moves the first hand entry matching id to the discard pile.
func Discard(c *combat.Combatant, id string) bool {
	i := c.HandIndex(id)
	if i < 0 {
		return false
	}
	c.Hand = slices.Delete(c.Hand, i, i+1)
	c.DiscardPile = append(c.DiscardPile, id)
	return true
}

// Refill draws until the hand holds maxHand spells or nothing can be drawn.
// It returns the drawn ids in draw order.
func Refill(c *combat.Combatant, maxHand int, rng random.Source) []string {
	var drawn []string
	for len(c.Hand) < maxHand {
		id, ok := Draw(c, maxHand, rng)
		if !ok {
			break
		}
		drawn = append(drawn, id)
	}
	return drawn
}

// Deal seeds a combatant's piles from its pool: the whole pool is shuffled
// into the draw pile and the hand is filled.
func Deal(c *combat.Combatant, maxHand int, rng random.Source) []string {
	c.Hand = nil
	c.DiscardPile = nil
	c.DrawPile = slices.Clone(c.Pool)
	random.Shuffle(rng, c.DrawPile)
	return Refill(c, maxHand, rng)
}
