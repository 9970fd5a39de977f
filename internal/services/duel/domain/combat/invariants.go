package combat

import (
	"fmt"
	"strings"
)

// InvariantError reports engine invariant violations. These are programming
// errors, never game conditions.
type InvariantError struct {
	Violations []string
}

func (e *InvariantError) Error() string {
	return "combat invariant violated: " + strings.Join(e.Violations, "; ")
}

// CheckInvariants validates a single state.
func CheckInvariants(s State) error {
	var violations []string
	maxHand := s.MaxHandSize
	if maxHand <= 0 {
		maxHand = DefaultMaxHandSize
	}
	for _, side := range []Side{SidePlayer, SideEnemy} {
		c := s.Combatant(side)
		if c.Health < 0 || c.Health > c.MaxHealth {
			violations = append(violations, fmt.Sprintf("%s health %d outside [0,%d]", side, c.Health, c.MaxHealth))
		}
		if c.Mana < 0 || c.Mana > c.MaxMana {
			violations = append(violations, fmt.Sprintf("%s mana %d outside [0,%d]", side, c.Mana, c.MaxMana))
		}
		if len(c.Hand) > maxHand {
			violations = append(violations, fmt.Sprintf("%s hand size %d exceeds %d", side, len(c.Hand), maxHand))
		}
		if !poolConserved(*c) {
			violations = append(violations, fmt.Sprintf("%s piles do not match pool", side))
		}
	}
	if s.Round < 1 {
		violations = append(violations, fmt.Sprintf("round %d below 1", s.Round))
	}
	if s.Status.Terminal() != (s.Phase == PhaseBattleOver) {
		violations = append(violations, fmt.Sprintf("status %s disagrees with phase %s", s.Status, s.Phase))
	}
	if len(violations) > 0 {
		return &InvariantError{Violations: violations}
	}
	return nil
}

// CheckTransition validates next against the state it was derived from.
func CheckTransition(prev, next State) error {
	var violations []string
	if err := CheckInvariants(next); err != nil {
		violations = append(violations, err.(*InvariantError).Violations...)
	}
	if next.Round < prev.Round {
		violations = append(violations, fmt.Sprintf("round went back from %d to %d", prev.Round, next.Round))
	}
	if prev.Status.Terminal() {
		if next.Status != prev.Status {
			violations = append(violations, fmt.Sprintf("terminal status changed from %s to %s", prev.Status, next.Status))
		}
		if next.Player.Health != prev.Player.Health || next.Enemy.Health != prev.Enemy.Health ||
			next.Player.Mana != prev.Player.Mana || next.Enemy.Mana != prev.Enemy.Mana {
			violations = append(violations, "health or mana changed after the duel ended")
		}
	}
	if len(next.Log) < len(prev.Log) {
		violations = append(violations, "battle log shrank")
	}
	if len(violations) > 0 {
		return &InvariantError{Violations: violations}
	}
	return nil
}

// MustHoldTransition panics with *InvariantError when CheckTransition fails.
func MustHoldTransition(prev, next State) {
	if err := CheckTransition(prev, next); err != nil {
		panic(err)
	}
}

func poolConserved(c Combatant) bool {
	counts := make(map[string]int, len(c.Pool))
	for _, id := range c.Pool {
		counts[id]++
	}
	for _, pile := range [][]string{c.DrawPile, c.Hand, c.DiscardPile} {
		for _, id := range pile {
			counts[id]--
		}
	}
	for _, n := range counts {
		if n != 0 {
			return false
		}
	}
	return true
}
