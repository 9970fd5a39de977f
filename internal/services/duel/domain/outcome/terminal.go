// Package outcome decides when a duel ends and what it pays out.
package outcome

import "github.com/louisbranch/spellduel/internal/services/duel/domain/combat"

// CheckTerminal reports the duel status implied by combatant health.
//
// A terminal status is final. The enemy is checked first: callers evaluate
// after every resolution, and the player's action always resolves before the
// opponent's in an exchange.
func CheckTerminal(state combat.State) combat.Status {
	if state.Status.Terminal() {
		return state.Status
	}
	if state.Enemy.Health <= 0 {
		return combat.StatusPlayerWon
	}
	if state.Player.Health <= 0 {
		return combat.StatusEnemyWon
	}
	return combat.StatusActive
}
