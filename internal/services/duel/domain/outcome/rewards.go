package outcome

import (
	"github.com/louisbranch/spellduel/internal/random"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/combat"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/rules"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/spell"
)

// ComputeRewards returns what the player earns for a finished duel.
//
// Defeat earns nothing. Victory scales base experience and gold by the
// difficulty profile, adds a seeded gold bonus, and pays a flawless bonus when
// the player took no damage. A new spell from the opponent's pool is rolled
// last, independently of everything else.
func ComputeRewards(state combat.State, r rules.Rules, rng random.Source) combat.Rewards {
	if state.Status != combat.StatusPlayerWon {
		return combat.Rewards{}
	}
	profile := r.Profile(state.Difficulty)
	rewards := combat.Rewards{
		Experience: r.BaseExperience * profile.RewardPercent / 100,
		Gold:       r.BaseGold * profile.RewardPercent / 100,
	}
	if r.GoldVariance > 0 {
		rewards.Gold += rng.Intn(r.GoldVariance + 1)
	}
	if Flawless(state) {
		rewards.Experience += rewards.Experience * r.FlawlessBonusPercent / 100
		rewards.Gold += rewards.Gold * r.FlawlessBonusPercent / 100
		if r.FlawlessItem != "" {
			rewards.Items = []string{r.FlawlessItem}
		}
	}
	if random.Percent(rng, profile.NewSpellChance) {
		candidates := unknownSpells(state.Enemy.Pool, knownSet(state))
		if len(candidates) > 0 {
			rewards.NewSpell = candidates[rng.Intn(len(candidates))]
		}
	}
	return rewards
}

// Flawless reports a victory without any damage taken.
func Flawless(state combat.State) bool {
	return state.Status == combat.StatusPlayerWon && state.Stats.DamageTaken == 0
}

func knownSet(state combat.State) map[string]bool {
	known := make(map[string]bool, len(state.KnownSpells)+len(state.Player.Pool))
	for _, id := range state.KnownSpells {
		known[id] = true
	}
	for _, id := range state.Player.Pool {
		known[id] = true
	}
	return known
}

// unknownSpells returns the distinct ids of pool not in known, in pool order.
func unknownSpells(pool []string, known map[string]bool) []string {
	seen := make(map[string]bool, len(pool))
	var out []string
	for _, id := range pool {
		if id == spell.MysticPunchID || known[id] || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
