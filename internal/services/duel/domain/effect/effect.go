// Package effect resolves spells against combatants and ticks active effects.
package effect

import (
	"github.com/louisbranch/spellduel/internal/random"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/combat"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/event"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/mana"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/narrate"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/spell"
)

// Options tune a single resolution.
type Options struct {
	Rng            random.Source
	Narrator       narrate.Narrator
	CritChance     int
	CritMultiplier int
}

// Outcome summarizes what a resolution did.
type Outcome struct {
	// Damage is the health actually removed from the target.
	Damage int
	// Healing is the health actually restored to the caster.
	Healing  int
	Critical bool
	Health   []event.HealthDelta
	Effects  []string
}

// ApplyCast resolves s cast by caster against the opposing side.
//
// The order is fixed: snapshot, spend, damage, heal, effects. Each step that
// changes something appends a log line to state.
func ApplyCast(state *combat.State, caster combat.Side, s spell.Spell, opts Options) Outcome {
	state.Append(opts.Narrator.Cast(state.Combatant(caster).Name, s.Name))
	return resolve(state, caster, s, opts, false)
}

// ApplyPunch resolves a Mystic Punch for damage. Punch damage is fixed:
// shields, empower and critical hits do not change it.
func ApplyPunch(state *combat.State, caster combat.Side, damage int, discarded string, opts Options) Outcome {
	state.Append(opts.Narrator.Punch(state.Combatant(caster).Name, discarded))
	return resolve(state, caster, spell.MysticPunch(damage), opts, true)
}

func resolve(state *combat.State, casterSide combat.Side, s spell.Spell, opts Options, fixed bool) Outcome {
	targetSide := casterSide.Opponent()
	caster := state.Combatant(casterSide)
	target := state.Combatant(targetSide)
	narrator := opts.Narrator

	before := []event.HealthDelta{
		{Side: combat.SidePlayer, Before: state.Player.Health},
		{Side: combat.SideEnemy, Before: state.Enemy.Health},
	}
	var out Outcome

	mana.Spend(caster, s)

	if s.Damage > 0 {
		amount := s.Damage
		if !fixed {
			amount = max(0, amount+caster.EffectTotal(spell.EffectEmpower)-target.EffectTotal(spell.EffectShield))
			if amount > 0 && opts.Rng != nil && random.Percent(opts.Rng, opts.CritChance) {
				out.Critical = true
				amount *= max(1, opts.CritMultiplier)
				state.Append(narrator.Critical())
			}
		}
		out.Damage = min(target.Health, amount)
		target.Health -= out.Damage
		state.Append(narrator.Damage(target.Name, out.Damage))
	}

	if s.Healing > 0 {
		out.Healing = min(caster.MaxHealth-caster.Health, s.Healing)
		caster.Health += out.Healing
		state.Append(narrator.Heal(caster.Name, out.Healing))
	}

	for _, e := range s.Effects {
		recipient := caster
		if e.Target == spell.TargetOpponent {
			recipient = target
		}
		if e.Immediate() {
			delta := mana.Restore(recipient, e.Value)
			state.Append(narrator.ManaRestored(recipient.Name, delta))
			out.Effects = append(out.Effects, string(e.Type))
			continue
		}
		recipient.ActiveEffects = append(recipient.ActiveEffects, combat.ActiveEffect{
			Name:          s.Name,
			Type:          e.Type,
			Remaining:     e.Rounds(),
			Magnitude:     e.Value,
			SourceSpellID: s.ID,
		})
		state.Append(narrator.EffectApplied(recipient.Name, s.Name, e.Rounds()))
		out.Effects = append(out.Effects, string(e.Type))
	}

	before[0].After = state.Player.Health
	before[1].After = state.Enemy.Health
	out.Health = before
	return out
}

// TickDown runs one round of upkeep on side's active effects.
//
// Recurring effects apply their magnitude first. Every effect then loses one
// round and is removed when none remain.
func TickDown(state *combat.State, side combat.Side, narrator narrate.Narrator) []event.EffectTicked {
	c := state.Combatant(side)
	if len(c.ActiveEffects) == 0 {
		return nil
	}
	ticks := make([]event.EffectTicked, 0, len(c.ActiveEffects))
	kept := c.ActiveEffects[:0]
	for _, e := range c.ActiveEffects {
		tick := event.EffectTicked{Side: side, Name: e.Name, Source: e.SourceSpellID}
		switch e.Type {
		case spell.EffectDamageOverTime:
			tick.Delta = -min(c.Health, max(0, e.Magnitude))
		case spell.EffectHealOverTime:
			tick.Delta = min(c.MaxHealth-c.Health, max(0, e.Magnitude))
		}
		if e.Type == spell.EffectDamageOverTime || e.Type == spell.EffectHealOverTime {
			c.Health += tick.Delta
			state.Append(narrator.EffectTick(c.Name, e.Name, tick.Delta))
		}
		e.Remaining--
		tick.Remaining = e.Remaining
		if e.Remaining <= 0 {
			tick.Expired = true
			state.Append(narrator.EffectExpired(c.Name, e.Name))
		} else {
			kept = append(kept, e)
		}
		ticks = append(ticks, tick)
	}
	c.ActiveEffects = kept
	return ticks
}
