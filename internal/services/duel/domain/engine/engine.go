package engine

import (
	"errors"
	"fmt"

	"github.com/louisbranch/spellduel/internal/random"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/combat"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/deck"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/effect"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/event"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/mana"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/narrate"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/outcome"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/policy"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/rules"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/spell"
)

// Engine resolves duel operations against a catalog and a rule set.
type Engine struct {
	catalog *spell.Catalog
	rules   rules.Rules
}

// New returns an engine. The rules must validate.
func New(catalog *spell.Catalog, r rules.Rules) (*Engine, error) {
	if catalog == nil || catalog.Len() == 0 {
		return nil, errors.New("spell catalog is required")
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &Engine{catalog: catalog, rules: r}, nil
}

// Catalog returns the engine's spell catalog.
func (e *Engine) Catalog() *spell.Catalog {
	return e.catalog
}

// Rules returns the engine's rule set.
func (e *Engine) Rules() rules.Rules {
	return e.rules
}

// Act resolves the player's turn.
//
// Accepted actions leave the duel in ProcessingOpponentTurn with the guard
// set, unless the action ended the duel.
func (e *Engine) Act(state combat.State, action Action) Result {
	if rejection := e.validate(state, action); rejection != nil {
		return reject(state, *rejection)
	}

	next := state.Clone()
	rng := nextSource(&next)
	narrator := narrate.New(next.Locale)
	player := &next.Player
	opts := e.effectOptions(rng, narrator)

	var events []event.Event
	switch action.Kind {
	case ActionCast:
		s, _ := e.catalog.Lookup(action.SpellID)
		deck.Discard(player, s.ID)
		out := effect.ApplyCast(&next, combat.SidePlayer, s, opts)
		next.Stats.SpellsCast = append(next.Stats.SpellsCast, s.ID)
		next.Stats.DamageDealt += out.Damage
		if out.Critical {
			next.Stats.CriticalHits++
		}
		events = append(events, castEvent(combat.SidePlayer, s, out))
		next.Stats.FinalBlow = s.ID
	case ActionPunch:
		discardName := ""
		if len(player.Hand) > 0 {
			discardName = e.spellName(action.DiscardID)
			deck.Discard(player, action.DiscardID)
		}
		damage := e.rules.PunchFor(next.Difficulty)
		out := effect.ApplyPunch(&next, combat.SidePlayer, damage, discardName, opts)
		next.Stats.Punches++
		next.Stats.DamageDealt += out.Damage
		events = append(events, event.MysticPunch{
			Caster:    combat.SidePlayer,
			Damage:    out.Damage,
			Discarded: action.DiscardID,
			Health:    out.Health,
		})
		next.Stats.FinalBlow = spell.MysticPunchID
	case ActionSkip:
		restored := mana.Restore(player, e.rules.SkipBonusMana)
		next.Append(narrator.Skip(player.Name, restored))
		events = append(events, event.TurnSkipped{Side: combat.SidePlayer, ManaRestored: restored})
	}

	if status := outcome.CheckTerminal(next); status.Terminal() {
		events = append(events, e.finish(&next, status, rng, narrator))
	} else {
		next.Phase = combat.PhaseProcessingOpponentTurn
		next.Processing = true
	}
	combat.MustHoldTransition(state, next)
	return Result{State: next, Events: events}
}

// ResolveOpponent plays the opponent's turn and, unless the duel ended, the
// round-end upkeep that hands control back to the player.
func (e *Engine) ResolveOpponent(state combat.State) Result {
	switch {
	case state.Status.Terminal():
		return reject(state, Rejection{Code: RejectBattleOver, Message: "the duel is already over"})
	case state.Phase != combat.PhaseProcessingOpponentTurn:
		return reject(state, Rejection{Code: RejectPhaseInvalid, Message: fmt.Sprintf("no opponent turn is pending in phase %s", state.Phase)})
	}

	next := state.Clone()
	rng := nextSource(&next)
	narrator := narrate.New(next.Locale)
	enemy := &next.Enemy

	var events []event.Event
	hand := make([]spell.Spell, 0, len(enemy.Hand))
	for _, id := range enemy.Hand {
		if s, ok := e.catalog.Lookup(id); ok {
			hand = append(hand, s)
		}
	}
	if s, ok := policy.ChooseSpell(hand, enemy.Mana, enemy.AILevel, rng); ok {
		deck.Discard(enemy, s.ID)
		out := effect.ApplyCast(&next, combat.SideEnemy, s, e.effectOptions(rng, narrator))
		next.Stats.EnemySpellsCast = append(next.Stats.EnemySpellsCast, s.ID)
		next.Stats.DamageTaken += out.Damage
		next.Stats.FinalBlow = s.ID
		events = append(events, castEvent(combat.SideEnemy, s, out))
		if status := outcome.CheckTerminal(next); status.Terminal() {
			events = append(events, e.finish(&next, status, rng, narrator))
			combat.MustHoldTransition(state, next)
			return Result{State: next, Events: events}
		}
	} else {
		next.Append(narrator.OpponentSkip(enemy.Name))
		events = append(events, event.OpponentSkipped{Mana: enemy.Mana})
	}

	events = append(events, e.endRound(&next, rng, narrator)...)
	combat.MustHoldTransition(state, next)
	return Result{State: next, Events: events}
}

// Exchange resolves a player action and the opponent reply in one call.
func (e *Engine) Exchange(state combat.State, action Action) Result {
	acted := e.Act(state, action)
	if acted.Rejected() || acted.State.Phase != combat.PhaseProcessingOpponentTurn {
		return acted
	}
	resolved := e.ResolveOpponent(acted.State)
	resolved.Events = append(acted.Events, resolved.Events...)
	return resolved
}

func (e *Engine) endRound(next *combat.State, rng random.Source, narrator narrate.Narrator) []event.Event {
	next.Phase = combat.PhaseRoundEnd
	next.Round++

	playerRegen := mana.Regen(&next.Player)
	enemyRegen := mana.Regen(&next.Enemy)

	var events []event.Event
	for _, side := range []combat.Side{combat.SidePlayer, combat.SideEnemy} {
		for _, tick := range effect.TickDown(next, side, narrator) {
			if tick.Delta < 0 {
				if side == combat.SidePlayer {
					next.Stats.DamageTaken -= tick.Delta
				} else {
					next.Stats.DamageDealt -= tick.Delta
				}
				next.Stats.FinalBlow = tick.Source
			}
			events = append(events, tick)
		}
		if status := outcome.CheckTerminal(*next); status.Terminal() {
			return append(events, e.finish(next, status, rng, narrator))
		}
	}

	for _, side := range []combat.Side{combat.SidePlayer, combat.SideEnemy} {
		if drawn := deck.Refill(next.Combatant(side), next.MaxHandSize, rng); len(drawn) > 0 {
			events = append(events, event.CardsDrawn{Side: side, Cards: drawn})
		}
	}
	events = append(events, event.RoundEnded{
		Round:       next.Round,
		PlayerMana:  next.Player.Mana,
		EnemyMana:   next.Enemy.Mana,
		PlayerRegen: playerRegen,
		EnemyRegen:  enemyRegen,
	})
	next.Append(narrator.RoundBegins(next.Round))
	next.Phase = combat.PhasePlayerTurn
	next.Processing = false
	return events
}

func (e *Engine) finish(next *combat.State, status combat.Status, rng random.Source, narrator narrate.Narrator) event.BattleOver {
	next.Status = status
	next.Phase = combat.PhaseBattleOver
	next.Processing = false
	rewards := outcome.ComputeRewards(*next, e.rules, rng)
	next.Rewards = &rewards
	if status == combat.StatusPlayerWon {
		next.Append(narrator.Victory(next.Enemy.Name))
	} else {
		next.Append(narrator.Defeat(next.Player.Name))
	}
	over := rewards
	return event.BattleOver{Status: status, Round: next.Round, Rewards: &over}
}

func (e *Engine) validate(state combat.State, action Action) *Rejection {
	switch {
	case state.Status.Terminal():
		return &Rejection{Code: RejectBattleOver, Message: "the duel is already over"}
	case state.Processing:
		return &Rejection{Code: RejectTurnInProgress, Message: "the opponent is still taking its turn"}
	case state.Phase != combat.PhasePlayerTurn:
		return &Rejection{Code: RejectPhaseInvalid, Message: fmt.Sprintf("actions are not accepted in phase %s", state.Phase)}
	}
	player := state.Player
	switch action.Kind {
	case ActionCast:
		s, ok := e.catalog.Lookup(action.SpellID)
		if !ok {
			return &Rejection{Code: RejectSpellUnknown, Message: fmt.Sprintf("spell %q does not exist", action.SpellID)}
		}
		if !player.InHand(s.ID) {
			return &Rejection{Code: RejectSpellNotInHand, Message: fmt.Sprintf("%s is not in hand", s.Name)}
		}
		if !mana.CanAfford(player, s) {
			return &Rejection{Code: RejectInsufficientMana, Message: fmt.Sprintf("%s costs %d mana, %d available", s.Name, s.ManaCost, player.Mana)}
		}
	case ActionPunch:
		if len(player.Hand) == 0 {
			return nil
		}
		if action.DiscardID == "" {
			return &Rejection{Code: RejectDiscardRequired, Message: "a Mystic Punch needs a card to discard"}
		}
		if !player.InHand(action.DiscardID) {
			return &Rejection{Code: RejectDiscardNotInHand, Message: fmt.Sprintf("%q is not in hand", action.DiscardID)}
		}
	case ActionSkip:
	default:
		return &Rejection{Code: RejectActionInvalid, Message: fmt.Sprintf("action %q is not supported", action.Kind)}
	}
	return nil
}

// reject returns state with one log line appended. Nothing else changes: the
// guard and the random cursor stay where they were.
func reject(state combat.State, rejection Rejection) Result {
	next := state.Clone()
	next.Append(narrate.New(next.Locale).Rejected(rejection.Message))
	combat.MustHoldTransition(state, next)
	return Result{
		State:     next,
		Events:    []event.Event{event.ActionRejected{Code: string(rejection.Code), Message: rejection.Message}},
		Rejection: &rejection,
	}
}

func (e *Engine) effectOptions(rng random.Source, narrator narrate.Narrator) effect.Options {
	return effect.Options{
		Rng:            rng,
		Narrator:       narrator,
		CritChance:     e.rules.CritChance,
		CritMultiplier: e.rules.CritMultiplier,
	}
}

func (e *Engine) spellName(id string) string {
	if s, ok := e.catalog.Lookup(id); ok {
		return s.Name
	}
	return id
}

func castEvent(caster combat.Side, s spell.Spell, out effect.Outcome) event.SpellCast {
	return event.SpellCast{
		Caster:   caster,
		SpellID:  s.ID,
		ManaCost: s.ManaCost,
		Damage:   out.Damage,
		Healing:  out.Healing,
		Critical: out.Critical,
		Health:   out.Health,
		Effects:  out.Effects,
	}
}

// nextSource derives the generator for one operation and advances the cursor.
func nextSource(state *combat.State) random.Source {
	rng := random.Derive(state.Seed, state.RandCursor)
	state.RandCursor++
	return rng
}
