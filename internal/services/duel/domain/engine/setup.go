package engine

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/louisbranch/spellduel/internal/services/duel/domain/combat"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/deck"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/event"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/narrate"
)

// Modifiers are equipment and title bonuses folded into a combatant at setup.
type Modifiers struct {
	HealthBonus int `json:"health_bonus,omitempty"`
	ManaBonus   int `json:"mana_bonus,omitempty"`
	RegenBonus  int `json:"regen_bonus,omitempty"`
}

// CombatantSeed describes one side before the duel starts.
type CombatantSeed struct {
	Name      string    `json:"name"`
	Spells    []string  `json:"spells"`
	MaxHealth int       `json:"max_health"`
	MaxMana   int       `json:"max_mana"`
	ManaRegen int       `json:"mana_regen"`
	AILevel   int       `json:"ai_level,omitempty"`
	Modifiers Modifiers `json:"modifiers"`
}

// Setup is everything needed to start a duel.
type Setup struct {
	Player     CombatantSeed     `json:"player"`
	Enemy      CombatantSeed     `json:"enemy"`
	Difficulty combat.Difficulty `json:"difficulty"`
	Seed       int64             `json:"seed"`
	Locale     string            `json:"locale"`
	// KnownSpells are unlocked spells outside the player's deck. New-spell
	// rewards never repeat them.
	KnownSpells []string `json:"known_spells,omitempty"`
}

// ErrInvalidSetup wraps every setup validation failure.
var ErrInvalidSetup = errors.New("invalid duel setup")

// NewDuel validates setup and deals the opening hands.
//
// Both sides start at full health and mana. Modifiers are applied before the
// maxima are fixed, so they never count against the invariants.
func (e *Engine) NewDuel(setup Setup) (Result, error) {
	difficulty, ok := combat.ParseDifficulty(string(setup.Difficulty))
	if !ok {
		return Result{}, fmt.Errorf("%w: difficulty %q is unknown", ErrInvalidSetup, setup.Difficulty)
	}
	if setup.Enemy.AILevel == 0 {
		setup.Enemy.AILevel = 1
	}
	player, err := e.buildCombatant(setup.Player, "Player")
	if err != nil {
		return Result{}, fmt.Errorf("%w: player: %w", ErrInvalidSetup, err)
	}
	enemy, err := e.buildCombatant(setup.Enemy, "Enemy")
	if err != nil {
		return Result{}, fmt.Errorf("%w: enemy: %w", ErrInvalidSetup, err)
	}
	if enemy.AILevel < 1 {
		return Result{}, fmt.Errorf("%w: enemy: ai level %d must be at least 1", ErrInvalidSetup, enemy.AILevel)
	}
	player.AILevel = 0

	state := combat.State{
		Player:      player,
		Enemy:       enemy,
		Round:       1,
		Phase:       combat.PhasePlayerTurn,
		Status:      combat.StatusActive,
		Difficulty:  difficulty,
		MaxHandSize: e.rules.MaxHandSize,
		Locale:      narrate.Match(setup.Locale).String(),
		Seed:        setup.Seed,
		KnownSpells: slices.Clone(setup.KnownSpells),
	}
	rng := nextSource(&state)
	narrator := narrate.New(state.Locale)
	state.Append(narrator.DuelStarts(player.Name, enemy.Name))

	var events []event.Event
	for _, side := range []combat.Side{combat.SidePlayer, combat.SideEnemy} {
		drawn := deck.Deal(state.Combatant(side), state.MaxHandSize, rng)
		events = append(events, event.CardsDrawn{Side: side, Cards: drawn})
	}
	if err := combat.CheckInvariants(state); err != nil {
		panic(err)
	}
	return Result{State: state, Events: events}, nil
}

func (e *Engine) buildCombatant(seed CombatantSeed, fallbackName string) (combat.Combatant, error) {
	var errs []error
	if len(seed.Spells) == 0 {
		errs = append(errs, errors.New("at least one spell is required"))
	}
	for _, id := range seed.Spells {
		if !e.catalog.Has(id) {
			errs = append(errs, fmt.Errorf("spell %q is unknown", id))
		}
	}
	maxHealth := seed.MaxHealth + seed.Modifiers.HealthBonus
	maxMana := seed.MaxMana + seed.Modifiers.ManaBonus
	regen := seed.ManaRegen + seed.Modifiers.RegenBonus
	if maxHealth <= 0 {
		errs = append(errs, fmt.Errorf("max health %d must be positive", maxHealth))
	}
	if maxMana < 0 {
		errs = append(errs, fmt.Errorf("max mana %d must not be negative", maxMana))
	}
	if regen < 0 {
		errs = append(errs, fmt.Errorf("mana regen %d must not be negative", regen))
	}
	if len(errs) > 0 {
		return combat.Combatant{}, errors.Join(errs...)
	}
	name := strings.TrimSpace(seed.Name)
	if name == "" {
		name = fallbackName
	}
	return combat.Combatant{
		Name:      name,
		Health:    maxHealth,
		MaxHealth: maxHealth,
		Mana:      maxMana,
		MaxMana:   maxMana,
		ManaRegen: regen,
		Pool:      slices.Clone(seed.Spells),
		AILevel:   seed.AILevel,
	}, nil
}
