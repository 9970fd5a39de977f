// Package combat holds the duel state value and its invariants.
//
// State is a plain value: engine operations clone it, mutate the clone, and
// hand the clone back. Nothing outside the engine mutates a State it did not
// clone itself.
package combat

import (
	"slices"
	"strings"

	"github.com/louisbranch/spellduel/internal/services/duel/domain/spell"
)

// DefaultMaxHandSize bounds a combatant's hand unless rules override it.
const DefaultMaxHandSize = 3

// Side identifies one of the two combatants.
type Side string

const (
	SidePlayer Side = "player"
	SideEnemy  Side = "enemy"
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SidePlayer {
		return SideEnemy
	}
	return SidePlayer
}

// Status is the duel outcome status.
type Status string

const (
	StatusActive    Status = "Active"
	StatusPlayerWon Status = "PlayerWon"
	StatusEnemyWon  Status = "EnemyWon"
)

// Terminal reports whether the duel has ended.
func (s Status) Terminal() bool {
	return s == StatusPlayerWon || s == StatusEnemyWon
}

// Phase is the turn scheduler position.
type Phase string

const (
	PhasePlayerTurn             Phase = "PlayerTurn"
	PhaseProcessingOpponentTurn Phase = "ProcessingOpponentTurn"
	PhaseRoundEnd               Phase = "RoundEnd"
	PhaseBattleOver             Phase = "BattleOver"
)

// Difficulty scales rewards and the Mystic Punch.
type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyNormal    Difficulty = "normal"
	DifficultyHard      Difficulty = "hard"
	DifficultyLegendary Difficulty = "legendary"
)

// ParseDifficulty normalizes a difficulty name. Empty input means normal.
func ParseDifficulty(value string) (Difficulty, bool) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(value))); d {
	case "":
		return DifficultyNormal, true
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyLegendary:
		return d, true
	default:
		return "", false
	}
}

// ActiveEffect is a registered effect waiting to tick down.
type ActiveEffect struct {
	Name          string           `json:"name"`
	Type          spell.EffectType `json:"type"`
	Remaining     int              `json:"remaining"`
	Magnitude     int              `json:"magnitude"`
	SourceSpellID string           `json:"source_spell_id"`
}

// Combatant is one side of a duel.
//
// DrawPile is a stack whose top is the last element. Hand keeps draw order.
// DrawPile, Hand and DiscardPile together always hold exactly Pool.
type Combatant struct {
	Name          string         `json:"name"`
	Health        int            `json:"health"`
	MaxHealth     int            `json:"max_health"`
	Mana          int            `json:"mana"`
	MaxMana       int            `json:"max_mana"`
	ManaRegen     int            `json:"mana_regen"`
	Pool          []string       `json:"pool"`
	DrawPile      []string       `json:"draw_pile"`
	Hand          []string       `json:"hand"`
	DiscardPile   []string       `json:"discard_pile"`
	ActiveEffects []ActiveEffect `json:"active_effects"`
	AILevel       int            `json:"ai_level,omitempty"`
}

// Clone returns a deep copy.
func (c Combatant) Clone() Combatant {
	c.Pool = slices.Clone(c.Pool)
	c.DrawPile = slices.Clone(c.DrawPile)
	c.Hand = slices.Clone(c.Hand)
	c.DiscardPile = slices.Clone(c.DiscardPile)
	c.ActiveEffects = slices.Clone(c.ActiveEffects)
	return c
}

// HandIndex returns the position of the first hand entry with id, or -1.
func (c Combatant) HandIndex(id string) int {
	return slices.Index(c.Hand, id)
}

// InHand reports whether id is currently castable.
func (c Combatant) InHand(id string) bool {
	return c.HandIndex(id) >= 0
}

// EffectTotal sums the magnitudes of active effects of type t.
func (c Combatant) EffectTotal(t spell.EffectType) int {
	total := 0
	for _, e := range c.ActiveEffects {
		if e.Type == t {
			total += e.Magnitude
		}
	}
	return total
}

// Stats accumulates per-duel figures from the player's perspective.
type Stats struct {
	DamageDealt     int      `json:"damage_dealt"`
	DamageTaken     int      `json:"damage_taken"`
	SpellsCast      []string `json:"spells_cast"`
	EnemySpellsCast []string `json:"enemy_spells_cast"`
	Punches         int      `json:"punches"`
	CriticalHits    int      `json:"critical_hits"`
	FinalBlow       string   `json:"final_blow,omitempty"`
}

// Rewards are granted when a duel ends.
type Rewards struct {
	Gold       int      `json:"gold"`
	Experience int      `json:"experience"`
	Items      []string `json:"items,omitempty"`
	NewSpell   string   `json:"new_spell,omitempty"`
}

// State is the complete duel state.
type State struct {
	Player      Combatant  `json:"player"`
	Enemy       Combatant  `json:"enemy"`
	Round       int        `json:"round"`
	Processing  bool       `json:"processing"`
	Phase       Phase      `json:"phase"`
	Status      Status     `json:"status"`
	Difficulty  Difficulty `json:"difficulty"`
	MaxHandSize int        `json:"max_hand_size"`
	Locale      string     `json:"locale"`
	// Seed and RandCursor define the random stream for the next operation.
	Seed        int64    `json:"seed,string"`
	RandCursor  uint64   `json:"rand_cursor,string"`
	KnownSpells []string `json:"known_spells,omitempty"`
	Log         []string `json:"log"`
	Stats       Stats    `json:"stats"`
	Rewards     *Rewards `json:"rewards,omitempty"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	s.Player = s.Player.Clone()
	s.Enemy = s.Enemy.Clone()
	s.KnownSpells = slices.Clone(s.KnownSpells)
	s.Log = slices.Clone(s.Log)
	s.Stats.SpellsCast = slices.Clone(s.Stats.SpellsCast)
	s.Stats.EnemySpellsCast = slices.Clone(s.Stats.EnemySpellsCast)
	if s.Rewards != nil {
		r := *s.Rewards
		r.Items = slices.Clone(r.Items)
		s.Rewards = &r
	}
	return s
}

// Combatant returns a pointer to the combatant on side.
func (s *State) Combatant(side Side) *Combatant {
	if side == SidePlayer {
		return &s.Player
	}
	return &s.Enemy
}

// Append adds lines to the battle log.
func (s *State) Append(lines ...string) {
	s.Log = append(s.Log, lines...)
}
