// Package event defines the typed facts the duel engine emits after each
// transition.
//
// Events are the boundary between the engine and whatever renders a duel:
// adapters subscribe to them instead of diffing state snapshots. They carry
// enough detail (before/after health, drawn cards, reasons) for a view to
// animate a transition without reading engine internals.
package event

import (
	"encoding/json"
	"fmt"

	"github.com/louisbranch/spellduel/internal/services/duel/domain/combat"
)

// Type names an event kind.
type Type string

const (
	TypeSpellCast       Type = "duel.spell_cast"
	TypeMysticPunch     Type = "duel.mystic_punch"
	TypeTurnSkipped     Type = "duel.turn_skipped"
	TypeOpponentSkipped Type = "duel.opponent_skipped"
	TypeEffectTicked    Type = "duel.effect_ticked"
	TypeCardsDrawn      Type = "duel.cards_drawn"
	TypeRoundEnded      Type = "duel.round_ended"
	TypeBattleOver      Type = "duel.battle_over"
	TypeActionRejected  Type = "duel.action_rejected"
)

// Event is implemented by every emitted fact.
type Event interface {
	EventType() Type
}

// HealthDelta records a combatant's health around one resolution.
type HealthDelta struct {
	Side   combat.Side `json:"side"`
	Before int         `json:"before"`
	After  int         `json:"after"`
}

// SpellCast is emitted when either side resolves a spell from hand.
type SpellCast struct {
	Caster   combat.Side   `json:"caster"`
	SpellID  string        `json:"spell_id"`
	ManaCost int           `json:"mana_cost"`
	Damage   int           `json:"damage"`
	Healing  int           `json:"healing"`
	Critical bool          `json:"critical"`
	Health   []HealthDelta `json:"health"`
	Effects  []string      `json:"effects,omitempty"`
}

// MysticPunch is emitted for the zero-mana punch.
type MysticPunch struct {
	Caster    combat.Side   `json:"caster"`
	Damage    int           `json:"damage"`
	Discarded string        `json:"discarded,omitempty"`
	Health    []HealthDelta `json:"health"`
}

// TurnSkipped is emitted when the player passes for bonus mana.
type TurnSkipped struct {
	Side         combat.Side `json:"side"`
	ManaRestored int         `json:"mana_restored"`
}

// OpponentSkipped is emitted when the opponent has nothing affordable.
type OpponentSkipped struct {
	Mana int `json:"mana"`
}

// EffectTicked is emitted once per active effect at round end.
type EffectTicked struct {
	Side      combat.Side `json:"side"`
	Name      string      `json:"name"`
	Source    string      `json:"source_spell_id"`
	Delta     int         `json:"delta"`
	Remaining int         `json:"remaining"`
	Expired   bool        `json:"expired"`
}

// CardsDrawn is emitted when a hand refill draws at least one card.
type CardsDrawn struct {
	Side  combat.Side `json:"side"`
	Cards []string    `json:"cards"`
}

// RoundEnded is emitted after round-end upkeep completes.
type RoundEnded struct {
	Round       int `json:"round"`
	PlayerMana  int `json:"player_mana"`
	EnemyMana   int `json:"enemy_mana"`
	PlayerRegen int `json:"player_regen"`
	EnemyRegen  int `json:"enemy_regen"`
}

// BattleOver is emitted once, when status becomes terminal.
type BattleOver struct {
	Status  combat.Status   `json:"status"`
	Round   int             `json:"round"`
	Rewards *combat.Rewards `json:"rewards,omitempty"`
}

// ActionRejected is emitted for invalid player input.
type ActionRejected struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (SpellCast) EventType() Type { return TypeSpellCast }
func (MysticPunch) EventType() Type { return TypeMysticPunch }
func (TurnSkipped) EventType() Type { return TypeTurnSkipped }
func (OpponentSkipped) EventType() Type { return TypeOpponentSkipped }
func (EffectTicked) EventType() Type { return TypeEffectTicked }
func (CardsDrawn) EventType() Type { return TypeCardsDrawn }
func (RoundEnded) EventType() Type { return TypeRoundEnded }
func (BattleOver) EventType() Type { return TypeBattleOver }
func (ActionRejected) EventType() Type { return TypeActionRejected }

// Types lists the types of events in order.
func Types(events []Event) []Type {
	out := make([]Type, len(events))
	for i, e := range events {
		out[i] = e.EventType()
	}
	return out
}

// Envelope is a JSON-friendly wrapper used by adapters.
type Envelope struct {
	Type    Type  `json:"type"`
	Payload Event `json:"payload"`
}

// Wrap builds envelopes for events.
func Wrap(events []Event) []Envelope {
	out := make([]Envelope, len(events))
	for i, e := range events {
		out[i] = Envelope{Type: e.EventType(), Payload: e}
	}
	return out
}

// UnmarshalJSON restores the concrete payload named by the envelope type.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type    Type            `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	payload, err := decodePayload(raw.Type, raw.Payload)
	if err != nil {
		return err
	}
	e.Type = raw.Type
	e.Payload = payload
	return nil
}

// Unwrap returns the payloads of envelopes in order.
func Unwrap(envelopes []Envelope) []Event {
	out := make([]Event, len(envelopes))
	for i, env := range envelopes {
		out[i] = env.Payload
	}
	return out
}

func decodePayload(t Type, raw json.RawMessage) (Event, error) {
	switch t {
	case TypeSpellCast:
		return decodeAs[SpellCast](raw)
	case TypeMysticPunch:
		return decodeAs[MysticPunch](raw)
	case TypeTurnSkipped:
		return decodeAs[TurnSkipped](raw)
	case TypeOpponentSkipped:
		return decodeAs[OpponentSkipped](raw)
	case TypeEffectTicked:
		return decodeAs[EffectTicked](raw)
	case TypeCardsDrawn:
		return decodeAs[CardsDrawn](raw)
	case TypeRoundEnded:
		return decodeAs[RoundEnded](raw)
	case TypeBattleOver:
		return decodeAs[BattleOver](raw)
	case TypeActionRejected:
		return decodeAs[ActionRejected](raw)
	default:
		return nil, fmt.Errorf("unknown event type %q", t)
	}
}

func decodeAs[T Event](raw json.RawMessage) (Event, error) {
	var value T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, err
		}
	}
	return value, nil
}
