package engine

import (
	"github.com/louisbranch/spellduel/internal/services/duel/domain/combat"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/event"
)

// ActionKind is a player intent.
type ActionKind string

const (
	ActionCast  ActionKind = "cast"
	ActionPunch ActionKind = "punch"
	ActionSkip  ActionKind = "skip"
)

// Action is one player turn.
type Action struct {
	Kind    ActionKind `json:"kind"`
	SpellID string     `json:"spell_id,omitempty"`
	// DiscardID names the hand card paid for a Mystic Punch.
	DiscardID string `json:"discard_id,omitempty"`
}

// Cast returns a cast action.
func Cast(spellID string) Action {
	return Action{Kind: ActionCast, SpellID: spellID}
}

// Punch returns a Mystic Punch action that discards discardID.
func Punch(discardID string) Action {
	return Action{Kind: ActionPunch, DiscardID: discardID}
}

// Skip returns a skip-turn action.
func Skip() Action {
	return Action{Kind: ActionSkip}
}

// RejectionCode explains why an action was not accepted.
type RejectionCode string

const (
	RejectSpellUnknown     RejectionCode = "SPELL_UNKNOWN"
	RejectSpellNotInHand   RejectionCode = "SPELL_NOT_IN_HAND"
	RejectInsufficientMana RejectionCode = "INSUFFICIENT_MANA"
	RejectDiscardRequired  RejectionCode = "DISCARD_REQUIRED"
	RejectDiscardNotInHand RejectionCode = "DISCARD_NOT_IN_HAND"
	RejectTurnInProgress   RejectionCode = "TURN_IN_PROGRESS"
	RejectBattleOver       RejectionCode = "BATTLE_OVER"
	RejectActionInvalid    RejectionCode = "ACTION_INVALID"
	RejectPhaseInvalid     RejectionCode = "PHASE_INVALID"
)

// Rejection is a structured refusal of an action.
type Rejection struct {
	Code    RejectionCode `json:"code"`
	Message string        `json:"message"`
}

// Result is the outcome of one engine operation.
type Result struct {
	State     combat.State
	Events    []event.Event
	Rejection *Rejection
}

// Rejected reports whether the operation was refused.
func (r Result) Rejected() bool {
	return r.Rejection != nil
}
