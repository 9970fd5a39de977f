// Package spell defines immutable spell definitions and the catalog that
// resolves spell ids for the duel engine.
package spell

import (
	"errors"
	"fmt"
	"strings"
)

// Element is the magical school of a spell.
type Element string

const (
	ElementFire   Element = "fire"
	ElementWater  Element = "water"
	ElementEarth  Element = "earth"
	ElementAir    Element = "air"
	ElementArcane Element = "arcane"
	ElementNature Element = "nature"
	ElementShadow Element = "shadow"
	ElementLight  Element = "light"
)

// Type classifies what a spell is primarily for.
type Type string

const (
	TypeDamage  Type = "damage"
	TypeHealing Type = "healing"
	TypeBuff    Type = "buff"
	TypeDebuff  Type = "debuff"
	TypeUtility Type = "utility"
)

// EffectType identifies how a spell effect is applied.
type EffectType string

const (
	// EffectManaRegen restores (or drains, when negative) mana immediately.
	EffectManaRegen EffectType = "manaRegen"
	// EffectDamageOverTime deals its value to the target at every round end.
	EffectDamageOverTime EffectType = "damageOverTime"
	// EffectHealOverTime heals the target by its value at every round end.
	EffectHealOverTime EffectType = "healOverTime"
	// EffectShield reduces incoming spell damage by its value while active.
	EffectShield EffectType = "shield"
	// EffectEmpower adds its value to outgoing spell damage while active.
	EffectEmpower EffectType = "empower"
)

// Target selects who an effect lands on, relative to the caster.
type Target string

const (
	TargetSelf     Target = "self"
	TargetOpponent Target = "opponent"
)

// MysticPunchID is the reserved id of the Mystic Punch pseudo-spell.
const MysticPunchID = "mystic_punch"

// Effect is one entry of a spell's ordered effect list.
type Effect struct {
	Type     EffectType `json:"type"`
	Value    int        `json:"value"`
	Duration *int       `json:"duration,omitempty"`
	Target   Target     `json:"target"`
}

// Immediate reports whether the effect resolves at cast time instead of
// registering as an active effect.
func (e Effect) Immediate() bool {
	return e.Type == EffectManaRegen
}

// Recurring reports whether the effect re-applies its value every round end.
func (e Effect) Recurring() bool {
	return e.Type == EffectDamageOverTime || e.Type == EffectHealOverTime
}

// Rounds returns how many round ends the effect stays active. Effects with no
// duration last one round.
func (e Effect) Rounds() int {
	if e.Duration == nil || *e.Duration <= 0 {
		return 1
	}
	return *e.Duration
}

// Spell is a catalog-owned spell definition.
type Spell struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Element     Element  `json:"element"`
	Type        Type     `json:"type"`
	ManaCost    int      `json:"mana_cost"`
	Damage      int      `json:"damage"`
	Healing     int      `json:"healing"`
	Effects     []Effect `json:"effects,omitempty"`
	Tier        int      `json:"tier"`
	Description string   `json:"description,omitempty"`
}

// MysticPunch returns the zero-cost punch pseudo-spell with the given damage.
func MysticPunch(damage int) Spell {
	return Spell{
		ID:      MysticPunchID,
		Name:    "Mystic Punch",
		Element: ElementArcane,
		Type:    TypeDamage,
		Damage:  damage,
		Tier:    1,
	}
}

// Validate checks a spell definition.
func (s Spell) Validate() error {
	var errs []error
	if strings.TrimSpace(s.ID) == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if s.ID == MysticPunchID {
		errs = append(errs, fmt.Errorf("id %q is reserved", MysticPunchID))
	}
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if !validElement(s.Element) {
		errs = append(errs, fmt.Errorf("element %q is unknown", s.Element))
	}
	if !validType(s.Type) {
		errs = append(errs, fmt.Errorf("type %q is unknown", s.Type))
	}
	if s.ManaCost < 0 || s.Damage < 0 || s.Healing < 0 {
		errs = append(errs, errors.New("mana cost, damage and healing must be non-negative"))
	}
	if s.Tier < 1 {
		errs = append(errs, errors.New("tier must be at least 1"))
	}
	for i, effect := range s.Effects {
		if err := effect.validate(); err != nil {
			errs = append(errs, fmt.Errorf("effect %d: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("spell %q: %w", s.ID, errors.Join(errs...))
	}
	return nil
}

func (e Effect) validate() error {
	switch e.Type {
	case EffectManaRegen, EffectDamageOverTime, EffectHealOverTime, EffectShield, EffectEmpower:
	default:
		return fmt.Errorf("effect type %q is unknown", e.Type)
	}
	if e.Target != TargetSelf && e.Target != TargetOpponent {
		return fmt.Errorf("target %q is unknown", e.Target)
	}
	if e.Duration != nil && *e.Duration < 0 {
		return errors.New("duration must be non-negative")
	}
	return nil
}

func validElement(e Element) bool {
	switch e {
	case ElementFire, ElementWater, ElementEarth, ElementAir, ElementArcane, ElementNature, ElementShadow, ElementLight:
		return true
	}
	return false
}

func validType(t Type) bool {
	switch t {
	case TypeDamage, TypeHealing, TypeBuff, TypeDebuff, TypeUtility:
		return true
	}
	return false
}
