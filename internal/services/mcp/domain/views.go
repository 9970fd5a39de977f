package domain

import (
	"strconv"
	"time"

	"github.com/louisbranch/spellduel/internal/services/duel/app"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/combat"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/event"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/outcome"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/spell"
	"github.com/louisbranch/spellduel/internal/services/duel/storage"
)

// logTailLines bounds the battle log returned with a duel view.
const logTailLines = 12

// EffectResult is one active effect on a combatant.
type EffectResult struct {
	Name          string `json:"name" jsonschema:"effect name"`
	Type          string `json:"type" jsonschema:"effect type (damageOverTime, healOverTime, shield, empower)"`
	Remaining     int    `json:"remaining" jsonschema:"round ends left before the effect expires"`
	Magnitude     int    `json:"magnitude" jsonschema:"effect strength"`
	SourceSpellID string `json:"source_spell_id" jsonschema:"spell that registered the effect"`
}

// CombatantResult is the visible state of one side.
type CombatantResult struct {
	Name         string         `json:"name" jsonschema:"combatant name"`
	Health       int            `json:"health" jsonschema:"current health"`
	MaxHealth    int            `json:"max_health" jsonschema:"maximum health"`
	Mana         int            `json:"mana" jsonschema:"current mana"`
	MaxMana      int            `json:"max_mana" jsonschema:"maximum mana"`
	ManaRegen    int            `json:"mana_regen" jsonschema:"mana restored at each round end"`
	Hand         []string       `json:"hand,omitempty" jsonschema:"spell ids in hand, in draw order"`
	DrawPileSize int            `json:"draw_pile_size" jsonschema:"cards left in the draw pile"`
	DiscardPile  []string       `json:"discard_pile,omitempty" jsonschema:"spell ids in the discard pile"`
	Effects      []EffectResult `json:"effects,omitempty" jsonschema:"active effects"`
}

// RewardsResult lists the rewards of a finished duel.
type RewardsResult struct {
	Gold       int      `json:"gold" jsonschema:"gold earned"`
	Experience int      `json:"experience" jsonschema:"experience earned"`
	Items      []string `json:"items,omitempty" jsonschema:"items earned"`
	NewSpell   string   `json:"new_spell,omitempty" jsonschema:"spell learned from the opponent"`
}

// DuelResult is the MCP view of a duel session.
type DuelResult struct {
	ID           string           `json:"id" jsonschema:"duel identifier"`
	WizardID     string           `json:"wizard_id,omitempty" jsonschema:"wizard profile linked to the duel"`
	SeedSource   string           `json:"seed_source" jsonschema:"where the duel seed came from (server, client)"`
	RollMode     string           `json:"roll_mode,omitempty" jsonschema:"LIVE or REPLAY"`
	Status       string           `json:"status" jsonschema:"duel status (Active, PlayerWon, EnemyWon)"`
	Phase        string           `json:"phase" jsonschema:"turn phase (PlayerTurn, ProcessingOpponentTurn, BattleOver)"`
	Round        int              `json:"round" jsonschema:"current round, starting at 1"`
	Difficulty   string           `json:"difficulty" jsonschema:"duel difficulty"`
	Player       CombatantResult  `json:"player" jsonschema:"the player"`
	Enemy        CombatantResult  `json:"enemy" jsonschema:"the opponent; its hand is hidden"`
	Log          []string         `json:"log,omitempty" jsonschema:"most recent battle log lines"`
	Events       []event.Envelope `json:"events,omitempty" jsonschema:"typed events produced by the last transition"`
	Rewards      *RewardsResult   `json:"rewards,omitempty" jsonschema:"rewards, once the duel is over"`
	SpellOffer   []string         `json:"spell_offer,omitempty" jsonschema:"spell ids to pick from after a level-up"`
	RecordID     string           `json:"record_id,omitempty" jsonschema:"stored battle record identifier"`
	Achievements []string         `json:"achievements,omitempty" jsonschema:"achievements earned in this duel"`
	LeveledUp    bool             `json:"leveled_up,omitempty" jsonschema:"whether the wizard reached a new level"`
}

// RecordResult is one stored battle record.
type RecordResult struct {
	ID             string   `json:"id" jsonschema:"record identifier"`
	DuelID         string   `json:"duel_id" jsonschema:"duel identifier"`
	WizardID       string   `json:"wizard_id,omitempty" jsonschema:"wizard identifier"`
	Outcome        string   `json:"outcome" jsonschema:"victory or defeat"`
	Difficulty     string   `json:"difficulty" jsonschema:"duel difficulty"`
	AILevel        int      `json:"ai_level" jsonschema:"opponent AI level"`
	Rounds         int      `json:"rounds" jsonschema:"rounds played"`
	DurationMillis int64    `json:"duration_ms" jsonschema:"wall-clock duration in milliseconds"`
	DamageDealt    int      `json:"damage_dealt" jsonschema:"damage dealt by the player"`
	DamageTaken    int      `json:"damage_taken" jsonschema:"damage taken by the player"`
	SpellsCast     []string `json:"spells_cast,omitempty" jsonschema:"spells the player cast, in order"`
	CriticalHits   int      `json:"critical_hits" jsonschema:"critical hits landed by the player"`
	Flawless       bool     `json:"flawless" jsonschema:"whether the player won at full health"`
	FinalBlow      string   `json:"final_blow,omitempty" jsonschema:"spell that ended the duel"`
	Gold           int      `json:"gold" jsonschema:"gold earned"`
	Experience     int      `json:"experience" jsonschema:"experience earned"`
	ChosenSpell    string   `json:"chosen_spell,omitempty" jsonschema:"spell picked after a level-up"`
	Seed           string   `json:"seed" jsonschema:"duel seed, for replay"`
	EndedAt        string   `json:"ended_at" jsonschema:"RFC3339 timestamp when the duel ended"`
}

// SpellResult is one catalog spell.
type SpellResult struct {
	ID          string   `json:"id" jsonschema:"spell identifier"`
	Name        string   `json:"name" jsonschema:"display name"`
	Element     string   `json:"element" jsonschema:"spell element"`
	Type        string   `json:"type" jsonschema:"spell type"`
	ManaCost    int      `json:"mana_cost" jsonschema:"mana cost"`
	Damage      int      `json:"damage" jsonschema:"base damage"`
	Healing     int      `json:"healing" jsonschema:"base healing"`
	Tier        int      `json:"tier" jsonschema:"spell tier, 1 to 5"`
	Effects     []string `json:"effects,omitempty" jsonschema:"effect types applied on cast"`
	Description string   `json:"description,omitempty" jsonschema:"flavor text"`
}

// WizardResult is a wizard profile.
type WizardResult struct {
	ID           string   `json:"id" jsonschema:"wizard identifier"`
	Name         string   `json:"name" jsonschema:"wizard name"`
	Level        int      `json:"level" jsonschema:"current level"`
	Experience   int      `json:"experience" jsonschema:"total experience"`
	Gold         int      `json:"gold" jsonschema:"gold owned"`
	Spells       []string `json:"spells,omitempty" jsonschema:"unlocked spell ids"`
	Deck         []string `json:"deck,omitempty" jsonschema:"equipped spell ids a duel starts from"`
	Items        []string `json:"items,omitempty" jsonschema:"items owned"`
	Achievements []string `json:"achievements,omitempty" jsonschema:"achievements earned"`
}

func duelResultFromDuel(duel app.Duel) DuelResult {
	state := duel.State
	result := DuelResult{
		ID:           duel.ID,
		WizardID:     duel.WizardID,
		SeedSource:   string(duel.SeedSource),
		RollMode:     string(duel.RollMode),
		Status:       string(state.Status),
		Phase:        string(state.Phase),
		Round:        state.Round,
		Difficulty:   string(state.Difficulty),
		Player:       combatantResult(state.Player, true),
		Enemy:        combatantResult(state.Enemy, false),
		Events:       duel.Events,
		SpellOffer:   duel.SpellOffer,
		RecordID:     duel.RecordID,
		Achievements: duel.Achievements,
		LeveledUp:    duel.LeveledUp,
	}
	if lines := state.Log[max(0, len(state.Log)-logTailLines):]; len(lines) > 0 {
		result.Log = lines
	}
	if r := state.Rewards; r != nil {
		result.Rewards = &RewardsResult{
			Gold:       r.Gold,
			Experience: r.Experience,
			Items:      r.Items,
			NewSpell:   r.NewSpell,
		}
	}
	return result
}

func combatantResult(c combat.Combatant, showHand bool) CombatantResult {
	result := CombatantResult{
		Name:         c.Name,
		Health:       c.Health,
		MaxHealth:    c.MaxHealth,
		Mana:         c.Mana,
		MaxMana:      c.MaxMana,
		ManaRegen:    c.ManaRegen,
		DrawPileSize: len(c.DrawPile),
	}
	if showHand && len(c.Hand) > 0 {
		result.Hand = c.Hand
	}
	if len(c.DiscardPile) > 0 {
		result.DiscardPile = c.DiscardPile
	}
	for _, e := range c.ActiveEffects {
		result.Effects = append(result.Effects, EffectResult{
			Name:          e.Name,
			Type:          string(e.Type),
			Remaining:     e.Remaining,
			Magnitude:     e.Magnitude,
			SourceSpellID: e.SourceSpellID,
		})
	}
	return result
}

func recordResult(r outcome.BattleRecord) RecordResult {
	result := RecordResult{
		ID:             r.ID,
		DuelID:         r.DuelID,
		WizardID:       r.WizardID,
		Outcome:        string(r.Outcome),
		Difficulty:     string(r.Difficulty),
		AILevel:        r.AILevel,
		Rounds:         r.Rounds,
		DurationMillis: r.Duration.Milliseconds(),
		DamageDealt:    r.DamageDealt,
		DamageTaken:    r.DamageTaken,
		CriticalHits:   r.CriticalHits,
		Flawless:       r.Flawless,
		FinalBlow:      r.FinalBlow,
		Gold:           r.Rewards.Gold,
		Experience:     r.Rewards.Experience,
		ChosenSpell:    r.ChosenSpell,
		Seed:           strconv.FormatInt(r.Seed, 10),
		EndedAt:        formatTimestamp(r.EndedAt),
	}
	if len(r.SpellsCast) > 0 {
		result.SpellsCast = r.SpellsCast
	}
	return result
}

func spellResult(s spell.Spell) SpellResult {
	result := SpellResult{
		ID:          s.ID,
		Name:        s.Name,
		Element:     string(s.Element),
		Type:        string(s.Type),
		ManaCost:    s.ManaCost,
		Damage:      s.Damage,
		Healing:     s.Healing,
		Tier:        s.Tier,
		Description: s.Description,
	}
	for _, e := range s.Effects {
		result.Effects = append(result.Effects, string(e.Type))
	}
	return result
}

func wizardResult(w storage.Wizard) WizardResult {
	result := WizardResult{
		ID:         w.ID,
		Name:       w.Name,
		Level:      w.Level,
		Experience: w.Experience,
		Gold:       w.Gold,
	}
	if len(w.Spells) > 0 {
		result.Spells = w.Spells
	}
	if len(w.Deck) > 0 {
		result.Deck = w.Deck
	}
	if len(w.Items) > 0 {
		result.Items = w.Items
	}
	if len(w.Achievements) > 0 {
		result.Achievements = w.Achievements
	}
	return result
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}
