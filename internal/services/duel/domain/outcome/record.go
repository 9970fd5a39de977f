package outcome

import (
	"errors"
	"slices"
	"time"

	"github.com/louisbranch/spellduel/internal/services/duel/domain/combat"
)

// Result is the win or loss label of a finished duel.
type Result string

const (
	ResultVictory Result = "victory"
	ResultDefeat  Result = "defeat"
)

// ErrNotTerminal is returned when building a record for an active duel.
var ErrNotTerminal = errors.New("duel has not ended")

// BattleRecord is the terminal summary handed to profile and storage code.
type BattleRecord struct {
	ID              string            `json:"id"`
	DuelID          string            `json:"duel_id"`
	WizardID        string            `json:"wizard_id,omitempty"`
	Outcome         Result            `json:"outcome"`
	Difficulty      combat.Difficulty `json:"difficulty"`
	AILevel         int               `json:"ai_level"`
	Rounds          int               `json:"rounds"`
	Duration        time.Duration     `json:"duration"`
	DamageDealt     int               `json:"damage_dealt"`
	DamageTaken     int               `json:"damage_taken"`
	SpellsCastCount int               `json:"spells_cast_count"`
	SpellsCast      []string          `json:"spells_cast"`
	CriticalHits    int               `json:"critical_hits"`
	Flawless        bool              `json:"flawless"`
	FinalBlow       string            `json:"final_blow,omitempty"`
	PlayerHealth    int               `json:"player_health"`
	PlayerMaxHealth int               `json:"player_max_health"`
	Rewards         combat.Rewards    `json:"rewards"`
	ChosenSpell     string            `json:"chosen_spell,omitempty"`
	Seed            int64             `json:"seed,string"`
	StartedAt       time.Time         `json:"started_at"`
	EndedAt         time.Time         `json:"ended_at"`
}

// RecordMeta carries identifiers and timing the engine does not track.
type RecordMeta struct {
	ID        string
	DuelID    string
	WizardID  string
	StartedAt time.Time
	EndedAt   time.Time
}

// BuildRecord summarizes a terminal duel.
func BuildRecord(state combat.State, meta RecordMeta) (BattleRecord, error) {
	if !state.Status.Terminal() {
		return BattleRecord{}, ErrNotTerminal
	}
	result := ResultDefeat
	if state.Status == combat.StatusPlayerWon {
		result = ResultVictory
	}
	record := BattleRecord{
		ID:              meta.ID,
		DuelID:          meta.DuelID,
		WizardID:        meta.WizardID,
		Outcome:         result,
		Difficulty:      state.Difficulty,
		AILevel:         state.Enemy.AILevel,
		Rounds:          state.Round,
		DamageDealt:     state.Stats.DamageDealt,
		DamageTaken:     state.Stats.DamageTaken,
		SpellsCastCount: len(state.Stats.SpellsCast),
		SpellsCast:      slices.Clone(state.Stats.SpellsCast),
		CriticalHits:    state.Stats.CriticalHits,
		Flawless:        Flawless(state),
		FinalBlow:       state.Stats.FinalBlow,
		PlayerHealth:    state.Player.Health,
		PlayerMaxHealth: state.Player.MaxHealth,
		Seed:            state.Seed,
		StartedAt:       meta.StartedAt,
		EndedAt:         meta.EndedAt,
	}
	if !meta.StartedAt.IsZero() && meta.EndedAt.After(meta.StartedAt) {
		record.Duration = meta.EndedAt.Sub(meta.StartedAt)
	}
	if state.Rewards != nil {
		record.Rewards = *state.Rewards
		record.Rewards.Items = slices.Clone(state.Rewards.Items)
	}
	return record, nil
}
