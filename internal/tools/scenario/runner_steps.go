package scenario

import (
	"context"
	"fmt"
	"slices"
	"strings"

	apperrors "github.com/louisbranch/spellduel/internal/platform/errors"
	"github.com/louisbranch/spellduel/internal/services/duel/app"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/combat"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/engine"
)

// scenarioState tracks the duel under test between steps.
type scenarioState struct {
	duelID string
	last   app.Duel
}

func (r *Runner) runStep(ctx context.Context, state *scenarioState, step Step) error {
	switch step.Kind {
	case "duel":
		return r.runDuelStep(ctx, state, step)
	case "cast":
		return r.runActionStep(ctx, state, engine.Cast(optionalString(step.Args, "spell", "")))
	case "punch":
		return r.runActionStep(ctx, state, engine.Punch(optionalString(step.Args, "discard", "")))
	case "skip":
		return r.runActionStep(ctx, state, engine.Skip())
	case "resolve":
		return r.runResolveStep(ctx, state)
	case "expect":
		return r.runExpectStep(state, step)
	case "choose_spell":
		return r.runChooseSpellStep(ctx, state, step)
	case "records":
		return r.runRecordsStep(ctx, step)
	default:
		return r.failf("unknown step kind %q", step.Kind)
	}
}

func (r *Runner) runDuelStep(ctx context.Context, state *scenarioState, step Step) error {
	seed, ok := readSeed(step.Args, "seed")
	if !ok {
		return r.failf("seed must be a non-negative integer or a decimal string")
	}
	req := app.StartRequest{
		WizardID:   optionalString(step.Args, "wizard_id", ""),
		Player:     combatantSeed(readTable(step.Args, "player")),
		Enemy:      combatantSeed(readTable(step.Args, "enemy")),
		Difficulty: optionalString(step.Args, "difficulty", ""),
		Locale:     optionalString(step.Args, "locale", ""),
		Seed:       seed,
		RollMode:   optionalString(step.Args, "roll_mode", ""),
	}
	duel, err := r.api.StartDuel(ctx, req)
	if err != nil {
		return fmt.Errorf("start duel: %w", err)
	}
	state.duelID = duel.ID
	state.last = duel
	r.logf("duel %s started (seed source %s)", duel.ID, duel.SeedSource)
	return nil
}

func combatantSeed(args map[string]any) engine.CombatantSeed {
	spells := readStringSlice(args, "deck")
	if len(spells) == 0 {
		spells = readStringSlice(args, "spells")
	}
	return engine.CombatantSeed{
		Name:      optionalString(args, "name", ""),
		Spells:    spells,
		MaxHealth: optionalInt(args, "health", 0),
		MaxMana:   optionalInt(args, "mana", 0),
		ManaRegen: optionalInt(args, "regen", 0),
		AILevel:   optionalInt(args, "ai_level", 0),
	}
}

// runActionStep submits a player action. A deferred opponent turn is resolved
// right away so every step observes a settled duel.
func (r *Runner) runActionStep(ctx context.Context, state *scenarioState, action engine.Action) error {
	if err := r.ensureDuel(state); err != nil {
		return err
	}
	duel, err := r.api.Act(ctx, state.duelID, action)
	if err != nil {
		if reason := apperrors.RejectionReason(err); reason != "" {
			return fmt.Errorf("%s rejected (%s): %w", action.Kind, reason, err)
		}
		return fmt.Errorf("%s: %w", action.Kind, err)
	}
	if duel.State.Phase == combat.PhaseProcessingOpponentTurn {
		duel, err = r.api.ResolveOpponent(ctx, state.duelID)
		if err != nil {
			return fmt.Errorf("resolve opponent: %w", err)
		}
	}
	state.last = duel
	return nil
}

func (r *Runner) runResolveStep(ctx context.Context, state *scenarioState) error {
	if err := r.ensureDuel(state); err != nil {
		return err
	}
	duel, err := r.api.ResolveOpponent(ctx, state.duelID)
	if err != nil {
		return fmt.Errorf("resolve opponent: %w", err)
	}
	state.last = duel
	return nil
}

func (r *Runner) runChooseSpellStep(ctx context.Context, state *scenarioState, step Step) error {
	if err := r.ensureDuel(state); err != nil {
		return err
	}
	pick := optionalString(step.Args, "spell", "")
	if pick == "" {
		if len(state.last.SpellOffer) == 0 {
			return r.failf("choose_spell: no spell offer is pending")
		}
		pick = state.last.SpellOffer[0]
	}
	duel, err := r.api.ChooseSpell(ctx, state.duelID, pick)
	if err != nil {
		return fmt.Errorf("choose spell %s: %w", pick, err)
	}
	state.last = duel
	return nil
}

func (r *Runner) runRecordsStep(ctx context.Context, step Step) error {
	req := app.ListRecordsRequest{
		Filter:   optionalString(step.Args, "filter", ""),
		PageSize: int32(optionalInt(step.Args, "page_size", 0)),
	}
	page, err := r.api.ListBattleRecords(ctx, req)
	if err != nil {
		return fmt.Errorf("list battle records: %w", err)
	}
	if want, ok := readInt(step.Args, "count"); ok && len(page.Records) != want {
		return r.assertf("records %q = %d, want %d", req.Filter, len(page.Records), want)
	}
	return nil
}

func (r *Runner) runExpectStep(state *scenarioState, step Step) error {
	if err := r.ensureDuel(state); err != nil {
		return err
	}
	current := state.last.State

	if want := optionalString(step.Args, "status", ""); want != "" && string(current.Status) != want {
		return r.assertf("status = %s, want %s", current.Status, want)
	}
	if want := optionalString(step.Args, "phase", ""); want != "" && string(current.Phase) != want {
		return r.assertf("phase = %s, want %s", current.Phase, want)
	}

	ints := []struct {
		key string
		got int
	}{
		{"round", current.Round},
		{"player_health", current.Player.Health},
		{"enemy_health", current.Enemy.Health},
		{"player_mana", current.Player.Mana},
		{"enemy_mana", current.Enemy.Mana},
		{"hand_size", len(current.Player.Hand)},
		{"draw_pile_size", len(current.Player.DrawPile)},
		{"spell_offer_size", len(state.last.SpellOffer)},
	}
	for _, check := range ints {
		want, ok := readInt(step.Args, check.key)
		if ok && check.got != want {
			if err := r.assertf("%s = %d, want %d", check.key, check.got, want); err != nil {
				return err
			}
		}
	}

	if want, ok := readBool(step.Args, "leveled_up"); ok && state.last.LeveledUp != want {
		if err := r.assertf("leveled_up = %t, want %t", state.last.LeveledUp, want); err != nil {
			return err
		}
	}
	if want, ok := readBool(step.Args, "record"); ok && (state.last.RecordID != "") != want {
		if err := r.assertf("record stored = %t, want %t", state.last.RecordID != "", want); err != nil {
			return err
		}
	}
	for _, spellID := range readStringSlice(step.Args, "hand_contains") {
		if !current.Player.InHand(spellID) {
			if err := r.assertf("hand %v does not contain %s", current.Player.Hand, spellID); err != nil {
				return err
			}
		}
	}
	for _, achievement := range readStringSlice(step.Args, "achievements") {
		if !slices.Contains(state.last.Achievements, achievement) {
			if err := r.assertf("achievements %v do not include %s", state.last.Achievements, achievement); err != nil {
				return err
			}
		}
	}
	if want := optionalString(step.Args, "log_contains", ""); want != "" && !logContains(current.Log, want) {
		return r.assertf("battle log does not contain %q", want)
	}
	return nil
}

func logContains(lines []string, text string) bool {
	for _, line := range lines {
		if strings.Contains(line, text) {
			return true
		}
	}
	return false
}
