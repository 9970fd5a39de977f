package domain

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/louisbranch/spellduel/internal/services/duel/app"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/engine"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/rules"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/spell"
	"github.com/louisbranch/spellduel/internal/services/duel/storage/sqlite"
)

type serviceOptions struct {
	delay     time.Duration
	withStore bool
}

func newTestService(t *testing.T, opts serviceOptions) *app.Service {
	t.Helper()
	eng, err := engine.New(spell.DefaultCatalog(), rules.Default())
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	cfg := app.Config{
		Engine:          eng,
		OpponentDelay:   opts.delay,
		AllowClientSeed: true,
		Logger:          log.New(io.Discard, "", 0),
		// Scheduled opponent turns never fire on their own in tests.
		AfterFunc: func(time.Duration, func()) {},
	}
	if opts.withStore {
		store, err := sqlite.Open(filepath.Join(t.TempDir(), "duel.db"))
		if err != nil {
			t.Fatalf("open store: %v", err)
		}
		t.Cleanup(func() { _ = store.Close() })
		cfg.Store = store
	}
	svc, err := app.New(cfg)
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	return svc
}

const lethalSeed = uint64(1) << 60

func lethalStart() DuelStartInput {
	seed := lethalSeed
	return DuelStartInput{
		Player:     CombatantInput{Name: "Aria", Spells: []string{"starfall"}, MaxHealth: 100, MaxMana: 100, ManaRegen: 10},
		Enemy:      CombatantInput{Name: "Imp", Spells: []string{"spark"}, MaxHealth: 30, MaxMana: 20, ManaRegen: 5, AILevel: 1},
		Difficulty: "easy",
		Seed:       &seed,
	}
}

func TestDuelStartAndCastHandlers(t *testing.T) {
	api := newTestService(t, serviceOptions{})
	ctx := context.Background()

	_, started, err := DuelStartHandler(api)(ctx, nil, lethalStart())
	if err != nil {
		t.Fatalf("duel start: %v", err)
	}
	if started.ID == "" {
		t.Fatal("expected duel id")
	}
	if started.Status != "Active" || started.Phase != "PlayerTurn" || started.Round != 1 {
		t.Fatalf("start view = %s/%s/%d, want Active/PlayerTurn/1", started.Status, started.Phase, started.Round)
	}
	if len(started.Player.Hand) != 1 || started.Player.Hand[0] != "starfall" {
		t.Fatalf("player hand = %v, want [starfall]", started.Player.Hand)
	}
	if started.Enemy.Hand != nil {
		t.Fatalf("enemy hand = %v, want hidden", started.Enemy.Hand)
	}
	if started.SeedSource != "client" {
		t.Fatalf("seed source = %q, want client", started.SeedSource)
	}

	_, cast, err := DuelCastHandler(api)(ctx, nil, DuelCastInput{DuelID: started.ID, SpellID: "starfall"})
	if err != nil {
		t.Fatalf("duel cast: %v", err)
	}
	if cast.Status != "PlayerWon" {
		t.Fatalf("status = %q, want PlayerWon", cast.Status)
	}
	if cast.Rewards == nil || cast.Rewards.Experience == 0 {
		t.Fatalf("rewards = %+v, want granted rewards", cast.Rewards)
	}
	if len(cast.Log) == 0 || len(cast.Log) > logTailLines {
		t.Fatalf("log lines = %d, want 1..%d", len(cast.Log), logTailLines)
	}
	if len(cast.Events) == 0 {
		t.Fatal("expected events for the cast")
	}
}

func TestActHandlersValidateInput(t *testing.T) {
	api := newTestService(t, serviceOptions{})
	ctx := context.Background()

	if _, _, err := DuelCastHandler(api)(ctx, nil, DuelCastInput{SpellID: "spark"}); err == nil {
		t.Fatal("expected error for missing duel_id")
	}
	if _, _, err := DuelSkipHandler(api)(ctx, nil, DuelSkipInput{DuelID: "  "}); err == nil {
		t.Fatal("expected error for blank duel_id")
	}
	if _, _, err := DuelStateHandler(api)(ctx, nil, DuelStateInput{DuelID: "missing"}); err == nil {
		t.Fatal("expected error for unknown duel")
	}

	_, started, err := DuelStartHandler(api)(ctx, nil, lethalStart())
	if err != nil {
		t.Fatalf("duel start: %v", err)
	}
	if _, _, err := DuelPunchHandler(api)(ctx, nil, DuelPunchInput{DuelID: started.ID, DiscardID: "spark"}); err == nil {
		t.Fatal("expected rejection for a discard outside the hand")
	}
}

func TestDuelStateResolvesDelayedOpponent(t *testing.T) {
	api := newTestService(t, serviceOptions{delay: time.Second})
	ctx := context.Background()

	seed := uint64(7)
	_, started, err := DuelStartHandler(api)(ctx, nil, DuelStartInput{
		Player: CombatantInput{Spells: []string{"ember_bolt", "spark", "frost_shard"}},
		Enemy:  CombatantInput{Spells: []string{"spark"}, MaxHealth: 200, AILevel: 1},
		Seed:   &seed,
	})
	if err != nil {
		t.Fatalf("duel start: %v", err)
	}

	_, skipped, err := DuelSkipHandler(api)(ctx, nil, DuelSkipInput{DuelID: started.ID})
	if err != nil {
		t.Fatalf("duel skip: %v", err)
	}
	if skipped.Phase != "ProcessingOpponentTurn" {
		t.Fatalf("phase = %q, want ProcessingOpponentTurn", skipped.Phase)
	}

	_, peek, err := DuelStateHandler(api)(ctx, nil, DuelStateInput{DuelID: started.ID})
	if err != nil {
		t.Fatalf("duel state: %v", err)
	}
	if peek.Phase != "ProcessingOpponentTurn" {
		t.Fatalf("phase = %q, want the pending opponent turn", peek.Phase)
	}

	_, resolved, err := DuelStateHandler(api)(ctx, nil, DuelStateInput{DuelID: started.ID, ResolveOpponent: true})
	if err != nil {
		t.Fatalf("duel state resolve: %v", err)
	}
	if resolved.Phase != "PlayerTurn" || resolved.Round != 2 {
		t.Fatalf("resolved = %s round %d, want PlayerTurn round 2", resolved.Phase, resolved.Round)
	}
}

func TestBattleRecordsListHandler(t *testing.T) {
	api := newTestService(t, serviceOptions{withStore: true})
	ctx := context.Background()

	_, started, err := DuelStartHandler(api)(ctx, nil, lethalStart())
	if err != nil {
		t.Fatalf("duel start: %v", err)
	}
	_, finished, err := DuelCastHandler(api)(ctx, nil, DuelCastInput{DuelID: started.ID, SpellID: "starfall"})
	if err != nil {
		t.Fatalf("duel cast: %v", err)
	}
	if finished.RecordID == "" {
		t.Fatal("expected a stored record id")
	}

	_, list, err := BattleRecordsListHandler(api)(ctx, nil, BattleRecordsListInput{Filter: `outcome = "victory"`})
	if err != nil {
		t.Fatalf("battle records list: %v", err)
	}
	if len(list.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(list.Records))
	}
	record := list.Records[0]
	if record.ID != finished.RecordID || record.DuelID != started.ID {
		t.Fatalf("record = %+v, want duel %s", record, started.ID)
	}
	if record.Seed != strconv.FormatUint(lethalSeed, 10) {
		t.Fatalf("seed = %q, want %d", record.Seed, lethalSeed)
	}
	if record.FinalBlow != "starfall" {
		t.Fatalf("final blow = %q, want starfall", record.FinalBlow)
	}

	got, err := callRecordGet(ctx, api, finished.RecordID)
	if err != nil {
		t.Fatalf("battle record get: %v", err)
	}
	if got.ID != finished.RecordID || got.Seed != record.Seed {
		t.Fatalf("record get = %+v, want %+v", got, record)
	}
	if _, err := callRecordGet(ctx, api, " "); err == nil {
		t.Fatal("expected error for blank record_id")
	}
	if _, err := callRecordGet(ctx, api, "missing"); err == nil {
		t.Fatal("expected error for unknown record")
	}

	if _, _, err := BattleRecordsListHandler(api)(ctx, nil, BattleRecordsListInput{Filter: `outcome =`}); err == nil {
		t.Fatal("expected error for malformed filter")
	}
	if _, _, err := BattleRecordsListHandler(api)(ctx, nil, BattleRecordsListInput{PageSize: -1}); err == nil {
		t.Fatal("expected error for negative page size")
	}
}

func callRecordGet(ctx context.Context, api *app.Service, recordID string) (RecordResult, error) {
	_, result, err := BattleRecordGetHandler(api)(ctx, nil, BattleRecordGetInput{RecordID: recordID})
	return result, err
}

func TestDuelStartReplayStoresNothing(t *testing.T) {
	api := newTestService(t, serviceOptions{withStore: true})
	ctx := context.Background()

	start := lethalStart()
	start.Replay = true
	_, started, err := DuelStartHandler(api)(ctx, nil, start)
	if err != nil {
		t.Fatalf("duel start: %v", err)
	}
	if started.RollMode != "REPLAY" || started.SeedSource != "client" {
		t.Fatalf("roll mode %q seed source %q, want a client-seeded replay", started.RollMode, started.SeedSource)
	}
	_, finished, err := DuelCastHandler(api)(ctx, nil, DuelCastInput{DuelID: started.ID, SpellID: "starfall"})
	if err != nil {
		t.Fatalf("duel cast: %v", err)
	}
	if finished.Status != "PlayerWon" || finished.RecordID != "" {
		t.Fatalf("status %q record %q, want a win with no stored record", finished.Status, finished.RecordID)
	}

	start.Seed = nil
	if _, _, err := DuelStartHandler(api)(ctx, nil, start); err == nil {
		t.Fatal("expected error for a replay without a seed")
	}
}

func TestSpellCatalogListHandler(t *testing.T) {
	api := newTestService(t, serviceOptions{})

	_, all, err := SpellCatalogListHandler(api)(context.Background(), nil, SpellCatalogListInput{})
	if err != nil {
		t.Fatalf("spell catalog list: %v", err)
	}
	if len(all.Spells) != spell.DefaultCatalog().Len() {
		t.Fatalf("spells = %d, want %d", len(all.Spells), spell.DefaultCatalog().Len())
	}

	_, fire, err := SpellCatalogListHandler(api)(context.Background(), nil, SpellCatalogListInput{Element: "FIRE", MaxTier: 1})
	if err != nil {
		t.Fatalf("spell catalog list: %v", err)
	}
	found := false
	for _, s := range fire.Spells {
		if s.Element != "fire" || s.Tier > 1 {
			t.Fatalf("spell %s (%s, tier %d) escaped the filter", s.ID, s.Element, s.Tier)
		}
		found = found || s.ID == "ember_bolt"
	}
	if !found {
		t.Fatalf("spells = %+v, want ember_bolt", fire.Spells)
	}
}

func TestWizardGetHandler(t *testing.T) {
	api := newTestService(t, serviceOptions{withStore: true})
	ctx := context.Background()

	if _, _, err := WizardGetHandler(api)(ctx, nil, WizardGetInput{WizardID: "nobody"}); err == nil {
		t.Fatal("expected error for unknown wizard")
	}

	start := lethalStart()
	start.WizardID = "wiz-1"
	if _, _, err := DuelStartHandler(api)(ctx, nil, start); err != nil {
		t.Fatalf("duel start: %v", err)
	}
	_, wizard, err := WizardGetHandler(api)(ctx, nil, WizardGetInput{WizardID: "wiz-1"})
	if err != nil {
		t.Fatalf("wizard get: %v", err)
	}
	if wizard.Name != "Aria" || wizard.Level != 1 {
		t.Fatalf("wizard = %+v, want Aria at level 1", wizard)
	}
	if len(wizard.Spells) != 1 || wizard.Spells[0] != "starfall" {
		t.Fatalf("spells = %v, want [starfall]", wizard.Spells)
	}
	if len(wizard.Deck) != 1 || wizard.Deck[0] != "starfall" {
		t.Fatalf("deck = %v, want [starfall]", wizard.Deck)
	}
}
