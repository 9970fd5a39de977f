package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/louisbranch/spellduel/internal/platform/errors"
	"github.com/louisbranch/spellduel/internal/random"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/combat"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/engine"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/outcome"
	"github.com/louisbranch/spellduel/internal/services/duel/storage"
)

// flakyStore fails a set number of writes before passing them through.
type flakyStore struct {
	storage.Store

	mu             sync.Mutex
	failWizardPuts int
	failRecordPuts int
}

var errDatabaseLocked = errors.New("database is locked")

func (s *flakyStore) PutWizard(ctx context.Context, wizard storage.Wizard) error {
	s.mu.Lock()
	if s.failWizardPuts > 0 {
		s.failWizardPuts--
		s.mu.Unlock()
		return errDatabaseLocked
	}
	s.mu.Unlock()
	return s.Store.PutWizard(ctx, wizard)
}

func (s *flakyStore) PutBattleRecord(ctx context.Context, record outcome.BattleRecord) error {
	s.mu.Lock()
	if s.failRecordPuts > 0 {
		s.failRecordPuts--
		s.mu.Unlock()
		return errDatabaseLocked
	}
	s.mu.Unlock()
	return s.Store.PutBattleRecord(ctx, record)
}

func (f *fixture) hasSession(duelID string) bool {
	f.svc.mu.Lock()
	defer f.svc.mu.Unlock()
	_, ok := f.svc.sessions[duelID]
	return ok
}

func TestConcurrentVictoriesAccumulateWizardRewards(t *testing.T) {
	f := newFixture(t, 0, true)
	var ids atomic.Int64
	f.svc.newID = func() (string, error) { return fmt.Sprintf("cc-%d", ids.Add(1)), nil }

	req := basicRequest([]string{"nuke"}, []string{"zap"})
	req.WizardID = "wiz-1"
	const duels = 4
	duelIDs := make([]string, duels)
	for i := range duelIDs {
		duel, err := f.svc.StartDuel(context.Background(), req)
		if err != nil {
			t.Fatalf("StartDuel: %v", err)
		}
		duelIDs[i] = duel.ID
	}

	results := make([]Duel, duels)
	errs := make([]error, duels)
	var wg sync.WaitGroup
	for i, duelID := range duelIDs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = f.svc.Act(context.Background(), duelID, engine.Cast("nuke"))
		}()
	}
	wg.Wait()

	wantXP := 0
	for i, err := range errs {
		if err != nil {
			t.Fatalf("Act %s: %v", duelIDs[i], err)
		}
		if results[i].State.Status != combat.StatusPlayerWon || results[i].State.Rewards == nil {
			t.Fatalf("duel %s = %s, want a rewarded win", duelIDs[i], results[i].State.Status)
		}
		wantXP += results[i].State.Rewards.Experience
	}
	wizard, err := f.svc.GetWizard(context.Background(), "wiz-1")
	if err != nil {
		t.Fatalf("GetWizard: %v", err)
	}
	if wizard.Experience != wantXP {
		t.Fatalf("wizard xp = %d, want %d from %d duels", wizard.Experience, wantXP, duels)
	}
}

func TestFinishRetriesRecordAfterStorageFailure(t *testing.T) {
	f := newFixture(t, 0, true)
	flaky := &flakyStore{Store: f.store}
	f.svc.store = flaky

	duel, err := f.svc.StartDuel(context.Background(), basicRequest([]string{"nuke"}, []string{"zap"}))
	if err != nil {
		t.Fatalf("StartDuel: %v", err)
	}
	flaky.failRecordPuts = 1
	_, err = f.svc.Act(context.Background(), duel.ID, engine.Cast("nuke"))
	if !apperrors.IsCode(err, apperrors.CodeInternal) {
		t.Fatalf("error = %v, want %s", err, apperrors.CodeInternal)
	}

	duel, err = f.svc.ResolveOpponent(context.Background(), duel.ID)
	if err != nil {
		t.Fatalf("ResolveOpponent retry: %v", err)
	}
	if duel.State.Status != combat.StatusPlayerWon || duel.RecordID == "" {
		t.Fatalf("status %s record %q, want a stored win", duel.State.Status, duel.RecordID)
	}
	if _, err := f.store.GetBattleRecord(context.Background(), duel.RecordID); err != nil {
		t.Fatalf("GetBattleRecord: %v", err)
	}

	again, err := f.svc.Act(context.Background(), duel.ID, engine.Skip())
	if reason := apperrors.GetMetadata(err)[apperrors.MetadataReason]; reason != string(engine.RejectBattleOver) {
		t.Fatalf("reason = %q (%+v), want %s once settled", reason, again, engine.RejectBattleOver)
	}
}

func TestFinishRewardsWizardOnceAcrossRetries(t *testing.T) {
	f := newFixture(t, 0, true)
	flaky := &flakyStore{Store: f.store}
	f.svc.store = flaky

	req := basicRequest([]string{"nuke"}, []string{"zap"})
	req.WizardID = "wiz-1"
	duel, err := f.svc.StartDuel(context.Background(), req)
	if err != nil {
		t.Fatalf("StartDuel: %v", err)
	}
	flaky.failWizardPuts = 1
	if _, err := f.svc.Act(context.Background(), duel.ID, engine.Cast("nuke")); !apperrors.IsCode(err, apperrors.CodeInternal) {
		t.Fatalf("error = %v, want %s", err, apperrors.CodeInternal)
	}
	wizard, err := f.svc.GetWizard(context.Background(), "wiz-1")
	if err != nil {
		t.Fatalf("GetWizard: %v", err)
	}
	if wizard.Experience != 0 {
		t.Fatalf("wizard xp = %d, want none before the retry", wizard.Experience)
	}

	duel, err = f.svc.GetDuel(context.Background(), duel.ID)
	if err != nil {
		t.Fatalf("GetDuel: %v", err)
	}
	if !duel.LeveledUp || len(duel.SpellOffer) == 0 {
		t.Fatalf("leveled up %v offer %v, want the pending offer after the retry", duel.LeveledUp, duel.SpellOffer)
	}
	// A further read must not reward twice.
	if _, err := f.svc.GetDuel(context.Background(), duel.ID); err != nil {
		t.Fatalf("GetDuel: %v", err)
	}

	flaky.failRecordPuts = 1
	pick := duel.SpellOffer[0]
	if _, err := f.svc.ChooseSpell(context.Background(), duel.ID, pick); !apperrors.IsCode(err, apperrors.CodeInternal) {
		t.Fatalf("error = %v, want %s", err, apperrors.CodeInternal)
	}
	other := "zap"
	if pick == other {
		other = "bolt"
	}
	if _, err := f.svc.ChooseSpell(context.Background(), duel.ID, other); !apperrors.IsCode(err, apperrors.CodeSpellChoiceInvalid) {
		t.Fatalf("error = %v, want %s for a second pick", err, apperrors.CodeSpellChoiceInvalid)
	}
	duel, err = f.svc.ChooseSpell(context.Background(), duel.ID, pick)
	if err != nil {
		t.Fatalf("ChooseSpell retry: %v", err)
	}
	if duel.RecordID == "" {
		t.Fatal("expected the record stored on retry")
	}

	wizard, err = f.svc.GetWizard(context.Background(), "wiz-1")
	if err != nil {
		t.Fatalf("GetWizard: %v", err)
	}
	if wizard.Experience != 112 || wizard.Level != 2 {
		t.Fatalf("wizard xp %d level %d, want 112 at level 2", wizard.Experience, wizard.Level)
	}
	if !slices.Contains(wizard.Spells, pick) {
		t.Fatalf("spells = %v, want %s", wizard.Spells, pick)
	}
}

func TestStartDuelChecksWizardDeck(t *testing.T) {
	f := newFixture(t, 0, true)
	ctx := context.Background()

	req := basicRequest([]string{"zap", "bolt"}, []string{"zap"})
	req.WizardID = "wiz-1"
	if _, err := f.svc.StartDuel(ctx, req); err != nil {
		t.Fatalf("StartDuel: %v", err)
	}

	locked := req
	locked.Player.Spells = []string{"nuke", "quake"}
	_, err := f.svc.StartDuel(ctx, locked)
	if !apperrors.IsCode(err, apperrors.CodeDuelSetupInvalid) {
		t.Fatalf("error = %v, want %s for locked spells", err, apperrors.CodeDuelSetupInvalid)
	}

	equipped := req
	equipped.Player.Spells = []string{"bolt"}
	if _, err := f.svc.StartDuel(ctx, equipped); err != nil {
		t.Fatalf("StartDuel with an unlocked subset: %v", err)
	}
	wizard, err := f.svc.GetWizard(ctx, "wiz-1")
	if err != nil {
		t.Fatalf("GetWizard: %v", err)
	}
	if !slices.Equal(wizard.Deck, []string{"bolt"}) || !slices.Equal(wizard.Spells, []string{"zap", "bolt"}) {
		t.Fatalf("deck %v spells %v, want deck [bolt] of [zap bolt]", wizard.Deck, wizard.Spells)
	}

	fromDeck := req
	fromDeck.Player.Spells = nil
	duel, err := f.svc.StartDuel(ctx, fromDeck)
	if err != nil {
		t.Fatalf("StartDuel from the equipped deck: %v", err)
	}
	if !slices.Equal(duel.State.Player.Pool, []string{"bolt"}) {
		t.Fatalf("pool = %v, want the equipped deck", duel.State.Player.Pool)
	}
}

func TestEvictsSettledAndIdleSessions(t *testing.T) {
	f := newFixture(t, 0, true)
	now := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)
	f.svc.clock = func() time.Time { return now }
	ctx := context.Background()

	finished, err := f.svc.StartDuel(ctx, basicRequest([]string{"nuke"}, []string{"zap"}))
	if err != nil {
		t.Fatalf("StartDuel: %v", err)
	}
	if _, err := f.svc.Act(ctx, finished.ID, engine.Cast("nuke")); err != nil {
		t.Fatalf("Act: %v", err)
	}
	active, err := f.svc.StartDuel(ctx, basicRequest([]string{"bolt", "bolt"}, []string{"zap"}))
	if err != nil {
		t.Fatalf("StartDuel: %v", err)
	}

	now = now.Add(defaultFinishedRetention)
	third, err := f.svc.StartDuel(ctx, basicRequest([]string{"bolt"}, []string{"zap"}))
	if err != nil {
		t.Fatalf("StartDuel: %v", err)
	}
	if f.hasSession(finished.ID) {
		t.Fatal("expected the settled duel evicted after retention")
	}
	if !f.hasSession(active.ID) {
		t.Fatal("expected the active duel kept before the idle timeout")
	}

	now = now.Add(defaultIdleTimeout)
	last, err := f.svc.StartDuel(ctx, basicRequest([]string{"bolt"}, []string{"zap"}))
	if err != nil {
		t.Fatalf("StartDuel: %v", err)
	}
	if f.hasSession(active.ID) || f.hasSession(third.ID) {
		t.Fatal("expected idle duels evicted")
	}
	if !f.hasSession(last.ID) {
		t.Fatal("expected the new duel registered")
	}
	if _, err := f.svc.GetDuel(ctx, active.ID); !apperrors.IsCode(err, apperrors.CodeDuelNotFound) {
		t.Fatalf("error = %v, want %s", err, apperrors.CodeDuelNotFound)
	}
}

func TestEvictionKeepsPendingSpellChoice(t *testing.T) {
	f := newFixture(t, 0, true)
	now := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)
	f.svc.clock = func() time.Time { return now }
	ctx := context.Background()

	req := basicRequest([]string{"nuke"}, []string{"zap"})
	req.WizardID = "wiz-1"
	duel, err := f.svc.StartDuel(ctx, req)
	if err != nil {
		t.Fatalf("StartDuel: %v", err)
	}
	if duel, err = f.svc.Act(ctx, duel.ID, engine.Cast("nuke")); err != nil || len(duel.SpellOffer) == 0 {
		t.Fatalf("Act = %+v, %v; want a pending offer", duel.SpellOffer, err)
	}

	now = now.Add(defaultFinishedRetention)
	if _, err := f.svc.StartDuel(ctx, basicRequest([]string{"bolt"}, []string{"zap"})); err != nil {
		t.Fatalf("StartDuel: %v", err)
	}
	if !f.hasSession(duel.ID) {
		t.Fatal("expected the duel awaiting a spell choice kept")
	}
}

func TestStaleTimerSkipsLaterTurn(t *testing.T) {
	f := newFixture(t, time.Second, false)
	ctx := context.Background()
	duel, err := f.svc.StartDuel(ctx, basicRequest([]string{"bolt", "bolt", "bolt"}, []string{"zap"}))
	if err != nil {
		t.Fatalf("StartDuel: %v", err)
	}
	if _, err := f.svc.Act(ctx, duel.ID, engine.Cast("bolt")); err != nil {
		t.Fatalf("Act: %v", err)
	}
	if _, err := f.svc.ResolveOpponent(ctx, duel.ID); err != nil {
		t.Fatalf("ResolveOpponent: %v", err)
	}
	if _, err := f.svc.Act(ctx, duel.ID, engine.Cast("bolt")); err != nil {
		t.Fatalf("Act: %v", err)
	}
	if len(f.scheduled) != 2 {
		t.Fatalf("scheduled = %d, want 2", len(f.scheduled))
	}

	f.scheduled[0]()
	duel, err = f.svc.GetDuel(ctx, duel.ID)
	if err != nil {
		t.Fatalf("GetDuel: %v", err)
	}
	if duel.State.Phase != combat.PhaseProcessingOpponentTurn || duel.State.Round != 2 {
		t.Fatalf("phase %s round %d, want the round 2 reply still pending", duel.State.Phase, duel.State.Round)
	}

	f.scheduled[1]()
	duel, err = f.svc.GetDuel(ctx, duel.ID)
	if err != nil {
		t.Fatalf("GetDuel: %v", err)
	}
	if duel.State.Phase != combat.PhasePlayerTurn || duel.State.Round != 3 {
		t.Fatalf("phase %s round %d, want player turn in round 3", duel.State.Phase, duel.State.Round)
	}
}

func TestReplayHonorsSeedAndGrantsNothing(t *testing.T) {
	f := newFixture(t, 0, true)
	f.svc.allowClientSeed = false
	ctx := context.Background()

	req := basicRequest([]string{"nuke"}, []string{"zap"})
	req.WizardID = "wiz-1"
	req.RollMode = "replay"
	duel, err := f.svc.StartDuel(ctx, req)
	if err != nil {
		t.Fatalf("StartDuel: %v", err)
	}
	if duel.State.Seed != 7 || duel.SeedSource != random.SeedSourceClient || duel.RollMode != random.RollModeReplay {
		t.Fatalf("seed %d source %s mode %s, want the replayed client seed", duel.State.Seed, duel.SeedSource, duel.RollMode)
	}

	duel, err = f.svc.Act(ctx, duel.ID, engine.Cast("nuke"))
	if err != nil {
		t.Fatalf("Act: %v", err)
	}
	if duel.State.Status != combat.StatusPlayerWon || duel.RecordID != "" || duel.LeveledUp {
		t.Fatalf("status %s record %q leveled %v, want an unrecorded win", duel.State.Status, duel.RecordID, duel.LeveledUp)
	}
	wizard, err := f.svc.GetWizard(ctx, "wiz-1")
	if err != nil {
		t.Fatalf("GetWizard: %v", err)
	}
	if wizard.Experience != 0 {
		t.Fatalf("wizard xp = %d, want no replay rewards", wizard.Experience)
	}
	page, err := f.svc.ListBattleRecords(ctx, ListRecordsRequest{})
	if err != nil {
		t.Fatalf("ListBattleRecords: %v", err)
	}
	if len(page.Records) != 0 {
		t.Fatalf("records = %d, want none for a replay", len(page.Records))
	}

	req.Seed = nil
	if _, err := f.svc.StartDuel(ctx, req); !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("error = %v, want %s", err, apperrors.CodeInvalidInput)
	}
}
