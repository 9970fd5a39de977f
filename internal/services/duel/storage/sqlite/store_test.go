package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/louisbranch/spellduel/internal/services/duel/domain/combat"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/outcome"
	"github.com/louisbranch/spellduel/internal/services/duel/filter"
	"github.com/louisbranch/spellduel/internal/services/duel/storage"
)

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestNilStoreIsNotConfigured(t *testing.T) {
	t.Parallel()

	var store *Store
	if _, err := store.GetWizard(context.Background(), "w-1"); err == nil {
		t.Fatal("expected not configured error")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close nil store: %v", err)
	}
}

func TestPutGetBattleRecordRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	input := sampleRecord("rec-1", time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC))
	if err := store.PutBattleRecord(context.Background(), input); err != nil {
		t.Fatalf("put battle record: %v", err)
	}

	got, err := store.GetBattleRecord(context.Background(), "rec-1")
	if err != nil {
		t.Fatalf("get battle record: %v", err)
	}
	if got.DuelID != input.DuelID {
		t.Fatalf("duel_id = %q, want %q", got.DuelID, input.DuelID)
	}
	if got.Outcome != outcome.ResultVictory {
		t.Fatalf("outcome = %q, want victory", got.Outcome)
	}
	if got.Difficulty != combat.DifficultyHard {
		t.Fatalf("difficulty = %q, want hard", got.Difficulty)
	}
	if got.Duration != 90*time.Second {
		t.Fatalf("duration = %v, want 90s", got.Duration)
	}
	if !slices.Equal(got.SpellsCast, input.SpellsCast) {
		t.Fatalf("spells_cast = %v, want %v", got.SpellsCast, input.SpellsCast)
	}
	if got.SpellsCastCount != len(input.SpellsCast) {
		t.Fatalf("spells_cast_count = %d, want %d", got.SpellsCastCount, len(input.SpellsCast))
	}
	if !got.Flawless {
		t.Fatal("expected flawless record")
	}
	if got.Rewards.Gold != 40 || got.Rewards.Experience != 75 || got.Rewards.NewSpell != "fireball" {
		t.Fatalf("rewards = %+v", got.Rewards)
	}
	if !slices.Equal(got.Rewards.Items, []string{"mana_potion"}) {
		t.Fatalf("items = %v", got.Rewards.Items)
	}
	if !got.EndedAt.Equal(input.EndedAt) {
		t.Fatalf("ended_at = %v, want %v", got.EndedAt, input.EndedAt)
	}
	if got.Seed != input.Seed {
		t.Fatalf("seed = %d, want %d", got.Seed, input.Seed)
	}
}

func TestPutBattleRecordReturnsAlreadyExistsOnDuplicate(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	input := sampleRecord("rec-dup", time.Date(2026, time.March, 3, 11, 0, 0, 0, time.UTC))
	if err := store.PutBattleRecord(context.Background(), input); err != nil {
		t.Fatalf("put initial record: %v", err)
	}
	err := store.PutBattleRecord(context.Background(), input)
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate put error = %v, want %v", err, storage.ErrAlreadyExists)
	}
}

func TestGetBattleRecordNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, err := store.GetBattleRecord(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get missing error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestListBattleRecordsPagesNewestFirst(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	base := time.Date(2026, time.March, 4, 9, 0, 0, 0, time.UTC)
	for i := range 5 {
		record := sampleRecord(fmt.Sprintf("rec-%d", i), base.Add(time.Duration(i)*time.Minute))
		if err := store.PutBattleRecord(context.Background(), record); err != nil {
			t.Fatalf("put record %d: %v", i, err)
		}
	}

	var ids []string
	token := ""
	for pages := 0; ; pages++ {
		if pages > 5 {
			t.Fatal("pagination did not terminate")
		}
		page, err := store.ListBattleRecords(context.Background(), filter.Condition{}, 2, token)
		if err != nil {
			t.Fatalf("list battle records: %v", err)
		}
		for _, record := range page.Records {
			ids = append(ids, record.ID)
		}
		if page.NextPageToken == "" {
			break
		}
		token = page.NextPageToken
	}
	want := []string{"rec-4", "rec-3", "rec-2", "rec-1", "rec-0"}
	if !slices.Equal(ids, want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
}

func TestListBattleRecordsAppliesFilter(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	base := time.Date(2026, time.March, 5, 9, 0, 0, 0, time.UTC)
	win := sampleRecord("rec-win", base)
	loss := sampleRecord("rec-loss", base.Add(time.Minute))
	loss.Outcome = outcome.ResultDefeat
	loss.Flawless = false
	loss.Rewards = combat.Rewards{}
	easy := sampleRecord("rec-easy", base.Add(2*time.Minute))
	easy.Difficulty = combat.DifficultyEasy
	easy.Flawless = false
	for _, record := range []outcome.BattleRecord{win, loss, easy} {
		if err := store.PutBattleRecord(context.Background(), record); err != nil {
			t.Fatalf("put %s: %v", record.ID, err)
		}
	}

	tests := []struct {
		filter string
		want   []string
	}{
		{filter: `outcome = "victory"`, want: []string{"rec-easy", "rec-win"}},
		{filter: `flawless`, want: []string{"rec-win"}},
		{filter: `outcome = "victory" AND NOT flawless`, want: []string{"rec-easy"}},
		{filter: `difficulty = "hard" OR outcome = "defeat"`, want: []string{"rec-loss", "rec-win"}},
		{filter: `ended_at > timestamp("2026-03-05T09:00:30Z")`, want: []string{"rec-easy", "rec-loss"}},
	}
	for _, tt := range tests {
		cond, err := filter.Parse(tt.filter)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.filter, err)
		}
		page, err := store.ListBattleRecords(context.Background(), cond, 10, "")
		if err != nil {
			t.Fatalf("list %q: %v", tt.filter, err)
		}
		var ids []string
		for _, record := range page.Records {
			ids = append(ids, record.ID)
		}
		if !slices.Equal(ids, tt.want) {
			t.Fatalf("filter %q ids = %v, want %v", tt.filter, ids, tt.want)
		}
	}
}

func TestListBattleRecordsRejectsBadInput(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if _, err := store.ListBattleRecords(context.Background(), filter.Condition{}, 0, ""); err == nil {
		t.Fatal("expected page size error")
	}
	_, err := store.ListBattleRecords(context.Background(), filter.Condition{}, 5, "garbage")
	if !errors.Is(err, storage.ErrInvalidPageToken) {
		t.Fatalf("bad token error = %v, want %v", err, storage.ErrInvalidPageToken)
	}
}

func TestPutWizardUpserts(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	created := time.Date(2026, time.March, 6, 8, 0, 0, 0, time.UTC)
	wizard := storage.Wizard{
		ID:        "wiz-1",
		Name:      "Morgana",
		Level:     1,
		Spells:    []string{"firebolt", "heal"},
		Deck:      []string{"firebolt"},
		CreatedAt: created,
		UpdatedAt: created,
	}
	if err := store.PutWizard(context.Background(), wizard); err != nil {
		t.Fatalf("put wizard: %v", err)
	}

	wizard.Experience = 120
	wizard.Level = 2
	wizard.Gold = 35
	wizard.Items = []string{"mana_potion"}
	wizard.Achievements = []string{"flawless_victory"}
	wizard.UpdatedAt = created.Add(time.Hour)
	if err := store.PutWizard(context.Background(), wizard); err != nil {
		t.Fatalf("update wizard: %v", err)
	}

	got, err := store.GetWizard(context.Background(), "wiz-1")
	if err != nil {
		t.Fatalf("get wizard: %v", err)
	}
	if got.Experience != 120 || got.Level != 2 || got.Gold != 35 {
		t.Fatalf("wizard progress = %+v", got)
	}
	if !slices.Equal(got.Spells, wizard.Spells) {
		t.Fatalf("spells = %v, want %v", got.Spells, wizard.Spells)
	}
	if !slices.Equal(got.Deck, []string{"firebolt"}) {
		t.Fatalf("deck = %v, want [firebolt]", got.Deck)
	}
	if !slices.Equal(got.Achievements, wizard.Achievements) {
		t.Fatalf("achievements = %v", got.Achievements)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, created)
	}
	if !got.UpdatedAt.Equal(wizard.UpdatedAt) {
		t.Fatalf("updated_at = %v, want %v", got.UpdatedAt, wizard.UpdatedAt)
	}
}

func TestGetWizardNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, err := store.GetWizard(context.Background(), "nobody")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get missing wizard error = %v, want %v", err, storage.ErrNotFound)
	}
}

func sampleRecord(id string, endedAt time.Time) outcome.BattleRecord {
	return outcome.BattleRecord{
		ID:              id,
		DuelID:          "duel-" + id,
		WizardID:        "wiz-1",
		Outcome:         outcome.ResultVictory,
		Difficulty:      combat.DifficultyHard,
		AILevel:         3,
		Rounds:          4,
		Duration:        90 * time.Second,
		DamageDealt:     100,
		DamageTaken:     0,
		SpellsCastCount: 2,
		SpellsCast:      []string{"firebolt", "lightning"},
		CriticalHits:    1,
		Flawless:        true,
		FinalBlow:       "lightning",
		PlayerHealth:    100,
		PlayerMaxHealth: 100,
		Rewards: combat.Rewards{
			Gold:       40,
			Experience: 75,
			Items:      []string{"mana_potion"},
			NewSpell:   "fireball",
		},
		Seed:      42,
		StartedAt: endedAt.Add(-90 * time.Second),
		EndedAt:   endedAt,
	}
}

func openTempStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "duel.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}
