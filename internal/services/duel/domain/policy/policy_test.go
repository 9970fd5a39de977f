package policy

import (
	"math"
	"testing"

	"github.com/louisbranch/spellduel/internal/random"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/spell"
)

func hand() []spell.Spell {
	return []spell.Spell{
		{ID: "weak", ManaCost: 5, Damage: 10},
		{ID: "strong", ManaCost: 10, Damage: 20},
	}
}

func TestChooseSpellLevelOneIsUniform(t *testing.T) {
	rng := random.New(1234)
	counts := map[string]int{}
	const trials = 1000
	for i := 0; i < trials; i++ {
		s, ok := ChooseSpell(hand(), 100, 1, rng)
		if !ok {
			t.Fatal("expected a choice")
		}
		counts[s.ID]++
	}
	// Five standard deviations of a fair binomial over 1000 trials.
	tolerance := int(5 * math.Sqrt(trials*0.25))
	for _, id := range []string{"weak", "strong"} {
		if diff := counts[id] - trials/2; diff > tolerance || -diff > tolerance {
			t.Fatalf("counts = %v, want roughly 50/50 within %d", counts, tolerance)
		}
	}
}

func TestChooseSpellHigherLevelsPickMaxDamage(t *testing.T) {
	for _, level := range []int{2, 3, 5} {
		for i := 0; i < 100; i++ {
			s, ok := ChooseSpell(hand(), 100, level, random.New(int64(i)))
			if !ok || s.ID != "strong" {
				t.Fatalf("level %d choice = %q, want strong", level, s.ID)
			}
		}
	}
}

func TestChooseSpellTiesGoToHandOrder(t *testing.T) {
	h := []spell.Spell{{ID: "first", Damage: 12}, {ID: "second", Damage: 12}}
	s, _ := ChooseSpell(h, 0, 3, random.New(1))
	if s.ID != "first" {
		t.Fatalf("choice = %q, want first", s.ID)
	}
}

func TestChooseSpellFiltersUnaffordable(t *testing.T) {
	s, ok := ChooseSpell(hand(), 7, 3, random.New(1))
	if !ok || s.ID != "weak" {
		t.Fatalf("choice = %q, %v, want weak", s.ID, ok)
	}
	if _, ok := ChooseSpell(hand(), 2, 3, random.New(1)); ok {
		t.Fatal("expected no choice when nothing is affordable")
	}
	if _, ok := ChooseSpell(nil, 100, 1, random.New(1)); ok {
		t.Fatal("expected no choice from an empty hand")
	}
}

func TestPoolForLevel(t *testing.T) {
	catalog := spell.DefaultCatalog()
	low := PoolForLevel(catalog, 1)
	high := PoolForLevel(catalog, 5)
	if len(low) == 0 || len(low) >= len(high) {
		t.Fatalf("pool sizes = %d and %d, want growth with level", len(low), len(high))
	}
	for _, s := range low {
		if s.Tier > 1 {
			t.Fatalf("spell %q tier %d leaked into level 1 pool", s.ID, s.Tier)
		}
	}
	if len(high) != catalog.Len() {
		t.Fatalf("level 5 pool = %d, want whole catalog %d", len(high), catalog.Len())
	}
}

func TestGenerateOpponent(t *testing.T) {
	catalog := spell.DefaultCatalog()
	ids, err := GenerateOpponent(catalog, 2, 5, random.New(7))
	if err != nil {
		t.Fatalf("GenerateOpponent: %v", err)
	}
	if len(ids) != 5 {
		t.Fatalf("ids = %v, want 5", ids)
	}
	seen := map[string]bool{}
	for _, id := range ids {
		s, ok := catalog.Lookup(id)
		if !ok || s.Tier > 2 || seen[id] {
			t.Fatalf("unexpected id %q in %v", id, ids)
		}
		seen[id] = true
	}
	if _, err := GenerateOpponent(catalog, 0, 5, random.New(7)); err == nil {
		t.Fatal("expected error for level 0")
	}
}
