package rules

import (
	"strings"
	"testing"

	"github.com/louisbranch/spellduel/internal/services/duel/domain/combat"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestFromMapOverridesDefaults(t *testing.T) {
	r, err := FromMap(map[string]string{
		"SPELLDUEL_MAX_HAND_SIZE":         "5",
		"SPELLDUEL_PUNCH_DAMAGE":          "8",
		"SPELLDUEL_HARD_NEW_SPELL_CHANCE": "60",
		"SPELLDUEL_EASY_PUNCH_PERCENT":    "150",
		"SPELLDUEL_FLAWLESS_ITEM":         "elixir",
	})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	if r.MaxHandSize != 5 {
		t.Fatalf("MaxHandSize = %d, want 5", r.MaxHandSize)
	}
	if r.Hard.NewSpellChance != 60 {
		t.Fatalf("Hard.NewSpellChance = %d, want 60", r.Hard.NewSpellChance)
	}
	if r.Hard.RewardPercent != 200 {
		t.Fatalf("Hard.RewardPercent = %d, want default 200", r.Hard.RewardPercent)
	}
	if got := r.PunchFor(combat.DifficultyEasy); got != 12 {
		t.Fatalf("PunchFor(easy) = %d, want 12", got)
	}
	if r.FlawlessItem != "elixir" {
		t.Fatalf("FlawlessItem = %q, want elixir", r.FlawlessItem)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("SPELLDUEL_CRIT_CHANCE", "25")
	r, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if r.CritChance != 25 {
		t.Fatalf("CritChance = %d, want 25", r.CritChance)
	}
}

func TestFromMapRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		want    string
	}{
		{name: "hand", environ: map[string]string{"SPELLDUEL_MAX_HAND_SIZE": "0"}, want: "hand size"},
		{name: "crit", environ: map[string]string{"SPELLDUEL_CRIT_CHANCE": "101"}, want: "crit chance"},
		{name: "punch", environ: map[string]string{"SPELLDUEL_LEGENDARY_PUNCH_PERCENT": "0"}, want: "punch damage rounds to zero"},
		{name: "parse", environ: map[string]string{"SPELLDUEL_BASE_GOLD": "lots"}, want: "parse env"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromMap(tt.environ)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("FromMap error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestPunchForDifficulties(t *testing.T) {
	r := Default()
	tests := []struct {
		difficulty combat.Difficulty
		want       int
	}{
		{combat.DifficultyEasy, 6},
		{combat.DifficultyNormal, 5},
		{combat.DifficultyHard, 5},
		{combat.DifficultyLegendary, 4},
		{"unknown", 5},
	}
	for _, tt := range tests {
		if got := r.PunchFor(tt.difficulty); got != tt.want {
			t.Fatalf("PunchFor(%s) = %d, want %d", tt.difficulty, got, tt.want)
		}
	}
}
