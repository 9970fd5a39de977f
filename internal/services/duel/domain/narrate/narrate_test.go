package narrate

import (
	"testing"

	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		locale string
		want   language.Tag
	}{
		{"en-US", language.AmericanEnglish},
		{"pt-BR", language.BrazilianPortuguese},
		{"pt", language.BrazilianPortuguese},
		{"", language.AmericanEnglish},
		{"not a tag!", language.AmericanEnglish},
	}
	for _, tt := range tests {
		if got := Match(tt.locale); got != tt.want {
			t.Fatalf("Match(%q) = %v, want %v", tt.locale, got, tt.want)
		}
	}
}

func TestEnglishLines(t *testing.T) {
	n := New("en-US")
	tests := []struct {
		got, want string
	}{
		{n.Cast("Player", "Ember Bolt"), "Player casts Ember Bolt."},
		{n.Damage("Goblin", 20), "Goblin takes 20 damage."},
		{n.ManaRestored("Player", -10), "Player loses 10 mana."},
		{n.EffectApplied("Goblin", "Ignite", 1), "Goblin is affected by Ignite for 1 round."},
		{n.EffectApplied("Goblin", "Ignite", 3), "Goblin is affected by Ignite for 3 rounds."},
		{n.Punch("Player", ""), "Player throws a Mystic Punch."},
		{n.Punch("Player", "Spark"), "Player discards Spark to throw a Mystic Punch."},
		{n.EffectTick("Goblin", "Ignite", -4), "Goblin takes 4 damage from Ignite."},
		{n.EffectExpired("Goblin", "Ignite"), "Ignite on Goblin fades."},
		{n.RoundBegins(2), "Round 2 begins."},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Fatalf("line = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestPortugueseLines(t *testing.T) {
	n := New("pt-BR")
	if got, want := n.Cast("Jogador", "Faísca"), "Jogador lança Faísca."; got != want {
		t.Fatalf("Cast = %q, want %q", got, want)
	}
	if got, want := n.EffectApplied("Goblin", "Ignição", 2), "Goblin está sob Ignição por 2 rodadas."; got != want {
		t.Fatalf("EffectApplied = %q, want %q", got, want)
	}
}

func TestZeroNarratorFallsBackToEnglish(t *testing.T) {
	var n Narrator
	if got := n.Critical(); got != "Critical hit!" {
		t.Fatalf("Critical = %q, want English", got)
	}
}
