package spell

import (
	"strings"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestDefaultCatalogLoads(t *testing.T) {
	catalog := DefaultCatalog()
	if catalog.Len() == 0 {
		t.Fatal("expected embedded catalog to contain spells")
	}
	tiers := map[int]bool{}
	elements := map[Element]bool{}
	for _, s := range catalog.All() {
		tiers[s.Tier] = true
		elements[s.Element] = true
	}
	for tier := 1; tier <= 5; tier++ {
		if !tiers[tier] {
			t.Fatalf("expected catalog to contain tier %d", tier)
		}
	}
	if len(elements) != 8 {
		t.Fatalf("elements = %d, want 8", len(elements))
	}
}

func TestCatalogLookupReturnsCopy(t *testing.T) {
	catalog := DefaultCatalog()
	s, ok := catalog.Lookup("ignite")
	if !ok {
		t.Fatal("expected ignite in catalog")
	}
	*s.Effects[0].Duration = 99
	again, _ := catalog.Lookup("ignite")
	if *again.Effects[0].Duration == 99 {
		t.Fatal("expected lookup to return an independent copy")
	}
}

func TestNilCatalogIsEmpty(t *testing.T) {
	var c *Catalog
	if _, ok := c.Lookup("x"); ok {
		t.Fatal("expected nil catalog lookup to miss")
	}
	if c.Len() != 0 || c.All() != nil || c.Has("x") {
		t.Fatal("expected nil catalog to be empty")
	}
}

func TestNewCatalogRejectsDuplicates(t *testing.T) {
	s := Spell{ID: "a", Name: "A", Element: ElementFire, Type: TypeDamage, Tier: 1}
	if _, err := NewCatalog([]Spell{s, s}); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestLoadCatalogRejectsUnknownFields(t *testing.T) {
	_, err := LoadCatalog(strings.NewReader(`[{"id":"a","name":"A","element":"fire","type":"damage","tier":1,"power":3}]`))
	if err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestSpellValidate(t *testing.T) {
	valid := Spell{ID: "a", Name: "A", Element: ElementFire, Type: TypeDamage, ManaCost: 1, Damage: 1, Tier: 1}
	tests := []struct {
		name   string
		mutate func(*Spell)
		ok     bool
	}{
		{name: "valid", mutate: func(*Spell) {}, ok: true},
		{name: "missing id", mutate: func(s *Spell) { s.ID = " " }},
		{name: "reserved id", mutate: func(s *Spell) { s.ID = MysticPunchID }},
		{name: "unknown element", mutate: func(s *Spell) { s.Element = "plasma" }},
		{name: "unknown type", mutate: func(s *Spell) { s.Type = "summon" }},
		{name: "negative cost", mutate: func(s *Spell) { s.ManaCost = -1 }},
		{name: "tier zero", mutate: func(s *Spell) { s.Tier = 0 }},
		{name: "bad effect target", mutate: func(s *Spell) {
			s.Effects = []Effect{{Type: EffectShield, Value: 1, Target: "everyone"}}
		}},
		{name: "negative duration", mutate: func(s *Spell) {
			s.Effects = []Effect{{Type: EffectShield, Value: 1, Duration: intPtr(-1), Target: TargetSelf}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := s.Validate()
			if tt.ok && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if !tt.ok && err == nil {
				t.Fatal("Validate() = nil, want error")
			}
		})
	}
}

func TestEffectRounds(t *testing.T) {
	if got := (Effect{}).Rounds(); got != 1 {
		t.Fatalf("Rounds() without duration = %d, want 1", got)
	}
	if got := (Effect{Duration: intPtr(3)}).Rounds(); got != 3 {
		t.Fatalf("Rounds() = %d, want 3", got)
	}
}

func TestEffectClassification(t *testing.T) {
	if !(Effect{Type: EffectManaRegen}).Immediate() {
		t.Fatal("manaRegen should be immediate")
	}
	if !(Effect{Type: EffectDamageOverTime}).Recurring() || !(Effect{Type: EffectHealOverTime}).Recurring() {
		t.Fatal("over-time effects should recur")
	}
	if (Effect{Type: EffectShield}).Recurring() {
		t.Fatal("shield should not recur")
	}
}

func TestMysticPunch(t *testing.T) {
	punch := MysticPunch(5)
	if punch.ID != MysticPunchID || punch.ManaCost != 0 || punch.Damage != 5 {
		t.Fatalf("MysticPunch(5) = %+v", punch)
	}
}
