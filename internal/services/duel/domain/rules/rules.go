// Package rules holds the balancing numbers the duel engine reads.
//
// The engine treats these as data: every value can be overridden from the
// environment without touching engine logic.
package rules

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/louisbranch/spellduel/internal/platform/config"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/combat"
)

// Profile scales rewards and the Mystic Punch for one difficulty.
type Profile struct {
	// RewardPercent scales base experience and gold.
	RewardPercent int `env:"REWARD_PERCENT"`
	// PunchPercent scales Mystic Punch damage.
	PunchPercent int `env:"PUNCH_PERCENT"`
	// NewSpellChance is the victory chance, in percent, of unlocking a spell.
	NewSpellChance int `env:"NEW_SPELL_CHANCE"`
}

// Rules is the full set of duel balancing values.
type Rules struct {
	MaxHandSize    int `env:"SPELLDUEL_MAX_HAND_SIZE" envDefault:"3"`
	PunchDamage    int `env:"SPELLDUEL_PUNCH_DAMAGE" envDefault:"5"`
	SkipBonusMana  int `env:"SPELLDUEL_SKIP_BONUS_MANA" envDefault:"5"`
	CritChance     int `env:"SPELLDUEL_CRIT_CHANCE" envDefault:"0"`
	CritMultiplier int `env:"SPELLDUEL_CRIT_MULTIPLIER" envDefault:"2"`

	BaseExperience       int    `env:"SPELLDUEL_BASE_EXPERIENCE" envDefault:"50"`
	BaseGold             int    `env:"SPELLDUEL_BASE_GOLD" envDefault:"25"`
	GoldVariance         int    `env:"SPELLDUEL_GOLD_VARIANCE" envDefault:"10"`
	FlawlessBonusPercent int    `env:"SPELLDUEL_FLAWLESS_BONUS_PERCENT" envDefault:"50"`
	FlawlessItem         string `env:"SPELLDUEL_FLAWLESS_ITEM" envDefault:"mana_potion"`
	ExperiencePerLevel   int    `env:"SPELLDUEL_EXPERIENCE_PER_LEVEL" envDefault:"100"`

	Easy      Profile `envPrefix:"SPELLDUEL_EASY_"`
	Normal    Profile `envPrefix:"SPELLDUEL_NORMAL_"`
	Hard      Profile `envPrefix:"SPELLDUEL_HARD_"`
	Legendary Profile `envPrefix:"SPELLDUEL_LEGENDARY_"`
}

// Default returns the stock balancing values.
func Default() Rules {
	return Rules{
		MaxHandSize:          combat.DefaultMaxHandSize,
		PunchDamage:          5,
		SkipBonusMana:        5,
		CritChance:           0,
		CritMultiplier:       2,
		BaseExperience:       50,
		BaseGold:             25,
		GoldVariance:         10,
		FlawlessBonusPercent: 50,
		FlawlessItem:         "mana_potion",
		ExperiencePerLevel:   100,
		Easy:                 Profile{RewardPercent: 100, PunchPercent: 120, NewSpellChance: 10},
		Normal:               Profile{RewardPercent: 150, PunchPercent: 100, NewSpellChance: 15},
		Hard:                 Profile{RewardPercent: 200, PunchPercent: 100, NewSpellChance: 25},
		Legendary:            Profile{RewardPercent: 300, PunchPercent: 80, NewSpellChance: 40},
	}
}

// FromEnv loads rules from the process environment over the defaults.
func FromEnv() (Rules, error) {
	return FromMap(env.ToMap(os.Environ()))
}

// FromMap loads rules from an explicit environment map over the defaults.
func FromMap(environ map[string]string) (Rules, error) {
	r := Default()
	if err := config.ParseEnvFrom(&r, environ); err != nil {
		return Rules{}, err
	}
	if err := r.Validate(); err != nil {
		return Rules{}, err
	}
	return r, nil
}

// Profile returns the profile for a difficulty. Unknown difficulties use
// the normal profile.
func (r Rules) Profile(d combat.Difficulty) Profile {
	switch d {
	case combat.DifficultyEasy:
		return r.Easy
	case combat.DifficultyHard:
		return r.Hard
	case combat.DifficultyLegendary:
		return r.Legendary
	default:
		return r.Normal
	}
}

// PunchFor returns the Mystic Punch damage at a difficulty.
func (r Rules) PunchFor(d combat.Difficulty) int {
	return r.PunchDamage * r.Profile(d).PunchPercent / 100
}

// Validate rejects rule sets the engine cannot run with.
func (r Rules) Validate() error {
	var errs []error
	if r.MaxHandSize < 1 {
		errs = append(errs, errors.New("max hand size must be at least 1"))
	}
	if r.PunchDamage < 1 {
		errs = append(errs, errors.New("punch damage must be at least 1"))
	}
	if r.SkipBonusMana < 0 || r.BaseExperience < 0 || r.BaseGold < 0 || r.GoldVariance < 0 || r.FlawlessBonusPercent < 0 {
		errs = append(errs, errors.New("bonus and reward values must be non-negative"))
	}
	if r.CritChance < 0 || r.CritChance > 100 {
		errs = append(errs, fmt.Errorf("crit chance %d outside [0,100]", r.CritChance))
	}
	if r.CritMultiplier < 1 {
		errs = append(errs, errors.New("crit multiplier must be at least 1"))
	}
	if r.ExperiencePerLevel < 1 {
		errs = append(errs, errors.New("experience per level must be at least 1"))
	}
	for _, d := range []combat.Difficulty{combat.DifficultyEasy, combat.DifficultyNormal, combat.DifficultyHard, combat.DifficultyLegendary} {
		p := r.Profile(d)
		if p.RewardPercent < 0 || p.NewSpellChance < 0 || p.NewSpellChance > 100 {
			errs = append(errs, fmt.Errorf("%s profile has invalid reward values", d))
		}
		// A punch must always land for duels to terminate.
		if r.PunchDamage*p.PunchPercent/100 < 1 {
			errs = append(errs, fmt.Errorf("%s punch damage rounds to zero", d))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid rules: %w", errors.Join(errs...))
	}
	return nil
}
