package outcome

import "github.com/louisbranch/spellduel/internal/services/duel/domain/spell"

// Achievement is a typed predicate over a battle record.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Earned      func(BattleRecord) bool
}

var achievements = []Achievement{
	{
		ID:          "flawless_victory",
		Name:        "Untouchable",
		Description: "Win a duel without taking damage.",
		Earned:      func(r BattleRecord) bool { return r.Outcome == ResultVictory && r.Flawless },
	},
	{
		ID:          "spellslinger",
		Name:        "Spellslinger",
		Description: "Cast 10 or more spells in one duel.",
		Earned:      func(r BattleRecord) bool { return r.SpellsCastCount >= 10 },
	},
	{
		ID:          "swift_duel",
		Name:        "Swift Duelist",
		Description: "Win a duel in 3 rounds or fewer.",
		Earned:      func(r BattleRecord) bool { return r.Outcome == ResultVictory && r.Rounds <= 3 },
	},
	{
		ID:          "giant_slayer",
		Name:        "Giant Slayer",
		Description: "Defeat an opponent of AI level 4 or higher.",
		Earned:      func(r BattleRecord) bool { return r.Outcome == ResultVictory && r.AILevel >= 4 },
	},
	{
		ID:          "survivor",
		Name:        "Survivor",
		Description: "Win a duel with 10% health or less.",
		Earned: func(r BattleRecord) bool {
			return r.Outcome == ResultVictory && r.PlayerMaxHealth > 0 && r.PlayerHealth*10 <= r.PlayerMaxHealth
		},
	},
	{
		ID:          "knockout_punch",
		Name:        "Knockout",
		Description: "Finish a duel with a Mystic Punch.",
		Earned: func(r BattleRecord) bool {
			return r.Outcome == ResultVictory && r.FinalBlow == spell.MysticPunchID
		},
	},
}

// Achievements returns every known achievement.
func Achievements() []Achievement {
	return append([]Achievement(nil), achievements...)
}

// EarnedAchievements returns the ids of achievements record satisfies.
func EarnedAchievements(record BattleRecord) []string {
	var ids []string
	for _, a := range achievements {
		if a.Earned(record) {
			ids = append(ids, a.ID)
		}
	}
	return ids
}
