// Package narrate renders human-readable battle log lines.
//
// Lines are formatted through golang.org/x/text/message printers so the log
// follows the duel's locale. English is the fallback for unsupported tags.
package narrate

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var (
	supported = []language.Tag{language.AmericanEnglish, language.BrazilianPortuguese}
	matcher   = language.NewMatcher(supported)
)

// Message keys double as the English format strings.
const (
	keyDuelStarts    = "%s faces %s!"
	keyCast          = "%s casts %s."
	keyDamage        = "%s takes %d damage."
	keyCritical      = "Critical hit!"
	keyHeal          = "%s recovers %d health."
	keyManaRestored  = "%s restores %d mana."
	keyManaDrained   = "%s loses %d mana."
	keyEffectApplied = "%s is affected by %s for %d rounds."
	keyPunch         = "%s throws a Mystic Punch."
	keyPunchDiscard  = "%s discards %s to throw a Mystic Punch."
	keySkip          = "%s skips the turn and gathers %d mana."
	keyOpponentSkip  = "%s has no affordable spell and skips the turn."
	keyEffectDamage  = "%s takes %d damage from %s."
	keyEffectHeal    = "%s recovers %d health from %s."
	keyEffectExpired = "%s on %s fades."
	keyRoundBegins   = "Round %d begins."
	keyVictory       = "%s is defeated. Victory!"
	keyDefeat        = "%s has fallen. Defeat."
	keyRejected      = "Action rejected: %s"
)

func init() {
	en := language.AmericanEnglish
	mustSet(en, keyEffectApplied, plural.Selectf(3, "%d",
		"=1", "%[1]s is affected by %[2]s for %[3]d round.",
		"other", "%[1]s is affected by %[2]s for %[3]d rounds.",
	))

	pt := language.BrazilianPortuguese
	for key, msg := range map[string]string{
		keyDuelStarts:    "%s enfrenta %s!",
		keyCast:          "%s lança %s.",
		keyDamage:        "%s sofre %d de dano.",
		keyCritical:      "Acerto crítico!",
		keyHeal:          "%s recupera %d de vida.",
		keyManaRestored:  "%s restaura %d de mana.",
		keyManaDrained:   "%s perde %d de mana.",
		keyPunch:         "%s desfere um Soco Místico.",
		keyPunchDiscard:  "%s descarta %s para desferir um Soco Místico.",
		keySkip:          "%s passa a vez e reúne %d de mana.",
		keyOpponentSkip:  "%s não tem magia acessível e passa a vez.",
		keyEffectDamage:  "%s sofre %d de dano de %s.",
		keyEffectHeal:    "%s recupera %d de vida com %s.",
		keyEffectExpired: "%s em %s se dissipa.",
		keyRoundBegins:   "Começa a rodada %d.",
		keyVictory:       "%s foi derrotado. Vitória!",
		keyDefeat:        "%s caiu. Derrota.",
		keyRejected:      "Ação rejeitada: %s",
	} {
		if err := message.SetString(pt, key, msg); err != nil {
			panic(err)
		}
	}
	mustSet(pt, keyEffectApplied, plural.Selectf(3, "%d",
		"=1", "%[1]s está sob %[2]s por %[3]d rodada.",
		"other", "%[1]s está sob %[2]s por %[3]d rodadas.",
	))
}

func mustSet(tag language.Tag, key string, msg catalog.Message) {
	if err := message.Set(tag, key, msg); err != nil {
		panic(err)
	}
}

// Match returns the supported tag closest to locale.
func Match(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return language.AmericanEnglish
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return language.AmericanEnglish
	}
	return supported[index]
}

// Narrator formats log lines for one locale.
type Narrator struct {
	p *message.Printer
}

// New returns a narrator for locale.
func New(locale string) Narrator {
	return Narrator{p: message.NewPrinter(Match(locale))}
}

func (n Narrator) printer() *message.Printer {
	if n.p == nil {
		return message.NewPrinter(language.AmericanEnglish)
	}
	return n.p
}

func (n Narrator) DuelStarts(player, enemy string) string {
	return n.printer().Sprintf(keyDuelStarts, player, enemy)
}

func (n Narrator) Cast(caster, spellName string) string {
	return n.printer().Sprintf(keyCast, caster, spellName)
}

func (n Narrator) Damage(target string, amount int) string {
	return n.printer().Sprintf(keyDamage, target, amount)
}

func (n Narrator) Critical() string {
	return n.printer().Sprintf(keyCritical)
}

func (n Narrator) Heal(target string, amount int) string {
	return n.printer().Sprintf(keyHeal, target, amount)
}

// ManaRestored narrates an immediate mana change. Negative amounts read as
// a drain.
func (n Narrator) ManaRestored(target string, amount int) string {
	if amount < 0 {
		return n.printer().Sprintf(keyManaDrained, target, -amount)
	}
	return n.printer().Sprintf(keyManaRestored, target, amount)
}

func (n Narrator) EffectApplied(target, effect string, rounds int) string {
	return n.printer().Sprintf(keyEffectApplied, target, effect, rounds)
}

// Punch narrates a Mystic Punch. An empty discard means the hand was empty.
func (n Narrator) Punch(caster, discarded string) string {
	if discarded == "" {
		return n.printer().Sprintf(keyPunch, caster)
	}
	return n.printer().Sprintf(keyPunchDiscard, caster, discarded)
}

func (n Narrator) Skip(name string, mana int) string {
	return n.printer().Sprintf(keySkip, name, mana)
}

func (n Narrator) OpponentSkip(name string) string {
	return n.printer().Sprintf(keyOpponentSkip, name)
}

// EffectTick narrates a recurring effect landing. Positive deltas heal.
func (n Narrator) EffectTick(target, effect string, delta int) string {
	if delta >= 0 {
		return n.printer().Sprintf(keyEffectHeal, target, delta, effect)
	}
	return n.printer().Sprintf(keyEffectDamage, target, -delta, effect)
}

func (n Narrator) EffectExpired(target, effect string) string {
	return n.printer().Sprintf(keyEffectExpired, effect, target)
}

func (n Narrator) RoundBegins(round int) string {
	return n.printer().Sprintf(keyRoundBegins, round)
}

func (n Narrator) Victory(enemy string) string {
	return n.printer().Sprintf(keyVictory, enemy)
}

func (n Narrator) Defeat(player string) string {
	return n.printer().Sprintf(keyDefeat, player)
}

func (n Narrator) Rejected(reason string) string {
	return n.printer().Sprintf(keyRejected, reason)
}
