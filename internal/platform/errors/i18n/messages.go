package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeInvalidInput          = "INVALID_INPUT"
	CodeNotFound              = "NOT_FOUND"
	CodeInternal              = "INTERNAL"
	CodeDuelNotFound          = "DUEL_NOT_FOUND"
	CodeDuelRejected          = "DUEL_REJECTED"
	CodeDuelSetupInvalid      = "DUEL_SETUP_INVALID"
	CodeDuelAlreadyExists     = "DUEL_ALREADY_EXISTS"
	CodeSpellChoiceNotPending = "SPELL_CHOICE_NOT_PENDING"
	CodeSpellChoiceInvalid    = "SPELL_CHOICE_INVALID"
	CodeRecordFilterInvalid   = "RECORD_FILTER_INVALID"
	CodeRecordPageInvalid     = "RECORD_PAGE_INVALID"
	CodeSeedOutOfRange        = "SEED_OUT_OF_RANGE"
)

var enUSMessages = map[Code]string{
	CodeInvalidInput:          "The request is invalid: {{.Detail}}",
	CodeNotFound:              "The requested resource was not found.",
	CodeInternal:              "Something went wrong. Please try again.",
	CodeDuelNotFound:          "Duel {{.DuelID}} was not found.",
	CodeDuelRejected:          "That action is not allowed right now: {{.Detail}}",
	CodeDuelSetupInvalid:      "The duel could not be set up: {{.Detail}}",
	CodeDuelAlreadyExists:     "Duel {{.DuelID}} already exists.",
	CodeSpellChoiceNotPending: "There is no spell choice waiting for duel {{.DuelID}}.",
	CodeSpellChoiceInvalid:    "Spell {{.SpellID}} is not one of the offered spells.",
	CodeRecordFilterInvalid:   "The battle record filter is invalid: {{.Detail}}",
	CodeRecordPageInvalid:     "The page token is invalid.",
	CodeSeedOutOfRange:        "The seed is out of range.",
}

var ptBRMessages = map[Code]string{
	CodeInvalidInput:          "A requisição é inválida: {{.Detail}}",
	CodeNotFound:              "O recurso solicitado não foi encontrado.",
	CodeInternal:              "Algo deu errado. Tente novamente.",
	CodeDuelNotFound:          "O duelo {{.DuelID}} não foi encontrado.",
	CodeDuelRejected:          "Essa ação não é permitida agora: {{.Detail}}",
	CodeDuelSetupInvalid:      "Não foi possível preparar o duelo: {{.Detail}}",
	CodeDuelAlreadyExists:     "O duelo {{.DuelID}} já existe.",
	CodeSpellChoiceNotPending: "Não há escolha de feitiço pendente para o duelo {{.DuelID}}.",
	CodeSpellChoiceInvalid:    "O feitiço {{.SpellID}} não está entre os oferecidos.",
	CodeRecordFilterInvalid:   "O filtro de registros é inválido: {{.Detail}}",
	CodeRecordPageInvalid:     "O token de página é inválido.",
	CodeSeedOutOfRange:        "A semente está fora do intervalo.",
}
