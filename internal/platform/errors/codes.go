// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Generic errors
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInternal     Code = "INTERNAL"

	// Duel errors
	CodeDuelNotFound      Code = "DUEL_NOT_FOUND"
	CodeDuelRejected      Code = "DUEL_REJECTED"
	CodeDuelSetupInvalid  Code = "DUEL_SETUP_INVALID"
	CodeDuelAlreadyExists Code = "DUEL_ALREADY_EXISTS"

	// Spell choice errors
	CodeSpellChoiceNotPending Code = "SPELL_CHOICE_NOT_PENDING"
	CodeSpellChoiceInvalid    Code = "SPELL_CHOICE_INVALID"

	// Battle record errors
	CodeRecordFilterInvalid Code = "RECORD_FILTER_INVALID"
	CodeRecordPageInvalid   Code = "RECORD_PAGE_INVALID"

	// Random/seed errors
	CodeSeedOutOfRange Code = "SEED_OUT_OF_RANGE"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeInvalidInput,
		CodeDuelSetupInvalid,
		CodeSpellChoiceInvalid,
		CodeRecordFilterInvalid,
		CodeRecordPageInvalid,
		CodeSeedOutOfRange:
		return codes.InvalidArgument

	// FailedPrecondition - duel state doesn't allow the action
	case CodeDuelRejected,
		CodeSpellChoiceNotPending:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeNotFound,
		CodeDuelNotFound:
		return codes.NotFound

	// AlreadyExists - unique resource constraint
	case CodeDuelAlreadyExists:
		return codes.AlreadyExists

	default:
		return codes.Internal
	}
}
