package errors

// Domain is the ErrorInfo domain attached to spellduel errors on the wire.
const Domain = "github.com/louisbranch/spellduel"

// MetadataReason is the metadata key carrying an engine rejection code.
const MetadataReason = "Reason"

// metadataDetail is the metadata key the message catalog uses for free text.
const metadataDetail = "Detail"

// Error is a coded duel error. Message is for logs; the user-facing text is
// rendered from Code and Metadata by the message catalog.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

// New returns an error with code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithMetadata returns an error whose metadata fills catalog templates.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}

// Wrap returns an error with code that wraps cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Rejected reports an action the duel engine declined. reason is the engine
// rejection code.
func Rejected(reason, message string) *Error {
	return WithMetadata(CodeDuelRejected, message, map[string]string{
		MetadataReason: reason,
		metadataDetail: message,
	})
}

// RejectionReason returns the engine rejection code carried by err, if any.
func RejectionReason(err error) string {
	if !IsCode(err, CodeDuelRejected) {
		return ""
	}
	return GetMetadata(err)[MetadataReason]
}
