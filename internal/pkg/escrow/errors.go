package escrow

import "fmt"

// Kind is the error taxonomy the API surface maps to HTTP status, not a
// set of Go types — every engine failure carries one of these.
type Kind string

const (
	KindValidation            Kind = "validation"
	KindNotFound              Kind = "not-found"
	KindPrecondition          Kind = "precondition"
	KindExternalTransient     Kind = "external-transient"
	KindExternalPermanent     Kind = "external-permanent"
	KindAccountabilityPublish Kind = "accountability-publish"
	KindInternal              Kind = "internal"
)

// Error is what every exported engine operation returns on failure. The API
// layer switches on Kind to pick an HTTP status; callers that only want a
// human string can just call Error().
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
