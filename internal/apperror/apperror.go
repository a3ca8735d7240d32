package apperror

import "errors"

// Kind classifies a failure so transports can map it without knowing
// which package produced it.
type Kind string

const (
	KindUnknown           Kind = "UNKNOWN"
	KindNotFound          Kind = "NOT_FOUND"
	KindInvalidState      Kind = "INVALID_STATE"
	KindInvalidInput      Kind = "INVALID_INPUT"
	KindInsufficientStock Kind = "INSUFFICIENT_STOCK"
	KindForbidden         Kind = "FORBIDDEN"
	KindConflict          Kind = "CONFLICT"
	KindUnauthenticated   Kind = "UNAUTHENTICATED"
	KindRateLimited       Kind = "RATE_LIMITED"
)

// Error is a classified, human readable failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorKind lets errors.As find the kind through any wrapping.
func (e *Error) ErrorKind() Kind { return e.Kind }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

type kinded interface {
	ErrorKind() Kind
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var k kinded
	if errors.As(err, &k) {
		return k.ErrorKind()
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Retryable reports whether the caller may reasonably try the same request again.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindConflict, KindInsufficientStock:
		return true
	}
	return false
}
