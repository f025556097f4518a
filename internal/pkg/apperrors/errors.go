package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping. Validation and auth
// failures are raised before any store call; transport errors wrap whatever
// the underlying store returned.
type Kind int

const (
	KindValidation Kind = iota
	KindAuth
	KindNotFound
	KindTransport
)

var (
	ErrValidation = errors.New("validation failed")
	ErrAuth       = errors.New("authentication failed")
	ErrNotFound   = errors.New("not found")
	ErrTransport  = errors.New("transport failure")
)

type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	switch e.Kind {
	case KindValidation:
		return ErrValidation
	case KindAuth:
		return ErrAuth
	case KindNotFound:
		return ErrNotFound
	default:
		return ErrTransport
	}
}

// Is lets errors.Is(err, ErrValidation) etc. work on wrapped causes too.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrAuth:
		return e.Kind == KindAuth
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrTransport:
		return e.Kind == KindTransport
	}
	return false
}

func Validation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Auth(message string) error {
	return &Error{Kind: KindAuth, Message: message}
}

func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Transport wraps an underlying store/network error. The message is what the
// client sees; the cause stays in logs only.
func Transport(message string, cause error) error {
	return &Error{Kind: KindTransport, Message: message, Err: cause}
}
