// Package apperr defines the error taxonomy shared by the auth core.
// Callers discriminate failures with KindOf / IsKind rather than by
// inspecting message strings.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation marks malformed input rejected before any state change.
	KindValidation
	// KindAuthentication marks bad credentials or an invalid/expired token.
	KindAuthentication
	// KindAuthorization marks banned accounts, too many attempts, or role mismatch.
	KindAuthorization
	KindNotFound
	KindConflict
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Reason is the authentication subtype. Only "expired" is a normal
// user-facing condition; everything else is treated as tampering.
type Reason string

const (
	ReasonNone    Reason = ""
	ReasonInvalid Reason = "invalid"
	ReasonExpired Reason = "expired"
)

type Error struct {
	Kind    Kind
	Reason  Reason
	Message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.err
}

// Is lets errors.Is match any error of the same kind (and reason, when set
// on the target).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Reason == ReasonNone || t.Reason == e.Reason
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Authentication(reason Reason, message string) *Error {
	return &Error{Kind: KindAuthentication, Reason: reason, Message: message}
}

func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Internal wraps an unexpected store/cache/signing failure. The wrapped
// error is kept for logs; Message is what callers may see.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, err: err}
}

// KindOf returns the taxonomy kind of err, or KindUnknown for errors that
// did not originate here.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// ReasonOf returns the authentication subtype, or ReasonNone.
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ReasonNone
}
