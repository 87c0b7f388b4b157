// Package apperror defines the error taxonomy shared by the authorization
// gate, the approval workflow, and the HTTP handlers. Every failure surfaced
// to a caller is one of the kinds below; handlers map kinds to status codes.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for propagation and status mapping.
type Kind int

const (
	// KindInternal is an unexpected failure in the durable layer or a bug.
	KindInternal Kind = iota
	// KindUnauthenticated means the caller has no resolvable identity.
	KindUnauthenticated
	// KindForbidden means the identity is known but lacks role, capability,
	// or membership in the target organization.
	KindForbidden
	// KindValidation means the request is malformed or the requested
	// transition is not defined from the entity's current state.
	KindValidation
	// KindNotFound means a referenced entity or organization is absent.
	KindNotFound
	// KindConflict means a concurrent writer changed the entity between the
	// caller's read and this write.
	KindConflict
	// KindRateLimited means the caller exceeded the request rate.
	KindRateLimited
)

// Stable machine-readable codes returned in the error envelope.
const (
	CodeUnauthenticated = "unauthenticated"
	CodeForbidden       = "forbidden"
	CodeNotAMember      = "not_a_member"
	CodeValidation      = "invalid_request"
	CodeNotFound        = "not_found"
	CodeConflict        = "conflict"
	CodeRateLimited     = "rate_limited"
	CodeInternal        = "internal_error"
)

// Error is a classified application error. Message is safe to show to the
// caller; it must never reference entities in organizations the caller does
// not belong to.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	// Details carries optional field-level context (e.g. {"field": "review_notes"}).
	Details map[string]string
	// Err is the wrapped cause, if any. Not serialized.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality so callers can match with errors.Is against a
// prototype like &Error{Kind: KindForbidden}.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Code == "" || e.Code == t.Code)
}

// New returns a classified error with the default code for the kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Code: defaultCode(kind), Message: message}
}

// Newf is New with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

// Wrap returns a classified error wrapping cause. The cause is kept for
// logging but never serialized to the caller.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Code: defaultCode(kind), Message: message, Err: cause}
}

// WithCode returns a copy of e with the machine-readable code overridden.
// The receiver is left untouched so shared sentinels stay immutable.
func (e *Error) WithCode(code string) *Error {
	c := e.clone()
	c.Code = code
	return c
}

// WithDetail returns a copy of e with a field-level detail attached.
// The receiver is left untouched so shared sentinels stay immutable.
func (e *Error) WithDetail(key, value string) *Error {
	c := e.clone()
	if c.Details == nil {
		c.Details = make(map[string]string, 1)
	}
	c.Details[key] = value
	return c
}

func (e *Error) clone() *Error {
	c := *e
	if e.Details != nil {
		c.Details = make(map[string]string, len(e.Details))
		for k, v := range e.Details {
			c.Details[k] = v
		}
	}
	return &c
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, and
// KindInternal otherwise. A nil err panics; callers must check first.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps err to its HTTP status class. Unclassified errors are 500.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func defaultCode(kind Kind) string {
	switch kind {
	case KindUnauthenticated:
		return CodeUnauthenticated
	case KindForbidden:
		return CodeForbidden
	case KindValidation:
		return CodeValidation
	case KindNotFound:
		return CodeNotFound
	case KindConflict:
		return CodeConflict
	case KindRateLimited:
		return CodeRateLimited
	default:
		return CodeInternal
	}
}
