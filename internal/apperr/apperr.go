// Package apperr defines the error taxonomy shared by services, middleware
// and handlers. Each error carries the HTTP status it maps to and an optional
// machine-readable code that clients branch on.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Auth gate and credential codes.
const (
	CodeNoToken            = "NO_TOKEN"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeAuthFailed         = "AUTH_FAILED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodePasswordNotSet     = "PASSWORD_NOT_SET"
	CodeForbidden          = "FORBIDDEN"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeAlreadyRequested   = "ALREADY_REQUESTED"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeRateLimited        = "RATE_LIMITED"
)

type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail attaches an extra field that is rendered into the response body.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func New(kind Kind, status int, code, message string) *Error {
	return &Error{Kind: kind, Status: status, Code: code, Message: message}
}

func Validation(message string) *Error {
	return New(KindValidation, http.StatusBadRequest, "", message)
}

func Unauthorized(code, message string) *Error {
	return New(KindUnauthorized, http.StatusUnauthorized, code, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, http.StatusForbidden, CodeForbidden, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, http.StatusNotFound, "", message)
}

func Conflict(code, message string) *Error {
	return New(KindConflict, http.StatusConflict, code, message)
}

func Internal(message string, err error) *Error {
	e := New(KindInternal, http.StatusInternalServerError, "", message)
	e.Err = err
	return e
}

// As extracts an *Error from err. Errors that are not *Error are reported as
// internal failures wrapping err.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal("Internal server error", err)
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
