package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// Code is the machine-readable error code rendered in the error envelope.
type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodeStateConflict Code = "STATE_CONFLICT"
	CodeRateLimit     Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeDependency    Code = "DEPENDENCY_ERROR"
)

// Metadata describes how a code is rendered to clients.
//
// ExposeMessage lets the error's own message reach the client; otherwise the
// PublicMessage is used. Server-side codes never expose their message because
// it may carry query or driver text.
type Metadata struct {
	HTTPStatus     int
	PublicMessage  string
	ExposeMessage  bool
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:    {http.StatusBadRequest, "validation failed", true, true},
	CodeUnauthorized:  {http.StatusUnauthorized, "authentication required", true, false},
	CodeForbidden:     {http.StatusForbidden, "access denied", true, false},
	CodeNotFound:      {http.StatusNotFound, "resource not found", true, false},
	CodeConflict:      {http.StatusConflict, "conflict detected", true, false},
	CodeStateConflict: {http.StatusUnprocessableEntity, "state transition disallowed", true, true},
	CodeRateLimit:     {http.StatusTooManyRequests, "rate limit exceeded", true, false},
	CodeInternal:      {http.StatusInternalServerError, "internal server error", false, false},
	CodeDependency:    {http.StatusServiceUnavailable, "dependency unavailable", false, true},
}

// MetadataFor returns the rendering rules for code. Unknown codes render as
// internal errors.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// Error is a typed error carrying a Code, a message, optional client details
// and the underlying cause.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Wrap attaches code and message to err. A nil err behaves like New.
func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

// PublicMessage is the message safe to show a client for this error.
func (e *Error) PublicMessage() string {
	meta := MetadataFor(e.Code())
	if meta.ExposeMessage && e.Message() != "" {
		return e.Message()
	}
	return meta.PublicMessage
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As returns the outermost *Error in err's chain, or nil.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsCode reports whether err carries the provided typed code.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}
