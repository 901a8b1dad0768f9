package api

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed call. Every failure leaving the engine is
// mapped to exactly one kind before it reaches a transport.
type ErrorKind string

const (
	// ErrorKindValidation marks a malformed request; rejected before any
	// execution resource is spent.
	ErrorKindValidation ErrorKind = "validation_error"
	// ErrorKindTimeout marks a sandboxed program that exceeded its wall-clock
	// budget.
	ErrorKindTimeout ErrorKind = "timeout"
	// ErrorKindRuntimeFault marks a user program that raised, failed to
	// compile, or violated a resource bound. The message is sanitized and
	// never echoes submitted source.
	ErrorKindRuntimeFault ErrorKind = "runtime_fault"
	// ErrorKindUnsupportedLanguage marks a request for a language with no
	// registered runner; a documented gap, not a bug.
	ErrorKindUnsupportedLanguage ErrorKind = "unsupported_language"
	// ErrorKindInternal marks an unexpected host-side failure. Transports
	// answer with a generic message and no internal detail.
	ErrorKindInternal ErrorKind = "internal_error"
)

// Error is a classified failure carrying the kind, an optional offending
// parameter, and transport-safe details.
type Error struct {
	Kind    ErrorKind      `json:"kind"`
	Param   string         `json:"param,omitempty"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s (param: %s)", e.Kind, e.Message, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// HTTPStatus maps the error kind to the transport status contract: 400 for
// request-side problems, 200 for execution-time failures (the HTTP call
// itself succeeded), 500 only for internal faults.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case ErrorKindValidation, ErrorKindUnsupportedLanguage:
		return http.StatusBadRequest
	case ErrorKindTimeout, ErrorKindRuntimeFault:
		return http.StatusOK
	case ErrorKindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// WireDetails returns the details payload for a response envelope: the
// error's own details plus its message and offending parameter.
func (e *Error) WireDetails() map[string]any {
	details := make(map[string]any, len(e.Details)+2)
	for k, v := range e.Details {
		details[k] = v
	}
	if e.Message != "" {
		details["message"] = e.Message
	}
	if e.Param != "" {
		details["param"] = e.Param
	}
	return details
}

// NewValidationError creates an Error for a malformed request field.
func NewValidationError(param, message string) *Error {
	return &Error{
		Kind:    ErrorKindValidation,
		Param:   param,
		Message: message,
	}
}

// NewTimeoutError creates an Error for an execution that hit its wall-clock
// budget after elapsedMs milliseconds.
func NewTimeoutError(elapsedMs float64) *Error {
	return &Error{
		Kind:    ErrorKindTimeout,
		Message: "execution exceeded its time budget",
		Details: map[string]any{"elapsedMs": elapsedMs},
	}
}

// NewRuntimeFaultError creates an Error for a user program that failed at
// compile or run time. faultKind names the concrete fault (syntax_error,
// uncaught_exception, stack_overflow, output_limit).
func NewRuntimeFaultError(faultKind, message string) *Error {
	return &Error{
		Kind:    ErrorKindRuntimeFault,
		Message: message,
		Details: map[string]any{"faultKind": faultKind},
	}
}

// NewUnsupportedLanguageError creates an Error naming the supported set so
// callers can distinguish a documented gap from an execution failure.
func NewUnsupportedLanguageError(language string, supported []string) *Error {
	return &Error{
		Kind:    ErrorKindUnsupportedLanguage,
		Param:   "language",
		Message: fmt.Sprintf("language %q has no registered runner", language),
		Details: map[string]any{"supported": supported},
	}
}

// NewInternalError creates an Error for unexpected host-side failures.
func NewInternalError(message string) *Error {
	return &Error{
		Kind:    ErrorKindInternal,
		Message: message,
	}
}
