package errorbank

import (
	"errors"
	"fmt"
)

// Kind enumerates supported application error categories.
type Kind string

const (
	KindConfiguration Kind = "configuration"
	KindConnection    Kind = "connection"
	KindProvisioning  Kind = "provisioning"
	KindGeneration    Kind = "generation"
	KindInsertion     Kind = "insertion"
	KindInternal      Kind = "internal"
)

// AppError captures rich error context shared across the pipeline stages.
type AppError struct {
	kind    Kind
	message string
	details map[string]any
	cause   error
}

// Option mutates an AppError during construction.
type Option func(*AppError)

// WithCause attaches an underlying error.
func WithCause(err error) Option {
	return func(appErr *AppError) {
		appErr.cause = err
	}
}

// WithDetail adds a single named detail value.
func WithDetail(key string, value any) Option {
	return func(appErr *AppError) {
		if appErr.details == nil {
			appErr.details = make(map[string]any)
		}
		appErr.details[key] = value
	}
}

// WithHint attaches a remediation hint surfaced to the operator.
func WithHint(hint string) Option {
	return WithDetail("hint", hint)
}

// WithDetails merges multiple detail values.
func WithDetails(details map[string]any) Option {
	return func(appErr *AppError) {
		if len(details) == 0 {
			return
		}
		if appErr.details == nil {
			appErr.details = make(map[string]any)
		}
		for k, v := range details {
			appErr.details[k] = v
		}
	}
}

// New constructs a new AppError with the supplied kind and message.
func New(kind Kind, message string, opts ...Option) *AppError {
	if message == "" {
		message = string(kind)
	}
	appErr := &AppError{kind: kind, message: message}
	for _, opt := range opts {
		opt(appErr)
	}
	return appErr
}

// Error satisfies the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Kind returns the error category.
func (e *AppError) Kind() Kind {
	if e == nil {
		return KindInternal
	}
	return e.kind
}

// Message returns the human-readable message.
func (e *AppError) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

// Details returns optional metadata about the error.
func (e *AppError) Details() map[string]any {
	if e == nil {
		return nil
	}
	return e.details
}

// Hint returns the remediation hint, if one was attached.
func (e *AppError) Hint() string {
	if e == nil || e.details == nil {
		return ""
	}
	hint, _ := e.details["hint"].(string)
	return hint
}

// ExitCode resolves the process exit status for the error kind.
func (e *AppError) ExitCode() int {
	if e == nil {
		return 1
	}
	switch e.kind {
	case KindConfiguration:
		return 2
	case KindConnection:
		return 3
	case KindProvisioning:
		return 4
	case KindGeneration:
		return 5
	case KindInsertion:
		return 6
	default:
		return 1
	}
}

// Configuration constructs an error for bad or missing configuration.
func Configuration(message string, opts ...Option) *AppError {
	return New(KindConfiguration, message, opts...)
}

// Connection constructs an error for an unreachable or unauthenticated backend.
func Connection(message string, opts ...Option) *AppError {
	return New(KindConnection, message, opts...)
}

// Provisioning constructs an error for failed schema creation.
func Provisioning(message string, opts ...Option) *AppError {
	return New(KindProvisioning, message, opts...)
}

// Generation constructs an error for an unsatisfiable data invariant.
func Generation(message string, opts ...Option) *AppError {
	return New(KindGeneration, message, opts...)
}

// Insertion constructs an error for a failed batch insert.
func Insertion(message string, opts ...Option) *AppError {
	return New(KindInsertion, message, opts...)
}

// Internal constructs a generic unexpected error.
func Internal(message string, opts ...Option) *AppError {
	return New(KindInternal, message, opts...)
}

// From returns an AppError for any error input, wrapping unexpected values.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("internal error", WithCause(err))
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Kind() == kind
}
