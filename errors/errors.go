// Package errors provides unified error handling for the scopekit library.
// It implements structured error types with machine-readable codes so hosts
// can distinguish registry misuse from underlying container failures.
package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified library error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Common Error Constructors ---

// NotInitialized creates the error returned when the registry is used for a
// function name before Initialize completed for it.
func NotInitialized(functionName string) *AppError {
	return &AppError{
		Code:    ErrCodeNotInitialized,
		Message: fmt.Sprintf("function %q was not initialized; call Initialize before Resolve", functionName),
		Details: map[string]any{"function": functionName},
	}
}

// InvalidInput creates an error for a malformed argument.
func InvalidInput(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// ConfigMismatch creates the verification error for an injection point
// declared on a type that carries no configuration declaration.
func ConfigMismatch(typeName string) *AppError {
	return &AppError{
		Code:    ErrCodeConfigMismatch,
		Message: fmt.Sprintf("type %q declares injection points but no configuration", typeName),
		Details: map[string]any{"type": typeName},
	}
}

// UnnecessaryConfig creates the verification error for a configuration
// declaration on a type with no injection points.
func UnnecessaryConfig(typeName string) *AppError {
	return &AppError{
		Code:    ErrCodeUnnecessaryConfig,
		Message: fmt.Sprintf("type %q declares configuration but has no injection points", typeName),
		Details: map[string]any{"type": typeName},
	}
}

// NotRegistered creates the container error for a missing binding.
func NotRegistered(typeKey, name string) *AppError {
	e := &AppError{
		Code:    ErrCodeNotRegistered,
		Message: fmt.Sprintf("no binding registered for type %q", typeKey),
		Details: map[string]any{"type": typeKey},
	}
	if name != "" {
		e.Message = fmt.Sprintf("no binding named %q registered for type %q", name, typeKey)
		e.Details["name"] = name
	}
	return e
}

// ConstructorFailed creates the container error for a failing constructor.
func ConstructorFailed(typeKey string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeConstructorFailed,
		Message: fmt.Sprintf("constructor for type %q failed", typeKey),
		Details: map[string]any{"type": typeKey},
		Cause:   cause,
	}
}

// ScopeDisposed creates the container error for use-after-dispose.
func ScopeDisposed(scopeID string) *AppError {
	return &AppError{
		Code:    ErrCodeScopeDisposed,
		Message: "scope is disposed",
		Details: map[string]any{"scope": scopeID},
	}
}

// DependencyCycle creates the container error for a constructor that
// resolves a binding already under construction on its own resolution path.
func DependencyCycle(typeKey, name string) *AppError {
	e := &AppError{
		Code:    ErrCodeDependencyCycle,
		Message: fmt.Sprintf("type %q is already being constructed on this resolution path; constructor dependencies form a cycle", typeKey),
		Details: map[string]any{"type": typeKey},
	}
	if name != "" {
		e.Details["name"] = name
	}
	return e
}

// Internal creates a new AppError for an internal library error.
func Internal(cause error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "An internal error occurred.",
		Cause:   cause,
	}
}

// IsCode reports whether any error in err's chain is an *AppError carrying
// the given code.
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		var appErr *AppError
		if !stderrors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Unwrap()
	}
	return false
}
