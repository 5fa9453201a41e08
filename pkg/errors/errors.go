package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorType represents the failure kind of an error
type ErrorType string

const (
	// Caller errors
	ErrorTypeValidation   ErrorType = "VALIDATION"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeBusinessRule ErrorType = "BUSINESS_RULE"

	// Server errors
	ErrorTypeInternal ErrorType = "INTERNAL"
	ErrorTypeDatabase ErrorType = "DATABASE"
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// InternalMessage is the only message clients see for server-side failures.
const InternalMessage = "An internal error occurred"

// Violation is a single failed field constraint. Path elements are field
// names (string) or array indices (int).
type Violation struct {
	Path    []any  `json:"path"`
	Message string `json:"message"`
}

// String renders the violation as "a.b[0].c: message".
func (v Violation) String() string {
	if len(v.Path) == 0 {
		return v.Message
	}
	return FormatPath(v.Path) + ": " + v.Message
}

// FormatPath renders a violation path in dotted form.
func FormatPath(path []any) string {
	var b strings.Builder
	for i, p := range path {
		switch seg := p.(type) {
		case int:
			fmt.Fprintf(&b, "[%d]", seg)
		default:
			if i > 0 {
				b.WriteByte('.')
			}
			fmt.Fprint(&b, seg)
		}
	}
	return b.String()
}

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Violations []Violation            `json:"errors,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if len(e.Violations) > 0 {
		parts := make([]string, len(e.Violations))
		for i, v := range e.Violations {
			parts[i] = v.String()
		}
		msg += " [" + strings.Join(parts, "; ") + "]"
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(" (caused by: %v)", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// Exposed reports whether Message may be shown to a client.
func (e *AppError) Exposed() bool {
	return e.HTTPStatus > 0 && e.HTTPStatus < http.StatusInternalServerError
}

func captureStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var b strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&b, "%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return b.String()
}

// NewInvalidInputError creates a validation error carrying every violation found.
func NewInvalidInputError(message string, violations []Violation) *AppError {
	if message == "" {
		message = "Invalid input"
	}
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		Violations: violations,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewValidationError creates a validation error with a single root-level violation.
func NewValidationError(message string) *AppError {
	return NewInvalidInputError(message, []Violation{{Path: []any{}, Message: message}})
}

// NewNotFoundError creates a not found error. The message is used verbatim.
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		HTTPStatus: http.StatusNotFound,
	}
}

// NewBusinessRuleError creates an error for a write that would break a domain invariant.
func NewBusinessRuleError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeBusinessRule,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		Cause:      cause,
		HTTPStatus: http.StatusInternalServerError,
		StackTrace: captureStackTrace(),
	}
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeDatabase,
		Message:    fmt.Sprintf("database operation '%s' failed", operation),
		Cause:      err,
		HTTPStatus: http.StatusInternalServerError,
		StackTrace: captureStackTrace(),
	}
}

// NewExternalError creates an error for a failed call to another service.
func NewExternalError(service string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Message:    fmt.Sprintf("external service '%s' error", service),
		Cause:      err,
		HTTPStatus: http.StatusBadGateway,
		StackTrace: captureStackTrace(),
	}
}

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsInvalidInput checks if an error is a validation error
func IsInvalidInput(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsBusinessRule checks if an error is a business-rule violation
func IsBusinessRule(err error) bool {
	return IsType(err, ErrorTypeBusinessRule)
}

// Wrap wraps an error with additional context. AppErrors keep their kind.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr := GetAppError(err); appErr != nil {
		return err
	}
	return NewInternalError(message, err)
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
