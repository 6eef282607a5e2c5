package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error independently of the transport.
type Kind string

const (
	// KindValue marks bad caller input: non-numeric quantities, VAT out of range.
	KindValue Kind = "value"
	// KindIO marks filesystem failures: unwritable output, unreadable logo, failed copy.
	KindIO Kind = "io"
	// KindNotFound marks a missing resource.
	KindNotFound Kind = "not_found"
	// KindInternal is everything else.
	KindInternal Kind = "internal"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"kind"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	Err     error        `json:"-"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError of the same kind and code.
// It lets callers match against the sentinel errors below with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Resource not found"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Kind: KindValue, Message: "Bad request"}
	ErrUnprocessable  = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindValue, Message: "Unprocessable entity"}
	ErrIO             = &AppError{Code: http.StatusInternalServerError, Kind: KindIO, Message: "I/O failure"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: "Internal server error"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kindForCode(code),
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindValue,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewValueError creates a value error for a single field.
func NewValueError(field, message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindValue,
		Message: message,
		Errors:  []FieldError{{Field: field, Message: message}},
	}
}

// NewIOError wraps a filesystem error. op describes what was being attempted.
func NewIOError(op string, err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindIO,
		Message: op,
		Err:     err,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: resource + " not found",
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindValue,
		Message: message,
	}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    codeForKind(kind),
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: err.Error(),
		Err:     err,
	}
}

func codeForKind(kind Kind) int {
	switch kind {
	case KindValue:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func kindForCode(code int) Kind {
	switch {
	case code == http.StatusNotFound:
		return KindNotFound
	case code >= 400 && code < 500:
		return KindValue
	default:
		return KindInternal
	}
}
