// Package errors defines the typed errors shared by the documentation server
// and the suggestion formatting used by the command line.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeSecurity   ErrorType = "security"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeContent    ErrorType = "content"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeInternal   ErrorType = "internal"
)

// Error codes
const (
	ErrCodeInvalidPath       = "ERR_INVALID_PATH"
	ErrCodePathTraversal     = "ERR_PATH_TRAVERSAL"
	ErrCodeInvalidOrigin     = "ERR_INVALID_ORIGIN"
	ErrCodeConnectionLimit   = "ERR_CONNECTION_LIMIT"
	ErrCodeWebSocket         = "ERR_WEBSOCKET"
	ErrCodeConfigInvalid     = "ERR_CONFIG_INVALID"
	ErrCodeUnsupportedLocale = "ERR_UNSUPPORTED_LOCALE"
	ErrCodePageNotFound      = "ERR_PAGE_NOT_FOUND"
	ErrCodeFrontMatter       = "ERR_FRONT_MATTER"
	ErrCodeNavigation        = "ERR_NAVIGATION"
	ErrCodeMetadata          = "ERR_METADATA"
	ErrCodeRender            = "ERR_RENDER"
	ErrCodeInternalError     = "ERR_INTERNAL"
)

// DocsError is a structured error type with context.
type DocsError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Locale      string
	FilePath    string
	Line        int
	Recoverable bool
}

// Error implements the error interface.
func (e *DocsError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Locale != "" {
		parts = append(parts, "locale:"+e.Locale)
	}

	if e.FilePath != "" {
		location := e.FilePath
		if e.Line > 0 {
			location += fmt.Sprintf(":%d", e.Line)
		}
		parts = append(parts, location)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *DocsError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DocsError with the same type and code.
func (e *DocsError) Is(target error) bool {
	var t *DocsError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *DocsError) WithContext(key string, value interface{}) *DocsError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithLocation adds file location information.
func (e *DocsError) WithLocation(filePath string, line int) *DocsError {
	e.FilePath = filePath
	e.Line = line

	return e
}

// WithLocale records the locale the error belongs to.
func (e *DocsError) WithLocale(locale string) *DocsError {
	e.Locale = locale

	return e
}

// Error creation functions

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *DocsError {
	return &DocsError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewSecurityError creates a security error.
func NewSecurityError(code, message string) *DocsError {
	return &DocsError{
		Type:    ErrorTypeSecurity,
		Code:    code,
		Message: message,
	}
}

// NewContentError creates an error for a page or data file that cannot be
// used. Content errors are recoverable: the rest of the site still serves.
func NewContentError(code, message string, cause error) *DocsError {
	return &DocsError{
		Type:        ErrorTypeContent,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *DocsError {
	return &DocsError{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string, cause error) *DocsError {
	return &DocsError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *DocsError {
	return &DocsError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrap wraps err with a new type, code and message. A nil err stays nil.
func Wrap(err error, errType ErrorType, code, message string) *DocsError {
	if err == nil {
		return nil
	}

	wrapped := &DocsError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeValidation || errType == ErrorTypeContent,
	}

	var de *DocsError
	if errors.As(err, &de) {
		wrapped.Context = de.Context
		wrapped.Locale = de.Locale
		wrapped.FilePath = de.FilePath
		wrapped.Line = de.Line
	}

	return wrapped
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var de *DocsError
	if errors.As(err, &de) {
		return de.Recoverable
	}

	return false
}

// IsNotFound reports whether err describes a missing page or locale.
func IsNotFound(err error) bool {
	var de *DocsError
	if errors.As(err, &de) {
		return de.Type == ErrorTypeNotFound
	}

	return false
}

// HTTPStatus maps an error to the status code a handler should answer with.
func HTTPStatus(err error) int {
	var de *DocsError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}

	switch de.Type {
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeSecurity:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Helper functions for common errors

// ErrInvalidPath creates a path validation error.
func ErrInvalidPath(path, reason string) *DocsError {
	return NewValidationError(ErrCodeInvalidPath, fmt.Sprintf("invalid path %q: %s", path, reason)).
		WithContext("path", path)
}

// ErrPathTraversal creates a path traversal security error.
func ErrPathTraversal(path string) *DocsError {
	return NewSecurityError(ErrCodePathTraversal, "path traversal attempt: "+path).
		WithContext("path", path)
}

// ErrConnectionLimit reports a client that holds too many live reload
// connections.
func ErrConnectionLimit(ip string, limit int) *DocsError {
	return NewSecurityError(ErrCodeConnectionLimit, fmt.Sprintf("too many connections from %s", ip)).
		WithContext("limit", limit)
}

// ErrInvalidOrigin creates an invalid origin security error.
func ErrInvalidOrigin(origin string) *DocsError {
	return NewSecurityError(ErrCodeInvalidOrigin, "invalid origin: "+origin)
}

// ErrUnsupportedLocale reports a locale outside the configured set.
func ErrUnsupportedLocale(locale string) *DocsError {
	return NewValidationError(ErrCodeUnsupportedLocale, "unsupported locale: "+locale)
}

// ErrPageNotFound reports a route with no page in the given locale.
func ErrPageNotFound(locale, route string) *DocsError {
	return &DocsError{
		Type:        ErrorTypeNotFound,
		Code:        ErrCodePageNotFound,
		Message:     "page not found: " + route,
		Locale:      locale,
		Recoverable: true,
	}
}
