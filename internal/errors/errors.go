// Package errors defines the structured error types reported by redirect
// table construction and validation.
//
// Every error in this package is a build-time failure: by the time a table is
// published, validation has already passed, so the request-time lookup path
// carries no error branch beyond "not found". Each error carries the offending
// source and destination paths so an author can locate and fix the
// declaration that produced it.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType categorizes validation failures.
type ErrorType string

const (
	ErrorTypeRule   ErrorType = "rule"
	ErrorTypeTable  ErrorType = "table"
	ErrorTypeConfig ErrorType = "config"
	ErrorTypeIO     ErrorType = "io"
)

// Error codes for every validation failure the builder can report.
const (
	ErrCodeEmptySource         = "ERR_EMPTY_SOURCE"
	ErrCodeSelfRedirect        = "ERR_SELF_REDIRECT"
	ErrCodeConflictingRedirect = "ERR_CONFLICTING_REDIRECT"
	ErrCodeShadowsPage         = "ERR_REDIRECT_SHADOWS_PAGE"
	ErrCodeChainTooLong        = "ERR_CHAIN_TOO_LONG"
	ErrCodeRedirectCycle       = "ERR_REDIRECT_CYCLE"
	ErrCodeConfigInvalid       = "ERR_CONFIG_INVALID"
	ErrCodeInvalidPath         = "ERR_INVALID_PATH"
)

// RedirectError is a structured validation error with enough context to fix
// the offending declaration.
type RedirectError struct {
	Type        ErrorType
	Code        string
	Message     string
	Source      string
	Destination string
	// Chain holds the visited path sequence for chain and cycle errors.
	Chain []string
	Cause error
}

// Error implements the error interface.
func (e *RedirectError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}
	if e.Source != "" {
		parts = append(parts, "source:"+e.Source)
	}
	if e.Destination != "" {
		parts = append(parts, "destination:"+e.Destination)
	}
	if len(e.Chain) > 0 {
		parts = append(parts, "chain:"+strings.Join(e.Chain, " -> "))
	}

	parts = append(parts, e.Message)
	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *RedirectError) Unwrap() error {
	return e.Cause
}

// Is matches on type and code, so callers can probe for a specific
// validation failure without comparing messages.
func (e *RedirectError) Is(target error) bool {
	var t *RedirectError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// Error constructors, one per validation failure.

// NewEmptySourceError reports a rule declared with no sources.
func NewEmptySourceError(destination string) *RedirectError {
	return &RedirectError{
		Type:        ErrorTypeRule,
		Code:        ErrCodeEmptySource,
		Message:     "redirect rule has no sources",
		Destination: destination,
	}
}

// NewSelfRedirectError reports a rule whose destination is one of its own
// sources.
func NewSelfRedirectError(path string) *RedirectError {
	return &RedirectError{
		Type:        ErrorTypeRule,
		Code:        ErrCodeSelfRedirect,
		Message:     "redirect destination appears in its own sources",
		Source:      path,
		Destination: path,
	}
}

// NewConflictingRedirectError reports one source mapped to two different
// destinations.
func NewConflictingRedirectError(source, dest1, dest2 string) *RedirectError {
	return &RedirectError{
		Type:        ErrorTypeTable,
		Code:        ErrCodeConflictingRedirect,
		Message:     fmt.Sprintf("source maps to both %q and %q", dest1, dest2),
		Source:      source,
		Destination: dest1,
	}
}

// NewShadowsPageError reports a redirect source that collides with a real
// page the build pipeline will emit.
func NewShadowsPageError(source string) *RedirectError {
	return &RedirectError{
		Type:    ErrorTypeTable,
		Code:    ErrCodeShadowsPage,
		Message: "redirect source shadows a real page",
		Source:  source,
	}
}

// NewChainTooLongError reports a redirect chain exceeding the two-hop bound.
func NewChainTooLongError(chain []string) *RedirectError {
	return &RedirectError{
		Type:    ErrorTypeTable,
		Code:    ErrCodeChainTooLong,
		Message: "redirect chain exceeds the two-hop bound",
		Source:  chain[0],
		Chain:   chain,
	}
}

// NewRedirectCycleError reports a destination that revisits an already
// visited source.
func NewRedirectCycleError(chain []string) *RedirectError {
	return &RedirectError{
		Type:    ErrorTypeTable,
		Code:    ErrCodeRedirectCycle,
		Message: "redirect chain revisits an earlier path",
		Source:  chain[0],
		Chain:   chain,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(message string, cause error) *RedirectError {
	return &RedirectError{
		Type:    ErrorTypeConfig,
		Code:    ErrCodeConfigInvalid,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidPathError reports a path that is not a root-relative URL path.
func NewInvalidPathError(path, reason string) *RedirectError {
	return &RedirectError{
		Type:    ErrorTypeRule,
		Code:    ErrCodeInvalidPath,
		Message: reason,
		Source:  path,
	}
}

// IsCode reports whether err is a RedirectError carrying the given code.
func IsCode(err error, code string) bool {
	var re *RedirectError
	if errors.As(err, &re) {
		return re.Code == code
	}

	return false
}
