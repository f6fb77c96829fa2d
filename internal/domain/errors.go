package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Dispatch errors.
var (
	ErrUnknownCommand = errors.New("unknown command")
)

// External service errors.
var (
	ErrProviderUnavailable = errors.New("identity provider unavailable")
)

// AuthenticationError signals a failed credential exchange with the
// identity provider. The session is left unauthenticated so the next
// command retries the exchange.
type AuthenticationError struct {
	Cause error
}

func (e *AuthenticationError) Error() string {
	return "authentication with identity provider failed: " + e.Cause.Error()
}

func (e *AuthenticationError) Unwrap() error {
	return e.Cause
}

// ValidationError aggregates every field violation found in a command's
// arguments. Violations maps a field name to a human-readable reason.
type ValidationError struct {
	Violations map[string]string
}

func (e *ValidationError) Error() string {
	return "invalid arguments: " + e.Detail()
}

// Detail renders all violations in deterministic field order.
func (e *ValidationError) Detail() string {
	fields := make([]string, 0, len(e.Violations))
	for field := range e.Violations {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Violations[field]))
	}
	return strings.Join(parts, "; ")
}

// NotFoundError signals that a named entity does not exist upstream.
type NotFoundError struct {
	Kind       string // "Client", "User", ...
	Identifier string
	Realm      string
}

func (e *NotFoundError) Error() string {
	if e.Realm == "" {
		return fmt.Sprintf("%s '%s' not found.", e.Kind, e.Identifier)
	}
	return fmt.Sprintf("%s '%s' not found in realm '%s'.", e.Kind, e.Identifier, e.Realm)
}

// UpstreamError wraps any other provider failure, carrying the operation
// that failed. The underlying message is surfaced verbatim to the caller.
type UpstreamError struct {
	Op    string
	Cause error
}

func (e *UpstreamError) Error() string {
	return e.Op + ": " + e.Cause.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}
