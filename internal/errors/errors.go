// Package errors provides error types with actionable suggestions for depsweep.
// Errors carry a kind, contextual details and a hint the CLI prints for the user.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel error kinds for use with errors.Is().
var (
	// ErrRead indicates a document, directory or ledger sidecar could not be read.
	ErrRead = errors.New("read error")
	// ErrProbe indicates the package manager "list installed" query failed.
	ErrProbe = errors.New("probe error")
	// ErrInstall indicates the package manager install command failed.
	ErrInstall = errors.New("install error")
	// ErrUsage indicates the command line was invalid.
	ErrUsage = errors.New("usage error")
	// ErrConfig indicates a configuration error.
	ErrConfig = errors.New("configuration error")
	// ErrLedger indicates the ledger sidecar could not be written.
	ErrLedger = errors.New("ledger error")
	// ErrPrompt indicates the confirmation prompt could not collect an answer.
	ErrPrompt = errors.New("prompt error")
)

// SweepError is the base error type for depsweep errors.
// It wraps an underlying error and provides additional context.
type SweepError struct {
	// Kind is the category of error (e.g., ErrRead, ErrInstall).
	Kind error
	// Message is the human-readable error message.
	Message string
	// Suggestion provides actionable advice for resolving the error.
	Suggestion string
	// Cause is the underlying error that caused this error.
	Cause error
	// Details provides additional context (e.g., file path, exit code).
	Details map[string]string
}

// Error implements the error interface.
func (e *SweepError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *SweepError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return e.Kind
}

// Is reports whether the error kind matches the target.
func (e *SweepError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// Format returns a formatted error message with details and suggestion.
func (e *SweepError) Format() string {
	var sb strings.Builder

	sb.WriteString("Error: ")
	sb.WriteString(e.Error())
	sb.WriteString("\n")

	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("\nDetails:\n")
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", k, e.Details[k]))
		}
	}

	if e.Suggestion != "" {
		sb.WriteString("\n💡 Suggestion: ")
		sb.WriteString(e.Suggestion)
		sb.WriteString("\n")
	}

	return sb.String()
}

// WithDetails adds details to the error.
func (e *SweepError) WithDetails(key, value string) *SweepError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying cause of the error.
func (e *SweepError) WithCause(cause error) *SweepError {
	e.Cause = cause
	return e
}

// New creates a new SweepError with the given kind and message.
func New(kind error, message string) *SweepError {
	return &SweepError{
		Kind:    kind,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, kind error, message string) *SweepError {
	return &SweepError{
		Kind:    kind,
		Message: message,
		Cause:   err,
	}
}

// WithSuggestion creates a new error with a suggestion.
func WithSuggestion(kind error, message, suggestion string) *SweepError {
	return &SweepError{
		Kind:       kind,
		Message:    message,
		Suggestion: suggestion,
	}
}

// As finds the first SweepError in err's chain.
func As(err error) (*SweepError, bool) {
	var se *SweepError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
