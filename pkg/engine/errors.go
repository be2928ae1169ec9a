package engine

import (
	"errors"
	"fmt"
)

// Run failures. Preconditions are checked in the order listed and stop the
// run before any request is sent.
var (
	ErrBusy                 = errors.New("a run is already in progress")
	ErrMissingConfiguration = errors.New("missing backend configuration")
	ErrIncompleteFlow       = errors.New("flow needs a condition node and a push node")
	ErrNoTokens             = errors.New("no tokens in condition node")

	// Dispatch failures.
	ErrInvalidCredential = errors.New("push service rejected the API key")
	ErrServerError       = errors.New("push service returned an error")
	ErrNetworkError      = errors.New("push service unreachable")
)

// User-facing messages.
const (
	MessageMissingConfiguration = "Missing configuration. Set Backend URL and API Key in Settings."
	MessageIncompleteFlow       = "Flow incomplete. Need Condition & Mobile Push nodes."
	MessageNoTokens             = "No tokens found in Condition node"
	MessageInvalidCredential    = "Invalid API Key. Please check your Global Settings."
	MessageNetworkError         = "Network error: Backend might be offline or URL is wrong."
	MessageGenericFailure       = "Failed to send notifications. Check backend logs."
)

// DispatchError describes why a single notification was not delivered.
type DispatchError struct {
	Kind       error  // ErrInvalidCredential, ErrServerError or ErrNetworkError
	StatusCode int    // HTTP status, zero for network errors
	Detail     string // Reason phrase of the response
	Err        error  // Transport error, if any
}

func (e *DispatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}

	if e.Detail != "" {
		return fmt.Sprintf("%v: %d %s", e.Kind, e.StatusCode, e.Detail)
	}

	return fmt.Sprintf("%v: %d", e.Kind, e.StatusCode)
}

func (e *DispatchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

// Aborts reports whether the failure ends the dispatch loop.
func (e *DispatchError) Aborts() bool {
	return errors.Is(e.Kind, ErrInvalidCredential) || errors.Is(e.Kind, ErrNetworkError)
}

// UserMessage renders err as the text shown on the status board.
func UserMessage(err error) string {
	var dispatchErr *DispatchError
	if errors.As(err, &dispatchErr) && errors.Is(dispatchErr.Kind, ErrServerError) {
		return "Server error: " + dispatchErr.Detail
	}

	switch {
	case errors.Is(err, ErrMissingConfiguration):
		return MessageMissingConfiguration
	case errors.Is(err, ErrIncompleteFlow):
		return MessageIncompleteFlow
	case errors.Is(err, ErrNoTokens):
		return MessageNoTokens
	case errors.Is(err, ErrInvalidCredential):
		return MessageInvalidCredential
	case errors.Is(err, ErrNetworkError):
		return MessageNetworkError
	default:
		return MessageGenericFailure
	}
}

// Reason returns a stable identifier for the failure kind of err.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrMissingConfiguration):
		return "missing_configuration"
	case errors.Is(err, ErrIncompleteFlow):
		return "incomplete_flow"
	case errors.Is(err, ErrNoTokens):
		return "no_tokens"
	case errors.Is(err, ErrInvalidCredential):
		return "invalid_credential"
	case errors.Is(err, ErrServerError):
		return "server_error"
	case errors.Is(err, ErrNetworkError):
		return "network_error"
	case errors.Is(err, ErrBusy):
		return "busy"
	default:
		return "unknown"
	}
}
