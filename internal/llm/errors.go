// ABOUTME: Closed error taxonomy for LLM dispatch plus the boundary classifier
// ABOUTME: Raw provider error strings never leak past this file
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a dispatch failure.
type ErrorKind string

const (
	// KindMissingCredential means no usable API key; nothing was sent.
	KindMissingCredential ErrorKind = "missing_credential"
	// KindTransport is a generic network/HTTP/parse failure.
	KindTransport ErrorKind = "transport"
	// KindRateLimited is a provider 429 / rate-limit response.
	KindRateLimited ErrorKind = "rate_limited"
	// KindQuotaExceeded means the account is out of quota or billing.
	KindQuotaExceeded ErrorKind = "quota_exceeded"
	// KindServiceOverloaded is a provider 503 / overloaded response.
	KindServiceOverloaded ErrorKind = "service_overloaded"
	// KindAborted means the user cancelled; never retried.
	KindAborted ErrorKind = "aborted"
	// KindToolCallMalformed means the provider declared a tool call with
	// invalid or missing arguments.
	KindToolCallMalformed ErrorKind = "tool_call_malformed"
	// KindRecursionLimit means bounded tool-call re-entry hit its depth cap.
	KindRecursionLimit ErrorKind = "recursion_limit"
)

// DispatchError is the only error type crossing the adapter boundary.
type DispatchError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *DispatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// NewError creates a DispatchError of the given kind.
func NewError(kind ErrorKind, msg string) *DispatchError {
	return &DispatchError{Kind: kind, Msg: msg}
}

// WrapError wraps an underlying error under the given kind.
func WrapError(kind ErrorKind, msg string, err error) *DispatchError {
	return &DispatchError{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the taxonomy kind, defaulting to KindTransport for
// unclassified errors.
func KindOf(err error) ErrorKind {
	var de *DispatchError
	if errors.As(err, &de) {
		return de.Kind
	}
	if errors.Is(err, context.Canceled) {
		return KindAborted
	}
	return KindTransport
}

// IsAborted reports whether err is a user cancellation.
func IsAborted(err error) bool {
	return KindOf(err) == KindAborted
}

// Classify translates a provider failure into the closed taxonomy using the
// HTTP status when available and the error text otherwise. status 0 means
// no HTTP response was received.
func Classify(status int, err error) *DispatchError {
	if errors.Is(err, context.Canceled) {
		return WrapError(KindAborted, "request cancelled", err)
	}
	var de *DispatchError
	if errors.As(err, &de) {
		return de
	}

	switch status {
	case 429:
		return WrapError(KindRateLimited, "provider rate limit hit", err)
	case 503:
		return WrapError(KindServiceOverloaded, "provider overloaded", err)
	case 402:
		return WrapError(KindQuotaExceeded, "provider quota exhausted", err)
	}

	msg := ""
	if err != nil {
		msg = strings.ToLower(err.Error())
	}
	switch {
	case strings.Contains(msg, "429"), strings.Contains(msg, "rate limit"), strings.Contains(msg, "too many requests"):
		return WrapError(KindRateLimited, "provider rate limit hit", err)
	case strings.Contains(msg, "quota"), strings.Contains(msg, "billing"), strings.Contains(msg, "insufficient_quota"):
		return WrapError(KindQuotaExceeded, "provider quota exhausted", err)
	case strings.Contains(msg, "503"), strings.Contains(msg, "overloaded"), strings.Contains(msg, "unavailable"):
		return WrapError(KindServiceOverloaded, "provider overloaded", err)
	default:
		return WrapError(KindTransport, "provider request failed", err)
	}
}

// UserMessage maps any dispatch error to a stable user-facing string. All
// presentation goes through here so wording stays consistent across
// providers.
func UserMessage(err error) string {
	switch KindOf(err) {
	case KindMissingCredential:
		return "No API key is configured for the active provider. Add one in settings and try again."
	case KindRateLimited:
		return "The provider is rate-limiting requests. Wait a moment and try again."
	case KindQuotaExceeded:
		return "The provider account is out of quota. Check your plan or billing."
	case KindServiceOverloaded:
		return "The provider is overloaded right now. Try again shortly."
	case KindAborted:
		return "Cancelled."
	case KindToolCallMalformed:
		return "I didn't understand that request. Could you rephrase it?"
	case KindRecursionLimit:
		return "I looked up as much context as I'm allowed to in one turn. Ask again to continue."
	default:
		return "The request to the translation provider failed. Check your connection and try again."
	}
}
