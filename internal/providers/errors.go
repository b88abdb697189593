// Package providers defines the error taxonomy shared by upstream data
// clients. The sync orchestrator maps each of these onto a fallback
// behavior; none of them escape to the presentation layer.
package providers

import (
	"errors"
	"fmt"
	"time"
)

// ConfigurationError indicates a missing or placeholder credential. It is
// raised before any network attempt and is never retried automatically.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return "provider credential not configured"
	}
	return e.Reason
}

// NotFoundError indicates the upstream has no such resource; the caller
// should skip the resource permanently rather than retry.
type NotFoundError struct {
	Provider string
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: resource %s not found", e.Provider, e.Resource)
}

// AuthError indicates a rejected or insufficiently entitled credential.
type AuthError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "authentication failed"
	}
	return fmt.Sprintf("%s: %s (status=%d)", e.Provider, msg, e.StatusCode)
}

// RateLimitError captures rate limit responses from upstream providers,
// optionally with a Retry-After hint.
type RateLimitError struct {
	Provider   string
	StatusCode int
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "provider rate limited"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

// UpstreamError covers any other non-2xx response or transport fault.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "upstream request failed"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status=%d)", e.Provider, msg, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Provider, msg)
}

// AsConfigurationError attempts to unwrap an error into a ConfigurationError.
func AsConfigurationError(err error) (*ConfigurationError, bool) {
	var target *ConfigurationError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// AsNotFoundError attempts to unwrap an error into a NotFoundError.
func AsNotFoundError(err error) (*NotFoundError, bool) {
	var target *NotFoundError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// AsAuthError attempts to unwrap an error into an AuthError.
func AsAuthError(err error) (*AuthError, bool) {
	var target *AuthError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// AsRateLimitError attempts to unwrap an error into a RateLimitError.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var target *RateLimitError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
