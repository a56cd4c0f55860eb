package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Defaults applied to unset Options fields
const (
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 600
	DefaultTimeout     = 60 * time.Second
)

// Generator sends a prompt to a text-generation backend and returns the raw
// text of the reply. Implementations hold only read-only configuration and
// never retry on their own.
type Generator interface {
	// Name identifies the backend, e.g. "cerebras" or "anthropic".
	Name() string
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// Options tune a single generation call
type Options struct {
	System string
	Model  string
	// Temperature is nil for the backend default; 0 is honoured
	Temperature *float64
	MaxTokens   int
	Timeout     time.Duration
}

// Float returns a pointer to v, for Options.Temperature
func Float(v float64) *float64 {
	return &v
}

// TemperatureValue returns the sampling temperature, DefaultTemperature when unset
func (o Options) TemperatureValue() float64 {
	if o.Temperature == nil {
		return DefaultTemperature
	}
	return *o.Temperature
}

// WithDefaults fills unset fields
func (o Options) WithDefaults() Options {
	if o.Temperature == nil {
		o.Temperature = Float(DefaultTemperature)
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// FailureKind classifies why a generation call produced no text
type FailureKind string

const (
	FailureNetwork   FailureKind = "network"
	FailureTimeout   FailureKind = "timeout"
	FailureAuth      FailureKind = "auth"
	FailureQuota     FailureKind = "quota"
	FailureStatus    FailureKind = "status"
	FailureMalformed FailureKind = "malformed"
	FailureCancelled FailureKind = "cancelled"
)

// GenerationError is the failed form of a generation response
type GenerationError struct {
	Provider   string
	Kind       FailureKind
	StatusCode int
	Err        error
}

func (e *GenerationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s failure (status %d): %v", e.Provider, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s failure: %v", e.Provider, e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Retryable reports whether a later attempt may succeed
func (e *GenerationError) Retryable() bool {
	switch e.Kind {
	case FailureNetwork, FailureTimeout, FailureQuota:
		return true
	case FailureStatus:
		return e.StatusCode >= http.StatusInternalServerError
	}
	return false
}

// IsRetryable reports whether err is a retryable GenerationError
func IsRetryable(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr) && genErr.Retryable()
}

// ConfigError means the selected backend cannot be constructed
type ConfigError struct {
	Provider string
	Field    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s is required", e.Provider, e.Field)
}

// failure wraps err into a GenerationError. status is the HTTP status the
// backend answered with, or 0 when unknown.
func failure(provider string, status int, err error) *GenerationError {
	return &GenerationError{
		Provider:   provider,
		Kind:       classify(status, err),
		StatusCode: status,
		Err:        err,
	}
}

// malformed reports a reply envelope without usable text
func malformed(provider string, format string, args ...interface{}) *GenerationError {
	return &GenerationError{
		Provider: provider,
		Kind:     FailureMalformed,
		Err:      fmt.Errorf(format, args...),
	}
}

func classify(status int, err error) FailureKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return FailureAuth
	case status == http.StatusTooManyRequests:
		return FailureQuota
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return FailureTimeout
	case status != 0:
		return FailureStatus
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	if errors.Is(err, context.Canceled) {
		return FailureCancelled
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return FailureTimeout
		}
		return FailureNetwork
	}
	return FailureNetwork
}
