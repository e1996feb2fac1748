package services

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAPIKey   = errors.New("gemini api key is not configured")
	ErrEmptyCompletion = errors.New("gemini returned no text")
	ErrRateSlotTimeout = errors.New("timeout waiting for Gemini rate slot")
)

const (
	msgMissingParams = "Missing required parameters"
	msgInvalidParams = "Invalid trip parameters"
	msgNoUserMessage = "No user message found"
)

type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return "Validation failed"
	}
	return e.Message
}

// UpstreamError wraps any failure talking to the model provider.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string { return fmt.Sprintf("gemini %s: %v", e.Op, e.Err) }

func (e *UpstreamError) Unwrap() error { return e.Err }

type RateLimitError struct{ Message string }

func (e *RateLimitError) Error() string { return e.Message }
