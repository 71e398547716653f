// SPDX-License-Identifier: AGPL-3.0-only
package errors

import (
	"fmt"
	"strings"
)

// ConfigurationError indicates a missing or unusable credential. It fails the
// current invocation but never the process.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// MissingAPIKey creates the configuration error for an absent Gemini API key
func MissingAPIKey() error {
	return &ConfigurationError{
		Message: "GEMINI_API_KEY environment variable is not set. Get an API key at https://aistudio.google.com/app/apikey",
	}
}

// ValidationError aggregates every constraint violated by a tool request,
// one field-qualified message per violation.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s", strings.Join(e.Violations, "; "))
}

// Validation creates a ValidationError from the collected violations
func Validation(violations ...string) error {
	return &ValidationError{Violations: violations}
}

// InvalidInput creates a single-violation ValidationError
func InvalidInput(reason string) error {
	return &ValidationError{Violations: []string{reason}}
}

// UpstreamError indicates a failed Gemini API call: a non-success HTTP
// status, or an error payload embedded in the response body.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("Gemini API error (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("Gemini API error: %s", e.Message)
}

// Upstream creates an UpstreamError for the given status and message
func Upstream(statusCode int, message string) error {
	return &UpstreamError{StatusCode: statusCode, Message: message}
}

// EmptyResponseError indicates a well-formed upstream response that carried
// no extractable text.
type EmptyResponseError struct{}

func (e *EmptyResponseError) Error() string {
	return "No response content returned"
}

// EmptyResponse creates an EmptyResponseError
func EmptyResponse() error {
	return &EmptyResponseError{}
}

// Internal creates a formatted "internal error" error
func Internal(err error) error {
	return fmt.Errorf("internal error: %v", err)
}
