package models

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation error")
	ErrConfiguration       = errors.New("configuration error")
	ErrWebhookVerification = errors.New("webhook verification failed")
	ErrPersistence         = errors.New("persistence error")
)

// ProviderError is a failed call to an LLM vendor. StatusCode is the HTTP
// status returned by the vendor, or 0 when the call never got a response.
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s provider error (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s provider error: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// HTTPStatus maps the vendor status onto the status returned to our caller:
// auth failures become 401, rate limits 429, everything else 500.
func (e *ProviderError) HTTPStatus() int {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return http.StatusUnauthorized
	case http.StatusTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// NewConfigurationError reports a missing secret or setting.
func NewConfigurationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
