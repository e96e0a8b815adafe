package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates the generation endpoint is unreachable.
	ErrUnavailable = errors.New("llm endpoint unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the LLM response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrMissingAPIKey indicates the selected provider needs a key and none was configured.
	ErrMissingAPIKey = errors.New("llm api key not configured")

	// ErrUnauthorized indicates the provider rejected the credentials.
	ErrUnauthorized = errors.New("llm request unauthorized")

	// ErrProviderStatus indicates the provider answered with a non-success status.
	ErrProviderStatus = errors.New("llm provider returned an error status")

	// ErrEmptyResponse indicates a successful call that carried no completion.
	ErrEmptyResponse = errors.New("llm returned no completion")
)

// StatusError is a non-2xx answer from an HTTP provider.
type StatusError struct {
	Provider Provider
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Code, e.Body)
}

func (e *StatusError) Unwrap() error {
	if e.Code == 401 || e.Code == 403 {
		return ErrUnauthorized
	}
	return ErrProviderStatus
}
