package estimation

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBrief indicates required brief input is missing. No service
	// call is made when it is returned.
	ErrInvalidBrief = errors.New("invalid project brief")

	// ErrService indicates the generation call itself failed.
	ErrService = errors.New("generation service failed")

	// ErrMalformedResponse indicates no JSON object could be extracted from
	// an otherwise successful response.
	ErrMalformedResponse = errors.New("malformed generation response")
)

// MalformedResponseError carries the verbatim response so it can be shown
// to the user when structured rendering is impossible.
type MalformedResponseError struct {
	Raw        string
	Diagnostic string
	cause      error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMalformedResponse, e.Diagnostic)
}

func (e *MalformedResponseError) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrMalformedResponse}
	}
	return []error{ErrMalformedResponse, e.cause}
}
