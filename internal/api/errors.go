package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreachable means the backend could not be contacted at all
	// (connection refused, DNS failure, or the request timed out).
	ErrUnreachable = errors.New("backend unreachable")

	// ErrUnauthorized covers bad credentials and invalid/expired tokens
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound means the requested invoice does not exist
	ErrNotFound = errors.New("invoice not found")
)

// RequestError carries the backend's error message for a failed request
// that is neither an auth nor a connectivity problem.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}
