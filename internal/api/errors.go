package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized is matched by any 401 or 403 response.
	ErrUnauthorized = errors.New("authentication required")
	// ErrTrialEnded is matched by a 403 upload response carrying trial_ended.
	ErrTrialEnded = errors.New("free trial ended")
	// ErrNetwork wraps transport failures (no HTTP response at all).
	ErrNetwork = errors.New("network error")
)

// APIError is a non-success response from the server.
type APIError struct {
	StatusCode int
	// Detail is the server's detail, error, or message text, whichever was set.
	Detail     string
	TrialEnded bool
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// Is lets errors.Is match the sentinel errors against an APIError.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrTrialEnded:
		return e.TrialEnded
	}
	return false
}

// DetailOf returns the server-provided detail from err, or fallback.
func DetailOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
