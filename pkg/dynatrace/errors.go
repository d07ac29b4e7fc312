package dynatrace

import (
	"errors"
	"fmt"
)

// Sentinel errors for API failure modes. Callers should use
// errors.Is() to check for these.
var (
	// ErrAuth indicates the API rejected the token (401/403).
	// Fatal for the whole run.
	ErrAuth = errors.New("dynatrace: authentication failed")

	// ErrUnreachable indicates the environment host could not be
	// reached (DNS failure, connection refused, timeout).
	ErrUnreachable = errors.New("dynatrace: environment unreachable")
)

// APIError is a non-auth HTTP error response from the API.
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dynatrace: request %s failed: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Temporary reports whether the error is worth retrying (429 or 5xx).
func (e *APIError) Temporary() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
