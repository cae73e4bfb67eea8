package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials indicates the backend rejected the supplied
	// email/password on sign-in.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionExpired indicates a 401 on an authenticated call: the bearer
	// token is no longer valid and local session state must be cleared.
	ErrSessionExpired = errors.New("session expired")
	// ErrUnavailable wraps transport failures and malformed responses. The
	// underlying cause is attached with %w for logging.
	ErrUnavailable = errors.New("backend unavailable")
)

// APIError is a non-2xx response that carries a server-supplied message.
// Callers branch on sentinel errors first and fall back to APIError for
// feature-level failures (e.g. insufficient stock).
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("backend: status %d", e.Status)
}
