package session

import (
	"fmt"

	"github.com/mealpoint/staffdesk/backend"
)

// Sentinels re-exported from the backend client so callers branch on one
// package. Callers use errors.Is/errors.As, never message text.
var (
	ErrInvalidCredentials = backend.ErrInvalidCredentials
	ErrSessionExpired     = backend.ErrSessionExpired
	ErrUnavailable        = backend.ErrUnavailable
)

// ValidationError is a client-side pre-flight failure. Operations returning
// it never reached the network. Field names the offending input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
