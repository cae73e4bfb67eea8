// Package credstore persists the staff session credential pair: the bearer
// token and the outlet snapshot. The two values are written and cleared
// strictly together; finding one without the other means the store was
// damaged and the pair must be discarded.
package credstore

import (
	"encoding/json"
	"errors"
)

// ErrCorrupt indicates the persisted pair is unreadable or partial. Callers
// respond by clearing the store and proceeding unauthenticated.
var ErrCorrupt = errors.New("credential store corrupt")

// Credentials is the persisted pair. Outlet is the raw JSON snapshot of the
// outlet record, or nil when the account has no outlet assigned.
type Credentials struct {
	Token  string
	Outlet json.RawMessage
}

// Store is the durable home of at most one credential pair.
type Store interface {
	// Load returns the persisted pair. The boolean is false when the store
	// is empty. A partial or undecryptable pair returns ErrCorrupt.
	Load() (Credentials, bool, error)
	// Save replaces the persisted pair atomically.
	Save(Credentials) error
	// Clear removes the pair. Clearing an empty store is not an error.
	Clear() error
}
