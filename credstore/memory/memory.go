// Package memory provides a thread-safe in-memory implementation of
// credstore.Store. Suitable for tests and ephemeral sessions.
package memory

import (
	"sync"

	"github.com/mealpoint/staffdesk/credstore"
)

// Store is an in-memory credstore.Store. The pair is lost on process exit.
type Store struct {
	mu    sync.RWMutex
	creds credstore.Credentials
	set   bool
}

var _ credstore.Store = (*Store)(nil)

// NewStore creates an empty in-memory Store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) Load() (credstore.Credentials, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return credstore.Credentials{}, false, nil
	}
	return credstore.Credentials{
		Token:  s.creds.Token,
		Outlet: append([]byte(nil), s.creds.Outlet...),
	}, true, nil
}

func (s *Store) Save(c credstore.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = credstore.Credentials{
		Token:  c.Token,
		Outlet: append([]byte(nil), c.Outlet...),
	}
	s.set = true
	return nil
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = credstore.Credentials{}
	s.set = false
	return nil
}
