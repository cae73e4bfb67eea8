// Package bbolt provides a BBolt-backed credstore.Store. Values are sealed
// with AES-256-GCM under a key derived from a local key file, so the bearer
// token never sits in plaintext on disk.
package bbolt

import (
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/mealpoint/staffdesk/credstore"
)

var (
	bucketName = []byte("credentials")
	keyToken   = []byte("token")
	keyOutlet  = []byte("outlet")
)

// Store implements credstore.Store backed by a BBolt database.
type Store struct {
	db      *bbolt.DB
	sealKey []byte
}

var _ credstore.Store = (*Store)(nil)

// NewStoreFromFile opens (creating if needed) the database at path and the
// sealing key file next to it.
func NewStoreFromFile(path string, options *bbolt.Options) (*Store, error) {
	sealKey, err := loadOrCreateSealKey(path)
	if err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0o600, options)
	if err != nil {
		return nil, fmt.Errorf("opening credstore db: %w", err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing credstore bucket: %w", err)
	}
	return &Store{db: db, sealKey: sealKey}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Load() (credstore.Credentials, bool, error) {
	var (
		sealedToken  []byte
		sealedOutlet []byte
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if v := b.Get(keyToken); v != nil {
			sealedToken = append([]byte(nil), v...)
		}
		if v := b.Get(keyOutlet); v != nil {
			sealedOutlet = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return credstore.Credentials{}, false, fmt.Errorf("reading credstore: %w", err)
	}
	if sealedToken == nil && sealedOutlet == nil {
		return credstore.Credentials{}, false, nil
	}
	// One key without the other means a torn or tampered store.
	if sealedToken == nil || sealedOutlet == nil {
		return credstore.Credentials{}, false, credstore.ErrCorrupt
	}

	token, err := open(s.sealKey, sealedToken)
	if err != nil {
		return credstore.Credentials{}, false, credstore.ErrCorrupt
	}
	outlet, err := open(s.sealKey, sealedOutlet)
	if err != nil {
		return credstore.Credentials{}, false, credstore.ErrCorrupt
	}
	c := credstore.Credentials{Token: string(token)}
	if len(outlet) > 0 {
		c.Outlet = outlet
	}
	return c, true, nil
}

func (s *Store) Save(c credstore.Credentials) error {
	sealedToken, err := seal(s.sealKey, []byte(c.Token))
	if err != nil {
		return err
	}
	// The outlet key is always written, even when the snapshot is empty, so
	// the pair invariant holds: both keys present or neither.
	sealedOutlet, err := seal(s.sealKey, c.Outlet)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if err := b.Put(keyToken, sealedToken); err != nil {
			return err
		}
		return b.Put(keyOutlet, sealedOutlet)
	})
}

func (s *Store) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if err := b.Delete(keyToken); err != nil {
			return err
		}
		return b.Delete(keyOutlet)
	})
}
