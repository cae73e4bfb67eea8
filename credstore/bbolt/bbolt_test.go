package bbolt

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/mealpoint/staffdesk/credstore"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStoreFromFile(filepath.Join(dir, "credstore.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func TestRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)

	_, ok, err := s.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	in := credstore.Credentials{
		Token:  "tok-abc",
		Outlet: json.RawMessage(`{"id":7,"name":"North Canteen"}`),
	}
	require.NoError(t, s.Save(in))

	out, ok, err := s.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-abc", out.Token)
	assert.JSONEq(t, string(in.Outlet), string(out.Outlet))

	require.NoError(t, s.Clear())
	_, ok, err = s.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEmptyOutletSnapshotStillPairs(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Save(credstore.Credentials{Token: "tok-abc"}))

	out, ok, err := s.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-abc", out.Token)
	assert.Nil(t, out.Outlet)
}

func TestSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credstore.db")

	s, err := NewStoreFromFile(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Save(credstore.Credentials{
		Token:  "tok-abc",
		Outlet: json.RawMessage(`{"id":7}`),
	}))
	require.NoError(t, s.Close())

	reopened, err := NewStoreFromFile(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	out, ok, err := reopened.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-abc", out.Token)
}

func TestTornPairIsCorrupt(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Save(credstore.Credentials{
		Token:  "tok-abc",
		Outlet: json.RawMessage(`{"id":7}`),
	}))

	require.NoError(t, s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Delete(keyOutlet)
	}))

	_, _, err := s.Load()
	assert.ErrorIs(t, err, credstore.ErrCorrupt)
}

func TestTamperedCiphertextIsCorrupt(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Save(credstore.Credentials{
		Token:  "tok-abc",
		Outlet: json.RawMessage(`{"id":7}`),
	}))

	require.NoError(t, s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		sealed := append([]byte(nil), b.Get(keyToken)...)
		sealed[len(sealed)-1] ^= 0xff
		return b.Put(keyToken, sealed)
	}))

	_, _, err := s.Load()
	assert.ErrorIs(t, err, credstore.ErrCorrupt)
}

func TestWrongKeyIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credstore.db")

	s, err := NewStoreFromFile(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Save(credstore.Credentials{Token: "tok-abc"}))
	require.NoError(t, s.Close())

	// Rotating the key file out from under the database makes every sealed
	// value undecryptable.
	require.NoError(t, os.WriteFile(filepath.Join(dir, keyFileName), make([]byte, 32), 0o600))

	reopened, err := NewStoreFromFile(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	_, _, err = reopened.Load()
	assert.ErrorIs(t, err, credstore.ErrCorrupt)
}

func TestTokenSealedAtRest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credstore.db")

	s, err := NewStoreFromFile(path, nil)
	require.NoError(t, err)
	token := "super-secret-bearer-token"
	require.NoError(t, s.Save(credstore.Credentials{Token: token}))
	require.NoError(t, s.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(raw), token), "token must not appear in plaintext on disk")

	info, err := os.Stat(filepath.Join(dir, keyFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
