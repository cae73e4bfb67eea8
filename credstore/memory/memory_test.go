package memory

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealpoint/staffdesk/credstore"
)

func TestEmptyStore(t *testing.T) {
	s := NewStore()
	_, ok, err := s.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveLoadClear(t *testing.T) {
	s := NewStore()
	in := credstore.Credentials{
		Token:  "tok-abc",
		Outlet: json.RawMessage(`{"id":7,"name":"North Canteen"}`),
	}
	require.NoError(t, s.Save(in))

	out, ok, err := s.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in.Token, out.Token)
	assert.JSONEq(t, string(in.Outlet), string(out.Outlet))

	require.NoError(t, s.Clear())
	_, ok, err = s.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadReturnsCopies(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Save(credstore.Credentials{
		Token:  "tok-abc",
		Outlet: json.RawMessage(`{"id":7}`),
	}))

	out, _, err := s.Load()
	require.NoError(t, err)
	out.Outlet[0] = 'X'

	again, _, err := s.Load()
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7}`, string(again.Outlet), "callers must not be able to mutate stored state")
}
